package llmtool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// PromptField describes a single output field in a simple schema.
type PromptField struct {
	Name        string
	Type        string
	Required    bool
	Description string
}

// PromptExample captures an optional input/output example.
type PromptExample struct {
	InputJSON  string
	OutputJSON string
}

// Section is a free-form titled block rendered after INPUT, e.g. a style
// example or the content of a related file.
type Section struct {
	Title string
	Body  string
}

// StructuredPromptSpec defines the sections for a structured prompt.
type StructuredPromptSpec struct {
	Purpose      string
	Background   string
	Input        any
	Sections     []Section
	OutputFields []PromptField
	Constraints  []string
	Rules        []string
	Assumptions  []string
	OutputFormat string
	Examples     []PromptExample
}

// Render builds the prompt text. Empty sections are omitted.
func Render(spec StructuredPromptSpec) (string, error) {
	if strings.TrimSpace(spec.Purpose) == "" {
		return "", fmt.Errorf("llmtool: purpose is empty")
	}
	if len(spec.OutputFields) == 0 {
		return "", fmt.Errorf("llmtool: output fields are empty")
	}
	var inputJSON string
	if spec.Input != nil {
		b, err := json.MarshalIndent(spec.Input, "", "  ")
		if err != nil {
			return "", fmt.Errorf("llmtool: encode input: %w", err)
		}
		inputJSON = string(b)
	}

	var buf bytes.Buffer
	writeSection(&buf, "PURPOSE", spec.Purpose)
	writeSection(&buf, "BACKGROUND", spec.Background)
	writeSection(&buf, "INPUT", inputJSON)
	for _, s := range spec.Sections {
		writeSection(&buf, strings.ToUpper(strings.TrimSpace(s.Title)), s.Body)
	}
	writeSection(&buf, "OUTPUT", formatFields(spec.OutputFields))
	writeSection(&buf, "CONSTRAINTS", formatList(spec.Constraints))
	writeSection(&buf, "RULES", formatList(spec.Rules))
	writeSection(&buf, "ASSUMPTIONS", formatList(spec.Assumptions))
	writeSection(&buf, "OUTPUT_FORMAT", spec.OutputFormat)
	if len(spec.Examples) > 0 {
		writeSection(&buf, "EXAMPLES", formatExamples(spec.Examples))
	}
	return strings.TrimSpace(buf.String()) + "\n", nil
}

func formatFields(fields []PromptField) string {
	var buf strings.Builder
	for _, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			continue
		}
		req := "optional"
		if f.Required {
			req = "required"
		}
		if f.Description != "" {
			fmt.Fprintf(&buf, "- %s (%s, %s): %s\n", name, f.Type, req, f.Description)
		} else {
			fmt.Fprintf(&buf, "- %s (%s, %s)\n", name, f.Type, req)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func formatList(items []string) string {
	var buf strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		fmt.Fprintf(&buf, "- %s\n", item)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func formatExamples(examples []PromptExample) string {
	var buf strings.Builder
	for i, ex := range examples {
		fmt.Fprintf(&buf, "Example %d:\n", i+1)
		writeLabeled(&buf, "INPUT", ex.InputJSON)
		writeLabeled(&buf, "OUTPUT", ex.OutputJSON)
		buf.WriteString("\n")
	}
	return strings.TrimRight(buf.String(), "\n")
}

func writeLabeled(buf *strings.Builder, label, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	buf.WriteString(label + ":\n" + body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
}

func writeSection(buf *bytes.Buffer, title, body string) {
	if title == "" || strings.TrimSpace(body) == "" {
		return
	}
	buf.WriteString("[")
	buf.WriteString(title)
	buf.WriteString("]\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
}
