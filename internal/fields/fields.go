// Package fields parses compact `name:type,name:type` resource field lists.
package fields

import (
	"fmt"
	"strings"

	"foxie/internal/types"
)

// ParseError reports the segment that could not be parsed.
type ParseError struct {
	Segment string
	Reason  string
}

func (e *ParseError) Error() string {
	if e.Segment == "" {
		return "fields: " + e.Reason
	}
	return fmt.Sprintf("fields: invalid field format %q: %s", e.Segment, e.Reason)
}

// Parse splits spec on commas and each segment on ':'. Empty segments are
// skipped. Any malformed segment fails the whole input.
func Parse(spec string) ([]types.Field, error) {
	var out []types.Field
	for _, seg := range strings.Split(spec, ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		parts := strings.Split(seg, ":")
		if len(parts) != 2 {
			return nil, &ParseError{Segment: seg, Reason: "expected 'name:type'"}
		}
		name := strings.TrimSpace(parts[0])
		typ := strings.TrimSpace(parts[1])
		if name == "" || typ == "" {
			return nil, &ParseError{Segment: seg, Reason: "name and type cannot be empty"}
		}
		out = append(out, types.Field{Name: name, Type: typ})
	}
	return out, nil
}

// Format renders fields back to the compact form.
func Format(fs []types.Field) string {
	parts := make([]string, 0, len(fs))
	for _, f := range fs {
		parts = append(parts, f.Name+":"+f.Type)
	}
	return strings.Join(parts, ", ")
}

// Bullets renders one `- name: type` line per field.
func Bullets(fs []types.Field) string {
	var b strings.Builder
	for _, f := range fs {
		fmt.Fprintf(&b, "- %s: %s\n", f.Name, f.Type)
	}
	return strings.TrimRight(b.String(), "\n")
}
