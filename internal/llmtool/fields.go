package llmtool

import (
	"fmt"
	"reflect"
	"strings"

	genai "google.golang.org/genai"
)

// Struct tags read by FieldsFromStruct and SchemaFromStruct:
//
//	json:"name"            field name (falls back to snake_case)
//	prompt_desc:"..."      description shown to the model
//	prompt:"optional"      marks the field optional; "-" skips it
//	prompt_enum:"a|b|c"    allowed string values
const (
	tagName   = "json"
	tagDesc   = "prompt_desc"
	tagPrompt = "prompt"
	tagEnum   = "prompt_enum"
)

type structField struct {
	name     string
	desc     string
	required bool
	enum     []string
	typ      reflect.Type
}

func walkStruct(v any) ([]structField, error) {
	if v == nil {
		return nil, fmt.Errorf("llmtool: struct is nil")
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("llmtool: expected struct, got %s", t.Kind())
	}
	return structFields(t), nil
}

func structFields(t reflect.Type) []structField {
	out := make([]structField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		opts := tagParts(f.Tag.Get(tagPrompt))
		if opts["-"] {
			continue
		}
		name := fieldName(f)
		if name == "" {
			continue
		}
		sf := structField{
			name:     name,
			desc:     strings.TrimSpace(f.Tag.Get(tagDesc)),
			required: !opts["optional"],
			typ:      f.Type,
		}
		if e := strings.TrimSpace(f.Tag.Get(tagEnum)); e != "" {
			sf.enum = strings.Split(e, "|")
		}
		out = append(out, sf)
	}
	return out
}

// FieldsFromStruct builds prompt fields from a Go struct using tags.
func FieldsFromStruct(v any) ([]PromptField, error) {
	sfs, err := walkStruct(v)
	if err != nil {
		return nil, err
	}
	fields := make([]PromptField, 0, len(sfs))
	for _, sf := range sfs {
		desc := sf.desc
		if len(sf.enum) > 0 {
			desc = strings.TrimSpace(desc + " One of: " + strings.Join(sf.enum, ", ") + ".")
		}
		fields = append(fields, PromptField{
			Name:        sf.name,
			Type:        typeString(sf.typ),
			Required:    sf.required,
			Description: desc,
		})
	}
	return fields, nil
}

// MustFieldsFromStruct panics on error; useful for prompt spec literals.
func MustFieldsFromStruct(v any) []PromptField {
	fields, err := FieldsFromStruct(v)
	if err != nil {
		panic(err)
	}
	return fields
}

// SchemaFromStruct derives the response schema requested from the model.
// Property order follows the struct field order.
func SchemaFromStruct(v any) (*genai.Schema, error) {
	if _, err := walkStruct(v); err != nil {
		return nil, err
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return schemaFor(t), nil
}

// MustSchemaFromStruct panics on error.
func MustSchemaFromStruct(v any) *genai.Schema {
	s, err := SchemaFromStruct(v)
	if err != nil {
		panic(err)
	}
	return s
}

func schemaFor(t reflect.Type) *genai.Schema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return &genai.Schema{Type: genai.TypeString}
	case reflect.Bool:
		return &genai.Schema{Type: genai.TypeBoolean}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &genai.Schema{Type: genai.TypeInteger}
	case reflect.Float32, reflect.Float64:
		return &genai.Schema{Type: genai.TypeNumber}
	case reflect.Slice, reflect.Array:
		return &genai.Schema{Type: genai.TypeArray, Items: schemaFor(t.Elem())}
	case reflect.Struct:
		s := &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}}
		for _, sf := range structFields(t) {
			p := schemaFor(sf.typ)
			p.Description = sf.desc
			if len(sf.enum) > 0 {
				p.Enum = sf.enum
			}
			s.Properties[sf.name] = p
			s.PropertyOrdering = append(s.PropertyOrdering, sf.name)
			if sf.required {
				s.Required = append(s.Required, sf.name)
			}
		}
		return s
	default:
		return &genai.Schema{Type: genai.TypeString}
	}
}

func tagParts(tag string) map[string]bool {
	out := map[string]bool{}
	for _, part := range strings.Split(tag, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out[part] = true
		}
	}
	return out
}

func fieldName(f reflect.StructField) string {
	tag := strings.TrimSpace(f.Tag.Get(tagName))
	if tag != "" {
		name := strings.Split(tag, ",")[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return toSnake(f.Name)
}

func typeString(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "bool"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "[]" + typeString(t.Elem())
	case reflect.Struct:
		return "object"
	default:
		return t.Kind().String()
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := rune(s[i-1])
			if prev >= 'a' && prev <= 'z' {
				b.WriteByte('_')
			}
		}
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
