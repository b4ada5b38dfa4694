package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"foxie/internal/utils"
)

// ErrNoJSON is returned when no JSON value can be located in a reply.
var ErrNoJSON = errors.New("jsonutil: no JSON value found")

// MarshalNoEscape encodes v into JSON without escaping <, >, & into \u003c, etc.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Extract returns the JSON payload of a model reply. It strips one markdown
// fence and, when prose surrounds the value, keeps the outermost {...} or [...].
func Extract(raw []byte) ([]byte, error) {
	s := strings.TrimSpace(utils.StripCodeFence(string(raw)))
	if s == "" {
		return nil, ErrNoJSON
	}
	if json.Valid([]byte(s)) {
		return []byte(s), nil
	}
	for _, pair := range [][2]string{{"{", "}"}, {"[", "]"}} {
		i := strings.Index(s, pair[0])
		j := strings.LastIndex(s, pair[1])
		if i >= 0 && j > i {
			return []byte(s[i : j+1]), nil
		}
	}
	return nil, ErrNoJSON
}

// UnescapeUnicodeString converts leftover unicode escapes like "\u003e" into
// actual characters. Strings without escapes are returned unchanged.
func UnescapeUnicodeString(s string) (string, error) {
	if !strings.Contains(s, `\u`) {
		return s, nil
	}
	esc := strings.ReplaceAll(s, `"`, `\"`)
	var out string
	if err := json.Unmarshal([]byte(`"`+esc+`"`), &out); err != nil {
		return "", err
	}
	return out, nil
}

// NormalizeJSONUnicode parses JSON bytes and recursively unescapes any remaining
// double-escaped unicode sequences (e.g. "\\u003e") inside string values.
// A payload that is itself a quoted JSON document is unwrapped first.
func NormalizeJSONUnicode(raw []byte) ([]byte, error) {
	var anyVal any
	if err := json.Unmarshal(raw, &anyVal); err != nil {
		return nil, err
	}
	if s, ok := anyVal.(string); ok {
		var inner any
		if err := json.Unmarshal([]byte(s), &inner); err != nil {
			return nil, errors.New("jsonutil: cannot parse quoted JSON payload")
		}
		anyVal = inner
	}
	return MarshalNoEscape(deepUnescape(anyVal))
}

// UnmarshalFlex tries to unmarshal a model reply into v with best effort:
// 1) Extract the JSON value (fences, surrounding prose)
// 2) Direct unmarshal
// 3) Normalize and unmarshal
func UnmarshalFlex(raw []byte, v any) error {
	payload, err := Extract(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, v); err == nil {
		return nil
	}
	norm, err := NormalizeJSONUnicode(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(norm, v)
}

// UnmarshalRaw accepts json.RawMessage directly.
func UnmarshalRaw(raw json.RawMessage, v any) error {
	return UnmarshalFlex([]byte(raw), v)
}

// deepUnescape recursively traverses maps and slices,
// unescaping unicode sequences in all string values.
func deepUnescape(v any) any {
	switch x := v.(type) {
	case string:
		if s, err := UnescapeUnicodeString(x); err == nil {
			return s
		}
		return x
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = deepUnescape(x[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, vv := range x {
			out[k] = deepUnescape(vv)
		}
		return out
	default:
		return v
	}
}
