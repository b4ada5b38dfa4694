package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reply struct {
	Content     string `json:"content"`
	Description string `json:"description"`
}

func TestUnmarshalFlex(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want reply
	}{
		{"plain", `{"content":"package a","description":"d"}`, reply{"package a", "d"}},
		{"fenced", "```json\n{\"content\":\"x\",\"description\":\"y\"}\n```", reply{"x", "y"}},
		{"prose around", "Here you go:\n{\"content\":\"x\"}\nThanks", reply{Content: "x"}},
		{"quoted document", `"{\"content\":\"q\"}"`, reply{Content: "q"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got reply
			require.NoError(t, UnmarshalFlex([]byte(tc.in), &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeJSONUnicode_DoubleEscaped(t *testing.T) {
	out, err := NormalizeJSONUnicode([]byte(`{"content":"a \\u003e b"}`))
	require.NoError(t, err)
	assert.Equal(t, `{"content":"a > b"}`, string(out))
}

func TestExtract_NoJSON(t *testing.T) {
	_, err := Extract([]byte("  no json here "))
	assert.ErrorIs(t, err, ErrNoJSON)
	_, err = Extract(nil)
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestMarshalNoEscape(t *testing.T) {
	b, err := MarshalNoEscape(map[string]string{"c": "a < b && c > d"})
	require.NoError(t, err)
	assert.Equal(t, `{"c":"a < b && c > d"}`, string(b))
}
