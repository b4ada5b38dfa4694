package llmtool

import (
	"encoding/json"
	"fmt"

	"foxie/internal/util/jsonutil"
)

// Decode unmarshals a model reply into T, tolerating fences and stray prose.
func Decode[T any](raw json.RawMessage) (T, error) {
	var out T
	if err := jsonutil.UnmarshalRaw(raw, &out); err != nil {
		return out, fmt.Errorf("llmtool: decode reply: %w", err)
	}
	return out, nil
}
