// Package apikey validates the credential for the generation service.
//
// It only ever looks at the value it is given. Sourcing a key from the
// environment or config files is the job of the caller (see internal/config).
package apikey

import (
	"errors"
	"fmt"
	"strings"
)

// MinKeyLength is the shortest key accepted. This is a shape check only.
const MinKeyLength = 20

var (
	ErrMissingKey = errors.New("api key is missing")
	ErrInvalidKey = errors.New("api key format is invalid")
)

// ConfigError is returned for a missing or malformed credential.
type ConfigError struct {
	Err  error
	Hint string
}

func (e *ConfigError) Error() string {
	if e.Hint == "" {
		return "config: " + e.Err.Error()
	}
	return fmt.Sprintf("config: %v: %s", e.Err, e.Hint)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Resolve validates provided. An empty string means "no key". When no key
// is given and raiseIfMissing is false it returns ok=false and no error.
func Resolve(provided string, raiseIfMissing bool) (key string, ok bool, err error) {
	if provided == "" {
		if raiseIfMissing {
			return "", false, &ConfigError{
				Err:  ErrMissingKey,
				Hint: "pass a Gemini API key explicitly (flag, request field, or the CLI config)",
			}
		}
		return "", false, nil
	}
	key = strings.TrimSpace(provided)
	if len(key) < MinKeyLength {
		return "", false, &ConfigError{
			Err:  ErrInvalidKey,
			Hint: fmt.Sprintf("expected at least %d characters", MinKeyLength),
		}
	}
	return key, true, nil
}
