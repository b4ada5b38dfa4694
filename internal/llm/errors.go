package llm

import (
	"errors"
	"strings"
)

var ErrInvalidJSON = errors.New("llm: invalid JSON from model")

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// transientMarkers identify a temporarily overloaded service. Matching is on
// the error text because the SDK surfaces these as plain API errors.
var transientMarkers = []string{
	"temporarily unavailable",
	"unavailable",
	"overloaded",
	"503",
	"try again later",
}

// IsTransient reports whether err looks like a retryable overload failure.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var p *PermanentError
	if errors.As(err, &p) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
