package server

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"foxie/internal/apikey"
	"foxie/internal/fields"
	"foxie/internal/llm"
	"foxie/internal/scaffold"
)

func toConnectError(err error) error {
	var (
		pe *fields.ParseError
		ie *scaffold.InputError
		ce *apikey.ConfigError
	)
	switch {
	case errors.As(err, &ce):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.As(err, &pe), errors.As(err, &ie):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case llm.IsTransient(err):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// wsCode is the lower-case code name sent in websocket error frames.
func wsCode(err error) string {
	return connect.CodeOf(toConnectError(err)).String()
}
