// internal/errors/mapper.go
package errors

import (
	"context"
	stderrors "errors"
	"net/http"
)

// Map converts engine/repo errors into an HTTP status and a client-safe
// message. Keeps the handler layer clean by centralizing error mapping.
func Map(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}

	var e *Error
	switch {
	case stderrors.As(err, &e):
		switch e.Kind {
		case KindValidation:
			return http.StatusBadRequest, e.Msg
		case KindConflict:
			return http.StatusConflict, e.Msg
		case KindNotFound:
			return http.StatusNotFound, e.Msg
		default:
			return http.StatusInternalServerError, "internal error"
		}

	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"

	case stderrors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "request was canceled"

	default:
		// unclassified: treat like a storage fault, leak nothing
		return http.StatusInternalServerError, "internal error"
	}
}
