package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/retailetl/internal/core"
	"github.com/JonMunkholm/retailetl/internal/logging"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
	Code   string `json:"code"`
}

// respondError logs err with request context and writes the mapped,
// user-facing message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	uerr := core.NewUserError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", uerr.Technical.Error(),
		"code", uerr.User.Code,
	)

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: uerr.Error(), Action: uerr.User.Action, Code: uerr.User.Code})
}

// statusFor picks the HTTP status for a failed snapshot read.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrTooManySnapshots):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
