package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/videovault/pkg/logger"
	"github.com/dmitrymomot/videovault/pkg/validator"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

type errorInfo struct {
	status int
	body   ErrorBody
}

const internalMessage = "Internal server error"

func classifyError(err error) errorInfo {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		msg := httpErr.Message
		if msg == "" {
			msg = http.StatusText(httpErr.Code)
		}
		return errorInfo{status: httpErr.Code, body: ErrorBody{Error: msg, Code: httpErr.Key}}
	}

	if ve, ok := validator.Extract(err); ok {
		msg := "Validation failed"
		if len(ve) == 1 {
			msg = ve[0].Field + ": " + ve[0].Message
		}
		return errorInfo{
			status: http.StatusBadRequest,
			body:   ErrorBody{Error: msg, Code: "validation_error", Fields: ve.Fields()},
		}
	}

	if errors.Is(err, ErrInvalidJSON) || errors.Is(err, ErrInvalidQuery) {
		return errorInfo{status: http.StatusBadRequest, body: ErrorBody{Error: err.Error(), Code: "bad_request"}}
	}
	if errors.Is(err, ErrUnsupportedMediaType) {
		return errorInfo{status: http.StatusUnsupportedMediaType, body: ErrorBody{Error: err.Error(), Code: ErrUnsupportedMedia.Key}}
	}

	return errorInfo{
		status: http.StatusInternalServerError,
		body:   ErrorBody{Error: internalMessage, Code: ErrInternalServerError.Key},
	}
}

func writeError(w http.ResponseWriter, info errorInfo) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(info.status)
	_ = json.NewEncoder(w).Encode(info.body)
}

// NewErrorHandler returns the service-wide error handler. Client errors are
// logged at warn, server errors at error; 5xx bodies never leak err's text.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}
	return func(ctx Context, err error) {
		info := classifyError(err)

		level := slog.LevelError
		if info.status < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		r := ctx.Request()
		log.LogAttrs(r.Context(), level, "request failed",
			logger.Error(err),
			slog.Int("status", info.status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("http"),
		)

		writeError(ctx.ResponseWriter(), info)
	}
}

// WriteError writes err as a JSON error response outside of Wrap, e.g. from
// middleware.
func WriteError(w http.ResponseWriter, err error) {
	writeError(w, classifyError(err))
}
