// Package apperr is the business-rule error taxonomy shared by every
// handler. Each kind maps to one HTTP status; anything that is not an
// *Error is treated as an internal failure and surfaced as a generic 500.
package apperr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Kind int

const (
	// KindValidation - malformed or out-of-range input.
	KindValidation Kind = iota
	// KindPermission - authenticated but not allowed on this resource.
	KindPermission
	// KindNotFound - absent, or not visible to the caller.
	KindNotFound
	// KindConflict - uniqueness violation.
	KindConflict
	// KindState - operation invalid for the entity's current status.
	KindState
)

type Error struct {
	Kind   Kind
	Msg    string
	Fields map[string]string
}

func (e *Error) Error() string { return e.Msg }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Msg: msg} }
func Permission(msg string) *Error { return &Error{Kind: KindPermission, Msg: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Msg: msg} }
func Conflict(msg string) *Error   { return &Error{Kind: KindConflict, Msg: msg} }
func State(msg string) *Error      { return &Error{Kind: KindState, Msg: msg} }

// ValidationFields builds a validation error carrying per-field detail.
func ValidationFields(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Msg: msg, Fields: fields}
}

// Status returns the HTTP status for a taxonomy kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindState:
		return http.StatusBadRequest
	case KindPermission:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// JSON writes err to the response. Business errors keep their message and
// field detail; anything else is logged and hidden behind a generic 500.
func JSON(c echo.Context, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		body := echo.Map{"error": appErr.Msg}
		if len(appErr.Fields) > 0 {
			body["fields"] = appErr.Fields
		}
		return c.JSON(appErr.Kind.Status(), body)
	}
	slog.Error("internal error", "path", c.Path(), "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}
