package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// License error codes. Each identifies one failure kind of the license core.
const (
	CodeConstSyntax       = "LICENSE_CONST_SYNTAX"
	CodeCreateFailed      = "LICENSE_CREATE_FAILED"
	CodeFetchFailed       = "LICENSE_FETCH_FAILED"
	CodeUpdateFailed      = "LICENSE_UPDATE_FAILED"
	CodeDeleteFailed      = "LICENSE_DELETE_FAILED"
	CodeStatusFetchFailed = "LICENSE_STATUS_FETCH_FAILED"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func wrap(code, message string, status int, err error) error {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewConstSyntaxError reports a license const that breaks the naming rule.
func NewConstSyntaxError(message string) error {
	return wrap(CodeConstSyntax, message, http.StatusConflict, nil)
}

// NewCreateError reports an insert rejected by the store.
func NewCreateError(message string, err error) error {
	return wrap(CodeCreateFailed, message, http.StatusConflict, err)
}

// NewFetchError reports a missing license or a rejected read.
func NewFetchError(message string, err error) error {
	return wrap(CodeFetchFailed, message, http.StatusNotFound, err)
}

// NewUpdateError reports an update that matched nothing or was rejected.
func NewUpdateError(message string, err error) error {
	return wrap(CodeUpdateFailed, message, http.StatusConflict, err)
}

// NewDeleteError reports a delete that affected no rows.
func NewDeleteError(message string, err error) error {
	return wrap(CodeDeleteFailed, message, http.StatusConflict, err)
}

// NewStatusFetchError reports an empty status set or an unknown status id/const.
func NewStatusFetchError(message string, err error) error {
	return wrap(CodeStatusFetchFailed, message, http.StatusNotFound, err)
}

// HasCode reports whether err is a DomainError carrying code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := strings.ToUpper(strings.ReplaceAll(http.StatusText(fiberErr.Code), " ", "_"))
		return NewDomainError(code, fiberErr.Message, fiberErr.Code, nil)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
