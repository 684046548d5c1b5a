// Package apperrors maps domain, validation and database failures onto HTTP responses.
package apperrors

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/sony/gobreaker"
)

// ErrorType represents the category of error.
type ErrorType string

const (
	TypeValidation   ErrorType = "validation"
	TypeUnauthorized ErrorType = "unauthorized"
	TypeForbidden    ErrorType = "forbidden"
	TypeNotFound     ErrorType = "not_found"
	TypeConflict     ErrorType = "conflict"
	TypeRateLimited  ErrorType = "rate_limited"
	TypeUnavailable  ErrorType = "unavailable"
	TypeInternal     ErrorType = "internal"
)

// FieldError is one entry of a validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a structured error with an HTTP mapping.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details []FieldError
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the status code for this error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeUnauthorized:
		return http.StatusUnauthorized
	case TypeForbidden:
		return http.StatusForbidden
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeRateLimited:
		return http.StatusTooManyRequests
	case TypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func Validation(message string) *Error   { return &Error{Type: TypeValidation, Message: message} }
func Unauthorized(message string) *Error { return &Error{Type: TypeUnauthorized, Message: message} }
func Forbidden(message string) *Error    { return &Error{Type: TypeForbidden, Message: message} }
func NotFound(message string) *Error     { return &Error{Type: TypeNotFound, Message: message} }
func Conflict(message string) *Error     { return &Error{Type: TypeConflict, Message: message} }
func RateLimited(message string) *Error  { return &Error{Type: TypeRateLimited, Message: message} }
func Unavailable(message string) *Error  { return &Error{Type: TypeUnavailable, Message: message} }

// Internal wraps an unexpected failure.
func Internal(message string, cause error) *Error {
	return &Error{Type: TypeInternal, Message: message, Cause: cause}
}

// MySQL server error numbers we translate.
const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// IsDuplicate reports whether err is a unique-key violation.
func IsDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// From converts any error into a structured *Error.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, FieldError{Field: jsonFieldName(fe), Message: fieldMessage(fe)})
		}
		return &Error{Type: TypeValidation, Message: "Validation failed", Cause: err, Details: details}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Error{Type: TypeValidation, Message: "Malformed request body", Cause: err}
	}

	// Bad dates and numbers surface from gin's JSON and query binding.
	var timeErr *time.ParseError
	var numErr *strconv.NumError
	if errors.As(err, &timeErr) || errors.As(err, &numErr) {
		return &Error{Type: TypeValidation, Message: "Invalid request parameter", Cause: err}
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Type: TypeNotFound, Message: "Record not found", Cause: err}
	}

	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry:
			return &Error{Type: TypeConflict, Message: fmt.Sprintf("A record with this %s already exists", duplicateKey(me.Message)), Cause: err}
		case mysqlNoReferencedRow:
			return &Error{Type: TypeValidation, Message: "Related record not found", Cause: err}
		case mysqlRowIsReferenced:
			return &Error{Type: TypeConflict, Message: "Record is still referenced by other records", Cause: err}
		case mysqlDeadlock, mysqlLockWaitTimeout:
			return &Error{Type: TypeUnavailable, Message: "Database is busy, please retry", Cause: err}
		default:
			return &Error{Type: TypeInternal, Message: "Internal server error", Cause: err}
		}
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &Error{Type: TypeUnavailable, Message: "Service temporarily unavailable", Cause: err}
	}

	return &Error{Type: TypeInternal, Message: "Internal server error", Cause: err}
}

// duplicateKey extracts the index name from
// "Duplicate entry 'x' for key 'members.email'".
func duplicateKey(msg string) string {
	i := strings.LastIndex(msg, "for key '")
	if i < 0 {
		return "field"
	}
	key := strings.TrimSuffix(msg[i+len("for key '"):], "'")
	if dot := strings.LastIndex(key, "."); dot >= 0 {
		key = key[dot+1:]
	}
	key = strings.TrimPrefix(key, "uq_")
	if key == "" {
		return "field"
	}
	return key
}

func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid UUID"
	case "url":
		return "must be a valid URL"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be " + fe.Param() + " or more"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
