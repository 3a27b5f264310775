package model

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// Validation Errors
	ErrValidation = errors.New("validation failed")

	// Business Rule Errors
	ErrBookNotFound = errors.New("book not found")

	// Database Errors
	ErrStorage = errors.New("storage error")
)

// ValidationError giữ message theo từng field (key = json name).
// errors.Is(err, ErrValidation) luôn đúng.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError converts ozzo validation.Errors (hoặc bất kỳ binding error nào)
// thành *ValidationError.
func NewValidationError(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}

	fields := map[string]string{}
	var ozzoErrs validation.Errors
	if errors.As(err, &ozzoErrs) {
		for field, fieldErr := range ozzoErrs {
			if fieldErr != nil {
				fields[field] = fieldErr.Error()
			}
		}
	} else if err != nil {
		fields["body"] = err.Error()
	}
	return &ValidationError{Fields: fields}
}

// StorageError wraps a driver error so errors.Is(err, ErrStorage) holds
// and the driver error stays reachable.
func StorageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

var bookErrorMap = []struct {
	Target  error
	Status  int
	Code    string
	Message string
}{
	{ErrValidation, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid book payload"},
	{ErrBookNotFound, http.StatusNotFound, "BOOK_NOT_FOUND", "Book not found"},
	{ErrStorage, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error"},
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	for _, e := range bookErrorMap {
		if errors.Is(err, e.Target) {
			return e.Status
		}
	}
	return http.StatusInternalServerError
}

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	for _, e := range bookErrorMap {
		if errors.Is(err, e.Target) {
			return e.Code
		}
	}
	return "INTERNAL_SERVER_ERROR"
}

// ToErrorMessage trả về message an toàn để show cho client.
// Storage errors không lộ chi tiết driver.
func ToErrorMessage(err error) string {
	for _, e := range bookErrorMap {
		if errors.Is(err, e.Target) {
			return e.Message
		}
	}
	return "Internal server error"
}
