package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Wrap wraps an error with additional context, creating a PlaygroundError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *PlaygroundError {
	if err == nil {
		return nil
	}

	// If it's already a PlaygroundError, keep its context and file
	var pe *PlaygroundError
	if errors.As(err, &pe) {
		return &PlaygroundError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       pe,
			Context:     pe.Context,
			FilePath:    pe.FilePath,
			Recoverable: pe.Recoverable,
		}
	}

	return &PlaygroundError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeNotFound,
	}
}

// WrapIO wraps an error as an I/O error for the given file
func WrapIO(err error, code, message, filePath string) *PlaygroundError {
	pe := Wrap(err, ErrorTypeIO, code, message)
	if pe != nil {
		pe.FilePath = filePath
	}
	return pe
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, code, message string) *PlaygroundError {
	return Wrap(err, ErrorTypeConfig, code, message)
}

// HTTPStatus maps an error to the status code the server responds with
func HTTPStatus(err error) int {
	var pe *PlaygroundError
	if !errors.As(err, &pe) {
		return http.StatusInternalServerError
	}

	switch pe.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the error code of a PlaygroundError, or ErrCodeInternalError
func Code(err error) string {
	var pe *PlaygroundError
	if errors.As(err, &pe) && pe.Code != "" {
		return pe.Code
	}
	return ErrCodeInternalError
}

// CollectErrors helper for common error collection patterns
func CollectErrors(errs ...error) []error {
	var collected []error
	for _, err := range errs {
		if err != nil {
			collected = append(collected, err)
		}
	}
	return collected
}

// CombineErrors combines multiple errors into a single error with context
func CombineErrors(errs ...error) error {
	nonNilErrs := CollectErrors(errs...)
	if len(nonNilErrs) == 0 {
		return nil
	}
	if len(nonNilErrs) == 1 {
		return nonNilErrs[0]
	}

	var messages []string
	for _, err := range nonNilErrs {
		messages = append(messages, err.Error())
	}

	return &PlaygroundError{
		Type:    ErrorTypeInternal,
		Code:    "ERR_MULTIPLE",
		Message: fmt.Sprintf("multiple errors occurred: %s", strings.Join(messages, "; ")),
		Context: map[string]interface{}{
			"error_count": len(nonNilErrs),
			"errors":      messages,
		},
		Recoverable: false,
	}
}
