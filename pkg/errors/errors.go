// Package errors defines the error taxonomy shared by the facesearch packages.
//
// Errors carry a machine-readable Code through github.com/samber/oops so that
// the transport layer can map them to HTTP statuses without string matching.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
type Code string

const (
	// CodeValidation marks malformed input, rejected before any remote call.
	CodeValidation Code = "validation.invalid_input"
	// CodeUpstream marks a failing or empty response from the embedding service or image host.
	CodeUpstream Code = "upstream.failure"
	// CodeBackend marks a storage call that failed for a reason other than a benign duplicate.
	CodeBackend Code = "backend.failure"
	// CodeConfiguration marks a configuration gap. Fatal at startup.
	CodeConfiguration Code = "configuration.invalid"
	// CodeInternal is the fallback for unclassified errors.
	CodeInternal Code = "server.internal.failure"
)

// Attr is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

// Field creates a structured error field.
func Field(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

func New(code Code, msg string, fields ...Attr) error {
	return oops.Code(code).With(flatten(fields)...).New(msg)
}

func Errorf(code Code, format string, args ...any) error {
	return oops.Code(code).Errorf(format, args...)
}

// Wrap attaches code and fields to err. A nil err stays nil.
func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).With(flatten(fields)...).Wrapf(err, "%s", msg)
}

func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).Wrapf(err, format, args...)
}

// CodeOf returns the code of the deepest coded error in the chain, or "".
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	switch code := oopsErr.Code().(type) {
	case Code:
		return code
	case string:
		return Code(code)
	case nil:
		return ""
	default:
		return Code(fmt.Sprintf("%v", code))
	}
}

// FieldsOf returns the structured context attached to err.
func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}

	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

func IsValidation(err error) bool    { return HasCode(err, CodeValidation) }
func IsUpstream(err error) bool      { return HasCode(err, CodeUpstream) }
func IsBackend(err error) bool       { return HasCode(err, CodeBackend) }
func IsConfiguration(err error) bool { return HasCode(err, CodeConfiguration) }

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsValidation(err):
		return http.StatusBadRequest
	case IsUpstream(err), IsBackend(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-facing message of err without the oops stack
// decoration.
func Message(err error) string {
	if err == nil {
		return ""
	}

	if oopsErr, ok := oops.AsOops(err); ok {
		return strings.TrimSpace(oopsErr.Error())
	}
	return err.Error()
}

// Join combines errs under code and msg. Nil entries are dropped; it returns
// nil when nothing is left.
func Join(code Code, msg string, errs ...error) error {
	joined := stderrors.Join(errs...)
	if joined == nil {
		return nil
	}
	return oops.Code(code).Wrapf(joined, "%s", msg)
}

func flatten(fields []Attr) []any {
	pairs := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		pairs = append(pairs, field.Key, field.Value)
	}
	return pairs
}
