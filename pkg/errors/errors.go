package errors

import (
	stdErrors "errors"
	"fmt"
	"maps"
	"net/http"
)

// Code is the stable, client-facing error classification.
type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	CodeRateLimit  Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal   Code = "INTERNAL_ERROR"
	CodeDependency Code = "DEPENDENCY_ERROR"
)

// ReasonKey is the details key carrying the machine-readable failure reason.
const ReasonKey = "reason"

// Metadata drives how a Code is rendered over HTTP.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {http.StatusBadRequest, false, "validation failed", true},
	CodeNotFound:   {http.StatusNotFound, false, "resource not found", false},
	CodeRateLimit:  {http.StatusTooManyRequests, false, "rate limit exceeded", false},
	CodeInternal:   {http.StatusInternalServerError, true, "internal server error", false},
	CodeDependency: {http.StatusServiceUnavailable, true, "dependency unavailable", true},
}

// MetadataFor falls back to CodeInternal for unknown codes.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	e := New(code, message)
	e.cause = err
	return e
}

// Reasoned builds a typed error whose details carry the given reason.
func Reasoned(code Code, reason, message string) *Error {
	return New(code, message).WithReason(reason)
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// Reason reports the details reason, or "" when none is set.
func (e *Error) Reason() string {
	if e == nil {
		return ""
	}
	return reasonOf(e.details)
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

// WithReason sets the reason key, merging into map details when present.
// Non-map details are replaced.
func (e *Error) WithReason(reason string) *Error {
	return e.WithDetail(ReasonKey, reason)
}

// WithDetail sets a single details key on a copy of the existing map.
func (e *Error) WithDetail(key string, value any) *Error {
	if e == nil {
		return nil
	}
	merged := map[string]any{}
	if existing, ok := e.details.(map[string]any); ok {
		maps.Copy(merged, existing)
	}
	merged[key] = value
	e.details = merged
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if reason := e.Reason(); reason != "" {
		return fmt.Sprintf("%s(%s): %s", e.code, reason, e.message)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches another *Error by code, and by reason when the target has one,
// so reason sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok || e == nil || other == nil {
		return false
	}
	if e.code != other.code {
		return false
	}
	want := other.Reason()
	return want == "" || want == e.Reason()
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// ReasonOf extracts the reason from the first typed error in err's chain.
func ReasonOf(err error) string {
	return As(err).Reason()
}

func reasonOf(details any) string {
	switch typed := details.(type) {
	case map[string]any:
		reason, _ := typed[ReasonKey].(string)
		return reason
	case map[string]string:
		return typed[ReasonKey]
	}
	return ""
}
