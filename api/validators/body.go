package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/packfinderz-shipping/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// MaxBodyBytes caps request bodies; a full 200-line cart is far below it.
const MaxBodyBytes = 1 << 20

// DecodeJSONBody strictly decodes a single JSON object into dest and runs
// the struct's validate tags. Every failure is a CodeValidation error whose
// details name the problem.
func DecodeJSONBody(r *http.Request, dest any) error {
	body := http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
		_ = body.Close()
	}()

	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return decodeError(dest, err)
	}
	if decoder.More() {
		return decodeError(dest, errors.New("body must contain a single JSON object"))
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(dest, err)
	}
	return nil
}

func decodeError(dest any, err error) *pkgerrors.Error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		sizeErr   *http.MaxBytesError
	)
	details := map[string]any{}
	detail := err.Error()
	switch {
	case errors.As(err, &syntaxErr):
		detail = fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.Is(err, io.EOF):
		detail = "body is empty"
	case errors.Is(err, io.ErrUnexpectedEOF):
		detail = "malformed JSON"
	case errors.As(err, &typeErr):
		detail = fmt.Sprintf("field %q must be %s", typeErr.Field, typeErr.Type)
		if reasoner, ok := dest.(Reasoner); ok {
			if reason := reasoner.ValidationReason(typeErr.Field, typeTag); reason != "" {
				details[pkgerrors.ReasonKey] = reason
			}
		}
	case errors.As(err, &sizeErr):
		detail = fmt.Sprintf("body exceeds %d bytes", sizeErr.Limit)
	case strings.HasPrefix(detail, "json: unknown field "):
		detail = "unknown field " + strings.TrimPrefix(detail, "json: unknown field ")
	}
	details["error"] = detail
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").
		WithDetails(details)
}

// typeTag is the tag passed to a Reasoner when a JSON value has the wrong
// type or does not fit the Go field.
const typeTag = "type"

// Reasoner is implemented by request bodies that map a failed field/tag pair
// to a domain reason code. The first failing field with a reason wins.
// Decode failures report the dotted JSON path, e.g. "items.quantity".
type Reasoner interface {
	ValidationReason(field, tag string) string
}

func formatValidationErrors(dest any, err error) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		details := map[string]any{}
		reasoner, _ := dest.(Reasoner)
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
			if reasoner == nil {
				continue
			}
			if _, set := details[pkgerrors.ReasonKey]; set {
				continue
			}
			if reason := reasoner.ValidationReason(fieldErr.Field(), fieldErr.Tag()); reason != "" {
				details[pkgerrors.ReasonKey] = reason
			}
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	}
	return "is invalid"
}
