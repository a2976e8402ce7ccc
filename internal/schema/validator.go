// Package schema holds the input contracts accepted by the JSON API and
// the validator that enforces them.  Every writable entity has a paired
// input struct here; handlers bind the request body into it and call
// Validate before anything reaches storage.
package schema

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one rejected field.  Field uses the JSON name so
// the client can show the message next to the matching form input.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned by Validate when one or more fields fail.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Validator adapts go-playground/validator to echo.Validator.
type Validator struct {
	v *validator.Validate
}

// NewValidator returns a validator that reports JSON field names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Validate checks i against its `validate` tags.  Inputs that implement
// Normalizer are normalised first.  Field failures come back as a
// *ValidationError; anything else (e.g. a non-struct argument) is
// returned unchanged.
func (cv *Validator) Validate(i interface{}) error {
	if n, ok := i.(Normalizer); ok {
		n.Normalize()
	}
	err := cv.v.Struct(i)
	if err == nil {
		if c, ok := i.(Checker); ok {
			if fe := c.Check(); len(fe) > 0 {
				return &ValidationError{Fields: fe}
			}
		}
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return &ValidationError{Fields: out}
}

// Normalizer is implemented by inputs that trim or default their fields
// before validation.
type Normalizer interface {
	Normalize()
}

// Checker is implemented by inputs with rules that struct tags cannot
// express.  It runs only after the tag rules pass.
type Checker interface {
	Check() []FieldError
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "invalid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	}
	return "is invalid"
}
