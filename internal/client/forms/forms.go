// Package forms validates form payloads against the schemas declared in the
// `validate` struct tags of package models.
//
// Validation is synchronous and never touches the network. A failure is
// reported as *ValidationError with one message per offending field, keyed
// by the field's `form` tag name.
package forms

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ValidationError lists field-scoped messages of a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Message()
}

// Message joins the field messages in field order into one line.
func (e *ValidationError) Message() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, e.Fields[name])
	}
	return strings.Join(parts, "; ")
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if name := fld.Tag.Get("form"); name != "" {
				return name
			}
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("image", isImage)
		validate = v
	})
	return validate
}

// isImage accepts byte slices whose content sniffs as image/*.
func isImage(fl validator.FieldLevel) bool {
	data, ok := fl.Field().Interface().([]byte)
	if !ok {
		return false
	}
	return strings.HasPrefix(http.DetectContentType(data), "image/")
}

// Validate checks v against its declared schema. It returns nil or a
// *ValidationError; any other validator failure is a programming error and
// is returned as is.
func Validate(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		if _, seen := out.Fields[fe.Field()]; seen {
			continue
		}
		out.Fields[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must not be empty", field)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s bytes", field, fe.Param())
	case "eqfield":
		return "Passwords must match"
	case "image":
		return fmt.Sprintf("%s must be an image", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
