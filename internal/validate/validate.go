// Package validate wraps go-playground/validator with error translation
// into per-field message maps. Validation failures always carry the full
// set of violated fields, never just the first one found.
package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a field name to the list of messages describing why the
// field is invalid. It is the wire shape of a 422 response body.
type Errors map[string][]string

// Add appends a message for the given field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Any reports whether at least one field failed validation.
func (e Errors) Any() bool {
	return len(e) > 0
}

// Merge folds all messages from other into e.
func (e Errors) Merge(other Errors) {
	for field, msgs := range other {
		e[field] = append(e[field], msgs...)
	}
}

// Validator validates structs tagged with `validate` constraints and
// translates the results into Errors keyed by JSON field name.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that reports fields by their json tag names.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s and returns the full set of field violations.
// A nil-length result means s passed every declared constraint.
func (vd *Validator) Struct(s any) Errors {
	errs := Errors{}
	err := vd.v.Struct(s)
	if err == nil {
		return errs
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Add("base", err.Error())
		return errs
	}
	for _, fe := range fieldErrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

// Email reports whether s is a syntactically valid email address.
func (vd *Validator) Email(s string) bool {
	return vd.v.Var(s, "email") == nil
}

// message renders a human-readable description for a single violation.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is not a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
