// Package validation checks request payloads against their `validate` struct
// tags before any network I/O happens.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"

	apperrors "github.com/jrsteele09/alpha-client/internal/errors"
)

var validate = validator.New()

// Struct validates v and returns an ErrInvalidRequest describing every failed
// field, or nil.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Join(apperrors.ErrInvalidRequest, err)
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return fmt.Errorf("%w: %s", apperrors.ErrInvalidRequest, strings.Join(problems, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %q", field, fe.Tag())
}
