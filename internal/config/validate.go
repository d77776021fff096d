package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/specialistvlad/daqconf/internal/slotid"
)

// ErrInvalidDescription wraps every structural problem found in a Description.
var ErrInvalidDescription = errors.New("invalid description")

// validate is the validator instance for descriptions. Initialized in init()
// with the reference validators.
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("ident", func(fl validator.FieldLevel) bool {
		return slotid.ValidName(fl.Field().String())
	})
	_ = validate.RegisterValidation("ref", func(fl validator.FieldLevel) bool {
		_, err := slotid.Parse(fl.Field().String())
		return err == nil
	})
}

// Validate checks d for structural problems: required names, reference
// syntax, endpoint directions and connection types. Semantic checks such as
// duplicate names happen while building the System.
func Validate(d *Description) error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidDescription, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidDescription, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Description.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "ident":
		return fmt.Sprintf("%s %q is not a valid name", field, fe.Value())
	case "ref":
		return fmt.Sprintf("%s %q must have the form owner.name", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s %q must be one of [%s]", field, fe.Value(), fe.Param())
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}
