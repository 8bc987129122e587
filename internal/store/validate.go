package store

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/good-yellow-bee/collabhub/internal/models"
)

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names so errors match the API payloads.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseDate(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// validateParams runs struct validation and converts the first failure into
// a ValidationError.
func (s *Store) validateParams(params any) error {
	err := s.validate.Struct(params)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalid("input", err.Error())
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return invalid(field, "is required")
	case "date":
		return invalid(field, "must be a date (YYYY-MM-DD)")
	case "oneof":
		return invalid(field, "must be one of: "+fe.Param())
	case "min":
		return invalid(field, "must be at least "+fe.Param())
	case "max":
		return invalid(field, "must be at most "+fe.Param())
	case "email":
		return invalid(field, "must be a valid email")
	default:
		return invalid(field, "is invalid")
	}
}
