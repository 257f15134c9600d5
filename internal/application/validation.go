package application

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var groupLetterPattern = regexp.MustCompile(`^[A-Z][0-9]$`)

// newInputValidator reports fields by their json names and knows the
// group_letter rule.
func newInputValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("group_letter", func(fl validator.FieldLevel) bool {
		return groupLetterPattern.MatchString(fl.Field().String())
	})
	return v
}

func validateInput(v *validator.Validate, input any) *ValidationError {
	vErr := &ValidationError{}
	err := v.Struct(input)
	if err == nil {
		return vErr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		vErr.add("input", err.Error())
		return vErr
	}
	for _, fe := range fieldErrs {
		vErr.add(fe.Field(), describeFieldError(fe))
	}
	return vErr
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte", "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return "must be a positive id"
	case "group_letter":
		return "must be an uppercase letter followed by a digit"
	}
	return "is invalid"
}
