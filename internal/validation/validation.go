package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// phonePattern matches a 10-digit Indian mobile number.
var phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// New returns a validator with the project's custom tags registered:
//
//	phone_in  10-digit mobile number starting with 6-9
func New() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("phone_in", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("validation: register phone_in: %v", err))
	}
	return v
}

// Messages flattens validator errors into field -> message.
func Messages(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		out[e.Field()] = message(e)
	}
	return out
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
	case "email":
		return "Please fill in a valid email address"
	case "phone_in":
		return "Please enter a valid 10-digit Indian phone number"
	default:
		return fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
}
