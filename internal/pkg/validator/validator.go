package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Course difficulty level
	validate.RegisterValidation("course_level", func(fl validator.FieldLevel) bool {
		level := fl.Field().String()
		for _, l := range []string{"beginner", "intermediate", "advanced", ""} {
			if level == l {
				return true
			}
		}
		return false
	})

	// Payment request workflow status
	validate.RegisterValidation("request_status", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, v := range []string{"pending", "reviewing", "approved", "rejected", "contacted"} {
			if s == v {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gt":
			errors[field] = "Value must be greater than " + err.Param()
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "url":
			errors[field] = "Invalid URL format"
		case "course_level":
			errors[field] = "Invalid level. Must be: beginner, intermediate, or advanced"
		case "request_status":
			errors[field] = "Invalid status. Must be: pending, reviewing, approved, rejected, or contacted"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
