package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
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
	// Admin role validation
	validate.RegisterValidation("admin_role", func(fl validator.FieldLevel) bool {
		role := fl.Field().String()
		validRoles := []string{"super_admin", "admin", "executive_admin", "ride_manager"}
		for _, r := range validRoles {
			if role == r {
				return true
			}
		}
		return false
	})

	// Driver document type validation
	validate.RegisterValidation("document_type", func(fl validator.FieldLevel) bool {
		docType := fl.Field().String()
		validTypes := []string{"license", "emirates_id"}
		for _, t := range validTypes {
			if docType == t {
				return true
			}
		}
		return false
	})

	// Vehicle category validation
	validate.RegisterValidation("vehicle_category", func(fl validator.FieldLevel) bool {
		category := fl.Field().String()
		validCategories := []string{"sedan", "suv", "luxury", "van", ""}
		for _, c := range validCategories {
			if category == c {
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
		case "oneof":
			errors[field] = "Must be one of: " + err.Param()
		case "admin_role":
			errors[field] = "Invalid role. Must be: super_admin, admin, executive_admin, or ride_manager"
		case "document_type":
			errors[field] = "Invalid document type. Must be: license or emirates_id"
		case "vehicle_category":
			errors[field] = "Invalid vehicle category. Must be: sedan, suv, luxury, or van"
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
