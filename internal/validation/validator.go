package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// StructValidator is a singleton instance of the validator.
var StructValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report field names the way the wire sees them (json/form tags), so the
	// envelope's errors map matches the request payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tagKey := range []string{"json", "form"} {
			tag := fld.Tag.Get(tagKey)
			if tag == "" {
				continue
			}
			name := strings.SplitN(tag, ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// ValidateStruct performs validation on a struct. It returns a map of field
// name to messages (one per offending rule) suitable for the response
// envelope's errors field, or nil when the payload is valid.
func ValidateStruct(payload interface{}) map[string][]string {
	err := StructValidator.Struct(payload)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string][]string{"_payload": {"The payload could not be validated."}}
	}
	fieldErrors := make(map[string][]string, len(validationErrors))
	for _, fe := range validationErrors {
		fieldErrors[fe.Field()] = append(fieldErrors[fe.Field()], generateValidationMessage(fe))
	}
	return fieldErrors
}

// generateValidationMessage creates a user-friendly message for a validation error.
func generateValidationMessage(err validator.FieldError) string {
	field := err.Field()
	tag := err.Tag()
	param := err.Param()
	kind := err.Kind()

	switch tag {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "eqfield":
		return fmt.Sprintf("The %s field confirmation does not match.", field)
	case "min":
		switch kind {
		case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
			return fmt.Sprintf("The %s field must have at least %s items/characters.", field, param)
		default: // For numbers
			return fmt.Sprintf("The %s field must be at least %s.", field, param)
		}
	case "max":
		switch kind {
		case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
			return fmt.Sprintf("The %s field must have at most %s items/characters.", field, param)
		default: // For numbers
			return fmt.Sprintf("The %s field must be at most %s.", field, param)
		}
	case "len":
		switch kind {
		case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
			return fmt.Sprintf("The %s field must have exactly %s items/characters.", field, param)
		default: // For numbers
			return fmt.Sprintf("The %s field must be exactly %s.", field, param)
		}
	case "alphanum":
		return fmt.Sprintf("The %s field may only contain alpha-numeric characters.", field)
	case "url":
		return fmt.Sprintf("The %s field must be a valid URL.", field)
	default:
		return fmt.Sprintf("The %s field is not valid (tag: %s).", field, tag)
	}
}
