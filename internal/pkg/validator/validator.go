package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

var (
	mu       sync.RWMutex
	messages = map[string]string{}
)

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
}

// RegisterString registers a custom tag for string fields. accept decides
// validity and message is reported on failure. Domain packages call this
// from init so the tag is available before the first request.
func RegisterString(tag string, accept func(string) bool, message string) {
	mu.Lock()
	defer mu.Unlock()

	validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return accept(fl.Field().String())
	})
	messages[tag] = message
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	mu.RLock()
	defer mu.RUnlock()

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string)
	for _, err := range fieldErrs {
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
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "uuid":
			errors[field] = "Invalid UUID format"
		default:
			if msg, ok := messages[err.Tag()]; ok {
				errors[field] = msg
			} else {
				errors[field] = "Invalid value"
			}
		}
	}

	return errors
}
