// Package validator adapts go-playground/validator to echo's Validator
// interface and registers the project's custom rules.
package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator implements echo.Validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a validator with the langmap rule registered
func New() *CustomValidator {
	v := validator.New()
	v.RegisterValidation("langmap", validateLangMap)
	return &CustomValidator{v: v}
}

// Validate performs struct validation, flattening field errors into one
// client-readable message.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

// validateLangMap requires a language-keyed text map to carry at least one
// non-blank translation.
func validateLangMap(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Map {
		return false
	}
	for _, key := range field.MapKeys() {
		value := field.MapIndex(key)
		if value.Kind() == reflect.String && strings.TrimSpace(value.String()) != "" {
			return true
		}
	}
	return false
}
