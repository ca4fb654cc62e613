package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	app_errors "legis-pro/backend/internal/errors"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getInstance builds the shared validator. Field names in errors are the
// JSON names the client sent, not the Go field names.
func getInstance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// validateRequest checks payload against its `validate` tags and returns an
// ErrValidation whose text can be shown to the user as is.
func validateRequest(payload interface{}) error {
	err := getInstance().Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: richiesta non valida: %s", app_errors.ErrValidation, err.Error())
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, describeFieldError(fieldErr))
	}
	return fmt.Errorf("%w: %s", app_errors.ErrValidation, strings.Join(messages, "; "))
}

// describeFieldError words a single failed rule in Italian.
func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("il campo '%s' è obbligatorio", fe.Field())
	case "max":
		return fmt.Sprintf("il campo '%s' non può superare %s caratteri", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("il campo '%s' deve contenere almeno %s caratteri", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("il campo '%s' non è valido (%s)", fe.Field(), fe.Tag())
}
