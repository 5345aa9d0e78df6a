package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iskaalaman/studyhub/internal/domain/calendar"
	"github.com/iskaalaman/studyhub/internal/domain/entities"
)

// Validator wraps the request validator and its custom rules
type Validator struct {
	validator *validator.Validate
}

// ValidationError lists the request fields that failed validation
type ValidationError struct {
	Fields []string
	err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

// NewValidator creates a validator with the clocktime, weekday, singleline
// and cardtype rules registered.
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		"clocktime": func(fl validator.FieldLevel) bool {
			return calendar.IsValidTime(fl.Field().String())
		},
		"weekday": func(fl validator.FieldLevel) bool {
			return calendar.IsWeekday(fl.Field().String())
		},
		"singleline": func(fl validator.FieldLevel) bool {
			return !strings.ContainsAny(fl.Field().String(), "\r\n")
		},
		"cardtype": func(fl validator.FieldLevel) bool {
			return entities.CardType(fl.Field().String()).IsValid()
		},
	}
	for tag, fn := range rules {
		// Registration only fails on an empty tag or nil func.
		_ = v.RegisterValidation(tag, fn)
	}

	return &Validator{validator: v}
}

// Validate checks a request struct
func (v *Validator) Validate(i interface{}) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Fields: fields, err: err}
}
