package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator checks a Config with go-playground/validator plus domain tags.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterValidation("provider", validateProvider)
	v.RegisterValidation("log_level", validateLogLevel)
	return &Validator{validate: v}
}

func (v *Validator) Validate(config *Config) error {
	if config.Version == "" {
		config.Version = "1.0"
	}
	if err := v.validate.Struct(config); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("field %s: failed %q validation (value %v)", e.Namespace(), e.Tag(), e.Value())
		}
		return err
	}
	return nil
}

func validateProvider(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "anthropic", "openai":
		return true
	}
	return false
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
