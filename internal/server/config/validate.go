package config

import (
	"fmt"

	validator "github.com/go-playground/validator/v10"

	"github.com/philharmonia/harmony/internal/logging"
)

func validateLogFormat(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case logging.FormatJSON, logging.FormatText, logging.FormatConsole:
		return true
	}
	return false
}

func validate(cfg *Config) error {
	v := validator.New()

	if err := v.RegisterValidation("logformat", validateLogFormat); err != nil {
		return err
	}

	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
