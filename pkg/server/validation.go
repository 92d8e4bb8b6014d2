package server

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/datashelf/datashelf/pkg/store/sql/model"
)

func NewValidator() (*validator.Validate, error) {
	validate := validator.New()

	// Verify that the value is one of the dataset lifecycle statuses.
	if err := validate.RegisterValidation("datasetStatus", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case model.StatusActive, model.StatusArchived, model.StatusDeleted:
			return true
		default:
			return false
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to register datasetStatus validation: %w", err)
	}

	// Verify that the string holds more than whitespace.
	if err := validate.RegisterValidation("notBlank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		return nil, fmt.Errorf("failed to register notBlank validation: %w", err)
	}

	return validate, nil
}
