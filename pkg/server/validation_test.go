package server

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type statusValue struct {
	Value string `validate:"omitempty,datasetStatus"`
}

type notBlankValue struct {
	Value string `validate:"notBlank"`
}

type validationScenario struct {
	name          string
	input         any
	shouldTrigger bool
}

func runScenarios(t *testing.T, scenarios []validationScenario) {
	t.Helper()

	validator, err := NewValidator()
	require.NoError(t, err)

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			errs := validator.Struct(scenario.input)

			if scenario.shouldTrigger && errs == nil {
				t.Errorf("Expected validation error, got nil")
			}

			if !scenario.shouldTrigger && errs != nil {
				t.Errorf("Expected no validation error, got %v", errs)
			}
		})
	}
}

func TestDatasetStatus(t *testing.T) {
	scenarios := []validationScenario{
		{
			name:          "active",
			input:         statusValue{Value: "active"},
			shouldTrigger: false,
		},
		{
			name:          "archived",
			input:         statusValue{Value: "archived"},
			shouldTrigger: false,
		},
		{
			name:          "deleted",
			input:         statusValue{Value: "deleted"},
			shouldTrigger: false,
		},
		{
			name:          "only trigger when status is not empty",
			input:         statusValue{Value: ""},
			shouldTrigger: false,
		},
		{
			name:          "unknown status",
			input:         statusValue{Value: "published"},
			shouldTrigger: true,
		},
		{
			name:          "wrong case",
			input:         statusValue{Value: "Active"},
			shouldTrigger: true,
		},
	}

	runScenarios(t, scenarios)
}

func TestNotBlank(t *testing.T) {
	scenarios := []validationScenario{
		{
			name:          "plain value",
			input:         notBlankValue{Value: "training-corpus"},
			shouldTrigger: false,
		},
		{
			name:          "empty string",
			input:         notBlankValue{Value: ""},
			shouldTrigger: true,
		},
		{
			name:          "whitespace only",
			input:         notBlankValue{Value: "   "},
			shouldTrigger: true,
		},
		{
			name:          "tab and newline",
			input:         notBlankValue{Value: "\t\n"},
			shouldTrigger: true,
		},
	}

	runScenarios(t, scenarios)
}
