package pgerror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datashelf/datashelf/pkg/pgerror"
)

func TestClassify(t *testing.T) {
	scenarios := []struct {
		name        string
		err         error
		expected    pgerror.Violation
		userMessage string
	}{
		{
			name: "not null violation",
			err: &pgconn.PgError{
				Code:       "23502",
				ColumnName: "name",
				TableName:  "datasets",
			},
			expected:    pgerror.NotNullViolation{Column: "name", Table: "datasets"},
			userMessage: `required field "name" is missing`,
		},
		{
			name: "unique violation",
			err: &pgconn.PgError{
				Code:           "23505",
				ConstraintName: "datasets_pkey",
			},
			expected:    pgerror.UniqueViolation{Constraint: "datasets_pkey"},
			userMessage: `duplicate value violates unique constraint "datasets_pkey"`,
		},
		{
			name: "foreign key violation",
			err: &pgconn.PgError{
				Code:           "23503",
				ConstraintName: "api_keys_owner_fkey",
			},
			expected:    pgerror.ForeignKeyViolation{Constraint: "api_keys_owner_fkey"},
			userMessage: `operation violates foreign key constraint "api_keys_owner_fkey"`,
		},
		{
			name: "check violation",
			err: &pgconn.PgError{
				Code:           "23514",
				ConstraintName: "datasets_item_count_check",
			},
			expected:    pgerror.CheckViolation{Constraint: "datasets_item_count_check"},
			userMessage: `value violates check constraint "datasets_item_count_check"`,
		},
		{
			name: "unrecognized postgres code",
			err: &pgconn.PgError{
				Severity: "ERROR",
				Code:     "57014",
				Message:  "canceling statement due to statement timeout",
			},
			expected:    pgerror.Other{Message: "ERROR: canceling statement due to statement timeout (SQLSTATE 57014)"},
			userMessage: "internal storage error",
		},
		{
			name:        "plain error",
			err:         errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
			expected:    pgerror.Other{Message: "dial tcp 127.0.0.1:5432: connect: connection refused"},
			userMessage: "internal storage error",
		},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			violation := pgerror.Classify(scenario.err)
			assert.Equal(t, scenario.expected, violation)
			assert.Equal(t, scenario.userMessage, violation.UserMessage())
		})
	}
}

func TestClassifyWrappedError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "datasets_pkey"}
	wrapped := fmt.Errorf("failed to create dataset: %w", pgErr)

	violation := pgerror.Classify(wrapped)

	require.IsType(t, pgerror.UniqueViolation{}, violation)
	assert.Equal(t, "datasets_pkey", violation.(pgerror.UniqueViolation).Constraint)
}

func TestUserMessageNeverLeaksDetail(t *testing.T) {
	err := &pgconn.PgError{
		Code:    "08006",
		Message: `syntax error at or near "SELECT secret FROM datasets"`,
	}

	assert.NotContains(t, pgerror.Classify(err).UserMessage(), "SELECT")
}
