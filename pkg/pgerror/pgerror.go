package pgerror

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeNotNullViolation    = "23502"
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
)

// Violation is a storage failure reduced to a category safe to show to
// callers. UserMessage never exposes query text or driver diagnostics.
type Violation interface {
	error
	UserMessage() string
}

type NotNullViolation struct {
	Column string
	Table  string
}

func (v NotNullViolation) Error() string {
	return fmt.Sprintf("not-null violation on column %q of table %q", v.Column, v.Table)
}

func (v NotNullViolation) UserMessage() string {
	return fmt.Sprintf("required field %q is missing", v.Column)
}

type UniqueViolation struct {
	Constraint string
}

func (v UniqueViolation) Error() string {
	return fmt.Sprintf("unique violation on constraint %q", v.Constraint)
}

func (v UniqueViolation) UserMessage() string {
	return fmt.Sprintf("duplicate value violates unique constraint %q", v.Constraint)
}

type ForeignKeyViolation struct {
	Constraint string
}

func (v ForeignKeyViolation) Error() string {
	return fmt.Sprintf("foreign key violation on constraint %q", v.Constraint)
}

func (v ForeignKeyViolation) UserMessage() string {
	return fmt.Sprintf("operation violates foreign key constraint %q", v.Constraint)
}

type CheckViolation struct {
	Constraint string
}

func (v CheckViolation) Error() string {
	return fmt.Sprintf("check violation on constraint %q", v.Constraint)
}

func (v CheckViolation) UserMessage() string {
	return fmt.Sprintf("value violates check constraint %q", v.Constraint)
}

type Other struct {
	Message string
}

func (v Other) Error() string {
	return v.Message
}

func (v Other) UserMessage() string {
	return "internal storage error"
}

// Classify maps a storage error onto one of the violation categories.
// Anything that is not a recognized postgres constraint failure becomes
// Other, whose user message stays generic.
func Classify(err error) Violation {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeNotNullViolation:
			return NotNullViolation{Column: pgErr.ColumnName, Table: pgErr.TableName}
		case codeUniqueViolation:
			return UniqueViolation{Constraint: pgErr.ConstraintName}
		case codeForeignKeyViolation:
			return ForeignKeyViolation{Constraint: pgErr.ConstraintName}
		case codeCheckViolation:
			return CheckViolation{Constraint: pgErr.ConstraintName}
		}
	}

	return Other{Message: err.Error()}
}
