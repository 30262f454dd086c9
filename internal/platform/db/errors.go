package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gaia-project/gaia/internal/shared"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Translate maps driver errors onto the shared error taxonomy. fields maps
// constraint names to the logical field they protect; primary keys map to
// shared.FieldCode unless listed.
func Translate(err error, entity string, fields map[string]string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", entity, shared.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case foreignKeyViolation:
		return shared.Invalid("%s: %s", entity, pgErr.Detail)
	case uniqueViolation:
		field, ok := fields[pgErr.ConstraintName]
		if !ok {
			field = pgErr.ConstraintName
			if strings.HasSuffix(pgErr.ConstraintName, "_pkey") {
				field = shared.FieldCode
			}
		}
		return shared.Duplicate(entity, field)
	}
	return err
}
