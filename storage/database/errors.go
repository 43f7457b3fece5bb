package database

import (
	"database/sql"
	"fmt"
	"regexp"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/soundtrackapp/soundtrack/core"
)

var keyDetailRx = regexp.MustCompile(`Key \((.*?)\)`)

// translateError turns low-level postgres failures into app errors so callers
// can map them to meaningful responses. notFound replaces sql.ErrNoRows.
func translateError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}

	pqErr, ok := errors.Cause(err).(*pq.Error)
	if !ok {
		return err
	}
	switch pqErr.Code {
	case "23503": // foreign_key_violation
		return core.NewValidationError(errors.Errorf("'%s' is invalid", keyFromDetail(pqErr.Detail)))
	case "23505": // unique_violation
		return core.NewConflictError(fmt.Sprintf("'%s' already exists", keyFromDetail(pqErr.Detail)))
	case "23502": // not_null_violation
		return core.NewValidationError(errors.Errorf("'%s' is required", pqErr.Column))
	}
	return err
}

func keyFromDetail(detail string) string {
	if m := keyDetailRx.FindStringSubmatch(detail); m != nil {
		return m[1]
	}
	return detail
}
