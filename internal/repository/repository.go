package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"tugasku/internal/database"
)

// ErrNotFound means no row matched the id/device_id pair. Handlers map it
// to a 404; a delete under the wrong device id reports it too.
var ErrNotFound = errors.New("record not found")

var errNoDB = errors.New("database not available")

func db(ctx context.Context) (*sql.DB, error) {
	d := database.DB(ctx)
	if d == nil {
		return nil, errNoDB
	}
	return d, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func join(parts []string) string {
	return strings.Join(parts, ", ")
}
