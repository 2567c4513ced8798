// Package repo is the only storage-access layer. It owns all SQL text,
// the row/domain mapping, and the single multi-statement transaction
// (cascading story delete). Storage failures are translated into the
// apperr taxonomy here so no driver error leaks upward.
package repo

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"storyline/internal/apperr"
)

// Fixed-width fractional seconds keep text ordering identical to
// chronological ordering, which ListTasks relies on.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Repo struct {
	DB *sql.DB
	// Now is the clock used for created_at/updated_at; tests may pin it.
	Now func() time.Time
}

func New(db *sql.DB) Repo {
	return Repo{DB: db, Now: time.Now}
}

func (r Repo) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, apperr.Internal("parse timestamp %q: %s", raw, err)
	}
	return t, nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.UUID{}, apperr.Internal("parse stored id %q: %s", raw, err)
	}
	return id, nil
}

// wrapQuery translates a storage error into the taxonomy, mapping the
// missing-row case to the given NotFound error.
func wrapQuery(err, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return apperr.Wrap(err)
}
