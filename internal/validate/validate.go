// Package validate sanitizes untrusted input before it reaches business
// logic. Every function here is pure; nothing touches storage.
package validate

import (
	"strings"

	"github.com/google/uuid"

	"storyline/internal/apperr"
	"storyline/internal/domain"
)

const maxNameLen = 1000

const (
	minPageLimit int64 = 10
	maxPageLimit int64 = 100
)

// Name trims the raw value and checks its bounds. The field name is part
// of the error message so callers can tell which parameter failed.
func Name(raw, field string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", apperr.InvalidArgs(field + " cannot be empty")
	}
	if len(name) > maxNameLen {
		return "", apperr.InvalidArgs(field + " is too long")
	}
	return name, nil
}

// OptionalName applies the Name rule only when a value is present.
// Absence is not an error.
func OptionalName(raw *string, field string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	name, err := Name(*raw, field)
	if err != nil {
		return nil, err
	}
	return &name, nil
}

// StoryID parses a story identifier from untrusted input.
func StoryID(raw string) (domain.StoryID, error) {
	id, err := parseUUID(raw)
	if err != nil {
		return domain.StoryID{}, err
	}
	return domain.StoryID(id), nil
}

// TaskID parses a task identifier from untrusted input.
func TaskID(raw string) (domain.TaskID, error) {
	id, err := parseUUID(raw)
	if err != nil {
		return domain.TaskID{}, err
	}
	return domain.TaskID(id), nil
}

func parseUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return uuid.UUID{}, apperr.InvalidArgs(err.Error())
	}
	return id, nil
}

// ClampPageBounds forces paging parameters into policy range. Out of
// range values are corrected, never rejected.
func ClampPageBounds(cursor, limit int64) (int64, int64) {
	if cursor < 1 {
		cursor = 1
	}
	if limit < minPageLimit {
		limit = minPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return cursor, limit
}
