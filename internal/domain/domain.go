// Package domain holds the story and task entities. Entities carry no
// behavior beyond identity and status parsing; all persistence and
// orchestration rules live in repo and usecase.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// StoryID identifies a story.
type StoryID uuid.UUID

func (id StoryID) String() string { return uuid.UUID(id).String() }

// TaskID identifies a task.
type TaskID uuid.UUID

func (id TaskID) String() string { return uuid.UUID(id).String() }

// Story is a container for tasks. Seqno is assigned by storage at insert
// time, strictly increasing and never reused; it exists only to drive
// cursor pagination.
type Story struct {
	ID        StoryID
	Name      string
	Seqno     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Task is a work item belonging to a story. A task cannot outlive its
// story: deleting the story deletes its tasks in the same transaction.
type Task struct {
	ID        TaskID
	StoryID   StoryID
	Name      string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}
