// Package usecase holds one unit per business operation. Use cases wrap
// store calls with the existence and idempotence rules that make
// multi-step operations safe; they add no error kinds of their own.
package usecase

import (
	"context"

	"storyline/internal/domain"
)

// StoryStore is the story persistence capability consumed by use cases.
// repo.Repo is the one concrete implementation.
type StoryStore interface {
	FetchStory(ctx context.Context, id domain.StoryID) (domain.Story, error)
	ListStories(ctx context.Context, cursor, limit int64) (int64, []domain.Story, error)
	CreateStory(ctx context.Context, name string) (domain.Story, error)
	UpdateStory(ctx context.Context, id domain.StoryID, name string) (domain.Story, error)
	DeleteStory(ctx context.Context, id domain.StoryID) error
}

// TaskStore is the task persistence capability consumed by use cases.
type TaskStore interface {
	FetchTask(ctx context.Context, id domain.TaskID) (domain.Task, error)
	ListTasks(ctx context.Context, storyID domain.StoryID) ([]domain.Task, error)
	CreateTask(ctx context.Context, storyID domain.StoryID, name string, status domain.Status) (domain.Task, error)
	UpdateTask(ctx context.Context, id domain.TaskID, name string, status domain.Status) (domain.Task, error)
	DeleteTask(ctx context.Context, id domain.TaskID) error
}

// Store combines both capabilities; satisfied by repo.Repo.
type Store interface {
	StoryStore
	TaskStore
}

// Context is the container wiring every use case to its stores.
type Context struct {
	CreateStory CreateStory
	ListStories ListStories
	UpdateStory UpdateStory
	DeleteStory DeleteStory

	CreateTask CreateTask
	ListTasks  ListTasks
	UpdateTask UpdateTask
	DeleteTask DeleteTask
}

// New wires a Context from a single store implementation.
func New(store Store) Context {
	return Context{
		CreateStory: CreateStory{Stories: store},
		ListStories: ListStories{Stories: store},
		UpdateStory: UpdateStory{Stories: store},
		DeleteStory: DeleteStory{Stories: store},
		CreateTask:  CreateTask{Tasks: store},
		ListTasks:   ListTasks{Stories: store, Tasks: store},
		UpdateTask:  UpdateTask{Tasks: store},
		DeleteTask:  DeleteTask{Tasks: store},
	}
}
