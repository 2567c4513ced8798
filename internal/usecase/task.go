package usecase

import (
	"context"

	"storyline/internal/domain"
)

// ListTasks lists the tasks of a story. The parent story is fetched
// first so a caller can distinguish "no tasks" from "no such story".
type ListTasks struct {
	Stories StoryStore
	Tasks   TaskStore
}

func (uc ListTasks) Execute(ctx context.Context, storyID domain.StoryID) ([]domain.Task, error) {
	if _, err := uc.Stories.FetchStory(ctx, storyID); err != nil {
		return nil, err
	}
	return uc.Tasks.ListTasks(ctx, storyID)
}

// CreateTask inserts a task. The parent story is not verified here; a
// missing story surfaces as the storage foreign-key failure.
type CreateTask struct {
	Tasks TaskStore
}

func (uc CreateTask) Execute(ctx context.Context, storyID domain.StoryID, name string, status domain.Status) (domain.Task, error) {
	return uc.Tasks.CreateTask(ctx, storyID, name, status)
}

// UpdateTask rewrites a task. A nil name keeps the stored name; status
// is always overwritten, with no unchanged short-circuit.
type UpdateTask struct {
	Tasks TaskStore
}

func (uc UpdateTask) Execute(ctx context.Context, id domain.TaskID, name *string, status domain.Status) (domain.Task, error) {
	task, err := uc.Tasks.FetchTask(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	newName := task.Name
	if name != nil {
		newName = *name
	}
	return uc.Tasks.UpdateTask(ctx, id, newName, status)
}

// DeleteTask removes a task, fetching first for a clean NotFound.
type DeleteTask struct {
	Tasks TaskStore
}

func (uc DeleteTask) Execute(ctx context.Context, id domain.TaskID) error {
	if _, err := uc.Tasks.FetchTask(ctx, id); err != nil {
		return err
	}
	return uc.Tasks.DeleteTask(ctx, id)
}
