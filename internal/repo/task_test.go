package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"storyline/internal/apperr"
	"storyline/internal/domain"
)

func TestCreateAndFetchTask(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	story, err := r.CreateStory(ctx, "Books To Read")
	if err != nil {
		t.Fatalf("create story: %v", err)
	}
	created, err := r.CreateTask(ctx, story.ID, "Suttree", domain.StatusIncomplete)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if created.Status != domain.StatusIncomplete {
		t.Fatalf("unexpected status %s", created.Status)
	}

	fetched, err := r.FetchTask(ctx, created.ID)
	if err != nil {
		t.Fatalf("fetch task: %v", err)
	}
	if fetched.ID != created.ID || fetched.StoryID != story.ID || fetched.Name != "Suttree" {
		t.Fatalf("fetched %+v does not match created %+v", fetched, created)
	}
}

func TestFetchTaskNotFound(t *testing.T) {
	r := setupRepo(t)
	_, err := r.FetchTask(context.Background(), domain.TaskID(uuid.New()))
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListTasksCreationOrder(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	story, err := r.CreateStory(ctx, "Books To Read")
	if err != nil {
		t.Fatalf("create story: %v", err)
	}
	// Pin the clock so insertion order is unambiguous.
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	names := []string{"Suttree", "Blood Meridian", "The Passenger"}
	for i, name := range names {
		tick := base.Add(time.Duration(i) * time.Millisecond)
		r.Now = func() time.Time { return tick }
		if _, err := r.CreateTask(ctx, story.ID, name, domain.StatusIncomplete); err != nil {
			t.Fatalf("create task %s: %v", name, err)
		}
	}

	tasks, err := r.ListTasks(ctx, story.ID)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	for i, name := range names {
		if tasks[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, tasks[i].Name)
		}
	}
}

func TestListTasksEmptyStory(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	story, err := r.CreateStory(ctx, "Empty")
	if err != nil {
		t.Fatalf("create story: %v", err)
	}
	tasks, err := r.ListTasks(ctx, story.ID)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(tasks))
	}
}

func TestUpdateTask(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	story, err := r.CreateStory(ctx, "Books To Read")
	if err != nil {
		t.Fatalf("create story: %v", err)
	}
	created, err := r.CreateTask(ctx, story.ID, "Suttree", domain.StatusIncomplete)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	updated, err := r.UpdateTask(ctx, created.ID, "Suttree", domain.StatusComplete)
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if updated.Status != domain.StatusComplete {
		t.Fatalf("expected complete, got %s", updated.Status)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("updated_at should advance: %v vs %v", updated.UpdatedAt, created.UpdatedAt)
	}
}

func TestUpdateTaskMissingRow(t *testing.T) {
	r := setupRepo(t)
	_, err := r.UpdateTask(context.Background(), domain.TaskID(uuid.New()), "ghost", domain.StatusComplete)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	story, err := r.CreateStory(ctx, "Books To Read")
	if err != nil {
		t.Fatalf("create story: %v", err)
	}
	task, err := r.CreateTask(ctx, story.ID, "Suttree", domain.StatusIncomplete)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if err := r.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if _, err := r.FetchTask(ctx, task.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("task should be gone, got %v", err)
	}
	// Sibling story survives.
	if _, err := r.FetchStory(ctx, story.ID); err != nil {
		t.Fatalf("story should remain: %v", err)
	}
}

func TestUnknownStoredStatusFallsBack(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	story, err := r.CreateStory(ctx, "Books To Read")
	if err != nil {
		t.Fatalf("create story: %v", err)
	}
	task, err := r.CreateTask(ctx, story.ID, "Suttree", domain.StatusIncomplete)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := r.DB.ExecContext(ctx, `UPDATE tasks SET status='archived' WHERE id=?`, task.ID.String()); err != nil {
		t.Fatalf("corrupt status: %v", err)
	}
	fetched, err := r.FetchTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("fetch task: %v", err)
	}
	if fetched.Status != domain.StatusIncomplete {
		t.Fatalf("unknown status should fall back to incomplete, got %s", fetched.Status)
	}
}
