package repo

import (
	"context"

	"github.com/google/uuid"

	"storyline/internal/apperr"
	"storyline/internal/domain"
)

// Upper bound when querying tasks for a story; the task list of a single
// story is assumed small, so there is no cursor.
const maxTasks = 100

func scanTask(row rowScanner) (domain.Task, error) {
	var t domain.Task
	var id, storyID, status, createdAt, updatedAt string
	if err := row.Scan(&id, &storyID, &t.Name, &status, &createdAt, &updatedAt); err != nil {
		return t, err
	}
	rawID, err := parseID(id)
	if err != nil {
		return t, err
	}
	rawStoryID, err := parseID(storyID)
	if err != nil {
		return t, err
	}
	t.ID = domain.TaskID(rawID)
	t.StoryID = domain.StoryID(rawStoryID)
	t.Status = domain.ParseStatus(status)
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return t, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return t, err
	}
	return t, nil
}

// FetchTask selects a task by id.
func (r Repo) FetchTask(ctx context.Context, id domain.TaskID) (domain.Task, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT id, story_id, name, status, created_at, updated_at FROM tasks WHERE id=?`, id.String())
	t, err := scanTask(row)
	if err != nil {
		return domain.Task{}, wrapQuery(err, apperr.NotFound("task not found: %s", id))
	}
	return t, nil
}

// ListTasks selects the tasks for a story in creation order.
func (r Repo) ListTasks(ctx context.Context, storyID domain.StoryID) ([]domain.Task, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, story_id, name, status, created_at, updated_at FROM tasks
		WHERE story_id=? ORDER BY created_at LIMIT ?`, storyID.String(), maxTasks)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	defer rows.Close()
	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, apperr.Wrap(err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(err)
	}
	return tasks, nil
}

// CreateTask inserts a task. The parent story is not verified here;
// cross-entity rules belong to the use case layer.
func (r Repo) CreateTask(ctx context.Context, storyID domain.StoryID, name string, status domain.Status) (domain.Task, error) {
	now := r.now()
	t := domain.Task{
		ID:        domain.TaskID(uuid.New()),
		StoryID:   storyID,
		Name:      name,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO tasks(id, story_id, name, status, created_at, updated_at) VALUES (?,?,?,?,?,?)`,
		t.ID.String(), t.StoryID.String(), t.Name, t.Status.String(),
		now.Format(timeLayout), now.Format(timeLayout))
	if err != nil {
		return domain.Task{}, apperr.Wrap(err)
	}
	return t, nil
}

// UpdateTask writes name and status plus a refreshed updated_at. Zero
// rows affected is reported as NotFound.
func (r Repo) UpdateTask(ctx context.Context, id domain.TaskID, name string, status domain.Status) (domain.Task, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE tasks SET name=?, status=?, updated_at=? WHERE id=?`,
		name, status.String(), r.now().Format(timeLayout), id.String())
	if err != nil {
		return domain.Task{}, apperr.Wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Task{}, apperr.NotFound("task not found: %s", id)
	}
	return r.FetchTask(ctx, id)
}

// DeleteTask removes a single task. Deleting a missing row is a no-op;
// the use case fetches first when a clean NotFound is required.
func (r Repo) DeleteTask(ctx context.Context, id domain.TaskID) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id=?`, id.String())
	return apperr.Wrap(err)
}
