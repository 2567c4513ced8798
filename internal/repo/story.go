package repo

import (
	"context"

	"github.com/google/uuid"

	"storyline/internal/apperr"
	"storyline/internal/domain"
)

func scanStory(row rowScanner) (domain.Story, error) {
	var s domain.Story
	var id, createdAt, updatedAt string
	if err := row.Scan(&id, &s.Name, &s.Seqno, &createdAt, &updatedAt); err != nil {
		return s, err
	}
	raw, err := parseID(id)
	if err != nil {
		return s, err
	}
	s.ID = domain.StoryID(raw)
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return s, err
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return s, err
	}
	return s, nil
}

// FetchStory selects a story by id. Absence is NotFound, never an empty
// success.
func (r Repo) FetchStory(ctx context.Context, id domain.StoryID) (domain.Story, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT id, name, seqno, created_at, updated_at FROM stories WHERE id=?`, id.String())
	s, err := scanStory(row)
	if err != nil {
		return domain.Story{}, wrapQuery(err, apperr.NotFound("story not found: %s", id))
	}
	return s, nil
}

// ListStories selects a page of stories with seqno >= cursor in seqno
// order. The next cursor is last.Seqno+1 when any rows were returned,
// else 0 to signal exhaustion.
func (r Repo) ListStories(ctx context.Context, cursor, limit int64) (int64, []domain.Story, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, seqno, created_at, updated_at FROM stories WHERE seqno >= ? ORDER BY seqno LIMIT ?`,
		cursor, limit)
	if err != nil {
		return 0, nil, apperr.Wrap(err)
	}
	defer rows.Close()
	var stories []domain.Story
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return 0, nil, apperr.Wrap(err)
		}
		stories = append(stories, s)
	}
	if err := rows.Err(); err != nil {
		return 0, nil, apperr.Wrap(err)
	}
	var next int64
	if len(stories) > 0 {
		next = stories[len(stories)-1].Seqno + 1
	}
	return next, stories, nil
}

// CreateStory inserts a story, letting storage assign the seqno.
func (r Repo) CreateStory(ctx context.Context, name string) (domain.Story, error) {
	now := r.now()
	s := domain.Story{
		ID:        domain.StoryID(uuid.New()),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO stories(id, name, created_at, updated_at) VALUES (?,?,?,?)`,
		s.ID.String(), s.Name, now.Format(timeLayout), now.Format(timeLayout))
	if err != nil {
		return domain.Story{}, apperr.Wrap(err)
	}
	// seqno is the autoincrement rowid.
	seqno, err := res.LastInsertId()
	if err != nil {
		return domain.Story{}, apperr.Wrap(err)
	}
	s.Seqno = seqno
	return s, nil
}

// UpdateStory writes the new name and a refreshed updated_at. Zero rows
// affected means the row vanished since the caller's existence check and
// is reported as NotFound.
func (r Repo) UpdateStory(ctx context.Context, id domain.StoryID, name string) (domain.Story, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE stories SET name=?, updated_at=? WHERE id=?`,
		name, r.now().Format(timeLayout), id.String())
	if err != nil {
		return domain.Story{}, apperr.Wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Story{}, apperr.NotFound("story not found: %s", id)
	}
	return r.FetchStory(ctx, id)
}

// DeleteStory removes the story and every task referencing it as one
// transaction, children first. A failure at any step rolls the whole
// operation back.
func (r Repo) DeleteStory(ctx context.Context, id domain.StoryID) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Wrap(err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE story_id=?`, id.String()); err != nil {
		return apperr.Wrap(err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM stories WHERE id=?`, id.String()); err != nil {
		return apperr.Wrap(err)
	}
	return apperr.Wrap(tx.Commit())
}
