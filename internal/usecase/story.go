package usecase

import (
	"context"

	"storyline/internal/domain"
)

// CreateStory inserts a story; no pre-check is needed since inserts
// cannot conflict.
type CreateStory struct {
	Stories StoryStore
}

func (uc CreateStory) Execute(ctx context.Context, name string) (domain.Story, error) {
	return uc.Stories.CreateStory(ctx, name)
}

// ListStories fetches a page of stories.
type ListStories struct {
	Stories StoryStore
}

func (uc ListStories) Execute(ctx context.Context, cursor, limit int64) (int64, []domain.Story, error) {
	return uc.Stories.ListStories(ctx, cursor, limit)
}

// UpdateStory renames a story. The write is skipped entirely when the
// new name equals the current one, so a no-op update never advances
// updated_at.
type UpdateStory struct {
	Stories StoryStore
}

func (uc UpdateStory) Execute(ctx context.Context, id domain.StoryID, name string) (domain.Story, error) {
	story, err := uc.Stories.FetchStory(ctx, id)
	if err != nil {
		return domain.Story{}, err
	}
	if story.Name == name {
		return story, nil
	}
	return uc.Stories.UpdateStory(ctx, id, name)
}

// DeleteStory removes a story and its tasks. The fetch produces a clean
// NotFound; the repo delete alone would silently succeed on a missing
// row.
type DeleteStory struct {
	Stories StoryStore
}

func (uc DeleteStory) Execute(ctx context.Context, id domain.StoryID) error {
	if _, err := uc.Stories.FetchStory(ctx, id); err != nil {
		return err
	}
	return uc.Stories.DeleteStory(ctx, id)
}
