package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"storyline/internal/usecase"
	"storyline/internal/validate"
)

type storyOutput struct {
	Body StoryData
}

type listStoriesInput struct {
	Cursor int64 `query:"cursor" example:"1"`
	Limit  int64 `query:"limit" example:"10"`
}

type listStoriesOutput struct {
	Body ListStoriesResponse
}

type storyPathInput struct {
	StoryID string `path:"story_id"`
}

type updateStoryInput struct {
	StoryID string `path:"story_id"`
	Body    UpdateStoryRequest
}

type createStoryInput struct {
	Body CreateStoryRequest
}

func registerStories(api huma.API, uc usecase.Context) {
	huma.Register(api, huma.Operation{
		OperationID: "create-story",
		Method:      http.MethodPost,
		Path:        "/stories",
		Summary:     "Create a story",
	}, func(ctx context.Context, input *createStoryInput) (*storyOutput, error) {
		logrus.Debug("create story")
		name, err := validate.Name(input.Body.Name, "name")
		if err != nil {
			return nil, handleError(err)
		}
		story, err := uc.CreateStory.Execute(ctx, name)
		if err != nil {
			return nil, handleError(err)
		}
		return &storyOutput{Body: toStoryData(story)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-stories",
		Method:      http.MethodGet,
		Path:        "/stories",
		Summary:     "List a page of stories",
		Description: "Pages are keyed by an opaque integer cursor; a zero next_cursor means no more data.",
	}, func(ctx context.Context, input *listStoriesInput) (*listStoriesOutput, error) {
		logrus.Debug("list stories")
		cursor, limit := validate.ClampPageBounds(input.Cursor, input.Limit)
		next, stories, err := uc.ListStories.Execute(ctx, cursor, limit)
		if err != nil {
			return nil, handleError(err)
		}
		return &listStoriesOutput{Body: ListStoriesResponse{
			NextCursor: next,
			Stories:    toStoryList(stories),
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-story",
		Method:      http.MethodPatch,
		Path:        "/stories/{story_id}",
		Summary:     "Rename a story",
	}, func(ctx context.Context, input *updateStoryInput) (*storyOutput, error) {
		logrus.Debug("update story")
		storyID, err := validate.StoryID(input.StoryID)
		if err != nil {
			return nil, handleError(err)
		}
		name, err := validate.Name(input.Body.Name, "name")
		if err != nil {
			return nil, handleError(err)
		}
		story, err := uc.UpdateStory.Execute(ctx, storyID, name)
		if err != nil {
			return nil, handleError(err)
		}
		return &storyOutput{Body: toStoryData(story)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-story",
		Method:      http.MethodDelete,
		Path:        "/stories/{story_id}",
		Summary:     "Delete a story and its tasks",
	}, func(ctx context.Context, input *storyPathInput) (*struct{}, error) {
		logrus.Debug("delete story")
		storyID, err := validate.StoryID(input.StoryID)
		if err != nil {
			return nil, handleError(err)
		}
		if err := uc.DeleteStory.Execute(ctx, storyID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}
