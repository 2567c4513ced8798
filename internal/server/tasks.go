package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"storyline/internal/usecase"
	"storyline/internal/validate"
)

type taskOutput struct {
	Body TaskData
}

type listTasksInput struct {
	StoryID string `path:"story_id"`
}

type listTasksOutput struct {
	Body ListTasksResponse
}

type createTaskInput struct {
	StoryID string `path:"story_id"`
	Body    CreateTaskRequest
}

type updateTaskInput struct {
	TaskID string `path:"task_id"`
	Body   UpdateTaskRequest
}

type taskPathInput struct {
	TaskID string `path:"task_id"`
}

func registerTasks(api huma.API, uc usecase.Context) {
	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/stories/{story_id}/tasks",
		Summary:     "List the tasks of a story",
	}, func(ctx context.Context, input *listTasksInput) (*listTasksOutput, error) {
		logrus.Debug("list tasks")
		storyID, err := validate.StoryID(input.StoryID)
		if err != nil {
			return nil, handleError(err)
		}
		tasks, err := uc.ListTasks.Execute(ctx, storyID)
		if err != nil {
			return nil, handleError(err)
		}
		return &listTasksOutput{Body: ListTasksResponse{Tasks: toTaskList(tasks)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-task",
		Method:      http.MethodPost,
		Path:        "/stories/{story_id}/tasks",
		Summary:     "Add a task to a story",
	}, func(ctx context.Context, input *createTaskInput) (*taskOutput, error) {
		logrus.Debug("create task")
		storyID, err := validate.StoryID(input.StoryID)
		if err != nil {
			return nil, handleError(err)
		}
		name, err := validate.Name(input.Body.Name, "name")
		if err != nil {
			return nil, handleError(err)
		}
		task, err := uc.CreateTask.Execute(ctx, storyID, name, statusFromWire(input.Body.Status))
		if err != nil {
			return nil, handleError(err)
		}
		return &taskOutput{Body: toTaskData(task)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPatch,
		Path:        "/tasks/{task_id}",
		Summary:     "Update a task",
		Description: "Omitting name keeps the stored one; status is always rewritten.",
	}, func(ctx context.Context, input *updateTaskInput) (*taskOutput, error) {
		logrus.Debug("update task")
		taskID, err := validate.TaskID(input.TaskID)
		if err != nil {
			return nil, handleError(err)
		}
		name, err := validate.OptionalName(input.Body.Name, "name")
		if err != nil {
			return nil, handleError(err)
		}
		task, err := uc.UpdateTask.Execute(ctx, taskID, name, statusFromWire(input.Body.Status))
		if err != nil {
			return nil, handleError(err)
		}
		return &taskOutput{Body: toTaskData(task)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-task",
		Method:      http.MethodDelete,
		Path:        "/tasks/{task_id}",
		Summary:     "Delete a task",
	}, func(ctx context.Context, input *taskPathInput) (*struct{}, error) {
		logrus.Debug("delete task")
		taskID, err := validate.TaskID(input.TaskID)
		if err != nil {
			return nil, handleError(err)
		}
		if err := uc.DeleteTask.Execute(ctx, taskID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}
