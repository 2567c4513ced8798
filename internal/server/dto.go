package server

// Request payloads

type CreateStoryRequest struct {
	Name string `json:"name" example:"Books To Read"`
}

type UpdateStoryRequest struct {
	Name string `json:"name" example:"Books"`
}

type CreateTaskRequest struct {
	Name string `json:"name" example:"Suttree"`
	// Status is optional; anything but "complete" means incomplete.
	Status string `json:"status,omitempty" example:"incomplete"`
}

type UpdateTaskRequest struct {
	Name   *string `json:"name,omitempty" example:"Suttree"`
	Status string  `json:"status,omitempty" example:"complete"`
}

// Response payloads

// Timestamp is the wire clock representation: seconds plus nanoseconds
// since the Unix epoch.
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanos"`
}

type StoryData struct {
	StoryID   string    `json:"story_id" format:"uuid"`
	Name      string    `json:"name"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

type TaskData struct {
	TaskID    string    `json:"task_id" format:"uuid"`
	StoryID   string    `json:"story_id" format:"uuid"`
	Name      string    `json:"name"`
	Status    string    `json:"status" enum:"incomplete,complete"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

type ListStoriesResponse struct {
	NextCursor int64       `json:"next_cursor"`
	Stories    []StoryData `json:"stories"`
}

type ListTasksResponse struct {
	Tasks []TaskData `json:"tasks"`
}
