package storylinesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Storyline HTTP API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Timestamp is seconds plus nanoseconds since the Unix epoch.
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanos"`
}

// Time converts the wire clock to a time.Time.
func (t Timestamp) Time() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanos)).UTC()
}

// Story represents the API story model.
type Story struct {
	StoryID   string    `json:"story_id"`
	Name      string    `json:"name"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// Task represents the API task model.
type Task struct {
	TaskID    string    `json:"task_id"`
	StoryID   string    `json:"story_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// StoryPage wraps a story listing with its cursor.
type StoryPage struct {
	NextCursor int64   `json:"next_cursor"`
	Stories    []Story `json:"stories"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// CreateStory creates a story.
func (c *Client) CreateStory(ctx context.Context, name string) (Story, error) {
	var resp Story
	err := c.do(ctx, http.MethodPost, "stories", map[string]any{"name": name}, &resp)
	return resp, err
}

// ListStories returns one page of stories. A zero cursor starts at the
// beginning; a zero NextCursor in the reply means the listing is done.
func (c *Client) ListStories(ctx context.Context, cursor, limit int64) (StoryPage, error) {
	var resp StoryPage
	endpoint := fmt.Sprintf("stories?cursor=%d&limit=%d", cursor, limit)
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// UpdateStory renames a story.
func (c *Client) UpdateStory(ctx context.Context, storyID, name string) (Story, error) {
	var resp Story
	endpoint := fmt.Sprintf("stories/%s", url.PathEscape(storyID))
	err := c.do(ctx, http.MethodPatch, endpoint, map[string]any{"name": name}, &resp)
	return resp, err
}

// DeleteStory deletes a story together with its tasks.
func (c *Client) DeleteStory(ctx context.Context, storyID string) error {
	endpoint := fmt.Sprintf("stories/%s", url.PathEscape(storyID))
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

// ListTasks returns the tasks of a story.
func (c *Client) ListTasks(ctx context.Context, storyID string) ([]Task, error) {
	var resp struct {
		Tasks []Task `json:"tasks"`
	}
	endpoint := fmt.Sprintf("stories/%s/tasks", url.PathEscape(storyID))
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp.Tasks, err
}

// CreateTask adds a task to a story. An empty status means incomplete.
func (c *Client) CreateTask(ctx context.Context, storyID, name, status string) (Task, error) {
	body := map[string]any{"name": name}
	if status != "" {
		body["status"] = status
	}
	var resp Task
	endpoint := fmt.Sprintf("stories/%s/tasks", url.PathEscape(storyID))
	err := c.do(ctx, http.MethodPost, endpoint, body, &resp)
	return resp, err
}

// UpdateTask updates a task. A nil name keeps the stored one.
func (c *Client) UpdateTask(ctx context.Context, taskID string, name *string, status string) (Task, error) {
	body := map[string]any{"status": status}
	if name != nil {
		body["name"] = *name
	}
	var resp Task
	endpoint := fmt.Sprintf("tasks/%s", url.PathEscape(taskID))
	err := c.do(ctx, http.MethodPatch, endpoint, body, &resp)
	return resp, err
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	endpoint := fmt.Sprintf("tasks/%s", url.PathEscape(taskID))
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

// Health reports whether the server considers itself serving.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/v1/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
