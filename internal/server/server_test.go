package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"testing"

	"storyline/internal/db"
	"storyline/internal/migrate"
	"storyline/internal/repo"
	"storyline/internal/usecase"
)

type testServer struct {
	URL    string
	client *http.Client
	close  func()
}

func (s *testServer) Client() *http.Client { return s.client }
func (s *testServer) Close()               { s.close() }

func newTestServer(t *testing.T) (*testServer, func()) {
	t.Helper()
	conn, err := db.Open(db.Config{Path: filepath.Join(t.TempDir(), "storyline.db")})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	handler, err := New(Config{UseCases: usecase.New(repo.New(conn)), BasePath: "/v1"})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	testSrv := &testServer{
		URL:    "http://" + ln.Addr().String(),
		client: &http.Client{},
		close: func() {
			srv.Shutdown(context.Background())
			ln.Close()
			conn.Close()
		},
	}
	return testSrv, func() { testSrv.Close() }
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, data
}

func createStory(t *testing.T, srv *testServer, name string) StoryData {
	t.Helper()
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v1/stories", map[string]any{"name": name})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("create story status %d: %s", res.StatusCode, string(data))
	}
	var story StoryData
	if err := json.Unmarshal(data, &story); err != nil {
		t.Fatalf("unmarshal story: %v", err)
	}
	return story
}

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, data []byte) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal error envelope: %v (%s)", err, string(data))
	}
	return env
}

func TestStoryLifecycle(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	story := createStory(t, srv, "  Books To Read  ")
	if story.Name != "Books To Read" {
		t.Fatalf("name not trimmed: %q", story.Name)
	}
	if story.StoryID == "" {
		t.Fatal("missing story_id")
	}

	res, data := doJSON(t, client, http.MethodPatch, srv.URL+"/v1/stories/"+story.StoryID, map[string]any{"name": "Books"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update status %d: %s", res.StatusCode, string(data))
	}
	var renamed StoryData
	if err := json.Unmarshal(data, &renamed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if renamed.Name != "Books" {
		t.Fatalf("rename not applied: %q", renamed.Name)
	}

	res, _ = doJSON(t, client, http.MethodDelete, srv.URL+"/v1/stories/"+story.StoryID, nil)
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status %d", res.StatusCode)
	}

	res, data = doJSON(t, client, http.MethodPatch, srv.URL+"/v1/stories/"+story.StoryID, map[string]any{"name": "Gone"})
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("update after delete status %d: %s", res.StatusCode, string(data))
	}
	if env := decodeError(t, data); env.Error.Code != "not_found" {
		t.Fatalf("expected not_found, got %q", env.Error.Code)
	}
}

func TestUpdateStorySameNameKeepsTimestamps(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	story := createStory(t, srv, "Stable")
	res, data := doJSON(t, srv.Client(), http.MethodPatch, srv.URL+"/v1/stories/"+story.StoryID, map[string]any{"name": "Stable"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update status %d: %s", res.StatusCode, string(data))
	}
	var again StoryData
	if err := json.Unmarshal(data, &again); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if again.UpdatedAt != story.UpdatedAt {
		t.Fatalf("updated_at moved on no-op rename: %+v vs %+v", again.UpdatedAt, story.UpdatedAt)
	}
}

func TestListStoriesPagination(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	for _, n := range names {
		createStory(t, srv, n)
	}

	seen := 0
	cursor := int64(0)
	for page := 0; ; page++ {
		res, data := doJSON(t, client, http.MethodGet, srv.URL+"/v1/stories?cursor="+strconv.FormatInt(cursor, 10)+"&limit=10", nil)
		if res.StatusCode != http.StatusOK {
			t.Fatalf("list status %d: %s", res.StatusCode, string(data))
		}
		var out ListStoriesResponse
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("unmarshal list: %v", err)
		}
		seen += len(out.Stories)
		if out.NextCursor == 0 {
			break
		}
		cursor = out.NextCursor
		if page > 3 {
			t.Fatal("pagination did not terminate")
		}
	}
	if seen != len(names) {
		t.Fatalf("paged through %d stories, want %d", seen, len(names))
	}
}

func TestCreateStoryRejectsBadNames(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	res, data := doJSON(t, client, http.MethodPost, srv.URL+"/v1/stories", map[string]any{"name": "   "})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("blank name status %d: %s", res.StatusCode, string(data))
	}
	env := decodeError(t, data)
	if env.Error.Code != "invalid_argument" {
		t.Fatalf("expected invalid_argument, got %q", env.Error.Code)
	}
	if env.Error.Message != "name cannot be empty" {
		t.Fatalf("unexpected message %q", env.Error.Message)
	}

	long := bytes.Repeat([]byte("x"), 1001)
	res, data = doJSON(t, client, http.MethodPost, srv.URL+"/v1/stories", map[string]any{"name": string(long)})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("long name status %d: %s", res.StatusCode, string(data))
	}
	if env := decodeError(t, data); env.Error.Message != "name is too long" {
		t.Fatalf("unexpected message %q", env.Error.Message)
	}
}

func TestMalformedStoryID(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	res, data := doJSON(t, srv.Client(), http.MethodDelete, srv.URL+"/v1/stories/not-a-uuid", nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d: %s", res.StatusCode, string(data))
	}
	if env := decodeError(t, data); env.Error.Code != "invalid_argument" {
		t.Fatalf("expected invalid_argument, got %q", env.Error.Code)
	}
}

func TestTaskLifecycle(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	story := createStory(t, srv, "Reading")

	res, data := doJSON(t, client, http.MethodPost, srv.URL+"/v1/stories/"+story.StoryID+"/tasks", map[string]any{
		"name": "Suttree",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("create task status %d: %s", res.StatusCode, string(data))
	}
	var task TaskData
	if err := json.Unmarshal(data, &task); err != nil {
		t.Fatalf("unmarshal task: %v", err)
	}
	if task.Status != "incomplete" {
		t.Fatalf("omitted status should read incomplete, got %q", task.Status)
	}
	if task.StoryID != story.StoryID {
		t.Fatalf("task bound to %q, want %q", task.StoryID, story.StoryID)
	}

	// Status flips without a name in the payload; the name stays put.
	res, data = doJSON(t, client, http.MethodPatch, srv.URL+"/v1/tasks/"+task.TaskID, map[string]any{
		"status": "complete",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update task status %d: %s", res.StatusCode, string(data))
	}
	var updated TaskData
	if err := json.Unmarshal(data, &updated); err != nil {
		t.Fatalf("unmarshal task: %v", err)
	}
	if updated.Status != "complete" {
		t.Fatalf("status not flipped: %q", updated.Status)
	}
	if updated.Name != "Suttree" {
		t.Fatalf("name changed without being sent: %q", updated.Name)
	}

	res, data = doJSON(t, client, http.MethodGet, srv.URL+"/v1/stories/"+story.StoryID+"/tasks", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list tasks status %d: %s", res.StatusCode, string(data))
	}
	var list ListTasksResponse
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(list.Tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(list.Tasks))
	}

	res, _ = doJSON(t, client, http.MethodDelete, srv.URL+"/v1/tasks/"+task.TaskID, nil)
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("delete task status %d", res.StatusCode)
	}
	res, data = doJSON(t, client, http.MethodDelete, srv.URL+"/v1/tasks/"+task.TaskID, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status %d: %s", res.StatusCode, string(data))
	}
}

func TestCreateTaskToleratesUnknownStatus(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	story := createStory(t, srv, "Chores")
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v1/stories/"+story.StoryID+"/tasks", map[string]any{
		"name":   "Sweep",
		"status": "blocked",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("create task status %d: %s", res.StatusCode, string(data))
	}
	var task TaskData
	if err := json.Unmarshal(data, &task); err != nil {
		t.Fatalf("unmarshal task: %v", err)
	}
	if task.Status != "incomplete" {
		t.Fatalf("unknown status should read incomplete, got %q", task.Status)
	}
}

func TestListTasksOnMissingStory(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v1/stories/4ac0160a-4700-4c59-9d28-8f6308e805ce/tasks", nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d: %s", res.StatusCode, string(data))
	}
	if env := decodeError(t, data); env.Error.Code != "not_found" {
		t.Fatalf("expected not_found, got %q", env.Error.Code)
	}
}

func TestDeleteStoryRemovesTasks(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	story := createStory(t, srv, "Doomed")
	res, data := doJSON(t, client, http.MethodPost, srv.URL+"/v1/stories/"+story.StoryID+"/tasks", map[string]any{"name": "Orphaned"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("create task status %d: %s", res.StatusCode, string(data))
	}
	var task TaskData
	if err := json.Unmarshal(data, &task); err != nil {
		t.Fatalf("unmarshal task: %v", err)
	}

	res, _ = doJSON(t, client, http.MethodDelete, srv.URL+"/v1/stories/"+story.StoryID, nil)
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("delete story status %d", res.StatusCode)
	}

	res, data = doJSON(t, client, http.MethodPatch, srv.URL+"/v1/tasks/"+task.TaskID, map[string]any{"status": "complete"})
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("task survived story delete: status %d: %s", res.StatusCode, string(data))
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()

	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v1/health", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("health status %d: %s", res.StatusCode, string(data))
	}
	var out healthBody
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal health: %v", err)
	}
	if out.Status != "ok" {
		t.Fatalf("health status %q", out.Status)
	}
}
