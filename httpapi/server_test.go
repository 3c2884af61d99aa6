package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/skyscape-labs/queueservice/facade"
	"github.com/skyscape-labs/queueservice/queuecore"
)

func newTestServer() *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(facade.New(queuecore.NewRegistry()), log)
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func createQueue(t *testing.T, s *Server, name string) queueJSON {
	t.Helper()
	rec := doRequest(t, s, "POST", "/queue", createQueueRequest{Name: name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create queue: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var q queueJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return q
}

func TestHealthz(t *testing.T) {
	s := newTestServer()
	rec := doRequest(t, s, "GET", "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestCreateQueueRejectsBlankName(t *testing.T) {
	s := newTestServer()
	rec := doRequest(t, s, "POST", "/queue", createQueueRequest{Name: "  "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateQueueMalformedBody(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest("POST", "/queue", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestEnqueueAndDequeueRoundTrip(t *testing.T) {
	s := newTestServer()
	q := createQueue(t, s, "jobs")

	rec := doRequest(t, s, "POST", fmt.Sprintf("/queue/%s/task", q.ID), enqueueTaskRequest{Params: "p", Priority: 5})
	if rec.Code != http.StatusCreated {
		t.Fatalf("enqueue status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, s, "GET", fmt.Sprintf("/queue/%s/task", q.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dequeue status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var task taskJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if task.Status != string(queuecore.StatusInProgress) {
		t.Errorf("status = %q, want IN_PROGRESS", task.Status)
	}
}

func TestDequeueEmptyQueueReturns204(t *testing.T) {
	s := newTestServer()
	q := createQueue(t, s, "jobs")
	rec := doRequest(t, s, "GET", fmt.Sprintf("/queue/%s/task", q.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

// TestMalformedQueueIDReturns400 is scenario S7.
func TestMalformedQueueIDReturns400(t *testing.T) {
	s := newTestServer()
	rec := doRequest(t, s, "GET", "/queue/not-a-uuid/task", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUnknownQueueReturns404(t *testing.T) {
	s := newTestServer()
	rec := doRequest(t, s, "GET", fmt.Sprintf("/queue/%s/status", uuid.New()), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestInvalidResultStatusReturns400 is scenario S8.
func TestInvalidResultStatusReturns400(t *testing.T) {
	s := newTestServer()
	q := createQueue(t, s, "jobs")
	rec := doRequest(t, s, "POST", fmt.Sprintf("/queue/%s/result", q.ID), submitResultRequest{
		TaskID: uuid.New(),
		Output: "x",
		Status: "NOT_A_STATUS",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSubmitAndFetchResult(t *testing.T) {
	s := newTestServer()
	q := createQueue(t, s, "jobs")
	taskID := uuid.New()

	rec := doRequest(t, s, "POST", fmt.Sprintf("/queue/%s/result", q.ID), submitResultRequest{
		TaskID: taskID,
		Output: "done",
		Status: "SUCCESS",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, s, "GET", fmt.Sprintf("/queue/%s/result/%s", q.ID, taskID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var result resultJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.Output != "done" {
		t.Errorf("output = %q, want done", result.Output)
	}
}

func TestGetResultUnknownTaskIDReturns404(t *testing.T) {
	s := newTestServer()
	q := createQueue(t, s, "jobs")
	rec := doRequest(t, s, "GET", fmt.Sprintf("/queue/%s/result/%s", q.ID, uuid.New()), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListQueues(t *testing.T) {
	s := newTestServer()
	createQueue(t, s, "a")
	createQueue(t, s, "b")

	rec := doRequest(t, s, "GET", "/queue", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var list []queueJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("len = %d, want 2", len(list))
	}
}

func TestRemoveQueue(t *testing.T) {
	s := newTestServer()
	q := createQueue(t, s, "jobs")

	rec := doRequest(t, s, "DELETE", fmt.Sprintf("/queue/%s", q.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	rec = doRequest(t, s, "GET", fmt.Sprintf("/queue/%s/status", q.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 after removal", rec.Code)
	}
}

func TestQueueStatus(t *testing.T) {
	s := newTestServer()
	q := createQueue(t, s, "jobs")
	doRequest(t, s, "POST", fmt.Sprintf("/queue/%s/task", q.ID), enqueueTaskRequest{Params: "p", Priority: 1})

	rec := doRequest(t, s, "GET", fmt.Sprintf("/queue/%s/status", q.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var status statusJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if status.PendingTaskCount != 1 {
		t.Errorf("pending = %d, want 1", status.PendingTaskCount)
	}
}

func TestClearAll(t *testing.T) {
	s := newTestServer()
	createQueue(t, s, "a")
	createQueue(t, s, "b")

	rec := doRequest(t, s, "DELETE", "/queue/admin/clear", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp clearAllResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.QueuesCleared != 2 {
		t.Errorf("queuesCleared = %d, want 2", resp.QueuesCleared)
	}

	rec = doRequest(t, s, "GET", "/queue", nil)
	var list []queueJSON
	json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list) != 0 {
		t.Errorf("len = %d, want 0 after clear", len(list))
	}
}
