package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/skyscape-labs/queueservice/facade"
)

type enqueueTaskRequest struct {
	Params   string `json:"params"`
	Priority int64  `json:"priority"`
}

func (s *Server) handleEnqueueTask(w http.ResponseWriter, r *http.Request) {
	queueID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req enqueueTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, facade.ErrInvalidArgument)
		return
	}

	task, err := s.facade.EnqueueTask(queueID, req.Params, req.Priority)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.log.Info("task enqueued", "queueId", queueID, "taskId", task.ID(), "priority", task.Priority())
	writeJSON(w, http.StatusCreated, taskToJSON(task))
}

func (s *Server) handleDequeueTask(w http.ResponseWriter, r *http.Request) {
	queueID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.facade.DequeueTask(queueID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if task == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.log.Info("task dequeued", "queueId", queueID, "taskId", task.ID())
	writeJSON(w, http.StatusOK, taskToJSON(task))
}
