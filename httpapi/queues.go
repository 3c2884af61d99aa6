package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/skyscape-labs/queueservice/facade"
)

type createQueueRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateQueue(w http.ResponseWriter, r *http.Request) {
	var req createQueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, facade.ErrInvalidArgument)
		return
	}

	q, err := s.facade.CreateQueue(req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.log.Info("queue created", "queueId", q.ID(), "name", q.Name())
	writeJSON(w, http.StatusCreated, queueJSON{
		ID:          q.ID(),
		Name:        q.Name(),
		TaskCount:   q.TaskCount(),
		ResultCount: q.ResultCount(),
	})
}

func (s *Server) handleListQueues(w http.ResponseWriter, r *http.Request) {
	summaries := s.facade.List()
	out := make([]queueJSON, len(summaries))
	for i, qs := range summaries {
		out[i] = queueSummaryToJSON(qs)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRemoveQueue(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.facade.RemoveQueue(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info("queue removed", "queueId", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQueueStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status, err := s.facade.Status(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusToJSON(status))
}
