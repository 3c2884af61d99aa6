package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/skyscape-labs/queueservice/facade"
	"github.com/skyscape-labs/queueservice/queuecore"
)

type submitResultRequest struct {
	TaskID uuid.UUID `json:"taskId"`
	Output string    `json:"output"`
	Status string    `json:"status"`
}

func parseResultStatus(s string) (queuecore.ResultStatus, bool) {
	switch queuecore.ResultStatus(s) {
	case queuecore.ResultSuccess, queuecore.ResultFailure:
		return queuecore.ResultStatus(s), true
	default:
		return "", false
	}
}

func (s *Server) handleSubmitResult(w http.ResponseWriter, r *http.Request) {
	queueID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req submitResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, facade.ErrInvalidArgument)
		return
	}

	status, ok := parseResultStatus(req.Status)
	if !ok {
		s.writeError(w, r, facade.ErrInvalidArgument)
		return
	}

	result, err := s.facade.SubmitResult(queueID, req.TaskID, req.Output, status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.log.Info("result submitted", "queueId", queueID, "taskId", req.TaskID, "status", status)
	writeJSON(w, http.StatusCreated, resultToJSON(result))
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	queueID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	taskID, err := pathUUID(r, "taskId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.facade.GetResult(queueID, taskID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if result == nil {
		s.writeError(w, r, facade.ErrNotFound)
		return
	}

	writeJSON(w, http.StatusOK, resultToJSON(result))
}
