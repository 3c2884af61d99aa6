package httpapi

import "net/http"

type clearAllResponse struct {
	Message       string `json:"message"`
	QueuesCleared int    `json:"queuesCleared"`
}

func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	n := s.facade.ClearAll()
	s.log.Info("registry cleared", "queuesCleared", n)
	writeJSON(w, http.StatusOK, clearAllResponse{
		Message:       "all queues cleared",
		QueuesCleared: n,
	})
}
