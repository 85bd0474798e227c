package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// errorResponse is the body of every failed request. Subject names what was
// requested ("project" or "version").
type errorResponse struct {
	subject string
	id      string
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e errorResponse) MarshalJSON() ([]byte, error) {
	body := map[string]interface{}{
		"status":  e.Status,
		"message": e.Message,
	}
	if e.subject != "" {
		body[e.subject] = e.id
	}
	return json.Marshal(body)
}

// writeJSON writes v as a JSON response with the given status
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, subject, id string, status int, message string) {
	s.writeJSON(w, status, errorResponse{
		subject: subject,
		id:      id,
		Status:  status,
		Message: message,
	})
}
