package api

import (
	"encoding/json"
	"net/http"

	apperrors "factory-matching/internal/common/errors"
)

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *errorBody  `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// writeError renders err as the error envelope. Client errors carry their
// details; server errors only expose the generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := apperrors.Normalize(err)
	status := apperrors.HTTPStatus(stdErr.Code)

	message := stdErr.Message
	if status < http.StatusInternalServerError && stdErr.Details != "" {
		message = stdErr.Message + ": " + stdErr.Details
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", map[string]interface{}{
			"path":    r.URL.Path,
			"code":    string(stdErr.Code),
			"details": stdErr.Details,
		})
	}

	writeJSON(w, status, envelope{
		Success: false,
		Error:   &errorBody{Code: string(stdErr.Code), Message: message},
	})
}
