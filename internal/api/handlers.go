package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "factory-matching/internal/common/errors"
	"factory-matching/internal/common/validation"
	"factory-matching/internal/models"
)

const maxBodyBytes = 1 << 20

// decodeValidated reads the body, checks it against schema and decodes it into out.
// Failures are reported with invalid, which builds the domain error for the endpoint.
func decodeValidated(r *http.Request, schema string, out interface{}, invalid func(string) error) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return invalid("request body could not be read")
	}

	result, err := validation.ValidateJSON(schema, raw)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !result.Valid {
		return invalid(result.Error())
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return invalid("request body is not valid JSON")
	}
	return nil
}

func invalidMatchRequest(details string) error {
	return apperrors.NewInvalidRequestError(details)
}

func invalidConsultation(details string) error {
	return apperrors.NewConsultationValidationError(details)
}

// ==========================
// Health
// ==========================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]string, len(s.ready))
	status := http.StatusOK
	for name, check := range s.ready {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	writeJSON(w, status, map[string]interface{}{"status": state, "checks": checks})
}

func (s *Server) handleRateLimited(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusTooManyRequests, envelope{
		Success: false,
		Error:   &errorBody{Code: "RATE_LIMITED", Message: "Too many requests"},
	})
}

// ==========================
// Factory matching
// ==========================

func (s *Server) handleFactoryMatching(w http.ResponseWriter, r *http.Request) {
	var req models.MatchRequest
	if err := decodeValidated(r, validation.SchemaMatchRequest, &req, invalidMatchRequest); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.matcher.Recommend(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (s *Server) handleListFactories(w http.ResponseWriter, r *http.Request) {
	factories, err := s.matcher.Factories(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, factories)
}

func (s *Server) handleGetFactory(w http.ResponseWriter, r *http.Request) {
	f, err := s.matcher.Factory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, f)
}

// ==========================
// Consultations
// ==========================

func (s *Server) handleCreateConsultation(w http.ResponseWriter, r *http.Request) {
	var req models.ConsultationRequest
	if err := decodeValidated(r, validation.SchemaConsultationRequest, &req, invalidConsultation); err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.consultations.Create(r.Context(), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Data:    c,
		Message: "Your consultation request was received. We will contact you within one business day.",
	})
}

func (s *Server) handleListConsultations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ConsultationFilter{
		Status:      models.ConsultationStatus(q.Get("status")),
		ProjectType: q.Get("projectType"),
		Page:        atoiOr(q.Get("page"), 0),
		Limit:       atoiOr(q.Get("limit"), 0),
	}

	page, err := s.consultations.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: page.Items, Meta: page.Meta})
}

func (s *Server) handleGetConsultation(w http.ResponseWriter, r *http.Request) {
	c, err := s.consultations.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (s *Server) handleUpdateConsultation(w http.ResponseWriter, r *http.Request) {
	var upd models.ConsultationUpdate
	if err := decodeValidated(r, validation.SchemaConsultationUpdate, &upd, invalidConsultation); err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.consultations.Update(r.Context(), chi.URLParam(r, "id"), &upd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (s *Server) handleDeleteConsultation(w http.ResponseWriter, r *http.Request) {
	if err := s.consultations.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Consultation deleted."})
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
