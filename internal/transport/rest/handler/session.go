package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"spatialboard/internal/model"
	"spatialboard/internal/service"
)

// SessionHandler handles session lifecycle and chat endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessionSvc.Create(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// Get handles GET /v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessionSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// SelectStudent handles POST /v1/sessions/{id}/student
func (h *SessionHandler) SelectStudent(w http.ResponseWriter, r *http.Request) {
	var req model.SelectStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.sessionSvc.SelectStudent(r.Context(), mux.Vars(r)["id"], req.StudentName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Chat handles POST /v1/sessions/{id}/chat
func (h *SessionHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, answer, err := h.sessionSvc.Chat(r.Context(), mux.Vars(r)["id"], req.Question)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"answer":  answer,
		"session": sess,
	})
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps service errors onto status codes: refused inputs
// keep 422 so the page can show the message inline next to the form.
func writeServiceError(w http.ResponseWriter, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &vErr):
		writeError(w, http.StatusUnprocessableEntity, vErr.Msg)
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
