package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ignite/footprint/internal/auth"
	"github.com/ignite/footprint/internal/session"
	"github.com/ignite/footprint/internal/storage"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	runner   *Runner
	sessions *session.Store
	tokens   *storage.TokenStore
}

// NewHandlers creates a new Handlers instance
func NewHandlers(runner *Runner, sessions *session.Store, tokens *storage.TokenStore) *Handlers {
	return &Handlers{
		runner:   runner,
		sessions: sessions,
		tokens:   tokens,
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// HealthCheck reports service liveness
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now(),
	})
}

// startRequest is the StartAnalysis request body
type startRequest struct {
	Email string `json:"email"`
}

// StartAnalysis kicks off a background analysis run and returns its
// session id immediately.
func (h *Handlers) StartAnalysis(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "email is required")
		return
	}

	// The account must be connected before analysis can start
	if _, err := h.tokens.Load(r.Context(), auth.Provider, req.Email); err != nil {
		if err == storage.ErrNotFound {
			respondError(w, http.StatusConflict, "account not connected")
			return
		}
		respondError(w, http.StatusInternalServerError, "token lookup failed")
		return
	}

	id := uuid.New().String()
	status, err := h.sessions.Create(r.Context(), id, req.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	go h.runner.Run(id, req.Email)

	respondJSON(w, http.StatusAccepted, status)
}

// GetStatus returns the current state of an analysis session, including
// the report once completed.
func (h *Handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	status, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		if err == session.ErrNotFound {
			respondError(w, http.StatusNotFound, "session not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "session lookup failed")
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// ListAccounts returns the connected accounts.
func (h *Handlers) ListAccounts(w http.ResponseWriter, r *http.Request) {
	emails, err := h.tokens.ListAccounts(r.Context(), auth.Provider)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "account lookup failed")
		return
	}
	if emails == nil {
		emails = []string{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": emails,
	})
}
