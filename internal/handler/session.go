package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/micahlt/scratchverifier/internal/httputil"
	"github.com/micahlt/scratchverifier/internal/service"
)

// SessionHandler manages the operator's credential through a session:
// fetch, create, reset and revoke, plus logout.
type SessionHandler struct {
	sessions *service.SessionService
	clients  *service.ClientService
}

func NewSessionHandler(sessions *service.SessionService, clients *service.ClientService) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		clients:  clients,
	}
}

func (h *SessionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{session}", h.GetClient)
	r.Put("/{session}", h.CreateClient)
	r.Patch("/{session}", h.ResetToken)
	r.Delete("/{session}", h.DeleteClient)
	r.Post("/{session}/logout", h.Logout)

	return r
}

// checkSession parses the path parameter and enforces expiry. Absent and
// expired sessions are indistinguishable to the caller.
func (h *SessionHandler) checkSession(w http.ResponseWriter, r *http.Request) (int64, bool) {
	sessionID, err := strconv.ParseInt(chi.URLParam(r, "session"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid session"})
		return 0, false
	}

	expired, err := h.sessions.IsExpired(r.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Msg("session expiry check failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return 0, false
	}
	if expired {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Session expired"})
		return 0, false
	}
	return sessionID, true
}

// GET /session/{session}: the session owner's client credential.
func (h *SessionHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.checkSession(w, r)
	if !ok {
		return
	}

	client, err := h.clients.GetBySession(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if client == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Client not found"})
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// PUT /session/{session}: issue a credential; 409 when one already exists.
func (h *SessionHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.checkSession(w, r)
	if !ok {
		return
	}

	client, err := h.clients.Create(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// PATCH /session/{session}: reset the credential's secret.
func (h *SessionHandler) ResetToken(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.checkSession(w, r)
	if !ok {
		return
	}

	client, err := h.clients.ResetToken(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

// DELETE /session/{session}: revoke the credential.
func (h *SessionHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.checkSession(w, r)
	if !ok {
		return
	}

	if err := h.clients.Delete(r.Context(), sessionID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /session/{session}/logout: delete this session. Idempotent.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID, err := strconv.ParseInt(chi.URLParam(r, "session"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid session"})
		return
	}

	if err := h.sessions.Logout(r.Context(), sessionID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
