package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/micahlt/scratchverifier/internal/httputil"
	"github.com/micahlt/scratchverifier/internal/model"
	"github.com/micahlt/scratchverifier/internal/scratch"
	"github.com/micahlt/scratchverifier/internal/service"
)

// SessionResponse is returned when a login completes.
type SessionResponse struct {
	Session int64 `json:"session"`
}

// UserHandler drives operator login: proving control of the operator's own
// account via the same challenge flow, under the reserved debug client id.
type UserHandler struct {
	sessions   *service.SessionService
	challenges *service.ChallengeService
	verifier   *service.VerifierService
	scratch    *scratch.Client
}

func NewUserHandler(sessions *service.SessionService, challenges *service.ChallengeService, verifier *service.VerifierService, sc *scratch.Client) *UserHandler {
	return &UserHandler{
		sessions:   sessions,
		challenges: challenges,
		verifier:   verifier,
		scratch:    sc,
	}
}

func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/{username}/login", h.Login)
	r.Post("/{username}/finish-login", h.FinishLogin)
	r.Post("/{username}/logout-all", h.LogoutAll)

	return r
}

// POST /users/{username}/login: start a login challenge for the operator's
// own account. Login challenges run under the sentinel client id.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username, err := checkUsername(ctx, h.scratch, chi.URLParam(r, "username"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	code, err := h.challenges.Start(ctx, model.DebugClientID, username)
	if err != nil {
		log.Error().Err(err).Msg("failed to start login challenge")
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, VerificationResponse{Username: username, Code: code})
}

// POST /users/{username}/finish-login: verify the login challenge and issue
// a session. The username always comes from this request's own validated
// path parameter.
func (h *UserHandler) FinishLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username, err := checkUsername(ctx, h.scratch, chi.URLParam(r, "username"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	verified, err := h.verifier.Verify(ctx, model.DebugClientID, username)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !verified {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Login verification failed"})
		return
	}

	sessionID, err := h.sessions.Login(ctx, username)
	if err != nil {
		log.Error().Err(err).Msg("failed to create session")
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{Session: sessionID})
}

// POST /users/{username}/logout-all?session=N: delete every session of the
// user. The presented session must be live and belong to that user.
func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := strconv.ParseInt(r.URL.Query().Get("session"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Missing or invalid session"})
		return
	}

	expired, err := h.sessions.IsExpired(ctx, sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if expired {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Session expired"})
		return
	}

	username, err := h.sessions.Username(ctx, sessionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	// usernames are case-insensitive; the stored one is case-folded at login
	if !strings.EqualFold(username, chi.URLParam(r, "username")) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Session does not belong to this user"})
		return
	}

	if err := h.sessions.LogoutUser(ctx, username); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
