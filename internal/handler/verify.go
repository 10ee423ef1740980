package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/micahlt/scratchverifier/internal/httputil"
	"github.com/micahlt/scratchverifier/internal/middleware"
	"github.com/micahlt/scratchverifier/internal/scratch"
	"github.com/micahlt/scratchverifier/internal/service"
)

// VerificationResponse is returned when a challenge is started.
type VerificationResponse struct {
	Username string `json:"username"`
	Code     string `json:"code"`
}

type VerifyHandler struct {
	challenges *service.ChallengeService
	verifier   *service.VerifierService
	scratch    *scratch.Client
}

func NewVerifyHandler(challenges *service.ChallengeService, verifier *service.VerifierService, sc *scratch.Client) *VerifyHandler {
	return &VerifyHandler{
		challenges: challenges,
		verifier:   verifier,
		scratch:    sc,
	}
}

func (h *VerifyHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Put("/{username}", h.StartVerification)
	r.Post("/{username}", h.FinishVerification)

	return r
}

// PUT /verify/{username}: start (or refresh) a challenge for the target
// account. Requires client credentials.
func (h *VerifyHandler) StartVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientID, ok := middleware.GetClientID(ctx)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Missing client credentials"})
		return
	}

	username, err := checkUsername(ctx, h.scratch, chi.URLParam(r, "username"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	code, err := h.challenges.Start(ctx, clientID, username)
	if err != nil {
		log.Error().Err(err).Msg("failed to start verification")
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, VerificationResponse{Username: username, Code: code})
}

// POST /verify/{username}: decide the pending challenge. 204 when the
// account posted the code, 403 otherwise, 404 when there is no live
// challenge or the account is unknown or unreachable.
func (h *VerifyHandler) FinishVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientID, ok := middleware.GetClientID(ctx)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Missing client credentials"})
		return
	}

	username, err := checkUsername(ctx, h.scratch, chi.URLParam(r, "username"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	verified, err := h.verifier.Verify(ctx, clientID, username)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if !verified {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Verification failed"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
