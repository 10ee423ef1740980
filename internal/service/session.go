package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/micahlt/scratchverifier/internal/store"
)

// SessionService turns an authenticated username into a bearer session and
// enforces expiry on every session-authenticated operation.
type SessionService struct {
	store *store.Store
}

func NewSessionService(s *store.Store) *SessionService {
	return &SessionService{store: s}
}

func (s *SessionService) Login(ctx context.Context, username string) (int64, error) {
	sessionID, err := s.store.CreateSession(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("create session: %w", err)
	}

	log.Info().
		Int64("session_id", sessionID).
		Str("username", username).
		Msg("session created")
	return sessionID, nil
}

// IsExpired reports whether the session is absent or past expiry. All
// session-authenticated operations call this first.
func (s *SessionService) IsExpired(ctx context.Context, sessionID int64) (bool, error) {
	return s.store.IsSessionExpired(ctx, sessionID)
}

func (s *SessionService) Logout(ctx context.Context, sessionID int64) error {
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	log.Info().Int64("session_id", sessionID).Msg("session logged out")
	return nil
}

func (s *SessionService) LogoutUser(ctx context.Context, username string) error {
	if err := s.store.DeleteSessionsForUser(ctx, username); err != nil {
		return fmt.Errorf("delete sessions for user: %w", err)
	}
	log.Info().Str("username", username).Msg("all sessions logged out")
	return nil
}

// Username resolves the session's owning username, or "" when absent.
func (s *SessionService) Username(ctx context.Context, sessionID int64) (string, error) {
	return s.store.UsernameFromSession(ctx, sessionID)
}
