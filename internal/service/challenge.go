package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/micahlt/scratchverifier/internal/store"
	"github.com/micahlt/scratchverifier/internal/util"
)

// ChallengeService generates, refreshes, reads and retires per-(client, user)
// verification challenges.
type ChallengeService struct {
	store *store.Store
}

func NewChallengeService(s *store.Store) *ChallengeService {
	return &ChallengeService{store: s}
}

// Start returns the pair's challenge code, refreshing the expiry of an
// existing unexpired challenge or minting a new code. Safe to call
// repeatedly: a live code is never regenerated.
func (s *ChallengeService) Start(ctx context.Context, clientID int64, username string) (string, error) {
	candidate, err := util.GenerateCode(clientID, username)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	code, refreshed, err := s.store.StartChallenge(ctx, clientID, username, candidate)
	if err != nil {
		return "", fmt.Errorf("start challenge: %w", err)
	}

	log.Info().
		Int64("client_id", clientID).
		Str("username", username).
		Bool("refreshed", refreshed).
		Msg("challenge started")
	return code, nil
}

// LiveCode returns the pair's code, or "" when no live challenge exists.
func (s *ChallengeService) LiveCode(ctx context.Context, clientID int64, username string) (string, error) {
	code, err := s.store.GetLiveCode(ctx, clientID, username)
	if err != nil {
		return "", fmt.Errorf("get live code: %w", err)
	}
	return code, nil
}

// End retires the pair's challenge, logging the outcome.
func (s *ChallengeService) End(ctx context.Context, clientID int64, username string, succeeded bool) error {
	if err := s.store.EndChallenge(ctx, clientID, username, succeeded); err != nil {
		return fmt.Errorf("end challenge: %w", err)
	}

	log.Info().
		Int64("client_id", clientID).
		Str("username", username).
		Bool("succeeded", succeeded).
		Msg("challenge ended")
	return nil
}
