package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/micahlt/scratchverifier/internal/errors"
	"github.com/micahlt/scratchverifier/internal/scratch"
)

// VerifierService decides, from the target account's public comment feed,
// whether the account proved ownership by posting the challenge code.
type VerifierService struct {
	challenges *ChallengeService
	scratch    *scratch.Client
}

func NewVerifierService(challenges *ChallengeService, sc *scratch.Client) *VerifierService {
	return &VerifierService{challenges: challenges, scratch: sc}
}

// Verify consumes the pair's live challenge and reports whether the target
// account posted the code. No live challenge is NotFound. An unreachable
// feed retires the challenge as failed and surfaces as an external error
// (the boundary maps it to NotFound: the caller cannot tell "never existed"
// from "currently inaccessible"). Either way a decision reached here ends
// the challenge exactly once.
func (s *VerifierService) Verify(ctx context.Context, clientID int64, username string) (bool, error) {
	code, err := s.challenges.LiveCode(ctx, clientID, username)
	if err != nil {
		return false, err
	}
	if code == "" {
		return false, apperrors.NotFound("Verification challenge")
	}

	// network fetch, never under the store's lock
	comments, err := s.scratch.FetchComments(ctx, username)
	if err != nil {
		if endErr := s.challenges.End(ctx, clientID, username, false); endErr != nil {
			return false, endErr
		}
		log.Warn().
			Err(err).
			Int64("client_id", clientID).
			Str("username", username).
			Msg("comment feed unavailable, verification failed")
		return false, apperrors.External("scratch comment feed", err)
	}

	// First comment whose author is the target (authors are case-insensitive
	// on Scratch) and whose trimmed body equals the code exactly. Only
	// top-level comments count: reply threads can carry attacker content.
	matched := false
	for _, comment := range comments {
		if !strings.EqualFold(comment.Author, username) {
			continue
		}
		if strings.TrimSpace(comment.Body) == code {
			matched = true
			break
		}
	}

	if err := s.challenges.End(ctx, clientID, username, matched); err != nil {
		return false, err
	}

	log.Info().
		Int64("client_id", clientID).
		Str("username", username).
		Bool("verified", matched).
		Msg("verification decided")
	return matched, nil
}
