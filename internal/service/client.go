package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	apperrors "github.com/micahlt/scratchverifier/internal/errors"
	"github.com/micahlt/scratchverifier/internal/model"
	"github.com/micahlt/scratchverifier/internal/scratch"
	"github.com/micahlt/scratchverifier/internal/store"
)

// ClientService issues and manages API credentials for operators.
type ClientService struct {
	store   *store.Store
	scratch *scratch.Client
}

func NewClientService(s *store.Store, sc *scratch.Client) *ClientService {
	return &ClientService{store: s, scratch: sc}
}

// Matches reports whether the (client_id, token) credential pair is valid.
func (s *ClientService) Matches(ctx context.Context, clientID int64, token string) (bool, error) {
	return s.store.ClientMatches(ctx, clientID, token)
}

// GetBySession returns the session owner's client, or nil when absent.
func (s *ClientService) GetBySession(ctx context.Context, sessionID int64) (*model.Client, error) {
	client, err := s.store.GetClientBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get client by session: %w", err)
	}
	return client, nil
}

// Create issues a credential to the session's operator. The operator's
// Scratch account id becomes the client id; the profile lookup happens
// outside the store's lock.
func (s *ClientService) Create(ctx context.Context, sessionID int64) (*model.Client, error) {
	if sessionID == model.DebugSessionID {
		client := model.DebugClient()
		return &client, nil
	}

	username, err := s.store.UsernameFromSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if username == "" {
		return nil, apperrors.Unauthorized("Session not found")
	}

	user, err := s.scratch.GetUser(ctx, username)
	if err != nil {
		return nil, apperrors.External("scratch users api", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("Scratch user")
	}

	client, err := s.store.CreateClient(ctx, user.ID, username)
	if errors.Is(err, store.ErrClientExists) {
		return nil, apperrors.Conflict("A client already exists for this user")
	}
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	log.Info().
		Int64("client_id", client.ClientID).
		Str("username", username).
		Msg("client created")
	return client, nil
}

// ResetToken replaces the credential's secret, keeping the identity.
func (s *ClientService) ResetToken(ctx context.Context, sessionID int64) (*model.Client, error) {
	client, err := s.store.ResetToken(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("reset token: %w", err)
	}
	if client == nil {
		return nil, apperrors.NotFound("Client")
	}

	log.Info().Int64("client_id", client.ClientID).Msg("client token reset")
	return client, nil
}

// Delete revokes the session owner's credential. Idempotent.
func (s *ClientService) Delete(ctx context.Context, sessionID int64) error {
	if err := s.store.DeleteClient(ctx, sessionID); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	log.Info().Int64("session_id", sessionID).Msg("client deleted")
	return nil
}
