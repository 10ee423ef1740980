package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/micahlt/scratchverifier/internal/model"
	"github.com/micahlt/scratchverifier/internal/util"
)

// ClientMatches reports whether the (client_id, token) credential pair is
// valid. Pure read, no lock.
func (s *Store) ClientMatches(ctx context.Context, clientID int64, token string) (bool, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `
		SELECT client_id FROM clients WHERE client_id = ? AND token = ?
	`, clientID, token)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UsernameFromSession returns the username owning the session, or "" if the
// session does not exist.
func (s *Store) UsernameFromSession(ctx context.Context, sessionID int64) (string, error) {
	var username string
	err := s.db.GetContext(ctx, &username, `
		SELECT username FROM sessions WHERE session_id = ?
	`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return username, nil
}

// GetClientBySession resolves the client owned by the session's user, or nil
// when the session or client is absent.
func (s *Store) GetClientBySession(ctx context.Context, sessionID int64) (*model.Client, error) {
	if sessionID == model.DebugSessionID {
		c := model.DebugClient()
		return &c, nil
	}

	username, err := s.UsernameFromSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if username == "" {
		return nil, nil
	}

	var client model.Client
	err = s.db.GetContext(ctx, &client, `
		SELECT * FROM clients WHERE username = ?
	`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// CreateClient inserts a new client with a fresh token. The existence check
// and the insert form one select-then-act section; a concurrent create for
// the same username must observe ErrClientExists, never a duplicate row.
func (s *Store) CreateClient(ctx context.Context, clientID int64, username string) (*model.Client, error) {
	token, err := util.GenerateToken()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var existing int64
	err = s.db.GetContext(ctx, &existing, `
		SELECT client_id FROM clients WHERE username = ?
	`, username)
	if err == nil {
		return nil, ErrClientExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO clients (client_id, token, username) VALUES (?, ?, ?)
	`, clientID, token, username)
	if err != nil {
		return nil, err
	}

	return &model.Client{ClientID: clientID, Token: token, Username: username}, nil
}

// ResetToken replaces the client's secret with a fresh one, keeping the
// identity. Returns the updated client, or nil when the session or client is
// absent.
func (s *Store) ResetToken(ctx context.Context, sessionID int64) (*model.Client, error) {
	if sessionID == model.DebugSessionID {
		c := model.DebugClient()
		return &c, nil
	}

	username, err := s.UsernameFromSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if username == "" {
		return nil, nil
	}

	token, err := util.GenerateToken()
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE clients SET token = ? WHERE username = ?
	`, token, username)
	if err != nil {
		return nil, err
	}

	var client model.Client
	err = s.db.GetContext(ctx, &client, `
		SELECT * FROM clients WHERE username = ?
	`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// DeleteClient removes the client owned by the session's user. Deleting an
// absent client is not an error.
func (s *Store) DeleteClient(ctx context.Context, sessionID int64) error {
	if sessionID == model.DebugSessionID {
		return nil
	}

	username, err := s.UsernameFromSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if username == "" {
		return nil
	}

	_, err = s.db.ExecContext(ctx, `
		DELETE FROM clients WHERE username = ?
	`, username)
	return err
}
