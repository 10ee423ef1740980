package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/micahlt/scratchverifier/internal/model"
	"github.com/micahlt/scratchverifier/internal/util"
)

// CreateSession issues a fresh random session id for the username, redrawing
// on collision with a live session. Each call also sweeps all globally
// expired session rows; expiry is otherwise only enforced at read time.
func (s *Store) CreateSession(ctx context.Context, username string) (int64, error) {
	expiry := now() + int64(s.sessionTTL.Seconds())

	for {
		id, err := util.RandomSessionID()
		if err != nil {
			return 0, err
		}
		if id == model.DebugSessionID {
			continue
		}

		inserted, err := s.tryInsertSession(ctx, id, expiry, username)
		if err != nil {
			return 0, err
		}
		if !inserted {
			continue
		}

		if _, err := s.DeleteExpiredSessions(ctx); err != nil {
			return 0, err
		}
		return id, nil
	}
}

// tryInsertSession inserts the session unless the id is already live. The
// collision check and the insert are one select-then-act section.
func (s *Store) tryInsertSession(ctx context.Context, sessionID, expiry int64, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing int64
	err := s.db.GetContext(ctx, &existing, `
		SELECT session_id FROM sessions WHERE session_id = ?
	`, sessionID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, expiry, username) VALUES (?, ?, ?)
	`, sessionID, expiry, username)
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsSessionExpired is the sole expiry-enforcement point for sessions. An
// absent session reports expired; a live-but-past-expiry session is deleted
// and reports expired. The read and the dependent delete share the lock.
func (s *Store) IsSessionExpired(ctx context.Context, sessionID int64) (bool, error) {
	if sessionID == model.DebugSessionID {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var expiry int64
	err := s.db.GetContext(ctx, &expiry, `
		SELECT expiry FROM sessions WHERE session_id = ?
	`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	if now() > expiry {
		_, err = s.db.ExecContext(ctx, `
			DELETE FROM sessions WHERE session_id = ?
		`, sessionID)
		if err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// DeleteSession logs the session out. Idempotent.
func (s *Store) DeleteSession(ctx context.Context, sessionID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE session_id = ?
	`, sessionID)
	return err
}

// DeleteSessionsForUser logs out every session of the username. Idempotent.
func (s *Store) DeleteSessionsForUser(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE username = ?
	`, username)
	return err
}

// DeleteExpiredSessions removes all globally expired session rows.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE expiry <= ?
	`, now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
