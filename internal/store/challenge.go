package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/micahlt/scratchverifier/internal/audit"
	"github.com/micahlt/scratchverifier/internal/model"
)

// StartChallenge records a verification challenge for the pair. If an
// unexpired challenge already exists its expiry is refreshed and its code
// returned unchanged; re-requesting must not invalidate a code the user has
// already posted. Otherwise candidate is inserted with a START log entry and
// all globally expired challenge rows are swept. The returned bool reports
// whether an existing challenge was refreshed.
func (s *Store) StartChallenge(ctx context.Context, clientID int64, username, candidate string) (string, bool, error) {
	ts := now()
	expiry := ts + int64(s.verifyTTL.Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()

	var existing model.Challenge
	err := s.db.GetContext(ctx, &existing, `
		SELECT * FROM usage WHERE client_id = ? AND username = ? AND expiry > ?
	`, clientID, username, ts)
	if err == nil {
		_, err = s.db.ExecContext(ctx, `
			UPDATE usage SET expiry = ? WHERE client_id = ? AND username = ?
		`, expiry, clientID, username)
		if err != nil {
			return "", false, err
		}
		return existing.Code, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", false, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO usage (client_id, username, code, expiry) VALUES (?, ?, ?, ?)
	`, clientID, username, candidate, expiry)
	if err != nil {
		return "", false, err
	}

	if err := s.insertLog(ctx, clientID, username, model.LogStart); err != nil {
		return "", false, err
	}

	if _, err := s.deleteExpiredChallenges(ctx); err != nil {
		return "", false, err
	}
	return candidate, false, nil
}

// GetLiveCode returns the pair's code, or "" when no live challenge exists.
// Expiry discovered here is treated identically to a failed verification:
// the challenge is deleted and a FAIL entry logged.
func (s *Store) GetLiveCode(ctx context.Context, clientID int64, username string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var challenge model.Challenge
	err := s.db.GetContext(ctx, &challenge, `
		SELECT * FROM usage WHERE client_id = ? AND username = ?
	`, clientID, username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	if now() > challenge.Expiry {
		if err := s.endChallenge(ctx, clientID, username, false); err != nil {
			return "", err
		}
		return "", nil
	}
	return challenge.Code, nil
}

// EndChallenge retires the pair's challenge and logs the outcome. Re-deleting
// an absent row is a no-op, but the log entry is appended regardless.
func (s *Store) EndChallenge(ctx context.Context, clientID int64, username string, succeeded bool) error {
	return s.endChallenge(ctx, clientID, username, succeeded)
}

// endChallenge is safe without the lock: a delete-by-key plus an append has
// no dependent read.
func (s *Store) endChallenge(ctx context.Context, clientID int64, username string, succeeded bool) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM usage WHERE client_id = ? AND username = ?
	`, clientID, username)
	if err != nil {
		return err
	}

	logType := model.LogFail
	if succeeded {
		logType = model.LogSuccess
	}
	return s.insertLog(ctx, clientID, username, logType)
}

// DeleteExpiredChallenges removes all globally expired challenge rows without
// logging; sweep deletions are not verification outcomes.
func (s *Store) DeleteExpiredChallenges(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteExpiredChallenges(ctx)
}

func (s *Store) deleteExpiredChallenges(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM usage WHERE expiry <= ?
	`, now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *Store) insertLog(ctx context.Context, clientID int64, username string, logType model.LogType) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO logs (client_id, username, log_time, log_type) VALUES (?, ?, ?, ?)
	`, clientID, username, now(), logType)
	if err != nil {
		return err
	}

	audit.Emit(audit.Event{
		Type:     audit.TypeFor(logType),
		ClientID: clientID,
		Username: username,
	})
	return nil
}
