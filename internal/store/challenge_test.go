package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micahlt/scratchverifier/internal/model"
)

func challengeExpiry(t *testing.T, s *Store, clientID int64, username string) int64 {
	t.Helper()
	var expiry int64
	require.NoError(t, s.db.GetContext(context.Background(), &expiry, `
		SELECT expiry FROM usage WHERE client_id = ? AND username = ?
	`, clientID, username))
	return expiry
}

func TestStore_StartChallenge(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	t.Run("inserts new challenge with START log", func(t *testing.T) {
		code, refreshed, err := s.StartChallenge(ctx, 1, "alice", "AAAA")
		require.NoError(t, err)
		assert.Equal(t, "AAAA", code)
		assert.False(t, refreshed)

		logType := model.LogStart
		entries, err := s.QueryLogs(ctx, LogFilter{Type: &logType}, 10)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("repeat returns same code and refreshes expiry", func(t *testing.T) {
		before := challengeExpiry(t, s, 1, "alice")
		time.Sleep(1100 * time.Millisecond)

		code, refreshed, err := s.StartChallenge(ctx, 1, "alice", "BBBB")
		require.NoError(t, err)
		assert.Equal(t, "AAAA", code, "live code must never be regenerated")
		assert.True(t, refreshed)

		after := challengeExpiry(t, s, 1, "alice")
		assert.GreaterOrEqual(t, after, before)

		// refresh must not append another START entry
		logType := model.LogStart
		entries, err := s.QueryLogs(ctx, LogFilter{Type: &logType}, 10)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("distinct pairs get distinct challenges", func(t *testing.T) {
		code, _, err := s.StartChallenge(ctx, 2, "alice", "CCCC")
		require.NoError(t, err)
		assert.Equal(t, "CCCC", code)
	})

	t.Run("sweeps globally expired challenges", func(t *testing.T) {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO usage (client_id, username, code, expiry) VALUES (?, ?, ?, ?)
		`, 9, "stale", "DDDD", time.Now().Add(-time.Minute).Unix())
		require.NoError(t, err)

		_, _, err = s.StartChallenge(ctx, 3, "bob", "EEEE")
		require.NoError(t, err)

		var count int
		require.NoError(t, s.db.GetContext(ctx, &count, `
			SELECT COUNT(*) FROM usage WHERE client_id = 9
		`))
		assert.Zero(t, count)
	})
}

func TestStore_GetLiveCode(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	t.Run("absent pair returns empty", func(t *testing.T) {
		code, err := s.GetLiveCode(ctx, 1, "nobody")
		require.NoError(t, err)
		assert.Empty(t, code)
	})

	t.Run("live challenge returns code", func(t *testing.T) {
		_, _, err := s.StartChallenge(ctx, 1, "carol", "FFFF")
		require.NoError(t, err)

		code, err := s.GetLiveCode(ctx, 1, "carol")
		require.NoError(t, err)
		assert.Equal(t, "FFFF", code)
	})

	t.Run("expiry on read fails the challenge", func(t *testing.T) {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO usage (client_id, username, code, expiry) VALUES (?, ?, ?, ?)
		`, 2, "dave", "GGGG", time.Now().Add(-time.Second).Unix())
		require.NoError(t, err)

		code, err := s.GetLiveCode(ctx, 2, "dave")
		require.NoError(t, err)
		assert.Empty(t, code)

		var count int
		require.NoError(t, s.db.GetContext(ctx, &count, `
			SELECT COUNT(*) FROM usage WHERE client_id = 2 AND username = 'dave'
		`))
		assert.Zero(t, count)

		clientID := int64(2)
		logType := model.LogFail
		entries, err := s.QueryLogs(ctx, LogFilter{ClientID: &clientID, Type: &logType}, 10)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestStore_EndChallenge(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	t.Run("success deletes challenge and logs SUCCESS", func(t *testing.T) {
		_, _, err := s.StartChallenge(ctx, 5, "eve", "HHHH")
		require.NoError(t, err)

		require.NoError(t, s.EndChallenge(ctx, 5, "eve", true))

		code, err := s.GetLiveCode(ctx, 5, "eve")
		require.NoError(t, err)
		assert.Empty(t, code)

		logType := model.LogSuccess
		entries, err := s.QueryLogs(ctx, LogFilter{Type: &logType}, 10)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("failure logs FAIL", func(t *testing.T) {
		_, _, err := s.StartChallenge(ctx, 6, "frank", "IIII")
		require.NoError(t, err)

		require.NoError(t, s.EndChallenge(ctx, 6, "frank", false))

		clientID := int64(6)
		logType := model.LogFail
		entries, err := s.QueryLogs(ctx, LogFilter{ClientID: &clientID, Type: &logType}, 10)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("ending an absent challenge still logs", func(t *testing.T) {
		require.NoError(t, s.EndChallenge(ctx, 7, "ghost", false))

		clientID := int64(7)
		entries, err := s.QueryLogs(ctx, LogFilter{ClientID: &clientID}, 10)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
