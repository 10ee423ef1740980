package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateSession(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	t.Run("issues a nonzero id within 32 bits", func(t *testing.T) {
		id, err := s.CreateSession(ctx, "alice")
		require.NoError(t, err)
		assert.NotZero(t, id)
		assert.LessOrEqual(t, id, int64(1<<32-1))

		expired, err := s.IsSessionExpired(ctx, id)
		require.NoError(t, err)
		assert.False(t, expired)
	})

	t.Run("sweeps globally expired sessions", func(t *testing.T) {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO sessions (session_id, expiry, username) VALUES (?, ?, ?)
		`, 42, time.Now().Add(-time.Minute).Unix(), "stale")
		require.NoError(t, err)

		_, err = s.CreateSession(ctx, "bob")
		require.NoError(t, err)

		var count int
		require.NoError(t, s.db.GetContext(ctx, &count, `
			SELECT COUNT(*) FROM sessions WHERE session_id = 42
		`))
		assert.Zero(t, count)
	})
}

func TestStore_tryInsertSession(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	expiry := time.Now().Add(time.Hour).Unix()

	t.Run("inserts a fresh id", func(t *testing.T) {
		inserted, err := s.tryInsertSession(ctx, 1001, expiry, "alice")
		require.NoError(t, err)
		assert.True(t, inserted)
	})

	t.Run("refuses a colliding live id", func(t *testing.T) {
		inserted, err := s.tryInsertSession(ctx, 1001, expiry, "bob")
		require.NoError(t, err)
		assert.False(t, inserted)

		// the original owner keeps the id
		username, err := s.UsernameFromSession(ctx, 1001)
		require.NoError(t, err)
		assert.Equal(t, "alice", username)
	})
}

func TestStore_IsSessionExpired(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	t.Run("absent session reports expired", func(t *testing.T) {
		expired, err := s.IsSessionExpired(ctx, 555555)
		require.NoError(t, err)
		assert.True(t, expired)
	})

	t.Run("live session reports not expired", func(t *testing.T) {
		id, err := s.CreateSession(ctx, "carol")
		require.NoError(t, err)

		expired, err := s.IsSessionExpired(ctx, id)
		require.NoError(t, err)
		assert.False(t, expired)
	})

	t.Run("past-expiry session is deleted on read", func(t *testing.T) {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO sessions (session_id, expiry, username) VALUES (?, ?, ?)
		`, 2002, time.Now().Add(-time.Second).Unix(), "dave")
		require.NoError(t, err)

		expired, err := s.IsSessionExpired(ctx, 2002)
		require.NoError(t, err)
		assert.True(t, expired)

		var count int
		require.NoError(t, s.db.GetContext(ctx, &count, `
			SELECT COUNT(*) FROM sessions WHERE session_id = 2002
		`))
		assert.Zero(t, count)
	})

	t.Run("debug session never expires", func(t *testing.T) {
		expired, err := s.IsSessionExpired(ctx, 0)
		require.NoError(t, err)
		assert.False(t, expired)
	})
}

func TestStore_DeleteSession(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.CreateSession(ctx, "eve")
	require.NoError(t, err)

	require.NoError(t, s.DeleteSession(ctx, id))

	expired, err := s.IsSessionExpired(ctx, id)
	require.NoError(t, err)
	assert.True(t, expired)

	t.Run("deleting again is not an error", func(t *testing.T) {
		assert.NoError(t, s.DeleteSession(ctx, id))
	})
}

func TestStore_DeleteSessionsForUser(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first, err := s.CreateSession(ctx, "frank")
	require.NoError(t, err)
	second, err := s.CreateSession(ctx, "frank")
	require.NoError(t, err)
	other, err := s.CreateSession(ctx, "grace")
	require.NoError(t, err)

	require.NoError(t, s.DeleteSessionsForUser(ctx, "frank"))

	for _, id := range []int64{first, second} {
		expired, err := s.IsSessionExpired(ctx, id)
		require.NoError(t, err)
		assert.True(t, expired)
	}

	expired, err := s.IsSessionExpired(ctx, other)
	require.NoError(t, err)
	assert.False(t, expired)
}
