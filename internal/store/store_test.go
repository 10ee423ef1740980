package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/micahlt/scratchverifier/internal/database"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return New(db, time.Hour, 30*time.Minute)
}
