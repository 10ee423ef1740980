// Package store owns the database connection and enforces the uniqueness and
// expiry invariants for clients, sessions, challenges and logs. SQLite gives
// per-statement atomicity only, so every select-then-act sequence whose write
// depends on the preceding read runs under a single mutex. Pure reads and
// single-statement writes go unguarded.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/micahlt/scratchverifier/internal/database"
)

// ErrClientExists is returned when a client already exists for the username.
var ErrClientExists = errors.New("client already exists for username")

type Store struct {
	db *database.DB
	mu sync.Mutex

	sessionTTL time.Duration
	verifyTTL  time.Duration
}

func New(db *database.DB, sessionTTL, verifyTTL time.Duration) *Store {
	return &Store{
		db:         db,
		sessionTTL: sessionTTL,
		verifyTTL:  verifyTTL,
	}
}

func now() int64 {
	return time.Now().Unix()
}
