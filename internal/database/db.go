package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// schema is applied on every open; all statements are idempotent.
var schema = `
CREATE TABLE IF NOT EXISTS clients (
	client_id INTEGER PRIMARY KEY,
	token TEXT NOT NULL,
	username TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS sessions (
	session_id INTEGER PRIMARY KEY,
	expiry INTEGER NOT NULL,
	username TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_username ON sessions(username);
CREATE INDEX IF NOT EXISTS idx_sessions_expiry ON sessions(expiry);

CREATE TABLE IF NOT EXISTS usage (
	client_id INTEGER NOT NULL,
	username TEXT NOT NULL,
	code TEXT NOT NULL,
	expiry INTEGER NOT NULL,
	PRIMARY KEY (client_id, username)
);
CREATE INDEX IF NOT EXISTS idx_usage_expiry ON usage(expiry);

CREATE TABLE IF NOT EXISTS logs (
	log_id INTEGER PRIMARY KEY AUTOINCREMENT,
	client_id INTEGER NOT NULL,
	username TEXT NOT NULL,
	log_time INTEGER NOT NULL,
	log_type INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_logs_client_id ON logs(client_id);
`

type DB struct {
	*sqlx.DB
}

// Open connects to the SQLite database at path (":memory:" for tests) and
// bootstraps the schema. The store is single-writer, so the pool is capped
// at one connection.
func Open(path string) (*DB, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.DB.Close()
}
