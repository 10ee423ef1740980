package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/micahlt/scratchverifier/internal/model"
)

// DefaultLogLimit caps a log query when the caller gives no limit.
const DefaultLogLimit = 100

// LogFilter is the fixed, enumerated set of optional log query filters.
// Fields are conjunctive; nil means "not filtered". Callers can never smuggle
// arbitrary filter keys into the query.
type LogFilter struct {
	IDBefore   *int64 // log_id < v
	TimeBefore *int64 // log_time <= v
	IDAfter    *int64 // log_id > v
	TimeAfter  *int64 // log_time >= v
	ClientID   *int64
	Username   *string
	Type       *model.LogType
}

// QueryLogs returns up to limit entries matching the filter, newest first by
// log_id. Pure read, no lock.
func (s *Store) QueryLogs(ctx context.Context, filter LogFilter, limit int) ([]model.LogEntry, error) {
	if limit <= 0 {
		limit = DefaultLogLimit
	}

	query := `SELECT * FROM logs WHERE 1=1`
	args := []any{}

	if filter.IDBefore != nil {
		query += ` AND log_id < ?`
		args = append(args, *filter.IDBefore)
	}
	if filter.TimeBefore != nil {
		query += ` AND log_time <= ?`
		args = append(args, *filter.TimeBefore)
	}
	if filter.IDAfter != nil {
		query += ` AND log_id > ?`
		args = append(args, *filter.IDAfter)
	}
	if filter.TimeAfter != nil {
		query += ` AND log_time >= ?`
		args = append(args, *filter.TimeAfter)
	}
	if filter.ClientID != nil {
		query += ` AND client_id = ?`
		args = append(args, *filter.ClientID)
	}
	if filter.Username != nil {
		query += ` AND username = ?`
		args = append(args, *filter.Username)
	}
	if filter.Type != nil {
		query += ` AND log_type = ?`
		args = append(args, *filter.Type)
	}

	query += ` ORDER BY log_id DESC LIMIT ?`
	args = append(args, limit)

	entries := []model.LogEntry{}
	if err := s.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetLog returns the entry with the given id, or nil when absent.
func (s *Store) GetLog(ctx context.Context, logID int64) (*model.LogEntry, error) {
	var entry model.LogEntry
	err := s.db.GetContext(ctx, &entry, `
		SELECT * FROM logs WHERE log_id = ?
	`, logID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
