package service

import (
	"context"
	"fmt"

	"github.com/micahlt/scratchverifier/internal/model"
	"github.com/micahlt/scratchverifier/internal/store"
)

// AuditService exposes the append-only challenge log for querying. Writes
// happen only inside the store as challenge transitions; nothing external
// ever appends.
type AuditService struct {
	store *store.Store
}

func NewAuditService(s *store.Store) *AuditService {
	return &AuditService{store: s}
}

func (s *AuditService) Query(ctx context.Context, filter store.LogFilter, limit int) ([]model.LogEntry, error) {
	entries, err := s.store.QueryLogs(ctx, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	return entries, nil
}

func (s *AuditService) GetByID(ctx context.Context, logID int64) (*model.LogEntry, error) {
	entry, err := s.store.GetLog(ctx, logID)
	if err != nil {
		return nil, fmt.Errorf("get log: %w", err)
	}
	return entry, nil
}
