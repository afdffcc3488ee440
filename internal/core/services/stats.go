package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
	"github.com/custodia-labs/docvault/internal/core/ports/driving"
	"github.com/custodia-labs/docvault/internal/logger"
)

// Ensure StatsService implements the interface.
var _ driving.StatsService = (*StatsService)(nil)

// StatsService maintains per-owner counters and computes on-demand aggregates.
type StatsService struct {
	records driven.RecordStore
	users   driven.UserStore
	locks   *OwnerLocks
}

// NewStatsService creates a stats service.
func NewStatsService(records driven.RecordStore, users driven.UserStore) *StatsService {
	return &StatsService{
		records: records,
		users:   users,
		locks:   NewOwnerLocks(),
	}
}

// RecordAdd counts one new record of charDelta characters.
func (s *StatsService) RecordAdd(ctx context.Context, ownerID string, charDelta int) error {
	return s.apply(ctx, ownerID, 1, charDelta)
}

// RecordRemove subtracts removed records and characters.
func (s *StatsService) RecordRemove(ctx context.Context, ownerID string, docDelta, charDelta int) error {
	return s.apply(ctx, ownerID, -docDelta, -charDelta)
}

func (s *StatsService) apply(ctx context.Context, ownerID string, docDelta, charDelta int) error {
	unlock := s.locks.Lock(ownerID)
	defer unlock()

	if err := s.users.IncrementStats(ctx, ownerID, docDelta, charDelta); err != nil {
		return fmt.Errorf("update stats for %s: %w", ownerID, err)
	}
	return nil
}

// Aggregate computes stats from the owner's records and pairs them
// with the owner's incremental counters.
func (s *StatsService) Aggregate(ctx context.Context, ownerID string) (*domain.UserStats, error) {
	user, err := s.users.Get(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	stats, err := s.records.Aggregate(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("aggregate records: %w", err)
	}
	if stats.DocTypes == nil {
		stats.DocTypes = make(map[string]int)
	}

	result := &domain.UserStats{
		Stats:           *stats,
		DocumentCount:   user.DocumentCount,
		TotalCharacters: user.TotalCharacters,
	}
	if !result.Consistent() {
		logger.Warn("Counters for %s drifted: counted %d/%d, aggregated %d/%d",
			ownerID, result.DocumentCount, result.TotalCharacters, stats.TotalDocs, stats.TotalChars)
	}
	return result, nil
}
