package mcp

import (
	"context"
	"strings"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driving"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	matches   []domain.RankedMatch
	answer    *domain.Answer
	err       error
	lastOwner string
	lastLimit int
}

var _ driving.QueryService = (*mockQueryService)(nil)

func (m *mockQueryService) Retrieve(
	_ context.Context, ownerID, _ string, maxResults int,
) ([]domain.RankedMatch, error) {
	m.lastOwner = ownerID
	m.lastLimit = maxResults
	return m.matches, m.err
}

func (m *mockQueryService) BuildContext(_ string, _ []domain.RankedMatch) domain.RetrievedContext {
	return domain.RetrievedContext{}
}

func (m *mockQueryService) Ask(_ context.Context, ownerID, _ string) (*domain.Answer, error) {
	m.lastOwner = ownerID
	return m.answer, m.err
}

// mockStatsService is a mock implementation of driving.StatsService.
type mockStatsService struct {
	stats *domain.UserStats
	err   error
}

var _ driving.StatsService = (*mockStatsService)(nil)

func (m *mockStatsService) Aggregate(_ context.Context, _ string) (*domain.UserStats, error) {
	return m.stats, m.err
}

// mockUserService is a mock implementation of driving.UserService.
type mockUserService struct {
	users map[string]*domain.User
}

var _ driving.UserService = (*mockUserService)(nil)

func (m *mockUserService) Register(_ context.Context, name, email string) (*domain.User, error) {
	return &domain.User{ID: "new", Name: name, Email: email}, nil
}

func (m *mockUserService) Get(_ context.Context, idOrEmail string) (*domain.User, error) {
	if u, ok := m.users[strings.ToLower(idOrEmail)]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserService) RecordLogin(ctx context.Context, id string) (*domain.User, error) {
	return m.Get(ctx, id)
}

func (m *mockUserService) Clear(_ context.Context, _ string) (domain.DeleteSummary, error) {
	return domain.DeleteSummary{}, nil
}
