package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
	"github.com/custodia-labs/docvault/internal/core/ports/driving"
	"github.com/custodia-labs/docvault/internal/logger"
)

// Ensure UserService implements the interface.
var _ driving.UserService = (*UserService)(nil)

// UserService manages document owners and their corpora.
type UserService struct {
	users   driven.UserStore
	records driven.RecordStore
	stats   *StatsService
	locks   *OwnerLocks
	now     func() time.Time
}

// NewUserService creates a user service.
// locks must be shared with the UploadService so clears and uploads
// for one owner never interleave.
func NewUserService(users driven.UserStore, records driven.RecordStore, stats *StatsService, locks *OwnerLocks) *UserService {
	return &UserService{
		users:   users,
		records: records,
		stats:   stats,
		locks:   locks,
		now:     time.Now,
	}
}

// Register creates a user with zeroed counters.
func (s *UserService) Register(ctx context.Context, name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", domain.ErrInvalidInput, email)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("user %s: %w", email, domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		CreatedAt: s.now(),
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	logger.Info("Registered user %s (%s)", user.ID, email)
	return user, nil
}

// Get retrieves a user by ID or, when the argument looks like an email, by email.
func (s *UserService) Get(ctx context.Context, idOrEmail string) (*domain.User, error) {
	if strings.Contains(idOrEmail, "@") {
		return s.users.GetByEmail(ctx, idOrEmail)
	}
	return s.users.Get(ctx, idOrEmail)
}

// RecordLogin stamps the user's last login time.
func (s *UserService) RecordLogin(ctx context.Context, id string) (*domain.User, error) {
	if err := s.users.TouchLogin(ctx, id, s.now()); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	return s.users.Get(ctx, id)
}

// Clear deletes all of the owner's records and decrements the counters
// by exactly what was removed.
func (s *UserService) Clear(ctx context.Context, id string) (domain.DeleteSummary, error) {
	if _, err := s.users.Get(ctx, id); err != nil {
		return domain.DeleteSummary{}, fmt.Errorf("get user: %w", err)
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	summary, err := s.records.DeleteAll(ctx, id)
	if err != nil {
		return domain.DeleteSummary{}, fmt.Errorf("delete records: %w", err)
	}
	if summary.Records > 0 || summary.Characters > 0 {
		if err := s.stats.RecordRemove(ctx, id, summary.Records, summary.Characters); err != nil {
			return summary, err
		}
	}
	logger.Owner(id).Info("Cleared %d records (%d chars)", summary.Records, summary.Characters)
	return summary, nil
}
