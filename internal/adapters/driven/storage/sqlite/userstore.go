package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// userStore implements driven.UserStore.
type userStore struct {
	store *Store
}

var _ driven.UserStore = (*userStore)(nil)

// Save stores or updates a user. Emails are unique ignoring case.
func (s *userStore) Save(ctx context.Context, user *domain.User) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var taken int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users WHERE email = ? COLLATE NOCASE AND id != ?
	`, user.Email, user.ID).Scan(&taken)
	if err != nil {
		return fmt.Errorf("checking email: %w", err)
	}
	if taken > 0 {
		return domain.ErrAlreadyExists
	}

	var lastLogin sql.NullTime
	if user.LastLogin != nil {
		lastLogin = sql.NullTime{Time: user.LastLogin.UTC(), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, name, email, created_at, last_login, document_count, total_characters)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			last_login = excluded.last_login,
			document_count = excluded.document_count,
			total_characters = excluded.total_characters
	`, user.ID, user.Name, user.Email, user.CreatedAt.UTC(), lastLogin,
		user.DocumentCount, user.TotalCharacters)
	if err != nil {
		return fmt.Errorf("saving user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves a user by ID.
func (s *userStore) Get(ctx context.Context, id string) (*domain.User, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, email, created_at, last_login, document_count, total_characters
		FROM users WHERE id = ?
	`, id)
	return scanUser(row)
}

// GetByEmail retrieves a user by email, ignoring case.
func (s *userStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, email, created_at, last_login, document_count, total_characters
		FROM users WHERE email = ? COLLATE NOCASE
	`, email)
	return scanUser(row)
}

// TouchLogin sets the user's last login time.
func (s *userStore) TouchLogin(ctx context.Context, id string, at time.Time) error {
	res, err := s.store.db.ExecContext(ctx, "UPDATE users SET last_login = ? WHERE id = ?", at.UTC(), id)
	if err != nil {
		return fmt.Errorf("updating last login: %w", err)
	}
	return requireRow(res)
}

// IncrementStats adds the deltas in a single UPDATE so concurrent
// increments never lose writes.
func (s *userStore) IncrementStats(ctx context.Context, id string, docDelta, charDelta int) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE users SET
			document_count = document_count + ?,
			total_characters = total_characters + ?
		WHERE id = ?
	`, docDelta, charDelta, id)
	if err != nil {
		return fmt.Errorf("incrementing stats: %w", err)
	}
	return requireRow(res)
}

// requireRow maps an update that touched nothing to domain.ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanUser scans a single user row.
func scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var lastLogin sql.NullTime

	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt, &lastLogin,
		&user.DocumentCount, &user.TotalCharacters); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}
	return &user, nil
}
