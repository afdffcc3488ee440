package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// userDoc is the stored form of a user. EmailKey carries the unique index.
type userDoc struct {
	ID              string     `bson:"_id"`
	Name            string     `bson:"name"`
	Email           string     `bson:"email"`
	EmailKey        string     `bson:"email_key"`
	CreatedAt       time.Time  `bson:"created_at"`
	LastLogin       *time.Time `bson:"last_login,omitempty"`
	DocumentCount   int        `bson:"document_count"`
	TotalCharacters int        `bson:"total_characters"`
}

// userStore implements driven.UserStore.
type userStore struct {
	store *Store
}

var _ driven.UserStore = (*userStore)(nil)

// Save creates or replaces a user.
func (s *userStore) Save(ctx context.Context, user *domain.User) error {
	doc := userDoc{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		EmailKey:        strings.ToLower(user.Email),
		CreatedAt:       user.CreatedAt,
		LastLogin:       user.LastLogin,
		DocumentCount:   user.DocumentCount,
		TotalCharacters: user.TotalCharacters,
	}
	_, err := s.store.users.ReplaceOne(ctx, bson.M{"_id": user.ID}, doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("saving user: %w", err)
	}
	return nil
}

// Get retrieves a user by ID.
func (s *userStore) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail retrieves a user by email, ignoring case.
func (s *userStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"email_key": strings.ToLower(email)})
}

// TouchLogin sets the user's last login time.
func (s *userStore) TouchLogin(ctx context.Context, id string, at time.Time) error {
	res, err := s.store.users.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_login": at}})
	if err != nil {
		return fmt.Errorf("updating last login: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementStats applies the deltas with a single $inc.
func (s *userStore) IncrementStats(ctx context.Context, id string, docDelta, charDelta int) error {
	res, err := s.store.users.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$inc": bson.M{"document_count": docDelta, "total_characters": charDelta}})
	if err != nil {
		return fmt.Errorf("incrementing stats: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *userStore) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := s.store.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return &domain.User{
		ID:              doc.ID,
		Name:            doc.Name,
		Email:           doc.Email,
		CreatedAt:       doc.CreatedAt,
		LastLogin:       doc.LastLogin,
		DocumentCount:   doc.DocumentCount,
		TotalCharacters: doc.TotalCharacters,
	}, nil
}
