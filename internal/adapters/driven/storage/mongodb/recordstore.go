package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// recordDoc is the stored form of a chunk record.
// Order is a fresh ObjectID per insert and gives insertion order.
type recordDoc struct {
	ID          string               `bson:"_id"`
	Order       primitive.ObjectID   `bson:"order"`
	OwnerID     string               `bson:"owner_id"`
	Text        string               `bson:"text"`
	TextLength  int                  `bson:"text_length"`
	Embedding   []float32            `bson:"embedding"`
	Dims        int                  `bson:"dims"`
	Fingerprint string               `bson:"fingerprint"`
	Metadata    domain.ChunkMetadata `bson:"metadata"`
	CreatedAt   time.Time            `bson:"created_at"`
}

func (d *recordDoc) toDomain() domain.ChunkRecord {
	return domain.ChunkRecord{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		Text:        d.Text,
		Embedding:   d.Embedding,
		Metadata:    d.Metadata,
		Fingerprint: d.Fingerprint,
		CreatedAt:   d.CreatedAt,
		TextLength:  d.TextLength,
	}
}

// recordStore implements driven.RecordStore.
type recordStore struct {
	store *Store
}

var _ driven.RecordStore = (*recordStore)(nil)

// Insert stores a record. The unique (owner_id, fingerprint) index
// rejects duplicates.
func (s *recordStore) Insert(ctx context.Context, record *domain.ChunkRecord) (string, error) {
	if record.OwnerID == "" {
		return "", fmt.Errorf("%w: record has no owner", domain.ErrInvalidInput)
	}

	var probe struct {
		Dims int `bson:"dims"`
	}
	err := s.store.records.FindOne(ctx, bson.M{},
		options.FindOne().SetProjection(bson.M{"dims": 1})).Decode(&probe)
	switch {
	case err == nil:
		if probe.Dims != len(record.Embedding) {
			return "", fmt.Errorf("%w: got %d, store holds %d",
				domain.ErrDimensionMismatch, len(record.Embedding), probe.Dims)
		}
	case errors.Is(err, mongo.ErrNoDocuments):
	default:
		return "", fmt.Errorf("checking dimensions: %w", err)
	}

	doc := recordDoc{
		ID:          record.ID,
		Order:       primitive.NewObjectID(),
		OwnerID:     record.OwnerID,
		Text:        record.Text,
		TextLength:  len(record.Text),
		Embedding:   record.Embedding,
		Dims:        len(record.Embedding),
		Fingerprint: record.Fingerprint,
		Metadata:    record.Metadata,
		CreatedAt:   record.CreatedAt,
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	if _, err := s.store.records.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrDuplicate
		}
		return "", fmt.Errorf("inserting record: %w", err)
	}
	return doc.ID, nil
}

// FindAll returns the owner's records in insertion order.
func (s *recordStore) FindAll(ctx context.Context, ownerID string) ([]domain.ChunkRecord, error) {
	cur, err := s.store.records.Find(ctx, bson.M{"owner_id": ownerID},
		options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer cur.Close(ctx)

	records := []domain.ChunkRecord{}
	for cur.Next(ctx) {
		var doc recordDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		records = append(records, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

// Exists reports whether the owner has a record with the fingerprint.
func (s *recordStore) Exists(ctx context.Context, ownerID, fingerprint string) (bool, error) {
	n, err := s.store.records.CountDocuments(ctx,
		bson.M{"owner_id": ownerID, "fingerprint": fingerprint},
		options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("checking fingerprint: %w", err)
	}
	return n > 0, nil
}

// HasDocument reports whether any of the owner's records came from the document.
func (s *recordStore) HasDocument(ctx context.Context, ownerID, documentFingerprint string) (bool, error) {
	n, err := s.store.records.CountDocuments(ctx,
		bson.M{"owner_id": ownerID, "metadata.document_fingerprint": documentFingerprint},
		options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("checking document: %w", err)
	}
	return n > 0, nil
}

// DeleteAll removes every record of the owner. Callers serialise
// writes per owner, so the totals read before the delete are exact.
func (s *recordStore) DeleteAll(ctx context.Context, ownerID string) (domain.DeleteSummary, error) {
	stats, err := s.Aggregate(ctx, ownerID)
	if err != nil {
		return domain.DeleteSummary{}, err
	}

	res, err := s.store.records.DeleteMany(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return domain.DeleteSummary{}, fmt.Errorf("deleting records: %w", err)
	}
	return domain.DeleteSummary{
		Records:    int(res.DeletedCount),
		Characters: stats.TotalChars,
	}, nil
}

// Aggregate groups the owner's records by file type server-side.
func (s *recordStore) Aggregate(ctx context.Context, ownerID string) (*domain.Stats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"owner_id": ownerID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$metadata.file_type",
			"count": bson.M{"$sum": 1},
			"chars": bson.M{"$sum": "$text_length"},
		}}},
	}
	cur, err := s.store.records.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregating records: %w", err)
	}
	defer cur.Close(ctx)

	stats := &domain.Stats{DocTypes: make(map[string]int)}
	for cur.Next(ctx) {
		var group struct {
			FileType string `bson:"_id"`
			Count    int    `bson:"count"`
			Chars    int    `bson:"chars"`
		}
		if err := cur.Decode(&group); err != nil {
			return nil, fmt.Errorf("decoding aggregate: %w", err)
		}
		fileType := group.FileType
		if fileType == "" {
			fileType = domain.UnknownFileType
		}
		stats.DocTypes[fileType] += group.Count
		stats.TotalDocs += group.Count
		stats.TotalChars += group.Chars
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterating aggregate: %w", err)
	}

	if stats.TotalDocs > 0 {
		stats.AvgDocLength = stats.TotalChars / stats.TotalDocs
	}
	return stats, nil
}

// Ping verifies the primary is reachable.
func (s *recordStore) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Close disconnects the shared client.
func (s *recordStore) Close() error {
	return s.store.Close()
}
