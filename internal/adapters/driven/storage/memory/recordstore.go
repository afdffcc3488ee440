package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
// Records are partitioned by owner and kept in insertion order.
type RecordStore struct {
	mu         sync.RWMutex
	records    map[string][]domain.ChunkRecord
	dimensions int
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		records: make(map[string][]domain.ChunkRecord),
	}
}

// Insert stores a record, enforcing (owner, fingerprint) uniqueness.
func (s *RecordStore) Insert(_ context.Context, record *domain.ChunkRecord) (string, error) {
	if record.OwnerID == "" {
		return "", fmt.Errorf("%w: record has no owner", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dimensions != 0 && len(record.Embedding) != s.dimensions {
		return "", fmt.Errorf("%w: got %d, store holds %d",
			domain.ErrDimensionMismatch, len(record.Embedding), s.dimensions)
	}

	for i := range s.records[record.OwnerID] {
		if s.records[record.OwnerID][i].Fingerprint == record.Fingerprint {
			return "", domain.ErrDuplicate
		}
	}

	stored := *record
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	stored.TextLength = len(stored.Text)
	stored.Embedding = append([]float32(nil), record.Embedding...)

	s.records[stored.OwnerID] = append(s.records[stored.OwnerID], stored)
	if s.dimensions == 0 {
		s.dimensions = len(stored.Embedding)
	}
	return stored.ID, nil
}

// FindAll returns a copy of the owner's records.
func (s *RecordStore) FindAll(_ context.Context, ownerID string) ([]domain.ChunkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.records[ownerID]
	out := make([]domain.ChunkRecord, len(src))
	copy(out, src)
	return out, nil
}

// Exists reports whether the owner has a record with the fingerprint.
func (s *RecordStore) Exists(_ context.Context, ownerID, fingerprint string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.records[ownerID] {
		if s.records[ownerID][i].Fingerprint == fingerprint {
			return true, nil
		}
	}
	return false, nil
}

// HasDocument reports whether any of the owner's records came from the document.
func (s *RecordStore) HasDocument(_ context.Context, ownerID, documentFingerprint string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.records[ownerID] {
		if s.records[ownerID][i].Metadata.DocumentFingerprint == documentFingerprint {
			return true, nil
		}
	}
	return false, nil
}

// DeleteAll removes every record of the owner.
func (s *RecordStore) DeleteAll(_ context.Context, ownerID string) (domain.DeleteSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summary domain.DeleteSummary
	for i := range s.records[ownerID] {
		summary.Records++
		summary.Characters += s.records[ownerID][i].TextLength
	}
	delete(s.records, ownerID)
	return summary, nil
}

// Aggregate computes totals and a file type histogram for the owner.
func (s *RecordStore) Aggregate(_ context.Context, ownerID string) (*domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &domain.Stats{DocTypes: make(map[string]int)}
	for i := range s.records[ownerID] {
		rec := &s.records[ownerID][i]
		stats.TotalDocs++
		stats.TotalChars += rec.TextLength
		fileType := rec.Metadata.FileType
		if fileType == "" {
			fileType = domain.UnknownFileType
		}
		stats.DocTypes[fileType]++
	}
	if stats.TotalDocs > 0 {
		stats.AvgDocLength = stats.TotalChars / stats.TotalDocs
	}
	return stats, nil
}

// Ping always succeeds.
func (s *RecordStore) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (s *RecordStore) Close() error {
	return nil
}
