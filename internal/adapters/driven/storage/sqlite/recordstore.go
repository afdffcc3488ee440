package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// recordStore implements driven.RecordStore.
type recordStore struct {
	store *Store
}

var _ driven.RecordStore = (*recordStore)(nil)

// Insert stores a record. The (owner_id, fingerprint) unique constraint
// rejects duplicates without a separate lookup.
func (s *recordStore) Insert(ctx context.Context, record *domain.ChunkRecord) (string, error) {
	if record.OwnerID == "" {
		return "", fmt.Errorf("%w: record has no owner", domain.ErrInvalidInput)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var blobLen sql.NullInt64
	err = tx.QueryRowContext(ctx, `
		SELECT length(embedding) FROM chunk_records
		WHERE embedding IS NOT NULL LIMIT 1
	`).Scan(&blobLen)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("checking dimensions: %w", err)
	}
	if blobLen.Valid && int(blobLen.Int64/4) != len(record.Embedding) {
		return "", fmt.Errorf("%w: got %d, store holds %d",
			domain.ErrDimensionMismatch, len(record.Embedding), blobLen.Int64/4)
	}

	id := record.ID
	if id == "" {
		id = uuid.New().String()
	}
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	metadataJSON, err := json.Marshal(record.Metadata)
	if err != nil {
		return "", fmt.Errorf("marshalling metadata: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO chunk_records (id, owner_id, text, text_length, embedding, fingerprint,
			document_fingerprint, file_type, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, fingerprint) DO NOTHING
	`, id, record.OwnerID, record.Text, len(record.Text), encodeVector(record.Embedding),
		record.Fingerprint, record.Metadata.DocumentFingerprint, record.Metadata.FileType,
		string(metadataJSON), createdAt.UTC())
	if err != nil {
		return "", fmt.Errorf("inserting record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("inserting record: %w", err)
	}
	if n == 0 {
		return "", domain.ErrDuplicate
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing transaction: %w", err)
	}
	return id, nil
}

// FindAll returns the owner's records in insertion order.
func (s *recordStore) FindAll(ctx context.Context, ownerID string) ([]domain.ChunkRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, owner_id, text, text_length, embedding, fingerprint, metadata, created_at
		FROM chunk_records WHERE owner_id = ?
		ORDER BY seq
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	records := []domain.ChunkRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

// Exists reports whether the owner has a record with the fingerprint.
func (s *recordStore) Exists(ctx context.Context, ownerID, fingerprint string) (bool, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM chunk_records WHERE owner_id = ? AND fingerprint = ?
	`, ownerID, fingerprint).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking fingerprint: %w", err)
	}
	return count > 0, nil
}

// HasDocument reports whether any of the owner's records came from the document.
func (s *recordStore) HasDocument(ctx context.Context, ownerID, documentFingerprint string) (bool, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM chunk_records WHERE owner_id = ? AND document_fingerprint = ?
	`, ownerID, documentFingerprint).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking document: %w", err)
	}
	return count > 0, nil
}

// DeleteAll removes every record of the owner.
func (s *recordStore) DeleteAll(ctx context.Context, ownerID string) (domain.DeleteSummary, error) {
	var summary domain.DeleteSummary

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(text_length), 0) FROM chunk_records WHERE owner_id = ?
	`, ownerID).Scan(&summary.Records, &summary.Characters)
	if err != nil {
		return domain.DeleteSummary{}, fmt.Errorf("summing records: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunk_records WHERE owner_id = ?", ownerID); err != nil {
		return domain.DeleteSummary{}, fmt.Errorf("deleting records: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.DeleteSummary{}, fmt.Errorf("committing transaction: %w", err)
	}
	return summary, nil
}

// Aggregate computes totals and a file type histogram for the owner.
func (s *recordStore) Aggregate(ctx context.Context, ownerID string) (*domain.Stats, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT file_type, COUNT(*), SUM(text_length)
		FROM chunk_records WHERE owner_id = ?
		GROUP BY file_type
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("aggregating records: %w", err)
	}
	defer rows.Close()

	stats := &domain.Stats{DocTypes: make(map[string]int)}
	for rows.Next() {
		var fileType string
		var count, chars int
		if err := rows.Scan(&fileType, &count, &chars); err != nil {
			return nil, fmt.Errorf("scanning aggregate: %w", err)
		}
		if fileType == "" {
			fileType = domain.UnknownFileType
		}
		stats.DocTypes[fileType] += count
		stats.TotalDocs += count
		stats.TotalChars += chars
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating aggregate: %w", err)
	}

	if stats.TotalDocs > 0 {
		stats.AvgDocLength = stats.TotalChars / stats.TotalDocs
	}
	return stats, nil
}

// Ping verifies the database is reachable.
func (s *recordStore) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Close closes the shared database connection.
func (s *recordStore) Close() error {
	return s.store.Close()
}

// scanRecord scans a chunk record from rows.
func scanRecord(rows *sql.Rows) (*domain.ChunkRecord, error) {
	var rec domain.ChunkRecord
	var embedding []byte
	var metadataJSON string

	if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.Text, &rec.TextLength, &embedding,
		&rec.Fingerprint, &metadataJSON, &rec.CreatedAt); err != nil {
		return nil, fmt.Errorf("scanning record: %w", err)
	}

	vec, err := decodeVector(embedding)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	rec.Embedding = vec
	if err := json.Unmarshal([]byte(metadataJSON), &rec.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata: %w", err)
	}
	return &rec, nil
}
