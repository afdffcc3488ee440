package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// Fingerprint returns the hex SHA-256 of text's UTF-8 bytes.
// Identical text always yields the same 64-character fingerprint.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// DedupGuard checks fingerprints against an owner's stored records.
type DedupGuard struct {
	records driven.RecordStore
}

// NewDedupGuard creates a dedup guard over the record store.
func NewDedupGuard(records driven.RecordStore) *DedupGuard {
	return &DedupGuard{records: records}
}

// IsDuplicate reports whether the owner already has a chunk with the fingerprint.
func (g *DedupGuard) IsDuplicate(ctx context.Context, ownerID, fingerprint string) (bool, error) {
	exists, err := g.records.Exists(ctx, ownerID, fingerprint)
	if err != nil {
		return false, fmt.Errorf("check chunk fingerprint: %w", err)
	}
	return exists, nil
}

// IsDuplicateDocument reports whether the owner already uploaded a
// document with the whole-text fingerprint.
func (g *DedupGuard) IsDuplicateDocument(ctx context.Context, ownerID, documentFingerprint string) (bool, error) {
	exists, err := g.records.HasDocument(ctx, ownerID, documentFingerprint)
	if err != nil {
		return false, fmt.Errorf("check document fingerprint: %w", err)
	}
	return exists, nil
}
