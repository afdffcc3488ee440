package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
	"github.com/custodia-labs/docvault/internal/core/ports/driving"
	"github.com/custodia-labs/docvault/internal/logger"
)

// Ensure UploadService implements the interface.
var _ driving.UploadService = (*UploadService)(nil)

// minMeaningfulChars is the shortest trimmed text accepted for upload.
const minMeaningfulChars = 10

// UploadService turns uploaded files into stored chunk records.
type UploadService struct {
	extractors driven.ExtractorRegistry
	chunker    driven.Chunker
	embedder   driven.EmbeddingService
	records    driven.RecordStore
	users      driven.UserStore
	dedup      *DedupGuard
	stats      *StatsService
	locks      *OwnerLocks
	now        func() time.Time
}

// NewUploadService creates an upload service.
// locks must be shared with the UserService.
func NewUploadService(
	extractors driven.ExtractorRegistry,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	records driven.RecordStore,
	users driven.UserStore,
	stats *StatsService,
	locks *OwnerLocks,
) *UploadService {
	return &UploadService{
		extractors: extractors,
		chunker:    chunker,
		embedder:   embedder,
		records:    records,
		users:      users,
		dedup:      NewDedupGuard(records),
		stats:      stats,
		locks:      locks,
		now:        time.Now,
	}
}

// SupportedExtensions lists the file extensions that can be uploaded.
func (s *UploadService) SupportedExtensions() []string {
	return s.extractors.SupportedExtensions()
}

// Upload extracts text from content, splits it into chunks and stores
// every chunk the owner does not already have.
//
// A chunk whose embedding fails is skipped and the rest continue. The
// upload fails with domain.ErrDuplicateDocument when nothing new was
// stored because everything was already present, and with
// domain.ErrUploadFailed when nothing could be stored for other reasons.
func (s *UploadService) Upload(
	ctx context.Context, ownerID, filename string, content []byte,
) (*domain.UploadResult, error) {
	logger.Section("Upload")
	log := logger.Owner(ownerID)
	log.Debug("File: %s, %d bytes", filename, len(content))

	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	if _, err := s.users.Get(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	text, err := s.extractors.Extract(ctx, content, filename)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedType) {
			return nil, err
		}
		log.Warn("Extraction of %s failed: %v", filename, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableDocument, err)
	}
	text = strings.TrimSpace(text)
	if len(text) < minMeaningfulChars {
		return nil, domain.ErrUnreadableDocument
	}

	unlock := s.locks.Lock(ownerID)
	defer unlock()

	docFingerprint := Fingerprint(text)
	dup, err := s.dedup.IsDuplicateDocument(ctx, ownerID, docFingerprint)
	if err != nil {
		return nil, err
	}
	if dup {
		log.Info("Document %s already stored", filename)
		return nil, domain.ErrDuplicateDocument
	}

	chunks, err := s.chunker.Split(text)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", filename, err)
	}
	log.Debug("Split into %d chunks", len(chunks))

	base := domain.ChunkMetadata{
		Filename:            filename,
		Source:              domain.SourceUploadedDocument,
		FileType:            fileType(filename),
		FileSize:            len(content),
		UploadTime:          s.now(),
		TotalChunks:         len(chunks),
		DocumentFingerprint: docFingerprint,
	}

	result := &domain.UploadResult{
		Filename:   filename,
		TextLength: len(text),
		Outcomes:   make([]domain.ChunkOutcome, 0, len(chunks)),
	}
	for i, chunk := range chunks {
		meta := base
		meta.ChunkIndex = i
		meta.ChunkSize = len(chunk)
		outcome := s.storeChunk(ctx, ownerID, chunk, meta)
		outcome.Index = i
		result.Outcomes = append(result.Outcomes, outcome)
	}

	result.ChunksCreated = result.Count(domain.ChunkStored)
	if result.ChunksCreated == 0 {
		if result.Count(domain.ChunkFailed) == 0 {
			return nil, domain.ErrDuplicateDocument
		}
		log.Error("No chunk of %s could be stored", filename)
		return nil, fmt.Errorf("%s: %w", filename, domain.ErrUploadFailed)
	}

	log.Info("Stored %d/%d chunks of %s (%d duplicate, %d failed)",
		result.ChunksCreated, len(chunks), filename,
		result.Count(domain.ChunkDuplicate), result.Count(domain.ChunkFailed))
	return result, nil
}

func (s *UploadService) storeChunk(
	ctx context.Context, ownerID, chunk string, meta domain.ChunkMetadata,
) domain.ChunkOutcome {
	log := logger.Owner(ownerID)
	fp := Fingerprint(chunk)
	dup, err := s.dedup.IsDuplicate(ctx, ownerID, fp)
	if err != nil {
		return domain.ChunkOutcome{Status: domain.ChunkFailed, Err: err}
	}
	if dup {
		return domain.ChunkOutcome{Status: domain.ChunkDuplicate}
	}

	vec, err := s.embedder.Embed(ctx, chunk)
	if err != nil {
		log.Warn("Embedding chunk %d of %s failed: %v", meta.ChunkIndex, meta.Filename, err)
		return domain.ChunkOutcome{Status: domain.ChunkFailed, Err: fmt.Errorf("embed: %w", err)}
	}
	if dims := s.embedder.Dimensions(); dims > 0 && len(vec) != dims {
		return domain.ChunkOutcome{
			Status: domain.ChunkFailed,
			Err:    fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(vec), dims),
		}
	}

	id, err := s.records.Insert(ctx, &domain.ChunkRecord{
		OwnerID:     ownerID,
		Text:        chunk,
		Embedding:   vec,
		Metadata:    meta,
		Fingerprint: fp,
		CreatedAt:   s.now(),
		TextLength:  len(chunk),
	})
	if errors.Is(err, domain.ErrDuplicate) {
		return domain.ChunkOutcome{Status: domain.ChunkDuplicate}
	}
	if err != nil {
		log.Warn("Storing chunk %d of %s failed: %v", meta.ChunkIndex, meta.Filename, err)
		return domain.ChunkOutcome{Status: domain.ChunkFailed, Err: fmt.Errorf("insert: %w", err)}
	}

	if err := s.stats.RecordAdd(ctx, ownerID, len(chunk)); err != nil {
		log.Warn("Chunk %s stored but counters not updated: %v", id, err)
	}
	return domain.ChunkOutcome{Status: domain.ChunkStored, RecordID: id}
}

func fileType(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
