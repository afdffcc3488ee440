package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

func newRecord(owner, text, fileType string) *domain.ChunkRecord {
	return &domain.ChunkRecord{
		OwnerID:     owner,
		Text:        text,
		Embedding:   []float32{1, 0, 0},
		Fingerprint: "fp-" + text,
		Metadata: domain.ChunkMetadata{
			Filename:            text + "." + fileType,
			FileType:            fileType,
			DocumentFingerprint: "doc-" + text,
		},
	}
}

func TestNewRecordStore(t *testing.T) {
	store := NewRecordStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.records)
}

func TestRecordStore_Insert_AssignsIDAndLength(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	id, err := store.Insert(ctx, newRecord("alice", "hello world", "txt"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	records, err := store.FindAll(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].ID)
	assert.Equal(t, 11, records[0].TextLength)
	assert.False(t, records[0].CreatedAt.IsZero())
}

func TestRecordStore_Insert_RequiresOwner(t *testing.T) {
	store := NewRecordStore()

	_, err := store.Insert(context.Background(), newRecord("", "x", "txt"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordStore_Insert_DuplicatePerOwner(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	_, err := store.Insert(ctx, newRecord("alice", "same", "txt"))
	require.NoError(t, err)

	_, err = store.Insert(ctx, newRecord("alice", "same", "txt"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Another owner may store identical text.
	_, err = store.Insert(ctx, newRecord("bob", "same", "txt"))
	assert.NoError(t, err)
}

func TestRecordStore_Insert_DimensionMismatch(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	_, err := store.Insert(ctx, newRecord("alice", "a", "txt"))
	require.NoError(t, err)

	rec := newRecord("bob", "b", "txt")
	rec.Embedding = []float32{1, 2}
	_, err = store.Insert(ctx, rec)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestRecordStore_FindAll_IsolatedSnapshot(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Insert(ctx, newRecord("alice", fmt.Sprintf("t%d", i), "txt"))
		require.NoError(t, err)
	}
	_, err := store.Insert(ctx, newRecord("bob", "other", "txt"))
	require.NoError(t, err)

	records, err := store.FindAll(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "t0", records[0].Text)
	assert.Equal(t, "t2", records[2].Text)

	// Deleting after the snapshot leaves the snapshot intact.
	_, err = store.DeleteAll(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, records, 3)

	empty, err := store.FindAll(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRecordStore_ExistsAndHasDocument(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	_, err := store.Insert(ctx, newRecord("alice", "abc", "txt"))
	require.NoError(t, err)

	ok, err := store.Exists(ctx, "alice", "fp-abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists(ctx, "bob", "fp-abc")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.HasDocument(ctx, "alice", "doc-abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.HasDocument(ctx, "alice", "doc-missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecordStore_DeleteAll(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	_, _ = store.Insert(ctx, newRecord("alice", "four", "txt"))
	_, _ = store.Insert(ctx, newRecord("alice", "sixsix", "pdf"))
	_, _ = store.Insert(ctx, newRecord("bob", "bobs", "txt"))

	summary, err := store.DeleteAll(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.DeleteSummary{Records: 2, Characters: 10}, summary)

	bobs, err := store.FindAll(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, bobs, 1)
}

func TestRecordStore_Aggregate(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	_, _ = store.Insert(ctx, newRecord("alice", "four", "txt"))
	_, _ = store.Insert(ctx, newRecord("alice", "fives", "txt"))
	_, _ = store.Insert(ctx, newRecord("alice", "sixsix", "pdf"))
	untyped := newRecord("alice", "untyped", "")
	untyped.Metadata.FileType = ""
	_, _ = store.Insert(ctx, untyped)

	stats, err := store.Aggregate(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalDocs)
	assert.Equal(t, 22, stats.TotalChars)
	assert.Equal(t, 5, stats.AvgDocLength)
	assert.Equal(t, map[string]int{"txt": 2, "pdf": 1, domain.UnknownFileType: 1}, stats.DocTypes)
}

func TestRecordStore_Aggregate_Empty(t *testing.T) {
	stats, err := NewRecordStore().Aggregate(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, stats.TotalDocs)
	assert.Zero(t, stats.AvgDocLength)
	assert.Empty(t, stats.DocTypes)
}

func TestRecordStore_ConcurrentInsertSameFingerprint(t *testing.T) {
	store := NewRecordStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	stored := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Insert(ctx, newRecord("alice", "race", "txt")); err == nil {
				mu.Lock()
				stored++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, stored)
}
