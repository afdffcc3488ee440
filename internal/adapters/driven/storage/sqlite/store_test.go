package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docvault/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docvault/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "docvault-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func testRecord(owner, text, fileType string) *domain.ChunkRecord {
	return &domain.ChunkRecord{
		OwnerID:     owner,
		Text:        text,
		Embedding:   []float32{0.1, 0.2, 0.3},
		Fingerprint: "fp-" + text,
		Metadata: domain.ChunkMetadata{
			Filename:            "doc." + fileType,
			Source:              domain.SourceUploadedDocument,
			FileType:            fileType,
			DocumentFingerprint: "doc-" + owner,
		},
	}
}

func createTestUser(t *testing.T, store *Store, id, email string) {
	t.Helper()
	err := store.UserStore().Save(context.Background(), &domain.User{
		ID:        id,
		Name:      "User " + id,
		Email:     email,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	})
	require.NoError(t, err)
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	dbPath := filepath.Join(tempDir, "docvault.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	nestedDir := filepath.Join(t.TempDir(), "nested", "path", "to", "db")
	store, err := NewStore(nestedDir)
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, nestedDir)
}

func TestNewStore_Migrations(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	var version int
	err := store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, migrations.Latest(), version)

	for _, table := range []string{"users", "chunk_records"} {
		var tableExists int
		err := store.db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&tableExists)
		require.NoError(t, err)
		assert.Equal(t, 1, tableExists, "table %s should exist", table)
	}
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	tempDir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	_, err = store.RecordStore().Insert(ctx, testRecord("u1", "persisted", "txt"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewStore(tempDir)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.RecordStore().FindAll(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "persisted", records[0].Text)
}

func TestStore_Close(t *testing.T) {
	store, _ := setupTestStore(t)

	require.NoError(t, store.Close())
	assert.Error(t, store.db.Ping())
}

// ==================== Record Store Tests ====================

func TestRecordStore_InsertAndFindAll(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	records := store.RecordStore()

	first := testRecord("u1", "first chunk", "txt")
	first.Metadata.ChunkIndex = 0
	first.Metadata.TotalChunks = 2
	id1, err := records.Insert(ctx, first)
	require.NoError(t, err)
	assert.NotEmpty(t, id1)

	id2, err := records.Insert(ctx, testRecord("u1", "second chunk", "txt"))
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	got, err := records.FindAll(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, id1, got[0].ID)
	assert.Equal(t, "first chunk", got[0].Text)
	assert.Equal(t, len("first chunk"), got[0].TextLength)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got[0].Embedding)
	assert.Equal(t, "doc.txt", got[0].Metadata.Filename)
	assert.Equal(t, 2, got[0].Metadata.TotalChunks)
	assert.Equal(t, "doc-u1", got[0].Metadata.DocumentFingerprint)
	assert.False(t, got[0].CreatedAt.IsZero())
	assert.Equal(t, id2, got[1].ID)
}

func TestRecordStore_FindAll_OwnerIsolation(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	records := store.RecordStore()

	_, err := records.Insert(ctx, testRecord("u1", "mine", "txt"))
	require.NoError(t, err)

	got, err := records.FindAll(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecordStore_Insert_Duplicate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	records := store.RecordStore()

	_, err := records.Insert(ctx, testRecord("u1", "same", "txt"))
	require.NoError(t, err)

	_, err = records.Insert(ctx, testRecord("u1", "same", "txt"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Another owner may store the same text.
	_, err = records.Insert(ctx, testRecord("u2", "same", "txt"))
	assert.NoError(t, err)

	exists, err := records.Exists(ctx, "u1", "fp-same")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = records.Exists(ctx, "u3", "fp-same")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRecordStore_Insert_DimensionMismatch(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	records := store.RecordStore()

	_, err := records.Insert(ctx, testRecord("u1", "three dims", "txt"))
	require.NoError(t, err)

	bad := testRecord("u1", "two dims", "txt")
	bad.Embedding = []float32{1, 2}
	_, err = records.Insert(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestRecordStore_Insert_RequiresOwner(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.RecordStore().Insert(context.Background(), testRecord("", "orphan", "txt"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordStore_HasDocument(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	records := store.RecordStore()

	_, err := records.Insert(ctx, testRecord("u1", "chunk", "txt"))
	require.NoError(t, err)

	has, err := records.HasDocument(ctx, "u1", "doc-u1")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = records.HasDocument(ctx, "u2", "doc-u1")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRecordStore_DeleteAll(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	records := store.RecordStore()

	_, err := records.Insert(ctx, testRecord("u1", "abc", "txt"))
	require.NoError(t, err)
	_, err = records.Insert(ctx, testRecord("u1", "defgh", "pdf"))
	require.NoError(t, err)
	_, err = records.Insert(ctx, testRecord("u2", "keep me", "txt"))
	require.NoError(t, err)

	summary, err := records.DeleteAll(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.DeleteSummary{Records: 2, Characters: 8}, summary)

	got, err := records.FindAll(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = records.FindAll(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	summary, err = records.DeleteAll(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.DeleteSummary{}, summary)
}

func TestRecordStore_Aggregate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	records := store.RecordStore()

	empty, err := records.Aggregate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalDocs)
	assert.Equal(t, 0, empty.AvgDocLength)
	assert.Empty(t, empty.DocTypes)

	_, err = records.Insert(ctx, testRecord("u1", "aaaa", "txt"))
	require.NoError(t, err)
	_, err = records.Insert(ctx, testRecord("u1", "bbbbb", "txt"))
	require.NoError(t, err)
	_, err = records.Insert(ctx, testRecord("u1", "cc", ""))
	require.NoError(t, err)

	stats, err := records.Aggregate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalDocs)
	assert.Equal(t, 11, stats.TotalChars)
	assert.Equal(t, 3, stats.AvgDocLength)
	assert.Equal(t, map[string]int{"txt": 2, domain.UnknownFileType: 1}, stats.DocTypes)
}

func TestRecordStore_ConcurrentInserts(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	records := store.RecordStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := records.Insert(ctx, testRecord("u1", fmt.Sprintf("chunk %d", i), "txt"))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := records.FindAll(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, got, 20)
}

// ==================== User Store Tests ====================

func TestUserStore_SaveAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	users := store.UserStore()

	createTestUser(t, store, "u1", "ada@example.com")

	got, err := users.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "User u1", got.Name)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Nil(t, got.LastLogin)
	assert.Zero(t, got.DocumentCount)

	byEmail, err := users.GetByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)
}

func TestUserStore_Get_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.UserStore().Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.UserStore().GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserStore_Save_DuplicateEmail(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	createTestUser(t, store, "u1", "ada@example.com")

	err := store.UserStore().Save(context.Background(), &domain.User{
		ID: "u2", Name: "Other", Email: "Ada@Example.com", CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestUserStore_Save_Update(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	users := store.UserStore()

	createTestUser(t, store, "u1", "ada@example.com")

	user, err := users.Get(ctx, "u1")
	require.NoError(t, err)
	user.Name = "Ada Lovelace"
	require.NoError(t, users.Save(ctx, user))

	got, err := users.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Name)
}

func TestUserStore_TouchLogin(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	users := store.UserStore()

	createTestUser(t, store, "u1", "ada@example.com")

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, users.TouchLogin(ctx, "u1", at))

	got, err := users.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.WithinDuration(t, at, *got.LastLogin, time.Second)

	assert.ErrorIs(t, users.TouchLogin(ctx, "missing", at), domain.ErrNotFound)
}

func TestUserStore_IncrementStats(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	users := store.UserStore()

	createTestUser(t, store, "u1", "ada@example.com")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, users.IncrementStats(ctx, "u1", 1, 100))
		}()
	}
	wg.Wait()

	require.NoError(t, users.IncrementStats(ctx, "u1", -2, -200))

	got, err := users.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 8, got.DocumentCount)
	assert.Equal(t, 800, got.TotalCharacters)

	assert.ErrorIs(t, users.IncrementStats(ctx, "missing", 1, 1), domain.ErrNotFound)
}

// ==================== Vector Encoding Tests ====================

func TestVectorEncoding(t *testing.T) {
	tests := []struct {
		name string
		vec  []float32
	}{
		{"empty", nil},
		{"single", []float32{1.5}},
		{"mixed", []float32{-0.25, 0, 3.75, 1e-7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := encodeVector(tt.vec)
			assert.Len(t, buf, len(tt.vec)*4)
			got, err := decodeVector(buf)
			require.NoError(t, err)
			assert.Equal(t, tt.vec, got)
		})
	}
}

func TestDecodeVector_TruncatedBlob(t *testing.T) {
	_, err := decodeVector([]byte{1, 2, 3})
	assert.ErrorContains(t, err, "not a float32 vector")
}
