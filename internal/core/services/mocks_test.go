package services

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/custodia-labs/docvault/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
	"github.com/custodia-labs/docvault/internal/postprocessors/chunker"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors are bag-of-words counts over a fixed number of hashed buckets,
// so texts sharing words are similar.
type mockEmbeddingService struct {
	mu       sync.Mutex
	dims     int
	failOn   string
	err      error
	calls    int
	override []float32
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.failOn != "" && strings.Contains(text, m.failOn) {
		return nil, errors.New("embedding backend exploded")
	}
	if m.override != nil {
		return m.override, nil
	}
	return bagOfWords(text, m.Dimensions()), nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims == 0 {
		return 64
	}
	return m.dims
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return m.err
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

func bagOfWords(text string, dims int) []float32 {
	vec := make([]float32, dims)
	for _, w := range QueryTokens(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%uint32(dims)]++
	}
	return vec
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	response string
	err      error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.messages = messages
	m.opts = opts
	return m.response, m.err
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return m.err
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", domain.ErrNotFound
}

// textRegistry implements driven.ExtractorRegistry by treating content as UTF-8 text.
type textRegistry struct {
	err error
}

func (r *textRegistry) Register(driven.TextExtractor) {}

func (r *textRegistry) Extract(_ context.Context, content []byte, filename string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	if strings.HasSuffix(filename, ".exe") {
		return "", domain.ErrUnsupportedType
	}
	return string(content), nil
}

func (r *textRegistry) SupportedExtensions() []string {
	return []string{"txt"}
}

// failingRecordStore wraps a memory store and fails selected operations.
type failingRecordStore struct {
	*memory.RecordStore
	findErr   error
	insertErr error
}

func (s *failingRecordStore) FindAll(ctx context.Context, ownerID string) ([]domain.ChunkRecord, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.RecordStore.FindAll(ctx, ownerID)
}

func (s *failingRecordStore) Insert(ctx context.Context, record *domain.ChunkRecord) (string, error) {
	if s.insertErr != nil {
		return "", s.insertErr
	}
	return s.RecordStore.Insert(ctx, record)
}

// --- Fixtures ---

type fixture struct {
	records  driven.RecordStore
	users    *memory.UserStore
	embedder *mockEmbeddingService
	llm      *mockLLMService
	stats    *StatsService
	upload   *UploadService
	query    *QueryService
	userSvc  *UserService
}

func newFixture(records driven.RecordStore) *fixture {
	if records == nil {
		records = memory.NewRecordStore()
	}
	retrieval := domain.DefaultRetrievalSettings()
	users := memory.NewUserStore()
	embedder := &mockEmbeddingService{}
	llm := &mockLLMService{response: "generated answer"}
	stats := NewStatsService(records, users)
	locks := NewOwnerLocks()

	f := &fixture{
		records:  records,
		users:    users,
		embedder: embedder,
		llm:      llm,
		stats:    stats,
	}
	f.upload = NewUploadService(&textRegistry{},
		chunker.New(chunker.WithChunkSize(retrieval.ChunkSize), chunker.WithOverlap(retrieval.ChunkOverlap)),
		embedder, records, users, stats, locks)
	f.query = NewQueryService(embedder, NewLinearSearcher(records, retrieval.MinSimilarity), llm, retrieval)
	f.userSvc = NewUserService(users, records, stats, locks)
	return f
}

func (f *fixture) addUser(id string) {
	_ = f.users.Save(context.Background(), &domain.User{ID: id, Name: id, Email: id + "@example.com"})
}
