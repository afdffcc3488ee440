package file

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docvault/internal/core/ports/driven"
	"github.com/custodia-labs/docvault/internal/logger"
)

var _ driven.PromptStore = (*PromptStore)(nil)

//go:embed prompts
var defaultPrompts embed.FS

// ErrUnknownPrompt is returned by Load for names without a default.
var ErrUnknownPrompt = errors.New("unknown prompt")

// placeholders is the number of %s verbs each template must carry.
var placeholders = map[string]int{
	driven.PromptAnswerSystem: 0,
	driven.PromptAnswerUser:   3,
}

// PromptStore serves answer prompts from user-editable files.
//
// The directory is seeded with the built-in prompts on first use. Edited
// files are re-read when their modification time changes; a file that is
// empty or has the wrong number of placeholders is ignored in favour of
// the built-in text.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.Mutex
	cache map[string]cachedPrompt
}

type cachedPrompt struct {
	text    string
	modTime time.Time
}

// NewPromptStore creates a prompt store rooted at dir, which defaults
// to ~/.docvault/prompts. No I/O happens until the first Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".docvault", "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]cachedPrompt)}, nil
}

// Load returns the template for name, preferring the on-disk copy.
func (s *PromptStore) Load(name string) (string, error) {
	fallback, err := builtinPrompt(name)
	if err != nil {
		return "", err
	}

	s.seedOnce.Do(s.seed)
	if s.seedErr != nil {
		return fallback, nil
	}

	path := s.path(name)
	info, err := os.Stat(path)
	if err != nil {
		return fallback, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.cache[name]; ok && c.modTime.Equal(info.ModTime()) {
		return c.text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Reading prompt %s: %v", path, err)
		return fallback, nil
	}
	text := strings.TrimSpace(string(data))
	if err := checkPrompt(name, text); err != nil {
		logger.Warn("Ignoring %s: %v", path, err)
		text = fallback
	}
	s.cache[name] = cachedPrompt{text: text, modTime: info.ModTime()}
	return text, nil
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

// seed creates the directory and writes any missing built-in files.
// Existing files are never overwritten.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		s.seedErr = err
		logger.Warn("Using built-in prompts: %v", err)
		return
	}

	entries, err := fs.ReadDir(defaultPrompts, "prompts")
	if err != nil {
		s.seedErr = err
		return
	}
	for _, e := range entries {
		target := filepath.Join(s.dir, e.Name())
		if _, err := os.Stat(target); err == nil {
			continue
		}
		data, err := defaultPrompts.ReadFile("prompts/" + e.Name())
		if err != nil {
			s.seedErr = err
			return
		}
		if err := os.WriteFile(target, data, 0o600); err != nil {
			s.seedErr = err
			logger.Warn("Using built-in prompts: %v", err)
			return
		}
	}
}

func builtinPrompt(name string) (string, error) {
	if _, ok := placeholders[name]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPrompt, name)
	}
	data, err := defaultPrompts.ReadFile("prompts/" + name + ".txt")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownPrompt, name)
	}
	return strings.TrimSpace(string(data)), nil
}

// checkPrompt rejects templates that would format incorrectly.
func checkPrompt(name, text string) error {
	if text == "" {
		return errors.New("prompt is empty")
	}
	unescaped := strings.ReplaceAll(text, "%%", "")
	if got, want := strings.Count(unescaped, "%s"), placeholders[name]; got != want {
		return fmt.Errorf("expected %d %%s placeholders, found %d", want, got)
	}
	return nil
}
