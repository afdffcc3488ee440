// Package watch uploads files dropped into an inbox directory.
//
// The watcher listens for create and write events with fsnotify, waits
// until a file has been quiet for the debounce interval, then hands its
// bytes to the upload pipeline on behalf of one owner.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driving"
	"github.com/custodia-labs/docvault/internal/logger"
)

// DefaultDebounce is how long a file must stay unchanged before upload.
const DefaultDebounce = 500 * time.Millisecond

// ErrClosed is returned when Run is called on a closed watcher.
var ErrClosed = errors.New("watch: watcher is closed")

// Event reports the outcome of one upload attempt.
type Event struct {
	Path   string
	Result *domain.UploadResult
	Err    error
}

// Watcher uploads new and changed files in a directory.
type Watcher struct {
	dir      string
	ownerID  string
	uploader driving.UploadService
	debounce time.Duration
	scan     bool
	onUpload func(Event)
	maxBytes int64

	mu     sync.Mutex
	closed bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a changed file is uploaded.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithInitialScan uploads files already present when Run starts.
func WithInitialScan() Option {
	return func(w *Watcher) {
		w.scan = true
	}
}

// WithHandler registers a callback invoked after every upload attempt.
func WithHandler(fn func(Event)) Option {
	return func(w *Watcher) {
		w.onUpload = fn
	}
}

// WithMaxFileSize skips files larger than n bytes.
func WithMaxFileSize(n int64) Option {
	return func(w *Watcher) {
		if n > 0 {
			w.maxBytes = n
		}
	}
}

// New creates a watcher for dir that uploads as ownerID.
func New(dir, ownerID string, uploader driving.UploadService, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		ownerID:  ownerID,
		uploader: uploader,
		debounce: DefaultDebounce,
		maxBytes: 50 << 20,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches the directory until ctx is cancelled.
// It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return ErrClosed
	}

	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("inbox path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("inbox path error: %s is not a directory", w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	log := logger.Owner(w.ownerID)
	log.Info("Watching %s", w.dir)

	if w.scan {
		w.scanExisting(ctx)
	}

	ready := make(chan string)
	pending := make(map[string]*time.Timer)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			path, ok := w.handleFsEvent(event)
			if !ok {
				continue
			}
			if t, exists := pending[path]; exists {
				t.Reset(w.debounce)
				continue
			}
			pending[path] = time.AfterFunc(w.debounce, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case path := <-ready:
			delete(pending, path)
			w.uploadFile(ctx, path)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn("Watcher error: %v", err)
		}
	}
}

// Close stops future Run calls.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

// handleFsEvent returns the path to upload for a create or write event
// on a visible regular file with a supported extension.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if !w.eligible(event.Name) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}

func (w *Watcher) eligible(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") || strings.HasSuffix(name, "~") {
		return false
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return false
	}
	for _, supported := range w.uploader.SupportedExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

func (w *Watcher) scanExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		logger.Owner(w.ownerID).Warn("Initial scan of %s failed: %v", w.dir, err)
		return
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		path := filepath.Join(w.dir, entry.Name())
		if entry.Type().IsRegular() && w.eligible(path) {
			w.uploadFile(ctx, path)
		}
	}
}

func (w *Watcher) uploadFile(ctx context.Context, path string) {
	log := logger.Owner(w.ownerID)
	event := Event{Path: path}

	info, err := os.Stat(path)
	switch {
	case err != nil:
		event.Err = err
	case info.Size() > w.maxBytes:
		event.Err = fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrInvalidInput, path, w.maxBytes)
	default:
		var content []byte
		content, event.Err = os.ReadFile(path)
		if event.Err == nil {
			event.Result, event.Err = w.uploader.Upload(ctx, w.ownerID, filepath.Base(path), content)
		}
	}

	switch {
	case event.Err == nil:
		log.Info("Uploaded %s: %d chunks", path, event.Result.ChunksCreated)
	case domain.IsDuplicateError(event.Err):
		log.Debug("Skipped %s: already stored", path)
	default:
		log.Warn("Upload of %s failed: %v", path, event.Err)
	}

	if w.onUpload != nil {
		w.onUpload(event)
	}
}
