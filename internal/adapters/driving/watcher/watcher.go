// Package watcher turns a directory into a drop folder: files placed in it
// are ingested automatically, and removed files are deleted from the index.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/extract"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// DefaultExtensions are the file types ingested when none are configured.
var DefaultExtensions = extract.SupportedExtensions()

// defaultDebounce coalesces the event bursts editors produce on save.
const defaultDebounce = 500 * time.Millisecond

// Service watches a directory and keeps the index in sync with its files.
type Service struct {
	ingest     driving.IngestService
	dir        string
	extensions map[string]bool
	debounce   time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// Option configures a Service.
type Option func(*Service)

// WithDebounce overrides the event debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(s *Service) { s.debounce = d }
}

// WithExtensions overrides the watched file extensions.
func WithExtensions(exts []string) Option {
	return func(s *Service) {
		s.extensions = make(map[string]bool, len(exts))
		for _, e := range exts {
			s.extensions[strings.ToLower(e)] = true
		}
	}
}

// New creates a watcher service for the given directory.
func New(ingest driving.IngestService, dir string, opts ...Option) (*Service, error) {
	if ingest == nil {
		return nil, fmt.Errorf("watcher: ingest service is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watcher: %s is not a directory", dir)
	}

	s := &Service{
		ingest:   ingest,
		dir:      dir,
		debounce: defaultDebounce,
		timers:   make(map[string]*time.Timer),
	}
	WithExtensions(DefaultExtensions)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run ingests the directory's current contents, then blocks processing
// filesystem events until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.scan(ctx); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(s.dir); err != nil {
		return fmt.Errorf("watcher: watch %s: %w", s.dir, err)
	}
	logger.Info("Watching %s", s.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !s.handles(event.Name) {
				continue
			}
			s.handleEvent(ctx, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// scan ingests every matching file already present in the directory.
func (s *Service) scan(ctx context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("watcher: scan %s: %w", s.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if !s.handles(path) {
			continue
		}
		s.ingestFile(ctx, path)
	}
	return nil
}

func (s *Service) handleEvent(ctx context.Context, event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		// Debounce: editors emit several writes per save.
		s.mu.Lock()
		if timer, exists := s.timers[event.Name]; exists {
			timer.Stop()
		}
		s.timers[event.Name] = time.AfterFunc(s.debounce, func() {
			s.mu.Lock()
			delete(s.timers, event.Name)
			s.mu.Unlock()
			s.ingestFile(ctx, event.Name)
		})
		s.mu.Unlock()

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		docID := DocumentID(event.Name)
		if err := s.ingest.Delete(ctx, docID); err != nil {
			logger.Warn("Delete %s: %v", docID, err)
		} else {
			logger.Info("Removed %s from index", docID)
		}
	}
}

func (s *Service) ingestFile(ctx context.Context, path string) {
	doc, err := extract.FromFile(path)
	if err != nil {
		logger.Warn("Extract %s: %v", path, err)
		return
	}

	docID := DocumentID(path)
	if err := s.ingest.Ingest(ctx, docID, doc.Title, doc.Text, nil); err != nil {
		logger.Warn("Ingest %s: %v", path, err)
		return
	}
	logger.Info("Ingested %s as %q", path, docID)
}

// handles reports whether the file's extension is watched.
func (s *Service) handles(path string) bool {
	return s.extensions[strings.ToLower(filepath.Ext(path))]
}

// DocumentID derives the document ID for a watched file. Underscores are
// replaced because chunk IDs reserve them.
func DocumentID(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.ReplaceAll(base, "_", "-")
}
