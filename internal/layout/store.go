package layout

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Store serves the current rules and swaps them atomically on reload.
type Store struct {
	path    string
	current atomic.Pointer[Rules]
}

// NewStore loads rules from path, or serves Default when path is empty.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if path == "" {
		rules := Default()
		s.current.Store(&rules)
		return s, nil
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

// Rules returns the current rules.
func (s *Store) Rules() Rules {
	return *s.current.Load()
}

// AnnotationFor consults the current rules.
func (s *Store) AnnotationFor(name string) (string, bool) {
	return s.Rules().AnnotationFor(name)
}

// Reload re-reads the rules file. On error the previous rules stay active.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	rules, err := Load(s.path)
	if err != nil {
		return err
	}
	s.current.Store(&rules)
	return nil
}

// Watch reloads the rules whenever the file is written or replaced, until ctx
// is done. The parent directory is watched so editors that save by rename
// are picked up.
func (s *Store) Watch(ctx context.Context, logger *slog.Logger) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch dir %q: %w", dir, err)
	}
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Reload(); err != nil {
				logger.Warn("layout rules reload failed; keeping previous rules", "path", s.path, "error", err.Error())
				continue
			}
			logger.Info("layout rules reloaded", "path", s.path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
