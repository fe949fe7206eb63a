// Package file stores each cart document as a JSON file in one directory and
// watches that directory for writes made by any process.
package file

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/jravahfoods/storefront/internal/storage"
	"github.com/jravahfoods/storefront/pkg/logger"
)

const (
	fileExt    = ".json"
	tempPrefix = ".tmp-"
)

// Store maps keys to files under dir.
type Store struct {
	dir  string
	logg *logger.Logger
}

var (
	_ storage.Backend = (*Store)(nil)
	_ storage.Watcher = (*Store)(nil)
	_ storage.Pinger  = (*Store)(nil)
)

// New creates dir when missing.
func New(dir string, logg *logger.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %q: %w", dir, err)
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Store{dir: dir, logg: logg}, nil
}

// Dir returns the directory documents live in.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.pathFor(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", key, err)
	}
	return data, nil
}

// Write replaces the document atomically through a temp file and rename.
func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write %q: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %q: %w", key, err)
	}
	if err := os.Rename(tmpName, s.pathFor(key)); err != nil {
		cleanup()
		return fmt.Errorf("rename %q: %w", key, err)
	}
	return nil
}

// Ping checks the directory is still there.
func (s *Store) Ping(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}

// Watch reports created or rewritten documents until stop is called or ctx ends.
func (s *Store) Watch(ctx context.Context, onChange storage.ChangeFunc) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", s.dir, err)
	}

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		for {
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				if key, ok := keyFor(event.Name); ok {
					onChange(key)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logg.Error(s.logg.WithField(ctx, "storage_dir", s.dir), "storage watcher error", err)
			}
		}
	}()

	var once sync.Once
	var closeErr error
	stop := func() error {
		once.Do(func() {
			close(stopCh)
			<-doneCh
			closeErr = watcher.Close()
		})
		return closeErr
	}
	return stop, nil
}

func (s *Store) pathFor(key string) string {
	return filepath.Join(s.dir, url.QueryEscape(key)+fileExt)
}

func keyFor(path string) (string, bool) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, tempPrefix) || !strings.HasSuffix(name, fileExt) {
		return "", false
	}
	key, err := url.QueryUnescape(strings.TrimSuffix(name, fileExt))
	if err != nil {
		return "", false
	}
	return key, true
}
