// Package memory keeps cart documents in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/jravahfoods/storefront/internal/storage"
)

const watchBuffer = 64

// Store is a mutex-guarded map of documents.
type Store struct {
	mu       sync.RWMutex
	data     map[string][]byte
	watchers map[int]chan string
	nextID   int
}

var (
	_ storage.Backend = (*Store)(nil)
	_ storage.Watcher = (*Store)(nil)
)

func New() *Store {
	return &Store{
		data:     make(map[string][]byte),
		watchers: make(map[int]chan string),
	}
}

func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), data...)
	for _, ch := range s.watchers {
		select {
		case ch <- key:
		default:
		}
	}
	return nil
}

// Watch reports every Write. Notifications are dropped when the watcher falls
// behind by more than a small buffer.
func (s *Store) Watch(ctx context.Context, onChange storage.ChangeFunc) (func() error, error) {
	ch := make(chan string, watchBuffer)
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = ch
	s.mu.Unlock()

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
			case key := <-ch:
				onChange(key)
			}
		}
	}()

	var once sync.Once
	stop := func() error {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
			close(stopCh)
			<-doneCh
		})
		return nil
	}
	return stop, nil
}
