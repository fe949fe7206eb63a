// Package redisstore keeps cart documents in redis and announces writes on a
// pub/sub channel so other API instances can reload.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jravahfoods/storefront/internal/storage"
	"github.com/jravahfoods/storefront/pkg/logger"
	"github.com/jravahfoods/storefront/pkg/redis"
)

type client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Publish(ctx context.Context, channel, message string) error
	Subscribe(ctx context.Context, channel string) (<-chan string, func() error, error)
	Ping(ctx context.Context) error
	CartKey(key string) string
	CartEventsChannel() string
}

// Store is a Backend over the shared redis client.
type Store struct {
	client client
	ttl    time.Duration
	logg   *logger.Logger
}

var (
	_ storage.Backend = (*Store)(nil)
	_ storage.Watcher = (*Store)(nil)
	_ storage.Pinger  = (*Store)(nil)
	_ client          = (*redis.Client)(nil)
)

// New wraps client. A zero ttl keeps documents forever.
func New(client client, ttl time.Duration, logg *logger.Logger) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Store{client: client, ttl: ttl, logg: logg}, nil
}

func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.client.CartKey(key))
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return []byte(value), nil
}

// Write stores the document, then publishes its key. A failed publish is
// logged; the document itself is already saved.
func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.client.CartKey(key), data, s.ttl); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	if err := s.client.Publish(ctx, s.client.CartEventsChannel(), key); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "storage_key", key), "publish cart change failed", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Watch subscribes to the change channel.
func (s *Store) Watch(ctx context.Context, onChange storage.ChangeFunc) (func() error, error) {
	ctx, cancel := context.WithCancel(ctx)
	messages, closeSub, err := s.client.Subscribe(ctx, s.client.CartEventsChannel())
	if err != nil {
		cancel()
		return nil, err
	}

	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		for key := range messages {
			onChange(key)
		}
	}()

	var once sync.Once
	var closeErr error
	stop := func() error {
		once.Do(func() {
			cancel()
			closeErr = closeSub()
			<-doneCh
		})
		return closeErr
	}
	return stop, nil
}
