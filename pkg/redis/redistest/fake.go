// Package redistest provides an in-memory stand-in for the redis command surface.
package redistest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publication records one Publish call.
type Publication struct {
	Channel string
	Message string
}

// Fake implements redis.Cmdable over a map.
type Fake struct {
	mu        sync.Mutex
	data      map[string]string
	published []Publication

	// GetErr, when set, is returned by every Get.
	GetErr error
}

func NewFake() *Fake {
	return &Fake{data: make(map[string]string)}
}

func (f *Fake) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *Fake) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = stringify(value)
	return redis.NewStatusResult("OK", nil)
}

func (f *Fake) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return redis.NewStringResult("", f.GetErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *Fake) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var removed int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			removed++
		}
		delete(f.data, key)
	}
	return redis.NewIntResult(removed, nil)
}

func (f *Fake) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, Publication{Channel: channel, Message: stringify(message)})
	return redis.NewIntResult(0, nil)
}

// Value returns the raw stored value for key.
func (f *Fake) Value(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

// Published returns a copy of every Publish call so far.
func (f *Fake) Published() []Publication {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Publication(nil), f.published...)
}

func stringify(value any) string {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
