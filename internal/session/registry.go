package session

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/simplelru"

	"github.com/jravahfoods/storefront/internal/cart"
	"github.com/jravahfoods/storefront/internal/notices"
	"github.com/jravahfoods/storefront/internal/storage"
	"github.com/jravahfoods/storefront/pkg/logger"
	"github.com/jravahfoods/storefront/pkg/metrics"
	"go.uber.org/multierr"
)

// DefaultBaseKey prefixes every session's storage key.
const DefaultBaseKey = "jravahCart"

const (
	DefaultMaxSessions = 10000
	DefaultIdleTTL     = 30 * time.Minute

	minSweepInterval = time.Second
)

// Options configures a Registry.
type Options struct {
	BaseKey   string
	Feed      *notices.Feed
	Logger    *logger.Logger
	Metrics   *metrics.CartMetrics
	NoticeTTL time.Duration
	Now       func() time.Time

	// MaxSessions caps the live engines; the least recently used one is
	// dropped first. Negative disables the cap.
	MaxSessions int
	// IdleTTL drops engines that have not been used for that long. Negative
	// disables idle eviction.
	IdleTTL time.Duration
	// NoWatch skips storage change subscriptions in Start.
	NoWatch bool
}

type entry struct {
	sessionID string
	key       string
	engine    *cart.Engine
	lastUsed  time.Time
}

// Registry hands out one cart engine per shopper session and reloads engines
// whose stored document changed underneath them. Evicted engines lose nothing:
// the cart stays in storage and the next request rebuilds the engine.
type Registry struct {
	mu      sync.Mutex
	engines *simplelru.LRU
	byKey   map[string]*entry

	backend storage.Backend
	catalog cart.Catalog
	opts    Options

	watchCtx context.Context
	stops    []func() error
}

func New(backend storage.Backend, products cart.Catalog, opts Options) (*Registry, error) {
	if backend == nil {
		return nil, fmt.Errorf("storage backend required")
	}
	if products == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if opts.BaseKey == "" {
		opts.BaseKey = DefaultBaseKey
	}
	if opts.Feed == nil {
		opts.Feed = notices.NewFeed()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxSessions == 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.IdleTTL == 0 {
		opts.IdleTTL = DefaultIdleTTL
	}
	r := &Registry{
		byKey:    make(map[string]*entry),
		backend:  backend,
		catalog:  products,
		opts:     opts,
		watchCtx: context.Background(),
	}
	size := opts.MaxSessions
	if size < 0 {
		size = math.MaxInt
	}
	engines, err := simplelru.NewLRU(size, r.evicted)
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	r.engines = engines
	return r, nil
}

// Key is the storage key a session's cart lives under.
func (r *Registry) Key(sessionID string) string {
	return r.opts.BaseKey + ":" + sessionID
}

// Feed exposes the badge and banner state the engines report to.
func (r *Registry) Feed() *notices.Feed {
	return r.opts.Feed
}

// Start subscribes to storage changes when the backend can report them and
// runs the idle sweeper until ctx ends or Close is called.
func (r *Registry) Start(ctx context.Context) error {
	if watcher, ok := r.backend.(storage.Watcher); ok && !r.opts.NoWatch {
		stop, err := watcher.Watch(ctx, r.onChange)
		if err != nil {
			return fmt.Errorf("watch storage: %w", err)
		}
		r.mu.Lock()
		r.watchCtx = ctx
		r.stops = append(r.stops, stop)
		r.mu.Unlock()
	} else {
		r.opts.Logger.Info(ctx, "storage change notifications off; carts reload on next operation only")
	}

	if r.opts.IdleTTL > 0 {
		stop := r.runSweeper(ctx)
		r.mu.Lock()
		r.stops = append(r.stops, stop)
		r.mu.Unlock()
	}
	return nil
}

// Engine returns the session's engine, building it on first use.
func (r *Registry) Engine(ctx context.Context, sessionID string) (*cart.Engine, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("session id required")
	}

	if engine, ok := r.lookup(sessionID); ok {
		return engine, nil
	}

	key := r.Key(sessionID)
	repo, err := cart.NewDocumentRepository(r.backend, key, r.opts.Logger)
	if err != nil {
		return nil, err
	}
	notifier := notices.Multi{
		r.opts.Feed.For(sessionID),
		notices.LogNotifier{Logger: r.opts.Logger},
	}
	engine, err := cart.NewEngine(ctx, r.catalog, repo, cart.Options{
		Notifier:  notifier,
		Logger:    r.opts.Logger,
		Metrics:   r.opts.Metrics,
		NoticeTTL: r.opts.NoticeTTL,
		Now:       r.opts.Now,
	})
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.opts.Now()
	if existing, ok := r.getLocked(sessionID, now); ok {
		return existing.engine, nil
	}
	e := &entry{sessionID: sessionID, key: key, engine: engine, lastUsed: now}
	r.byKey[key] = e
	r.engines.Add(sessionID, e)
	r.sweepLocked(now)
	return engine, nil
}

// Len is the number of live engines.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engines.Len()
}

// Sweep drops engines idle for longer than IdleTTL and reports how many went.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.opts.Now())
}

// Close stops every storage watcher and the sweeper.
func (r *Registry) Close() error {
	r.mu.Lock()
	stops := r.stops
	r.stops = nil
	r.mu.Unlock()

	var err error
	for _, stop := range stops {
		err = multierr.Append(err, stop())
	}
	return err
}

func (r *Registry) lookup(sessionID string) (*cart.Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.getLocked(sessionID, r.opts.Now())
	if !ok {
		return nil, false
	}
	return e.engine, true
}

// getLocked fetches an entry and marks it most recently used.
func (r *Registry) getLocked(sessionID string, now time.Time) (*entry, bool) {
	value, ok := r.engines.Get(sessionID)
	if !ok {
		return nil, false
	}
	e := value.(*entry)
	e.lastUsed = now
	return e, true
}

// sweepLocked drops idle entries from the least recently used end.
func (r *Registry) sweepLocked(now time.Time) int {
	if r.opts.IdleTTL <= 0 {
		return 0
	}
	evicted := 0
	for {
		_, value, ok := r.engines.GetOldest()
		if !ok || now.Sub(value.(*entry).lastUsed) < r.opts.IdleTTL {
			return evicted
		}
		r.engines.RemoveOldest()
		evicted++
	}
}

// evicted runs under r.mu for every entry leaving the cache.
func (r *Registry) evicted(_, value interface{}) {
	e := value.(*entry)
	delete(r.byKey, e.key)
	r.opts.Feed.Forget(e.sessionID)
}

func (r *Registry) runSweeper(ctx context.Context) func() error {
	interval := r.opts.IdleTTL / 2
	if interval < minSweepInterval {
		interval = minSweepInterval
	}
	ticker := time.NewTicker(interval)
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case <-ticker.C:
				if n := r.Sweep(); n > 0 {
					r.opts.Logger.Debug(r.opts.Logger.WithField(ctx, "evicted", n), "idle cart sessions evicted")
				}
			}
		}
	}()

	var once sync.Once
	return func() error {
		once.Do(func() {
			close(stopCh)
			<-doneCh
		})
		return nil
	}
}

func (r *Registry) onChange(key string) {
	r.mu.Lock()
	e, ok := r.byKey[key]
	ctx := r.watchCtx
	r.mu.Unlock()
	if !ok {
		return
	}

	ctx = r.opts.Logger.WithSessionID(ctx, e.sessionID)
	if err := e.engine.Reload(ctx); err != nil {
		r.opts.Logger.Error(r.opts.Logger.WithField(ctx, "storage_key", key), "reload cart after storage change", err)
	}
}
