package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jravahfoods/storefront/internal/storage"
	"github.com/jravahfoods/storefront/pkg/logger"
)

// Repository loads and saves a whole cart document.
type Repository interface {
	Load(ctx context.Context) ([]LineItem, error)
	Save(ctx context.Context, items []LineItem) error
}

// DocumentRepository stores one cart as a JSON document under key.
type DocumentRepository struct {
	backend storage.Backend
	key     string
	logg    *logger.Logger
}

// NewDocumentRepository binds a backend key to a cart.
func NewDocumentRepository(backend storage.Backend, key string, logg *logger.Logger) (*DocumentRepository, error) {
	if backend == nil {
		return nil, fmt.Errorf("storage backend required")
	}
	if key == "" {
		return nil, fmt.Errorf("storage key required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &DocumentRepository{backend: backend, key: key, logg: logg}, nil
}

// Key returns the storage key the cart lives under.
func (r *DocumentRepository) Key() string {
	return r.key
}

// Load returns the stored items. A missing or malformed document is an empty
// cart; unreadable rows are dropped and the rest kept.
func (r *DocumentRepository) Load(ctx context.Context) ([]LineItem, error) {
	data, err := r.backend.Read(ctx, r.key)
	if errors.Is(err, storage.ErrNotFound) {
		return []LineItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart %s: %w", r.key, err)
	}
	items, err := Decode(data)
	if err != nil {
		ctx = r.logg.WithFields(ctx, map[string]any{
			"storage_key": r.key,
			"error":       err.Error(),
		})
		if errors.Is(err, ErrSkippedItems) {
			r.logg.Warn(ctx, "skipped unreadable cart items")
			return items, nil
		}
		r.logg.Warn(ctx, "unable to parse cart data")
		return []LineItem{}, nil
	}
	return items, nil
}

// Save replaces the stored document with items.
func (r *DocumentRepository) Save(ctx context.Context, items []LineItem) error {
	data, err := Encode(items)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", r.key, err)
	}
	if err := r.backend.Write(ctx, r.key, data); err != nil {
		return fmt.Errorf("write cart %s: %w", r.key, err)
	}
	return nil
}
