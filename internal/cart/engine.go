package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jravahfoods/storefront/internal/catalog"
	"github.com/jravahfoods/storefront/pkg/enums"
	pkgerrors "github.com/jravahfoods/storefront/pkg/errors"
	"github.com/jravahfoods/storefront/pkg/logger"
	"github.com/jravahfoods/storefront/pkg/metrics"
	"github.com/shopspring/decimal"
)

// DefaultNoticeTTL is how long a confirmation stays visible.
const DefaultNoticeTTL = time.Second

// RemovedMessage is shown when the shopper drops a line from the cart view.
const RemovedMessage = "Item removed from cart"

const (
	opAdd    = "add"
	opUpdate = "update"
	opRemove = "remove"
	opClear  = "clear"
	opReload = "reload"
)

// Catalog is the product lookup the engine prices items against.
type Catalog interface {
	FindByID(id int) (catalog.Product, bool)
	PriceFor(id int, label string) (decimal.Decimal, bool)
}

// Notifier receives the badge count after every change plus shopper notices.
type Notifier interface {
	CountChanged(ctx context.Context, count int)
	Notify(ctx context.Context, notice Notice)
}

type nopNotifier struct{}

func (nopNotifier) CountChanged(context.Context, int) {}
func (nopNotifier) Notify(context.Context, Notice)    {}

// Options carries the engine's optional collaborators.
type Options struct {
	Notifier  Notifier
	Logger    *logger.Logger
	Metrics   *metrics.CartMetrics
	NoticeTTL time.Duration
	Now       func() time.Time
}

// Engine owns one shopper's cart. Every mutation loads the stored document,
// changes it, saves it back and only then updates the in-memory copy.
type Engine struct {
	mu       sync.Mutex
	catalog  Catalog
	repo     Repository
	notifier Notifier
	logg     *logger.Logger
	metrics  *metrics.CartMetrics
	ttl      time.Duration
	now      func() time.Time

	items []LineItem
}

// NewEngine builds an engine and reads the stored cart once.
func NewEngine(ctx context.Context, products Catalog, repo Repository, opts Options) (*Engine, error) {
	if products == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	e := &Engine{
		catalog:  products,
		repo:     repo,
		notifier: opts.Notifier,
		logg:     opts.Logger,
		metrics:  opts.Metrics,
		ttl:      opts.NoticeTTL,
		now:      opts.Now,
	}
	if e.notifier == nil {
		e.notifier = nopNotifier{}
	}
	if e.logg == nil {
		e.logg = logger.Nop()
	}
	if e.ttl <= 0 {
		e.ttl = DefaultNoticeTTL
	}
	if e.now == nil {
		e.now = time.Now
	}

	items, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	e.items = items
	e.notifier.CountChanged(ctx, ComputeTotals(items).ItemCount)
	return e, nil
}

// AddItem adds quantity of a product's weight, merging with an existing line.
// Unknown products and weights the product does not offer are logged and
// ignored. Quantities below 1 count as 1.
func (e *Engine) AddItem(ctx context.Context, productID int, weight string, quantity int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	product, ok := e.catalog.FindByID(productID)
	if !ok {
		e.logg.Warn(e.logg.WithField(ctx, "product_id", productID), "product not found for cart")
		e.metrics.Observe(opAdd, metrics.OutcomeNoop)
		return nil
	}

	label := NormalizeWeight(weight)
	price, ok := e.catalog.PriceFor(product.ID, label)
	if !ok || !price.IsPositive() {
		e.logg.Warn(e.logg.WithFields(ctx, map[string]any{
			"product_id": productID,
			"weight":     label,
		}), "weight not available for product")
		e.metrics.Observe(opAdd, metrics.OutcomeNoop)
		return nil
	}

	if quantity < 1 {
		quantity = 1
	}

	items, err := e.load(ctx)
	if err != nil {
		e.metrics.Observe(opAdd, metrics.OutcomeFailed)
		return err
	}

	merged := false
	for i := range items {
		if items[i].matches(product.ID, label) {
			items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.Image,
			Weight:    label,
			Price:     price,
			Quantity:  quantity,
		})
	}

	if err := e.commit(ctx, opAdd, items); err != nil {
		return err
	}
	e.notify(ctx, enums.NoticeKindAdd, fmt.Sprintf("Added %s %s to cart!", product.Name, label))
	return nil
}

// UpdateQuantity sets a line's quantity exactly. A quantity of zero or less
// removes the line. Lines that are not in the cart are left alone.
func (e *Engine) UpdateQuantity(ctx context.Context, productID int, weight string, quantity int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	label := NormalizeWeight(weight)
	items, err := e.load(ctx)
	if err != nil {
		e.metrics.Observe(opUpdate, metrics.OutcomeFailed)
		return err
	}

	idx := indexOf(items, productID, label)
	if idx < 0 {
		e.items = items
		e.metrics.Observe(opUpdate, metrics.OutcomeNoop)
		return nil
	}

	if quantity <= 0 {
		items = append(items[:idx], items[idx+1:]...)
	} else {
		items[idx].Quantity = quantity
	}
	return e.commit(ctx, opUpdate, items)
}

// RemoveItem drops the matching line if present.
func (e *Engine) RemoveItem(ctx context.Context, productID int, weight string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := e.remove(ctx, productID, weight)
	return err
}

// Discard removes a line the way the cart view does, confirming with a notice.
func (e *Engine) Discard(ctx context.Context, productID int, weight string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	removed, err := e.remove(ctx, productID, weight)
	if err != nil {
		return err
	}
	if removed {
		e.notify(ctx, enums.NoticeKindRemove, RemovedMessage)
	}
	return nil
}

// Clear empties the cart.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commit(ctx, opClear, []LineItem{})
}

// Reload re-reads the stored document, typically after another writer changed it.
func (e *Engine) Reload(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	items, err := e.load(ctx)
	if err != nil {
		e.metrics.Observe(opReload, metrics.OutcomeFailed)
		return err
	}
	e.items = items
	e.metrics.Observe(opReload, metrics.OutcomeApplied)
	e.metrics.IncReload()
	e.notifier.CountChanged(ctx, ComputeTotals(items).ItemCount)
	return nil
}

// Items returns a copy of the current lines.
func (e *Engine) Items() []LineItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneItems(e.items)
}

// Totals returns the subtotal and item count of the current lines.
func (e *Engine) Totals() Totals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ComputeTotals(e.items)
}

// Count is the badge number.
func (e *Engine) Count() int {
	return e.Totals().ItemCount
}

func (e *Engine) remove(ctx context.Context, productID int, weight string) (bool, error) {
	label := NormalizeWeight(weight)
	items, err := e.load(ctx)
	if err != nil {
		e.metrics.Observe(opRemove, metrics.OutcomeFailed)
		return false, err
	}

	idx := indexOf(items, productID, label)
	if idx < 0 {
		e.items = items
		e.metrics.Observe(opRemove, metrics.OutcomeNoop)
		e.notifier.CountChanged(ctx, ComputeTotals(items).ItemCount)
		return false, nil
	}
	items = append(items[:idx], items[idx+1:]...)
	if err := e.commit(ctx, opRemove, items); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) load(ctx context.Context) ([]LineItem, error) {
	items, err := e.repo.Load(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if items == nil {
		items = []LineItem{}
	}
	return items, nil
}

// commit saves items and adopts them as the in-memory state. A failed save
// leaves the previous state in place.
func (e *Engine) commit(ctx context.Context, op string, items []LineItem) error {
	if err := e.repo.Save(ctx, items); err != nil {
		e.metrics.Observe(op, metrics.OutcomeFailed)
		e.logg.Error(e.logg.WithField(ctx, "cart_op", op), "cart save failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	e.items = cloneItems(items)
	e.metrics.Observe(op, metrics.OutcomeApplied)
	e.notifier.CountChanged(ctx, ComputeTotals(e.items).ItemCount)
	return nil
}

func (e *Engine) notify(ctx context.Context, kind enums.NoticeKind, message string) {
	e.metrics.IncNotice(kind.String())
	e.notifier.Notify(ctx, Notice{
		Kind:      kind,
		Message:   message,
		ExpiresAt: e.now().Add(e.ttl),
	})
}

func indexOf(items []LineItem, productID int, weight string) int {
	for i := range items {
		if items[i].matches(productID, weight) {
			return i
		}
	}
	return -1
}
