package cart

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jravahfoods/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// DefaultWeight is used when a caller gives no weight label.
const DefaultWeight = "1kg"

const weightSuffix = "g"

// LineItem is one (product, weight) entry. Name, image and price are frozen at
// the time the item was first added.
type LineItem struct {
	ProductID int             `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Weight    string          `json:"weight"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal is price times quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l LineItem) matches(productID int, weight string) bool {
	return l.ProductID == productID && l.Weight == weight
}

// Totals aggregates a cart.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"item_count"`
}

// ComputeTotals sums price times quantity and the quantities themselves.
func ComputeTotals(items []LineItem) Totals {
	totals := Totals{Subtotal: decimal.Zero}
	for _, item := range items {
		totals.Subtotal = totals.Subtotal.Add(item.LineTotal())
		if item.Quantity > 0 {
			totals.ItemCount += item.Quantity
		}
	}
	return totals
}

// Notice is a short-lived confirmation shown to the shopper.
type Notice struct {
	Kind      enums.NoticeKind `json:"kind"`
	Message   string           `json:"message"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// NormalizeWeight maps a caller's weight label to the catalog form. Blank input
// becomes 1kg; a label not ending in "g" gets one appended, so "500" is "500g"
// and "2" is "2g".
func NormalizeWeight(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return DefaultWeight
	}
	if strings.HasSuffix(label, weightSuffix) {
		return label
	}
	return label + weightSuffix
}

// ParseQuantity reads a quantity given as text. Anything that is not a finite
// number yields 0; fractions are truncated.
func ParseQuantity(raw string) int {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	if value > math.MaxInt32 {
		return math.MaxInt32
	}
	if value < math.MinInt32 {
		return math.MinInt32
	}
	return int(value)
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
