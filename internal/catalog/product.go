package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jravahfoods/storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// Product is one immutable catalog entry.
type Product struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Image       string            `json:"image"`
	Description string            `json:"description"`
	Ingredients string            `json:"ingredients"`
	Stock       enums.StockStatus `json:"stock"`
	Weights     Weights           `json:"weights"`
}

// Purchasable reports whether the product offers at least one weight.
func (p Product) Purchasable() bool {
	return len(p.Weights) > 0
}

// InStock reports whether the product is currently in stock.
func (p Product) InStock() bool {
	return p.Stock == enums.StockStatusIn
}

// productRecord mirrors the build-time export, where ids may arrive as numbers
// or numeric strings.
type productRecord struct {
	ID          json.Number `json:"id"`
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Image       string      `json:"image"`
	Description string      `json:"description"`
	Ingredients string      `json:"ingredients"`
	Stock       string      `json:"stock"`
	Weights     Weights     `json:"weights"`
}

func (r productRecord) toProduct() (Product, error) {
	id, err := ParseID(r.ID.String())
	if err != nil {
		return Product{}, err
	}
	stock, err := enums.ParseStockStatus(strings.ToLower(strings.TrimSpace(r.Stock)))
	if err != nil {
		return Product{}, fmt.Errorf("product %d: %w", id, err)
	}
	for _, weight := range r.Weights {
		if !weight.Price.GreaterThan(decimal.Zero) {
			return Product{}, fmt.Errorf("product %d: weight %q has non-positive price %s", id, weight.Label, weight.Price)
		}
	}
	return Product{
		ID:          id,
		Name:        strings.TrimSpace(r.Name),
		Category:    strings.TrimSpace(r.Category),
		Image:       r.Image,
		Description: r.Description,
		Ingredients: r.Ingredients,
		Stock:       stock,
		Weights:     r.Weights,
	}, nil
}

// ParseID coerces an id given as text ("12", " 12 ", "12.0") to its numeric form.
func ParseID(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("product id is required")
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid product id %q", raw)
	}
	if !value.IsInteger() {
		return 0, fmt.Errorf("invalid product id %q", raw)
	}
	return int(value.IntPart()), nil
}
