package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Store answers read-only lookups over a fixed product list.
type Store struct {
	products []Product
	byID     map[int]int
}

// NewStore indexes products by id. Duplicate ids are rejected.
func NewStore(products []Product) (*Store, error) {
	s := &Store{
		products: make([]Product, 0, len(products)),
		byID:     make(map[int]int, len(products)),
	}
	for _, p := range products {
		if _, exists := s.byID[p.ID]; exists {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		s.byID[p.ID] = len(s.products)
		s.products = append(s.products, cloneProduct(p))
	}
	return s, nil
}

// FindByID returns the product with id.
func (s *Store) FindByID(id int) (Product, bool) {
	if s == nil {
		return Product{}, false
	}
	idx, ok := s.byID[id]
	if !ok {
		return Product{}, false
	}
	return cloneProduct(s.products[idx]), true
}

// PriceFor returns the price of the product with id at label.
func (s *Store) PriceFor(id int, label string) (decimal.Decimal, bool) {
	p, ok := s.FindByID(id)
	if !ok {
		return decimal.Zero, false
	}
	return PriceFor(p, label)
}

// Products returns every product in catalog order.
func (s *Store) Products() []Product {
	if s == nil {
		return nil
	}
	out := make([]Product, len(s.products))
	for i, p := range s.products {
		out[i] = cloneProduct(p)
	}
	return out
}

// Len returns the number of products.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.products)
}

// Related lists other products in p's category, at most limit of them.
func (s *Store) Related(p Product, limit int) []Product {
	out := []Product{}
	for _, candidate := range s.products {
		if limit > 0 && len(out) >= limit {
			break
		}
		if candidate.Category != p.Category || candidate.ID == p.ID {
			continue
		}
		out = append(out, cloneProduct(candidate))
	}
	return out
}

func cloneProduct(p Product) Product {
	if p.Weights != nil {
		p.Weights = append(Weights(nil), p.Weights...)
	}
	return p
}
