package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Canonical weight labels, smallest first.
const (
	Weight250g = "250g"
	Weight500g = "500g"
	Weight1kg  = "1kg"
)

var weightPreference = []string{Weight250g, Weight500g, Weight1kg}

// Weight is one purchasable size of a product.
type Weight struct {
	Label string
	Price decimal.Decimal
}

// Weights maps weight labels to prices while keeping the order the labels were
// declared in.
type Weights []Weight

// Price returns the price offered for label.
func (w Weights) Price(label string) (decimal.Decimal, bool) {
	for _, weight := range w {
		if weight.Label == label {
			return weight.Price, true
		}
	}
	return decimal.Zero, false
}

// Labels returns labels in declaration order.
func (w Weights) Labels() []string {
	labels := make([]string, 0, len(w))
	for _, weight := range w {
		labels = append(labels, weight.Label)
	}
	return labels
}

func (w *Weights) set(label string, price decimal.Decimal) {
	for i := range *w {
		if (*w)[i].Label == label {
			(*w)[i].Price = price
			return
		}
	}
	*w = append(*w, Weight{Label: label, Price: price})
}

// MarshalJSON writes the weights as a JSON object in declaration order.
func (w Weights) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, weight := range w {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(weight.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(weight.Price.String())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of label to price, keeping key order. A
// repeated label keeps its first position and its last price.
func (w *Weights) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*w = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("weights: expected object, got %v", tok)
	}

	out := Weights{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("weights: expected label, got %v", keyTok)
		}
		var raw json.Number
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("weights: price for %q: %w", label, err)
		}
		price, err := decimal.NewFromString(raw.String())
		if err != nil {
			return fmt.Errorf("weights: price for %q: %w", label, err)
		}
		out.set(label, price)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*w = out
	return nil
}

// WeightKeys orders a product's weight labels: canonical sizes first (250g,
// 500g, 1kg), then any other labels in declaration order.
func WeightKeys(p Product) []string {
	keys := make([]string, 0, len(p.Weights))
	seen := make(map[string]struct{}, len(p.Weights))
	for _, label := range weightPreference {
		if _, ok := p.Weights.Price(label); ok {
			keys = append(keys, label)
			seen[label] = struct{}{}
		}
	}
	for _, weight := range p.Weights {
		if _, ok := seen[weight.Label]; ok {
			continue
		}
		keys = append(keys, weight.Label)
	}
	return keys
}

// PriceFor returns the price p is sold at for label.
func PriceFor(p Product, label string) (decimal.Decimal, bool) {
	return p.Weights.Price(label)
}

// PriceRange is the cheapest and dearest weight of a product.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// GetPriceRange returns {0,0} for a product with no weights.
func GetPriceRange(p Product) PriceRange {
	if len(p.Weights) == 0 {
		return PriceRange{Min: decimal.Zero, Max: decimal.Zero}
	}
	r := PriceRange{Min: p.Weights[0].Price, Max: p.Weights[0].Price}
	for _, weight := range p.Weights[1:] {
		if weight.Price.LessThan(r.Min) {
			r.Min = weight.Price
		}
		if weight.Price.GreaterThan(r.Max) {
			r.Max = weight.Price
		}
	}
	return r
}
