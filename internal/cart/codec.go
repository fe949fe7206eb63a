package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformed marks a stored cart document that could not be read. Callers
// treat it as an empty cart.
var ErrMalformed = errors.New("malformed cart document")

// ErrSkippedItems marks a readable document where some rows were dropped. The
// rows that did decode are still returned.
var ErrSkippedItems = fmt.Errorf("%w: unreadable line items", ErrMalformed)

type documentItem struct {
	ProductID json.Number `json:"productId"`
	Name      string      `json:"name"`
	Image     string      `json:"image"`
	Weight    string      `json:"weight"`
	Price     json.Number `json:"price"`
	Quantity  json.Number `json:"quantity"`
}

// Encode writes items as a JSON array with numeric prices. The same items
// always encode to the same bytes.
func Encode(items []LineItem) ([]byte, error) {
	doc := make([]documentItem, 0, len(items))
	for _, item := range items {
		doc = append(doc, documentItem{
			ProductID: json.Number(fmt.Sprint(item.ProductID)),
			Name:      item.Name,
			Image:     item.Image,
			Weight:    item.Weight,
			Price:     json.Number(item.Price.String()),
			Quantity:  json.Number(fmt.Sprint(item.Quantity)),
		})
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Decode reads a cart document. Empty input is an empty cart. A document that
// is not a JSON array returns an empty cart and ErrMalformed; rows that cannot
// be read are dropped and reported through ErrSkippedItems.
func Decode(data []byte) ([]LineItem, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []LineItem{}, nil
	}
	if trimmed[0] != '[' {
		return []LineItem{}, fmt.Errorf("%w: not a list", ErrMalformed)
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return []LineItem{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	items := make([]LineItem, 0, len(rows))
	var bad []string
	for i, row := range rows {
		item, err := decodeRow(row)
		if err != nil {
			bad = append(bad, fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		items = append(items, item)
	}
	if len(bad) > 0 {
		return items, fmt.Errorf("%w: %s", ErrSkippedItems, strings.Join(bad, "; "))
	}
	return items, nil
}

func decodeRow(row json.RawMessage) (LineItem, error) {
	var raw documentItem
	if err := json.Unmarshal(row, &raw); err != nil {
		return LineItem{}, err
	}
	return raw.toLineItem()
}

func (d documentItem) toLineItem() (LineItem, error) {
	id, err := d.ProductID.Int64()
	if err != nil {
		return LineItem{}, fmt.Errorf("productId: %w", err)
	}
	price := decimal.Zero
	if d.Price != "" {
		price, err = decimal.NewFromString(d.Price.String())
		if err != nil {
			return LineItem{}, fmt.Errorf("price: %w", err)
		}
	}
	quantity := 0
	if d.Quantity != "" {
		qty, err := d.Quantity.Float64()
		if err != nil {
			return LineItem{}, fmt.Errorf("quantity: %w", err)
		}
		quantity = int(qty)
	}
	return LineItem{
		ProductID: int(id),
		Name:      d.Name,
		Image:     d.Image,
		Weight:    d.Weight,
		Price:     price,
		Quantity:  quantity,
	}, nil
}
