package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

//go:embed products.json
var embeddedProducts []byte

// Load decodes a JSON product list and builds a Store from it.
func Load(r io.Reader) (*Store, error) {
	var records []productRecord
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	products := make([]Product, 0, len(records))
	for i, record := range records {
		p, err := record.toProduct()
		if err != nil {
			return nil, fmt.Errorf("product at index %d: %w", i, err)
		}
		products = append(products, p)
	}
	return NewStore(products)
}

// LoadFile reads the product list at path.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the catalog compiled into the binary.
func Default() (*Store, error) {
	return Load(bytes.NewReader(embeddedProducts))
}

// Open returns the catalog at path, or the compiled-in catalog when path is blank.
func Open(path string) (*Store, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}
