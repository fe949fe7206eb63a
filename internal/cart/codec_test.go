package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/jravahfoods/storefront/internal/storage/memory"
	"github.com/shopspring/decimal"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	items := []LineItem{
		{ProductID: 1, Name: "Ginger Pickle", Image: "images/Gingerpickle.jpeg", Weight: "250g", Price: decimal.RequireFromString("137.5"), Quantity: 2},
		{ProductID: 571, Name: "Kara Boondi", Image: "images/kara.jpg", Weight: "1kg", Price: decimal.NewFromInt(500), Quantity: 1},
	}

	data, err := Encode(items)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `[{"productId":1,"name":"Ginger Pickle","image":"images/Gingerpickle.jpeg","weight":"250g","price":137.5,"quantity":2},` +
		`{"productId":571,"name":"Kara Boondi","image":"images/kara.jpg","weight":"1kg","price":500,"quantity":1}]`
	if string(data) != want {
		t.Fatalf("encode =\n%s\nwant\n%s", data, want)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != len(items) {
		t.Fatalf("decoded %d items", len(decoded))
	}
	for i := range items {
		if decoded[i].ProductID != items[i].ProductID || decoded[i].Weight != items[i].Weight ||
			!decoded[i].Price.Equal(items[i].Price) || decoded[i].Quantity != items[i].Quantity {
			t.Fatalf("item %d = %+v, want %+v", i, decoded[i], items[i])
		}
	}

	again, err := Encode(decoded)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if string(again) != string(data) {
		t.Fatalf("re-encode changed bytes:\n%s\n%s", again, data)
	}
}

func TestEncodeEmpty(t *testing.T) {
	for _, items := range [][]LineItem{nil, {}} {
		data, err := Encode(items)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if string(data) != "[]" {
			t.Fatalf("encode empty = %s", data)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := []string{
		`{"productId":1}`,
		`"cart"`,
		`[{"productId":1`,
		`[{"productId":"abc"}]`,
		`42`,
	}
	for _, raw := range cases {
		items, err := Decode([]byte(raw))
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("Decode(%s) err = %v, want ErrMalformed", raw, err)
		}
		if items == nil || len(items) != 0 {
			t.Fatalf("Decode(%s) items = %v, want empty", raw, items)
		}
	}

	for _, raw := range []string{"", "  ", "null"} {
		items, err := Decode([]byte(raw))
		if err != nil || len(items) != 0 {
			t.Fatalf("Decode(%q) = %v, %v", raw, items, err)
		}
	}
}

func TestDecodeSkipsUnreadableRows(t *testing.T) {
	raw := `[{"productId":1,"name":"Ginger Pickle","image":"","weight":"1kg","price":600,"quantity":1},` +
		`{"productId":2,"name":"Mango","image":"","weight":"1kg","price":500,"quantity":"abc"},` +
		`{"productId":12.5,"name":"Half","image":"","weight":"1kg","price":100,"quantity":1},` +
		`7,` +
		`{"productId":9,"name":"Tomato pickle","image":"","weight":"500g","price":300,"quantity":3}]`

	items, err := Decode([]byte(raw))
	if !errors.Is(err, ErrSkippedItems) || !errors.Is(err, ErrMalformed) {
		t.Fatalf("Decode err = %v, want ErrSkippedItems", err)
	}
	if len(items) != 2 || items[0].ProductID != 1 || items[1].ProductID != 9 {
		t.Fatalf("Decode kept %+v", items)
	}
}

func TestDocumentRepositoryKeepsReadableRows(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	repo, err := NewDocumentRepository(backend, testKey, nil)
	if err != nil {
		t.Fatalf("repo: %v", err)
	}
	seededDoc := `[{"productId":9,"name":"Tomato pickle","image":"images/tomato.jpg","weight":"500g","price":300,"quantity":3},` +
		`{"productId":"x","quantity":1}]`
	if err := backend.Write(ctx, testKey, []byte(seededDoc)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	items, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("load = %+v", items)
	}
	if err := repo.Save(ctx, items); err != nil {
		t.Fatalf("save: %v", err)
	}
	stored, _ := backend.Read(ctx, testKey)
	want := `[{"productId":9,"name":"Tomato pickle","image":"images/tomato.jpg","weight":"500g","price":300,"quantity":3}]`
	if string(stored) != want {
		t.Fatalf("stored = %s", stored)
	}
}

func TestDocumentRepositorySaveLoadIdentity(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	repo, err := NewDocumentRepository(backend, testKey, nil)
	if err != nil {
		t.Fatalf("repo: %v", err)
	}

	seeded := `[{"productId":9,"name":"Tomato pickle","image":"images/tomato.jpg","weight":"500g","price":300,"quantity":3}]`
	if err := backend.Write(ctx, testKey, []byte(seeded)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	items, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := repo.Save(ctx, items); err != nil {
		t.Fatalf("save: %v", err)
	}
	stored, _ := backend.Read(ctx, testKey)
	if string(stored) != seeded {
		t.Fatalf("save(load()) changed the document:\n%s\n%s", stored, seeded)
	}
}

func TestDocumentRepositoryMissingDocument(t *testing.T) {
	repo, err := NewDocumentRepository(memory.New(), testKey, nil)
	if err != nil {
		t.Fatalf("repo: %v", err)
	}
	items, err := repo.Load(context.Background())
	if err != nil || len(items) != 0 {
		t.Fatalf("load missing = %v, %v", items, err)
	}

	if _, err := NewDocumentRepository(nil, testKey, nil); err == nil {
		t.Fatal("expected error without backend")
	}
	if _, err := NewDocumentRepository(memory.New(), "", nil); err == nil {
		t.Fatal("expected error without key")
	}
}

func TestNormalizeWeight(t *testing.T) {
	tests := map[string]string{
		"":     "1kg",
		"  ":   "1kg",
		"500":  "500g",
		"500g": "500g",
		" 500": "500g",
		"1kg":  "1kg",
		"2":    "2g",
	}
	for in, want := range tests {
		if got := NormalizeWeight(in); got != want {
			t.Fatalf("NormalizeWeight(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	tests := map[string]int{
		"3":   3,
		" 4 ": 4,
		"2.7": 2,
		"0.5": 0,
		"-0.5": 0,
		"-1":  -1,
		"0":   0,
		"abc": 0,
		"":    0,
		"NaN": 0,
		"Inf": 0,
	}
	for in, want := range tests {
		if got := ParseQuantity(in); got != want {
			t.Fatalf("ParseQuantity(%q) = %d, want %d", in, got, want)
		}
	}
}
