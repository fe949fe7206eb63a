package validators

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/jravahfoods/storefront/pkg/errors"
)

type itemPayload struct {
	ProductID FlexValue `json:"product_id" validate:"required"`
	Weight    string    `json:"weight" validate:"omitempty,max=16"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"product_id": 12, "weight": "500"}`))
	var payload itemPayload
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.ProductID != "12" || payload.Weight != "500" {
		t.Fatalf("payload = %+v", payload)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"weight": "500"}`))
	err := DecodeJSONBody(req, &itemPayload{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, _ := typed.Details().(map[string]string)
	if details["product_id"] != "is required" {
		t.Fatalf("details = %v", typed.Details())
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"product_id": 1, "extra": true}`))
	if err := DecodeJSONBody(req, &itemPayload{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected unknown field rejection, got %v", err)
	}
}

func TestFlexValue(t *testing.T) {
	var payload struct {
		A FlexValue `json:"a"`
		B FlexValue `json:"b"`
		C FlexValue `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a": 2.5, "b": "abc", "c": null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.A != "2.5" || payload.B != "abc" || payload.C != "" {
		t.Fatalf("payload = %+v", payload)
	}
	if err := json.Unmarshal([]byte(`{"a": true}`), &payload); err == nil {
		t.Fatal("expected bool to be rejected")
	}
}

func TestQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=5&category=Pickles,Sweets&category=Snacks&bad=x", nil)

	limit, err := ParseQueryInt(req, "limit", 0, 0, 100)
	if err != nil || limit != 5 {
		t.Fatalf("limit = %d, %v", limit, err)
	}
	if _, err := ParseQueryInt(req, "bad", 0, 0, 100); err == nil {
		t.Fatal("expected numeric error")
	}
	if got, _ := ParseQueryInt(req, "missing", 7, 0, 100); got != 7 {
		t.Fatalf("default = %d", got)
	}

	if got := strings.Join(QueryList(req, "category"), "|"); got != "Pickles|Sweets|Snacks" {
		t.Fatalf("categories = %s", got)
	}
	if got := SanitizeString("  pickle  ", 3); got != "pic" {
		t.Fatalf("sanitize = %q", got)
	}
}
