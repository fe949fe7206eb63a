package enums

import "fmt"

// PriceBand buckets products by their cheapest weight.
type PriceBand string

const (
	PriceBandAll      PriceBand = "all"
	PriceBandUnder200 PriceBand = "under-200"
	PriceBand200To400 PriceBand = "200-400"
	PriceBand400To600 PriceBand = "400-600"
	PriceBandAbove600 PriceBand = "above-600"
)

var validPriceBands = []PriceBand{
	PriceBandAll,
	PriceBandUnder200,
	PriceBand200To400,
	PriceBand400To600,
	PriceBandAbove600,
}

func (p PriceBand) String() string {
	return string(p)
}

// ParsePriceBand converts raw input into a PriceBand; blank input means all.
func ParsePriceBand(value string) (PriceBand, error) {
	if value == "" {
		return PriceBandAll, nil
	}
	for _, candidate := range validPriceBands {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price band %q", value)
}

// SortOrder orders catalog listings.
type SortOrder string

const (
	SortOrderDefault   SortOrder = "default"
	SortOrderPriceAsc  SortOrder = "price-asc"
	SortOrderPriceDesc SortOrder = "price-desc"
)

var validSortOrders = []SortOrder{
	SortOrderDefault,
	SortOrderPriceAsc,
	SortOrderPriceDesc,
}

func (s SortOrder) String() string {
	return string(s)
}

// ParseSortOrder converts raw input into a SortOrder; blank input keeps catalog order.
func ParseSortOrder(value string) (SortOrder, error) {
	if value == "" {
		return SortOrderDefault, nil
	}
	for _, candidate := range validSortOrders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort order %q", value)
}
