package enums

import "fmt"

// StockStatus reports whether a product can currently be ordered.
type StockStatus string

const (
	StockStatusIn  StockStatus = "in"
	StockStatusOut StockStatus = "out"
)

var validStockStatuses = []StockStatus{
	StockStatusIn,
	StockStatusOut,
}

// String implements fmt.Stringer.
func (s StockStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StockStatus.
func (s StockStatus) IsValid() bool {
	for _, candidate := range validStockStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockStatus converts raw input into a StockStatus. Blank input means in stock,
// matching the build-time export default.
func ParseStockStatus(value string) (StockStatus, error) {
	if value == "" {
		return StockStatusIn, nil
	}
	for _, candidate := range validStockStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock status %q", value)
}
