// Package skus strips bundle suffixes from SKUs and scales quantities by the bundle multiplier.
package skus

import (
	"strconv"
	"strings"

	"github.com/angelmondragon/orderlens/internal/analytics/types"
)

const separator = "_"

var (
	// SKUs containing one of these markers are sold as single units whatever their suffix says.
	unitMarkers    = []string{"sachet", "half"}
	bottlePrefixes = []string{"nb-btl", "nb-bt-"}
)

// Normalize returns the base SKU and the effective quantity of a line. "X_3" with quantity 2
// becomes ("X", 6) and "X_3_2" with quantity 2 becomes ("X", 10). SKUs without a numeric suffix,
// or whose suffixes sum to zero, are returned unchanged.
func Normalize(sku string, quantity int) (string, int) {
	lower := strings.ToLower(sku)
	for _, marker := range unitMarkers {
		if strings.Contains(lower, marker) {
			return sku, quantity
		}
	}

	parts := strings.Split(sku, separator)
	if len(parts) == 1 {
		return sku, quantity
	}

	multiplier := 0
	for _, part := range parts[1:] {
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		multiplier += n
	}
	if multiplier <= 0 {
		return sku, quantity
	}
	return parts[0], quantity * multiplier
}

// NormalizeRecord maps a record to its line item.
func NormalizeRecord(record types.OrderRecord) types.LineItem {
	base, qty := Normalize(record.SKU, record.Quantity)
	return types.LineItem{
		OrderNumber: record.OrderNumber,
		BaseSKU:     base,
		Quantity:    qty,
		Date:        record.Date,
	}
}

// NormalizeAll maps records to line items one-to-one, preserving order.
func NormalizeAll(records []types.OrderRecord) []types.LineItem {
	items := make([]types.LineItem, 0, len(records))
	for _, record := range records {
		items = append(items, NormalizeRecord(record))
	}
	return items
}

// IsBottle reports whether sku is a bottle product. Bottles always ship in the largest box.
func IsBottle(sku string) bool {
	lower := strings.ToLower(sku)
	for _, prefix := range bottlePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
