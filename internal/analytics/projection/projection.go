// Package projection extrapolates monthly SKU volume forward and estimates the packaging the
// projected orders will need.
package projection

import (
	"fmt"
	"math"

	"github.com/angelmondragon/orderlens/internal/analytics/aggregate"
	"github.com/angelmondragon/orderlens/internal/analytics/packaging"
	"github.com/angelmondragon/orderlens/internal/analytics/periods"
	"github.com/angelmondragon/orderlens/internal/analytics/skus"
	"github.com/angelmondragon/orderlens/internal/analytics/types"
)

const (
	// DefaultHorizon is the number of months projected when no horizon is given.
	DefaultHorizon = 3
	// DefaultSyntheticLimit caps how many orders Synthetic materializes when no limit is given.
	DefaultSyntheticLimit = 10000
	// maxProjectedQuantity caps projected quantities and order counts so that sums over
	// millions of SKUs stay inside int64.
	maxProjectedQuantity = 1 << 40
)

// History is the observed monthly series a projection extends.
type History struct {
	Months  []string
	ByMonth map[string][]types.LineItem
	// SKUs lists base SKUs in first-seen order.
	SKUs []string
	// SKUAverages is the mean monthly quantity of each SKU, counting months without sales as 0.
	SKUAverages map[string]float64
	// Series holds one historical row per observed month.
	Series []types.Prediction

	totals map[string]int
	lines  map[string]int
}

// BuildHistory buckets items by month. Items with unparseable dates are ignored.
func BuildHistory(items []types.LineItem) History {
	monthly := aggregate.GroupByMonth(items)
	h := History{
		Months:      monthly.Months,
		ByMonth:     monthly.ByMonth,
		SKUAverages: map[string]float64{},
		totals:      map[string]int{},
		lines:       map[string]int{},
	}

	seen := map[string]struct{}{}
	for _, item := range items {
		if _, err := periods.ParseDate(item.Date); err != nil {
			continue
		}
		if _, ok := seen[item.BaseSKU]; !ok {
			seen[item.BaseSKU] = struct{}{}
			h.SKUs = append(h.SKUs, item.BaseSKU)
		}
		h.totals[item.BaseSKU] += item.Quantity
		h.lines[item.BaseSKU]++
	}

	if len(h.Months) == 0 {
		return h
	}
	for _, sku := range h.SKUs {
		h.SKUAverages[sku] = float64(h.totals[sku]) / float64(len(h.Months))
	}
	for _, month := range h.Months {
		monthItems := h.ByMonth[month]
		quantities := make(map[string]int, len(h.SKUs))
		for _, sku := range h.SKUs {
			quantities[sku] = 0
		}
		for _, item := range monthItems {
			quantities[item.BaseSKU] += item.Quantity
		}
		result := packaging.Compute(monthItems)
		h.Series = append(h.Series, types.Prediction{
			Month:         month,
			SKUQuantities: quantities,
			Packaging:     result.Requirement,
			OrderSizes:    result.Sizes,
			TotalOrders:   aggregate.DistinctOrders(monthItems),
			Historical:    true,
		})
	}
	return h
}

// lastMonthQuantity is the quantity of sku sold in the most recent observed month.
func (h History) lastMonthQuantity(sku string) int {
	last := h.Series[len(h.Series)-1]
	return last.SKUQuantities[sku]
}

// averageOrdersPerMonth is the rounded mean of distinct orders per observed month.
func (h History) averageOrdersPerMonth() int {
	total := 0
	for _, row := range h.Series {
		total += row.TotalOrders
	}
	return int(math.Round(float64(total) / float64(len(h.Series))))
}

// AveragePerOrder is the rounded mean quantity of sku per order line, at least 1.
func (h History) AveragePerOrder(sku string) int {
	lines := h.lines[sku]
	if lines == 0 {
		return 1
	}
	avg := int(math.Round(float64(h.totals[sku]) / float64(lines)))
	if avg < 1 {
		return 1
	}
	return avg
}

// Project extends h by horizon months. Month i carries the last observed month's quantity of
// every SKU scaled by growthRate^i. A growth rate of 1 is flat. Each predicted quantity is split
// into orders of about the historical size per line, and the packaging of those orders is counted
// without materializing them, so the cost does not depend on the projected volume.
// Empty history yields no predictions.
func Project(h History, growthRate float64, horizon int) []types.Prediction {
	if len(h.Series) == 0 {
		return nil
	}
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	lastMonth := h.Months[len(h.Months)-1]
	avgOrders := h.averageOrdersPerMonth()

	predictions := make([]types.Prediction, 0, horizon)
	for i := 1; i <= horizon; i++ {
		month, err := periods.AddMonths(lastMonth, i)
		if err != nil {
			// Month keys come from MonthKey and always parse.
			break
		}
		factor := math.Pow(growthRate, float64(i))

		quantities := make(map[string]int, len(h.SKUs))
		var result types.PackagingResult
		synthetic := 0
		for _, sku := range h.SKUs {
			qty := scale(h.lastMonthQuantity(sku), factor)
			quantities[sku] = qty
			if qty == 0 {
				continue
			}
			split := splitOrders(qty, h.AveragePerOrder(sku))
			bottle := skus.IsBottle(sku)
			packaging.AddN(&result, packaging.Classify(split.base+1, bottle), split.remainder)
			packaging.AddN(&result, packaging.Classify(split.base, bottle), split.count-split.remainder)
			synthetic = addCapped(synthetic, split.count)
		}

		totalOrders := scale(avgOrders, factor)
		if synthetic > totalOrders {
			totalOrders = synthetic
		}
		predictions = append(predictions, types.Prediction{
			Month:         month,
			SKUQuantities: quantities,
			Packaging:     result.Requirement,
			OrderSizes:    result.Sizes,
			TotalOrders:   totalOrders,
		})
	}
	return predictions
}

// scale returns round(max(0, n*factor)), capped at maxProjectedQuantity.
func scale(n int, factor float64) int {
	v := math.Round(math.Max(0, float64(n)*factor))
	if math.IsNaN(v) || v >= maxProjectedQuantity {
		return maxProjectedQuantity
	}
	return int(v)
}

func addCapped(a, b int) int {
	if a > maxProjectedQuantity-b {
		return maxProjectedQuantity
	}
	return a + b
}

// orderSplit describes qty divided into count single-line orders: remainder orders of base+1
// items followed by count-remainder orders of base items.
type orderSplit struct {
	count     int
	base      int
	remainder int
}

func splitOrders(qty, perOrder int) orderSplit {
	count := (qty + perOrder - 1) / perOrder
	return orderSplit{count: count, base: qty / count, remainder: qty % count}
}

// Synthetic materializes the orders a prediction was packaged from, ids `pred-<month>-<seq>`
// continuing across SKUs. At most limit orders are built; a non-positive limit means
// DefaultSyntheticLimit. complete reports whether every order fit.
func Synthetic(h History, p types.Prediction, limit int) (orders []types.LineItem, complete bool) {
	if limit <= 0 {
		limit = DefaultSyntheticLimit
	}
	date := p.Month + "-01"
	for _, sku := range h.SKUs {
		qty := p.SKUQuantities[sku]
		if qty <= 0 {
			continue
		}
		split := splitOrders(qty, h.AveragePerOrder(sku))
		for j := 0; j < split.count; j++ {
			if len(orders) == limit {
				return orders, false
			}
			size := split.base
			if j < split.remainder {
				size++
			}
			orders = append(orders, types.LineItem{
				OrderNumber: fmt.Sprintf("pred-%s-%d", p.Month, len(orders)),
				BaseSKU:     sku,
				Quantity:    size,
				Date:        date,
			})
		}
	}
	return orders, true
}
