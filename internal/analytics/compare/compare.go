// Package compare builds the side-by-side analytics of two periods.
package compare

import (
	"sort"
	"time"

	"github.com/angelmondragon/orderlens/internal/analytics/aggregate"
	"github.com/angelmondragon/orderlens/internal/analytics/packaging"
	"github.com/angelmondragon/orderlens/internal/analytics/periods"
	"github.com/angelmondragon/orderlens/internal/analytics/types"
)

const (
	// DefaultTopSKUs is the length of dashboard rankings.
	DefaultTopSKUs = 5
	// DefaultComparisonSKUs is the length of the side-by-side product table.
	DefaultComparisonSKUs = 10
)

// Options sizes the rankings of a comparison report. Zero values fall back to the defaults.
type Options struct {
	TopSKUs        int
	ComparisonSKUs int
}

func (o Options) withDefaults() Options {
	if o.TopSKUs <= 0 {
		o.TopSKUs = DefaultTopSKUs
	}
	if o.ComparisonSKUs <= 0 {
		o.ComparisonSKUs = DefaultComparisonSKUs
	}
	return o
}

// PercentChange returns (b-a)/a*100, or 0 when a is 0.
func PercentChange(a, b float64) float64 {
	if a == 0 {
		return 0
	}
	return (b - a) / a * 100
}

// Deltas computes the percent change of every metric from m1 to m2.
func Deltas(m1, m2 types.PeriodMetrics) types.MetricDeltas {
	return types.MetricDeltas{
		TotalOrders:      PercentChange(float64(m1.TotalOrders), float64(m2.TotalOrders)),
		TotalItems:       PercentChange(float64(m1.TotalItems), float64(m2.TotalItems)),
		AverageOrderSize: PercentChange(m1.AverageOrderSize, m2.AverageOrderSize),
		UniqueSKUs:       PercentChange(float64(m1.UniqueSKUs), float64(m2.UniqueSKUs)),
	}
}

// TopSKUs ranks base SKUs by total quantity, descending. Ties keep first-encountered order.
// n <= 0 returns the full ranking.
func TopSKUs(items []types.LineItem, n int) []types.SKUQuantity {
	totals, order := aggregate.SKUTotals(items)
	ranked := make([]types.SKUQuantity, 0, len(order))
	for _, sku := range order {
		ranked = append(ranked, types.SKUQuantity{SKU: sku, Quantity: totals[sku]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Quantity > ranked[j].Quantity
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ProductComparison lines up per-SKU quantities and line counts of both periods, keeping the n
// SKUs with the largest combined quantity.
func ProductComparison(items1, items2 []types.LineItem, n int) []types.ProductComparisonRow {
	rows := map[string]*types.ProductComparisonRow{}
	var order []string
	row := func(sku string) *types.ProductComparisonRow {
		r, ok := rows[sku]
		if !ok {
			r = &types.ProductComparisonRow{SKU: sku}
			rows[sku] = r
			order = append(order, sku)
		}
		return r
	}
	for _, item := range items1 {
		r := row(item.BaseSKU)
		r.Period1Quantity += item.Quantity
		r.Period1Lines++
	}
	for _, item := range items2 {
		r := row(item.BaseSKU)
		r.Period2Quantity += item.Quantity
		r.Period2Lines++
	}

	out := make([]types.ProductComparisonRow, 0, len(order))
	for _, sku := range order {
		out = append(out, *rows[sku])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Period1Quantity+out[i].Period2Quantity > out[j].Period1Quantity+out[j].Period2Quantity
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// orderTotals folds items into per-order aggregates in first-seen order.
func orderTotals(items []types.LineItem) []types.OrderAggregate {
	index := map[string]int{}
	var out []types.OrderAggregate
	latest := map[string]time.Time{}
	for _, item := range items {
		i, ok := index[item.OrderNumber]
		if !ok {
			i = len(out)
			index[item.OrderNumber] = i
			out = append(out, types.OrderAggregate{OrderNumber: item.OrderNumber})
		}
		out[i].TotalItems += item.Quantity
		out[i].Lines++
		date, err := periods.ParseDate(item.Date)
		if err != nil {
			continue
		}
		if prev, seen := latest[item.OrderNumber]; !seen || date.After(prev) {
			latest[item.OrderNumber] = date
			out[i].LastOrderDate = periods.FormatDate(date)
		}
	}
	return out
}

// OrderSizeDistribution buckets distinct orders by total quantity: up to 2, 3 to 5, 6 to 10 and
// above 10.
func OrderSizeDistribution(items []types.LineItem) types.OrderSizeDistribution {
	var dist types.OrderSizeDistribution
	for _, order := range orderTotals(items) {
		switch size := order.TotalItems; {
		case size <= 2:
			dist.OneToTwo++
		case size <= 5:
			dist.ThreeToFive++
		case size <= 10:
			dist.SixToTen++
		default:
			dist.ElevenPlus++
		}
	}
	return dist
}

// OrderStats reports the average and largest order size.
func OrderStats(items []types.LineItem) types.OrderStats {
	orders := orderTotals(items)
	if len(orders) == 0 {
		return types.OrderStats{}
	}
	var stats types.OrderStats
	total := 0
	for _, order := range orders {
		total += order.TotalItems
		if order.TotalItems > stats.MaxSize {
			stats.MaxSize = order.TotalItems
		}
	}
	stats.TotalOrders = len(orders)
	stats.AverageSize = float64(total) / float64(len(orders))
	return stats
}

// Customers treats each order number as a customer. Orders are listed largest first.
func Customers(items []types.LineItem) types.CustomerMetrics {
	orders := orderTotals(items)
	if len(orders) == 0 {
		return types.CustomerMetrics{}
	}
	total := 0
	for _, order := range orders {
		total += order.TotalItems
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].TotalItems > orders[j].TotalItems
	})
	return types.CustomerMetrics{
		TotalCustomers:    len(orders),
		AverageOrderValue: float64(total) / float64(len(orders)),
		TotalItems:        total,
		Orders:            orders,
	}
}

// CustomerGrowth is the percent change in customers from c1 to c2.
func CustomerGrowth(c1, c2 types.CustomerMetrics) float64 {
	return PercentChange(float64(c1.TotalCustomers), float64(c2.TotalCustomers))
}

// Summarize computes the dashboard headline. Month over month growth compares the line counts of
// the two most recent months and is 0 without a prior month.
func Summarize(items []types.LineItem) types.Summary {
	if len(items) == 0 {
		return types.Summary{TopSKUs: []types.SKUQuantity{}}
	}
	stats := OrderStats(items)
	summary := types.Summary{
		TotalOrders:      stats.TotalOrders,
		AverageOrderSize: stats.AverageSize,
		TopSKUs:          TopSKUs(items, DefaultTopSKUs),
	}
	monthly := aggregate.GroupByMonth(items)
	if n := len(monthly.Months); n >= 2 {
		last := len(monthly.ByMonth[monthly.Months[n-1]])
		prev := len(monthly.ByMonth[monthly.Months[n-2]])
		summary.MonthOverMonthGrowth = PercentChange(float64(prev), float64(last))
	}
	return summary
}

// Period computes every panel for one side of a comparison.
func Period(label, display string, items []types.LineItem, topSKUs int) types.PeriodReport {
	return types.PeriodReport{
		Label:        label,
		DisplayLabel: display,
		Metrics:      aggregate.ComputeMetrics(items),
		TopSKUs:      TopSKUs(items, topSKUs),
		Distribution: OrderSizeDistribution(items),
		OrderStats:   OrderStats(items),
		Customers:    Customers(items),
		Packaging:    packaging.Compute(items),
	}
}

// Build assembles the full comparison of items1 and items2, which the caller has already
// filtered to the two sides of sel.
func Build(sel types.PeriodSelection, items1, items2 []types.LineItem, opts Options) types.ComparisonReport {
	opts = opts.withDefaults()
	label1, display1, label2, display2 := periods.Labels(sel)
	p1 := Period(label1, display1, items1, opts.TopSKUs)
	p2 := Period(label2, display2, items2, opts.TopSKUs)
	return types.ComparisonReport{
		Selection:      sel,
		Period1:        p1,
		Period2:        p2,
		Deltas:         Deltas(p1.Metrics, p2.Metrics),
		CustomerGrowth: CustomerGrowth(p1.Customers, p2.Customers),
		Products:       ProductComparison(items1, items2, opts.ComparisonSKUs),
	}
}
