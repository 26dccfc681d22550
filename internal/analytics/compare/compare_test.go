package compare

import (
	"math"
	"testing"

	"github.com/angelmondragon/orderlens/internal/analytics/types"
	"github.com/angelmondragon/orderlens/pkg/enums"
)

func TestPercentChangeFloorsZeroBaseline(t *testing.T) {
	if got := PercentChange(0, 50); got != 0 {
		t.Fatalf("expected 0 for zero baseline, got %v", got)
	}
	if got := PercentChange(0, 0); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := PercentChange(50, 75); got != 50 {
		t.Fatalf("expected 50, got %v", got)
	}
	if got := PercentChange(4, 1); got != -75 {
		t.Fatalf("expected -75, got %v", got)
	}
}

func TestDeltasNeverInfinite(t *testing.T) {
	d := Deltas(types.PeriodMetrics{}, types.PeriodMetrics{TotalOrders: 3, TotalItems: 9, AverageOrderSize: 3, UniqueSKUs: 2})
	for name, v := range map[string]float64{
		"orders":  d.TotalOrders,
		"items":   d.TotalItems,
		"average": d.AverageOrderSize,
		"skus":    d.UniqueSKUs,
	} {
		if v != 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			t.Fatalf("%s delta = %v, want 0", name, v)
		}
	}
}

func TestTopSKUsStableRanking(t *testing.T) {
	items := []types.LineItem{
		{OrderNumber: "1", BaseSKU: "B", Quantity: 3},
		{OrderNumber: "1", BaseSKU: "A", Quantity: 3},
		{OrderNumber: "2", BaseSKU: "C", Quantity: 5},
		{OrderNumber: "3", BaseSKU: "D", Quantity: 1},
		{OrderNumber: "3", BaseSKU: "A", Quantity: 1},
	}
	got := TopSKUs(items, 3)
	want := []types.SKUQuantity{{SKU: "C", Quantity: 5}, {SKU: "A", Quantity: 4}, {SKU: "B", Quantity: 3}}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rank %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	tied := TopSKUs([]types.LineItem{
		{BaseSKU: "Z", Quantity: 2},
		{BaseSKU: "Y", Quantity: 2},
		{BaseSKU: "X", Quantity: 2},
	}, 0)
	if tied[0].SKU != "Z" || tied[1].SKU != "Y" || tied[2].SKU != "X" {
		t.Fatalf("ties must keep first-encountered order, got %+v", tied)
	}
}

func TestProductComparison(t *testing.T) {
	p1 := []types.LineItem{
		{OrderNumber: "1", BaseSKU: "A", Quantity: 2},
		{OrderNumber: "2", BaseSKU: "A", Quantity: 1},
		{OrderNumber: "2", BaseSKU: "B", Quantity: 1},
	}
	p2 := []types.LineItem{
		{OrderNumber: "3", BaseSKU: "C", Quantity: 10},
		{OrderNumber: "4", BaseSKU: "A", Quantity: 4},
	}
	got := ProductComparison(p1, p2, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].SKU != "C" || got[0].Period1Quantity != 0 || got[0].Period2Quantity != 10 {
		t.Fatalf("unexpected first row %+v", got[0])
	}
	want := types.ProductComparisonRow{SKU: "A", Period1Quantity: 3, Period2Quantity: 4, Period1Lines: 2, Period2Lines: 1}
	if got[1] != want {
		t.Fatalf("expected %+v, got %+v", want, got[1])
	}
}

func TestOrderSizeDistributionBoundaries(t *testing.T) {
	var items []types.LineItem
	for i, size := range []int{0, 2, 3, 5, 6, 10, 11, 40} {
		items = append(items, types.LineItem{OrderNumber: string(rune('a' + i)), BaseSKU: "X", Quantity: size})
	}
	// same order split across two lines
	items = append(items,
		types.LineItem{OrderNumber: "z", BaseSKU: "X", Quantity: 1},
		types.LineItem{OrderNumber: "z", BaseSKU: "Y", Quantity: 2},
	)

	got := OrderSizeDistribution(items)
	want := types.OrderSizeDistribution{OneToTwo: 2, ThreeToFive: 3, SixToTen: 2, ElevenPlus: 2}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if got.Total() != 9 {
		t.Fatalf("expected every order bucketed once, got %d", got.Total())
	}
}

func TestOrderStatsAndCustomers(t *testing.T) {
	if got := OrderStats(nil); got != (types.OrderStats{}) {
		t.Fatalf("expected zero stats, got %+v", got)
	}
	items := []types.LineItem{
		{OrderNumber: "A", BaseSKU: "X", Quantity: 1, Date: "2024-03-01"},
		{OrderNumber: "A", BaseSKU: "Y", Quantity: 2, Date: "05/03/2024"},
		{OrderNumber: "B", BaseSKU: "X", Quantity: 6, Date: "2024-03-02"},
	}
	stats := OrderStats(items)
	if stats.TotalOrders != 2 || stats.MaxSize != 6 || stats.AverageSize != 4.5 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	customers := Customers(items)
	if customers.TotalCustomers != 2 || customers.TotalItems != 9 || customers.AverageOrderValue != 4.5 {
		t.Fatalf("unexpected customers %+v", customers)
	}
	if customers.Orders[0].OrderNumber != "B" {
		t.Fatalf("expected largest order first, got %+v", customers.Orders)
	}
	a := customers.Orders[1]
	if a.Lines != 2 || a.TotalItems != 3 || a.LastOrderDate != "2024-03-05" {
		t.Fatalf("unexpected aggregate for A: %+v", a)
	}

	growth := CustomerGrowth(types.CustomerMetrics{TotalCustomers: 2}, customers)
	if growth != 0 {
		t.Fatalf("expected flat growth, got %v", growth)
	}
	if got := Customers(nil); got.TotalCustomers != 0 || got.Orders != nil {
		t.Fatalf("expected empty customers, got %+v", got)
	}
}

func TestSummarize(t *testing.T) {
	empty := Summarize(nil)
	if empty.TotalOrders != 0 || empty.MonthOverMonthGrowth != 0 || len(empty.TopSKUs) != 0 {
		t.Fatalf("unexpected empty summary %+v", empty)
	}

	items := []types.LineItem{
		{OrderNumber: "A", BaseSKU: "X", Quantity: 2, Date: "2024-02-10"},
		{OrderNumber: "A", BaseSKU: "Y", Quantity: 2, Date: "2024-02-10"},
		{OrderNumber: "B", BaseSKU: "X", Quantity: 1, Date: "2024-03-01"},
		{OrderNumber: "C", BaseSKU: "Z", Quantity: 1, Date: "2024-03-02"},
		{OrderNumber: "D", BaseSKU: "Z", Quantity: 2, Date: "2024-03-03"},
	}
	got := Summarize(items)
	if got.TotalOrders != 4 {
		t.Fatalf("expected 4 orders, got %d", got.TotalOrders)
	}
	if got.AverageOrderSize != 2 {
		t.Fatalf("expected average 2, got %v", got.AverageOrderSize)
	}
	if got.MonthOverMonthGrowth != 50 {
		t.Fatalf("expected 50%% growth, got %v", got.MonthOverMonthGrowth)
	}
	if got.TopSKUs[0].SKU != "X" || got.TopSKUs[1].SKU != "Z" {
		t.Fatalf("unexpected ranking %+v", got.TopSKUs)
	}

	single := Summarize(items[:2])
	if single.MonthOverMonthGrowth != 0 {
		t.Fatalf("expected 0 growth with one month, got %v", single.MonthOverMonthGrowth)
	}
}

func TestBuildAssemblesBothPeriods(t *testing.T) {
	sel := types.PeriodSelection{Type: enums.PeriodMonth, Period1: "2024-02", Period2: "2024-03"}
	p1 := []types.LineItem{{OrderNumber: "A", BaseSKU: "X", Quantity: 4, Date: "2024-02-10"}}
	p2 := []types.LineItem{
		{OrderNumber: "B", BaseSKU: "X", Quantity: 4, Date: "2024-03-01"},
		{OrderNumber: "C", BaseSKU: "nb-btl", Quantity: 1, Date: "2024-03-02"},
	}

	report := Build(sel, p1, p2, Options{})
	if report.Period1.DisplayLabel != "February 2024" || report.Period2.DisplayLabel != "March 2024" {
		t.Fatalf("unexpected labels %q %q", report.Period1.DisplayLabel, report.Period2.DisplayLabel)
	}
	if report.Deltas.TotalOrders != 100 {
		t.Fatalf("expected orders to double, got %v", report.Deltas.TotalOrders)
	}
	if report.CustomerGrowth != 100 {
		t.Fatalf("expected customers to double, got %v", report.CustomerGrowth)
	}
	if report.Period2.Packaging.Requirement != (types.PackagingRequirement{Envelopes: 1, TwelveMonthBoxes: 1}) {
		t.Fatalf("unexpected packaging %+v", report.Period2.Packaging.Requirement)
	}
	if len(report.Products) != 2 || report.Products[0].SKU != "X" {
		t.Fatalf("unexpected products %+v", report.Products)
	}
}

func TestBuildWithEmptyPeriods(t *testing.T) {
	report := Build(types.PeriodSelection{Type: enums.PeriodWeek, Period1: "2024-03-04", Period2: "2024-03-11"}, nil, nil, Options{TopSKUs: 3})
	if report.Period1.Metrics != (types.PeriodMetrics{}) || report.Deltas != (types.MetricDeltas{}) {
		t.Fatalf("expected zero report, got %+v", report)
	}
	if len(report.Products) != 0 {
		t.Fatalf("expected no products, got %+v", report.Products)
	}
}
