package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/orderlens/internal/analytics/packaging"
	"github.com/angelmondragon/orderlens/internal/analytics/types"
)

func historyItems() []types.LineItem {
	return []types.LineItem{
		{OrderNumber: "A", BaseSKU: "X", Quantity: 4, Date: "2024-01-10"},
		{OrderNumber: "B", BaseSKU: "X", Quantity: 3, Date: "2024-02-03"},
		{OrderNumber: "C", BaseSKU: "X", Quantity: 3, Date: "2024-02-04"},
		{OrderNumber: "C", BaseSKU: "Y", Quantity: 2, Date: "04/02/2024"},
		{OrderNumber: "D", BaseSKU: "Z", Quantity: 1, Date: "not a date"},
	}
}

func TestBuildHistory(t *testing.T) {
	h := BuildHistory(historyItems())
	assert.Equal(t, []string{"2024-01", "2024-02"}, h.Months)
	assert.Equal(t, []string{"X", "Y"}, h.SKUs)
	assert.InDelta(t, 5.0, h.SKUAverages["X"], 1e-9)
	assert.InDelta(t, 1.0, h.SKUAverages["Y"], 1e-9)

	require.Len(t, h.Series, 2)
	jan := h.Series[0]
	assert.True(t, jan.Historical)
	assert.Equal(t, map[string]int{"X": 4, "Y": 0}, jan.SKUQuantities)
	assert.Equal(t, 1, jan.TotalOrders)
	assert.Equal(t, types.PackagingRequirement{Envelopes: 1}, jan.Packaging)

	feb := h.Series[1]
	assert.Equal(t, 2, feb.TotalOrders)
	assert.Equal(t, types.PackagingRequirement{Envelopes: 1, SixMonthBoxes: 1}, feb.Packaging)
	assert.Equal(t, types.OrderSizes{Small: 1, Medium: 1}, feb.OrderSizes)

	assert.Equal(t, 3, h.AveragePerOrder("X"))
	assert.Equal(t, 2, h.AveragePerOrder("Y"))
	assert.Equal(t, 1, h.AveragePerOrder("missing"))
}

func TestProjectFlatGrowthCarriesLastMonthForward(t *testing.T) {
	h := BuildHistory(historyItems())
	got := Project(h, 1, 3)
	require.Len(t, got, 3)

	months := []string{"2024-03", "2024-04", "2024-05"}
	for i, p := range got {
		assert.Equal(t, months[i], p.Month)
		assert.False(t, p.Historical)
		assert.Equal(t, 6, p.SKUQuantities["X"])
		assert.Equal(t, 2, p.SKUQuantities["Y"])
		// X splits into two orders of 3, Y into one order of 2.
		assert.Equal(t, types.PackagingRequirement{Envelopes: 3}, p.Packaging)
		assert.Equal(t, 3, p.TotalOrders)
	}
}

func TestProjectCompoundsGrowth(t *testing.T) {
	h := BuildHistory(historyItems())
	got := Project(h, 1.5, 3)
	require.Len(t, got, 3)

	assert.Equal(t, 9, got[0].SKUQuantities["X"])
	assert.Equal(t, 3, got[0].SKUQuantities["Y"])
	assert.Equal(t, 14, got[1].SKUQuantities["X"])
	assert.Equal(t, 5, got[1].SKUQuantities["Y"])
	assert.Equal(t, 20, got[2].SKUQuantities["X"])
	assert.Equal(t, 7, got[2].SKUQuantities["Y"])

	for _, p := range got {
		assert.GreaterOrEqual(t, p.TotalOrders, p.Packaging.Total())
	}
}

func TestProjectShrinkingVolumeFloorsAtZero(t *testing.T) {
	h := BuildHistory(historyItems())
	got := Project(h, 0.1, 2)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].SKUQuantities["X"])
	assert.Equal(t, 0, got[0].SKUQuantities["Y"])
	assert.Equal(t, 0, got[1].SKUQuantities["X"])
	assert.Equal(t, 0, got[1].Packaging.Total())
	assert.Equal(t, 0, got[1].TotalOrders)
}

func TestProjectDefaultsAndEmptyHistory(t *testing.T) {
	assert.Nil(t, Project(BuildHistory(nil), 1, 3))

	h := BuildHistory([]types.LineItem{{OrderNumber: "A", BaseSKU: "X", Quantity: 1, Date: "2024-12-31"}})
	got := Project(h, 1, 0)
	require.Len(t, got, DefaultHorizon)
	assert.Equal(t, "2025-01", got[0].Month)
	assert.Equal(t, "2025-03", got[2].Month)
}

func TestSplitOrders(t *testing.T) {
	assert.Equal(t, orderSplit{count: 4, base: 2, remainder: 2}, splitOrders(10, 3))
	assert.Equal(t, orderSplit{count: 1, base: 1, remainder: 0}, splitOrders(1, 5))
	assert.Equal(t, orderSplit{count: 3, base: 3, remainder: 0}, splitOrders(9, 3))
}

func TestSyntheticOrdersSumToQuantity(t *testing.T) {
	h := BuildHistory([]types.LineItem{
		{OrderNumber: "A", BaseSKU: "X", Quantity: 3, Date: "2024-02-01"},
		{OrderNumber: "B", BaseSKU: "Y", Quantity: 5, Date: "2024-02-02"},
	})
	p := types.Prediction{Month: "2024-03", SKUQuantities: map[string]int{"X": 10, "Y": 1}}

	orders, complete := Synthetic(h, p, 0)
	require.True(t, complete)
	require.Len(t, orders, 5)
	sizes := []int{}
	for i, order := range orders {
		sizes = append(sizes, order.Quantity)
		assert.Equal(t, "2024-03-01", order.Date)
		assert.Equal(t, []string{"pred-2024-03-0", "pred-2024-03-1", "pred-2024-03-2", "pred-2024-03-3", "pred-2024-03-4"}[i], order.OrderNumber)
	}
	assert.Equal(t, []int{3, 3, 2, 2, 1}, sizes)
	assert.Equal(t, "Y", orders[4].BaseSKU)

	orders, complete = Synthetic(h, p, 2)
	assert.False(t, complete)
	assert.Len(t, orders, 2)
}

func TestProjectPackagingMatchesSyntheticOrders(t *testing.T) {
	items := append(historyItems(),
		types.LineItem{OrderNumber: "E", BaseSKU: "NB-BTL-1", Quantity: 1, Date: "2024-02-10"},
		types.LineItem{OrderNumber: "F", BaseSKU: "W", Quantity: 7, Date: "2024-02-11"},
	)
	h := BuildHistory(items)
	for _, p := range Project(h, 1.7, 4) {
		orders, complete := Synthetic(h, p, 0)
		require.True(t, complete)
		want := packaging.Compute(orders)
		assert.Equal(t, want.Requirement, p.Packaging, p.Month)
		assert.Equal(t, want.Sizes, p.OrderSizes, p.Month)
		assert.GreaterOrEqual(t, p.TotalOrders, len(orders))
	}
}

func TestProjectLargestAcceptedInputsStayCheap(t *testing.T) {
	h := BuildHistory([]types.LineItem{{OrderNumber: "A", BaseSKU: "X", Quantity: 1, Date: "2024-03-01"}})
	got := Project(h, 10, 12)
	require.Len(t, got, 12)

	last := got[11]
	assert.Equal(t, "2025-03", last.Month)
	assert.Equal(t, 1_000_000_000_000, last.SKUQuantities["X"])
	assert.Equal(t, 1_000_000_000_000, last.Packaging.Envelopes)
	assert.Equal(t, 1_000_000_000_000, last.TotalOrders)
}

func TestProjectCapsHugeQuantities(t *testing.T) {
	h := BuildHistory([]types.LineItem{{OrderNumber: "A", BaseSKU: "X", Quantity: 1 << 50, Date: "2024-03-01"}})
	got := Project(h, 10, 12)
	require.Len(t, got, 12)
	for _, p := range got {
		assert.Equal(t, maxProjectedQuantity, p.SKUQuantities["X"])
		assert.LessOrEqual(t, p.TotalOrders, maxProjectedQuantity)
		assert.GreaterOrEqual(t, p.Packaging.Total(), 1)
	}
}
