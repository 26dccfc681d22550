package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/orderlens/internal/analytics/periods"
	"github.com/angelmondragon/orderlens/internal/analytics/types"
	"github.com/angelmondragon/orderlens/pkg/enums"
	pkgerrors "github.com/angelmondragon/orderlens/pkg/errors"
)

func sampleItems() []types.LineItem {
	return []types.LineItem{
		{OrderNumber: "A", BaseSKU: "X", Quantity: 2, Date: "2024-02-28"},
		{OrderNumber: "A", BaseSKU: "Y", Quantity: 1, Date: "2024-02-28"},
		{OrderNumber: "B", BaseSKU: "X", Quantity: 4, Date: "01/03/2024"},
		{OrderNumber: "C", BaseSKU: "Z", Quantity: 3, Date: "2024-03-15"},
		{OrderNumber: "D", BaseSKU: "X", Quantity: 1, Date: "bogus"},
		{OrderNumber: "E", BaseSKU: "Y", Quantity: 5, Date: "2024-04-02"},
	}
}

func TestFilterByMonthReturnsExactSubset(t *testing.T) {
	items := sampleItems()
	var skipped []types.Diagnostic
	got := FilterByPeriod(items, enums.PeriodMonth, "2024-03", nil, OnSkip(func(d types.Diagnostic) {
		skipped = append(skipped, d)
	}))

	require.Len(t, got, 2)
	for _, item := range got {
		date, err := periods.ParseDate(item.Date)
		require.NoError(t, err)
		assert.Equal(t, "2024-03", periods.MonthKey(date))
	}
	require.Len(t, skipped, 1)
	assert.Equal(t, 5, skipped[0].Row)
	assert.NotEmpty(t, skipped[0].Reason)
}

func TestFilterByOtherGranularities(t *testing.T) {
	items := sampleItems()
	assert.Len(t, FilterByPeriod(items, enums.PeriodQuarter, "2024-Q1", nil), 4)
	assert.Len(t, FilterByPeriod(items, enums.PeriodYear, "2024", nil), 5)
	assert.Len(t, FilterByPeriod(items, enums.PeriodWeek, "2024-02-26", nil), 3)
	assert.Empty(t, FilterByPeriod(items, enums.PeriodType("fortnight"), "2024-03", nil))
}

func TestFilterByCustomRangeIsInclusive(t *testing.T) {
	items := sampleItems()
	got := FilterByPeriod(items, enums.PeriodCustom, "", &types.DateRange{Start: "28/02/2024", End: "2024-03-15"})
	require.Len(t, got, 4)

	assert.Empty(t, FilterByPeriod(items, enums.PeriodCustom, "", nil))
	assert.Empty(t, FilterByPeriod(items, enums.PeriodCustom, "", &types.DateRange{Start: "nope", End: "2024-03-15"}))
	assert.Empty(t, FilterByPeriod(items, enums.PeriodCustom, "", &types.DateRange{Start: "2024-03-15", End: "2024-03-01"}))
}

func TestFilterWorksOnRawRecords(t *testing.T) {
	records := []types.OrderRecord{
		{OrderNumber: "A", SKU: "X_2", Quantity: 1, Date: "2024-03-01"},
		{OrderNumber: "B", SKU: "X", Quantity: 1, Date: "2024-04-01"},
	}
	got := FilterByPeriod(records, enums.PeriodMonth, "2024-04", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].OrderNumber)
}

func TestFilterSelection(t *testing.T) {
	items := sampleItems()
	first, second := FilterSelection(items, types.PeriodSelection{Type: enums.PeriodMonth, Period1: "2024-02", Period2: "2024-03"})
	assert.Len(t, first, 2)
	assert.Len(t, second, 2)

	first, second = FilterSelection(items, types.PeriodSelection{
		Type: enums.PeriodCustom,
		CustomRange: &types.CustomRange{
			Start1: "2024-02-01", End1: "2024-02-29",
			Start2: "2024-03-01", End2: "2024-04-30",
		},
	})
	assert.Len(t, first, 2)
	assert.Len(t, second, 3)

	first, second = FilterSelection(items, types.PeriodSelection{Type: enums.PeriodCustom})
	assert.Empty(t, first)
	assert.Empty(t, second)
}

func TestFilterSelectionMixedGranularity(t *testing.T) {
	items := sampleItems()
	first, second := FilterSelection(items, types.PeriodSelection{
		Type: enums.PeriodMonth, Period1: "2024-04",
		Type2: enums.PeriodQuarter, Period2: "2024-Q1",
	})
	assert.Len(t, first, 1)
	assert.Len(t, second, 4)

	// Custom selections use their ranges on both sides whatever Type2 says.
	first, second = FilterSelection(items, types.PeriodSelection{
		Type: enums.PeriodCustom, Type2: enums.PeriodYear,
		CustomRange: &types.CustomRange{
			Start1: "2024-02-01", End1: "2024-02-29",
			Start2: "2024-03-01", End2: "2024-03-31",
		},
	})
	assert.Len(t, first, 2)
	assert.Len(t, second, 2)
}

func TestComputeMetrics(t *testing.T) {
	assert.Equal(t, types.PeriodMetrics{}, ComputeMetrics(nil))

	items := sampleItems()[:4]
	got := ComputeMetrics(items)
	assert.Equal(t, 3, got.TotalOrders)
	assert.Equal(t, 10, got.TotalItems)
	assert.InDelta(t, 10.0/3.0, got.AverageOrderSize, 1e-9)
	assert.Equal(t, 3, got.UniqueSKUs)
}

func TestAvailablePeriodsSortedAndDistinct(t *testing.T) {
	got := AvailablePeriods(sampleItems())
	assert.Equal(t, []string{"2024-02", "2024-03", "2024-04"}, got.Months)
	assert.Equal(t, []string{"2024-Q1", "2024-Q2"}, got.Quarters)
	assert.Equal(t, []string{"2024"}, got.Years)
	assert.Equal(t, []string{"2024-02-26", "2024-03-11", "2024-04-01"}, got.Weeks)

	empty := AvailablePeriods([]types.LineItem{})
	assert.Empty(t, empty.Months)
}

func TestInitialSelection(t *testing.T) {
	sel, ok := InitialSelection(sampleItems())
	require.True(t, ok)
	assert.Equal(t, enums.PeriodMonth, sel.Type)
	assert.Equal(t, "2024-03", sel.Period1)
	assert.Equal(t, "2024-04", sel.Period2)

	_, ok = InitialSelection(sampleItems()[2:4])
	assert.False(t, ok)
}

func TestSelectionForType(t *testing.T) {
	available := AvailablePeriods(sampleItems())
	sel, ok := SelectionForType(available, enums.PeriodQuarter)
	require.True(t, ok)
	assert.Equal(t, "2024-Q1", sel.Period1)
	assert.Equal(t, "2024-Q2", sel.Period2)

	_, ok = SelectionForType(available, enums.PeriodYear)
	assert.False(t, ok)
	_, ok = SelectionForType(available, enums.PeriodCustom)
	assert.False(t, ok)
}

func TestGroupByMonthAndTotals(t *testing.T) {
	grouped := GroupByMonth(sampleItems())
	assert.Equal(t, []string{"2024-02", "2024-03", "2024-04"}, grouped.Months)
	assert.Len(t, grouped.ByMonth["2024-03"], 2)
	last, ok := grouped.Last()
	require.True(t, ok)
	assert.Equal(t, "2024-04", last)

	totals, order := SKUTotals(sampleItems())
	assert.Equal(t, []string{"X", "Y", "Z"}, order)
	assert.Equal(t, map[string]int{"X": 7, "Y": 6, "Z": 3}, totals)
	assert.Equal(t, 5, DistinctOrders(sampleItems()))
}

func TestValidateCustomRange(t *testing.T) {
	valid := types.CustomRange{Start1: "2024-01-01", End1: "2024-01-31", Start2: "01/02/2024", End2: "2024-02-29"}
	require.NoError(t, ValidateCustomRange(valid))

	single := types.CustomRange{Start1: "2024-01-01", End1: "2024-01-01", Start2: "2024-01-02", End2: "2024-01-02"}
	require.NoError(t, ValidateCustomRange(single))

	overlapping := valid
	overlapping.Start2 = "2024-01-31"
	err := ValidateCustomRange(overlapping)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	reversed := valid
	reversed.Start1 = "2024-02-01"
	assert.Error(t, ValidateCustomRange(reversed))

	badDate := valid
	badDate.End2 = "2024-02-30"
	err = ValidateCustomRange(badDate)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidDate))
}
