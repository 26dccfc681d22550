// Package aggregate filters line items down to a period and computes the per-period metrics
// every report starts from.
package aggregate

import (
	"sort"

	"github.com/angelmondragon/orderlens/internal/analytics/periods"
	"github.com/angelmondragon/orderlens/internal/analytics/types"
	"github.com/angelmondragon/orderlens/pkg/enums"
	pkgerrors "github.com/angelmondragon/orderlens/pkg/errors"
)

// Dated is anything carrying an order date, raw records and normalized line items alike.
type Dated interface {
	OrderDate() string
}

type filterOptions struct {
	onSkip func(types.Diagnostic)
}

// Option configures FilterByPeriod.
type Option func(*filterOptions)

// OnSkip registers fn to receive a diagnostic for every item dropped because its date does not
// parse. Row is the 1-based position of the item in the input.
func OnSkip(fn func(types.Diagnostic)) Option {
	return func(o *filterOptions) {
		o.onSkip = fn
	}
}

// FilterByPeriod keeps the items whose periodType key equals value. For custom periods the
// inclusive date range r is used instead and value is ignored. A custom period without a valid
// range, or an unknown period type, keeps nothing. Items with unparseable dates are skipped.
func FilterByPeriod[T Dated](items []T, periodType enums.PeriodType, value string, r *types.DateRange, opts ...Option) []T {
	var o filterOptions
	for _, opt := range opts {
		opt(&o)
	}
	skip := func(row int, err error) {
		if o.onSkip != nil {
			o.onSkip(types.Diagnostic{Row: row, Reason: err.Error()})
		}
	}

	out := make([]T, 0)
	switch periodType {
	case enums.PeriodCustom:
		if r == nil {
			return out
		}
		start, err := periods.ParseDate(r.Start)
		if err != nil {
			return out
		}
		end, err := periods.ParseDate(r.End)
		if err != nil || end.Before(start) {
			return out
		}
		for i, item := range items {
			date, err := periods.ParseDate(item.OrderDate())
			if err != nil {
				skip(i+1, err)
				continue
			}
			if !date.Before(start) && !date.After(end) {
				out = append(out, item)
			}
		}
	case enums.PeriodWeek, enums.PeriodMonth, enums.PeriodQuarter, enums.PeriodYear:
		for i, item := range items {
			date, err := periods.ParseDate(item.OrderDate())
			if err != nil {
				skip(i+1, err)
				continue
			}
			if key, _ := periods.Key(periodType, date); key == value {
				out = append(out, item)
			}
		}
	}
	return out
}

// FilterSelection returns the two sides of sel. Items skipped on either side are reported once
// per side through opts.
func FilterSelection[T Dated](items []T, sel types.PeriodSelection, opts ...Option) ([]T, []T) {
	if sel.Type == enums.PeriodCustom {
		if sel.CustomRange == nil {
			return []T{}, []T{}
		}
		first, second := sel.CustomRange.First(), sel.CustomRange.Second()
		return FilterByPeriod(items, sel.Type, "", &first, opts...),
			FilterByPeriod(items, sel.Type, "", &second, opts...)
	}
	return FilterByPeriod(items, sel.Type, sel.Period1, nil, opts...),
		FilterByPeriod(items, sel.SecondType(), sel.Period2, nil, opts...)
}

// ComputeMetrics summarises items. Empty input yields zero metrics.
func ComputeMetrics(items []types.LineItem) types.PeriodMetrics {
	if len(items) == 0 {
		return types.PeriodMetrics{}
	}
	orders := make(map[string]struct{}, len(items))
	skus := make(map[string]struct{})
	total := 0
	for _, item := range items {
		orders[item.OrderNumber] = struct{}{}
		skus[item.BaseSKU] = struct{}{}
		total += item.Quantity
	}
	return types.PeriodMetrics{
		TotalOrders:      len(orders),
		TotalItems:       total,
		AverageOrderSize: float64(total) / float64(len(orders)),
		UniqueSKUs:       len(skus),
	}
}

// AvailablePeriods lists the distinct keys of every granularity present in items, ascending.
// Items with unparseable dates contribute nothing.
func AvailablePeriods[T Dated](items []T) types.AvailablePeriods {
	weeks := map[string]struct{}{}
	months := map[string]struct{}{}
	quarters := map[string]struct{}{}
	years := map[string]struct{}{}
	for _, item := range items {
		date, err := periods.ParseDate(item.OrderDate())
		if err != nil {
			continue
		}
		weeks[periods.WeekKey(date)] = struct{}{}
		months[periods.MonthKey(date)] = struct{}{}
		quarters[periods.QuarterKey(date)] = struct{}{}
		years[periods.YearKey(date)] = struct{}{}
	}
	return types.AvailablePeriods{
		Weeks:    sortedKeys(weeks),
		Months:   sortedKeys(months),
		Quarters: sortedKeys(quarters),
		Years:    sortedKeys(years),
	}
}

// InitialSelection compares the two most recent months. It reports false when fewer than two
// months are present.
func InitialSelection[T Dated](items []T) (*types.PeriodSelection, bool) {
	return SelectionForType(AvailablePeriods(items), enums.PeriodMonth)
}

// SelectionForType compares the two most recent keys of periodType.
func SelectionForType(available types.AvailablePeriods, periodType enums.PeriodType) (*types.PeriodSelection, bool) {
	keys := available.For(periodType)
	if len(keys) < 2 {
		return nil, false
	}
	return &types.PeriodSelection{
		Type:    periodType,
		Period1: keys[len(keys)-2],
		Period2: keys[len(keys)-1],
	}, true
}

// MonthlyItems is items bucketed by month key.
type MonthlyItems struct {
	Months  []string
	ByMonth map[string][]types.LineItem
}

// Last returns the most recent month key.
func (m MonthlyItems) Last() (string, bool) {
	if len(m.Months) == 0 {
		return "", false
	}
	return m.Months[len(m.Months)-1], true
}

// GroupByMonth buckets items by month. Items with unparseable dates are dropped.
func GroupByMonth(items []types.LineItem) MonthlyItems {
	out := MonthlyItems{ByMonth: map[string][]types.LineItem{}}
	for _, item := range items {
		date, err := periods.ParseDate(item.Date)
		if err != nil {
			continue
		}
		key := periods.MonthKey(date)
		if _, ok := out.ByMonth[key]; !ok {
			out.Months = append(out.Months, key)
		}
		out.ByMonth[key] = append(out.ByMonth[key], item)
	}
	sort.Strings(out.Months)
	return out
}

// SKUTotals sums quantities per base SKU. The returned order lists SKUs as first encountered.
func SKUTotals(items []types.LineItem) (map[string]int, []string) {
	totals := map[string]int{}
	var order []string
	for _, item := range items {
		if _, ok := totals[item.BaseSKU]; !ok {
			order = append(order, item.BaseSKU)
		}
		totals[item.BaseSKU] += item.Quantity
	}
	return totals, order
}

// DistinctOrders counts distinct order numbers.
func DistinctOrders(items []types.LineItem) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item.OrderNumber] = struct{}{}
	}
	return len(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// ValidateCustomRange checks start1 <= end1 < start2 <= end2. Unparseable dates keep their
// invalid date code; ordering problems are validation errors.
func ValidateCustomRange(r types.CustomRange) error {
	var dates [4]int64
	for i, text := range []string{r.Start1, r.End1, r.Start2, r.End2} {
		parsed, err := periods.ParseDate(text)
		if err != nil {
			return err
		}
		dates[i] = parsed.Unix()
	}
	switch {
	case dates[0] > dates[1]:
		return pkgerrors.New(pkgerrors.CodeValidation, "first range starts after it ends")
	case dates[1] >= dates[2]:
		return pkgerrors.New(pkgerrors.CodeValidation, "first range must end before the second range starts")
	case dates[2] > dates[3]:
		return pkgerrors.New(pkgerrors.CodeValidation, "second range starts after it ends")
	}
	return nil
}
