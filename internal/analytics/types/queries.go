package types

import "github.com/angelmondragon/orderlens/pkg/enums"

// DateRange is an inclusive calendar range expressed in either supported date format.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CustomRange carries the two ranges compared when the selection type is custom.
type CustomRange struct {
	Start1 string `json:"start1" validate:"required"`
	End1   string `json:"end1" validate:"required"`
	Start2 string `json:"start2" validate:"required"`
	End2   string `json:"end2" validate:"required"`
}

// First returns the first compared range.
func (c CustomRange) First() DateRange {
	return DateRange{Start: c.Start1, End: c.End1}
}

// Second returns the second compared range.
func (c CustomRange) Second() DateRange {
	return DateRange{Start: c.Start2, End: c.End2}
}

// PeriodSelection is the pair of periods being compared. Type2, when set, gives the second side
// its own granularity so a month can be compared against a quarter; custom selections ignore it.
type PeriodSelection struct {
	Type        enums.PeriodType `json:"type" validate:"required"`
	Type2       enums.PeriodType `json:"type2,omitempty"`
	Period1     string           `json:"period1,omitempty"`
	Period2     string           `json:"period2,omitempty"`
	CustomRange *CustomRange     `json:"custom_range,omitempty" validate:"-"`
}

// SecondType is the granularity of Period2.
func (s PeriodSelection) SecondType() enums.PeriodType {
	if s.Type2 == "" || s.Type == enums.PeriodCustom {
		return s.Type
	}
	return s.Type2
}

// AvailablePeriods lists the distinct period keys present in a dataset, ascending.
type AvailablePeriods struct {
	Weeks    []string `json:"weeks"`
	Months   []string `json:"months"`
	Quarters []string `json:"quarters"`
	Years    []string `json:"years"`
}

// For returns the keys of the requested granularity; custom and unknown types have none.
func (a AvailablePeriods) For(periodType enums.PeriodType) []string {
	switch periodType {
	case enums.PeriodWeek:
		return a.Weeks
	case enums.PeriodMonth:
		return a.Months
	case enums.PeriodQuarter:
		return a.Quarters
	case enums.PeriodYear:
		return a.Years
	default:
		return nil
	}
}

// PeriodsResponse describes what a dataset can be compared on.
type PeriodsResponse struct {
	Available AvailablePeriods `json:"available"`
	Initial   *PeriodSelection `json:"initial,omitempty"`
	Records   int              `json:"records"`
}

// CompareRequest asks for a comparison report over two periods of the same dataset.
type CompareRequest struct {
	Records        []OrderRecord   `json:"records"`
	Selection      PeriodSelection `json:"selection"`
	TopSKUs        int             `json:"top_skus,omitempty" validate:"omitempty,min=1,max=100"`
	ComparisonSKUs int             `json:"comparison_skus,omitempty" validate:"omitempty,min=1,max=100"`
}

// PredictRequest asks for a forward projection of the dataset.
type PredictRequest struct {
	Records    []OrderRecord `json:"records"`
	GrowthRate float64       `json:"growth_rate" validate:"gt=0,lte=10"`
	Horizon    int           `json:"horizon" validate:"min=1,max=12"`
}
