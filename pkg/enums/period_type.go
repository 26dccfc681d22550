package enums

import "fmt"

// PeriodType selects the granularity used to bucket and compare orders.
type PeriodType string

const (
	PeriodWeek    PeriodType = "week"
	PeriodMonth   PeriodType = "month"
	PeriodQuarter PeriodType = "quarter"
	PeriodYear    PeriodType = "year"
	PeriodCustom  PeriodType = "custom"
)

var validPeriodTypes = []PeriodType{
	PeriodWeek,
	PeriodMonth,
	PeriodQuarter,
	PeriodYear,
	PeriodCustom,
}

// String implements fmt.Stringer.
func (p PeriodType) String() string {
	return string(p)
}

// IsValid reports whether the value matches a known period type.
func (p PeriodType) IsValid() bool {
	for _, candidate := range validPeriodTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsKeyed reports whether the type buckets by a derived period key rather than a date range.
func (p PeriodType) IsKeyed() bool {
	return p.IsValid() && p != PeriodCustom
}

// ParsePeriodType converts the raw string to PeriodType.
func ParsePeriodType(value string) (PeriodType, error) {
	for _, candidate := range validPeriodTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid period type %q", value)
}
