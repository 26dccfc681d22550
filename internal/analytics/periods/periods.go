// Package periods parses order dates and derives the week, month, quarter and year keys that
// orders are grouped and filtered by.
package periods

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/orderlens/internal/analytics/types"
	"github.com/angelmondragon/orderlens/pkg/enums"
	pkgerrors "github.com/angelmondragon/orderlens/pkg/errors"
)

const (
	// DateLayout is the canonical calendar date format used by keys and ingested records.
	DateLayout = "2006-01-02"
	dayFirst   = "2/1/2006"
	monthKey   = "2006-01"
)

// ParseDate accepts DD/MM/YYYY (day first, slash separated) or YYYY-MM-DD. Calendar validity is
// enforced, so 31/02/2024 and 2024-13-01 are rejected.
func ParseDate(text string) (time.Time, error) {
	trimmed := strings.TrimSpace(text)
	layout := DateLayout
	if strings.Contains(trimmed, "/") {
		layout = dayFirst
	}
	parsed, err := time.Parse(layout, trimmed)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInvalidDate, err, fmt.Sprintf("invalid date format: %q", text))
	}
	return parsed, nil
}

// FormatDate renders a date in the canonical YYYY-MM-DD layout.
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// WeekStart returns the Monday on or before date.
func WeekStart(date time.Time) time.Time {
	offset := (int(date.Weekday()) + 6) % 7
	y, m, d := date.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, date.Location())
}

// WeekKey identifies a Monday-anchored week by its start date.
func WeekKey(date time.Time) string {
	return FormatDate(WeekStart(date))
}

// MonthKey formats date as YYYY-MM.
func MonthKey(date time.Time) string {
	return date.Format(monthKey)
}

// QuarterKey formats date as YYYY-Qn.
func QuarterKey(date time.Time) string {
	quarter := (int(date.Month())-1)/3 + 1
	return fmt.Sprintf("%04d-Q%d", date.Year(), quarter)
}

// YearKey formats date as YYYY.
func YearKey(date time.Time) string {
	return fmt.Sprintf("%04d", date.Year())
}

// Key derives the key of periodType for date. Custom and unknown types have no key.
func Key(periodType enums.PeriodType, date time.Time) (string, bool) {
	switch periodType {
	case enums.PeriodWeek:
		return WeekKey(date), true
	case enums.PeriodMonth:
		return MonthKey(date), true
	case enums.PeriodQuarter:
		return QuarterKey(date), true
	case enums.PeriodYear:
		return YearKey(date), true
	default:
		return "", false
	}
}

// WeekRange returns the Monday and Sunday of the week identified by weekKey.
func WeekRange(weekKey string) (time.Time, time.Time, error) {
	start, err := ParseDate(weekKey)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 0, 6), nil
}

// ParseMonthKey returns the first day of the month identified by key.
func ParseMonthKey(key string) (time.Time, error) {
	parsed, err := time.Parse(monthKey, strings.TrimSpace(key))
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInvalidDate, err, fmt.Sprintf("invalid month key: %q", key))
	}
	return parsed, nil
}

// AddMonths returns the month key n calendar months after key.
func AddMonths(key string, n int) (string, error) {
	start, err := ParseMonthKey(key)
	if err != nil {
		return "", err
	}
	return MonthKey(start.AddDate(0, n, 0)), nil
}

// FormatPeriodLabel renders a key for display: weeks as "Jan 2 - Jan 8, 2024", months as
// "March 2024", quarters as "Q1 2024" and years unchanged. Keys that do not parse are returned
// as given.
func FormatPeriodLabel(periodType enums.PeriodType, key string) string {
	switch periodType {
	case enums.PeriodWeek:
		start, end, err := WeekRange(key)
		if err != nil {
			return key
		}
		return fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
	case enums.PeriodMonth:
		start, err := ParseMonthKey(key)
		if err != nil {
			return key
		}
		return start.Format("January 2006")
	case enums.PeriodQuarter:
		year, quarter, ok := strings.Cut(key, "-Q")
		if !ok {
			return key
		}
		if _, err := strconv.Atoi(year); err != nil {
			return key
		}
		if q, err := strconv.Atoi(quarter); err != nil || q < 1 || q > 4 {
			return key
		}
		return fmt.Sprintf("Q%s %s", quarter, year)
	default:
		return key
	}
}

// RangeLabel renders a custom range as "start to end".
func RangeLabel(r types.DateRange) string {
	return fmt.Sprintf("%s to %s", r.Start, r.End)
}

// Labels returns the raw and display labels of both sides of a selection.
func Labels(sel types.PeriodSelection) (label1, display1, label2, display2 string) {
	if sel.Type == enums.PeriodCustom && sel.CustomRange != nil {
		label1 = RangeLabel(sel.CustomRange.First())
		label2 = RangeLabel(sel.CustomRange.Second())
		return label1, label1, label2, label2
	}
	return sel.Period1, FormatPeriodLabel(sel.Type, sel.Period1), sel.Period2, FormatPeriodLabel(sel.SecondType(), sel.Period2)
}
