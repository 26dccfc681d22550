package enums

import "fmt"

// PackagingTier is the shipping container assigned to a single order.
type PackagingTier string

const (
	PackagingEnvelope       PackagingTier = "envelope"
	PackagingSixMonthBox    PackagingTier = "six_month_box"
	PackagingTwelveMonthBox PackagingTier = "twelve_month_box"
)

var validPackagingTiers = []PackagingTier{
	PackagingEnvelope,
	PackagingSixMonthBox,
	PackagingTwelveMonthBox,
}

// String implements fmt.Stringer.
func (p PackagingTier) String() string {
	return string(p)
}

// IsValid reports whether the value matches a known packaging tier.
func (p PackagingTier) IsValid() bool {
	for _, candidate := range validPackagingTiers {
		if candidate == p {
			return true
		}
	}
	return false
}

// SizeLabel maps the tier onto the small/medium/large vocabulary used by order-size charts.
func (p PackagingTier) SizeLabel() string {
	switch p {
	case PackagingEnvelope:
		return "small"
	case PackagingSixMonthBox:
		return "medium"
	case PackagingTwelveMonthBox:
		return "large"
	default:
		return ""
	}
}

// ParsePackagingTier converts the raw string to PackagingTier.
func ParsePackagingTier(value string) (PackagingTier, error) {
	for _, candidate := range validPackagingTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid packaging tier %q", value)
}
