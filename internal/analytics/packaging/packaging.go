// Package packaging assigns each order a shipping container and tallies the containers needed.
package packaging

import (
	"github.com/angelmondragon/orderlens/internal/analytics/skus"
	"github.com/angelmondragon/orderlens/internal/analytics/types"
	"github.com/angelmondragon/orderlens/pkg/enums"
)

const (
	twelveMonthThreshold = 9
	sixMonthThreshold    = 5
)

// Classify picks the container for an order holding total items. Any bottle forces the largest box.
func Classify(total int, hasBottle bool) enums.PackagingTier {
	switch {
	case hasBottle || total >= twelveMonthThreshold:
		return enums.PackagingTwelveMonthBox
	case total >= sixMonthThreshold:
		return enums.PackagingSixMonthBox
	default:
		return enums.PackagingEnvelope
	}
}

type orderTally struct {
	total     int
	hasBottle bool
}

// Compute groups items by order number and classifies every distinct order once. The bottle
// check runs against the normalized base SKU.
func Compute(items []types.LineItem) types.PackagingResult {
	orders := make(map[string]*orderTally, len(items))
	for _, item := range items {
		tally, ok := orders[item.OrderNumber]
		if !ok {
			tally = &orderTally{}
			orders[item.OrderNumber] = tally
		}
		tally.total += item.Quantity
		tally.hasBottle = tally.hasBottle || skus.IsBottle(item.BaseSKU)
	}

	var result types.PackagingResult
	for _, tally := range orders {
		Add(&result, Classify(tally.total, tally.hasBottle))
	}
	return result
}

// Add counts one order of tier in both views of result.
func Add(result *types.PackagingResult, tier enums.PackagingTier) {
	AddN(result, tier, 1)
}

// AddN counts n orders of tier in both views of result.
func AddN(result *types.PackagingResult, tier enums.PackagingTier, n int) {
	if n <= 0 {
		return
	}
	switch tier {
	case enums.PackagingTwelveMonthBox:
		result.Requirement.TwelveMonthBoxes += n
		result.Sizes.Large += n
	case enums.PackagingSixMonthBox:
		result.Requirement.SixMonthBoxes += n
		result.Sizes.Medium += n
	case enums.PackagingEnvelope:
		result.Requirement.Envelopes += n
		result.Sizes.Small += n
	}
}
