package types

// PeriodReport is everything computed for one side of a comparison.
type PeriodReport struct {
	Label        string                `json:"label"`
	DisplayLabel string                `json:"display_label"`
	Metrics      PeriodMetrics         `json:"metrics"`
	TopSKUs      []SKUQuantity         `json:"top_skus"`
	Distribution OrderSizeDistribution `json:"distribution"`
	OrderStats   OrderStats            `json:"order_stats"`
	Customers    CustomerMetrics       `json:"customers"`
	Packaging    PackagingResult       `json:"packaging"`
}

// ComparisonReport compares two periods of the same dataset.
type ComparisonReport struct {
	Selection      PeriodSelection        `json:"selection"`
	Period1        PeriodReport           `json:"period1"`
	Period2        PeriodReport           `json:"period2"`
	Deltas         MetricDeltas           `json:"deltas"`
	CustomerGrowth float64                `json:"customer_growth"`
	Products       []ProductComparisonRow `json:"products"`
	Skipped        []Diagnostic           `json:"skipped,omitempty"`
}

// Prediction is one month of the forward projection, or one observed month when Historical is set.
type Prediction struct {
	Month         string               `json:"month"`
	SKUQuantities map[string]int       `json:"sku_quantities"`
	Packaging     PackagingRequirement `json:"packaging"`
	OrderSizes    OrderSizes           `json:"order_sizes"`
	TotalOrders   int                  `json:"total_orders"`
	Historical    bool                 `json:"historical,omitempty"`
}

// PredictionReport is the projection together with the history it extrapolates.
type PredictionReport struct {
	GrowthRate  float64            `json:"growth_rate"`
	Horizon     int                `json:"horizon"`
	SKUs        []string           `json:"skus"`
	SKUAverages map[string]float64 `json:"sku_averages"`
	History     []Prediction       `json:"history"`
	Predictions []Prediction       `json:"predictions"`
	Summary     Summary            `json:"summary"`
}
