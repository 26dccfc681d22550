package types

// PeriodMetrics summarises a set of line items.
type PeriodMetrics struct {
	TotalOrders      int     `json:"total_orders"`
	TotalItems       int     `json:"total_items"`
	AverageOrderSize float64 `json:"average_order_size"`
	UniqueSKUs       int     `json:"unique_skus"`
}

// MetricDeltas holds the percent change of each PeriodMetrics field from period 1 to period 2.
type MetricDeltas struct {
	TotalOrders      float64 `json:"total_orders"`
	TotalItems       float64 `json:"total_items"`
	AverageOrderSize float64 `json:"average_order_size"`
	UniqueSKUs       float64 `json:"unique_skus"`
}

// SKUQuantity is a ranked SKU entry.
type SKUQuantity struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// ProductComparisonRow puts one SKU's totals for both periods side by side.
type ProductComparisonRow struct {
	SKU             string `json:"sku"`
	Period1Quantity int    `json:"period1_quantity"`
	Period2Quantity int    `json:"period2_quantity"`
	Period1Lines    int    `json:"period1_lines"`
	Period2Lines    int    `json:"period2_lines"`
}

// OrderSizeDistribution buckets distinct orders by their total item count.
type OrderSizeDistribution struct {
	OneToTwo    int `json:"one_to_two"`
	ThreeToFive int `json:"three_to_five"`
	SixToTen    int `json:"six_to_ten"`
	ElevenPlus  int `json:"eleven_plus"`
}

// Total returns the number of orders bucketed.
func (d OrderSizeDistribution) Total() int {
	return d.OneToTwo + d.ThreeToFive + d.SixToTen + d.ElevenPlus
}

// OrderStats is the order-size panel of a period.
type OrderStats struct {
	AverageSize float64 `json:"average_size"`
	MaxSize     int     `json:"max_size"`
	TotalOrders int     `json:"total_orders"`
}

// OrderAggregate folds the line items of one order number.
type OrderAggregate struct {
	OrderNumber   string `json:"order_number"`
	TotalItems    int    `json:"total_items"`
	Lines         int    `json:"lines"`
	LastOrderDate string `json:"last_order_date,omitempty"`
}

// CustomerMetrics treats each distinct order number as a customer, since uploads carry no
// separate customer identifier.
type CustomerMetrics struct {
	TotalCustomers    int              `json:"total_customers"`
	AverageOrderValue float64          `json:"average_order_value"`
	TotalItems        int              `json:"total_items"`
	Orders            []OrderAggregate `json:"orders,omitempty"`
}

// Summary is the dashboard headline for a whole dataset.
type Summary struct {
	TotalOrders          int           `json:"total_orders"`
	AverageOrderSize     float64       `json:"average_order_size"`
	TopSKUs              []SKUQuantity `json:"top_skus"`
	MonthOverMonthGrowth float64       `json:"month_over_month_growth"`
}
