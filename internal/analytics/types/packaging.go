package types

// PackagingRequirement tallies shipping containers, one per distinct order.
type PackagingRequirement struct {
	Envelopes        int `json:"envelopes"`
	SixMonthBoxes    int `json:"six_month_boxes"`
	TwelveMonthBoxes int `json:"twelve_month_boxes"`
}

// Total returns the number of orders classified.
func (p PackagingRequirement) Total() int {
	return p.Envelopes + p.SixMonthBoxes + p.TwelveMonthBoxes
}

// OrderSizes is the small/medium/large view of the same classification.
type OrderSizes struct {
	Small  int `json:"small"`
	Medium int `json:"medium"`
	Large  int `json:"large"`
}

// PackagingResult carries both views of a packaging run.
type PackagingResult struct {
	Requirement PackagingRequirement `json:"packaging"`
	Sizes       OrderSizes           `json:"order_sizes"`
}
