package types

// OrderRecord is one parsed line of an uploaded order table. Several records may share an
// order number, one per line item.
type OrderRecord struct {
	OrderNumber string `json:"order_number"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
	Date        string `json:"date"`
}

// OrderDate returns the raw date text so records can be filtered by period.
func (r OrderRecord) OrderDate() string {
	return r.Date
}

// LineItem is an OrderRecord after SKU normalization: the bundle suffix is stripped from the SKU
// and the quantity scaled by the bundle multiplier.
type LineItem struct {
	OrderNumber string `json:"order_number"`
	BaseSKU     string `json:"base_sku"`
	Quantity    int    `json:"quantity"`
	Date        string `json:"date"`
}

// OrderDate returns the raw date text so line items can be filtered by period.
func (l LineItem) OrderDate() string {
	return l.Date
}

// ColumnMapping names the header of each required column in an uploaded table.
type ColumnMapping struct {
	OrderNumber string `json:"order_number" validate:"required"`
	SKU         string `json:"sku" validate:"required"`
	Quantity    string `json:"quantity" validate:"required"`
	Date        string `json:"date" validate:"required"`
}

// DefaultColumnMapping matches tables whose headers already use the canonical names.
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		OrderNumber: "order_number",
		SKU:         "sku",
		Quantity:    "quantity",
		Date:        "date",
	}
}

// Diagnostic records why a row was skipped. Row is 1-based. Ingested tables count the header
// line so it matches what a spreadsheet shows; in-memory filters count positions in their input.
type Diagnostic struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
