package sale

import "time"

// TimestampLayout is the ISO-8601 form used for sale timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Sale is an immutable record of sold line items.
type Sale struct {
	ID        int64      `json:"id"`
	Items     []LineItem `json:"items"`
	Timestamp string     `json:"timestamp"`
}

// LineItem represents one product, quantity and price entry in a sale.
// UnitPrice is captured when the sale is recorded.
type LineItem struct {
	ProductID int64   `json:"productId"`
	Qty       int64   `json:"qty"`
	UnitPrice float64 `json:"unitPrice"`
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ReportGroup aggregates every line item sold for a single product.
type ReportGroup struct {
	ProductID int64
	Name      string
	Qty       int64
	Revenue   float64
}

// Summary is the revenue report over all recorded sales.
type Summary struct {
	Report       []ReportGroup
	TotalRevenue float64
	TopSelling   []ReportGroup
}
