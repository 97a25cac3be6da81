package bricklink

import "brickprices/internal/pricing"

// The price guide tab renders a table of class `pcipgMainTable`:
//
//	tr[0]  Last 6 Months Sales               | Current Items for Sale
//	tr[1]  New            | Used             | New            | Used
//	tr[2]  td(table)      | td(table)        | td(table)      | td(table)
//
// every summary cell of tr[2] nests a table with one row per statistic, the
// value is in the second cell of each row:
//
//	Times Sold:      | 1,234
//	Total Qty:       | 56,789
//	Min Price:       | US $0.01
//	Avg Price:       | US $0.05
//	Qty Avg Price:   | US $0.04
//	Max Price:       | US $1.50
//
// rows are counted over every descendant `tr` in document order, nested rows
// come after their parent so tr[2] is the summary row.
//
// When BrickLink changes this layout, this file is the only place that should
// need editing.
const (
	summaryTableSelector = ".pcipgMainTable"
	summaryRowIndex      = 2
	valueCellIndex       = 1
)

// summaryBuckets maps the position of a cell in the summary row to a bucket,
// cells past the end are ignored.
var summaryBuckets = [...]pricing.Bucket{
	pricing.Last6MonthsNew,
	pricing.Last6MonthsUsed,
	pricing.CurrentNew,
	pricing.CurrentUsed,
}

// summaryValueRows maps the position of a row in a summary cell to a value kind.
var summaryValueRows = [...]pricing.ValueKind{
	pricing.TimesSold,
	pricing.TotalQty,
	pricing.MinPrice,
	pricing.AvgPrice,
	pricing.QtyAvgPrice,
	pricing.MaxPrice,
}
