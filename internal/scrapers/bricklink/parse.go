package bricklink

import (
	"brickprices/internal/pricing"
	"brickprices/pkg/htmlutil"
	"bytes"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// ErrLayoutChanged is returned when the price guide does not have the shape
// described in layout.go.
var ErrLayoutChanged = errors.New("price guide layout changed")

// ParsePriceGuide parses the HTML of a price guide tab.
func ParsePriceGuide(body []byte) (pricing.Values, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pricing.Values{}, fmt.Errorf("parse html: %w", err)
	}
	return ParsePriceGuideDocument(doc)
}

// ParsePriceGuideDocument reads the 24 statistics out of the summary row.
//
// a missing summary row (or one with fewer cells than buckets) is an error, a
// missing statistic inside a bucket is NaN.
func ParsePriceGuideDocument(doc *goquery.Document) (pricing.Values, error) {
	table := doc.Find(summaryTableSelector)
	if table.Length() == 0 {
		return pricing.Values{}, fmt.Errorf("%w: no %s", ErrLayoutChanged, summaryTableSelector)
	}
	row := table.Find("tr").Eq(summaryRowIndex)
	if row.Length() == 0 {
		return pricing.Values{}, fmt.Errorf("%w: no summary row", ErrLayoutChanged)
	}
	cells := row.Children()
	if cells.Length() < len(summaryBuckets) {
		return pricing.Values{}, fmt.Errorf(
			"%w: expected %d summary cells, got %d",
			ErrLayoutChanged, len(summaryBuckets), cells.Length(),
		)
	}

	values := pricing.NewValues()
	for cellIdx, bucket := range summaryBuckets {
		cell := cells.Eq(cellIdx)
		valueRows := cell.Find("tr")
		for rowIdx, kind := range summaryValueRows {
			text := htmlutil.SelectionText(valueRows.Eq(rowIdx).Find("td").Eq(valueCellIndex))
			values.Set(bucket, kind, ParsePrice(text))
		}
	}
	return values, nil
}
