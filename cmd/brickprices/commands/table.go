package commands

import (
	"brickprices/internal/pricing"
	"io"
	"math"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func formatValue(value float64) string {
	if math.IsNaN(value) {
		return "-"
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// renderSummary renders the average price of every bucket, one row per color.
func renderSummary(out io.Writer, snapshots []pricing.PriceSnapshot) {
	t := newTable(out)

	header := table.Row{"Color", "ID"}
	for _, bucket := range pricing.AllBuckets() {
		header = append(header, bucket.String())
	}
	t.AppendHeader(header)

	for _, s := range snapshots {
		row := table.Row{s.Name, s.ColorID.String()}
		for _, bucket := range pricing.AllBuckets() {
			row = append(row, formatValue(s.Values.Get(bucket, pricing.AvgPrice)))
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"Colors", len(snapshots)})
	t.Render()
}
