package bricklink

import (
	"brickprices/internal/pricing"
	"encoding/json"
	"errors"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func readFixture(t testing.TB, name string) []byte {
	body, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func TestParsePrice(t *testing.T) {
	table := []struct {
		input    string
		expected float64
	}{
		{input: "$1,234.50", expected: 1234.5},
		{input: "US $0.05", expected: 0.05},
		{input: "  1,234 ", expected: 1234},
		{input: "12.", expected: 12},
		{input: ".5", expected: 0.5},
		{input: "1.2.3", expected: 1.2},
		{input: "-3", expected: 3},
		{input: "0", expected: 0},
	}
	for _, row := range table {
		require.Equal(t, row.expected, ParsePrice(row.input), row.input)
	}

	for _, input := range []string{"", "   ", "N/A", ".", "(unavailable)"} {
		require.True(t, math.IsNaN(ParsePrice(input)), input)
	}
}

func TestParsePriceGuide(t *testing.T) {
	values, err := ParsePriceGuide(readFixture(t, "price_guide.html"))
	require.NoError(t, err)

	expected := map[pricing.Bucket][pricing.ValueKindCount]float64{
		pricing.Last6MonthsNew:  {1234, 56789, 0.01, 0.05, 0.04, 1.5},
		pricing.Last6MonthsUsed: {2001, 98765, 0.02, 0.06, 0.05, 2},
		pricing.CurrentNew:      {345, 12345, 0.03, 0.07, 0.06, 1234.5},
		pricing.CurrentUsed:     {412, 23456, 0.01, 0.04, 0.03, 0.99},
	}
	for bucket, row := range expected {
		for _, kind := range pricing.AllValueKinds() {
			require.Equal(t, row[kind], values.Get(bucket, kind), pricing.FieldName(bucket, kind))
		}
	}
}

func TestParsePriceGuidePartial(t *testing.T) {
	values, err := ParsePriceGuide(readFixture(t, "price_guide_partial.html"))
	require.NoError(t, err)

	for _, kind := range pricing.AllValueKinds() {
		require.True(t, math.IsNaN(values.Get(pricing.Last6MonthsUsed, kind)), kind.String())
	}
	require.Equal(t, 1234.0, values.Get(pricing.Last6MonthsNew, pricing.TimesSold))
	require.Equal(t, 0.99, values.Get(pricing.CurrentUsed, pricing.MaxPrice))
}

func TestParsePriceGuideLayoutChanged(t *testing.T) {
	cases := []string{
		`<html><body><p>Quick Pricing Guide is temporarily unavailable.</p></body></html>`,
		`<table class="pcipgMainTable"><tr><td>Last 6 Months Sales:</td></tr></table>`,
		`<table class="pcipgMainTable">
			<tr><td>Last 6 Months Sales:</td></tr>
			<tr><td>New</td></tr>
			<tr><td>only</td><td>two</td></tr>
		</table>`,
	}
	for _, body := range cases {
		_, err := ParsePriceGuide([]byte(body))
		require.True(t, errors.Is(err, ErrLayoutChanged), body)
	}
}

func TestParsePriceGuideIdempotent(t *testing.T) {
	body := readFixture(t, "price_guide_partial.html")

	var encoded [][]byte
	for i := 0; i < 3; i++ {
		values, err := ParsePriceGuide(body)
		require.NoError(t, err)
		out, err := json.Marshal(pricing.PriceSnapshot{
			Name:    "Black",
			RGB:     "05131D",
			ColorID: json.Number("11"),
			Values:  values,
		})
		require.NoError(t, err)
		encoded = append(encoded, out)
	}
	require.Equal(t, encoded[0], encoded[1])
	require.Equal(t, encoded[1], encoded[2])
}
