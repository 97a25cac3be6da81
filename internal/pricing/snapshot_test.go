package pricing

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestFieldNames(t *testing.T) {
	names := FieldNames()
	require.Len(t, names, 24)
	require.Equal(t, "last6MonthsNew_timesSold", names[0])
	require.Equal(t, "last6MonthsNew_maxPrice", names[5])
	require.Equal(t, "last6MonthsUsed_timesSold", names[6])
	require.Equal(t, "currentUsed_maxPrice", names[23])

	seen := map[string]bool{}
	for _, b := range []string{"last6MonthsNew", "last6MonthsUsed", "currentNew", "currentUsed"} {
		for _, k := range []string{"timesSold", "totalQty", "minPrice", "avgPrice", "qtyAvgPrice", "maxPrice"} {
			seen[b+"_"+k] = true
		}
	}
	for _, name := range names {
		require.True(t, seen[name], name)
		delete(seen, name)
	}
	require.Empty(t, seen)
}

func TestStringers(t *testing.T) {
	require.Equal(t, "currentNew", CurrentNew.String())
	require.Equal(t, "qtyAvgPrice", QtyAvgPrice.String())
	require.Equal(t, "Bucket(7)", Bucket(7).String())
	require.Equal(t, "ValueKind(-1)", ValueKind(-1).String())
}

func TestNewValues(t *testing.T) {
	values := NewValues()
	for _, b := range AllBuckets() {
		for _, k := range AllValueKinds() {
			require.True(t, math.IsNaN(values.Get(b, k)))
		}
	}
	values.Set(CurrentUsed, MaxPrice, 1.5)
	require.Equal(t, 1.5, values.Get(CurrentUsed, MaxPrice))
}

func sampleSnapshot() PriceSnapshot {
	values := NewValues()
	values.Set(Last6MonthsNew, TimesSold, 1234)
	values.Set(Last6MonthsNew, AvgPrice, 0.05)
	values.Set(CurrentUsed, MaxPrice, 1234.5)
	return PriceSnapshot{
		Name:    "Black",
		RGB:     "05131D",
		IsTrans: false,
		ColorID: json.Number("11"),
		Values:  values,
	}
}

func TestMarshalJSON(t *testing.T) {
	encoded, err := json.Marshal(sampleSnapshot())
	require.NoError(t, err)

	text := string(encoded)
	require.True(t, strings.HasPrefix(text, `{"name":"Black","rgb":"05131D","is_trans":false,"colorId":11,"last6MonthsNew_timesSold":1234,`), text)
	require.Contains(t, text, `"last6MonthsNew_avgPrice":0.05`)
	require.Contains(t, text, `"last6MonthsNew_totalQty":null`)
	require.True(t, strings.HasSuffix(text, `"currentUsed_maxPrice":1234.5}`), text)

	var decoded map[string]any
	err = json.Unmarshal(encoded, &decoded)
	require.NoError(t, err)
	require.Len(t, decoded, 28)
	for _, name := range FieldNames() {
		_, ok := decoded[name]
		require.True(t, ok, name)
	}
}

func TestMarshalJSONKeyOrder(t *testing.T) {
	encoded, err := json.Marshal(sampleSnapshot())
	require.NoError(t, err)

	dec := json.NewDecoder(strings.NewReader(string(encoded)))
	_, err = dec.Token()
	require.NoError(t, err)

	var keys []string
	for dec.More() {
		key, err := dec.Token()
		require.NoError(t, err)
		keys = append(keys, key.(string))
		_, err = dec.Token()
		require.NoError(t, err)
	}

	expected := append([]string{"name", "rgb", "is_trans", "colorId"}, FieldNames()...)
	if diff := cmp.Diff(expected, keys); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalJSONIndentedSlice(t *testing.T) {
	encoded, err := json.MarshalIndent([]PriceSnapshot{sampleSnapshot()}, "", "  ")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(encoded), "[\n  {\n    \"name\": \"Black\",\n"))
}

func TestFields(t *testing.T) {
	fields := sampleSnapshot().Fields()
	require.Len(t, fields, 24)
	require.Equal(t, 1234.5, fields["currentUsed_maxPrice"])
	require.True(t, math.IsNaN(fields["currentNew_minPrice"]))
}
