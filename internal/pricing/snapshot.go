// Package pricing holds the price guide snapshot produced for a single color
// and its JSON representation.
package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Bucket is a market segment of the price guide.
type Bucket int

const (
	Last6MonthsNew Bucket = iota
	Last6MonthsUsed
	CurrentNew
	CurrentUsed
)

// BucketCount is the number of market segments in a price guide.
const BucketCount = 4

var bucketNames = [BucketCount]string{
	"last6MonthsNew",
	"last6MonthsUsed",
	"currentNew",
	"currentUsed",
}

func (b Bucket) String() string {
	if b < 0 || int(b) >= BucketCount {
		return fmt.Sprintf("Bucket(%d)", int(b))
	}
	return bucketNames[b]
}

// ValueKind is a statistic reported for every bucket.
type ValueKind int

const (
	TimesSold ValueKind = iota
	TotalQty
	MinPrice
	AvgPrice
	QtyAvgPrice
	MaxPrice
)

// ValueKindCount is the number of statistics reported per bucket.
const ValueKindCount = 6

var valueKindNames = [ValueKindCount]string{
	"timesSold",
	"totalQty",
	"minPrice",
	"avgPrice",
	"qtyAvgPrice",
	"maxPrice",
}

func (k ValueKind) String() string {
	if k < 0 || int(k) >= ValueKindCount {
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
	return valueKindNames[k]
}

// AllBuckets lists the buckets in document order.
func AllBuckets() []Bucket {
	return []Bucket{Last6MonthsNew, Last6MonthsUsed, CurrentNew, CurrentUsed}
}

// AllValueKinds lists the value kinds in document order.
func AllValueKinds() []ValueKind {
	return []ValueKind{TimesSold, TotalQty, MinPrice, AvgPrice, QtyAvgPrice, MaxPrice}
}

// FieldName is the output key of a single statistic, ex. `currentUsed_avgPrice`.
func FieldName(b Bucket, k ValueKind) string {
	return b.String() + "_" + k.String()
}

// FieldNames returns all 24 output keys, bucket-major.
func FieldNames() []string {
	names := make([]string, 0, BucketCount*ValueKindCount)
	for _, b := range AllBuckets() {
		for _, k := range AllValueKinds() {
			names = append(names, FieldName(b, k))
		}
	}
	return names
}

// Values is the grid of statistics of a price guide, NaN marks a value that
// could not be read.
type Values [BucketCount][ValueKindCount]float64

// NewValues returns a grid where every value is NaN.
func NewValues() Values {
	var v Values
	for b := range v {
		for k := range v[b] {
			v[b][k] = math.NaN()
		}
	}
	return v
}

func (v Values) Get(b Bucket, k ValueKind) float64 {
	return v[b][k]
}

func (v *Values) Set(b Bucket, k ValueKind, value float64) {
	v[b][k] = value
}

// PriceSnapshot is the price guide summary of one color.
type PriceSnapshot struct {
	Name    string
	RGB     string
	IsTrans bool
	// ColorID is the BrickLink color id, kept as the literal from the color catalog.
	ColorID json.Number
	Values  Values
}

// Fields returns the statistics keyed by their output name.
func (s PriceSnapshot) Fields() map[string]float64 {
	fields := make(map[string]float64, BucketCount*ValueKindCount)
	for _, b := range AllBuckets() {
		for _, k := range AllValueKinds() {
			fields[FieldName(b, k)] = s.Values.Get(b, k)
		}
	}
	return fields
}

func writeKey(buff *bytes.Buffer, key string) {
	encoded, _ := json.Marshal(key)
	buff.Write(encoded)
	buff.WriteByte(':')
}

// writeNumber writes NaN and infinities as null since JSON has no literal for them.
func writeNumber(buff *bytes.Buffer, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		buff.WriteString("null")
		return nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buff.Write(encoded)
	return nil
}

// MarshalJSON writes the metadata followed by every statistic in a fixed key order.
func (s PriceSnapshot) MarshalJSON() ([]byte, error) {
	buff := bytes.NewBuffer(nil)
	buff.WriteByte('{')

	writeKey(buff, "name")
	name, err := json.Marshal(s.Name)
	if err != nil {
		return nil, err
	}
	buff.Write(name)

	buff.WriteByte(',')
	writeKey(buff, "rgb")
	rgb, err := json.Marshal(s.RGB)
	if err != nil {
		return nil, err
	}
	buff.Write(rgb)

	buff.WriteByte(',')
	writeKey(buff, "is_trans")
	if s.IsTrans {
		buff.WriteString("true")
	} else {
		buff.WriteString("false")
	}

	buff.WriteByte(',')
	writeKey(buff, "colorId")
	colorId, err := json.Marshal(s.ColorID)
	if err != nil {
		return nil, fmt.Errorf("colorId: %w", err)
	}
	buff.Write(colorId)

	for _, b := range AllBuckets() {
		for _, k := range AllValueKinds() {
			buff.WriteByte(',')
			writeKey(buff, FieldName(b, k))
			err = writeNumber(buff, s.Values.Get(b, k))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", FieldName(b, k), err)
			}
		}
	}

	buff.WriteByte('}')
	return buff.Bytes(), nil
}
