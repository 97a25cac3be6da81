// Package catalog loads the color catalog, a dump of the Rebrickable
// `/api/v3/lego/colors/` endpoint.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

type ExternalIDs struct {
	ExtIDs    []json.Number `json:"ext_ids"`
	ExtDescrs [][]string    `json:"ext_descrs,omitempty"`
}

// ColorRecord is a single color of the catalog, only the fields needed to
// build a price snapshot are decoded.
type ColorRecord struct {
	ID          int                     `json:"id"`
	Name        string                  `json:"name"`
	RGB         string                  `json:"rgb"`
	IsTrans     bool                    `json:"is_trans"`
	ExternalIDs map[string]*ExternalIDs `json:"external_ids"`
}

const brickLinkSource = "BrickLink"

// BrickLinkID looks up the BrickLink color id of a record, the second return
// value is false when the catalog has no usable id for it.
//
// BrickLink id 0 is "(Not Applicable)" and is treated as missing.
func (c ColorRecord) BrickLinkID() (json.Number, bool) {
	ids, ok := c.ExternalIDs[brickLinkSource]
	if !ok || ids == nil || len(ids.ExtIDs) == 0 {
		return "", false
	}
	id := ids.ExtIDs[0]
	if id == "" {
		return "", false
	}
	if value, err := id.Float64(); err == nil && value == 0 {
		return "", false
	}
	return id, true
}

type colorsFile struct {
	Count   int           `json:"count"`
	Results []ColorRecord `json:"results"`
}

// LoadColors reads the catalog at `path` and returns its colors in file order.
func LoadColors(path string) ([]ColorRecord, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read color catalog: %w", err)
	}
	return ParseColors(contents)
}

// ParseColors decodes a catalog document.
func ParseColors(contents []byte) ([]ColorRecord, error) {
	var file colorsFile
	err := json.Unmarshal(contents, &file)
	if err != nil {
		return nil, fmt.Errorf("decode color catalog: %w", err)
	}
	if file.Results == nil {
		return nil, fmt.Errorf("decode color catalog: missing `results`")
	}
	return file.Results, nil
}
