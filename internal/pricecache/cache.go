// Package pricecache holds price guide response bodies keyed by BrickLink
// color id so a color that appears twice in a run is only fetched once.
//
// a cache lives for a single run, nothing is written to disk.
package pricecache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is consulted before a price guide is fetched and populated after a
// successful fetch.
type Cache interface {
	Get(colorId string) ([]byte, bool)
	Set(colorId string, body []byte)
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(string) ([]byte, bool) { return nil, false }
func (Noop) Set(string, []byte)        {}

// LRU keeps at most `size` response bodies, evicting the least recently used.
type LRU struct {
	cache *lru.Cache[string, []byte]
}

func NewLRU(size int) (LRU, error) {
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return LRU{}, fmt.Errorf("create lru cache: %w", err)
	}
	return LRU{cache: cache}, nil
}

func (c LRU) Get(colorId string) ([]byte, bool) {
	return c.cache.Get(colorId)
}

func (c LRU) Set(colorId string, body []byte) {
	c.cache.Add(colorId, body)
}

func (c LRU) Len() int {
	return c.cache.Len()
}

// New returns an LRU cache of the given size, or Noop when size <= 0.
func New(size int) (Cache, error) {
	if size <= 0 {
		return Noop{}, nil
	}
	return NewLRU(size)
}
