package testutil

import (
	"brickprices/internal/catalog"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// Color returns a catalog record, an empty `bricklinkId` leaves the record
// without BrickLink ids.
func Color(name, bricklinkId string) catalog.ColorRecord {
	color := catalog.ColorRecord{Name: name, RGB: "05131D"}
	if bricklinkId != "" {
		color.ExternalIDs = map[string]*catalog.ExternalIDs{
			"BrickLink": {ExtIDs: []json.Number{json.Number(bricklinkId)}},
		}
	}
	return color
}

// PriceGuideServer is a fake marketplace that counts the requests it gets.
type PriceGuideServer struct {
	*httptest.Server
	requests atomic.Int64
}

func (s *PriceGuideServer) Requests() int64 {
	return s.requests.Load()
}

// NewPriceGuideServer starts a server calling `handler` for every request, it
// is closed when the test finishes.
func NewPriceGuideServer(t testing.TB, handler http.HandlerFunc) *PriceGuideServer {
	s := &PriceGuideServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// ServeBody is a handler that always responds with `body`.
func ServeBody(body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/html; charset=utf-8")
		w.Write(body)
	}
}
