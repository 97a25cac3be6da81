package commands

import (
	"brickprices/internal/components/telemetry"
	"brickprices/internal/pricing"
	"brickprices/internal/store"
	"brickprices/lib/testutil"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

const priceGuideFixture = "../../../internal/scrapers/bricklink/testdata/price_guide.html"

// testJob builds a job over a catalog of "Black" (BrickLink id 11) and
// "Glow in Dark White" (no BrickLink id), scraping `baseUrl`.
func testJob(t *testing.T, baseUrl string) job {
	dir := t.TempDir()
	colorsPath := filepath.Join(dir, "lego-colors.json")
	err := os.WriteFile(colorsPath, []byte(`{
		"results": [
			{"name": "Black", "rgb": "05131D", "is_trans": false,
			 "external_ids": {"BrickLink": {"ext_ids": [11]}}},
			{"name": "Glow in Dark White", "rgb": "D9D9D9", "is_trans": false,
			 "external_ids": {"LEGO": {"ext_ids": [329]}}}
		]
	}`), 0600)
	require.NoError(t, err)

	cfg := defaultConfig()
	cfg.ColorsPath = colorsPath
	cfg.BaseUrl = baseUrl
	cfg.CacheSize = 256
	cfg.HistoryDb = filepath.Join(dir, "history.db")
	return newJob(cfg, nil, telemetry.NewRecordingAPI())
}

func maxPrice(t *testing.T, data []byte) float64 {
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	price, ok := decoded["currentNew_maxPrice"].(float64)
	require.True(t, ok, string(data))
	return price
}

func TestRunsDoNotShareCache(t *testing.T) {
	first, err := os.ReadFile(priceGuideFixture)
	require.NoError(t, err)
	later := bytes.Replace(first, []byte("US $1,234.50"), []byte("US $9,999.00"), 1)
	require.NotEqual(t, first, later)

	var served atomic.Int64
	server := testutil.NewPriceGuideServer(t, func(w http.ResponseWriter, r *http.Request) {
		if served.Add(1) == 1 {
			w.Write(first)
			return
		}
		w.Write(later)
	})

	j := testJob(t, server.URL)
	history, err := store.Open(j.cfg.HistoryDb)
	require.NoError(t, err)
	defer history.Close()

	ctx := context.Background()
	results, err := j.run(ctx, &history)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, 1234.5, results[0].Values.Get(pricing.CurrentNew, pricing.MaxPrice))

	results, err = j.run(ctx, &history)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, 9999.0, results[0].Values.Get(pricing.CurrentNew, pricing.MaxPrice))

	require.EqualValues(t, 2, server.Requests())

	recorded, err := history.ColorHistory(ctx, "11")
	require.NoError(t, err)
	require.Len(t, recorded, 2)
	require.Equal(t, 1234.5, maxPrice(t, recorded[0].Data))
	require.Equal(t, 9999.0, maxPrice(t, recorded[1].Data))
}

func TestScrape(t *testing.T) {
	body, err := os.ReadFile(priceGuideFixture)
	require.NoError(t, err)
	server := testutil.NewPriceGuideServer(t, testutil.ServeBody(body))

	j := testJob(t, server.URL)
	history, err := store.Open(j.cfg.HistoryDb)
	require.NoError(t, err)
	defer history.Close()

	var out bytes.Buffer
	err = scrape(context.Background(), j, &history, &out, nil)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	require.Equal(t, "Black", decoded[0]["name"])
	require.Equal(t, 1234.5, decoded[0]["currentNew_maxPrice"])

	run, snapshots, err := history.LatestRun(context.Background())
	require.NoError(t, err)
	require.Equal(t, "264", run.ItemID)
	require.Len(t, snapshots, 1)
	require.Equal(t, "11", snapshots[0].ColorID)
	require.Equal(t, 1234.5, maxPrice(t, snapshots[0].Data))
}

func TestScrapeSummaryFollowsPayload(t *testing.T) {
	body, err := os.ReadFile(priceGuideFixture)
	require.NoError(t, err)
	server := testutil.NewPriceGuideServer(t, testutil.ServeBody(body))

	j := testJob(t, server.URL)

	var out bytes.Buffer
	err = scrape(context.Background(), j, nil, &out, &out)
	require.NoError(t, err)

	rendered := out.String()
	tableStart := strings.Index(rendered, "╭")
	require.Positive(t, tableStart, rendered)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(rendered[:tableStart]), &decoded))
	require.Len(t, decoded, 1)
	require.Contains(t, rendered[tableStart:], "Black")
}
