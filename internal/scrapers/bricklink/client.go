// client.go contains the logic for fetching the price guide of a single color,
// it does not know about the order colors are processed in.

package bricklink

import (
	"brickprices/internal/catalog"
	"brickprices/internal/components/assert"
	"brickprices/internal/components/telemetry"
	"brickprices/internal/pricecache"
	"brickprices/internal/pricing"
	"brickprices/lib/restyutil"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_client_fetch_color = "client.fetch-color"
	report_client_cache       = "client.cache"
)

const (
	DefaultBaseUrl = "https://www.bricklink.com"
	// DefaultItemID is BrickLink's internal id of part 3001, Brick 2 x 4.
	DefaultItemID = "264"

	priceGuidePath = "/v2/catalog/catalogitem_pgtab.page"
)

var tracer = otel.Tracer("brickprices.scrapers.bricklink")

// ErrUnexpectedStatus is returned when the price guide responds with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Options configures a Client, zero values fall back to the defaults.
type Options struct {
	BaseUrl string
	ItemID  string
	// Timeout of a single request, 0 waits forever.
	Timeout time.Duration
	// CloudflareBypass wraps the transport so requests look like they come from a browser.
	CloudflareBypass bool
	Cache            pricecache.Cache
	// Transport replaces the default http transport, mostly for tests.
	Transport http.RoundTripper
	// Output receives every fetched price guide, named `color-<id>.html`.
	Output restyutil.ResponseOutput
}

type Client struct {
	http    *resty.Client
	baseUrl string
	itemId  string
	cache   pricecache.Cache
	output  restyutil.ResponseOutput
	tel     telemetry.API
}

func NewClient(options Options, tel telemetry.API) *Client {
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("bricklink_scraper", tel)

	if options.BaseUrl == "" {
		options.BaseUrl = DefaultBaseUrl
	}
	if options.ItemID == "" {
		options.ItemID = DefaultItemID
	}
	if options.Cache == nil {
		options.Cache = pricecache.Noop{}
	}

	httpClient := resty.New()
	httpClient.SetTimeout(options.Timeout)
	if options.Transport != nil {
		httpClient.SetTransport(options.Transport)
	}
	if options.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	telemetry.InstrumentResty(httpClient, tel)

	return &Client{
		http:    httpClient,
		baseUrl: strings.TrimSuffix(options.BaseUrl, "/"),
		itemId:  options.ItemID,
		cache:   options.Cache,
		output:  options.Output,
		tel:     tel,
	}
}

// priceGuideQuery is kept in the order the site itself links to it.
func priceGuideQuery(itemId, colorId string) []string {
	return []string{
		"idItem", itemId,
		"idColor", colorId,
		"st", "2",
		"gm", "0",
		"gc", "0",
		"ei", "0",
		"prec", "2",
		"showflag", "0",
		"showbulk", "0",
		"currency", "2",
	}
}

// PriceGuideUrl returns the url of the price guide tab of the configured item in a color.
func (c *Client) PriceGuideUrl(colorId string) string {
	pairs := priceGuideQuery(c.itemId, colorId)

	var query strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			query.WriteByte('&')
		}
		query.WriteString(url.QueryEscape(pairs[i]))
		query.WriteByte('=')
		query.WriteString(url.QueryEscape(pairs[i+1]))
	}
	return c.baseUrl + priceGuidePath + "?" + query.String()
}

func (c *Client) fetchPriceGuide(ctx context.Context, colorId string) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(c.PriceGuideUrl(colorId))
	if err != nil {
		return nil, err
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, res.Status())
	}
	return res.Body(), nil
}

// FetchColor fetches and parses the price guide of a color.
//
// a color without a BrickLink id is skipped: it reports a warning and returns
// false with a nil error. any other failure is returned as an error.
func (c *Client) FetchColor(ctx context.Context, color catalog.ColorRecord) (pricing.PriceSnapshot, bool, error) {
	colorId, ok := color.BrickLinkID()
	if !ok {
		c.tel.ReportWarning(
			report_client_fetch_color,
			fmt.Sprintf("skipping color %s: missing BrickLink id", color.Name),
		)
		return pricing.PriceSnapshot{}, false, nil
	}

	ctx, span := tracer.Start(ctx, "FetchColor")
	defer span.End()
	span.SetAttributes(
		attribute.String("color.name", color.Name),
		attribute.String("color.bricklink_id", colorId.String()),
	)

	body, cached := c.cache.Get(colorId.String())
	if cached {
		c.tel.ReportDebug(report_client_cache, "hit", colorId.String())
	} else {
		var err error
		body, err = c.fetchPriceGuide(ctx, colorId.String())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch price guide")
			return pricing.PriceSnapshot{}, false, fmt.Errorf("fetch price guide: %w", err)
		}
		if c.output != nil {
			c.output.Write(fmt.Sprintf("color-%s.html", colorId), body)
		}
	}

	values, err := ParsePriceGuide(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse price guide")
		return pricing.PriceSnapshot{}, false, fmt.Errorf("parse price guide: %w", err)
	}
	if !cached {
		c.cache.Set(colorId.String(), body)
	}

	return pricing.PriceSnapshot{
		Name:    color.Name,
		RGB:     color.RGB,
		IsTrans: color.IsTrans,
		ColorID: colorId,
		Values:  values,
	}, true, nil
}
