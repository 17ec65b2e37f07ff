// Package scraper holds what every upstream scraper in this module shares.
//
// read-only scrapers are mostly stateless, each method is independent of each other,
// the output is dependent solely on the input (and the upstream page at that moment).
//
// each scraping method generally has this structure:
// 1. make assertions on input validity.
// 2. make the request (FetchDocument).
// 3. make assertions on response validity (status, expected markup).
// 4. transform the response (goquery selectors, embedded json) into an output struct.
//
// step 4 is kept in a pure function that takes a *goquery.Document so it can be
// tested against fixtures without any network.
package scraper

import (
	"bytes"
	"context"
	"dailyreading-backend/internal/telemetry"
	"dailyreading-backend/lib/restyutil"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type ClientOptions struct {
	// Name is used as the tracer name of the client.
	Name    string
	Timeout time.Duration
	// CloudflareBypass swaps the transport for one that mimics a browser's TLS handshake.
	CloudflareBypass bool
	// Output receives request/response dumps in verbose mode, can be nil.
	Output restyutil.InstrumentOutput
	// Telemetry receives a report for every request, can be nil.
	Telemetry telemetry.API
}

// NewClient creates an instrumented resty client for scraping upstream pages.
func NewClient(opts ClientOptions) *resty.Client {
	client := resty.New()
	client.SetHeader("user-agent", userAgent)
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	restyutil.InstrumentClient(client, otel.Tracer(opts.Name), opts.Output)
	if opts.Telemetry != nil {
		telemetry.InstrumentResty(client, telemetry.NewScopedAPI(opts.Name, opts.Telemetry))
	}
	return client
}

// FetchDocument GETs link and parses the body as html, network failures and
// non-2xx statuses are returned as *UpstreamFetchError.
func FetchDocument(ctx context.Context, client *resty.Client, link string) (*goquery.Document, error) {
	res, err := client.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return nil, &UpstreamFetchError{Url: link, Err: err}
	}
	if res.IsError() {
		return nil, &UpstreamFetchError{Url: link, Status: res.StatusCode()}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, &UpstreamFetchError{Url: link, Err: err}
	}
	return doc, nil
}
