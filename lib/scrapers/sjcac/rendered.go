package sjcac

import (
	"context"
	"dailyreading-backend/internal/telemetry"
	"dailyreading-backend/lib/htmlutil"
	"dailyreading-backend/lib/scraper"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const (
	report_rendered_extract = "rendered.extract-source"
)

// RenderedClient loads the page in a headless browser and reads the date and
// the passage link out of the rendered DOM.
type RenderedClient struct {
	url          string
	base         *url.URL
	dateSelector string
	linkSelector string
	link         LinkRule
	timeout      time.Duration
	browserBin   string
	tel          telemetry.API
}

type RenderedOptions struct {
	// Url defaults to DefaultUrl.
	Url string
	// DateSelector selects the element whose text is the date.
	DateSelector string
	// LinkSelector selects the anchor (or a container of anchors) linking
	// to the passage.
	LinkSelector string
	// Link defaults to DefaultLinkRule().
	Link *LinkRule
	// Timeout defaults to 30 seconds.
	Timeout time.Duration
	// BrowserBin is the chromium binary to use, when empty one is looked up
	// or downloaded by the launcher.
	BrowserBin string
}

func NewRenderedClient(opts RenderedOptions, tel telemetry.API) (RenderedClient, error) {
	if opts.DateSelector == "" || opts.LinkSelector == "" {
		return RenderedClient{}, fmt.Errorf("rendered source requires both a date and a link selector")
	}
	if opts.Url == "" {
		opts.Url = DefaultUrl
	}
	base, err := url.Parse(opts.Url)
	if err != nil {
		return RenderedClient{}, fmt.Errorf("rendered source url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return RenderedClient{}, fmt.Errorf("rendered source url %q is not absolute", opts.Url)
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	link := DefaultLinkRule()
	if opts.Link != nil {
		link = *opts.Link
	}
	return RenderedClient{
		url:          opts.Url,
		base:         base,
		dateSelector: opts.DateSelector,
		linkSelector: opts.LinkSelector,
		link:         link,
		timeout:      opts.Timeout,
		browserBin:   opts.BrowserBin,
		tel:          telemetry.NewScopedAPI("sjcac", tel),
	}, nil
}

func (c RenderedClient) ExtractSource(ctx context.Context) (Source, error) {
	ctx, span := tracer.Start(ctx, "RenderedClient.ExtractSource")
	defer span.End()

	source, err := c.extract(ctx)
	if err != nil {
		span.RecordError(err)
		c.tel.ReportBroken(report_rendered_extract, err)
		return Source{}, err
	}
	c.tel.ReportDebug("extracted source", source.DateText, source.ReferenceUrl)
	return source, nil
}

func (c RenderedClient) extract(ctx context.Context) (Source, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	l := launcher.New().Context(ctx).Headless(true)
	if c.browserBin != "" {
		l = l.Bin(c.browserBin)
	}
	controlUrl, err := l.Launch()
	if err != nil {
		return Source{}, &scraper.UpstreamFetchError{Url: c.url, Err: fmt.Errorf("launch browser: %w", err)}
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlUrl).Context(ctx)
	err = browser.Connect()
	if err != nil {
		return Source{}, &scraper.UpstreamFetchError{Url: c.url, Err: fmt.Errorf("connect browser: %w", err)}
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: c.url})
	if err != nil {
		return Source{}, &scraper.UpstreamFetchError{Url: c.url, Err: err}
	}
	err = page.WaitLoad()
	if err != nil {
		return Source{}, &scraper.UpstreamFetchError{Url: c.url, Err: err}
	}

	dateElement, err := page.Element(c.dateSelector)
	if err != nil {
		return Source{}, extractionError(fmt.Sprintf("wait for date element %q: %s", c.dateSelector, err.Error()))
	}
	dateText, err := dateElement.Text()
	if err != nil {
		return Source{}, extractionError(fmt.Sprintf("read date element: %s", err.Error()))
	}
	_, err = page.Element(c.linkSelector)
	if err != nil {
		return Source{}, extractionError(fmt.Sprintf("wait for link element %q: %s", c.linkSelector, err.Error()))
	}

	rendered, err := page.HTML()
	if err != nil {
		return Source{}, extractionError(fmt.Sprintf("read rendered html: %s", err.Error()))
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return Source{}, extractionError(fmt.Sprintf("parse rendered html: %s", err.Error()))
	}

	return ParseRendered(ctx, doc, c.base, dateText, c.linkSelector, c.link)
}

// ParseRendered picks the first anchor matched by (or contained in)
// linkSelector that satisfies rule.
func ParseRendered(
	ctx context.Context,
	doc *goquery.Document,
	base *url.URL,
	dateText,
	linkSelector string,
	rule LinkRule,
) (Source, error) {
	dateText = htmlutil.CleanText(dateText)
	if dateText == "" {
		return Source{}, extractionError("date element is empty")
	}

	selected := doc.Find(linkSelector)
	candidates := selected.Filter("a").AddSelection(selected.Find("a"))
	for _, anchor := range htmlutil.GetAnchors(ctx, base, candidates) {
		if rule.Matches(anchor.Href) {
			return Source{
				DateText:     dateText,
				ReferenceUrl: anchor.Href,
			}, nil
		}
	}
	return Source{}, extractionError(fmt.Sprintf("no %s link under %q", rule.Host, linkSelector))
}
