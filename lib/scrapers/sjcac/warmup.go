package sjcac

import (
	"bytes"
	"context"
	"dailyreading-backend/internal/telemetry"
	"dailyreading-backend/lib/htmlutil"
	"dailyreading-backend/lib/scraper"
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const (
	report_warmup_extract = "warmup.extract-source"
)

// WarmupClient reads the page's server side rendering payload (the
// `wix-warmup-data` script) instead of the client rendered DOM.
type WarmupClient struct {
	url  string
	link LinkRule
	http *resty.Client
	tel  telemetry.API
}

type WarmupOptions struct {
	// Url defaults to DefaultUrl.
	Url string
	// Link defaults to DefaultLinkRule().
	Link *LinkRule
}

func NewWarmupClient(http *resty.Client, opts WarmupOptions, tel telemetry.API) WarmupClient {
	if opts.Url == "" {
		opts.Url = DefaultUrl
	}
	link := DefaultLinkRule()
	if opts.Link != nil {
		link = *opts.Link
	}
	return WarmupClient{
		url:  opts.Url,
		link: link,
		http: http,
		tel:  telemetry.NewScopedAPI("sjcac", tel),
	}
}

func (c WarmupClient) ExtractSource(ctx context.Context) (Source, error) {
	ctx, span := tracer.Start(ctx, "WarmupClient.ExtractSource")
	defer span.End()

	doc, err := scraper.FetchDocument(ctx, c.http, c.url)
	if err != nil {
		span.RecordError(err)
		c.tel.ReportBroken(report_warmup_extract, err)
		return Source{}, err
	}
	source, err := ParseWarmup(doc, c.link)
	if err != nil {
		span.RecordError(err)
		c.tel.ReportBroken(report_warmup_extract, err)
		return Source{}, err
	}
	c.tel.ReportDebug("extracted source", source.DateText, source.ReferenceUrl, source.PassageList)
	return source, nil
}

type warmupData struct {
	Platform struct {
		SsrPropsUpdates []json.RawMessage `json:"ssrPropsUpdates"`
	} `json:"platform"`
}

type warmupProp struct {
	Html string `json:"html"`
	Link *struct {
		Href string `json:"href"`
	} `json:"link"`
}

var richTextSpan = regexp.MustCompile(`<span class="wixui-rich-text__text">(.*?)</span>`)

func extractionError(message string) error {
	return &scraper.ExtractionError{Source: "sjcac", Message: message}
}

// ParseWarmup scans the fields of the first props update, in document order,
// for the date, the passage list and the passage link. When several fields
// qualify, the last one wins.
func ParseWarmup(doc *goquery.Document, rule LinkRule) (Source, error) {
	script := doc.Find("script#wix-warmup-data")
	if script.Length() == 0 {
		return Source{}, extractionError("could not find wix-warmup-data script tag")
	}
	payload := htmlutil.GetText(script.Nodes[0])
	if strings.TrimSpace(payload) == "" {
		return Source{}, extractionError("wix-warmup-data script tag is empty")
	}

	var data warmupData
	err := json.Unmarshal([]byte(payload), &data)
	if err != nil {
		return Source{}, extractionError(fmt.Sprintf("decode wix-warmup-data: %s", err.Error()))
	}
	if len(data.Platform.SsrPropsUpdates) == 0 {
		return Source{}, extractionError("wix-warmup-data has no ssrPropsUpdates")
	}

	var source Source
	err = eachField(data.Platform.SsrPropsUpdates[0], func(raw json.RawMessage) {
		var prop warmupProp
		if json.Unmarshal(raw, &prop) != nil {
			return
		}

		if strings.Contains(prop.Html, "wixui-rich-text__text") {
			match := richTextSpan.FindStringSubmatch(prop.Html)
			if match != nil {
				candidate := strings.TrimSpace(html.UnescapeString(match[1]))
				if looksLikeDate(candidate) {
					source.DateText = candidate
				}
			}
		}

		if strings.Contains(prop.Html, "<br>") {
			passages := parsePassageList(prop.Html)
			if passages != nil {
				source.PassageList = passages
			}
		}

		if prop.Link != nil && prop.Link.Href != "" {
			href := strings.ReplaceAll(prop.Link.Href, `\/`, "/")
			if rule.Matches(href) {
				source.ReferenceUrl = href
			}
		}
	})
	if err != nil {
		return Source{}, extractionError(fmt.Sprintf("decode ssrPropsUpdates: %s", err.Error()))
	}

	if source.DateText == "" || source.ReferenceUrl == "" || len(source.PassageList) == 0 {
		return Source{}, extractionError(fmt.Sprintf(
			"missing data: date(%q), url(%q), passages(%q)",
			source.DateText, source.ReferenceUrl, strings.Join(source.PassageList, "; "),
		))
	}
	return source, nil
}

// eachField calls fn with the value of every field of a json object in
// document order, map decoding would lose the order.
func eachField(object json.RawMessage, fn func(value json.RawMessage)) error {
	dec := json.NewDecoder(bytes.NewReader(object))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected an object")
	}
	for dec.More() {
		// key
		_, err := dec.Token()
		if err != nil {
			return err
		}
		var value json.RawMessage
		err = dec.Decode(&value)
		if err != nil {
			return err
		}
		fn(value)
	}
	return nil
}

// parsePassageList returns the <br> separated lines of the first rich text
// span in fragment, nil when there is no such span.
func parsePassageList(fragment string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil
	}
	span := doc.Find("span.wixui-rich-text__text").First()
	if span.Length() == 0 {
		return nil
	}

	lines := []string{}
	var current strings.Builder
	flush := func() {
		line := htmlutil.CleanText(current.String())
		if line != "" {
			lines = append(lines, line)
		}
		current.Reset()
	}
	span.Contents().Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "br" {
			flush()
			return
		}
		for _, n := range s.Nodes {
			current.WriteString(htmlutil.GetText(n))
		}
	})
	flush()

	return lines
}
