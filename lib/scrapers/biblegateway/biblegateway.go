// Package biblegateway extracts a cleaned up passage out of a BibleGateway
// passage page.
package biblegateway

import (
	"context"
	"dailyreading-backend/internal/telemetry"
	"dailyreading-backend/lib/scraper"
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const (
	report_extract_passage = "extract-passage"
)

// Passage is a cleaned passage page.
type Passage struct {
	// References is the og:title with the site prefix and version suffix
	// removed, ex. "Psalm 1, Psalm 2".
	References string
	// Labels is References split into one label per passage.
	Labels []string
	// Html is the concatenation of every passage container, each one
	// preceded by its label.
	Html string
}

type Client struct {
	http *resty.Client
	tel  telemetry.API
}

func NewClient(http *resty.Client, tel telemetry.API) Client {
	return Client{
		http: http,
		tel:  telemetry.NewScopedAPI("biblegateway", tel),
	}
}

func (c Client) ExtractPassage(ctx context.Context, link string) (Passage, error) {
	ctx, span := tracer.Start(ctx, "ExtractPassage")
	defer span.End()

	doc, err := scraper.FetchDocument(ctx, c.http, link)
	if err != nil {
		span.RecordError(err)
		c.tel.ReportBroken(report_extract_passage, err, link)
		return Passage{}, err
	}
	passage, err := Parse(doc)
	if err != nil {
		span.RecordError(err)
		c.tel.ReportBroken(report_extract_passage, err, link)
		return Passage{}, err
	}
	c.tel.ReportDebug("extracted passage", passage.References, len(passage.Html))
	return passage, nil
}

func extractionError(message string) error {
	return &scraper.ExtractionError{Source: "biblegateway", Message: message}
}

// ParseReferences turns an og:title like
// "Bible Gateway passage: Psalm 1, Psalm 2 - New International Version"
// into "Psalm 1, Psalm 2" and its labels.
func ParseReferences(title string) (string, []string) {
	references := strings.ReplaceAll(title, "Bible Gateway passage: ", "")
	separator := strings.LastIndex(references, " - ")
	if separator >= 0 {
		references = references[:separator]
	}
	return references, strings.Split(references, ", ")
}

var strippedInContainer = strings.Join([]string{
	"h3",
	"h4",
	"sup.crossreference",
	"sup.footnote",
	"a.full-chap-link",
	"div.passage-other-trans",
}, ", ")

// Parse mutates doc, the output only depends on the page's markup.
func Parse(doc *goquery.Document) (Passage, error) {
	meta := doc.Find(`meta[property="og:title"]`).First()
	title, ok := meta.Attr("content")
	if !ok {
		return Passage{}, extractionError("could not find og:title meta tag")
	}
	references, labels := ParseReferences(title)

	doc.Find("div.footnotes, div.crossrefs").Remove()

	containers := doc.Find("div.passage-content")
	if containers.Length() == 0 {
		return Passage{}, extractionError(`could not parse any "passage-content" containers`)
	}

	var out strings.Builder
	var renderErr error
	containers.EachWithBreak(func(i int, container *goquery.Selection) bool {
		if i < len(labels) {
			out.WriteString("<h3>")
			out.WriteString(html.EscapeString(labels[i]))
			out.WriteString("</h3>")
		}
		container.Find(strippedInContainer).Remove()

		rendered, err := goquery.OuterHtml(container)
		if err != nil {
			renderErr = err
			return false
		}
		out.WriteString(rendered)
		return true
	})
	if renderErr != nil {
		return Passage{}, extractionError(fmt.Sprintf("render passage container: %s", renderErr.Error()))
	}

	return Passage{
		References: references,
		Labels:     labels,
		Html:       out.String(),
	}, nil
}
