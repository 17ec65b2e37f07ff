package biblegateway

import (
	"bytes"
	"context"
	"dailyreading-backend/internal/telemetry"
	"dailyreading-backend/lib/scraper"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	_ "embed"
)

//go:embed testdata/psalm-1-2.html
var psalmPage []byte

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"))
}

func parse(t testing.TB, page string) (Passage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return Parse(doc)
}

func requireExtractionError(t testing.TB, err error, contains string) {
	var target *scraper.ExtractionError
	require.ErrorAs(t, err, &target)
	require.Equal(t, "biblegateway", target.Source)
	require.Contains(t, err.Error(), contains)
}

func TestParseExact(t *testing.T) {
	page := `<html><head>` +
		`<meta property="og:title" content="Bible Gateway passage: Psalm 1, Psalm 2 - New International Version"/>` +
		`</head><body>` +
		`<div class="passage-content"><h3>Psalm 1</h3><p><span class="text">Blessed<sup class="crossreference">(A)</sup> is the one<sup class="footnote">[a]</sup></span></p><a class="full-chap-link" href="/x">Read full chapter</a></div>` +
		`<div class="passage-content"><h4>Book One</h4><p><span class="text">Why do the nations</span></p><div class="passage-other-trans">in all versions</div></div>` +
		`<div class="footnotes"><p>Footnotes</p></div><div class="crossrefs"><p>Cross references</p></div>` +
		`</body></html>`

	passage, err := parse(t, page)
	require.NoError(t, err)
	require.Equal(t, "Psalm 1, Psalm 2", passage.References)
	require.Equal(t, []string{"Psalm 1", "Psalm 2"}, passage.Labels)
	require.Equal(t,
		`<h3>Psalm 1</h3><div class="passage-content"><p><span class="text">Blessed is the one</span></p></div>`+
			`<h3>Psalm 2</h3><div class="passage-content"><p><span class="text">Why do the nations</span></p></div>`,
		passage.Html,
	)
}

func TestParsePage(t *testing.T) {
	passage, err := parse(t, string(psalmPage))
	require.NoError(t, err)
	require.Equal(t, []string{"Psalm 1", "Psalm 2"}, passage.Labels)

	require.True(t, strings.HasPrefix(passage.Html, "<h3>Psalm 1</h3>"))
	require.Equal(t, 2, strings.Count(passage.Html, "<h3>"))
	require.Contains(t, passage.Html, "Blessed is the one")
	require.Contains(t, passage.Html, "Why do the nations conspire")
	require.Contains(t, passage.Html, `<sup class="versenum">`)

	for _, removed := range []string{
		"<h4>",
		"Book I",
		"crossreference",
		`class="footnote"`,
		"footnotes",
		"crossrefs",
		"full-chap-link",
		"Read full chapter",
		"passage-other-trans",
	} {
		require.NotContains(t, passage.Html, removed)
	}
}

func TestParseIdempotent(t *testing.T) {
	first, err := parse(t, string(psalmPage))
	require.NoError(t, err)
	second, err := parse(t, string(psalmPage))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestParseExtraContainers(t *testing.T) {
	passage, err := parse(t, `<html><head>`+
		`<meta property="og:title" content="Bible Gateway passage: John 3 - NIV">`+
		`</head><body>`+
		`<div class="passage-content"><p>For God so loved the world</p></div>`+
		`<div class="passage-content"><p>an extra container</p></div>`+
		`</body></html>`)
	require.NoError(t, err)
	require.Equal(t, []string{"John 3"}, passage.Labels)
	require.Equal(t,
		`<h3>John 3</h3><div class="passage-content"><p>For God so loved the world</p></div>`+
			`<div class="passage-content"><p>an extra container</p></div>`,
		passage.Html,
	)
}

func TestParseEscapesLabels(t *testing.T) {
	passage, err := parse(t, `<html><head>`+
		`<meta property="og:title" content="Bible Gateway passage: Song of Songs 1 &amp; 2 - NIV">`+
		`</head><body><div class="passage-content"><p>text</p></div></body></html>`)
	require.NoError(t, err)
	require.Equal(t, "Song of Songs 1 & 2", passage.References)
	require.True(t, strings.HasPrefix(passage.Html, "<h3>Song of Songs 1 &amp; 2</h3>"))
}

func TestParseMissingMarkup(t *testing.T) {
	_, err := parse(t, `<html><head></head><body><div class="passage-content"><p>text</p></div></body></html>`)
	requireExtractionError(t, err, "og:title")

	_, err = parse(t, `<html><head>`+
		`<meta property="og:title" content="Bible Gateway passage: John 3 - NIV">`+
		`</head><body><p>No results found.</p></body></html>`)
	requireExtractionError(t, err, "passage-content")
}

func TestParseReferences(t *testing.T) {
	testCases := []struct {
		title      string
		references string
		labels     []string
	}{
		{
			title:      "Bible Gateway passage: Psalm 1, Psalm 2 - New International Version",
			references: "Psalm 1, Psalm 2",
			labels:     []string{"Psalm 1", "Psalm 2"},
		},
		{
			title:      "Bible Gateway passage: 2 Samuel 1-2 - New International Version",
			references: "2 Samuel 1-2",
			labels:     []string{"2 Samuel 1-2"},
		},
		{
			title:      "Bible Gateway passage: Genesis 1 - Genesis 2 - NIV",
			references: "Genesis 1 - Genesis 2",
			labels:     []string{"Genesis 1 - Genesis 2"},
		},
		{
			title:      "John 3",
			references: "John 3",
			labels:     []string{"John 3"},
		},
	}
	for _, test := range testCases {
		references, labels := ParseReferences(test.title)
		require.Equal(t, test.references, references, test.title)
		require.Equal(t, test.labels, labels, test.title)
	}
}

func TestClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("version") != "NIV" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(psalmPage)
	}))
	defer server.Close()

	tel := &telemetry.Recorder{}
	client := NewClient(scraper.NewClient(scraper.ClientOptions{Name: "test", Timeout: 5 * time.Second}), tel)

	passage, err := client.ExtractPassage(context.Background(), server.URL+"/passage/?search=Psalm+1&version=NIV")
	require.NoError(t, err)
	expected, err := Parse(mustDocument(t, psalmPage))
	require.NoError(t, err)
	require.Equal(t, expected, passage)

	_, err = client.ExtractPassage(context.Background(), server.URL+"/passage/?search=Psalm+1&version=ESV")
	var fetchErr *scraper.UpstreamFetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, http.StatusInternalServerError, fetchErr.Status)
	require.Len(t, tel.Find("broken", "biblegateway:"+report_extract_passage), 1)

	server.CloseClientConnections()
}

func mustDocument(t testing.TB, page []byte) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	require.NoError(t, err)
	return doc
}
