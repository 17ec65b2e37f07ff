// Package sjcac scrapes the SJCAC "Through the Word" announcement page for the
// day's date and the link to the day's passage.
package sjcac

import (
	"net/url"
	"strings"
)

const DefaultUrl = "https://www.sjcac.org/twa/"

// Source is what the announcement page says about today's reading.
type Source struct {
	// DateText is the date as written on the page, ex. "Wed, Nov 12".
	DateText string
	// ReferenceUrl links to the passage page.
	ReferenceUrl string
	// PassageList is the list of citations shown on the page, it is only
	// populated by the warmup strategy.
	PassageList []string
}

// LinkRule decides which link on the page points at the passage site.
type LinkRule struct {
	// Host must be contained in the link's host, ex. "biblegateway.com".
	Host string
	// Version must equal the link's `version` query parameter, ex. "NIV".
	Version string
}

func DefaultLinkRule() LinkRule {
	return LinkRule{Host: "biblegateway.com", Version: "NIV"}
}

func (r LinkRule) Matches(href string) bool {
	link, err := url.Parse(href)
	if err != nil || link.Host == "" {
		return false
	}
	return strings.Contains(link.Host, r.Host) &&
		link.Query().Get("version") == r.Version
}

var weekdayTokens = []string{"Mon,", "Tue,", "Wed,", "Thu,", "Fri,", "Sat,", "Sun,"}

func looksLikeDate(text string) bool {
	for _, token := range weekdayTokens {
		if strings.Contains(text, token) {
			return true
		}
	}
	return false
}
