// Package daykey turns server clock times and scraped "Wed, Nov 12" style
// date strings into year-independent cache keys.
package daykey

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// placeholderYear only exists to satisfy calendar parsing, it is a leap
// year so that Feb 29 is accepted.
const placeholderYear = 2000

// Day is a calendar day without a year.
type Day struct {
	Month time.Month
	Day   int
}

func (d Day) date() time.Time {
	return time.Date(placeholderYear, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Key returns the fixed width "MM-DD" cache key.
func (d Day) Key() string {
	return d.date().Format("01-02")
}

// Formatted returns the long form date, ex. "November 12".
func (d Day) Formatted() string {
	return d.date().Format("January 2")
}

func (d Day) String() string {
	return d.Key()
}

// FromTime returns the day of t in t's location.
func FromTime(t time.Time) Day {
	return Day{Month: t.Month(), Day: t.Day()}
}

// ParseError means a date string did not match the expected
// "<weekday>, <month> <day>" pattern.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unrecognized date %q: %s", e.Text, e.Reason)
}

// ConsistencyError means the day scraped from upstream is not the day the
// server clock says it is.
type ConsistencyError struct {
	Scraped  Day
	Expected Day
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf(
		"scraped date %s (%s) does not match today %s (%s)",
		e.Scraped.Key(), e.Scraped.Formatted(),
		e.Expected.Key(), e.Expected.Formatted(),
	)
}

var datePattern = regexp.MustCompile(`^([A-Za-z]+)\.?,\s*([A-Za-z]+)\.?\s+(\d{1,2})(?:,\s*\d{4})?$`)

var weekdays = map[string]bool{
	"mon": true, "tue": true, "wed": true, "thu": true,
	"fri": true, "sat": true, "sun": true,
}

func isWeekday(s string) bool {
	s = strings.ToLower(s)
	if len(s) < 3 || !weekdays[s[:3]] {
		return false
	}
	if len(s) == 3 {
		return true
	}
	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.ToLower(day.String()) == s {
			return true
		}
	}
	// "Tues", "Thurs"
	return s == "tues" || s == "thur" || s == "thurs"
}

func parseMonth(s string) (time.Month, bool) {
	for _, layout := range []string{"Jan", "January"} {
		t, err := time.Parse(layout, strings.ToUpper(s[:1])+strings.ToLower(s[1:]))
		if err == nil {
			return t.Month(), true
		}
	}
	// "Sept"
	if strings.EqualFold(s, "sept") {
		return time.September, true
	}
	return 0, false
}

// Parse reads a scraped date like "Wed, Nov 12". Any trailing year is ignored.
func Parse(text string) (Day, error) {
	trimmed := strings.TrimSpace(text)
	groups := datePattern.FindStringSubmatch(trimmed)
	if groups == nil {
		return Day{}, &ParseError{Text: text, Reason: "expected \"<weekday>, <month> <day>\""}
	}
	if !isWeekday(groups[1]) {
		return Day{}, &ParseError{Text: text, Reason: fmt.Sprintf("unknown weekday %q", groups[1])}
	}
	month, ok := parseMonth(groups[2])
	if !ok {
		return Day{}, &ParseError{Text: text, Reason: fmt.Sprintf("unknown month %q", groups[2])}
	}
	day, err := strconv.Atoi(groups[3])
	if err != nil {
		return Day{}, &ParseError{Text: text, Reason: err.Error()}
	}

	// round trip through the calendar to reject days like Nov 31
	date := time.Date(placeholderYear, month, day, 0, 0, 0, 0, time.UTC)
	if date.Month() != month || date.Day() != day {
		return Day{}, &ParseError{Text: text, Reason: fmt.Sprintf("%s has no day %d", month, day)}
	}
	return Day{Month: month, Day: day}, nil
}

// ParseKey validates an "MM-DD" cache key.
func ParseKey(key string) (Day, error) {
	t, err := time.Parse("01-02 2006", key+" 2000")
	if err != nil || len(key) != 5 {
		return Day{}, &ParseError{Text: key, Reason: "expected \"MM-DD\""}
	}
	return FromTime(t), nil
}

// Verify returns a *ConsistencyError when scraped and expected are not the same day.
func Verify(scraped, expected Day) error {
	if scraped != expected {
		return &ConsistencyError{Scraped: scraped, Expected: expected}
	}
	return nil
}
