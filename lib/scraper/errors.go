package scraper

import "fmt"

// ExtractionError means the upstream page was fetched but the expected
// markup or field could not be found in it.
type ExtractionError struct {
	Source  string
	Message string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %s", e.Source, e.Message)
}

// UpstreamFetchError means an upstream page could not be fetched, either the
// request itself failed (Err) or the server answered with a non-2xx Status.
type UpstreamFetchError struct {
	Url    string
	Status int
	Err    error
}

func (e *UpstreamFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s", e.Url, e.Err.Error())
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.Url, e.Status)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}
