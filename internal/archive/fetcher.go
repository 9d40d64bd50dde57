package archive

import (
	"context"
	"fmt"
)

// Fetcher retrieves the raw body of a URL. Implementations apply their own
// timeout and headers and return a *FetchError for network or HTTP failures;
// they never retry.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetchError is the typed failure returned by a Fetcher. StatusCode is zero
// when the failure happened below the HTTP layer (DNS, dial, timeout).
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
