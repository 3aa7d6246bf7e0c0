package jwks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxDocumentBytes bounds the JWKS response body. Real key sets are a few KiB.
const maxDocumentBytes = 1 << 20

// Fetcher retrieves the raw JWKS document at url.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// AgedFetcher is a Fetcher that may return a stored document. It reports
// when the document was fetched from the provider and never returns one
// fetched before notBefore. The Cache dates its entry from that time.
type AgedFetcher interface {
	Fetcher
	FetchSince(ctx context.Context, url string, notBefore time.Time) ([]byte, time.Time, error)
}

// HTTPFetcher fetches the document with a plain GET.
type HTTPFetcher struct {
	Client *http.Client
}

// Fetch implements Fetcher. All failures are *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDocumentBytes))
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	doc, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	return doc, nil
}
