package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds each upstream request.
	DefaultTimeout = 10 * time.Second

	// maxBodyBytes caps how much of an upstream response is read.
	maxBodyBytes = 1 << 20
)

var (
	// ErrUnexpectedStatus is returned for any non-2xx upstream response.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrUnrecognizedGrade is returned when a grade document was fetched
	// but its grade is not one of types.Grades.
	ErrUnrecognizedGrade = errors.New("unrecognized grade")
)

// Fetcher performs one GET of url and returns the status code and body.
// Implementations must honour ctx cancellation.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (status int, body []byte, err error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) (int, []byte, error)

// Fetch calls f(ctx, url).
func (f FetcherFunc) Fetch(ctx context.Context, url string) (int, []byte, error) {
	return f(ctx, url)
}

// userAgentRoundTripper stamps the identifying User-Agent on every request.
type userAgentRoundTripper struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}

// NewHTTPClient builds the process-wide upstream client. It is safe for
// concurrent use across scrapes.
func NewHTTPClient(userAgent string, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Transport: &userAgentRoundTripper{
			base:      http.DefaultTransport.(*http.Transport).Clone(),
			userAgent: userAgent,
		},
		Timeout: timeout,
	}
}

// HTTPFetcher is a Fetcher backed by an *http.Client.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher returns a Fetcher using client.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

// Fetch performs an HTTP GET to url and returns the status and body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return resp.StatusCode, nil, fmt.Errorf("response body exceeds %d bytes", maxBodyBytes)
	}
	return resp.StatusCode, body, nil
}

// getJSON fetches url within timeout, requires a 2xx status and decodes the
// body into v.
func getJSON(ctx context.Context, f Fetcher, url string, timeout time.Duration, v any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	status, body, err := f.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("http get: %w", err)
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("%w %d", ErrUnexpectedStatus, status)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}
