package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s for %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// PageFetcher downloads LIS pages.
type PageFetcher interface {
	MemberURL(memberCode string, year, session int) string
	FetchAmendments(ctx context.Context, memberCode string, year, session int) ([]byte, error)
	FetchPage(ctx context.Context, pageURL string) ([]byte, error)
}

type Fetcher struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	timeout    time.Duration
}

func NewFetcher(httpClient *http.Client, baseURL, userAgent string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

// MemberURL is the member request listing of one legislator, which is also
// the profile link published on their card.
func (f *Fetcher) MemberURL(memberCode string, year, session int) string {
	return fmt.Sprintf("%s/mbramendment/%d/%d/%s", f.baseURL, year, session, memberCode)
}

func (f *Fetcher) FetchAmendments(ctx context.Context, memberCode string, year, session int) ([]byte, error) {
	return f.FetchPage(ctx, f.MemberURL(memberCode, year, session))
}

func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
