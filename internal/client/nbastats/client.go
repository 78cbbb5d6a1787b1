package nbastats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultStatsURL = "https://stats.nba.com"
	DefaultLiveURL  = "https://cdn.nba.com/static/json/liveData"
)

// Client talks to the NBA stats endpoints. It is the only networked
// collaborator of the settlement core, so bounded retry/backoff lives here
// and nowhere downstream.
type Client struct {
	statsHost    string
	liveHost     string
	httpClient   *http.Client
	retryCount   int
	retryBackoff time.Duration
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, statsHost, liveHost string, retryCount int, retryBackoff time.Duration) *Client {
	if statsHost == "" {
		statsHost = DefaultStatsURL
	}
	if liveHost == "" {
		liveHost = DefaultLiveURL
	}
	if retryCount < 0 {
		retryCount = 0
	}
	if retryBackoff <= 0 {
		retryBackoff = 2 * time.Second
	}
	return &Client{
		statsHost:    strings.TrimRight(statsHost, "/"),
		liveHost:     strings.TrimRight(liveHost, "/"),
		httpClient:   httpClient,
		retryCount:   retryCount,
		retryBackoff: retryBackoff,
	}
}

// stats.nba.com rejects requests without browser-ish headers.
func statsHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("Referer", "https://www.nba.com/")
}

func (c *Client) doRequest(ctx context.Context, host, path string, query url.Values) ([]byte, error) {
	fullURL := host + path
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryBackoff * time.Duration(attempt)):
			}
		}
		body, retryable, err := c.doOnce(ctx, fullURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, fullURL string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	statsHeaders(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode, Body: string(body)}
		return nil, resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests, apiErr
	}
	return body, false, nil
}
