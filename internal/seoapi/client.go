// Package seoapi is the HTTP client for the backend SEO data service.
//
// Every method returns an explicit result type; raw response blobs never
// leave this package. Requests carry a single timeout and no retry:
// tool handlers surface backend failures directly rather than masking
// them with stale-looking retries.
package seoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the SEO data service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client for the given service endpoint.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("seoapi: HTTP %d: %s", e.StatusCode, e.Message)
}

// SiteScan is the crawl summary for a domain.
type SiteScan struct {
	Domain        string      `json:"domain"`
	PagesCrawled  int         `json:"pages_crawled"`
	HealthScore   int         `json:"health_score"`
	IssueCounts   IssueCounts `json:"issue_counts"`
	TopIssues     []Issue     `json:"top_issues"`
	LastCrawledAt time.Time   `json:"last_crawled_at"`
}

// IssueCounts groups crawl findings by severity.
type IssueCounts struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Notice   int `json:"notice"`
}

// Issue is a single crawl finding.
type Issue struct {
	Severity      string `json:"severity"`
	Title         string `json:"title"`
	AffectedPages int    `json:"affected_pages"`
}

// PageReport is the per-page SEO audit.
type PageReport struct {
	URLPath        string   `json:"url_path"`
	StatusCode     int      `json:"status_code"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Canonical      string   `json:"canonical"`
	Indexable      bool     `json:"indexable"`
	InternalLinks  int      `json:"internal_links"`
	ExternalLinks  int      `json:"external_links"`
	Issues         []Issue  `json:"issues"`
	DuplicateOf    string   `json:"duplicate_of,omitempty"`
	RedirectChain  []string `json:"redirect_chain,omitempty"`
	LoadTimeMillis int      `json:"load_time_ms"`
}

// SearchStats is search-console style performance data.
type SearchStats struct {
	Domain      string       `json:"domain"`
	URLPath     string       `json:"url_path,omitempty"`
	StartDate   string       `json:"start_date"`
	EndDate     string       `json:"end_date"`
	Clicks      int          `json:"clicks"`
	Impressions int          `json:"impressions"`
	CTR         float64      `json:"ctr"`
	AvgPosition float64      `json:"avg_position"`
	TopQueries  []QueryStats `json:"top_queries"`
}

// QueryStats is one search query's performance.
type QueryStats struct {
	Query       string  `json:"query"`
	Clicks      int     `json:"clicks"`
	Impressions int     `json:"impressions"`
	Position    float64 `json:"position"`
}

// CrawlJob is the handle returned when a fresh crawl is started.
type CrawlJob struct {
	ID           string    `json:"id"`
	Domain       string    `json:"domain"`
	Status       string    `json:"status"`
	PagesQueued  int       `json:"pages_queued"`
	RequestedAt  time.Time `json:"requested_at"`
}

// ScanSite fetches the latest crawl summary for a domain.
func (c *Client) ScanSite(ctx context.Context, domain string) (*SiteScan, error) {
	var scan SiteScan
	if err := c.get(ctx, "/sites/"+url.PathEscape(domain)+"/scan", nil, &scan); err != nil {
		return nil, err
	}
	return &scan, nil
}

// ListPages returns the known URL pathnames for a domain. The list is
// the live site inventory: it is supplied to the resolver per call and
// never cached here.
func (c *Client) ListPages(ctx context.Context, domain string) ([]string, error) {
	var resp struct {
		Pages []string `json:"pages"`
	}
	if err := c.get(ctx, "/sites/"+url.PathEscape(domain)+"/pages", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Pages, nil
}

// PageReport fetches the audit for one page of a domain.
func (c *Client) PageReport(ctx context.Context, domain, urlPath string) (*PageReport, error) {
	q := url.Values{"path": {urlPath}}
	var report PageReport
	if err := c.get(ctx, "/sites/"+url.PathEscape(domain)+"/page", q, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// SearchStats fetches search performance for a domain, optionally
// narrowed to one page, over an inclusive date range (YYYY-MM-DD).
func (c *Client) SearchStats(ctx context.Context, domain, urlPath, startDate, endDate string) (*SearchStats, error) {
	q := url.Values{
		"start_date": {startDate},
		"end_date":   {endDate},
	}
	if urlPath != "" {
		q.Set("path", urlPath)
	}
	var stats SearchStats
	if err := c.get(ctx, "/sites/"+url.PathEscape(domain)+"/search-stats", q, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// StartCrawl asks the backend to re-crawl a domain. The crawl runs
// asynchronously; the returned job describes what was queued.
func (c *Client) StartCrawl(ctx context.Context, domain string) (*CrawlJob, error) {
	var job CrawlJob
	if err := c.do(ctx, http.MethodPost, "/sites/"+url.PathEscape(domain)+"/crawl", nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return fmt.Errorf("seoapi: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", "seolens")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("seoapi: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("seoapi: decoding %s response: %w", path, err)
	}
	return nil
}

// readErrorMessage extracts the backend's error message, falling back
// to the raw (truncated) body when it isn't the usual JSON shape.
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return "no response body"
	}

	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &e) == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	return strings.TrimSpace(string(data))
}
