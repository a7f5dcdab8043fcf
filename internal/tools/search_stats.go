package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"seolens/internal/cache"
	"seolens/internal/seoapi"

	"github.com/mark3labs/mcp-go/mcp"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// SearchStatsTool handles the seo_search_stats MCP tool. Search
// performance data changes faster than crawl data, so results are
// cached with the shorter search TTL.
type SearchStatsTool struct {
	backend Backend
	cache   *cache.Cache
	ttl     time.Duration
}

// NewSearchStatsTool creates a SearchStatsTool with its dependencies.
func NewSearchStatsTool(backend Backend, c *cache.Cache, ttl time.Duration) *SearchStatsTool {
	return &SearchStatsTool{backend: backend, cache: c, ttl: ttl}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchStatsTool) Definition() mcp.Tool {
	return mcp.NewTool("seo_search_stats",
		mcp.WithDescription(
			"Get search performance for a domain over a date range: clicks, "+
				"impressions, CTR, average position, and the top queries. "+
				"Optionally narrowed to a single page via url_path.",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("The site's domain, e.g. 'example.com'."),
		),
		mcp.WithString("start_date",
			mcp.Required(),
			mcp.Description("Range start, YYYY-MM-DD."),
		),
		mcp.WithString("end_date",
			mcp.Required(),
			mcp.Description("Range end (inclusive), YYYY-MM-DD."),
		),
		mcp.WithString("url_path",
			mcp.Description("Optional URL path to narrow the stats to one page, e.g. '/pricing'."),
		),
	)
}

// Handle processes the seo_search_stats tool call.
func (t *SearchStatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, err := cleanDomain(req.GetString("domain", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("'domain' is invalid: %v", err)), nil
	}

	startDate := strings.TrimSpace(req.GetString("start_date", ""))
	endDate := strings.TrimSpace(req.GetString("end_date", ""))
	if !dateRe.MatchString(startDate) || !dateRe.MatchString(endDate) {
		return mcp.NewToolResultError("'start_date' and 'end_date' must be YYYY-MM-DD"), nil
	}
	if endDate < startDate {
		return mcp.NewToolResultError("'end_date' must not be before 'start_date'"), nil
	}

	urlPath := strings.TrimSpace(req.GetString("url_path", ""))

	// Discriminator order is fixed: path, then range. The same tuple
	// always lands on the same key.
	key := cache.Key(categorySearch, domain, urlPath, startDate, endDate)
	if v, ok := t.cache.Get(key); ok {
		return mcp.NewToolResultText(v.(string) + cachedNote), nil
	}

	stats, err := t.backend.SearchStats(ctx, domain, urlPath, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("fetching search stats for %s: %w", domain, err)
	}

	out := formatSearchStats(domain, urlPath, startDate, endDate, stats)
	t.cache.SetTTL(key, out, t.ttl)

	return mcp.NewToolResultText(out), nil
}

func formatSearchStats(domain, urlPath, startDate, endDate string, stats *seoapi.SearchStats) string {
	var sb strings.Builder

	scope := domain
	if urlPath != "" {
		scope += urlPath
	}
	fmt.Fprintf(&sb, "# Search Performance: %s\n\n", scope)
	fmt.Fprintf(&sb, "Range: %s to %s\n\n", startDate, endDate)

	fmt.Fprintf(&sb, "- **Clicks:** %d\n", stats.Clicks)
	fmt.Fprintf(&sb, "- **Impressions:** %d\n", stats.Impressions)
	fmt.Fprintf(&sb, "- **CTR:** %.2f%%\n", stats.CTR*100)
	fmt.Fprintf(&sb, "- **Average position:** %.1f\n\n", stats.AvgPosition)

	sb.WriteString("## Top Queries\n\n")
	if len(stats.TopQueries) == 0 {
		sb.WriteString("_No query data for this range._\n")
		return sb.String()
	}

	sb.WriteString("| Query | Clicks | Impressions | Position |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, q := range stats.TopQueries {
		fmt.Fprintf(&sb, "| %s | %d | %d | %.1f |\n", q.Query, q.Clicks, q.Impressions, q.Position)
	}

	return sb.String()
}
