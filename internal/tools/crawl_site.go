package tools

import (
	"context"
	"fmt"
	"strings"

	"seolens/internal/cache"
	"seolens/internal/history"
	"seolens/internal/logging"

	"github.com/mark3labs/mcp-go/mcp"
)

// CrawlSiteTool handles the seo_crawl_site MCP tool. It queues a fresh
// backend crawl and invalidates every cached response for the domain,
// so the next tool call reflects the new crawl instead of a stale
// window.
type CrawlSiteTool struct {
	backend Backend
	cache   *cache.Cache
	history *history.Store // nullable; crawls work without the log
	logger  *logging.AppLogger
}

// NewCrawlSiteTool creates a CrawlSiteTool with its dependencies.
// hist may be nil: the crawl still runs, it just isn't recorded.
func NewCrawlSiteTool(backend Backend, c *cache.Cache, hist *history.Store, logger *logging.AppLogger) *CrawlSiteTool {
	return &CrawlSiteTool{backend: backend, cache: c, history: hist, logger: logger}
}

// Definition returns the MCP tool definition for registration.
func (t *CrawlSiteTool) Definition() mcp.Tool {
	return mcp.NewTool("seo_crawl_site",
		mcp.WithDescription(
			"Queue a fresh crawl of a domain and drop all cached SEO data for it. "+
				"Use after deploying changes so subsequent scan/page/search calls "+
				"return fresh results. The crawl itself runs asynchronously on the "+
				"backend and can take a few minutes to complete.",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("The site's domain, e.g. 'example.com'."),
		),
	)
}

// Handle processes the seo_crawl_site tool call.
func (t *CrawlSiteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, err := cleanDomain(req.GetString("domain", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("'domain' is invalid: %v", err)), nil
	}

	job, err := t.backend.StartCrawl(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("starting crawl of %s: %w", domain, err)
	}

	// Invalidate after the crawl is accepted, not before: if the
	// backend rejects the request the cache is still valid.
	evicted := 0
	for _, category := range []string{categoryScan, categoryPage, categorySearch} {
		evicted += t.cache.DeletePattern(cache.Key(category, domain))
	}

	if t.history != nil {
		rec := history.CrawlRecord{
			Domain:       domain,
			JobID:        job.ID,
			PagesQueued:  job.PagesQueued,
			CacheEvicted: evicted,
		}
		if err := t.history.Record(rec); err != nil {
			t.logger.Warn("recording crawl history failed", "domain", domain, "error", err)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Crawl Queued: %s\n\n", domain)
	fmt.Fprintf(&sb, "- **Job:** %s (%s)\n", job.ID, job.Status)
	if job.PagesQueued > 0 {
		fmt.Fprintf(&sb, "- **Pages queued:** %d\n", job.PagesQueued)
	}
	fmt.Fprintf(&sb, "- **Cache entries invalidated:** %d\n", evicted)
	sb.WriteString("\n_Crawl results land asynchronously; re-run seo_scan_site in a few minutes._\n")

	return mcp.NewToolResultText(sb.String()), nil
}
