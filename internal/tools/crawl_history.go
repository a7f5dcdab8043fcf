package tools

import (
	"context"
	"fmt"
	"strings"

	"seolens/internal/history"

	"github.com/mark3labs/mcp-go/mcp"
)

// CrawlHistoryTool handles the seo_crawl_history MCP tool, listing
// recent crawl runs recorded for a domain.
type CrawlHistoryTool struct {
	history *history.Store
}

// NewCrawlHistoryTool creates a CrawlHistoryTool. Unlike the crawl tool
// it requires the history store and is only registered when the store
// initialized successfully.
func NewCrawlHistoryTool(hist *history.Store) *CrawlHistoryTool {
	return &CrawlHistoryTool{history: hist}
}

// Definition returns the MCP tool definition for registration.
func (t *CrawlHistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("seo_crawl_history",
		mcp.WithDescription(
			"List recent crawl runs requested for a domain through this server, "+
				"newest first. Useful to check whether a crawl was already queued "+
				"recently before requesting another one.",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("The site's domain, e.g. 'example.com'."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of runs to return (default 10)."),
		),
	)
}

// Handle processes the seo_crawl_history tool call.
func (t *CrawlHistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, err := cleanDomain(req.GetString("domain", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("'domain' is invalid: %v", err)), nil
	}
	limit := int(req.GetFloat("limit", 10))

	runs, err := t.history.Recent(domain, limit)
	if err != nil {
		return nil, fmt.Errorf("reading crawl history for %s: %w", domain, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Crawl History: %s\n\n", domain)

	if len(runs) == 0 {
		sb.WriteString("_No crawls have been requested for this domain from this server._\n")
		return mcp.NewToolResultText(sb.String()), nil
	}

	for _, run := range runs {
		fmt.Fprintf(&sb, "- **%s** job %s", run.RequestedAt, run.JobID)
		if run.PagesQueued > 0 {
			fmt.Fprintf(&sb, ", %d pages queued", run.PagesQueued)
		}
		fmt.Fprintf(&sb, ", %d cache entries invalidated\n", run.CacheEvicted)
	}

	return mcp.NewToolResultText(sb.String()), nil
}
