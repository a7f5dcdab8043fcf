package tools

import (
	"context"
	"fmt"
	"strings"

	"seolens/internal/cache"
	"seolens/internal/seoapi"

	"github.com/mark3labs/mcp-go/mcp"
)

// ScanSiteTool handles the seo_scan_site MCP tool. It returns the
// latest crawl summary for a domain, cached for the default TTL.
type ScanSiteTool struct {
	backend Backend
	cache   *cache.Cache
}

// NewScanSiteTool creates a ScanSiteTool with its dependencies.
func NewScanSiteTool(backend Backend, c *cache.Cache) *ScanSiteTool {
	return &ScanSiteTool{backend: backend, cache: c}
}

// Definition returns the MCP tool definition for registration.
func (t *ScanSiteTool) Definition() mcp.Tool {
	return mcp.NewTool("seo_scan_site",
		mcp.WithDescription(
			"Get the site-wide SEO health summary for a domain: pages crawled, "+
				"health score, and the top issues grouped by severity. Use this "+
				"first to understand the overall state of a site before drilling "+
				"into individual pages.",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("The site's domain, e.g. 'example.com'. A full URL is accepted and reduced to its host."),
		),
	)
}

// Handle processes the seo_scan_site tool call.
func (t *ScanSiteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, err := cleanDomain(req.GetString("domain", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("'domain' is invalid: %v", err)), nil
	}

	key := cache.Key(categoryScan, domain)
	if v, ok := t.cache.Get(key); ok {
		return mcp.NewToolResultText(v.(string) + cachedNote), nil
	}

	scan, err := t.backend.ScanSite(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", domain, err)
	}

	report := formatSiteScan(scan)
	t.cache.Set(key, report)

	return mcp.NewToolResultText(report), nil
}

func formatSiteScan(scan *seoapi.SiteScan) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Site Scan: %s\n\n", scan.Domain)
	fmt.Fprintf(&sb, "- **Health score:** %d/100\n", scan.HealthScore)
	fmt.Fprintf(&sb, "- **Pages crawled:** %d\n", scan.PagesCrawled)
	if !scan.LastCrawledAt.IsZero() {
		fmt.Fprintf(&sb, "- **Last crawled:** %s\n", scan.LastCrawledAt.Format("2006-01-02 15:04 MST"))
	}
	fmt.Fprintf(&sb, "- **Issues:** %d critical, %d warnings, %d notices\n\n",
		scan.IssueCounts.Critical, scan.IssueCounts.Warning, scan.IssueCounts.Notice)

	sb.WriteString("## Top Issues\n\n")
	writeIssues(&sb, scan.TopIssues)

	return sb.String()
}
