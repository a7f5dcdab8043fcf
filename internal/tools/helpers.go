// Package tools implements the MCP tool handlers exposed to the
// assistant.
//
// Each tool is one file: a struct holding its dependencies, a
// Definition() returning the mcp-go tool schema, and a Handle method.
// Tools depend on the Backend interface rather than the concrete
// seoapi client so tests can substitute a fake.
//
// Responses are markdown shaped for LLM consumption. Routine "nothing
// found" conditions (unresolvable file path, ambiguous match, cache
// miss) are normal results, never Go errors.
package tools

import (
	"context"
	"fmt"
	"strings"

	"seolens/internal/seoapi"
)

// Backend is the slice of the SEO data service the tools consume.
type Backend interface {
	ScanSite(ctx context.Context, domain string) (*seoapi.SiteScan, error)
	ListPages(ctx context.Context, domain string) ([]string, error)
	PageReport(ctx context.Context, domain, urlPath string) (*seoapi.PageReport, error)
	SearchStats(ctx context.Context, domain, urlPath, startDate, endDate string) (*seoapi.SearchStats, error)
	StartCrawl(ctx context.Context, domain string) (*seoapi.CrawlJob, error)
}

// Cache categories. The category is the first key component, so these
// strings are also the invalidation namespaces for a domain.
const (
	categoryScan   = "scan"
	categoryPage   = "page"
	categorySearch = "search"
)

// cleanDomain normalizes user-supplied domain input: scheme, path and
// trailing dots are stripped, the host is lowercased. Returns an error
// for input that cannot name a host.
func cleanDomain(raw string) (string, error) {
	d := strings.TrimSpace(raw)
	for _, prefix := range []string{"https://", "http://"} {
		d = strings.TrimPrefix(d, prefix)
	}
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	d = strings.TrimSuffix(strings.ToLower(d), ".")

	if d == "" || strings.ContainsAny(d, " :") || !strings.Contains(d, ".") {
		return "", fmt.Errorf("%q is not a valid domain", raw)
	}
	return d, nil
}

// writeIssues renders a crawl issue list as markdown bullets.
func writeIssues(sb *strings.Builder, issues []seoapi.Issue) {
	if len(issues) == 0 {
		sb.WriteString("_No issues found._\n")
		return
	}
	for _, issue := range issues {
		fmt.Fprintf(sb, "- **[%s]** %s (%d pages affected)\n",
			strings.ToUpper(issue.Severity), issue.Title, issue.AffectedPages)
	}
}

// cachedNote marks a response that was served from cache so the
// assistant knows the data's freshness is bounded by the TTL.
const cachedNote = "\n_Served from cache; run seo_crawl_site to force fresh data._\n"
