package tools

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"seolens/internal/cache"
	"seolens/internal/pagemeta"
	"seolens/internal/resolver"
	"seolens/internal/seoapi"

	"github.com/mark3labs/mcp-go/mcp"
)

// PageContextTool handles the seo_page_context MCP tool. Given either a
// URL path or a local source file, it identifies the live page and
// merges the backend's audit data with the page's current HTML signals.
type PageContextTool struct {
	backend Backend
	cache   *cache.Cache

	// fetchMeta is overridable in tests; the default fetches the live
	// page over HTTPS.
	fetchMeta func(ctx context.Context, pageURL string) (*pagemeta.Meta, error)
}

// NewPageContextTool creates a PageContextTool with its dependencies.
func NewPageContextTool(backend Backend, c *cache.Cache, timeout time.Duration) *PageContextTool {
	httpClient := &http.Client{Timeout: timeout}
	return &PageContextTool{
		backend: backend,
		cache:   c,
		fetchMeta: func(ctx context.Context, pageURL string) (*pagemeta.Meta, error) {
			return pagemeta.Fetch(ctx, httpClient, pageURL)
		},
	}
}

// Definition returns the MCP tool definition for registration.
func (t *PageContextTool) Definition() mcp.Tool {
	return mcp.NewTool("seo_page_context",
		mcp.WithDescription(
			"Get the full SEO context for one page of a site: the backend audit "+
				"(status, indexability, links, issues) merged with what the live "+
				"page currently serves (title, meta description, canonical, "+
				"headings, schema.org types). Identify the page either by its "+
				"url_path or by file_path, the local source file the developer "+
				"has open; the server maps the file to the page it serves.",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("The site's domain, e.g. 'example.com'."),
		),
		mcp.WithString("url_path",
			mcp.Description("URL path of the page, e.g. '/pricing'. Takes precedence over file_path when both are given."),
		),
		mcp.WithString("file_path",
			mcp.Description("Local project file path, e.g. 'src/app/pricing/page.tsx'. Resolved to a URL path via framework routing conventions."),
		),
	)
}

// Handle processes the seo_page_context tool call.
func (t *PageContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, err := cleanDomain(req.GetString("domain", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("'domain' is invalid: %v", err)), nil
	}

	urlPath := strings.TrimSpace(req.GetString("url_path", ""))
	filePath := strings.TrimSpace(req.GetString("file_path", ""))
	if urlPath == "" && filePath == "" {
		return mcp.NewToolResultError("provide either 'url_path' or 'file_path'"), nil
	}

	var resolveNote string
	if urlPath == "" {
		urlPath, resolveNote, err = t.resolveFile(ctx, domain, filePath)
		if err != nil {
			return nil, err
		}
		if urlPath == "" {
			return mcp.NewToolResultError(fmt.Sprintf(
				"could not map %q to a page of %s: the file is outside any recognized "+
					"routing convention (app/, pages/, routes/). Pass 'url_path' directly.",
				filePath, domain)), nil
		}
	}

	key := cache.Key(categoryPage, domain, urlPath)
	if v, ok := t.cache.Get(key); ok {
		return mcp.NewToolResultText(resolveNote + v.(string) + cachedNote), nil
	}

	report, err := t.backend.PageReport(ctx, domain, urlPath)
	if err != nil {
		return nil, fmt.Errorf("fetching page report for %s%s: %w", domain, urlPath, err)
	}

	// Live page fetch is best-effort: a page that is temporarily down
	// still has useful audit data.
	var meta *pagemeta.Meta
	if m, metaErr := t.fetchMeta(ctx, "https://"+domain+urlPath); metaErr == nil {
		meta = m
	}

	out := formatPageContext(domain, urlPath, report, meta)
	t.cache.Set(key, out)

	return mcp.NewToolResultText(resolveNote + out), nil
}

// resolveFile maps a source file to a URL path using routing
// conventions, then narrows the result against the site's live page
// inventory. The returned note tells the assistant how the mapping was
// made; an empty path means the file resolved to nothing.
func (t *PageContextTool) resolveFile(ctx context.Context, domain, filePath string) (urlPath, note string, err error) {
	resolved := resolver.Resolve(filePath)
	if resolved == nil {
		return "", "", nil
	}

	known, err := t.backend.ListPages(ctx, domain)
	if err != nil {
		return "", "", fmt.Errorf("listing pages of %s: %w", domain, err)
	}

	if match := resolver.FindMatch(resolved.URLPath, known); match != "" {
		note = fmt.Sprintf("_%s resolved to `%s` (confidence: %s)._\n\n", filePath, match, resolved.Confidence)
		return match, note, nil
	}

	// No unambiguous inventory match: fall back to the convention-derived
	// path and say so, rather than guessing among candidates.
	note = fmt.Sprintf(
		"_%s resolved to `%s` (confidence: %s) but no unambiguous match was found "+
			"in the site's crawled pages; data below is for the resolved path as-is._\n\n",
		filePath, resolved.URLPath, resolved.Confidence)
	return resolved.URLPath, note, nil
}

func formatPageContext(domain, urlPath string, report *seoapi.PageReport, meta *pagemeta.Meta) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Page Context: %s%s\n\n", domain, urlPath)

	sb.WriteString("## Crawl Audit\n\n")
	fmt.Fprintf(&sb, "- **Status:** %d\n", report.StatusCode)
	fmt.Fprintf(&sb, "- **Indexable:** %t\n", report.Indexable)
	fmt.Fprintf(&sb, "- **Links:** %d internal, %d external\n", report.InternalLinks, report.ExternalLinks)
	if report.LoadTimeMillis > 0 {
		fmt.Fprintf(&sb, "- **Load time:** %dms\n", report.LoadTimeMillis)
	}
	if report.DuplicateOf != "" {
		fmt.Fprintf(&sb, "- **Duplicate of:** %s\n", report.DuplicateOf)
	}
	if len(report.RedirectChain) > 0 {
		fmt.Fprintf(&sb, "- **Redirect chain:** %s\n", strings.Join(report.RedirectChain, " -> "))
	}
	sb.WriteString("\n### Issues\n\n")
	writeIssues(&sb, report.Issues)

	sb.WriteString("\n## Live Page\n\n")
	if meta == nil {
		sb.WriteString("_Live page could not be fetched; audit data above may be stale._\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "- **Title:** %s\n", orNone(meta.Title))
	fmt.Fprintf(&sb, "- **Meta description:** %s\n", orNone(meta.Description))
	fmt.Fprintf(&sb, "- **Canonical:** %s\n", orNone(meta.Canonical))
	if meta.Robots != "" {
		fmt.Fprintf(&sb, "- **Robots:** %s\n", meta.Robots)
	}
	fmt.Fprintf(&sb, "- **Word count:** ~%d\n", meta.WordCount)

	switch len(meta.H1s) {
	case 0:
		sb.WriteString("- **H1:** _none_\n")
	case 1:
		fmt.Fprintf(&sb, "- **H1:** %s\n", meta.H1s[0])
	default:
		fmt.Fprintf(&sb, "- **H1:** %d headings (%s)\n", len(meta.H1s), strings.Join(meta.H1s, "; "))
	}

	if len(meta.SchemaTypes) > 0 {
		fmt.Fprintf(&sb, "- **Schema.org types:** %s\n", strings.Join(meta.SchemaTypes, ", "))
	} else {
		sb.WriteString("- **Schema.org types:** _none_\n")
	}

	// Cross-check: crawl title vs live title drift is a common source
	// of confusion when a deploy happened after the last crawl.
	if report.Title != "" && meta.Title != "" && report.Title != meta.Title {
		fmt.Fprintf(&sb, "\n_Note: the live title differs from the last crawl (%q); the site changed since the crawl._\n", report.Title)
	}

	return sb.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "_missing_"
	}
	return s
}
