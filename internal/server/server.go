// Package server wires all MCP components and creates the server
// instance.
//
// This is the composition root: it builds the cache, the backend
// client, and the optional history store, and injects them into the
// tool handlers. No business logic lives here, only wiring.
package server

import (
	"seolens/internal/cache"
	"seolens/internal/config"
	"seolens/internal/history"
	"seolens/internal/logging"
	"seolens/internal/seoapi"
	"seolens/internal/tools"

	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools registered.
// The returned cleanup function closes the history store's database
// connection and must be called on shutdown (typically via defer). It
// is always non-nil and safe to call even if history init failed.
func New(cfg *config.Config, logger *logging.AppLogger) (*server.MCPServer, func(), error) {
	// --- Shared dependencies ---
	//
	// One cache instance for the whole process, constructed here with
	// the configured default TTL and passed to every tool that needs
	// it. Nothing reaches it as ambient global state.
	responseCache := cache.New(cfg.CacheTTL())

	backend := seoapi.NewClient(cfg.APIBaseURL, cfg.APIKey, cfg.RequestTimeout())

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"seolens",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register SEO tools ---

	scanTool := tools.NewScanSiteTool(backend, responseCache)
	s.AddTool(scanTool.Definition(), scanTool.Handle)

	pageTool := tools.NewPageContextTool(backend, responseCache, cfg.RequestTimeout())
	s.AddTool(pageTool.Definition(), pageTool.Handle)

	searchTool := tools.NewSearchStatsTool(backend, responseCache, cfg.SearchTTL())
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	resolveTool := tools.NewResolvePathTool(backend)
	s.AddTool(resolveTool.Definition(), resolveTool.Handle)

	// --- Crawl tools ---
	//
	// Crawl history is an independent subsystem: if sqlite fails to
	// initialize, crawling and invalidation keep working and only the
	// history log is disabled.

	cleanup := noop
	hist, histErr := history.Open(cfg.DataDir)
	if histErr != nil {
		logger.Warn("crawl history disabled", "error", histErr)
		hist = nil
	} else {
		cleanup = func() {
			if err := hist.Close(); err != nil {
				logger.Warn("closing history store", "error", err)
			}
		}

		historyTool := tools.NewCrawlHistoryTool(hist)
		s.AddTool(historyTool.Definition(), historyTool.Handle)
	}

	// Crawl tool registered unconditionally; it tolerates a nil store.
	crawlTool := tools.NewCrawlSiteTool(backend, responseCache, hist, logger)
	s.AddTool(crawlTool.Definition(), crawlTool.Handle)

	return s, cleanup, nil
}

// noop is the default cleanup when history is disabled.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use seolens effectively.
func serverInstructions() string {
	return `You have access to seolens, an SEO analysis MCP server.

## WHEN TO USE seolens

Reach for these tools when the user:
- Works on a page component and asks about its SEO, rankings, or traffic
- Asks "how is this site / this page doing in search?"
- Wants to check titles, meta descriptions, canonicals, or structured data
- Has just deployed SEO-relevant changes and wants fresh data

## TOOLS AND FLOW

1. seo_scan_site: start here for the site-wide picture, a health score
   and the top issues for a domain.
2. seo_page_context: the main tool. Give it the FILE the user has open
   (file_path) or a URL path; it maps source files to live pages using
   framework routing conventions (Next.js app/pages routers, SvelteKit,
   Nuxt, Astro) and merges crawl audit data with the live page's HTML.
3. seo_search_stats: clicks, impressions, CTR and top queries for a
   domain or a single page over a YYYY-MM-DD date range.
4. seo_resolve_path: just the file-to-URL mapping, when you only need
   to know which page a source file serves.
5. seo_crawl_site: after the user deploys changes. Queues a fresh
   backend crawl and drops the cached data for that domain.
6. seo_crawl_history: check recent crawl requests before queuing
   another one.

## IMPORTANT

- File-to-URL resolution is a heuristic over routing conventions. A
  "medium" or "low" confidence means: verify the path with the user
  before drawing conclusions. When the server cannot resolve a file or
  finds several equally plausible pages it says so instead of guessing;
  ask the user for the concrete URL path in that case.
- Responses may be served from a short-lived cache; the footer says so.
  Only seo_crawl_site forces fresh data.
- Crawls run asynchronously on the backend: after seo_crawl_site, wait
  a few minutes before expecting new results in seo_scan_site.`
}
