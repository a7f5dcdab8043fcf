package tools

import (
	"context"
	"fmt"
	"strings"

	"seolens/internal/resolver"

	"github.com/mark3labs/mcp-go/mcp"
)

// ResolvePathTool handles the seo_resolve_path MCP tool. It exposes the
// file-to-URL mapping directly so the assistant can check which page a
// source file serves without pulling any SEO data.
type ResolvePathTool struct {
	backend Backend
}

// NewResolvePathTool creates a ResolvePathTool with its dependencies.
func NewResolvePathTool(backend Backend) *ResolvePathTool {
	return &ResolvePathTool{backend: backend}
}

// Definition returns the MCP tool definition for registration.
func (t *ResolvePathTool) Definition() mcp.Tool {
	return mcp.NewTool("seo_resolve_path",
		mcp.WithDescription(
			"Map a local source file to the URL path it serves, using the "+
				"routing conventions of common web frameworks (Next.js app and "+
				"pages routers, SvelteKit, Nuxt, Astro). When a domain is given, "+
				"the resolved path is also matched against the site's crawled "+
				"page inventory.",
		),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Local project file path, e.g. 'src/app/blog/[slug]/page.tsx'."),
		),
		mcp.WithString("domain",
			mcp.Description("Optional domain to match the resolved path against the live page inventory."),
		),
	)
}

// Handle processes the seo_resolve_path tool call.
func (t *ResolvePathTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath := strings.TrimSpace(req.GetString("file_path", ""))
	if filePath == "" {
		return mcp.NewToolResultError("'file_path' is required"), nil
	}

	resolved := resolver.Resolve(filePath)
	if resolved == nil {
		return mcp.NewToolResultText(fmt.Sprintf(
			"`%s` does not fall under any recognized routing convention "+
				"(app/, pages/, routes/); it probably does not serve a page.",
			filePath)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Resolved: %s\n\n", filePath)
	fmt.Fprintf(&sb, "- **URL path:** `%s`\n", resolved.URLPath)
	fmt.Fprintf(&sb, "- **Confidence:** %s\n", resolved.Confidence)

	rawDomain := req.GetString("domain", "")
	if rawDomain == "" {
		return mcp.NewToolResultText(sb.String()), nil
	}

	domain, err := cleanDomain(rawDomain)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("'domain' is invalid: %v", err)), nil
	}

	known, err := t.backend.ListPages(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("listing pages of %s: %w", domain, err)
	}

	if match := resolver.FindMatch(resolved.URLPath, known); match != "" {
		fmt.Fprintf(&sb, "- **Inventory match:** `%s` (of %d known pages)\n", match, len(known))
	} else {
		fmt.Fprintf(&sb, "- **Inventory match:** none of %d known pages matched unambiguously\n", len(known))
	}

	return mcp.NewToolResultText(sb.String()), nil
}
