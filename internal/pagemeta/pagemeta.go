// Package pagemeta extracts SEO-relevant metadata from live HTML.
//
// It complements the backend's crawl data with what the page serves
// right now: title, meta tags, headings, and schema.org JSON-LD types.
// Parsing uses golang.org/x/net/html and tolerates malformed markup.
package pagemeta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

// maxBodyBytes caps how much of a page is read. 5MB is far beyond any
// sane HTML document.
const maxBodyBytes = 5 * 1024 * 1024

// Meta holds the extracted head/body signals of one page.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	H1s         []string
	SchemaTypes []string
	WordCount   int
}

// Fetch downloads a page and extracts its metadata.
func Fetch(ctx context.Context, client *http.Client, pageURL string) (*Meta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("pagemeta: creating request: %w", err)
	}
	req.Header.Set("User-Agent", "seolens")
	req.Header.Set("Accept", "text/html")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pagemeta: fetching %s: %w", pageURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pagemeta: HTTP %d from %s", resp.StatusCode, pageURL)
	}

	return Extract(io.LimitReader(resp.Body, maxBodyBytes))
}

// Extract parses an HTML document and pulls out its SEO signals.
// x/net/html recovers from malformed markup, so Extract practically
// never fails on real-world pages.
func Extract(r io.Reader) (*Meta, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("pagemeta: parsing html: %w", err)
	}

	meta := &Meta{}
	var words int
	walk(doc, meta, &words, false)
	meta.WordCount = words
	return meta, nil
}

func walk(n *html.Node, meta *Meta, words *int, inBody bool) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script":
			if attr(n, "type") == "application/ld+json" {
				collectSchemaTypes(textContent(n), meta)
			}
			return
		case "style", "noscript", "iframe", "svg":
			return
		case "title":
			if meta.Title == "" {
				meta.Title = strings.TrimSpace(textContent(n))
			}
		case "meta":
			switch strings.ToLower(attr(n, "name")) {
			case "description":
				meta.Description = attr(n, "content")
			case "robots":
				meta.Robots = attr(n, "content")
			}
		case "link":
			if strings.EqualFold(attr(n, "rel"), "canonical") {
				meta.Canonical = attr(n, "href")
			}
		case "h1":
			if h := strings.TrimSpace(textContent(n)); h != "" {
				meta.H1s = append(meta.H1s, h)
			}
		case "body":
			inBody = true
		}
	}

	if inBody && n.Type == html.TextNode {
		*words += len(strings.Fields(n.Data))
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, meta, words, inBody)
	}
}

// collectSchemaTypes pulls @type values out of a JSON-LD block. Both a
// single object and a top-level array are accepted; @graph containers
// are descended one level. Invalid JSON is skipped silently: broken
// structured data is a finding for the audit, not an error here.
func collectSchemaTypes(raw string, meta *Meta) {
	var node any
	if err := json.Unmarshal([]byte(raw), &node); err != nil {
		return
	}

	var visit func(v any)
	visit = func(v any) {
		switch val := v.(type) {
		case []any:
			for _, item := range val {
				visit(item)
			}
		case map[string]any:
			switch typ := val["@type"].(type) {
			case string:
				meta.SchemaTypes = append(meta.SchemaTypes, typ)
			case []any:
				for _, item := range typ {
					if s, ok := item.(string); ok {
						meta.SchemaTypes = append(meta.SchemaTypes, s)
					}
				}
			}
			if graph, ok := val["@graph"]; ok {
				visit(graph)
			}
		}
	}
	visit(node)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
