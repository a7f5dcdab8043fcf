// Package resolver maps local source files in a web project to the URL
// paths they probably serve, using the file-tree conventions of common
// web frameworks.
//
// The mapping is a best-effort heuristic: no build or router is ever
// executed. A file the resolver cannot place returns nil, which callers
// treat as a routine outcome, not a failure. When a live inventory of
// site paths is available, FindMatch narrows a resolved (possibly
// wildcarded) path down to a concrete known page, refusing to guess
// when more than one page fits equally well.
package resolver

import (
	"path/filepath"
	"strings"
)

// Confidence grades how trustworthy a resolved URL path is.
type Confidence string

const (
	// ConfidenceHigh: exactly one convention matched and the path is
	// fully static.
	ConfidenceHigh Confidence = "high"

	// ConfidenceMedium: a dynamic segment had to be replaced with a
	// wildcard token.
	ConfidenceMedium Confidence = "medium"

	// ConfidenceLow: more than one convention could apply to the file.
	ConfidenceLow Confidence = "low"
)

// Resolved is the result of resolving a file path.
type Resolved struct {
	// URLPath is the absolute path component of the URL: leading "/",
	// no trailing slash except for the root itself. Dynamic segments
	// appear as wildcard tokens (":slug", "*rest").
	URLPath    string
	Confidence Confidence
}

// convention describes how one framework's file tree maps to URL
// segments. New frameworks are supported by appending table entries.
type convention struct {
	name string

	// root is the directory segment that anchors the convention
	// ("app", "pages", "routes"). Everything before it, such as a
	// src/ layer or a monorepo package prefix, is stripped.
	root string

	// pageNames are basenames (extension already removed) that define
	// the page for their directory and contribute no URL segment.
	// Empty means any file in the tree is a page.
	pageNames []string

	// companionNames are basenames that belong to the routing tree but
	// do not serve a page of their own (layouts, route handlers,
	// error boundaries). Resolving one yields its directory's path.
	companionNames []string

	// indexNames are basenames that map to no URL segment ("index").
	indexNames []string

	// skipUnderscore excludes basenames starting with "_" (Next.js
	// pages router internals like _app and _document).
	skipUnderscore bool

	// groupParens strips "(group)" directory segments, which organize
	// files without contributing a URL segment (Next.js app router).
	groupParens bool
}

// conventions is the fixed rule table, checked in order.
var conventions = []convention{
	{
		name:           "app-router",
		root:           "app",
		pageNames:      []string{"page"},
		companionNames: []string{"layout", "route", "template", "loading", "error", "not-found", "default"},
		groupParens:    true,
	},
	{
		name:           "pages-router",
		root:           "pages",
		indexNames:     []string{"index"},
		skipUnderscore: true,
	},
	{
		name:           "sveltekit",
		root:           "routes",
		pageNames:      []string{"+page"},
		companionNames: []string{"+layout", "+error", "+server"},
	},
}

// Resolve translates a local file path into the URL path it probably
// serves. It returns nil when the path falls under no known routing
// convention; that is the expected outcome for most files in a project.
func Resolve(filePath string) *Resolved {
	segments := splitPath(filePath)
	if len(segments) == 0 {
		return nil
	}

	// Try every convention whose root directory appears in the path and
	// keep the ones that actually yield a page mapping.
	type candidate struct {
		urlPath   string
		dynamic   bool
		rootIndex int
	}
	var applied []candidate
	for i := range conventions {
		conv := &conventions[i]
		idx := findRoot(segments, conv.root)
		if idx < 0 {
			continue
		}
		if urlPath, dynamic, ok := conv.apply(segments[idx+1:]); ok {
			applied = append(applied, candidate{urlPath: urlPath, dynamic: dynamic, rootIndex: idx})
		}
	}
	if len(applied) == 0 {
		return nil
	}

	// The convention whose root sits shallowest wins; table order breaks
	// exact ties. A second convention that maps the same file to a
	// different URL makes the result ambiguous.
	best := applied[0]
	for _, c := range applied[1:] {
		if c.rootIndex < best.rootIndex {
			best = c
		}
	}
	ambiguous := false
	for _, c := range applied {
		if c.urlPath != best.urlPath {
			ambiguous = true
		}
	}

	confidence := ConfidenceHigh
	switch {
	case ambiguous:
		confidence = ConfidenceLow
	case best.dynamic:
		confidence = ConfidenceMedium
	}

	return &Resolved{URLPath: best.urlPath, Confidence: confidence}
}

// apply maps the path segments below the convention root to a URL path.
// dynamic reports whether a wildcard substitution happened; ok is false
// when the file is not a page under this convention.
func (c *convention) apply(segments []string) (urlPath string, dynamic bool, ok bool) {
	if len(segments) == 0 {
		return "", false, false
	}

	dirs := segments[:len(segments)-1]
	base := stripExtension(segments[len(segments)-1])

	if c.skipUnderscore && strings.HasPrefix(base, "_") {
		return "", false, false
	}

	// Decide whether the file itself contributes a URL segment.
	fileSegment := ""
	switch {
	case contains(c.companionNames, base):
		// Companion files resolve to their directory's path.
	case len(c.pageNames) > 0:
		if !contains(c.pageNames, base) {
			return "", false, false
		}
	case contains(c.indexNames, base):
		// Index files map to no segment.
	default:
		fileSegment = base
	}

	var out []string
	for _, seg := range dirs {
		if c.groupParens && strings.HasPrefix(seg, "(") && strings.HasSuffix(seg, ")") {
			continue
		}
		mapped, isDynamic := mapSegment(seg)
		if isDynamic {
			dynamic = true
		}
		out = append(out, mapped)
	}
	if fileSegment != "" {
		mapped, isDynamic := mapSegment(fileSegment)
		if isDynamic {
			dynamic = true
		}
		out = append(out, mapped)
	}

	if len(out) == 0 {
		return "/", dynamic, true
	}
	return "/" + strings.Join(out, "/"), dynamic, true
}

// mapSegment converts bracket-delimited dynamic segments to wildcard
// tokens: [slug] and [[slug]] become :slug, [...rest] becomes *rest.
func mapSegment(seg string) (string, bool) {
	inner := seg
	// Optional catch-all / optional segments use double brackets.
	for strings.HasPrefix(inner, "[") && strings.HasSuffix(inner, "]") && len(inner) > 2 {
		inner = inner[1 : len(inner)-1]
	}
	if inner == seg {
		return seg, false
	}
	if rest, isCatchAll := strings.CutPrefix(inner, "..."); isCatchAll {
		return "*" + rest, true
	}
	return ":" + inner, true
}

// FindMatch compares a candidate URL path against a site's known
// pathnames and returns the one it denotes, or "" when there is no
// confident answer. A wildcard candidate that fits several known paths
// is ambiguous: attributing data to the wrong page is worse than
// returning nothing, so the function never guesses.
func FindMatch(urlPath string, knownPaths []string) string {
	candidate := normalizeURLPath(urlPath)
	if candidate == "" {
		return ""
	}

	// A static exact match always wins, even for wildcard candidates
	// whose literal text happens to appear in the inventory.
	for _, known := range knownPaths {
		if normalizeURLPath(known) == candidate {
			return known
		}
	}

	candSegs := strings.Split(strings.TrimPrefix(candidate, "/"), "/")
	if !hasWildcard(candSegs) {
		return ""
	}

	match := ""
	count := 0
	for _, known := range knownPaths {
		normalized := normalizeURLPath(known)
		knownSegs := strings.Split(strings.TrimPrefix(normalized, "/"), "/")
		if wildcardMatches(candSegs, knownSegs) {
			match = known
			count++
			if count > 1 {
				return ""
			}
		}
	}
	if count == 1 {
		return match
	}
	return ""
}

// wildcardMatches reports whether the known path's segments satisfy the
// candidate's, treating ":name" as exactly one segment and "*name" as
// one or more trailing segments.
func wildcardMatches(cand, known []string) bool {
	for i, c := range cand {
		if strings.HasPrefix(c, "*") {
			// Catch-all must be terminal and consume at least one segment.
			return i == len(cand)-1 && len(known) > i
		}
		if i >= len(known) {
			return false
		}
		if strings.HasPrefix(c, ":") {
			continue
		}
		if c != known[i] {
			return false
		}
	}
	return len(cand) == len(known)
}

func hasWildcard(segments []string) bool {
	for _, s := range segments {
		if strings.HasPrefix(s, ":") || strings.HasPrefix(s, "*") {
			return true
		}
	}
	return false
}

// normalizeURLPath forces a leading slash and strips the trailing one,
// leaving the root path as "/".
func normalizeURLPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// splitPath normalizes separators and splits into clean segments. Both
// separator styles are handled regardless of the server's own OS: the
// path comes from the assistant's editor, which may be on Windows.
func splitPath(filePath string) []string {
	p := strings.ReplaceAll(filePath, `\`, "/")
	p = strings.TrimPrefix(p, "./")
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, seg := range parts {
		if seg == "" || seg == "." {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// findRoot returns the index of the first segment equal to root, or -1.
// The root must not be the final segment: a file named like a root
// directory anchors nothing.
func findRoot(segments []string, root string) int {
	for i := 0; i < len(segments)-1; i++ {
		if segments[i] == root {
			return i
		}
	}
	return -1
}

// stripExtension drops the final file extension, leaving multi-part
// basenames like "+page" intact.
func stripExtension(name string) string {
	if ext := filepath.Ext(name); ext != "" {
		return strings.TrimSuffix(name, ext)
	}
	return name
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
