package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		filePath   string
		wantPath   string
		wantConf   Confidence
		wantNoHit  bool
	}{
		// App router
		{
			name:     "app router root page",
			filePath: "app/page.tsx",
			wantPath: "/",
			wantConf: ConfidenceHigh,
		},
		{
			name:     "app router static nested page",
			filePath: "src/app/pricing/page.tsx",
			wantPath: "/pricing",
			wantConf: ConfidenceHigh,
		},
		{
			name:     "app router dynamic segment",
			filePath: "app/blog/[slug]/page.tsx",
			wantPath: "/blog/:slug",
			wantConf: ConfidenceMedium,
		},
		{
			name:     "app router catch-all segment",
			filePath: "app/docs/[...path]/page.tsx",
			wantPath: "/docs/*path",
			wantConf: ConfidenceMedium,
		},
		{
			name:     "app router optional catch-all",
			filePath: "app/shop/[[...category]]/page.tsx",
			wantPath: "/shop/*category",
			wantConf: ConfidenceMedium,
		},
		{
			name:     "app router route group stripped",
			filePath: "app/(marketing)/about/page.tsx",
			wantPath: "/about",
			wantConf: ConfidenceHigh,
		},
		{
			name:     "app router layout resolves to its directory",
			filePath: "app/blog/layout.tsx",
			wantPath: "/blog",
			wantConf: ConfidenceHigh,
		},
		{
			name:      "app router arbitrary file is not a page",
			filePath:  "app/blog/utils.ts",
			wantNoHit: true,
		},

		// Pages router (Next.js, Nuxt, Astro)
		{
			name:     "pages router index maps to root",
			filePath: "pages/index.tsx",
			wantPath: "/",
			wantConf: ConfidenceHigh,
		},
		{
			name:     "pages router static page",
			filePath: "pages/about.tsx",
			wantPath: "/about",
			wantConf: ConfidenceHigh,
		},
		{
			name:     "pages router nested index",
			filePath: "src/pages/blog/index.vue",
			wantPath: "/blog",
			wantConf: ConfidenceHigh,
		},
		{
			name:     "pages router dynamic file",
			filePath: "pages/blog/[slug].tsx",
			wantPath: "/blog/:slug",
			wantConf: ConfidenceMedium,
		},
		{
			name:     "astro pages dir",
			filePath: "src/pages/contact.astro",
			wantPath: "/contact",
			wantConf: ConfidenceHigh,
		},
		{
			name:      "pages router underscore internals skipped",
			filePath:  "pages/_app.tsx",
			wantNoHit: true,
		},

		// SvelteKit
		{
			name:     "sveltekit root page",
			filePath: "src/routes/+page.svelte",
			wantPath: "/",
			wantConf: ConfidenceHigh,
		},
		{
			name:     "sveltekit nested dynamic page",
			filePath: "src/routes/articles/[id]/+page.svelte",
			wantPath: "/articles/:id",
			wantConf: ConfidenceMedium,
		},
		{
			name:     "sveltekit layout resolves to directory",
			filePath: "src/routes/settings/+layout.svelte",
			wantPath: "/settings",
			wantConf: ConfidenceHigh,
		},

		// Out of scope
		{
			name:      "path outside any routing root",
			filePath:  "lib/markdown/render.ts",
			wantNoHit: true,
		},
		{
			name:      "empty path",
			filePath:  "",
			wantNoHit: true,
		},
		{
			name:      "root directory named like a file",
			filePath:  "pages",
			wantNoHit: true,
		},

		// Monorepo prefixes and OS separators
		{
			name:     "monorepo prefix before root",
			filePath: "packages/web/pages/pricing.tsx",
			wantPath: "/pricing",
			wantConf: ConfidenceHigh,
		},
		{
			name:     "windows separators",
			filePath: `src\pages\about.tsx`,
			wantPath: "/about",
			wantConf: ConfidenceHigh,
		},
		{
			name:     "absolute path",
			filePath: "/home/dev/site/app/pricing/page.tsx",
			wantPath: "/pricing",
			wantConf: ConfidenceHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.filePath)
			if tt.wantNoHit {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantPath, got.URLPath)
			assert.Equal(t, tt.wantConf, got.Confidence)
		})
	}
}

func TestResolveAmbiguousConventions(t *testing.T) {
	// "pages" anchors the pages router at depth 0 (mapping to
	// /routes/+page) while "routes" anchors SvelteKit at depth 1
	// (mapping to /). Two conventions, two answers: low confidence.
	got := Resolve("pages/routes/+page.svelte")
	require.NotNil(t, got)
	assert.Equal(t, ConfidenceLow, got.Confidence)
}

func TestFindMatchExact(t *testing.T) {
	known := []string{"/about", "/blog/hello", "/pricing"}

	assert.Equal(t, "/about", FindMatch("/about", known))
	assert.Equal(t, "", FindMatch("/missing", known))
}

func TestFindMatchTrailingSlash(t *testing.T) {
	assert.Equal(t, "/about/", FindMatch("/about", []string{"/about/"}))
	assert.Equal(t, "/about", FindMatch("/about/", []string{"/about"}))
	assert.Equal(t, "/", FindMatch("/", []string{"/"}))
}

func TestFindMatchWildcard(t *testing.T) {
	tests := []struct {
		name  string
		cand  string
		known []string
		want  string
	}{
		{
			name:  "single wildcard candidate",
			cand:  "/blog/:slug",
			known: []string{"/blog/hello"},
			want:  "/blog/hello",
		},
		{
			name:  "ambiguous wildcard returns nothing",
			cand:  "/blog/:slug",
			known: []string{"/blog/hello", "/blog/world"},
			want:  "",
		},
		{
			name:  "wildcard respects static segments",
			cand:  "/blog/:slug",
			known: []string{"/news/hello", "/blog/hello"},
			want:  "/blog/hello",
		},
		{
			name:  "wildcard segment count must match",
			cand:  "/blog/:slug",
			known: []string{"/blog/2024/hello"},
			want:  "",
		},
		{
			name:  "catch-all spans multiple segments",
			cand:  "/docs/*path",
			known: []string{"/docs/guides/install"},
			want:  "/docs/guides/install",
		},
		{
			name:  "catch-all ambiguity returns nothing",
			cand:  "/docs/*path",
			known: []string{"/docs/a", "/docs/b"},
			want:  "",
		},
		{
			name:  "catch-all needs at least one segment",
			cand:  "/docs/*path",
			known: []string{"/docs"},
			want:  "",
		},
		{
			name:  "no wildcard and no exact match",
			cand:  "/contact",
			known: []string{"/about"},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindMatch(tt.cand, tt.known))
		})
	}
}

func TestFindMatchStaticOutranksWildcard(t *testing.T) {
	// The inventory literally contains the wildcard text; the exact
	// match wins over collapsing the wildcard against /blog/hello.
	known := []string{"/blog/hello", "/blog/:slug"}
	assert.Equal(t, "/blog/:slug", FindMatch("/blog/:slug", known))
}

func TestFindMatchEmptyInventory(t *testing.T) {
	assert.Equal(t, "", FindMatch("/about", nil))
	assert.Equal(t, "", FindMatch("", []string{"/about"}))
}
