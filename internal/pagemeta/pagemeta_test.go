package pagemeta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html lang="en">
<head>
	<title>Acme Widgets — Home</title>
	<meta name="description" content="Widgets for every occasion.">
	<meta name="robots" content="index, follow">
	<link rel="canonical" href="https://example.com/">
	<script type="application/ld+json">
	{"@context": "https://schema.org", "@type": "Organization", "name": "Acme"}
	</script>
	<script type="application/ld+json">
	{"@graph": [{"@type": "WebSite"}, {"@type": ["Product", "Thing"]}]}
	</script>
</head>
<body>
	<h1>Welcome to Acme</h1>
	<p>We make widgets. Four words here.</p>
	<script>var ignored = "script text must not count";</script>
	<h1>  Second heading  </h1>
</body>
</html>`

func TestExtract(t *testing.T) {
	meta, err := Extract(strings.NewReader(samplePage))
	require.NoError(t, err)

	assert.Equal(t, "Acme Widgets — Home", meta.Title)
	assert.Equal(t, "Widgets for every occasion.", meta.Description)
	assert.Equal(t, "https://example.com/", meta.Canonical)
	assert.Equal(t, "index, follow", meta.Robots)
	assert.Equal(t, []string{"Welcome to Acme", "Second heading"}, meta.H1s)
	assert.Equal(t, []string{"Organization", "WebSite", "Product", "Thing"}, meta.SchemaTypes)
}

func TestExtractWordCountSkipsScripts(t *testing.T) {
	meta, err := Extract(strings.NewReader(samplePage))
	require.NoError(t, err)

	// "Welcome to Acme" + "We make widgets. Four words here." + "Second heading"
	assert.Equal(t, 11, meta.WordCount)
}

func TestExtractMalformedHTML(t *testing.T) {
	meta, err := Extract(strings.NewReader(`<html><head><title>Broken</title><body><h1>Still here`))
	require.NoError(t, err)

	assert.Equal(t, "Broken", meta.Title)
	assert.Equal(t, []string{"Still here"}, meta.H1s)
}

func TestExtractInvalidJSONLDIgnored(t *testing.T) {
	page := `<html><head><script type="application/ld+json">{not json</script></head><body></body></html>`
	meta, err := Extract(strings.NewReader(page))
	require.NoError(t, err)
	assert.Empty(t, meta.SchemaTypes)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "seolens", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	meta, err := Fetch(context.Background(), &http.Client{Timeout: 5 * time.Second}, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Acme Widgets — Home", meta.Title)
}

func TestFetchNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), &http.Client{Timeout: 5 * time.Second}, srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}
