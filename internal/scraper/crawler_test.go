package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hermesdev0131/scrape-salesforce-site/internal/fetch"
	"github.com/hermesdev0131/scrape-salesforce-site/internal/ratelimit"
)

const crawlerListingPath = "/Ingredients-A-Z_ep_1.html?lang=default"

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/Ingredients-A-Z_ep_1.html", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/GLY-001-01.html?lang=default">Glycerin</a>
			<a href="/SQU-002-01.html">Squalane</a>
			<a href="/ZZZ-003-01.html">Broken</a>
			<a href="/about-us.html">About</a>
		</body></html>`)
	})
	mux.HandleFunc("/GLY-001-01.html", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>
			<h1 class="product-name">Glycerin</h1>
			<ul class="size-options"><li>30ml $8.00</li></ul>
		</body></html>`)
	})
	mux.HandleFunc("/SQU-002-01.html", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>
			<h1 class="product-name">Squalane</h1>
			<ul class="size-options"><li>100ml $20.00</li></ul>
		</body></html>`)
	})
	mux.HandleFunc("/ZZZ-003-01.html", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestCrawler(baseURL string) *Crawler {
	client := fetch.New(baseURL, "test-agent", testLogger())
	variations := NewVariationClient(client, 2*time.Second, testLogger())
	extractor := NewPageExtractor(client, variations, 5*time.Second, testLogger())
	discoverer := NewLinkDiscoverer(client, crawlerListingPath, 5*time.Second, testLogger())
	limiter := ratelimit.NewPolitenessLimiter(time.Millisecond)
	return NewCrawler(discoverer, extractor, limiter, testLogger())
}

func TestCrawlVisitsAllProductsAndSkipsFailures(t *testing.T) {
	server := newCatalogServer(t)
	c := newTestCrawler(server.URL)

	products, err := c.Crawl(context.Background(), 0)
	require.NoError(t, err)

	// The failing product page is skipped without aborting the run; the
	// non-product link never gets visited at all.
	require.Len(t, products, 2)
	assert.Equal(t, "Glycerin", products[0].Name)
	assert.Equal(t, "Squalane", products[1].Name)
	assert.Equal(t, map[string]string{"30ml": "$8.00"}, products[0].Prices)
}

func TestCrawlLimit(t *testing.T) {
	server := newCatalogServer(t)
	c := newTestCrawler(server.URL)

	products, err := c.Crawl(context.Background(), 1)
	require.NoError(t, err)

	// URLs are sorted before truncation, so limit=1 always picks GLY-001.
	require.Len(t, products, 1)
	assert.Equal(t, "Glycerin", products[0].Name)
}

func TestCrawlCancelledContext(t *testing.T) {
	server := newCatalogServer(t)
	c := newTestCrawler(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	products, err := c.Crawl(ctx, 0)
	assert.Empty(t, products)
	assert.NoError(t, err)
}

func TestCrawlEmptyListing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><a href="/about-us.html">About</a></body></html>`)
	}))
	defer server.Close()

	c := newTestCrawler(server.URL)
	products, err := c.Crawl(context.Background(), 0)

	require.NoError(t, err)
	assert.Empty(t, products)
}
