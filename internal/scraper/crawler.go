package scraper

import (
	"context"
	"log/slog"
	"sort"

	"github.com/hermesdev0131/scrape-salesforce-site/internal/models"
	"github.com/hermesdev0131/scrape-salesforce-site/internal/ratelimit"
)

// Crawler runs one full catalog pass: discover product URLs once, then visit
// them sequentially with a politeness delay between fetches. It holds no
// state across invocations.
type Crawler struct {
	discoverer *LinkDiscoverer
	extractor  *PageExtractor
	limiter    ratelimit.RateLimiter
	logger     *slog.Logger
}

func NewCrawler(discoverer *LinkDiscoverer, extractor *PageExtractor, limiter ratelimit.RateLimiter, logger *slog.Logger) *Crawler {
	return &Crawler{
		discoverer: discoverer,
		extractor:  extractor,
		limiter:    limiter,
		logger:     logger.With("component", "crawler"),
	}
}

// Crawl visits every discovered product URL and returns the kept products in
// visitation order. limit > 0 caps the number of URLs visited; URLs are
// sorted before truncation so limited test runs are reproducible. Per-URL
// failures are logged and skipped; only context cancellation aborts the run.
func (c *Crawler) Crawl(ctx context.Context, limit int) ([]*models.Product, error) {
	links := c.discoverer.DiscoverProductLinks(ctx)

	urls := make([]string, 0, len(links))
	for u := range links {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	if limit > 0 && limit < len(urls) {
		urls = urls[:limit]
		c.logger.Info("limiting crawl", "limit", limit)
	}

	products := make([]*models.Product, 0, len(urls))
	for _, url := range urls {
		if err := c.limiter.Wait(ctx); err != nil {
			return products, err
		}

		product, err := c.extractor.ExtractProduct(ctx, url)
		if err != nil {
			// Already logged by the extractor; the page is skipped, not retried.
			continue
		}
		if product == nil || product.Name == "" {
			continue
		}

		products = append(products, product)
	}

	c.logger.Info("crawl finished", "visited", len(urls), "kept", len(products))
	return products, nil
}
