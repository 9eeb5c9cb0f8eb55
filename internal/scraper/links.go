package scraper

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hermesdev0131/scrape-salesforce-site/internal/fetch"
)

// Exclusions run first and are authoritative: paginated listings, service and
// formula pages, search queries, consultation/customization pages are never
// product pages even when they also carry a product code.
var excludePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)_ep_\d+\.html`),
	regexp.MustCompile(`(?i)Service-`),
	regexp.MustCompile(`(?i)Formulas`),
	regexp.MustCompile(`(?i)/search\?`),
	regexp.MustCompile(`(?i)consultation`),
	regexp.MustCompile(`(?i)customization`),
}

// Product detail URLs carry a code segment like ABC-DEF1-01.html. The letter
// code is case-sensitive, the extension is not.
var productCodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[A-Z]{3,4}-[A-Z0-9]+-\d+\.(?i:html)`),
	regexp.MustCompile(`/[A-Z]{3,4}-[A-Z0-9]+-\d+\.(?i:html)`),
}

// IsProductURL reports whether a URL points at a product detail page.
func IsProductURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	for _, re := range excludePatterns {
		if re.MatchString(rawURL) {
			return false
		}
	}

	for _, re := range productCodePatterns {
		if re.MatchString(rawURL) {
			return true
		}
	}

	return false
}

// LinkDiscoverer finds product detail URLs on the catalog's listing page.
type LinkDiscoverer struct {
	client      *fetch.Client
	listingPath string
	timeout     time.Duration
	logger      *slog.Logger
}

func NewLinkDiscoverer(client *fetch.Client, listingPath string, timeout time.Duration, logger *slog.Logger) *LinkDiscoverer {
	return &LinkDiscoverer{
		client:      client,
		listingPath: listingPath,
		timeout:     timeout,
		logger:      logger.With("component", "link_discovery"),
	}
}

// DiscoverProductLinks fetches the listing page and returns the deduplicated
// set of absolute product URLs found on it. Any fetch or parse failure is
// soft: it is logged and an empty set is returned.
func (d *LinkDiscoverer) DiscoverProductLinks(ctx context.Context) map[string]struct{} {
	links := make(map[string]struct{})

	body, err := d.client.Get(ctx, d.listingPath, d.timeout, nil)
	if err != nil {
		d.logger.Error("failed to fetch product listing", "path", d.listingPath, "error", err)
		return links
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		d.logger.Error("failed to parse product listing", "error", err)
		return links
	}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" {
			return
		}
		href = strings.ReplaceAll(href, "?lang=default", "")
		resolved := d.client.Resolve(href)
		if IsProductURL(resolved) {
			links[resolved] = struct{}{}
		}
	})

	d.logger.Info("discovered product links", "count", len(links))
	return links
}
