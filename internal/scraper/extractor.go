package scraper

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hermesdev0131/scrape-salesforce-site/internal/fetch"
	"github.com/hermesdev0131/scrape-salesforce-site/internal/models"
)

// Name extraction tries specific product-name markup first and falls back to
// the page title.
var nameSelectors = []string{
	"h1.product-name",
	`h1[class*="product-title"]`,
	`div[class*="product-name"]`,
	"title",
}

// Text-mining fallback unit families, fuller words and abbreviations both.
var fallbackSizeRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\d+\.?\d*\s*(?:oz|ounce|ounces)\b`),
	regexp.MustCompile(`(?i)\b\d+\.?\d*\s*(?:g|gram|grams)\b`),
	regexp.MustCompile(`(?i)\b\d+\.?\d*\s*(?:ml|milliliter|milliliters)\b`),
	regexp.MustCompile(`(?i)\b\d+\.?\d*\s*(?:kg|kilogram|kilograms)\b`),
	regexp.MustCompile(`(?i)\b\d+\.?\d*\s*(?:lb|pound|pounds)\b`),
	regexp.MustCompile(`(?i)\b\d+\.?\d*\s*(?:fl\s*oz|fluid\s*ounce)\b`),
}

// PageExtractor fetches one product page and consolidates the output of the
// strategy chain into a Product record.
type PageExtractor struct {
	client      *fetch.Client
	strategies  []Strategy
	pageTimeout time.Duration
	logger      *slog.Logger
}

// NewPageExtractor wires the default strategy chain in strict priority order:
// options, structured data, inline script, tables, proximity. The orchestrator
// short-circuits on the first non-empty result.
func NewPageExtractor(client *fetch.Client, variations *VariationClient, pageTimeout time.Duration, logger *slog.Logger) *PageExtractor {
	return &PageExtractor{
		client: client,
		strategies: []Strategy{
			NewOptionsStrategy(variations, logger),
			NewStructuredDataStrategy(logger),
			NewInlineScriptStrategy(logger),
			NewTableStrategy(logger),
			NewProximityStrategy(logger),
		},
		pageTimeout: pageTimeout,
		logger:      logger.With("component", "page_extractor"),
	}
}

// ExtractProduct scrapes a single product page. A failed fetch returns a nil
// product and the transport error; everything after a successful fetch is
// best-effort and always yields a product, possibly with empty sizes. The
// caller decides whether to keep it based on Name being non-empty.
func (e *PageExtractor) ExtractProduct(ctx context.Context, url string) (*models.Product, error) {
	body, err := e.client.Get(ctx, url, e.pageTimeout, nil)
	if err != nil {
		e.logger.Error("failed to fetch product page", "url", url, "error", err)
		return nil, err
	}

	page, err := NewPage(url, body)
	if err != nil {
		e.logger.Error("failed to parse product page", "url", url, "error", err)
		return nil, err
	}

	product := models.NewProduct()
	product.Name = extractName(page.Doc)

	var variants []models.Variant
	for _, strategy := range e.strategies {
		if found := strategy.Extract(ctx, page); len(found) > 0 {
			variants = found
			break
		}
	}

	for _, v := range variants {
		product.AddVariant(v)
	}
	product.PriceInfo = strings.Join(product.DistinctPrices(), " | ")

	if len(product.Sizes) == 0 {
		for _, size := range mineSizesFromText(page.Doc) {
			if !product.HasSize(size) {
				product.Sizes = append(product.Sizes, size)
			}
		}
	}

	e.logger.Debug("extracted product",
		"url", url,
		"name", product.Name,
		"sizes", len(product.Sizes),
		"prices", len(product.Prices),
		"sources", product.PriceSources,
	)

	return product, nil
}

// extractName walks the selector fallback chain; the first selector with any
// text wins, with segments trimmed and joined by single spaces.
func extractName(doc *goquery.Document) string {
	for _, selector := range nameSelectors {
		text := strings.Join(strings.Fields(doc.Find(selector).Text()), " ")
		if text != "" {
			return text
		}
	}
	return ""
}

// mineSizesFromText is the no-variant fallback: scan the concatenated page
// text for bare unit-suffixed tokens across the six unit families. Matches
// carry no price.
func mineSizesFromText(doc *goquery.Document) []string {
	text := documentText(doc)

	var sizes []string
	seen := make(map[string]bool)
	for _, re := range fallbackSizeRes {
		for _, match := range re.FindAllString(text, -1) {
			size := strings.TrimSpace(match)
			if size == "" || seen[size] {
				continue
			}
			seen[size] = true
			sizes = append(sizes, size)
		}
	}
	return sizes
}

// documentText joins every text node with spaces so token boundaries survive
// across element edges.
func documentText(doc *goquery.Document) string {
	var parts []string
	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		if t := strings.TrimSpace(ownText(sel)); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}
