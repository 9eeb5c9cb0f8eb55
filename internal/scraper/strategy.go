package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hermesdev0131/scrape-salesforce-site/internal/models"
)

// Page is one fetched product page: the parsed document for DOM strategies
// plus the raw response body for the inline-script strategy.
type Page struct {
	URL  string
	Body string
	Doc  *goquery.Document
}

func NewPage(url, body string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Page{URL: url, Body: body, Doc: doc}, nil
}

// Strategy is one self-contained variant extraction algorithm. Implementations
// never return an error: internal parse failures are logged at debug level and
// whatever variants were already collected are returned.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, page *Page) []models.Variant
}

// ownText returns the text nodes directly under a selection, excluding
// descendant element text.
func ownText(s *goquery.Selection) string {
	var b strings.Builder
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			b.WriteString(c.Text())
		}
	})
	return b.String()
}
