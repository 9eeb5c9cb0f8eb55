package scraper

import (
	"context"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/hermesdev0131/scrape-salesforce-site/internal/models"
)

const (
	proximitySiblingWindow = 3
	proximityParentWindow  = 10
)

// ProximityStrategy is the last-resort fallback: it pairs the first
// size-bearing text element on the page with a price found in nearby
// elements. It yields at most one variant per page.
type ProximityStrategy struct {
	logger *slog.Logger
}

func NewProximityStrategy(logger *slog.Logger) *ProximityStrategy {
	return &ProximityStrategy{logger: logger.With("strategy", "proximity")}
}

func (s *ProximityStrategy) Name() string { return "proximity" }

func (s *ProximityStrategy) Extract(_ context.Context, page *Page) []models.Variant {
	var variants []models.Variant

	page.Doc.Find("*").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		size := firstSizeToken(ownText(sel))
		if size == "" {
			return true
		}

		price := s.nearbyPrice(sel)
		if price == "" {
			// Keep scanning until a size hit pairs with a price.
			return true
		}

		variants = append(variants, models.Variant{Size: size, Price: price, Source: models.SourceProximity})
		return false
	})

	return variants
}

// nearbyPrice searches a bounded window around the size element: the next few
// siblings first, then the parent's descendants.
func (s *ProximityStrategy) nearbyPrice(sel *goquery.Selection) string {
	var price string

	siblings := sel.NextAll()
	siblings.EachWithBreak(func(i int, sib *goquery.Selection) bool {
		if i >= proximitySiblingWindow {
			return false
		}
		if p, ok := strictPriceFrom(sib.Text()); ok {
			price = p
			return false
		}
		return true
	})
	if price != "" {
		return price
	}

	sel.Parent().Find("*").EachWithBreak(func(i int, desc *goquery.Selection) bool {
		if i >= proximityParentWindow {
			return false
		}
		if p, ok := strictPriceFrom(ownText(desc)); ok {
			price = p
			return false
		}
		return true
	})

	return price
}
