package scraper

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hermesdev0131/scrape-salesforce-site/internal/models"
)

// TableStrategy reads size/price pairs out of HTML tables. A table qualifies
// only when its header (or first-column) text mentions both "size" and
// "price".
type TableStrategy struct {
	logger *slog.Logger
}

func NewTableStrategy(logger *slog.Logger) *TableStrategy {
	return &TableStrategy{logger: logger.With("strategy", "table")}
}

func (s *TableStrategy) Name() string { return "table" }

func (s *TableStrategy) Extract(_ context.Context, page *Page) []models.Variant {
	var variants []models.Variant

	page.Doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		headerText := strings.ToLower(table.Find("th").Text() + " " + table.Find("tr td:first-child").Text())
		if !strings.Contains(headerText, "size") || !strings.Contains(headerText, "price") {
			return
		}

		rows := table.Find("tr")
		rows.Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				// Header row.
				return
			}
			cells := row.Find("td")
			if cells.Length() < 2 {
				return
			}

			size := firstSizeToken(strings.TrimSpace(cells.Eq(0).Text()))
			price, _ := strictPriceFrom(strings.TrimSpace(cells.Eq(1).Text()))
			if size == "" || price == "" {
				return
			}

			variants = append(variants, models.Variant{Size: size, Price: price, Source: models.SourceTable})
		})
	})

	return variants
}
