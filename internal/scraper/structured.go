package scraper

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"github.com/hermesdev0131/scrape-salesforce-site/internal/models"
)

// StructuredDataStrategy reads application/ld+json script blocks and emits a
// variant per offer of every schema.org Product item.
type StructuredDataStrategy struct {
	logger *slog.Logger
}

func NewStructuredDataStrategy(logger *slog.Logger) *StructuredDataStrategy {
	return &StructuredDataStrategy{logger: logger.With("strategy", "json_ld")}
}

func (s *StructuredDataStrategy) Name() string { return "json_ld" }

func (s *StructuredDataStrategy) Extract(_ context.Context, page *Page) []models.Variant {
	var variants []models.Variant

	page.Doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, script *goquery.Selection) {
		var data any
		if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
			s.logger.Debug("skipping malformed ld+json block", "error", err)
			return
		}

		items, ok := data.([]any)
		if !ok {
			items = []any{data}
		}

		for _, raw := range items {
			item, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if itemType, _ := item["@type"].(string); itemType != "Product" {
				continue
			}
			offersField, ok := item["offers"]
			if !ok {
				continue
			}

			offers, ok := offersField.([]any)
			if !ok {
				offers = []any{offersField}
			}

			for _, rawOffer := range offers {
				offer, ok := rawOffer.(map[string]any)
				if !ok {
					continue
				}
				if v, ok := offerVariant(offer); ok {
					variants = append(variants, v)
				}
			}
		}
	})

	return variants
}

// offerVariant derives (size, price) from one offer: size from the first of
// description/name/sku carrying a size token, price from the numeric price
// field formatted to two decimals.
func offerVariant(offer map[string]any) (models.Variant, bool) {
	var size string
	for _, field := range []string{"description", "name", "sku"} {
		text, ok := offer[field].(string)
		if !ok {
			continue
		}
		if token := firstSizeToken(text); token != "" {
			size = token
			break
		}
	}
	if size == "" {
		return models.Variant{}, false
	}

	var price string
	switch v := offer["price"].(type) {
	case float64:
		price = formatPrice(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			price = formatPrice(f)
		}
	}
	if price == "" {
		return models.Variant{}, false
	}

	return models.Variant{Size: size, Price: price, Source: models.SourceJSONLD}, true
}
