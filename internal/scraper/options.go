package scraper

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hermesdev0131/scrape-salesforce-site/internal/models"
)

var optionPlaceholders = map[string]bool{
	"":               true,
	"Choose Options": true,
	"Select Option":  true,
	"Select Size":    true,
}

// OptionsStrategy extracts variants from form controls: <select> size
// dropdowns (including Demandware dwvar_ dimensions), radio-button groups and
// <ul>/<li> option lists. It is the highest-priority strategy and the only
// one that performs secondary fetches (through the variation client).
type OptionsStrategy struct {
	variations *VariationClient
	logger     *slog.Logger
}

func NewOptionsStrategy(variations *VariationClient, logger *slog.Logger) *OptionsStrategy {
	return &OptionsStrategy{
		variations: variations,
		logger:     logger.With("strategy", "options"),
	}
}

func (s *OptionsStrategy) Name() string { return "options" }

func (s *OptionsStrategy) Extract(ctx context.Context, page *Page) []models.Variant {
	variants := s.fromSelects(ctx, page.Doc)
	variants = append(variants, s.fromRadios(page.Doc)...)
	variants = append(variants, s.fromOptionLists(page.Doc)...)
	return variants
}

// basePrice finds the page-level price used for option deltas: the first
// "$D.DD" in any price/sales-class element.
func (s *OptionsStrategy) basePrice(doc *goquery.Document) (float64, bool) {
	var base float64
	var found bool
	doc.Find(`span[class*="price"], div[class*="sales"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		m := strictPriceRe.FindStringSubmatch(sel.Text())
		if m == nil {
			return true
		}
		if v, ok := parseAmount(m[1]); ok {
			base = v
			found = true
			return false
		}
		return true
	})
	return base, found
}

func (s *OptionsStrategy) fromSelects(ctx context.Context, doc *goquery.Document) []models.Variant {
	options := doc.Find(`select[class*="select-Size"] option, select[name*="size"] option`)
	if options.Length() == 0 {
		options = doc.Find(`select[name*="dwvar_"] option`)
	}
	if options.Length() == 0 {
		return nil
	}

	base, hasBase := s.basePrice(doc)

	var variants []models.Variant
	options.Each(func(_ int, opt *goquery.Selection) {
		text := strings.TrimSpace(opt.Text())
		if optionPlaceholders[text] {
			return
		}

		// The full option text is the size string ("1.0floz / 30ml"), not
		// just the numeric token. A trailing price delta annotation is not
		// part of the size.
		var size string
		if containsSizeToken(text) || containsUnitWord(text) {
			size = strings.TrimSpace(deltaPriceRe.ReplaceAllString(text, ""))
		}
		if size == "" {
			return
		}

		variationURL, _ := opt.Attr("value")
		isDynamic := strings.Contains(variationURL, "Product-Variation")

		var price string
		if isDynamic {
			price, _ = s.variations.FetchPrice(ctx, variationURL)
		}

		if price == "" {
			if dataPrice, ok := opt.Attr("data-price"); ok {
				if m := amountRe.FindStringSubmatch(dataPrice); m != nil {
					price, _ = normalizePrice(m[1])
				}
			}
		}

		if price == "" && hasBase {
			if m := deltaPriceRe.FindStringSubmatch(text); m != nil {
				if delta, ok := parseAmount(m[1]); ok {
					price = formatPrice(base + delta)
				}
			} else if !strings.Contains(text, "(") {
				// No parenthetical delta at all means the option sells at
				// the base price.
				price = formatPrice(base)
			}
		}

		if price == "" {
			price, _ = loosePriceFrom(text)
		}

		source := models.SourceOptionData
		if isDynamic {
			source = models.SourceDynamicAPI
		}
		variants = append(variants, models.Variant{Size: size, Price: price, Source: source})
	})

	return variants
}

func (s *OptionsStrategy) fromRadios(doc *goquery.Document) []models.Variant {
	var variants []models.Variant

	doc.Find(`input[type="radio"][name*="size"], input[type="radio"][name*="option"]`).Each(func(_ int, radio *goquery.Selection) {
		label := radio.NextAll().Filter("label").First()
		if label.Length() == 0 {
			parent := radio.Parent()
			if !parent.Is("label") {
				return
			}
			label = parent
		}

		labelText := strings.TrimSpace(label.Text())
		size := firstSizeToken(labelText)
		if size == "" {
			return
		}

		var price string
		for _, attr := range []string{"data-price", "data-price-diff", "data-calcprice"} {
			if raw, ok := radio.Attr(attr); ok && raw != "" {
				if m := amountRe.FindStringSubmatch(raw); m != nil {
					price, _ = normalizePrice(m[1])
					break
				}
			}
		}
		if price == "" {
			price, _ = loosePriceFrom(labelText)
		}

		variants = append(variants, models.Variant{Size: size, Price: price, Source: models.SourceRadioOption})
	})

	return variants
}

func (s *OptionsStrategy) fromOptionLists(doc *goquery.Document) []models.Variant {
	var variants []models.Variant

	doc.Find(`ul[class*="option"], ul[class*="size"], div[class*="option"] > ul`).Each(func(_ int, ul *goquery.Selection) {
		ul.Find("li, label").Each(func(_ int, item *goquery.Selection) {
			itemText := strings.TrimSpace(item.Text())
			size := firstSizeToken(itemText)
			if size == "" {
				return
			}

			price, ok := loosePriceFrom(itemText)
			if !ok {
				// Price may be bracketed as a surcharge, e.g. "[+$2.50]".
				if m := bracketRe.FindStringSubmatch(itemText); m != nil {
					price, _ = normalizePrice(m[1])
				}
			}

			variants = append(variants, models.Variant{Size: size, Price: price, Source: models.SourceULOption})
		})
	})

	return variants
}

func containsUnitWord(text string) bool {
	lower := strings.ToLower(text)
	for _, unit := range []string{"oz", "ml", "g", "kg", "lb"} {
		if strings.Contains(lower, unit) {
			return true
		}
	}
	return false
}
