package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/hermesdev0131/scrape-salesforce-site/internal/models"
)

// Shopify-style inline product data: assignment statements or bare
// variants/options arrays embedded in page scripts.
var inlineJSONRes = []*regexp.Regexp{
	regexp.MustCompile(`(?is)var\s+product\s*=\s*(\{.+?\});`),
	regexp.MustCompile(`(?is)window\.product\s*=\s*(\{.+?\});`),
	regexp.MustCompile(`(?is)"variants"\s*:\s*(\[.+?\])`),
	regexp.MustCompile(`(?is)"options"\s*:\s*(\[.+?\])`),
}

// InlineScriptStrategy scans the raw response text, not the parsed tree:
// the data it targets lives inside <script> bodies.
type InlineScriptStrategy struct {
	logger *slog.Logger
}

func NewInlineScriptStrategy(logger *slog.Logger) *InlineScriptStrategy {
	return &InlineScriptStrategy{logger: logger.With("strategy", "inline_json")}
}

func (s *InlineScriptStrategy) Name() string { return "inline_json" }

func (s *InlineScriptStrategy) Extract(_ context.Context, page *Page) []models.Variant {
	var variants []models.Variant

	for _, re := range inlineJSONRes {
		for _, m := range re.FindAllStringSubmatch(page.Body, -1) {
			var data any
			if err := json.Unmarshal([]byte(m[1]), &data); err != nil {
				s.logger.Debug("skipping unparseable inline fragment", "error", err)
				continue
			}

			for _, entry := range variantEntries(data) {
				if v, ok := inlineVariant(entry); ok {
					variants = append(variants, v)
				}
			}
		}
	}

	return variants
}

// variantEntries resolves the variant array out of a parsed fragment: either
// the fragment is the array itself, or it is an object with a variants or
// options key.
func variantEntries(data any) []map[string]any {
	var raw []any
	switch v := data.(type) {
	case []any:
		raw = v
	case map[string]any:
		if arr, ok := v["variants"].([]any); ok {
			raw = arr
		} else if arr, ok := v["options"].([]any); ok {
			raw = arr
		}
	}

	entries := make([]map[string]any, 0, len(raw))
	for _, e := range raw {
		if entry, ok := e.(map[string]any); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// inlineVariant keeps an entry only when both size and price resolve.
func inlineVariant(entry map[string]any) (models.Variant, bool) {
	var size string
	for _, field := range []string{"title", "name", "option1", "option2", "size"} {
		value, ok := entry[field]
		if !ok {
			continue
		}
		if token := firstSizeToken(fmt.Sprintf("%v", value)); token != "" {
			size = token
			break
		}
	}
	if size == "" {
		return models.Variant{}, false
	}

	var price string
	for _, field := range []string{"price", "price_min", "price_max"} {
		value, ok := entry[field]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case float64:
			price = formatPrice(v)
		case string:
			if m := decimalRe.FindStringSubmatch(v); m != nil {
				price, _ = normalizePrice(m[1])
			}
		}
		if price != "" {
			break
		}
	}
	if price == "" {
		return models.Variant{}, false
	}

	return models.Variant{Size: size, Price: price, Source: models.SourceInlineJSON}, true
}
