package scraper

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/hermesdev0131/scrape-salesforce-site/internal/fetch"
)

// Demandware's Product-Variation endpoint answers with JSON most of the time,
// HTML fragments some of the time. The regex fallbacks cover both.
var variationPriceRes = []*regexp.Regexp{
	regexp.MustCompile(`"price"[^}]*"formatted"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`"sales"[^}]*"formatted"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`\$([\d,]+(?:\.\d{2})?)`),
	regexp.MustCompile(`"value"\s*:\s*([\d,]+(?:\.\d{2})?)`),
}

// VariationClient resolves per-size prices through the catalog's
// Product-Variation API endpoint.
type VariationClient struct {
	client  *fetch.Client
	timeout time.Duration
	logger  *slog.Logger
}

func NewVariationClient(client *fetch.Client, timeout time.Duration, logger *slog.Logger) *VariationClient {
	return &VariationClient{
		client:  client,
		timeout: timeout,
		logger:  logger.With("component", "variation_client"),
	}
}

type variationPayload struct {
	Product struct {
		Price struct {
			Sales struct {
				Formatted string `json:"formatted"`
			} `json:"sales"`
		} `json:"price"`
	} `json:"product"`
}

// FetchPrice calls the variation endpoint and parses a price out of the
// response. Transport errors and unparseable bodies yield (_, false); they are
// never surfaced to the caller.
func (vc *VariationClient) FetchPrice(ctx context.Context, variationURL string) (string, bool) {
	headers := map[string]string{
		"Accept":           "application/json, text/html, */*",
		"X-Requested-With": "XMLHttpRequest",
		"Referer":          vc.client.BaseURL(),
	}

	body, err := vc.client.Get(ctx, variationURL, vc.timeout, headers)
	if err != nil {
		vc.logger.Debug("variation API request failed", "url", variationURL, "error", err)
		return "", false
	}
	if body == "" {
		return "", false
	}

	var payload variationPayload
	if err := json.Unmarshal([]byte(body), &payload); err == nil {
		if formatted := payload.Product.Price.Sales.Formatted; formatted != "" {
			return formatted, true
		}
	}

	for _, re := range variationPriceRes {
		m := re.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		price := m[1]
		if strings.Contains(price, "$") {
			return price, true
		}
		if normalized, ok := normalizePrice(price); ok {
			return normalized, true
		}
	}

	vc.logger.Debug("no price found in variation response", "url", variationURL)
	return "", false
}
