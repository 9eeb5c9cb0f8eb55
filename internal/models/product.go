package models

import (
	"time"
)

// Source tags identify which extraction strategy produced a variant.
const (
	SourceDynamicAPI  = "dynamic_api"
	SourceOptionData  = "option_data"
	SourceRadioOption = "radio_option"
	SourceULOption    = "ul_option"
	SourceJSONLD      = "json_ld"
	SourceInlineJSON  = "inline_json"
	SourceTable       = "table"
	SourceProximity   = "proximity"
)

// Variant is one (size, price, source) observation extracted by a single
// strategy from a single page. Price may be empty; size never is.
type Variant struct {
	Size   string `json:"size"`
	Price  string `json:"price,omitempty"`
	Source string `json:"source"`
}

// Product is the consolidated record for one catalog item. Sizes keep
// first-seen order; Prices maps size to a "$D.DD" string, last writer wins.
type Product struct {
	Name         string            `json:"name"`
	Sizes        []string          `json:"sizes"`
	Prices       map[string]string `json:"prices"`
	PriceInfo    string            `json:"price_info"`
	PriceSources []string          `json:"price_sources"`
}

func NewProduct() *Product {
	return &Product{
		Sizes:        make([]string, 0),
		Prices:       make(map[string]string),
		PriceSources: make([]string, 0),
	}
}

// AddVariant folds a variant into the product: the size is appended once in
// first-seen order, a non-empty price overwrites prices[size], and the
// variant's source tag is recorded when it carried a price.
func (p *Product) AddVariant(v Variant) {
	if v.Size == "" {
		return
	}
	if !p.HasSize(v.Size) {
		p.Sizes = append(p.Sizes, v.Size)
	}
	if v.Price != "" {
		p.Prices[v.Size] = v.Price
		p.addSource(v.Source)
	}
}

func (p *Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

func (p *Product) addSource(source string) {
	for _, s := range p.PriceSources {
		if s == source {
			return
		}
	}
	p.PriceSources = append(p.PriceSources, source)
}

// DistinctPrices returns the distinct price values in Prices, ordered by the
// first size that carries each value.
func (p *Product) DistinctPrices() []string {
	seen := make(map[string]bool)
	var values []string
	for _, size := range p.Sizes {
		price, ok := p.Prices[size]
		if !ok || seen[price] {
			continue
		}
		seen[price] = true
		values = append(values, price)
	}
	return values
}

// CrawlStats summarizes one crawl run.
type CrawlStats struct {
	ProductsWithSizes  int `json:"products_with_sizes"`
	ProductsWithPrices int `json:"products_with_prices"`
}

// CrawlResult is the payload of one completed crawl run.
type CrawlResult struct {
	Success       bool       `json:"success"`
	RunID         string     `json:"run_id"`
	TotalProducts int        `json:"total_products"`
	Products      []*Product `json:"products"`
	Statistics    CrawlStats `json:"statistics"`
	ScrapedAt     string     `json:"scraped_at"`
	DurationSec   float64    `json:"duration_sec"`
	Status        string     `json:"status"`
}

// NewCrawlResult builds the result payload for a finished run.
func NewCrawlResult(runID string, products []*Product, started time.Time) *CrawlResult {
	stats := CrawlStats{}
	for _, p := range products {
		if len(p.Sizes) > 0 {
			stats.ProductsWithSizes++
		}
		if len(p.Prices) > 0 || p.PriceInfo != "" {
			stats.ProductsWithPrices++
		}
	}
	return &CrawlResult{
		Success:       true,
		RunID:         runID,
		TotalProducts: len(products),
		Products:      products,
		Statistics:    stats,
		ScrapedAt:     time.Now().Format("2006-01-02 15:04:05"),
		DurationSec:   float64(time.Since(started).Milliseconds()) / 1000.0,
		Status:        "completed",
	}
}
