package scraper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hermesdev0131/scrape-salesforce-site/internal/models"
)

func TestStructuredDataStrategy(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">
		{
			"@type": "Product",
			"name": "Glycerin",
			"offers": [
				{"description": "1.0floz / 30ml bottle", "price": "12.50"},
				{"name": "Glycerin 8 oz", "price": 24.0},
				{"sku": "GLY-100", "price": 5.0}
			]
		}
		</script>
	</head><body></body></html>`

	s := NewStructuredDataStrategy(testLogger())
	variants := s.Extract(context.Background(), newTestPage(t, html))

	require.Len(t, variants, 2)
	assert.Equal(t, models.Variant{Size: "1.0floz", Price: "$12.50", Source: models.SourceJSONLD}, variants[0])
	assert.Equal(t, models.Variant{Size: "8 oz", Price: "$24.00", Source: models.SourceJSONLD}, variants[1])
}

func TestStructuredDataStrategySingleOfferAndArrayRoot(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">
		[
			{"@type": "BreadcrumbList"},
			{"@type": "Product", "offers": {"name": "50g jar", "price": "9.95"}}
		]
		</script>
	</head><body></body></html>`

	s := NewStructuredDataStrategy(testLogger())
	variants := s.Extract(context.Background(), newTestPage(t, html))

	require.Len(t, variants, 1)
	assert.Equal(t, models.Variant{Size: "50g", Price: "$9.95", Source: models.SourceJSONLD}, variants[0])
}

func TestStructuredDataStrategyMalformedBlock(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">{not json</script>
	</head><body></body></html>`

	s := NewStructuredDataStrategy(testLogger())
	assert.Empty(t, s.Extract(context.Background(), newTestPage(t, html)))
}

func TestInlineScriptStrategy(t *testing.T) {
	html := `<html><body><script>
		var config = {"variants": [
			{"title": "1.0floz / 30ml", "price": 12.5},
			{"option1": "2 oz", "price": "$18.00"},
			{"title": "no size here", "price": 5.0},
			{"title": "4 oz"}
		]}
	</script></body></html>`

	s := NewInlineScriptStrategy(testLogger())
	variants := s.Extract(context.Background(), newTestPage(t, html))

	require.Len(t, variants, 2)
	assert.Equal(t, models.Variant{Size: "1.0floz", Price: "$12.50", Source: models.SourceInlineJSON}, variants[0])
	assert.Equal(t, models.Variant{Size: "2 oz", Price: "$18.00", Source: models.SourceInlineJSON}, variants[1])
}

func TestInlineScriptStrategyProductAssignment(t *testing.T) {
	html := `<html><body><script>
		window.product = {"items": [{"title": "30ml", "price": 7.0}]};
	</script></body></html>`

	// An assignment without a variants or options key yields nothing.
	s := NewInlineScriptStrategy(testLogger())
	assert.Empty(t, s.Extract(context.Background(), newTestPage(t, html)))
}

func TestTableStrategy(t *testing.T) {
	html := `<html><body>
		<table>
			<tr><th>Size</th><th>Price</th></tr>
			<tr><td>1.0floz / 30ml</td><td>$12.50</td></tr>
			<tr><td>8 oz</td><td>$24.00</td></tr>
			<tr><td>no size</td><td>$1.00</td></tr>
			<tr><td>16 oz</td><td>call us</td></tr>
		</table>
		<table>
			<tr><th>Ingredient</th><th>INCI</th></tr>
			<tr><td>2 oz</td><td>$9.99</td></tr>
		</table>
	</body></html>`

	s := NewTableStrategy(testLogger())
	variants := s.Extract(context.Background(), newTestPage(t, html))

	require.Len(t, variants, 2)
	assert.Equal(t, models.Variant{Size: "1.0floz", Price: "$12.50", Source: models.SourceTable}, variants[0])
	assert.Equal(t, models.Variant{Size: "8 oz", Price: "$24.00", Source: models.SourceTable}, variants[1])
}

func TestProximityStrategy(t *testing.T) {
	html := `<html><body>
		<div class="details">
			<span>8 oz jar</span>
			<span>$12.99</span>
		</div>
	</body></html>`

	s := NewProximityStrategy(testLogger())
	variants := s.Extract(context.Background(), newTestPage(t, html))

	require.Len(t, variants, 1)
	assert.Equal(t, models.Variant{Size: "8 oz", Price: "$12.99", Source: models.SourceProximity}, variants[0])
}

func TestProximityStrategySkipsUnpairedSizes(t *testing.T) {
	html := `<html><body>
		<div><p>Ships in a 50 g sample pouch</p></div>
		<div>
			<span>16 oz</span>
			<span>$30.00</span>
		</div>
	</body></html>`

	// The first size mention has no price nearby; the scan continues until a
	// size/price pair is found.
	s := NewProximityStrategy(testLogger())
	variants := s.Extract(context.Background(), newTestPage(t, html))

	require.Len(t, variants, 1)
	assert.Equal(t, "16 oz", variants[0].Size)
	assert.Equal(t, "$30.00", variants[0].Price)
}

func TestProximityStrategyNoPriceAnywhere(t *testing.T) {
	html := `<html><body><p>Available in 50g and 100g</p></body></html>`

	s := NewProximityStrategy(testLogger())
	assert.Empty(t, s.Extract(context.Background(), newTestPage(t, html)))
}
