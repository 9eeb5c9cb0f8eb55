package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddVariant(t *testing.T) {
	p := NewProduct()

	p.AddVariant(Variant{Size: "30ml", Price: "$8.00", Source: SourceOptionData})
	p.AddVariant(Variant{Size: "30ml", Price: "$9.00", Source: SourceOptionData})
	p.AddVariant(Variant{Size: "100ml", Source: SourceProximity})
	p.AddVariant(Variant{Size: "", Price: "$1.00", Source: SourceTable})

	// Duplicate sizes are recorded once; the later price wins. Unpriced
	// variants contribute a size but no source.
	assert.Equal(t, []string{"30ml", "100ml"}, p.Sizes)
	assert.Equal(t, map[string]string{"30ml": "$9.00"}, p.Prices)
	assert.Equal(t, []string{SourceOptionData}, p.PriceSources)
}

func TestDistinctPricesOrderedBySize(t *testing.T) {
	p := NewProduct()
	p.AddVariant(Variant{Size: "30ml", Price: "$8.00", Source: SourceTable})
	p.AddVariant(Variant{Size: "60ml", Price: "$8.00", Source: SourceTable})
	p.AddVariant(Variant{Size: "100ml", Price: "$20.00", Source: SourceTable})

	assert.Equal(t, []string{"$8.00", "$20.00"}, p.DistinctPrices())
}

func TestNewCrawlResult(t *testing.T) {
	withBoth := NewProduct()
	withBoth.AddVariant(Variant{Size: "30ml", Price: "$8.00", Source: SourceTable})

	sizesOnly := NewProduct()
	sizesOnly.AddVariant(Variant{Size: "50g", Source: SourceProximity})

	empty := NewProduct()

	result := NewCrawlResult("run-1", []*Product{withBoth, sizesOnly, empty}, time.Now().Add(-2*time.Second))

	assert.True(t, result.Success)
	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, 3, result.TotalProducts)
	assert.Equal(t, 2, result.Statistics.ProductsWithSizes)
	assert.Equal(t, 1, result.Statistics.ProductsWithPrices)
	assert.Equal(t, "completed", result.Status)
	assert.InDelta(t, 2.0, result.DurationSec, 1.0)

	ts, err := time.Parse("2006-01-02 15:04:05", result.ScrapedAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}
