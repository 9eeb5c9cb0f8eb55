package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hermesdev0131/scrape-salesforce-site/internal/fetch"
)

func newVariationClient(baseURL string) *VariationClient {
	client := fetch.New(baseURL, "test-agent", testLogger())
	return NewVariationClient(client, 2*time.Second, testLogger())
}

func TestFetchPriceJSONPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json, text/html, */*", r.Header.Get("Accept"))
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		assert.NotEmpty(t, r.Header.Get("Referer"))
		w.Write([]byte(`{"product":{"price":{"sales":{"formatted":"$12.50","value":12.5}}}}`))
	}))
	defer server.Close()

	vc := newVariationClient(server.URL)
	price, ok := vc.FetchPrice(context.Background(), "/on/demandware.store/Product-Variation?pid=X")

	assert.True(t, ok)
	assert.Equal(t, "$12.50", price)
}

func TestFetchPriceRegexFallbacks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "formatted field in non-standard envelope",
			body: `{"pricing":{"price":{"formatted":"$8.95"}}}`,
			want: "$8.95",
		},
		{
			name: "dollar amount in html fragment",
			body: `<span class="sales">$1,234.00</span>`,
			want: "$1234.00",
		},
		{
			name: "bare numeric value field",
			body: `{"value": 15.95, "currency": "USD"}`,
			want: "$15.95",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			vc := newVariationClient(server.URL)
			price, ok := vc.FetchPrice(context.Background(), "/variation")

			assert.True(t, ok)
			assert.Equal(t, tt.want, price)
		})
	}
}

func TestFetchPriceFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/error":
			w.WriteHeader(http.StatusInternalServerError)
		case "/empty":
			w.Write([]byte("no price in here"))
		}
	}))
	defer server.Close()

	vc := newVariationClient(server.URL)

	for _, path := range []string{"/error", "/empty"} {
		price, ok := vc.FetchPrice(context.Background(), path)
		assert.False(t, ok, path)
		assert.Empty(t, price, path)
	}
}
