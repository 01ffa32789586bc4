package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchMarkets(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		assert.Equal(t, "/coins/markets", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":50000.0,"market_cap_rank":1},
			{"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":3000.5,"market_cap_rank":2}
		]`))
	}))
	defer server.Close()

	gecko := NewCoinGecko(server.URL, nil)
	quotes, err := gecko.FetchMarkets(context.Background(), []string{"bitcoin", "ethereum"})
	require.NoError(t, err)

	assert.Equal(t, []string{"usd"}, gotQuery["vs_currency"])
	assert.Equal(t, []string{"bitcoin,ethereum"}, gotQuery["ids"])

	require.Len(t, quotes, 2)
	assert.Equal(t, "bitcoin", quotes[0].ID)
	assert.Equal(t, 50000.0, quotes[0].CurrentPrice)
	require.NotNil(t, quotes[0].MarketCapRank)
	assert.Equal(t, 1, *quotes[0].MarketCapRank)
}

func TestFetchMarketsTopPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("ids"))
		assert.Equal(t, "250", r.URL.Query().Get("per_page"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	gecko := NewCoinGecko(server.URL, nil)
	quotes, err := gecko.FetchMarkets(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestFetchMarketsUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	gecko := NewCoinGecko(server.URL, nil)
	_, err := gecko.FetchMarkets(context.Background(), []string{"bitcoin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestFetchMarketsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	gecko := NewCoinGecko(server.URL, nil)
	_, err := gecko.FetchMarkets(context.Background(), []string{"bitcoin"})
	require.Error(t, err)
}
