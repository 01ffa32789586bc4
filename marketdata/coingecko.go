package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	cacheExpiration = 5 * time.Minute
	requestTimeout  = 10 * time.Second
)

// Quote is one row of the provider's market listing.
type Quote struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	CurrentPrice  float64 `json:"current_price"`
	MarketCapRank *int    `json:"market_cap_rank"`
}

// Fetcher retrieves current market data for a set of asset ids in one
// batched call. An empty id list asks for the provider's top market page.
type Fetcher interface {
	FetchMarkets(ctx context.Context, ids []string) ([]Quote, error)
}

// CoinGecko fetches quotes from the CoinGecko /coins/markets endpoint,
// caching the raw response in Redis for a few minutes. A nil cache client
// disables caching.
type CoinGecko struct {
	baseURL string
	client  *http.Client
	cache   *redis.Client
}

func NewCoinGecko(baseURL string, cache *redis.Client) *CoinGecko {
	return &CoinGecko{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: requestTimeout},
		cache:   cache,
	}
}

func (g *CoinGecko) FetchMarkets(ctx context.Context, ids []string) ([]Quote, error) {
	cacheKey := "coingecko:markets:" + strings.Join(ids, ",")

	if g.cache != nil {
		if cached, err := g.cache.Get(ctx, cacheKey).Result(); err == nil {
			var quotes []Quote
			if err := json.Unmarshal([]byte(cached), &quotes); err == nil {
				return quotes, nil
			}
		}
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("per_page", "250")
	params.Set("page", "1")
	if len(ids) > 0 {
		params.Set("ids", strings.Join(ids, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/coins/markets?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch market data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch market data: unexpected status %d", resp.StatusCode)
	}

	var quotes []Quote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return nil, fmt.Errorf("decode market data: %w", err)
	}

	if g.cache != nil {
		if payload, err := json.Marshal(quotes); err == nil {
			g.cache.Set(ctx, cacheKey, payload, cacheExpiration)
		}
	}

	return quotes, nil
}
