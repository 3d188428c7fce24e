package risk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"solana-trade-desk/internal/domain"
)

// Default Solana Tracker settings.
const (
	DefaultTrackerURL     = "https://data.solanatracker.io"
	DefaultTrackerTimeout = 10 * time.Second
)

// TrackerClient is a Solana Tracker data API client.
// It implements RiskProvider, MarketProvider and StatsProvider.
type TrackerClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var (
	_ RiskProvider   = (*TrackerClient)(nil)
	_ MarketProvider = (*TrackerClient)(nil)
	_ StatsProvider  = (*TrackerClient)(nil)
)

// TrackerOption configures TrackerClient.
type TrackerOption func(*TrackerClient)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) TrackerOption {
	return func(c *TrackerClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) TrackerOption {
	return func(c *TrackerClient) {
		c.client = client
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) TrackerOption {
	return func(c *TrackerClient) {
		c.client.Timeout = d
	}
}

// NewTrackerClient creates a new Solana Tracker client.
func NewTrackerClient(apiKey string, opts ...TrackerOption) *TrackerClient {
	c := &TrackerClient{
		baseURL: DefaultTrackerURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: DefaultTrackerTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// trackerRisk is the risk object of GET /tokens/{address}.
type trackerRisk struct {
	Score  *decimal.Decimal `json:"score"`
	Rugged bool             `json:"rugged"`
	Risks  []struct {
		Name  string          `json:"name"`
		Level string          `json:"level"`
		Score decimal.Decimal `json:"score"`
	} `json:"risks"`
}

type usdValue struct {
	USD decimal.Decimal `json:"usd"`
}

// trackerPrice is the body of GET /price.
type trackerPrice struct {
	Price       usdValue `json:"price"`
	MarketCap   usdValue `json:"marketCap"`
	Liquidity   usdValue `json:"liquidity"`
	PriceChange struct {
		H1  decimal.Decimal `json:"1h"`
		H24 decimal.Decimal `json:"24h"`
		D7  decimal.Decimal `json:"7d"`
	} `json:"priceChange"`
}

// trackerStats is the body of GET /stats/{address}.
type trackerStats struct {
	Day *struct {
		Buys    int `json:"buys"`
		Sells   int `json:"sells"`
		Buyers  int `json:"buyers"`
		Sellers int `json:"sellers"`
		Volume  struct {
			Total decimal.Decimal `json:"total"`
		} `json:"volume"`
	} `json:"24h"`
}

// FetchRisk returns the provider risk object. A missing risk object is
// reported as ErrProviderUnavailable.
func (c *TrackerClient) FetchRisk(ctx context.Context, address string) (RiskPayload, error) {
	var body struct {
		Risk *trackerRisk `json:"risk"`
	}
	if err := c.get(ctx, "/tokens/"+url.PathEscape(address), &body); err != nil {
		return RiskPayload{}, err
	}
	if body.Risk == nil || (body.Risk.Score == nil && len(body.Risk.Risks) == 0 && !body.Risk.Rugged) {
		return RiskPayload{}, fmt.Errorf("%w: empty risk object for %s", ErrProviderUnavailable, address)
	}

	p := RiskPayload{
		Score:  5,
		Rugged: body.Risk.Rugged,
		Risks:  make([]domain.RiskFactor, 0, len(body.Risk.Risks)),
	}
	if body.Risk.Score != nil {
		p.Score = body.Risk.Score.InexactFloat64()
	}
	for _, r := range body.Risk.Risks {
		p.Risks = append(p.Risks, domain.RiskFactor{
			Name:     r.Name,
			Severity: r.Level,
			Score:    r.Score.InexactFloat64(),
		})
	}
	return p, nil
}

// FetchMarket returns price, market cap, liquidity and price changes.
func (c *TrackerClient) FetchMarket(ctx context.Context, address string) (domain.MarketData, error) {
	var body trackerPrice
	if err := c.get(ctx, "/price?token="+url.QueryEscape(address), &body); err != nil {
		return domain.MarketData{}, err
	}
	return domain.MarketData{
		TokenAddress:   address,
		PriceUSD:       body.Price.USD.InexactFloat64(),
		MarketCapUSD:   body.MarketCap.USD.InexactFloat64(),
		LiquidityUSD:   body.Liquidity.USD.InexactFloat64(),
		PriceChange1h:  body.PriceChange.H1.InexactFloat64(),
		PriceChange24h: body.PriceChange.H24.InexactFloat64(),
		PriceChange7d:  body.PriceChange.D7.InexactFloat64(),
	}, nil
}

// FetchStats returns the 24h trading statistics.
func (c *TrackerClient) FetchStats(ctx context.Context, address string) (domain.TokenStats, error) {
	var body trackerStats
	if err := c.get(ctx, "/stats/"+url.PathEscape(address), &body); err != nil {
		return domain.TokenStats{}, err
	}
	if body.Day == nil {
		return domain.TokenStats{}, fmt.Errorf("%w: no 24h stats for %s", ErrProviderUnavailable, address)
	}
	return domain.TokenStats{
		TokenAddress:     address,
		Buys24h:          body.Day.Buys,
		Sells24h:         body.Day.Sells,
		Volume24h:        body.Day.Volume.Total.InexactFloat64(),
		UniqueBuyers24h:  body.Day.Buyers,
		UniqueSellers24h: body.Day.Sellers,
	}, nil
}

// get performs an authenticated GET and decodes the JSON body.
func (c *TrackerClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: http request: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrProviderUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d: %s", ErrProviderUnavailable, resp.StatusCode, string(respBody))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: unmarshal response: %v", ErrProviderUnavailable, err)
	}
	return nil
}

// clampScore rounds a provider score into the 0..10 range.
func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 5
	}
	s := int(math.Round(v))
	if s < 0 {
		return 0
	}
	if s > 10 {
		return 10
	}
	return s
}
