// Package yahoofinance implements the market data provider port against the
// public Yahoo Finance query API. Forex instruments are addressed by pair
// symbols of the form "EURUSD=X".
package yahoofinance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nestegg-app/nestegg_backend/internal/core/ports/providers"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Yahoo rejects requests carrying the default Go user agent.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) nestegg/1.0"

// Client talks to the Yahoo Finance query endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client. An empty baseURL selects the public Yahoo host;
// a non-positive timeout selects 10s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

var _ providers.MarketDataProvider = (*Client)(nil)

type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
}

type chartResult struct {
	Meta struct {
		RegularMarketPrice *float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Search runs Yahoo's free-text instrument search.
func (c *Client) Search(ctx context.Context, query string) ([]providers.Quote, error) {
	addr := fmt.Sprintf("%s/v1/finance/search?q=%s", c.baseURL, url.QueryEscape(query))

	var payload searchResponse
	if err := c.getJSON(ctx, addr, &payload); err != nil {
		return nil, fmt.Errorf("search %q failed: %w", query, err)
	}

	quotes := make([]providers.Quote, 0, len(payload.Quotes))
	for _, q := range payload.Quotes {
		quotes = append(quotes, providers.Quote{
			Symbol:    q.Symbol,
			ShortName: q.ShortName,
			QuoteType: q.QuoteType,
		})
	}
	return quotes, nil
}

// SpotRate fetches the current market price for a currency pair.
func (c *Client) SpotRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s%s=X?interval=1d&range=1d", c.baseURL, fromCurrency, toCurrency)

	result, err := c.getChart(ctx, addr, fromCurrency, toCurrency)
	if err != nil {
		return decimal.Zero, err
	}
	price := result.Meta.RegularMarketPrice
	if price == nil {
		return decimal.Zero, fmt.Errorf("no market price for pair %s/%s", fromCurrency, toCurrency)
	}
	return decimal.NewFromFloat(*price), nil
}

// DailyHistory fetches the daily close series for a pair from since to now.
// Gaps in Yahoo's series come back as points with a nil Close.
func (c *Client) DailyHistory(ctx context.Context, fromCurrency, toCurrency string, since time.Time) ([]providers.PricePoint, error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s%s=X?interval=1d&period1=%d&period2=%d",
		c.baseURL, fromCurrency, toCurrency, since.Unix(), time.Now().Unix())

	result, err := c.getChart(ctx, addr, fromCurrency, toCurrency)
	if err != nil {
		return nil, err
	}
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}

	closes := result.Indicators.Quote[0].Close
	points := make([]providers.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		point := providers.PricePoint{Timestamp: time.Unix(ts, 0).UTC()}
		if i < len(closes) {
			point.Close = closes[i]
		}
		points = append(points, point)
	}
	return points, nil
}

func (c *Client) getChart(ctx context.Context, addr, fromCurrency, toCurrency string) (*chartResult, error) {
	var payload chartResponse
	if err := c.getJSON(ctx, addr, &payload); err != nil {
		return nil, fmt.Errorf("chart request for pair %s/%s failed: %w", fromCurrency, toCurrency, err)
	}
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("provider error for pair %s/%s: %s: %s",
			fromCurrency, toCurrency, payload.Chart.Error.Code, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("empty chart result for pair %s/%s", fromCurrency, toCurrency)
	}
	return &payload.Chart.Result[0], nil
}

// getJSON performs an HTTP GET and unmarshals the JSON response body.
func (c *Client) getJSON(ctx context.Context, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s from %s", resp.Status, resp.Request.URL.Path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}
