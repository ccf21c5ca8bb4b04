package yahoofinance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, path, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, path, r.URL.Path)
		assert.NotContains(t, r.Header.Get("User-Agent"), "Go-http-client")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestSearch_ParsesQuotes(t *testing.T) {
	body := `{"quotes":[
		{"symbol":"EURUSD=X","shortname":"EUR/USD","quoteType":"CURRENCY"},
		{"symbol":"EUO","shortname":"ProShares UltraShort Euro","quoteType":"ETF"}
	]}`
	srv := newTestServer(t, "/v1/finance/search", body, http.StatusOK)
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	quotes, err := client.Search(context.Background(), "euro")

	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "EURUSD=X", quotes[0].Symbol)
	assert.Equal(t, "CURRENCY", quotes[0].QuoteType)
	assert.Equal(t, "ETF", quotes[1].QuoteType)
}

func TestSpotRate_ReadsRegularMarketPrice(t *testing.T) {
	body := `{"chart":{"result":[{"meta":{"regularMarketPrice":1.0842}}],"error":null}}`
	srv := newTestServer(t, "/v8/finance/chart/EURUSD=X", body, http.StatusOK)
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	rate, err := client.SpotRate(context.Background(), "EUR", "USD")

	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromFloat(1.0842)))
}

func TestSpotRate_MissingPriceIsAnError(t *testing.T) {
	body := `{"chart":{"result":[{"meta":{}}],"error":null}}`
	srv := newTestServer(t, "/v8/finance/chart/EURUSD=X", body, http.StatusOK)
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.SpotRate(context.Background(), "EUR", "USD")

	assert.ErrorContains(t, err, "no market price")
}

func TestSpotRate_ProviderErrorSurfaces(t *testing.T) {
	body := `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`
	srv := newTestServer(t, "/v8/finance/chart/XXXUSD=X", body, http.StatusOK)
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.SpotRate(context.Background(), "XXX", "USD")

	assert.ErrorContains(t, err, "symbol may be delisted")
}

func TestDailyHistory_PreservesGapsAsNilCloses(t *testing.T) {
	// Three consecutive days starting 2025-06-02 midnight UTC, middle close missing.
	body := `{"chart":{"result":[{
		"meta":{"regularMarketPrice":0.74},
		"timestamp":[1748822400,1748908800,1748995200],
		"indicators":{"quote":[{"close":[0.73,null,0.74]}]}
	}],"error":null}}`
	srv := newTestServer(t, "/v8/finance/chart/CADUSD=X", body, http.StatusOK)
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	points, err := client.DailyHistory(context.Background(), "CAD", "USD", time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC), points[0].Timestamp)
	require.NotNil(t, points[0].Close)
	assert.InDelta(t, 0.73, *points[0].Close, 1e-9)
	assert.Nil(t, points[1].Close)
	require.NotNil(t, points[2].Close)
	assert.InDelta(t, 0.74, *points[2].Close, 1e-9)
}

func TestDailyHistory_EmptyIndicators(t *testing.T) {
	body := `{"chart":{"result":[{"meta":{},"timestamp":[],"indicators":{"quote":[]}}],"error":null}}`
	srv := newTestServer(t, "/v8/finance/chart/CADUSD=X", body, http.StatusOK)
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	points, err := client.DailyHistory(context.Background(), "CAD", "USD", time.Now().AddDate(0, -1, 0))

	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestGetJSON_NonOKStatus(t *testing.T) {
	srv := newTestServer(t, "/v1/finance/search", "rate limited", http.StatusTooManyRequests)
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Search(context.Background(), "euro")

	assert.ErrorContains(t, err, "unexpected status")
}
