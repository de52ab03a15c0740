package fmp_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"finance-agent/internal/domain/entity"
	"finance-agent/internal/infrastructure/marketdata/fmp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestClient(t *testing.T, httpClient fmp.HTTPClient, opts ...fmp.ClientOption) *fmp.Client {
	t.Helper()

	opts = append([]fmp.ClientOption{fmp.WithHTTPClient(httpClient)}, opts...)
	client, err := fmp.NewClient("secret", opts...)
	require.NoError(t, err)
	return client
}

func TestStockPrice(t *testing.T) {
	t.Parallel()

	// Arrange
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(jsonResponse(t, http.StatusOK, []map[string]any{{
			"symbol":            "AAPL",
			"name":              "Apple Inc.",
			"price":             189.5,
			"changesPercentage": 1.25,
			"pe":                29.1,
			"priceAvg50":        180.0,
		}}), nil).
		Times(1)
	client := newTestClient(t, httpClient)

	// Act
	snapshot, err := client.StockPrice(t.Context(), " aapl ")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "AAPL", snapshot.Ticker)
	assert.Equal(t, "Apple Inc.", snapshot.Name)
	assert.Equal(t, "N/A", snapshot.Exchange)
	require.NotNil(t, snapshot.Price)
	assert.InDelta(t, 189.5, *snapshot.Price, 1e-9)
	require.NotNil(t, snapshot.FiftyDayAvg)
	assert.Nil(t, snapshot.EPS)
}

func TestStockPriceUnknownTicker(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().Do(gomock.Any()).Return(rawResponse(http.StatusOK, "[]"), nil).Times(1)
	client := newTestClient(t, httpClient)

	_, err := client.StockPrice(t.Context(), "ZZZZ")

	require.ErrorIs(t, err, entity.ErrNotFound)
	assert.Contains(t, err.Error(), "ZZZZ")
}

func TestInvalidTickerMakesNoRequest(t *testing.T) {
	t.Parallel()

	// Arrange: the mock has no expectations, any call fails the test
	client := newTestClient(t, NewMockHTTPClient(gomock.NewController(t)))

	for _, ticker := range []string{"", "   ", "AAPL/../x", "WAYTOOLONGTICKER", "aa pl"} {
		_, err := client.StockPrice(t.Context(), ticker)
		require.ErrorIsf(t, err, entity.ErrInvalidTicker, "ticker %q", ticker)
	}
}

func TestCompanyFundamentals(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "/api/v3/profile/MSFT", req.URL.Path)
			return jsonResponse(t, http.StatusOK, []map[string]any{{
				"symbol":            "MSFT",
				"companyName":       "Microsoft Corporation",
				"sector":            "Technology",
				"fullTimeEmployees": 221000,
				"description":       strings.Repeat("é", 700),
				"mktCap":            3.1e12,
				"range":             "300-450",
				"isEtf":             false,
			}}), nil
		}).
		Times(1)
	client := newTestClient(t, httpClient)

	profile, err := client.CompanyFundamentals(t.Context(), "msft")

	require.NoError(t, err)
	assert.Equal(t, "Microsoft Corporation", profile.Name)
	assert.Equal(t, "N/A", profile.Industry)
	require.NotNil(t, profile.Employees)
	assert.Equal(t, "221000", *profile.Employees)
	assert.Len(t, []rune(profile.Description), 500)
	require.NotNil(t, profile.Financials.Range)
	assert.Equal(t, "300-450", *profile.Financials.Range)
	assert.False(t, profile.IsETF)
	assert.True(t, profile.IsActivelyTrading)
	assert.Nil(t, profile.IPODate)
}

func TestCompanyFundamentalsEmployeesAsString(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(rawResponse(http.StatusOK, `[{"symbol":"AAPL","fullTimeEmployees":"164000","isActivelyTrading":false}]`), nil).
		Times(1)
	client := newTestClient(t, httpClient)

	profile, err := client.CompanyFundamentals(t.Context(), "AAPL")

	require.NoError(t, err)
	require.NotNil(t, profile.Employees)
	assert.Equal(t, "164000", *profile.Employees)
	assert.False(t, profile.IsActivelyTrading)
}

func TestPriceHistory(t *testing.T) {
	t.Parallel()

	// Arrange: 20 bars newest first, close 120 down to 101
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	bars := make([]map[string]any, 0, 20)
	for i := 0; i < 20; i++ {
		bars = append(bars, map[string]any{
			"date":   now.AddDate(0, 0, -i).Format("2006-01-02"),
			"close":  float64(120 - i),
			"volume": 1000.0,
		})
	}

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "/api/v3/historical-price-full/AAPL", req.URL.Path)
			assert.Equal(t, "2024-02-04", req.URL.Query().Get("from"))
			assert.Equal(t, "2024-03-10", req.URL.Query().Get("to"))
			return jsonResponse(t, http.StatusOK, map[string]any{"symbol": "AAPL", "historical": bars}), nil
		}).
		Times(1)
	client := newTestClient(t, httpClient, fmp.WithClock(func() time.Time { return now }))

	// Act
	history, err := client.PriceHistory(t.Context(), "AAPL", entity.Period1M)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.Period1M, history.Period)
	assert.Equal(t, 20, history.DataPoints)
	require.Len(t, history.Prices, 15)
	assert.Equal(t, now.Format("2006-01-02"), history.Prices[14].Date)
	assert.InDelta(t, 101.0, history.Summary.StartPrice, 1e-9)
	assert.InDelta(t, 120.0, history.Summary.EndPrice, 1e-9)
	assert.InDelta(t, 18.81, history.Summary.ChangePercent, 1e-9)
	assert.InDelta(t, 120.0, history.Summary.PeriodHigh, 1e-9)
	assert.InDelta(t, 101.0, history.Summary.PeriodLow, 1e-9)
	assert.Equal(t, int64(1000), history.Summary.AvgVolume)
}

func TestPriceHistoryEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "unknown symbol", body: `{}`},
		{name: "no closes", body: `{"symbol":"AAPL","historical":[{"date":"2024-01-02"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			httpClient := NewMockHTTPClient(ctrl)
			httpClient.EXPECT().Do(gomock.Any()).Return(rawResponse(http.StatusOK, tt.body), nil).Times(1)
			client := newTestClient(t, httpClient)

			_, err := client.PriceHistory(t.Context(), "AAPL", "")
			require.ErrorIs(t, err, entity.ErrNotFound)
		})
	}
}

func TestStockNews(t *testing.T) {
	t.Parallel()

	articles := make([]map[string]any, 0, 7)
	for i := 0; i < 7; i++ {
		articles = append(articles, map[string]any{
			"symbol": "TSLA",
			"title":  "headline",
			"site":   "example.com",
			"text":   strings.Repeat("a", 300),
			"url":    "https://example.com/a",
		})
	}

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "/api/v3/stock_news", req.URL.Path)
			assert.Equal(t, "TSLA", req.URL.Query().Get("tickers"))
			assert.Equal(t, "5", req.URL.Query().Get("limit"))
			return jsonResponse(t, http.StatusOK, articles), nil
		}).
		Times(1)
	client := newTestClient(t, httpClient)

	digest, err := client.StockNews(t.Context(), "tsla")

	require.NoError(t, err)
	assert.Equal(t, 5, digest.NewsCount)
	require.Len(t, digest.Articles, 5)
	assert.Len(t, digest.Articles[0].Summary, 200)
	assert.Equal(t, "N/A", digest.Articles[0].Date)
	assert.Empty(t, digest.Message)
}

func TestStockNewsEmptyIsNotAnError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().Do(gomock.Any()).Return(rawResponse(http.StatusOK, "[]"), nil).Times(1)
	client := newTestClient(t, httpClient)

	digest, err := client.StockNews(t.Context(), "TSLA")

	require.NoError(t, err)
	assert.Zero(t, digest.NewsCount)
	assert.Empty(t, digest.Articles)
	assert.Equal(t, "No recent news found", digest.Message)
}

func TestCompareStocks(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "/api/v3/quote/AAPL,MSFT,GOOGL", req.URL.Path)
			return jsonResponse(t, http.StatusOK, []map[string]any{
				{"symbol": "AAPL", "name": "Apple Inc.", "price": 189.5},
				{"symbol": "MSFT", "name": "Microsoft Corporation", "price": 410.2},
			}), nil
		}).
		Times(1)
	client := newTestClient(t, httpClient)

	comparison, err := client.CompareStocks(t.Context(), []string{"aapl", "MSFT", "googl", "AAPL"})

	require.NoError(t, err)
	assert.Equal(t, 2, comparison.StocksCompared)
	require.Len(t, comparison.Comparisons, 2)
	assert.Equal(t, "AAPL", comparison.Comparisons[0].Ticker)
	assert.Equal(t, []string{"GOOGL"}, comparison.Missing)
}

func TestCompareStocksTooManySymbols(t *testing.T) {
	t.Parallel()

	// Arrange: no Do expectations, the request must be rejected locally
	client := newTestClient(t, NewMockHTTPClient(gomock.NewController(t)))

	_, err := client.CompareStocks(t.Context(), []string{"AAPL", "MSFT", "GOOGL", "AMZN", "META", "NVDA"})

	require.ErrorIs(t, err, entity.ErrTooManySymbols)
	assert.Equal(t, "invalid_arguments", entity.ErrorKind(err))
}

func TestCompareStocksEmptyList(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, NewMockHTTPClient(gomock.NewController(t)))

	_, err := client.CompareStocks(t.Context(), nil)

	require.ErrorIs(t, err, entity.ErrInvalidArguments)
}
