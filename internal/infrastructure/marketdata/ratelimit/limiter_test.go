package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"finance-agent/internal/application/port/output/mocks"
	"finance-agent/internal/domain/entity"
	"finance-agent/internal/infrastructure/marketdata/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/time/rate"
)

func TestWrapDisabled(t *testing.T) {
	t.Parallel()

	inner := mocks.NewMockMarketDataPort(gomock.NewController(t))

	assert.Same(t, inner, ratelimit.Wrap(inner, 0, 5))
}

func TestWrapDelegates(t *testing.T) {
	t.Parallel()

	// Arrange
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockMarketDataPort(ctrl)
	want := &entity.PriceSnapshot{Ticker: "AAPL"}
	inner.EXPECT().StockPrice(gomock.Any(), "AAPL").Return(want, nil).Times(1)
	inner.EXPECT().PriceHistory(gomock.Any(), "AAPL", entity.Period1Y).Return(&entity.PriceHistory{Ticker: "AAPL"}, nil).Times(1)
	inner.EXPECT().CompareStocks(gomock.Any(), []string{"AAPL", "MSFT"}).Return(&entity.Comparison{}, nil).Times(1)

	limited := ratelimit.Wrap(inner, 600, 5)

	// Act
	got, err := limited.StockPrice(t.Context(), "AAPL")
	require.NoError(t, err)
	_, err = limited.PriceHistory(t.Context(), "AAPL", entity.Period1Y)
	require.NoError(t, err)
	_, err = limited.CompareStocks(t.Context(), []string{"AAPL", "MSFT"})
	require.NoError(t, err)

	// Assert
	assert.Same(t, want, got)
}

func TestCanceledWaitIsRateLimited(t *testing.T) {
	t.Parallel()

	// Arrange: a bucket with one token that refills once an hour
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockMarketDataPort(ctrl)
	inner.EXPECT().StockNews(gomock.Any(), "TSLA").Return(&entity.NewsDigest{}, nil).Times(1)

	limited := &ratelimit.LimitedMarketData{P: inner, TB: rate.NewLimiter(rate.Every(time.Hour), 1)}

	_, err := limited.StockNews(t.Context(), "TSLA")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	// Act: the second call cannot get a token before the deadline
	_, err = limited.StockNews(ctx, "TSLA")

	// Assert
	require.ErrorIs(t, err, entity.ErrRateLimited)
	assert.Equal(t, "rate_limited", entity.ErrorKind(err))
}

func TestInvalidTickersSpendNoQuota(t *testing.T) {
	t.Parallel()

	// Arrange: one token, refilled once an hour, and no calls expected inside
	inner := mocks.NewMockMarketDataPort(gomock.NewController(t))
	tb := rate.NewLimiter(rate.Every(time.Hour), 1)
	limited := &ratelimit.LimitedMarketData{P: inner, TB: tb}

	// Act
	_, priceErr := limited.StockPrice(t.Context(), "NOT A TICKER")
	_, historyErr := limited.PriceHistory(t.Context(), "", entity.Period1M)
	_, compareErr := limited.CompareStocks(t.Context(), []string{"A", "B", "C", "D", "E", "F"})

	// Assert
	require.ErrorIs(t, priceErr, entity.ErrInvalidTicker)
	require.ErrorIs(t, historyErr, entity.ErrInvalidTicker)
	require.ErrorIs(t, compareErr, entity.ErrTooManySymbols)
	assert.True(t, tb.Allow(), "the token must still be available")
}
