package ratelimit

import (
	"context"
	"fmt"
	"time"

	"finance-agent/internal/application/port/output"
	"finance-agent/internal/domain/entity"

	"golang.org/x/time/rate"
)

// LimitedMarketData wraps a MarketDataPort and gates every call on a token
// bucket shared by all requests of the process.
type LimitedMarketData struct {
	P  output.MarketDataPort
	TB *rate.Limiter
}

var _ output.MarketDataPort = (*LimitedMarketData)(nil)

// Wrap returns p unchanged when perMinute is not positive.
func Wrap(p output.MarketDataPort, perMinute, burst int) output.MarketDataPort {
	if perMinute <= 0 {
		return p
	}
	if burst <= 0 {
		burst = 1
	}
	every := time.Minute / time.Duration(perMinute)
	return &LimitedMarketData{P: p, TB: rate.NewLimiter(rate.Every(every), burst)}
}

// wait rejects malformed tickers first so they never spend quota.
func (l *LimitedMarketData) wait(ctx context.Context, tickers ...string) error {
	for _, t := range tickers {
		if _, err := entity.NormalizeTicker(t); err != nil {
			return err
		}
	}
	if l.TB == nil {
		return nil
	}
	if err := l.TB.Wait(ctx); err != nil {
		return fmt.Errorf("%w: waiting for local quota: %w", entity.ErrRateLimited, err)
	}
	return nil
}

func (l *LimitedMarketData) StockPrice(ctx context.Context, ticker string) (*entity.PriceSnapshot, error) {
	if err := l.wait(ctx, ticker); err != nil {
		return nil, err
	}
	return l.P.StockPrice(ctx, ticker)
}

func (l *LimitedMarketData) CompanyFundamentals(ctx context.Context, ticker string) (*entity.CompanyFundamentals, error) {
	if err := l.wait(ctx, ticker); err != nil {
		return nil, err
	}
	return l.P.CompanyFundamentals(ctx, ticker)
}

func (l *LimitedMarketData) PriceHistory(ctx context.Context, ticker string, period entity.Period) (*entity.PriceHistory, error) {
	if err := l.wait(ctx, ticker); err != nil {
		return nil, err
	}
	return l.P.PriceHistory(ctx, ticker, period)
}

func (l *LimitedMarketData) StockNews(ctx context.Context, ticker string) (*entity.NewsDigest, error) {
	if err := l.wait(ctx, ticker); err != nil {
		return nil, err
	}
	return l.P.StockNews(ctx, ticker)
}

func (l *LimitedMarketData) CompareStocks(ctx context.Context, tickers []string) (*entity.Comparison, error) {
	if _, err := entity.NormalizeTickers(tickers); err != nil {
		return nil, err
	}
	if err := l.wait(ctx); err != nil {
		return nil, err
	}
	return l.P.CompareStocks(ctx, tickers)
}
