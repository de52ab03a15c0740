package output

import (
	"context"

	"finance-agent/internal/domain/entity"
)

// MarketDataPort is the set of data fetchers exposed to the model as tools.
//
//go:generate mockgen -package=mocks -destination=mocks/marketdata.go -source=marketdata.go MarketDataPort
type MarketDataPort interface {
	StockPrice(ctx context.Context, ticker string) (*entity.PriceSnapshot, error)
	CompanyFundamentals(ctx context.Context, ticker string) (*entity.CompanyFundamentals, error)
	PriceHistory(ctx context.Context, ticker string, period entity.Period) (*entity.PriceHistory, error)
	StockNews(ctx context.Context, ticker string) (*entity.NewsDigest, error)
	CompareStocks(ctx context.Context, tickers []string) (*entity.Comparison, error)
}

// MarketDataProbe issues an uninterpreted request for diagnostics.
type MarketDataProbe interface {
	Probe(ctx context.Context, symbol string) entity.ProbeResult
}
