package tool

import (
	"context"
	"errors"

	"finance-agent/internal/application/port/output"
	"finance-agent/internal/domain/entity"
)

type TickerArgs struct {
	Ticker string `json:"ticker" jsonschema:"minLength=1,maxLength=10" jsonschema_description:"Stock ticker symbol (e.g., AAPL, GOOGL, NVDA, TSLA)"`
}

type HistoryArgs struct {
	Ticker string `json:"ticker" jsonschema:"minLength=1,maxLength=10" jsonschema_description:"Stock ticker symbol"`
	Period string `json:"period,omitempty" jsonschema:"enum=1d,enum=5d,enum=1mo,enum=3mo,enum=6mo,enum=1y,enum=2y,enum=5y,default=1mo" jsonschema_description:"Time period: 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y"`
}

type CompareArgs struct {
	// The cap applies to distinct symbols, so it is enforced after normalization
	// rather than by the schema.
	Tickers []string `json:"tickers" jsonschema:"minItems=1" jsonschema_description:"List of ticker symbols to compare (max 5 distinct)"`
}

// NewFinanceTools builds the five market-data tools in the order they are
// presented to the model.
func NewFinanceTools(data output.MarketDataPort) ([]output.ToolPort, error) {
	price, err := NewFunctionTool(entity.ToolGetStockPrice,
		"Get current stock price, daily change, volume, market cap, P/E, EPS, 52-week range, and moving averages for a ticker.",
		func(ctx context.Context, args TickerArgs) (*entity.PriceSnapshot, error) {
			return data.StockPrice(ctx, args.Ticker)
		})
	if err != nil {
		return nil, err
	}

	fundamentals, err := NewFunctionTool(entity.ToolGetCompanyFundamentals,
		"Get company profile: sector, industry, CEO, employees, description, market cap, beta, and key business info.",
		func(ctx context.Context, args TickerArgs) (*entity.CompanyFundamentals, error) {
			return data.CompanyFundamentals(ctx, args.Ticker)
		})
	if err != nil {
		return nil, err
	}

	history, err := NewFunctionTool(entity.ToolGetPriceHistory,
		"Get historical daily prices for trend analysis. Supports: 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y.",
		func(ctx context.Context, args HistoryArgs) (*entity.PriceHistory, error) {
			period, err := entity.ParsePeriod(args.Period)
			if err != nil {
				return nil, err
			}
			return data.PriceHistory(ctx, args.Ticker, period)
		})
	if err != nil {
		return nil, err
	}

	news, err := NewFunctionTool(entity.ToolGetStockNews,
		"Get the 5 most recent news articles about a stock. Use for sentiment and recent developments.",
		func(ctx context.Context, args TickerArgs) (*entity.NewsDigest, error) {
			return data.StockNews(ctx, args.Ticker)
		})
	if err != nil {
		return nil, err
	}

	compare, err := NewFunctionTool(entity.ToolCompareStocks,
		"Compare up to 5 stocks side by side on price, market cap, P/E, EPS, volume, and 52-week range.",
		func(ctx context.Context, args CompareArgs) (*entity.Comparison, error) {
			symbols, err := entity.NormalizeTickers(args.Tickers)
			if err != nil {
				return nil, err
			}
			return data.CompareStocks(ctx, symbols)
		})
	if err != nil {
		return nil, err
	}

	return []output.ToolPort{price, fundamentals, history, news, compare}, nil
}

// RegisterFinanceTools adds the market-data tools to registry.
func RegisterFinanceTools(registry output.ToolRegistry, data output.MarketDataPort) error {
	if data == nil {
		return errors.New("market data port is required")
	}
	tools, err := NewFinanceTools(data)
	if err != nil {
		return err
	}
	for _, t := range tools {
		if err := registry.Register(t); err != nil {
			return err
		}
	}
	return nil
}
