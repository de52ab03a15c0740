package fmp

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"finance-agent/internal/application/port/output"
	"finance-agent/internal/domain/entity"
)

const (
	notAvailable      = "N/A"
	descriptionLimit  = 500
	newsSummaryLimit  = 200
	newsLimit         = 5
	historyTailLength = 15
	dateLayout        = "2006-01-02"
)

var _ output.MarketDataPort = (*Client)(nil)

// StockPrice returns the current quote for ticker.
func (c *Client) StockPrice(ctx context.Context, ticker string) (*entity.PriceSnapshot, error) {
	symbol, err := entity.NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}

	var quotes []quote
	if err := c.get(ctx, "quote/"+url.PathEscape(symbol), nil, &quotes); err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w for ticker '%s'", entity.ErrNotFound, symbol)
	}

	q := quotes[0]
	return &entity.PriceSnapshot{
		Ticker:            symbol,
		Name:              strOr(q.Name, notAvailable),
		Price:             q.Price,
		Change:            q.Change,
		ChangePercent:     q.ChangesPercentage,
		DayHigh:           q.DayHigh,
		DayLow:            q.DayLow,
		YearHigh:          q.YearHigh,
		YearLow:           q.YearLow,
		Volume:            q.Volume,
		AvgVolume:         q.AvgVolume,
		MarketCap:         q.MarketCap,
		PERatio:           q.PE,
		EPS:               q.EPS,
		Open:              q.Open,
		PreviousClose:     q.PreviousClose,
		Exchange:          strOr(q.Exchange, notAvailable),
		SharesOutstanding: q.SharesOutstanding,
		FiftyDayAvg:       q.PriceAvg50,
		TwoHundredDayAvg:  q.PriceAvg200,
	}, nil
}

// CompanyFundamentals returns the company profile for ticker.
func (c *Client) CompanyFundamentals(ctx context.Context, ticker string) (*entity.CompanyFundamentals, error) {
	symbol, err := entity.NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}

	var profiles []profile
	if err := c.get(ctx, "profile/"+url.PathEscape(symbol), nil, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: no profile data for '%s'", entity.ErrNotFound, symbol)
	}

	p := profiles[0]
	return &entity.CompanyFundamentals{
		Ticker:      symbol,
		Name:        strOr(p.CompanyName, notAvailable),
		Sector:      strOr(p.Sector, notAvailable),
		Industry:    strOr(p.Industry, notAvailable),
		Country:     strOr(p.Country, notAvailable),
		Exchange:    strOr(p.Exchange, notAvailable),
		Employees:   p.FullTimeEmployees.ptr(),
		CEO:         strOr(p.CEO, notAvailable),
		Website:     strOr(p.Website, notAvailable),
		Description: truncate(strOr(p.Description, notAvailable), descriptionLimit),
		IPODate:     p.IPODate,
		Financials: entity.CompanyFinancials{
			MarketCap:    p.MktCap,
			Price:        p.Price,
			Beta:         p.Beta,
			VolumeAvg:    p.VolAvg,
			LastDividend: p.LastDiv,
			Range:        p.Range,
		},
		IsETF:             boolOr(p.IsETF, false),
		IsActivelyTrading: boolOr(p.IsActivelyTrading, true),
	}, nil
}

// PriceHistory returns daily bars for the look-back window of period, oldest first.
func (c *Client) PriceHistory(ctx context.Context, ticker string, period entity.Period) (*entity.PriceHistory, error) {
	symbol, err := entity.NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = entity.DefaultPeriod
	}

	now := c.now()
	query := url.Values{}
	query.Set("from", now.AddDate(0, 0, -period.LookbackDays()).Format(dateLayout))
	query.Set("to", now.Format(dateLayout))

	var payload historical
	if err := c.get(ctx, "historical-price-full/"+url.PathEscape(symbol), query, &payload); err != nil {
		return nil, err
	}
	if len(payload.Historical) == 0 {
		return nil, fmt.Errorf("%w: no price history for '%s'", entity.ErrNotFound, symbol)
	}

	// FMP returns newest first.
	n := len(payload.Historical)
	prices := make([]entity.PricePoint, n)
	for i, b := range payload.Historical {
		prices[n-1-i] = entity.PricePoint{
			Date:          b.Date,
			Open:          b.Open,
			High:          b.High,
			Low:           b.Low,
			Close:         b.Close,
			Volume:        b.Volume,
			ChangePercent: b.ChangePercent,
		}
	}

	summary, ok := summarize(prices)
	if !ok {
		return nil, fmt.Errorf("%w: no valid closing prices for '%s'", entity.ErrNotFound, symbol)
	}

	tail := prices
	if len(tail) > historyTailLength {
		tail = tail[len(tail)-historyTailLength:]
	}

	return &entity.PriceHistory{
		Ticker:     symbol,
		Period:     period,
		DataPoints: n,
		Prices:     tail,
		Summary:    summary,
	}, nil
}

func summarize(prices []entity.PricePoint) (entity.PriceSummary, bool) {
	var (
		closes      []float64
		volumeTotal float64
	)
	for _, p := range prices {
		if p.Close != nil {
			closes = append(closes, *p.Close)
		}
		if p.Volume != nil {
			volumeTotal += *p.Volume
		}
	}
	if len(closes) == 0 {
		return entity.PriceSummary{}, false
	}

	first, last := closes[0], closes[len(closes)-1]
	high, low := closes[0], closes[0]
	for _, c := range closes[1:] {
		high = math.Max(high, c)
		low = math.Min(low, c)
	}

	var change float64
	if first != 0 {
		change = round((last-first)/first*100, 2)
	}

	return entity.PriceSummary{
		StartPrice:    first,
		EndPrice:      last,
		ChangePercent: change,
		PeriodHigh:    round(high, 2),
		PeriodLow:     round(low, 2),
		AvgVolume:     int64(volumeTotal / float64(len(prices))),
	}, true
}

// StockNews returns up to five recent articles. No articles is not an error.
func (c *Client) StockNews(ctx context.Context, ticker string) (*entity.NewsDigest, error) {
	symbol, err := entity.NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("tickers", symbol)
	query.Set("limit", strconv.Itoa(newsLimit))

	var articles []article
	if err := c.get(ctx, "stock_news", query, &articles); err != nil {
		return nil, err
	}

	digest := &entity.NewsDigest{Ticker: symbol, Articles: []entity.NewsArticle{}}
	if len(articles) == 0 {
		digest.Message = "No recent news found"
		return digest, nil
	}
	if len(articles) > newsLimit {
		articles = articles[:newsLimit]
	}
	for _, a := range articles {
		text := ""
		if a.Text != nil {
			text = *a.Text
		}
		link := ""
		if a.URL != nil {
			link = *a.URL
		}
		digest.Articles = append(digest.Articles, entity.NewsArticle{
			Title:   strOr(a.Title, notAvailable),
			Source:  strOr(a.Site, notAvailable),
			Date:    strOr(a.PublishedDate, notAvailable),
			Summary: truncate(text, newsSummaryLimit),
			URL:     link,
		})
	}
	digest.NewsCount = len(digest.Articles)
	return digest, nil
}

// CompareStocks fetches quotes for up to entity.MaxCompareSymbols tickers in one request.
func (c *Client) CompareStocks(ctx context.Context, tickers []string) (*entity.Comparison, error) {
	symbols, err := entity.NormalizeTickers(tickers)
	if err != nil {
		return nil, err
	}

	escaped := make([]string, len(symbols))
	for i, s := range symbols {
		escaped[i] = url.PathEscape(s)
	}

	var quotes []quote
	if err := c.get(ctx, "quote/"+strings.Join(escaped, ","), nil, &quotes); err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: no data returned for comparison", entity.ErrNotFound)
	}

	out := &entity.Comparison{Comparisons: make([]entity.ComparisonRow, 0, len(quotes))}
	returned := make(map[string]struct{}, len(quotes))
	for _, q := range quotes {
		symbol := q.Symbol
		if symbol == "" {
			symbol = notAvailable
		}
		returned[strings.ToUpper(symbol)] = struct{}{}
		out.Comparisons = append(out.Comparisons, entity.ComparisonRow{
			Ticker:           symbol,
			Name:             strOr(q.Name, notAvailable),
			Price:            q.Price,
			ChangePercent:    q.ChangesPercentage,
			MarketCap:        q.MarketCap,
			PERatio:          q.PE,
			EPS:              q.EPS,
			Volume:           q.Volume,
			AvgVolume:        q.AvgVolume,
			YearHigh:         q.YearHigh,
			YearLow:          q.YearLow,
			FiftyDayAvg:      q.PriceAvg50,
			TwoHundredDayAvg: q.PriceAvg200,
		})
	}
	for _, s := range symbols {
		if _, ok := returned[s]; !ok {
			out.Missing = append(out.Missing, s)
		}
	}
	out.StocksCompared = len(out.Comparisons)
	return out, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
