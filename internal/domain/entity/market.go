package entity

// PriceSnapshot is the current quote of a single security.
type PriceSnapshot struct {
	Ticker            string   `json:"ticker"`
	Name              string   `json:"name"`
	Price             *float64 `json:"price"`
	Change            *float64 `json:"change"`
	ChangePercent     *float64 `json:"change_percent"`
	DayHigh           *float64 `json:"day_high"`
	DayLow            *float64 `json:"day_low"`
	YearHigh          *float64 `json:"year_high"`
	YearLow           *float64 `json:"year_low"`
	Volume            *float64 `json:"volume"`
	AvgVolume         *float64 `json:"avg_volume"`
	MarketCap         *float64 `json:"market_cap"`
	PERatio           *float64 `json:"pe_ratio"`
	EPS               *float64 `json:"eps"`
	Open              *float64 `json:"open"`
	PreviousClose     *float64 `json:"previous_close"`
	Exchange          string   `json:"exchange"`
	SharesOutstanding *float64 `json:"shares_outstanding"`
	FiftyDayAvg       *float64 `json:"fifty_day_avg"`
	TwoHundredDayAvg  *float64 `json:"two_hundred_day_avg"`
}

type CompanyFundamentals struct {
	Ticker            string            `json:"ticker"`
	Name              string            `json:"name"`
	Sector            string            `json:"sector"`
	Industry          string            `json:"industry"`
	Country           string            `json:"country"`
	Exchange          string            `json:"exchange"`
	Employees         *string           `json:"employees"`
	CEO               string            `json:"ceo"`
	Website           string            `json:"website"`
	Description       string            `json:"description"`
	IPODate           *string           `json:"ipo_date"`
	Financials        CompanyFinancials `json:"financials"`
	IsETF             bool              `json:"is_etf"`
	IsActivelyTrading bool              `json:"is_actively_trading"`
}

type CompanyFinancials struct {
	MarketCap    *float64 `json:"market_cap"`
	Price        *float64 `json:"price"`
	Beta         *float64 `json:"beta"`
	VolumeAvg    *float64 `json:"volume_avg"`
	LastDividend *float64 `json:"last_dividend"`
	Range        *string  `json:"range"`
}

type PricePoint struct {
	Date          string   `json:"date"`
	Open          *float64 `json:"open"`
	High          *float64 `json:"high"`
	Low           *float64 `json:"low"`
	Close         *float64 `json:"close"`
	Volume        *float64 `json:"volume"`
	ChangePercent *float64 `json:"change_percent"`
}

type PriceSummary struct {
	StartPrice    float64 `json:"start_price"`
	EndPrice      float64 `json:"end_price"`
	ChangePercent float64 `json:"change_percent"`
	PeriodHigh    float64 `json:"period_high"`
	PeriodLow     float64 `json:"period_low"`
	AvgVolume     int64   `json:"avg_volume"`
}

type PriceHistory struct {
	Ticker     string       `json:"ticker"`
	Period     Period       `json:"period"`
	DataPoints int          `json:"data_points"`
	Prices     []PricePoint `json:"prices"`
	Summary    PriceSummary `json:"summary"`
}

type NewsArticle struct {
	Title   string `json:"title"`
	Source  string `json:"source"`
	Date    string `json:"date"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
}

type NewsDigest struct {
	Ticker    string        `json:"ticker"`
	NewsCount int           `json:"news_count"`
	Articles  []NewsArticle `json:"articles"`
	Message   string        `json:"message,omitempty"`
}

type ComparisonRow struct {
	Ticker           string   `json:"ticker"`
	Name             string   `json:"name"`
	Price            *float64 `json:"price"`
	ChangePercent    *float64 `json:"change_percent"`
	MarketCap        *float64 `json:"market_cap"`
	PERatio          *float64 `json:"pe_ratio"`
	EPS              *float64 `json:"eps"`
	Volume           *float64 `json:"volume"`
	AvgVolume        *float64 `json:"avg_volume"`
	YearHigh         *float64 `json:"year_high"`
	YearLow          *float64 `json:"year_low"`
	FiftyDayAvg      *float64 `json:"fifty_day_avg"`
	TwoHundredDayAvg *float64 `json:"two_hundred_day_avg"`
}

// Comparison lists side-by-side quotes. Missing names requested symbols the
// provider returned nothing for.
type Comparison struct {
	StocksCompared int             `json:"stocks_compared"`
	Comparisons    []ComparisonRow `json:"comparisons"`
	Missing        []string        `json:"missing,omitempty"`
}

// ProbeResult is the raw outcome of a diagnostic market-data request.
type ProbeResult struct {
	Symbol      string `json:"symbol"`
	StatusCode  int    `json:"status_code,omitempty"`
	BodyPreview string `json:"body_preview,omitempty"`
	Error       string `json:"error,omitempty"`
	KeySet      bool   `json:"key_set"`
}
