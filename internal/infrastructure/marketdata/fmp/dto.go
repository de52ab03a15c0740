package fmp

import (
	"encoding/json"
	"strings"
)

// quote mirrors one element of GET /quote/{symbols}.
type quote struct {
	Symbol            string   `json:"symbol"`
	Name              *string  `json:"name"`
	Price             *float64 `json:"price"`
	ChangesPercentage *float64 `json:"changesPercentage"`
	Change            *float64 `json:"change"`
	DayLow            *float64 `json:"dayLow"`
	DayHigh           *float64 `json:"dayHigh"`
	YearHigh          *float64 `json:"yearHigh"`
	YearLow           *float64 `json:"yearLow"`
	MarketCap         *float64 `json:"marketCap"`
	PriceAvg50        *float64 `json:"priceAvg50"`
	PriceAvg200       *float64 `json:"priceAvg200"`
	Exchange          *string  `json:"exchange"`
	Volume            *float64 `json:"volume"`
	AvgVolume         *float64 `json:"avgVolume"`
	Open              *float64 `json:"open"`
	PreviousClose     *float64 `json:"previousClose"`
	EPS               *float64 `json:"eps"`
	PE                *float64 `json:"pe"`
	SharesOutstanding *float64 `json:"sharesOutstanding"`
}

// profile mirrors one element of GET /profile/{symbol}.
type profile struct {
	Symbol            string      `json:"symbol"`
	Price             *float64    `json:"price"`
	Beta              *float64    `json:"beta"`
	VolAvg            *float64    `json:"volAvg"`
	MktCap            *float64    `json:"mktCap"`
	LastDiv           *float64    `json:"lastDiv"`
	Range             *string     `json:"range"`
	CompanyName       *string     `json:"companyName"`
	Exchange          *string     `json:"exchangeShortName"`
	Industry          *string     `json:"industry"`
	Website           *string     `json:"website"`
	Description       *string     `json:"description"`
	CEO               *string     `json:"ceo"`
	Sector            *string     `json:"sector"`
	Country           *string     `json:"country"`
	FullTimeEmployees *flexString `json:"fullTimeEmployees"`
	IPODate           *string     `json:"ipoDate"`
	IsETF             *bool       `json:"isEtf"`
	IsActivelyTrading *bool       `json:"isActivelyTrading"`
}

// historical mirrors GET /historical-price-full/{symbol}. Unknown symbols yield {}.
type historical struct {
	Symbol     string `json:"symbol"`
	Historical []bar  `json:"historical"`
}

type bar struct {
	Date          string   `json:"date"`
	Open          *float64 `json:"open"`
	High          *float64 `json:"high"`
	Low           *float64 `json:"low"`
	Close         *float64 `json:"close"`
	Volume        *float64 `json:"volume"`
	ChangePercent *float64 `json:"changePercent"`
}

// article mirrors one element of GET /stock_news.
type article struct {
	Symbol        string  `json:"symbol"`
	PublishedDate *string `json:"publishedDate"`
	Title         *string `json:"title"`
	Text          *string `json:"text"`
	Site          *string `json:"site"`
	URL           *string `json:"url"`
}

// flexString accepts both "164000" and 164000; FMP is not consistent about it.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(strings.TrimSpace(string(b)))
	return nil
}

func (f *flexString) ptr() *string {
	if f == nil {
		return nil
	}
	s := string(*f)
	return &s
}

func strOr(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
