package entity

import "fmt"

type Period string

const (
	Period1D Period = "1d"
	Period5D Period = "5d"
	Period1M Period = "1mo"
	Period3M Period = "3mo"
	Period6M Period = "6mo"
	Period1Y Period = "1y"
	Period2Y Period = "2y"
	Period5Y Period = "5y"

	DefaultPeriod = Period1M
)

// lookbackDays is padded past the nominal length so weekends and holidays
// still leave enough trading days in the window.
var lookbackDays = map[Period]int{
	Period1D: 2,
	Period5D: 7,
	Period1M: 35,
	Period3M: 95,
	Period6M: 185,
	Period1Y: 370,
	Period2Y: 740,
	Period5Y: 1830,
}

func Periods() []Period {
	return []Period{Period1D, Period5D, Period1M, Period3M, Period6M, Period1Y, Period2Y, Period5Y}
}

func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return DefaultPeriod, nil
	}
	p := Period(s)
	if _, ok := lookbackDays[p]; !ok {
		return "", fmt.Errorf("%w: unsupported period %q", ErrInvalidArguments, s)
	}
	return p, nil
}

func (p Period) LookbackDays() int {
	if d, ok := lookbackDays[p]; ok {
		return d
	}
	return lookbackDays[DefaultPeriod]
}
