package entity

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxCompareSymbols caps compare_stocks requests.
const MaxCompareSymbols = 5

var tickerPattern = regexp.MustCompile(`^[A-Z0-9.^-]{1,10}$`)

// NormalizeTicker trims and upper-cases t and rejects anything that cannot be a symbol.
func NormalizeTicker(t string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(t))
	if !tickerPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTicker, t)
	}
	return s, nil
}

// NormalizeTickers validates a comparison list, dropping duplicates while keeping order.
func NormalizeTickers(tickers []string) ([]string, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: at least one ticker is required", ErrInvalidArguments)
	}
	out := make([]string, 0, len(tickers))
	seen := make(map[string]struct{}, len(tickers))
	for _, t := range tickers {
		s, err := NormalizeTicker(t)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) > MaxCompareSymbols {
		return nil, fmt.Errorf("%w: %w: got %d distinct, max %d", ErrInvalidArguments, ErrTooManySymbols, len(out), MaxCompareSymbols)
	}
	return out, nil
}
