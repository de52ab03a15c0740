// Package tokens estimates token counts when the model provider does not
// report usage.
package tokens

import (
	"sync"

	"finance-agent/internal/application/port/output"

	"github.com/pkoukk/tiktoken-go"
)

const defaultEncoding = "cl100k_base"

type encoder interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
}

// Estimator counts tokens with a BPE encoding, falling back to one token per
// four bytes when the encoding cannot be loaded.
type Estimator struct {
	encoding string
	load     func(string) (encoder, error)

	once sync.Once
	enc  encoder
}

var _ output.TokenEstimator = (*Estimator)(nil)

func NewEstimator() *Estimator {
	return &Estimator{
		encoding: defaultEncoding,
		load: func(name string) (encoder, error) {
			return tiktoken.GetEncoding(name)
		},
	}
}

func (e *Estimator) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	e.once.Do(func() {
		if enc, err := e.load(e.encoding); err == nil {
			e.enc = enc
		}
	})
	if e.enc == nil {
		return approximate(text)
	}
	return len(e.enc.Encode(text, nil, nil))
}

func approximate(text string) int {
	n := len(text) / 4
	if n == 0 {
		n = 1
	}
	return n
}
