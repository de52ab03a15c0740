package fmp

import (
	"context"
	"io"
	"net/url"

	"finance-agent/internal/application/port/output"
	"finance-agent/internal/domain/entity"
)

const probePreviewLen = 500

var _ output.MarketDataProbe = (*Client)(nil)

// Probe calls the quote endpoint for symbol and reports status and a body
// preview without interpreting the payload.
func (c *Client) Probe(ctx context.Context, symbol string) entity.ProbeResult {
	result := entity.ProbeResult{Symbol: symbol, KeySet: c.apiKey != ""}
	if s, err := entity.NormalizeTicker(symbol); err == nil {
		result.Symbol = s
	} else {
		result.Error = err.Error()
		return result
	}
	if !result.KeySet {
		result.Error = "FMP_API_KEY not set"
		return result
	}

	res, err := c.do(ctx, "quote/"+url.PathEscape(result.Symbol), nil)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, probePreviewLen))
	result.StatusCode = res.StatusCode
	result.BodyPreview = string(body)
	if err != nil {
		result.Error = redact(err).Error()
	}
	return result
}
