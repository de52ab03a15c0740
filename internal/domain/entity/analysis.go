package entity

import (
	"encoding/json"
	"time"
)

type StopReason string

const (
	StopReasonFinalAnswer   StopReason = "final_answer"
	StopReasonMaxIterations StopReason = "max_iterations"
)

// TraceEntry records one tool invocation and what it returned.
type TraceEntry struct {
	CallID    string          `json:"call_id"`
	Tool      string          `json:"tool"`
	Input     json.RawMessage `json:"input"`
	Success   bool            `json:"success"`
	Output    json.RawMessage `json:"output,omitempty"`
	Error     string          `json:"error,omitempty"`
	ErrorKind string          `json:"error_kind,omitempty"`
	Duration  time.Duration   `json:"-"`
	Iteration int             `json:"iteration"`
}

func (e TraceEntry) MarshalJSON() ([]byte, error) {
	type alias TraceEntry
	return json.Marshal(struct {
		alias
		DurationMS int64 `json:"duration_ms"`
	}{
		alias:      alias(e),
		DurationMS: e.Duration.Milliseconds(),
	})
}

type Metrics struct {
	TotalToolsCalled int     `json:"total_tools_called"`
	Iterations       int     `json:"iterations"`
	InputTokens      int     `json:"input_tokens"`
	OutputTokens     int     `json:"output_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	LatencySeconds   float64 `json:"latency_seconds"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
	TokensEstimated  bool    `json:"tokens_estimated"`
}

type Analysis struct {
	RequestID   string       `json:"request_id"`
	Analysis    string       `json:"analysis"`
	ToolsCalled []TraceEntry `json:"tools_called"`
	Metrics     Metrics      `json:"metrics"`
	Completed   bool         `json:"completed"`
	StopReason  StopReason   `json:"stop_reason"`
}
