package httpapi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"finance-agent/internal/adapter/httpapi"
	"finance-agent/internal/application/service"
	"finance-agent/internal/domain/entity"
	"finance-agent/internal/infrastructure/llm/openrouter"
	"finance-agent/internal/infrastructure/logger"
	"finance-agent/internal/usecase/executor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer struct {
	result   *entity.Analysis
	err      error
	question string
	deadline bool
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, question string) (*entity.Analysis, error) {
	f.question = question
	_, f.deadline = ctx.Deadline()
	return f.result, f.err
}

type fakeTool struct{}

func (fakeTool) Name() entity.ToolName      { return entity.ToolGetStockPrice }
func (fakeTool) Description() string        { return "Get current stock price" }
func (fakeTool) Parameters() map[string]any { return map[string]any{"type": "object"} }

func (fakeTool) Execute(_ context.Context, arguments string) (string, error) {
	if strings.Contains(arguments, "ZZZZ") {
		return "", fmt.Errorf("%w for ticker 'ZZZZ'", entity.ErrNotFound)
	}
	return `{"ticker":"AAPL","price":189.5}`, nil
}

type fakeProbe struct{}

func (fakeProbe) Probe(_ context.Context, symbol string) entity.ProbeResult {
	return entity.ProbeResult{Symbol: symbol, StatusCode: http.StatusOK, BodyPreview: "[]", KeySet: true}
}

func newTestServer(t *testing.T, analyzer *fakeAnalyzer, cfg httpapi.Config) *httptest.Server {
	t.Helper()

	registry := service.NewToolRegistry()
	require.NoError(t, registry.Register(fakeTool{}))

	srv := httptest.NewServer(httpapi.NewServer(analyzer, registry, fakeProbe{}, logger.NewNop(), cfg).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp, payload
}

func TestAnalyze_OK(t *testing.T) {
	analyzer := &fakeAnalyzer{result: &entity.Analysis{
		RequestID: "req-1",
		Analysis:  "AAPL trades at $189.50.",
		ToolsCalled: []entity.TraceEntry{{
			CallID:   "call_1",
			Tool:     "get_stock_price",
			Input:    json.RawMessage(`{"ticker":"AAPL"}`),
			Success:  true,
			Output:   json.RawMessage(`{"price":189.5}`),
			Duration: 120 * time.Millisecond,
		}},
		Metrics:    entity.Metrics{TotalToolsCalled: 1, Iterations: 2},
		Completed:  true,
		StopReason: entity.StopReasonFinalAnswer,
	}}
	srv := newTestServer(t, analyzer, httpapi.Config{})

	resp, payload := post(t, srv.URL+"/api/analyze", `{"query":"  What's AAPL's price?  "}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "What's AAPL's price?", analyzer.question)
	assert.True(t, analyzer.deadline)
	assert.Equal(t, "AAPL trades at $189.50.", payload["analysis"])
	tools, ok := payload["tools_called"].([]any)
	require.True(t, ok)
	require.Len(t, tools, 1)
	entry := tools[0].(map[string]any)
	assert.Equal(t, "call_1", entry["call_id"])
	assert.InDelta(t, 120, entry["duration_ms"], 0)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestAnalyze_QuestionAlias(t *testing.T) {
	analyzer := &fakeAnalyzer{result: &entity.Analysis{Analysis: "ok", Completed: true}}
	srv := newTestServer(t, analyzer, httpapi.Config{})

	resp, _ := post(t, srv.URL+"/api/analyze", `{"question":"Compare AAPL vs MSFT"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Compare AAPL vs MSFT", analyzer.question)
}

func TestAnalyze_Rejected(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{"empty query", `{"query":"   "}`, http.StatusBadRequest},
		{"no fields", `{}`, http.StatusBadRequest},
		{"invalid json", `{"query":`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			analyzer := &fakeAnalyzer{}
			srv := newTestServer(t, analyzer, httpapi.Config{})

			resp, payload := post(t, srv.URL+"/api/analyze", tc.body)

			assert.Equal(t, tc.want, resp.StatusCode)
			assert.NotEmpty(t, payload["error"])
			assert.Empty(t, analyzer.question)
		})
	}
}

func TestAnalyze_BodyTooLarge(t *testing.T) {
	srv := newTestServer(t, &fakeAnalyzer{}, httpapi.Config{MaxBodyBytes: 64})

	resp, _ := post(t, srv.URL+"/api/analyze", `{"query":"`+strings.Repeat("a", 200)+`"}`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestAnalyze_ModelFailure(t *testing.T) {
	analyzer := &fakeAnalyzer{err: fmt.Errorf("%w: status 401: No auth credentials found", entity.ErrModel)}
	srv := newTestServer(t, analyzer, httpapi.Config{})

	resp, payload := post(t, srv.URL+"/api/analyze", `{"query":"AAPL?"}`)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.NotContains(t, payload["error"], "401")
}

func TestAnalyze_ModelTimeout(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(upstream.Close)

	llmCfg := openrouter.DefaultConfig("key", "anthropic/claude-sonnet-4")
	llmCfg.BaseURL = upstream.URL
	registry := service.NewToolRegistry()
	require.NoError(t, registry.Register(fakeTool{}))
	analyzer := executor.New(openrouter.NewOpenRouterAdapter(llmCfg), registry, logger.NewNop(),
		"You are a financial analyst.", executor.DefaultConfig())

	srv := httptest.NewServer(httpapi.NewServer(analyzer, registry, fakeProbe{}, logger.NewNop(), httpapi.Config{
		RequestTimeout: 100 * time.Millisecond,
	}).Routes())
	t.Cleanup(srv.Close)

	resp, payload := post(t, srv.URL+"/api/analyze", `{"query":"What's AAPL's price?"}`)

	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
	assert.Equal(t, "analysis timed out", payload["error"])
}

func TestAnalyze_IterationCapIsOK(t *testing.T) {
	analyzer := &fakeAnalyzer{result: &entity.Analysis{
		Analysis:   "Unable to complete the analysis within the allowed number of steps.",
		Completed:  false,
		StopReason: entity.StopReasonMaxIterations,
	}}
	srv := newTestServer(t, analyzer, httpapi.Config{})

	resp, payload := post(t, srv.URL+"/api/analyze", `{"query":"AAPL?"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, payload["completed"])
	assert.Equal(t, "max_iterations", payload["stop_reason"])
}

func TestHealth(t *testing.T) {
	cases := []struct {
		name    string
		key     string
		preview string
	}{
		{"set", "abcdef0123456789", "abcdef01..."},
		{"short", "abc", "abc..."},
		{"unset", "", "NOT SET"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeAnalyzer{}, httpapi.Config{LLMKeySet: true, FMPKey: tc.key})

			resp, err := http.Get(srv.URL + "/api/health")
			require.NoError(t, err)
			defer resp.Body.Close()

			var payload map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
			assert.Equal(t, "healthy", payload["status"])
			assert.Equal(t, true, payload["llm_key_set"])
			assert.Equal(t, tc.key != "", payload["fmp_key_set"])
			assert.Equal(t, tc.preview, payload["fmp_key_preview"])
		})
	}
}

func TestIndex(t *testing.T) {
	srv := newTestServer(t, &fakeAnalyzer{}, httpapi.Config{})

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<li>get_stock_price</li>")
}

func TestDebugTools(t *testing.T) {
	srv := newTestServer(t, &fakeAnalyzer{}, httpapi.Config{})

	resp, err := http.Get(srv.URL + "/api/debug/tools")
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload.Tools, 1)
	assert.Equal(t, "get_stock_price", payload.Tools[0].Name)
}

func TestDebugRunTool(t *testing.T) {
	srv := newTestServer(t, &fakeAnalyzer{}, httpapi.Config{})

	resp, payload := post(t, srv.URL+"/api/debug/tools/get_stock_price", `{"ticker":"AAPL"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, map[string]any{"ticker": "AAPL", "price": 189.5}, payload["output"])

	resp, payload = post(t, srv.URL+"/api/debug/tools/get_stock_price", `{"ticker":"ZZZZ"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "not_found", payload["error_kind"])

	resp, _ = post(t, srv.URL+"/api/debug/tools/get_insider_trades", `{}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDebugProbe(t *testing.T) {
	srv := newTestServer(t, &fakeAnalyzer{}, httpapi.Config{})

	resp, err := http.Get(srv.URL + "/api/debug/fmp?symbol=MSFT")
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload entity.ProbeResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "MSFT", payload.Symbol)
	assert.Equal(t, http.StatusOK, payload.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, &fakeAnalyzer{}, httpapi.Config{})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/analyze", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
}
