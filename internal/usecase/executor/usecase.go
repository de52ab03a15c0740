package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"finance-agent/internal/application/port/input"
	"finance-agent/internal/application/port/output"
	"finance-agent/internal/domain/entity"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var _ input.Analyzer = (*UseCase)(nil)

const (
	defaultMaxIterations     = 10
	defaultMaxParallelTools  = 5
	defaultMaxObservationLen = 20000

	// FallbackAnswer is returned when the iteration cap is hit before the
	// model produced any text.
	FallbackAnswer = "Unable to complete the analysis within the allowed number of steps."
)

type Config struct {
	MaxIterations     int
	MaxParallelTools  int
	MaxObservationLen int
	Temperature       float32
	MaxTokens         int
	Pricing           Pricing
}

func DefaultConfig() Config {
	return Config{
		MaxIterations:     defaultMaxIterations,
		MaxParallelTools:  defaultMaxParallelTools,
		MaxObservationLen: defaultMaxObservationLen,
		Pricing:           DefaultPricing(),
	}
}

type UseCase struct {
	llm          output.LLMPort
	tools        output.ToolRegistry
	logger       output.LoggerPort
	progress     output.ProgressPort
	estimator    output.TokenEstimator
	systemPrompt string
	cfg          Config
	newID        func() string
	now          func() time.Time
}

type Option func(*UseCase)

// WithProgress streams loop events to p.
func WithProgress(p output.ProgressPort) Option {
	return func(uc *UseCase) {
		if p != nil {
			uc.progress = p
		}
	}
}

// WithEstimator counts tokens locally for turns where the provider reports no usage.
func WithEstimator(e output.TokenEstimator) Option {
	return func(uc *UseCase) {
		uc.estimator = e
	}
}

func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		uc.now = now
	}
}

func WithRequestIDs(newID func() string) Option {
	return func(uc *UseCase) {
		uc.newID = newID
	}
}

func New(
	llm output.LLMPort,
	tools output.ToolRegistry,
	logger output.LoggerPort,
	systemPrompt string,
	cfg Config,
	opts ...Option,
) *UseCase {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaultMaxIterations
	}
	if cfg.MaxParallelTools <= 0 {
		cfg.MaxParallelTools = defaultMaxParallelTools
	}
	if cfg.MaxObservationLen <= 0 {
		cfg.MaxObservationLen = defaultMaxObservationLen
	}

	uc := &UseCase{
		llm:          llm,
		tools:        tools,
		logger:       logger,
		progress:     nopProgress{},
		systemPrompt: systemPrompt,
		cfg:          cfg,
		newID:        uuid.NewString,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// run holds the state of one Analyze call. It never outlives the request.
type run struct {
	id         string
	logger     output.LoggerPort
	convo      *entity.Conversation
	trace      []entity.TraceEntry
	usage      entity.TokenUsage
	estimated  bool
	iterations int
	lastText   string
	answer     string
	finished   bool
	startedAt  time.Time
}

func (uc *UseCase) Analyze(ctx context.Context, question string) (*entity.Analysis, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, entity.ErrEmptyQuestion
	}

	r := &run{
		id:        uc.newID(),
		convo:     entity.NewConversation(uc.systemPrompt, question),
		trace:     []entity.TraceEntry{},
		startedAt: uc.now(),
	}
	r.logger = uc.logger.WithField("request_id", r.id)
	r.logger.Info("Analysis started", "question", question, "maxIterations", uc.cfg.MaxIterations)

	toolDefs := uc.tools.Definitions()

	// AWAITING_MODEL -> REQUESTED_TOOLS -> AWAITING_MODEL ... -> FINAL
	for !r.finished && r.iterations < uc.cfg.MaxIterations {
		r.iterations++
		uc.progress.ShowIteration(ctx, r.iterations, uc.cfg.MaxIterations)
		r.logger.Debug("Starting iteration", "iteration", r.iterations)

		sent := r.convo.Messages()
		resp, err := uc.llm.Chat(ctx, output.ChatRequest{
			Messages:    sent,
			Tools:       toolDefs,
			Temperature: uc.cfg.Temperature,
			MaxTokens:   uc.cfg.MaxTokens,
		})
		if err != nil {
			r.logger.Error("Model request failed", "iteration", r.iterations, "error", err)
			if !errors.Is(err, entity.ErrModel) {
				err = fmt.Errorf("%w: %w", entity.ErrModel, err)
			}
			return nil, err
		}

		msg := resp.Message
		msg.Role = entity.RoleAssistant
		for i := range msg.ToolCalls {
			if msg.ToolCalls[i].ID == "" {
				msg.ToolCalls[i].ID = fmt.Sprintf("call_%d_%d", r.iterations, i)
			}
		}
		uc.account(r, sent, resp, msg)
		r.convo.Append(msg)

		if strings.TrimSpace(msg.Content) != "" {
			r.lastText = msg.Content
		}

		if len(msg.ToolCalls) == 0 {
			r.answer = msg.Content
			r.finished = true
			r.logger.Debug("Final answer received", "iteration", r.iterations, "finishReason", resp.FinishReason)
			break
		}

		if msg.Content != "" {
			uc.progress.ShowThinking(ctx, msg.Content)
		}

		for _, res := range uc.dispatch(ctx, r, msg.ToolCalls) {
			r.trace = append(r.trace, res.entry)
			r.convo.Append(entity.Message{
				Role:       entity.RoleTool,
				ToolCallID: res.entry.CallID,
				Name:       res.entry.Tool,
				Content:    res.observation,
			})
		}
	}

	return uc.result(r), nil
}

func (uc *UseCase) result(r *run) *entity.Analysis {
	analysis := &entity.Analysis{
		RequestID:   r.id,
		ToolsCalled: r.trace,
		Completed:   r.finished,
		StopReason:  entity.StopReasonFinalAnswer,
	}

	switch {
	case r.finished && strings.TrimSpace(r.answer) != "":
		analysis.Analysis = r.answer
	case r.lastText != "":
		analysis.Analysis = r.lastText
	default:
		analysis.Analysis = FallbackAnswer
	}
	if !r.finished {
		analysis.StopReason = entity.StopReasonMaxIterations
		r.logger.Warn("Iteration limit reached", "maxIterations", uc.cfg.MaxIterations, "toolsCalled", len(r.trace))
	}

	analysis.Metrics = entity.Metrics{
		TotalToolsCalled: len(r.trace),
		Iterations:       r.iterations,
		InputTokens:      r.usage.InputTokens,
		OutputTokens:     r.usage.OutputTokens,
		TotalTokens:      r.usage.Total(),
		LatencySeconds:   round(uc.now().Sub(r.startedAt).Seconds(), 2),
		EstimatedCostUSD: uc.cfg.Pricing.Cost(r.usage),
		TokensEstimated:  r.estimated,
	}

	r.logger.Info("Analysis finished",
		"completed", analysis.Completed,
		"iterations", r.iterations,
		"toolsCalled", len(r.trace),
		"totalTokens", analysis.Metrics.TotalTokens,
		"costUSD", analysis.Metrics.EstimatedCostUSD,
		"latencySeconds", analysis.Metrics.LatencySeconds)
	return analysis
}

// account adds the provider-reported usage, or a local estimate when the
// provider reported none.
func (uc *UseCase) account(r *run, sent []entity.Message, resp *output.ChatResponse, msg entity.Message) {
	if resp.Usage.Total() > 0 || uc.estimator == nil {
		r.usage.Add(resp.Usage)
		return
	}

	var in, out int
	for _, m := range sent {
		in += uc.countMessage(m)
	}
	out = uc.countMessage(msg)
	r.usage.Add(entity.TokenUsage{InputTokens: in, OutputTokens: out})
	r.estimated = true
}

func (uc *UseCase) countMessage(m entity.Message) int {
	n := uc.estimator.CountTokens(m.Content)
	for _, tc := range m.ToolCalls {
		n += uc.estimator.CountTokens(tc.Name) + uc.estimator.CountTokens(tc.Arguments)
	}
	return n
}

type toolResult struct {
	entry       entity.TraceEntry
	observation string
}

// dispatch runs the tool calls of one turn concurrently and returns their
// results in call order. Failures are data for the model, so nothing here
// returns an error.
func (uc *UseCase) dispatch(ctx context.Context, r *run, calls []entity.ToolCall) []toolResult {
	results := make([]toolResult, len(calls))

	var g errgroup.Group
	g.SetLimit(uc.cfg.MaxParallelTools)
	for i, call := range calls {
		g.Go(func() error {
			results[i] = uc.runTool(ctx, r, call)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (uc *UseCase) runTool(ctx context.Context, r *run, call entity.ToolCall) (res toolResult) {
	start := uc.now()
	logger := r.logger.WithFields(map[string]any{"tool": call.Name, "callID": call.ID})

	res.entry = entity.TraceEntry{
		CallID:    call.ID,
		Tool:      call.Name,
		Input:     rawJSON(call.Arguments),
		Iteration: r.iterations,
	}

	uc.progress.ShowToolStart(ctx, call.Name, call.Arguments)
	logger.Info("Executing tool", "args", call.Arguments)

	out, err := uc.execute(ctx, call)
	res.entry.Duration = uc.now().Sub(start)

	if err != nil {
		logger.Warn("Tool execution failed", "error", err, "kind", entity.ErrorKind(err))
		toolErr := entity.NewToolError(err)
		res.entry.Error = toolErr.Error
		res.entry.ErrorKind = toolErr.ErrorKind
		res.observation = toolErr.JSON()
		uc.progress.ShowToolResult(ctx, call.Name, res.observation, true)
		return res
	}

	res.entry.Success = true
	res.entry.Output = rawJSON(out)
	res.observation = truncate(out, uc.cfg.MaxObservationLen)
	logger.Debug("Tool completed", "resultLen", len(out), "duration", res.entry.Duration.String())
	uc.progress.ShowToolResult(ctx, call.Name, out, false)
	return res
}

func (uc *UseCase) execute(ctx context.Context, call entity.ToolCall) (out string, err error) {
	tool, ok := uc.tools.Get(entity.ToolName(call.Name))
	if !ok {
		return "", fmt.Errorf("%w: '%s'", entity.ErrUnknownTool, call.Name)
	}

	defer func() {
		if p := recover(); p != nil {
			out, err = "", fmt.Errorf("tool %s panicked: %v", call.Name, p)
		}
	}()
	return tool.Execute(ctx, call.Arguments)
}

// rawJSON keeps valid JSON as is and quotes anything else, so a malformed
// argument string from the model still renders in the trace.
func rawJSON(s string) json.RawMessage {
	if s == "" {
		return json.RawMessage("{}")
	}
	if json.Valid([]byte(s)) {
		return json.RawMessage(s)
	}
	quoted, _ := json.Marshal(s)
	return quoted
}

// truncate keeps the first n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "\n... (truncated)"
}

type nopProgress struct{}

func (nopProgress) ShowIteration(context.Context, int, int)              {}
func (nopProgress) ShowThinking(context.Context, string)                 {}
func (nopProgress) ShowToolStart(context.Context, string, string)        {}
func (nopProgress) ShowToolResult(context.Context, string, string, bool) {}
