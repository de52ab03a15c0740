package di

import (
	"fmt"

	"finance-agent/internal/adapter/tool"
	"finance-agent/internal/application/port/input"
	"finance-agent/internal/application/port/output"
	"finance-agent/internal/application/service"
	"finance-agent/internal/infrastructure/config"
	"finance-agent/internal/infrastructure/httpx"
	"finance-agent/internal/infrastructure/llm/openrouter"
	"finance-agent/internal/infrastructure/logger"
	"finance-agent/internal/infrastructure/marketdata/fmp"
	"finance-agent/internal/infrastructure/marketdata/ratelimit"
	"finance-agent/internal/infrastructure/prompts"
	"finance-agent/internal/infrastructure/tokens"
	"finance-agent/internal/usecase/executor"
)

type Container struct {
	Config     config.Config
	Logger     output.LoggerPort
	LLM        output.LLMPort
	MarketData output.MarketDataPort
	Probe      output.MarketDataProbe
	Tools      output.ToolRegistry
	Analyzer   input.Analyzer
}

type Option func(*options)

type options struct {
	progress output.ProgressPort
	logger   output.LoggerPort
	llm      output.LLMPort
}

// WithProgress streams loop events, used by the CLI.
func WithProgress(p output.ProgressPort) Option {
	return func(o *options) { o.progress = p }
}

// WithLogger replaces the logger built from cfg.Log.
func WithLogger(l output.LoggerPort) Option {
	return func(o *options) { o.logger = l }
}

// WithLLM replaces the OpenRouter adapter.
func WithLLM(l output.LLMPort) Option {
	return func(o *options) { o.llm = l }
}

// NewContainer wires every dependency from cfg. Missing API keys are not an
// error here; calls that need them fail at use time.
func NewContainer(cfg config.Config, opts ...Option) (*Container, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	log := o.logger
	if log == nil {
		l, err := logger.NewLoggerAdapter(logger.Config{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			File:   cfg.Log.File,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		log = l
	}

	client, err := fmp.NewClient(cfg.MarketData.APIKey,
		fmp.WithBaseURL(cfg.MarketData.BaseURL),
		fmp.WithHTTPClient(httpx.New(cfg.MarketData.Timeout())),
	)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create market data client: %w", err)
	}
	data := ratelimit.Wrap(client, cfg.MarketData.MaxRequestsPerMinute, cfg.MarketData.Burst)

	tools := service.NewToolRegistry()
	if err := tool.RegisterFinanceTools(tools, data); err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	systemPrompt, err := prompts.GenerateSystemPrompt(prompts.SystemPrompt, tools)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to render system prompt: %w", err)
	}

	llm := o.llm
	if llm == nil {
		llm = openrouter.NewOpenRouterAdapter(openrouter.Config{
			APIKey:    cfg.LLM.APIKey,
			Model:     cfg.LLM.Model,
			BaseURL:   cfg.LLM.BaseURL,
			MaxTokens: cfg.LLM.MaxTokens,
			Timeout:   cfg.LLM.Timeout(),
			Logger:    log,
			LogHTTP:   cfg.LLM.LogHTTP,
		})
	}

	execOpts := []executor.Option{executor.WithEstimator(tokens.NewEstimator())}
	if o.progress != nil {
		execOpts = append(execOpts, executor.WithProgress(o.progress))
	}
	analyzer := executor.New(llm, tools, log, systemPrompt, executor.Config{
		MaxIterations:     cfg.Agent.MaxIterations,
		MaxParallelTools:  cfg.Agent.MaxParallelTools,
		MaxObservationLen: cfg.Agent.MaxObservationLen,
		Temperature:       cfg.LLM.Temperature,
		MaxTokens:         cfg.LLM.MaxTokens,
		Pricing: executor.Pricing{
			InputPerMTok:  cfg.LLM.InputPricePerMTok,
			OutputPerMTok: cfg.LLM.OutputPricePerMTok,
		},
	}, execOpts...)

	return &Container{
		Config:     cfg,
		Logger:     log,
		LLM:        llm,
		MarketData: data,
		Probe:      client,
		Tools:      tools,
		Analyzer:   analyzer,
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Close()
	}
}
