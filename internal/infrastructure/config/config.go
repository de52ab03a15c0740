package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"finance-agent/internal/application/port/output"

	"gopkg.in/yaml.v3"
)

type Server struct {
	Port              string `yaml:"port"`
	RequestTimeoutSec int    `yaml:"request_timeout_sec"`
	MaxBodyBytes      int64  `yaml:"max_body_bytes"`
}

type LLM struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
	TimeoutSec  int     `yaml:"timeout_sec"`
	// USD per million tokens, used for the cost estimate only.
	InputPricePerMTok  float64 `yaml:"input_price_per_mtok"`
	OutputPricePerMTok float64 `yaml:"output_price_per_mtok"`
	LogHTTP            bool    `yaml:"log_http"`
}

type MarketData struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
	// Zero disables client-side throttling.
	MaxRequestsPerMinute int `yaml:"max_requests_per_minute"`
	Burst                int `yaml:"burst"`
}

type Agent struct {
	MaxIterations     int `yaml:"max_iterations"`
	MaxParallelTools  int `yaml:"max_parallel_tools"`
	MaxObservationLen int `yaml:"max_observation_len"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type Config struct {
	Server     Server     `yaml:"server"`
	LLM        LLM        `yaml:"llm"`
	MarketData MarketData `yaml:"market_data"`
	Agent      Agent      `yaml:"agent"`
	Log        Log        `yaml:"log"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8000", RequestTimeoutSec: 120, MaxBodyBytes: 1 << 20},
		LLM: LLM{
			BaseURL:            "https://openrouter.ai/api/v1",
			Model:              "anthropic/claude-sonnet-4",
			MaxTokens:          4096,
			TimeoutSec:         90,
			InputPricePerMTok:  3,
			OutputPricePerMTok: 15,
		},
		MarketData: MarketData{
			BaseURL:    "https://financialmodelingprep.com/api/v3",
			TimeoutSec: 15,
			Burst:      5,
		},
		Agent: Agent{
			MaxIterations:     10,
			MaxParallelTools:  5,
			MaxObservationLen: 20000,
		},
		Log: Log{Level: "info", Format: "json"},
	}
}

// Load reads an optional YAML file and applies environment overrides on top.
// An empty path falls back to config.yaml in the working directory when present.
func Load(path string, env output.ConfigPort) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	if env != nil {
		applyEnv(&cfg, env)
	}
	return cfg, nil
}

func applyEnv(cfg *Config, env output.ConfigPort) {
	cfg.Server.Port = env.GetWithDefault("PORT", cfg.Server.Port)
	cfg.Server.RequestTimeoutSec = env.GetInt("REQUEST_TIMEOUT_SEC", cfg.Server.RequestTimeoutSec)

	cfg.LLM.APIKey = firstNonEmpty(env.Lookup("LLM_API_KEY", "OPENROUTER_API_KEY"), cfg.LLM.APIKey)
	cfg.LLM.BaseURL = env.GetWithDefault("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.Model = firstNonEmpty(env.Lookup("LLM_MODEL", "OPENROUTER_MODEL_NAME"), cfg.LLM.Model)
	cfg.LLM.MaxTokens = env.GetInt("LLM_MAX_TOKENS", cfg.LLM.MaxTokens)
	cfg.LLM.TimeoutSec = env.GetInt("LLM_TIMEOUT_SEC", cfg.LLM.TimeoutSec)
	cfg.LLM.InputPricePerMTok = env.GetFloat("LLM_INPUT_PRICE_PER_MTOK", cfg.LLM.InputPricePerMTok)
	cfg.LLM.OutputPricePerMTok = env.GetFloat("LLM_OUTPUT_PRICE_PER_MTOK", cfg.LLM.OutputPricePerMTok)
	cfg.LLM.LogHTTP = env.GetBool("LLM_LOG_HTTP", cfg.LLM.LogHTTP)

	cfg.MarketData.APIKey = env.GetWithDefault("FMP_API_KEY", cfg.MarketData.APIKey)
	cfg.MarketData.BaseURL = env.GetWithDefault("FMP_BASE_URL", cfg.MarketData.BaseURL)
	cfg.MarketData.TimeoutSec = env.GetInt("FMP_TIMEOUT_SEC", cfg.MarketData.TimeoutSec)
	cfg.MarketData.MaxRequestsPerMinute = env.GetInt("FMP_MAX_RPM", cfg.MarketData.MaxRequestsPerMinute)
	cfg.MarketData.Burst = env.GetInt("FMP_BURST", cfg.MarketData.Burst)

	cfg.Agent.MaxIterations = env.GetInt("AGENT_MAX_ITERATIONS", cfg.Agent.MaxIterations)
	cfg.Agent.MaxParallelTools = env.GetInt("AGENT_MAX_PARALLEL_TOOLS", cfg.Agent.MaxParallelTools)

	cfg.Log.Level = env.GetWithDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = env.GetWithDefault("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.File = env.GetWithDefault("LOG_FILE", cfg.Log.File)
}

// Validate reports every problem at once so a misconfigured deploy fails with a full list.
func (c Config) Validate() error {
	var errs []error
	for _, name := range c.MissingSecrets() {
		errs = append(errs, fmt.Errorf("%s is required", name))
	}
	return errors.Join(append(errs, c.ValidateLimits())...)
}

// MissingSecrets names the unset API keys. The server starts without them and
// reports the gap through its health endpoint.
func (c Config) MissingSecrets() []string {
	var missing []string
	if c.LLM.APIKey == "" {
		missing = append(missing, "LLM_API_KEY (or OPENROUTER_API_KEY)")
	}
	if c.MarketData.APIKey == "" {
		missing = append(missing, "FMP_API_KEY")
	}
	return missing
}

// ValidateLimits checks everything except the secrets.
func (c Config) ValidateLimits() error {
	var errs []error
	if c.LLM.Model == "" {
		errs = append(errs, errors.New("llm.model is required"))
	}
	if c.Agent.MaxIterations < 1 {
		errs = append(errs, fmt.Errorf("agent.max_iterations must be >= 1, got %d", c.Agent.MaxIterations))
	}
	if c.Agent.MaxParallelTools < 1 {
		errs = append(errs, fmt.Errorf("agent.max_parallel_tools must be >= 1, got %d", c.Agent.MaxParallelTools))
	}
	if c.MarketData.MaxRequestsPerMinute < 0 {
		errs = append(errs, fmt.Errorf("market_data.max_requests_per_minute must be >= 0, got %d", c.MarketData.MaxRequestsPerMinute))
	}
	return errors.Join(errs...)
}

func (s Server) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSec) * time.Second
}

func (l LLM) Timeout() time.Duration {
	return time.Duration(l.TimeoutSec) * time.Second
}

func (m MarketData) Timeout() time.Duration {
	return time.Duration(m.TimeoutSec) * time.Second
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
