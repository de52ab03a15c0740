package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"finance-agent/internal/di"
	"finance-agent/internal/infrastructure/config"
	"finance-agent/internal/infrastructure/console"
	"finance-agent/internal/infrastructure/env"

	"github.com/jessevdk/go-flags"
)

type options struct {
	Config        string `short:"f" long:"config" description:"YAML config path (defaults to $CONFIG_FILE or ./config.yaml)"`
	Question      string `short:"q" long:"question" description:"question to analyze; read from stdin when empty"`
	MaxIterations int    `long:"max-iterations" description:"override agent.max_iterations"`
	JSON          bool   `long:"json" description:"print the full result as JSON instead of text"`
	Verbose       bool   `short:"v" long:"verbose" description:"debug logs to stderr"`
	Timeout       int    `long:"timeout" default:"300" description:"overall timeout in seconds"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	envService := env.NewEnvService()
	path := opts.Config
	if path == "" {
		path = envService.Get("CONFIG_FILE")
	}
	cfg, err := config.Load(path, envService)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if opts.MaxIterations > 0 {
		cfg.Agent.MaxIterations = opts.MaxIterations
	}
	cfg.Log.Format = "console"
	cfg.Log.Level = "warn"
	if opts.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	question := strings.TrimSpace(opts.Question)
	if question == "" {
		question, err = readQuestion(os.Stdin, os.Stderr)
		if err != nil {
			log.Fatalf("read question: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(opts.Timeout)*time.Second)
	defer cancel()

	var containerOpts []di.Option
	if !opts.JSON {
		containerOpts = append(containerOpts, di.WithProgress(console.NewProgress()))
	}
	container, err := di.NewContainer(cfg, containerOpts...)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer container.Close()

	result, err := container.Analyzer.Analyze(ctx, question)
	if err != nil {
		container.Logger.Error("Analysis failed", "error", err)
		fmt.Fprintf(os.Stderr, "\nAnalysis failed: %v\n", err)
		container.Close()
		os.Exit(1)
	}

	if opts.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(result); err != nil {
			log.Fatalf("encode: %v", err)
		}
		return
	}

	fmt.Println()
	fmt.Println(result.Analysis)
	m := result.Metrics
	fmt.Fprintf(os.Stderr, "\n%d tool calls, %d iterations, %d tokens, $%.4f, %.2fs\n",
		m.TotalToolsCalled, m.Iterations, m.TotalTokens, m.EstimatedCostUSD, m.LatencySeconds)
}

func readQuestion(in io.Reader, prompt io.Writer) (string, error) {
	fmt.Fprint(prompt, "Question: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("empty question")
	}
	return line, nil
}
