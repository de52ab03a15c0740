package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"finance-agent/internal/application/port/output"

	"github.com/fatih/color"
)

var _ output.ProgressPort = (*Progress)(nil)

// Progress renders loop events on a terminal. Tool events of one turn arrive
// concurrently, so every write holds mu.
type Progress struct {
	mu  sync.Mutex
	out io.Writer
}

func NewProgress() *Progress {
	return NewProgressTo(os.Stderr)
}

func NewProgressTo(w io.Writer) *Progress {
	return &Progress{out: w}
}

func (p *Progress) ShowIteration(ctx context.Context, iteration, maxIterations int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(p.out, "\n━━━ Iteration %d/%d ━━━\n", iteration, maxIterations)
}

func (p *Progress) ShowThinking(ctx context.Context, content string) {
	if content == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	blue := color.New(color.FgBlue)
	blue.Fprint(p.out, "\n💭 Thinking: ")

	dim := color.New(color.Faint)
	dim.Fprintln(p.out, truncate(content, 500))
}

func (p *Progress) ShowToolStart(ctx context.Context, toolName, arguments string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	icon, name := toolDisplay(toolName)

	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprintf(p.out, "\n%s %s\n", icon, name)

	if summary := formatToolArguments(toolName, arguments); summary != "" {
		dim := color.New(color.Faint)
		dim.Fprintf(p.out, "   %s\n", summary)
	}
}

func (p *Progress) ShowToolResult(ctx context.Context, toolName, result string, isError bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if isError {
		red := color.New(color.FgRed)
		red.Fprintf(p.out, "❌ %s failed: ", toolName)

		dim := color.New(color.Faint)
		dim.Fprintln(p.out, formatToolError(result))
		return
	}

	green := color.New(color.FgGreen)
	green.Fprintf(p.out, "✓ %s\n", formatToolResult(toolName, result))
}

func toolDisplay(toolName string) (string, string) {
	displays := map[string][2]string{
		"get_stock_price":          {"💲", "Stock price"},
		"get_company_fundamentals": {"🏢", "Company fundamentals"},
		"get_price_history":        {"📈", "Price history"},
		"get_stock_news":           {"📰", "Stock news"},
		"compare_stocks":           {"⚖️", "Compare stocks"},
	}

	if display, ok := displays[toolName]; ok {
		return display[0], display[1]
	}
	return "🔧", toolName
}

func formatToolArguments(toolName, arguments string) string {
	var args map[string]any
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return truncate(arguments, 80)
	}

	switch toolName {
	case "get_price_history":
		ticker, _ := args["ticker"].(string)
		period, _ := args["period"].(string)
		if period == "" {
			period = "1mo"
		}
		return fmt.Sprintf("Ticker: %s, period: %s", ticker, period)

	case "compare_stocks":
		if tickers, ok := args["tickers"].([]any); ok {
			names := make([]string, 0, len(tickers))
			for _, t := range tickers {
				names = append(names, fmt.Sprint(t))
			}
			return "Tickers: " + strings.Join(names, ", ")
		}
	}

	if ticker, ok := args["ticker"].(string); ok {
		return "Ticker: " + ticker
	}
	return ""
}

func formatToolResult(toolName, result string) string {
	var payload map[string]any
	if err := json.Unmarshal([]byte(result), &payload); err != nil {
		return truncate(result, 100)
	}

	ticker, _ := payload["ticker"].(string)
	switch toolName {
	case "get_stock_price":
		if price, ok := payload["price"].(float64); ok {
			return fmt.Sprintf("%s at %.2f", ticker, price)
		}

	case "get_company_fundamentals":
		if name, ok := payload["name"].(string); ok {
			return fmt.Sprintf("%s (%s)", name, ticker)
		}

	case "get_price_history":
		if points, ok := payload["data_points"].(float64); ok {
			return fmt.Sprintf("%s: %d data points", ticker, int(points))
		}

	case "get_stock_news":
		if msg, ok := payload["message"].(string); ok && msg != "" {
			return fmt.Sprintf("%s: %s", ticker, msg)
		}
		if count, ok := payload["news_count"].(float64); ok {
			return fmt.Sprintf("%s: %d articles", ticker, int(count))
		}

	case "compare_stocks":
		if count, ok := payload["stocks_compared"].(float64); ok {
			return fmt.Sprintf("%d stocks compared", int(count))
		}
	}

	return truncate(result, 100)
}

func formatToolError(result string) string {
	var payload struct {
		Error     string `json:"error"`
		ErrorKind string `json:"error_kind"`
	}
	if err := json.Unmarshal([]byte(result), &payload); err != nil || payload.Error == "" {
		return truncate(result, 300)
	}
	return fmt.Sprintf("%s (%s)", truncate(payload.Error, 300), payload.ErrorKind)
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
