package output

import "context"

// ProgressPort receives loop events as they happen. Implementations must be
// safe for concurrent use: tool events of one turn arrive from several goroutines.
type ProgressPort interface {
	ShowIteration(ctx context.Context, iteration, maxIterations int)
	ShowThinking(ctx context.Context, content string)
	ShowToolStart(ctx context.Context, toolName, arguments string)
	ShowToolResult(ctx context.Context, toolName, result string, isError bool)
}
