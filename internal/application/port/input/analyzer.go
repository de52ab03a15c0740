package input

import (
	"context"

	"finance-agent/internal/domain/entity"
)

type Analyzer interface {
	Analyze(ctx context.Context, question string) (*entity.Analysis, error)
}
