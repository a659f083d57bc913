package generator

import (
	"context"
	"time"

	"github.com/hitoshi/mealdesk/internal/model"
)

// TimeoutGenerator は内側のGeneratorの呼び出しにタイムアウトを適用する。
// LLM呼び出しが応答しない場合でもリクエストが無期限にブロックしないようにする。
type TimeoutGenerator struct {
	inner   Generator
	timeout time.Duration
}

// NewTimeoutGenerator はTimeoutGeneratorを生成する。
// timeoutが0以下の場合はタイムアウトを適用しない。
func NewTimeoutGenerator(inner Generator, timeout time.Duration) *TimeoutGenerator {
	return &TimeoutGenerator{
		inner:   inner,
		timeout: timeout,
	}
}

// Generate はタイムアウト付きコンテキストで内側のGeneratorを呼び出す。
func (g *TimeoutGenerator) Generate(ctx context.Context, input Input) (*model.WeeklyMealPlan, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return g.inner.Generate(ctx, input)
}
