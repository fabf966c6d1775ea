package agents

import (
	"context"
	"fmt"

	"fruit-inspector/api/internal/fruit"
	"fruit-inspector/api/internal/llm"
	"fruit-inspector/api/internal/prompt"
)

const SweetnessFailed = "Failed to estimate sweetness"

var sweetnessStage = Stage[fruit.SweetnessEstimate]{
	Name:     "sweetness",
	Required: []string{"sweetness", "recommendation"},
	Nested: []NestedCheck{
		{Parent: "sweetness", Fields: []string{"score", "emoji", "label"}},
		{Parent: "recommendation", Fields: []string{"text", "emoji"}},
	},
	Normalize: func(s *fruit.SweetnessEstimate) {
		s.Sweetness.Score = clamp(s.Sweetness.Score)
	},
}

type SweetnessEstimator struct {
	base
}

func NewSweetnessEstimator(gw *llm.Gateway, cfg Config, prompts *prompt.Set, locale string) *SweetnessEstimator {
	return &SweetnessEstimator{base: newBase(gw, cfg, prompts, locale)}
}

// Estimate работает без картинки: только по результатам двух предыдущих этапов.
func (a *SweetnessEstimator) Estimate(ctx context.Context, id fruit.Identification, r fruit.RipenessAnalysis) Result[fruit.SweetnessEstimate] {
	text, err := a.render(prompt.Sweetness, prompt.Data{
		FruitName:     id.Fruit,
		RipenessLevel: r.Ripeness.Level,
		RipenessScore: r.Ripeness.Score,
		QualityScore:  r.Quality.Score,
	})
	if err != nil {
		return Result[fruit.SweetnessEstimate]{Err: fmt.Errorf("sweetness prompt: %w", err)}
	}
	return sweetnessStage.Run(ctx, a.gw, "", text, a.cfg.MaxTokens)
}
