package agents

import (
	"context"
	"fmt"

	"fruit-inspector/api/internal/fruit"
	"fruit-inspector/api/internal/llm"
	"fruit-inspector/api/internal/prompt"
)

const RipenessFailed = "Failed to analyze ripeness"

var ripenessStage = Stage[fruit.RipenessAnalysis]{
	Name:     "ripeness",
	Required: []string{"ripeness", "quality", "visual_assessment"},
	Nested: []NestedCheck{
		{Parent: "ripeness", Fields: []string{"level", "score", "emoji"}},
		{Parent: "quality", Fields: []string{"score", "defects", "freshness"}},
	},
	Normalize: func(r *fruit.RipenessAnalysis) {
		r.Ripeness.Score = clamp(r.Ripeness.Score)
		r.Quality.Score = clamp(r.Quality.Score)
	},
}

type RipenessAnalyzer struct {
	base
}

func NewRipenessAnalyzer(gw *llm.Gateway, cfg Config, prompts *prompt.Set, locale string) *RipenessAnalyzer {
	return &RipenessAnalyzer{base: newBase(gw, cfg, prompts, locale)}
}

// Analyze оценивает спелость и качество уже распознанного фрукта.
func (a *RipenessAnalyzer) Analyze(ctx context.Context, image, fruitName string) Result[fruit.RipenessAnalysis] {
	text, err := a.render(prompt.Ripeness, prompt.Data{FruitName: fruitName})
	if err != nil {
		return Result[fruit.RipenessAnalysis]{Err: fmt.Errorf("ripeness prompt: %w", err)}
	}
	return ripenessStage.Run(ctx, a.gw, image, text, a.cfg.MaxTokens)
}
