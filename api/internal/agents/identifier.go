package agents

import (
	"context"
	"fmt"

	"fruit-inspector/api/internal/fruit"
	"fruit-inspector/api/internal/llm"
	"fruit-inspector/api/internal/prompt"
)

// MinConfidence — ниже этого порога распознавание считается ненадёжным.
const MinConfidence = 70

const IdentifyFailed = "Failed to identify fruit"

// LowConfidenceError — мягкий отказ первого этапа, данные распознавания сохраняются.
type LowConfidenceError struct {
	Confidence float64
	Data       *fruit.Identification
}

func (e *LowConfidenceError) Error() string {
	return "Low confidence in fruit identification. Please take a clearer photo."
}

var identifyStage = Stage[fruit.Identification]{
	Name:     "identify",
	Required: []string{"fruit", "emoji", "confidence"},
	Normalize: func(id *fruit.Identification) {
		id.Confidence = clamp(id.Confidence)
	},
	Accept: func(id *fruit.Identification) error {
		if id.Confidence < MinConfidence {
			return &LowConfidenceError{Confidence: id.Confidence, Data: id}
		}
		return nil
	},
}

type Identifier struct {
	base
}

func NewIdentifier(gw *llm.Gateway, cfg Config, prompts *prompt.Set, locale string) *Identifier {
	return &Identifier{base: newBase(gw, cfg, prompts, locale)}
}

func (a *Identifier) Analyze(ctx context.Context, image string) Result[fruit.Identification] {
	text, err := a.render(prompt.Identify, prompt.Data{})
	if err != nil {
		return Result[fruit.Identification]{Err: fmt.Errorf("identify prompt: %w", err)}
	}
	return identifyStage.Run(ctx, a.gw, image, text, a.cfg.MaxTokens)
}
