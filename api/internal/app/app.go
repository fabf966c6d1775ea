// Package app собирает общие для бинарников зависимости: движки и билдер оркестратора.
package app

import (
	"fruit-inspector/api/internal/config"
	"fruit-inspector/api/internal/llm"
	"fruit-inspector/api/internal/llm/anthropic"
	"fruit-inspector/api/internal/llm/gemini"
	"fruit-inspector/api/internal/llm/gpt"
	"fruit-inspector/api/internal/llm/stub"
	"fruit-inspector/api/internal/pipeline"
	"fruit-inspector/api/internal/prompt"
)

// NewEngines создаёт движки, для которых задан ключ.
// Заглушка stub подключается только при LLM_PROVIDER=stub.
func NewEngines(cfg *config.Config) *llm.Engines {
	e := &llm.Engines{}
	if cfg.Provider == "stub" {
		e.Stub = stub.Canned{}
	}
	if cfg.AnthropicAPIKey != "" {
		e.Anthropic = anthropic.New(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	}
	if cfg.GeminiAPIKey != "" {
		e.Gemini = gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	if cfg.OpenAIAPIKey != "" {
		e.OpenAI = gpt.New(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	return e
}

func NewBuilder(cfg *config.Config, engines *llm.Engines) *pipeline.Builder {
	return &pipeline.Builder{
		Engines:    engines,
		Credential: cfg.CredentialFor,
		MaxTokens:  cfg.MaxTokens,
		Prompts:    prompt.NewSet(cfg.PromptDir),
		Default:    cfg.Provider,
		Locale:     cfg.Locale,
	}
}
