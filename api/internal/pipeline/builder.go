package pipeline

import (
	"errors"

	"fruit-inspector/api/internal/agents"
	"fruit-inspector/api/internal/llm"
	"fruit-inspector/api/internal/prompt"
)

// Builder собирает оркестратор под запрос: выбранный движок, его ключ и язык.
type Builder struct {
	Engines    *llm.Engines
	Credential func(provider string) string
	MaxTokens  int
	Prompts    *prompt.Set
	Default    string // llm_name по умолчанию
	Locale     string // язык, если в запросе не задан
}

func (b *Builder) Build(llmName, locale string) (*Orchestrator, error) {
	if b.Engines == nil {
		return nil, errors.New("no engines configured")
	}
	if llmName == "" {
		llmName = b.Default
	}
	p, err := b.Engines.GetEngine(llmName)
	if err != nil {
		return nil, err
	}
	return b.ForProvider(p, locale)
}

func (b *Builder) ForProvider(p llm.Provider, locale string) (*Orchestrator, error) {
	if locale == "" {
		locale = b.Locale
	}
	var key string
	if b.Credential != nil {
		key = b.Credential(p.Name())
	}
	cfg := agents.Config{
		APIKey:    key,
		Model:     p.GetModel(),
		MaxTokens: b.MaxTokens,
	}
	return New(p, cfg, locale, WithPrompts(b.Prompts))
}
