// Package llm — точка входа во внешние vision-модели.
// Provider делает один сетевой вызов и возвращает сырой текст,
// Gateway вырезает из него JSON-объект.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Request — один вызов модели. Image может быть пустым (текстовый запрос),
// «голым» base64 или data:URL.
type Request struct {
	Stage     string // identify | ripeness | sweetness; провайдеры могут игнорировать
	Model     string
	Image     string
	Prompt    string
	MaxTokens int
}

type Provider interface {
	Name() string
	GetModel() string
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrEmptyResponse — в ответе модели нет ни одного текстового блока.
var ErrEmptyResponse = errors.New("response contains no text block")

type GatewayError struct {
	Provider string
	Op       string // call | extract | parse
	Err      error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

type Engines struct {
	Anthropic Provider
	Gemini    Provider
	OpenAI    Provider
	Stub      Provider
}

func (e *Engines) GetEngine(llmName string) (Provider, error) {
	var p Provider
	switch strings.ToLower(strings.TrimSpace(llmName)) {
	case "anthropic", "claude":
		p = e.Anthropic
	case "gemini":
		p = e.Gemini
	case "gpt", "openai":
		p = e.OpenAI
	case "stub":
		p = e.Stub
	default:
		return nil, errors.New("unknown llm_name; use 'anthropic', 'gemini', 'gpt' or 'stub'")
	}
	if p == nil {
		return nil, fmt.Errorf("llm %q is not configured", llmName)
	}
	return p, nil
}

// Manager хранит выбранный движок на чат; по умолчанию — def.
type Manager struct {
	def Provider
	m   sync.Map // chatID -> Provider
}

func NewManager(defaultProvider Provider) *Manager {
	return &Manager{def: defaultProvider}
}

func (m *Manager) Get(chatID int64) Provider {
	if v, ok := m.m.Load(chatID); ok {
		return v.(Provider)
	}
	return m.def
}

func (m *Manager) Set(chatID int64, p Provider) {
	m.m.Store(chatID, p)
}

// WithModel — тот же движок с другой моделью по умолчанию; исходный движок не меняется.
func WithModel(p Provider, model string) Provider {
	model = strings.TrimSpace(model)
	if p == nil || model == "" {
		return p
	}
	return modelOverride{Provider: p, model: model}
}

type modelOverride struct {
	Provider
	model string
}

func (m modelOverride) GetModel() string { return m.model }
