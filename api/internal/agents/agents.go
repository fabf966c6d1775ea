// Package agents — три этапа анализа поверх одного Gateway.
// Общая логика (вызов, проверка полей, нормализация, политика приёма) живёт в Stage,
// этапы отличаются только конфигурацией Stage и своим промптом.
package agents

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/apex/log"

	"fruit-inspector/api/internal/llm"
	"fruit-inspector/api/internal/metrics"
	"fruit-inspector/api/internal/prompt"
	"fruit-inspector/api/internal/validate"
)

const (
	DefaultModel     = "claude-3-5-haiku-20241022"
	DefaultMaxTokens = 1024
)

// Config: общие для всех этапов параметры, только для чтения.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
}

func (c Config) WithDefaults() Config {
	if strings.TrimSpace(c.Model) == "" {
		c.Model = DefaultModel
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	return c
}

// Result: конверт этапа. При мягком отказе Success=false, но Data заполнена.
type Result[T any] struct {
	Success bool
	Data    *T
	Err     error
}

// Message: текст ошибки этапа или def, если текста нет.
func (r Result[T]) Message(def string) string {
	if r.Err != nil && r.Err.Error() != "" {
		return r.Err.Error()
	}
	return def
}

type NestedCheck struct {
	Parent string
	Fields []string
}

// Stage описывает один этап: обязательные поля, приведение значений и политику приёма.
type Stage[T any] struct {
	Name      string
	Required  []string
	Nested    []NestedCheck
	Normalize func(*T)
	Accept    func(*T) error
}

// Run: один вызов модели и разбор ответа в конверт. Повторов нет.
func (s Stage[T]) Run(ctx context.Context, gw *llm.Gateway, image, text string, maxTokens int) Result[T] {
	start := time.Now()
	logger := log.WithFields(log.Fields{"stage": s.Name, "provider": gw.Provider().Name()})

	data, err := s.call(ctx, gw, image, text, maxTokens)
	if err == nil && s.Accept != nil {
		err = s.Accept(data)
	}

	outcome := outcomeOf(err)
	metrics.StageDurationSeconds.WithLabelValues(s.Name).Observe(time.Since(start).Seconds())
	metrics.StageTotal.WithLabelValues(s.Name, outcome).Inc()
	logger = logger.WithField("duration", time.Since(start).Milliseconds())

	if err != nil {
		logger.WithError(err).WithField("result", outcome).Warn("stage failed")
		return Result[T]{Success: false, Data: data, Err: err}
	}
	logger.Info("stage ok")
	return Result[T]{Success: true, Data: data}
}

func (s Stage[T]) call(ctx context.Context, gw *llm.Gateway, image, text string, maxTokens int) (*T, error) {
	resp, err := gw.Invoke(ctx, s.Name, image, text, maxTokens)
	if err != nil {
		return nil, err
	}
	if err := validate.Fields(resp.Fields, s.Required...); err != nil {
		return nil, err
	}
	for _, n := range s.Nested {
		if err := validate.Nested(resp.Fields, n.Parent, n.Fields...); err != nil {
			return nil, err
		}
	}

	var out T
	if err := resp.Decode(&out); err != nil {
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) {
			return nil, &validate.ValidationError{Field: ute.Field, Reason: "expected " + ute.Type.String() + ", got " + ute.Value}
		}
		return nil, &validate.ValidationError{Field: s.Name, Reason: err.Error()}
	}
	if s.Normalize != nil {
		s.Normalize(&out)
	}
	return &out, nil
}

func outcomeOf(err error) string {
	var (
		ge *llm.GatewayError
		ve *validate.ValidationError
		le *LowConfidenceError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &le):
		return "low_confidence"
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &ge):
		return "gateway"
	default:
		return "error"
	}
}

// base: общее для трёх агентов окружение.
type base struct {
	gw      *llm.Gateway
	cfg     Config
	prompts *prompt.Set
	locale  string
}

func newBase(gw *llm.Gateway, cfg Config, prompts *prompt.Set, locale string) base {
	if prompts == nil {
		prompts = prompt.NewSet("")
	}
	return base{gw: gw, cfg: cfg.WithDefaults(), prompts: prompts, locale: prompt.NormalizeLocale(locale)}
}

func (b base) render(name string, d prompt.Data) (string, error) {
	return b.prompts.Render(name, b.locale, d)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
