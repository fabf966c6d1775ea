// Package pipeline ведёт анализ фото через три этапа по строгой цепочке
// identify → ripeness → sweetness и собирает итоговый отчёт.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/apex/log"

	"fruit-inspector/api/internal/agents"
	"fruit-inspector/api/internal/fruit"
	"fruit-inspector/api/internal/llm"
	"fruit-inspector/api/internal/metrics"
	"fruit-inspector/api/internal/prompt"
	"fruit-inspector/api/internal/quality"
)

type Stage string

const (
	StageIdentifying Stage = "identifying"
	StageAnalyzing   Stage = "analyzing"
	StageEstimating  Stage = "estimating"
	StageComplete    Stage = "complete"
	StageError       Stage = "error"
)

// Progress: событие хода анализа; не хранится.
type Progress struct {
	Stage    Stage  `json:"stage"`
	Message  string `json:"message"`
	Progress int    `json:"progress"`
}

// ProgressFunc вызывается синхронно, в порядке этапов.
type ProgressFunc func(Progress)

// PipelineError: отказ одного из этапов. Error() возвращает исходное сообщение этапа.
type PipelineError struct {
	Stage   Stage
	Message string
	Err     error
}

func (e *PipelineError) Error() string { return e.Message }
func (e *PipelineError) Unwrap() error { return e.Err }

var ErrNoCredential = errors.New("api key is required")

type Orchestrator struct {
	provider   llm.Provider
	cfg        agents.Config
	locale     string
	identifier *agents.Identifier
	ripeness   *agents.RipenessAnalyzer
	sweetness  *agents.SweetnessEstimator
	now        func() time.Time
	prompts    *prompt.Set
}

type Option func(*Orchestrator)

// WithClock подменяет источник времени для отметки завершения.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithPrompts задаёт набор шаблонов (например, с каталогом PROMPT_DIR).
func WithPrompts(s *prompt.Set) Option {
	return func(o *Orchestrator) { o.prompts = s }
}

// New собирает оркестратор. Конфигурация и провайдер общие для трёх этапов.
func New(p llm.Provider, cfg agents.Config, locale string, opts ...Option) (*Orchestrator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoCredential
	}
	if p == nil {
		return nil, errors.New("llm provider is nil")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = p.GetModel()
	}
	cfg = cfg.WithDefaults()
	o := &Orchestrator{
		provider: p,
		cfg:      cfg,
		locale:   prompt.NormalizeLocale(locale),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.prompts == nil {
		o.prompts = prompt.NewSet("")
	}

	gw := llm.NewGateway(p, cfg.Model)
	o.identifier = agents.NewIdentifier(gw, cfg, o.prompts, o.locale)
	o.ripeness = agents.NewRipenessAnalyzer(gw, cfg, o.prompts, o.locale)
	o.sweetness = agents.NewSweetnessEstimator(gw, cfg, o.prompts, o.locale)
	return o, nil
}

func (o *Orchestrator) Locale() string         { return o.locale }
func (o *Orchestrator) Provider() llm.Provider { return o.provider }
func (o *Orchestrator) Config() agents.Config  { return o.cfg }

// AnalyzeImage прогоняет три этапа по очереди. Отказ любого этапа завершает запуск:
// отправляется событие error с progress=0 и возвращается *PipelineError.
// onProgress может быть nil.
func (o *Orchestrator) AnalyzeImage(ctx context.Context, image string, onProgress ProgressFunc) (*fruit.Analysis, error) {
	emit := func(s Stage, msg string, pct int) {
		if onProgress != nil {
			onProgress(Progress{Stage: s, Message: msg, Progress: pct})
		}
	}
	fail := func(s Stage, msg string, err error) (*fruit.Analysis, error) {
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		log.WithError(err).WithField("stage", string(s)).Error("analysis failed")
		emit(StageError, msg, 0)
		return nil, &PipelineError{Stage: s, Message: msg, Err: err}
	}

	log.WithFields(log.Fields{"provider": o.provider.Name(), "locale": o.locale}).Info("analysis started")

	emit(StageIdentifying, "Identifying fruit...", 10)
	idRes := o.identifier.Analyze(ctx, image)
	if !idRes.Success || idRes.Data == nil {
		return fail(StageIdentifying, idRes.Message(agents.IdentifyFailed), idRes.Err)
	}
	id := *idRes.Data
	emit(StageIdentifying, fmt.Sprintf("Found: %s %s", id.Fruit, id.Emoji), 33)

	ripeRes := o.ripeness.Analyze(ctx, image, id.Fruit)
	if !ripeRes.Success || ripeRes.Data == nil {
		return fail(StageAnalyzing, ripeRes.Message(agents.RipenessFailed), ripeRes.Err)
	}
	ripe := *ripeRes.Data
	emit(StageAnalyzing, fmt.Sprintf("Ripeness: %s %s", ripe.Ripeness.Level, ripe.Ripeness.Emoji), 66)

	// для третьего этапа событие отправляется до вызова, а не после
	emit(StageEstimating, "Calculating sweetness...", 75)
	sweetRes := o.sweetness.Estimate(ctx, id, ripe)
	if !sweetRes.Success || sweetRes.Data == nil {
		return fail(StageEstimating, sweetRes.Message(agents.SweetnessFailed), sweetRes.Err)
	}

	overall := quality.FromAnalysis(ripe)
	emit(StageComplete, "Analysis complete!", 100)

	analysis := &fruit.Analysis{
		Fruit:     id,
		Ripeness:  ripe,
		Sweetness: *sweetRes.Data,
		Overall:   &overall,
		Timestamp: o.now().UTC(),
	}
	metrics.AnalysesTotal.WithLabelValues("ok").Inc()
	log.WithFields(log.Fields{
		"fruit":      id.Fruit,
		"confidence": id.Confidence,
		"overall":    overall.Score,
	}).Info("analysis complete")
	return analysis, nil
}

// connectionTestImage: заведомо «пустая» картинка для проверки ключа.
const connectionTestImage = "data:image/jpeg;base64,test"

// TestConnection делает один вызов первого этапа. false — только при сбое транспорта
// или неразбираемом ответе; ошибки валидации и низкая уверенность ключ не опровергают.
func (o *Orchestrator) TestConnection(ctx context.Context) bool {
	res := o.identifier.Analyze(ctx, connectionTestImage)
	var ge *llm.GatewayError
	if res.Err != nil && errors.As(res.Err, &ge) {
		log.WithError(res.Err).Warn("connection test failed")
		return false
	}
	return true
}
