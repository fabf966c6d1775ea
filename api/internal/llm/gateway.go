package llm

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/apex/log"

	"fruit-inspector/api/internal/metrics"
	"fruit-inspector/api/internal/util"
)

// Response — разобранный JSON-объект из ответа модели.
type Response struct {
	Raw    json.RawMessage
	Fields map[string]json.RawMessage
}

// Decode разбирает объект в v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Raw, v)
}

type Gateway struct {
	p     Provider
	model string
}

// NewGateway: пустая model — берём модель провайдера.
func NewGateway(p Provider, model string) *Gateway {
	if strings.TrimSpace(model) == "" {
		model = p.GetModel()
	}
	return &Gateway{p: p, model: model}
}

func (g *Gateway) Provider() Provider { return g.p }
func (g *Gateway) Model() string      { return g.model }

// Invoke делает ровно один вызов модели и возвращает первый сбалансированный
// JSON-объект из её ответа. Ошибки — всегда *GatewayError, повторов нет.
func (g *Gateway) Invoke(ctx context.Context, stage, image, prompt string, maxTokens int) (*Response, error) {
	start := time.Now()
	text, err := g.p.Complete(ctx, Request{
		Stage:     stage,
		Model:     g.model,
		Image:     image,
		Prompt:    prompt,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, g.fail("call", err, "")
	}
	if strings.TrimSpace(text) == "" {
		return nil, g.fail("call", ErrEmptyResponse, "")
	}

	span, err := util.ExtractJSONObject(text)
	if err != nil {
		return nil, g.fail("extract", err, text)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &fields); err != nil {
		return nil, g.fail("parse", err, text)
	}

	log.WithFields(log.Fields{
		"provider": g.p.Name(),
		"model":    g.model,
		"stage":    stage,
		"duration": time.Since(start).Milliseconds(),
	}).Debug("gateway call ok")

	return &Response{Raw: json.RawMessage(span), Fields: fields}, nil
}

func (g *Gateway) fail(op string, err error, raw string) *GatewayError {
	metrics.GatewayErrorTotal.WithLabelValues(g.p.Name(), op).Inc()
	if raw != "" {
		log.WithFields(log.Fields{
			"provider": g.p.Name(),
			"op":       op,
			"raw":      truncate(raw, 512),
		}).Debug("unparseable model output")
	}
	return &GatewayError{Provider: g.p.Name(), Op: op, Err: err}
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
