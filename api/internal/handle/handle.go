package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"fruit-inspector/api/internal/agents"
	"fruit-inspector/api/internal/llm"
	"fruit-inspector/api/internal/pipeline"
	"fruit-inspector/api/internal/prompt"
	"fruit-inspector/api/internal/store"
	"fruit-inspector/api/internal/validate"
)

type Handle struct {
	builder *pipeline.Builder
	repo    *store.AnalysisRepo // nil — история выключена
	prompts *prompt.Set
}

func New(b *pipeline.Builder, repo *store.AnalysisRepo, prompts *prompt.Set) *Handle {
	if prompts == nil {
		prompts = prompt.NewSet("")
	}
	return &Handle{
		builder: b,
		repo:    repo,
		prompts: prompts,
	}
}

// Register вешает маршруты API на mux.
func (h *Handle) Register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/analyze", h.Analyze)
	mux.HandleFunc("/v1/analyses", h.Analyses)
	mux.HandleFunc("/v1/prompt", h.UpdatePrompt)
	mux.HandleFunc("/healthz", h.Healthz)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor: низкая уверенность — 422, ошибки модели и её ответа — 502.
func statusFor(err error) int {
	var (
		le *agents.LowConfidenceError
		ve *validate.ValidationError
		ge *llm.GatewayError
	)
	switch {
	case errors.As(err, &le):
		return http.StatusUnprocessableEntity
	case errors.As(err, &ve), errors.As(err, &ge):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
