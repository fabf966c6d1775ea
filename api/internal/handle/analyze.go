package handle

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/apex/log"

	"fruit-inspector/api/internal/agents"
	"fruit-inspector/api/internal/fruit"
	"fruit-inspector/api/internal/pipeline"
	"fruit-inspector/api/internal/store"
	"fruit-inspector/api/internal/util"
)

type AnalyzeRequest struct {
	Image   string `json:"image"` // base64 или data:URL
	Locale  string `json:"locale,omitempty"`
	LLMName string `json:"llm_name,omitempty"`
	ChatID  int64  `json:"chat_id,omitempty"`
}

type AnalyzeResponse struct {
	Analysis *fruit.Analysis     `json:"analysis,omitempty"`
	Progress []pipeline.Progress `json:"progress"`
	Error    string              `json:"error,omitempty"`
	Stage    pipeline.Stage      `json:"stage,omitempty"`
	// Fruit: частичное распознавание при низкой уверенности.
	Fruit *fruit.Identification `json:"fruit,omitempty"`
}

// streamLine: одна строка NDJSON-потока.
type streamLine struct {
	Type string `json:"type"` // progress | result | error
	*pipeline.Progress
	Analysis *fruit.Analysis       `json:"analysis,omitempty"`
	Error    string                `json:"error,omitempty"`
	Stage    pipeline.Stage        `json:"failed_stage,omitempty"`
	Fruit    *fruit.Identification `json:"fruit,omitempty"`
}

func (h *Handle) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "POST only"})
		return
	}
	defer r.Body.Close()

	var req AnalyzeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 16<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json: " + err.Error()})
		return
	}
	img, _, err := util.DecodeBase64MaybeDataURL(req.Image)
	if err != nil || len(img) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad image"})
		return
	}

	orch, err := h.builder.Build(req.LLMName, req.Locale)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	deadline := 180 * time.Second
	if ts := r.Header.Get("X-Request-Timeout"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	}
	ctx, cancel := context.WithTimeout(r.Context(), deadline)
	defer cancel()

	if r.URL.Query().Get("stream") == "1" {
		h.analyzeStream(ctx, w, orch, req, util.SHA256Hex(img))
		return
	}

	var events []pipeline.Progress
	analysis, err := orch.AnalyzeImage(ctx, req.Image, func(p pipeline.Progress) {
		events = append(events, p)
	})
	if err != nil {
		resp := AnalyzeResponse{Progress: events, Error: err.Error()}
		resp.Stage, resp.Fruit = failureDetails(err)
		writeJSON(w, statusFor(err), resp)
		return
	}
	h.save(ctx, orch, req, util.SHA256Hex(img), analysis)
	writeJSON(w, http.StatusOK, AnalyzeResponse{Analysis: analysis, Progress: events})
}

func (h *Handle) analyzeStream(ctx context.Context, w http.ResponseWriter, orch *pipeline.Orchestrator, req AnalyzeRequest, hash string) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	send := func(l streamLine) {
		_ = enc.Encode(l)
		if flusher != nil {
			flusher.Flush()
		}
	}

	analysis, err := orch.AnalyzeImage(ctx, req.Image, func(p pipeline.Progress) {
		send(streamLine{Type: "progress", Progress: &p})
	})
	if err != nil {
		l := streamLine{Type: "error", Error: err.Error()}
		l.Stage, l.Fruit = failureDetails(err)
		send(l)
		return
	}
	h.save(ctx, orch, req, hash, analysis)
	send(streamLine{Type: "result", Analysis: analysis})
}

func failureDetails(err error) (pipeline.Stage, *fruit.Identification) {
	var (
		pe    *pipeline.PipelineError
		le    *agents.LowConfidenceError
		stage pipeline.Stage
	)
	if errors.As(err, &pe) {
		stage = pe.Stage
	}
	if errors.As(err, &le) {
		return stage, le.Data
	}
	return stage, nil
}

func (h *Handle) save(ctx context.Context, orch *pipeline.Orchestrator, req AnalyzeRequest, hash string, a *fruit.Analysis) {
	if h.repo == nil {
		return
	}
	id, err := h.repo.Save(ctx, store.AnalysisRow{
		ChatID:    req.ChatID,
		ImageHash: hash,
		Engine:    orch.Provider().Name(),
		Model:     orch.Config().Model,
		Locale:    orch.Locale(),
		Analysis:  *a,
	})
	if err != nil {
		log.WithError(err).Warn("save analysis")
		return
	}
	log.WithField("id", id).Debug("analysis saved")
}
