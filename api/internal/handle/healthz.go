package handle

import (
	"context"
	"net/http"
	"time"
)

// Healthz: без параметров — просто ok; ?deep=1 — пробный вызов модели.
func (h *Handle) Healthz(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("deep") != "1" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
		return
	}

	orch, err := h.builder.Build(r.URL.Query().Get("llm_name"), "en")
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if !orch.TestConnection(ctx) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "provider": orch.Provider().Name()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "provider": orch.Provider().Name()})
}
