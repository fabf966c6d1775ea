package handle

import (
	"net/http"
	"strconv"
	"time"

	"fruit-inspector/api/internal/fruit"
)

type AnalysisItem struct {
	ID        int64          `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	ChatID    int64          `json:"chat_id"`
	Engine    string         `json:"engine"`
	Model     string         `json:"model"`
	Locale    string         `json:"locale"`
	Analysis  fruit.Analysis `json:"analysis"`
}

// Analyses отдаёт последние записи истории (GET ?chat_id=&limit=).
func (h *Handle) Analyses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "GET only"})
		return
	}
	if h.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "history is disabled"})
		return
	}

	q := r.URL.Query()
	var chatID int64
	if s := q.Get("chat_id"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad chat_id"})
			return
		}
		chatID = v
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	rows, err := h.repo.Recent(r.Context(), chatID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	items := make([]AnalysisItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, AnalysisItem{
			ID:        row.ID,
			CreatedAt: row.CreatedAt,
			ChatID:    row.ChatID,
			Engine:    row.Engine,
			Model:     row.Model,
			Locale:    row.Locale,
			Analysis:  row.Analysis,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
