package handle

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"fruit-inspector/api/internal/prompt"
)

type UpdatePromptRequest struct {
	Name string `json:"name"` // identify | ripeness | sweetness
	Text string `json:"text"`
}

func (r *UpdatePromptRequest) Validate() error {
	r.Name = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(r.Name)), ".txt")
	if r.Name == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("text is required")
	}
	return nil
}

type UpdatePromptResponse struct {
	OK      bool   `json:"ok"`
	Name    string `json:"name"`
	Path    string `json:"path"`
	Size    int    `json:"size"`
	Updated string `json:"updated"`
}

// UpdatePrompt сохраняет шаблон промпта в PROMPT_DIR (атомарная запись).
func (h *Handle) UpdatePrompt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var req UpdatePromptRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, 4<<20)) // 4 MiB limit
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	path, err := h.prompts.WriteOverride(req.Name, req.Text)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, prompt.ErrUnknownPrompt) || strings.HasPrefix(err.Error(), "bad template") {
			code = http.StatusBadRequest
		}
		http.Error(w, err.Error(), code)
		return
	}

	writeJSON(w, http.StatusOK, UpdatePromptResponse{
		OK:      true,
		Name:    req.Name,
		Path:    path,
		Size:    len(req.Text),
		Updated: time.Now().UTC().Format(time.RFC3339),
	})
}
