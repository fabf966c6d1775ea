package gpt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fruit-inspector/api/internal/llm"
)

func TestExtractResponsesText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"output_text", `{"output_text": "{\"a\":1}"}`, `{"a":1}`},
		{"segments", `{"output":[{"content":[{"type":"output_text","text":"one"},{"type":"refusal","text":"no"},{"type":"text","text":"two"}]}]}`, "one\ntwo"},
		{"garbage", `not json`, ""},
	}
	for _, tt := range tests {
		if got := extractResponsesText([]byte(tt.raw)); got != tt.want {
			t.Errorf("%s: extractResponsesText() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestComplete(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/responses" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer k" {
			t.Errorf("Authorization = %q", got)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"output":[{"role":"assistant","content":[{"type":"output_text","text":"{\"fruit\":\"mango\"}"}]}]}`))
	}))
	defer srv.Close()

	e := New("k", "gpt-4o-mini").WithHTTPClient(srv.Client())
	e.BaseURL = srv.URL
	out, err := e.Complete(context.Background(), llm.Request{
		Image:     "data:image/jpeg;base64,/9j/4AAQ",
		Prompt:    "identify",
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if out != `{"fruit":"mango"}` {
		t.Errorf("Complete() = %q", out)
	}
	if body["model"] != "gpt-4o-mini" || body["max_output_tokens"] != float64(256) {
		t.Errorf("body = %v", body)
	}
	raw, _ := json.Marshal(body["input"])
	if !strings.Contains(string(raw), `"input_image"`) || !strings.Contains(string(raw), "data:image/jpeg;base64,") {
		t.Errorf("input missing image part: %s", raw)
	}
}

func TestCompleteErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Authorization"), "bad") {
			http.Error(w, `{"error":"invalid key"}`, http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"output":[]}`))
	}))
	defer srv.Close()

	bad := New("bad", "m").WithHTTPClient(srv.Client())
	bad.BaseURL = srv.URL
	if _, err := bad.Complete(context.Background(), llm.Request{Prompt: "x"}); err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("Complete() error = %v, want 401", err)
	}

	empty := New("k", "m").WithHTTPClient(srv.Client())
	empty.BaseURL = srv.URL
	if _, err := empty.Complete(context.Background(), llm.Request{Prompt: "x"}); !errors.Is(err, llm.ErrEmptyResponse) {
		t.Errorf("Complete() error = %v, want ErrEmptyResponse", err)
	}

	if _, err := New("k", "m").Complete(context.Background(), llm.Request{Image: "R0lGODlh", Prompt: "x"}); err == nil {
		t.Errorf("Complete() should reject a GIF payload")
	}
}
