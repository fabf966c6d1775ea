package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	aoption "github.com/anthropics/anthropic-sdk-go/option"

	"fruit-inspector/api/internal/llm"
)

type capturedRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content []struct {
			Type   string `json:"type"`
			Text   string `json:"text"`
			Source struct {
				Type      string `json:"type"`
				MediaType string `json:"media_type"`
				Data      string `json:"data"`
			} `json:"source"`
		} `json:"content"`
	} `json:"messages"`
}

func messageServer(t *testing.T, content string, got *capturedRequest, hits *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s, want /v1/messages", r.URL.Path)
		}
		if got != nil {
			_ = json.NewDecoder(r.Body).Decode(got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(content))
	}))
}

func TestCompleteWithImage(t *testing.T) {
	var got capturedRequest
	hits := 0
	srv := messageServer(t, `{
		"id": "msg_01",
		"type": "message",
		"role": "assistant",
		"model": "claude-3-5-haiku-20241022",
		"content": [{"type": "text", "text": "{\"fruit\": \"apple\"}"}],
		"stop_reason": "end_turn",
		"stop_sequence": null,
		"usage": {"input_tokens": 10, "output_tokens": 5}
	}`, &got, &hits)
	defer srv.Close()

	e := New("sk-ant-test-key-0123456789", "", aoption.WithBaseURL(srv.URL))
	text, err := e.Complete(context.Background(), llm.Request{
		Image:     "data:image/png;base64,iVBORw0KGgo=",
		Prompt:    "identify",
		MaxTokens: 1024,
	})
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if text != `{"fruit": "apple"}` {
		t.Errorf("Complete() = %q", text)
	}
	if got.Model != DefaultModel || got.MaxTokens != 1024 {
		t.Errorf("model/max_tokens = %q/%d", got.Model, got.MaxTokens)
	}
	if len(got.Messages) != 1 || len(got.Messages[0].Content) != 2 {
		t.Fatalf("messages = %+v", got.Messages)
	}
	img := got.Messages[0].Content[0]
	if img.Type != "image" || img.Source.MediaType != "image/png" || img.Source.Data != "iVBORw0KGgo=" {
		t.Errorf("image block = %+v", img)
	}
	if txt := got.Messages[0].Content[1]; txt.Type != "text" || txt.Text != "identify" {
		t.Errorf("text block = %+v", txt)
	}
}

func TestCompleteReencodesURLSafeImage(t *testing.T) {
	var got capturedRequest
	hits := 0
	srv := messageServer(t, `{
		"id": "msg_04", "type": "message", "role": "assistant", "model": "m",
		"content": [{"type": "text", "text": "ok"}],
		"stop_reason": "end_turn", "stop_sequence": null,
		"usage": {"input_tokens": 1, "output_tokens": 1}
	}`, &got, &hits)
	defer srv.Close()

	// 0xFB 0xFF: в URL-safe это "-_8=", в стандартной "+/8="
	e := New("sk-ant-test-key-0123456789", "m", aoption.WithBaseURL(srv.URL))
	if _, err := e.Complete(context.Background(), llm.Request{
		Image:     "data:image/jpeg;base64,-_8=",
		Prompt:    "identify",
		MaxTokens: 64,
	}); err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if len(got.Messages) != 1 || len(got.Messages[0].Content) != 2 {
		t.Fatalf("messages = %+v", got.Messages)
	}
	img := got.Messages[0].Content[0]
	if img.Source.Data != "+/8=" || img.Source.MediaType != "image/jpeg" {
		t.Errorf("image source = %+v, want standard base64 +/8=", img.Source)
	}
}

func TestCompleteTextOnly(t *testing.T) {
	var got capturedRequest
	hits := 0
	srv := messageServer(t, `{
		"id": "msg_02", "type": "message", "role": "assistant", "model": "m",
		"content": [{"type": "text", "text": "ok"}],
		"stop_reason": "end_turn", "stop_sequence": null,
		"usage": {"input_tokens": 1, "output_tokens": 1}
	}`, &got, &hits)
	defer srv.Close()

	e := New("sk-ant-test-key-0123456789", "m", aoption.WithBaseURL(srv.URL))
	if _, err := e.Complete(context.Background(), llm.Request{Prompt: "sweetness", MaxTokens: 64}); err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if len(got.Messages) != 1 || len(got.Messages[0].Content) != 1 || got.Messages[0].Content[0].Type != "text" {
		t.Errorf("text-only request carried unexpected blocks: %+v", got.Messages)
	}
}

func TestCompleteNoTextBlock(t *testing.T) {
	hits := 0
	srv := messageServer(t, `{
		"id": "msg_03", "type": "message", "role": "assistant", "model": "m",
		"content": [],
		"stop_reason": "end_turn", "stop_sequence": null,
		"usage": {"input_tokens": 1, "output_tokens": 0}
	}`, nil, &hits)
	defer srv.Close()

	e := New("sk-ant-test-key-0123456789", "m", aoption.WithBaseURL(srv.URL))
	_, err := e.Complete(context.Background(), llm.Request{Prompt: "x", MaxTokens: 8})
	if !errors.Is(err, llm.ErrEmptyResponse) {
		t.Errorf("Complete() error = %v, want ErrEmptyResponse", err)
	}
}

func TestCompleteNoRetryOnServerError(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
	}))
	defer srv.Close()

	e := New("sk-ant-test-key-0123456789", "m", aoption.WithBaseURL(srv.URL))
	if _, err := e.Complete(context.Background(), llm.Request{Prompt: "x", MaxTokens: 8}); err == nil {
		t.Fatalf("Complete() expected error")
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want exactly 1", hits)
	}
}

func TestCompleteEmptyKey(t *testing.T) {
	if _, err := New("", "").Complete(context.Background(), llm.Request{Prompt: "x"}); err == nil {
		t.Errorf("Complete() with empty key should fail")
	}
}
