package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"fruit-inspector/api/internal/llm"
)

func TestBuildParts(t *testing.T) {
	parts, err := buildParts(llm.Request{Image: "data:image/png;base64,iVBORw0KGgo=", Prompt: "identify"})
	if err != nil {
		t.Fatalf("buildParts() error: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("len(parts) = %d, want 2", len(parts))
	}
	blob, ok := parts[0].(genai.Blob)
	if !ok || blob.MIMEType != "image/png" || len(blob.Data) != 8 {
		t.Errorf("parts[0] = %#v", parts[0])
	}
	if txt, ok := parts[1].(genai.Text); !ok || string(txt) != "identify" {
		t.Errorf("parts[1] = %#v", parts[1])
	}

	parts, err = buildParts(llm.Request{Prompt: "sweetness"})
	if err != nil || len(parts) != 1 {
		t.Errorf("text-only buildParts() = %v, %v", parts, err)
	}

	if _, err := buildParts(llm.Request{Image: "data:image/png;base64,***", Prompt: "x"}); err == nil {
		t.Errorf("buildParts() should reject bad base64")
	}
}

func TestFirstText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: nil},
			{Content: &genai.Content{Parts: []genai.Part{genai.Blob{}, genai.Text(`{"fruit":"pear"}`)}}},
		},
	}
	if got := firstText(resp); got != `{"fruit":"pear"}` {
		t.Errorf("firstText() = %q", got)
	}
	if got := firstText(nil); got != "" {
		t.Errorf("firstText(nil) = %q", got)
	}
}

func TestCompleteEmptyKey(t *testing.T) {
	if _, err := New("", "gemini-2.5-flash").Complete(context.Background(), llm.Request{Prompt: "x"}); err == nil {
		t.Errorf("Complete() with empty key should fail")
	}
}
