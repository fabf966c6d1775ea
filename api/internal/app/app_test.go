package app

import (
	"testing"

	"fruit-inspector/api/internal/config"
)

func TestNewEngines(t *testing.T) {
	cfg := &config.Config{
		Provider:        "anthropic",
		AnthropicAPIKey: "sk-ant-0123456789abcdef",
		AnthropicModel:  "claude-test",
		OpenAIAPIKey:    "o-key",
		OpenAIModel:     "gpt-test",
	}
	e := NewEngines(cfg)

	tests := []struct {
		name      string
		wantModel string
		wantErr   bool
	}{
		{"anthropic", "claude-test", false},
		{"claude", "claude-test", false},
		{"gpt", "gpt-test", false},
		{"stub", "", true},
		{"gemini", "", true},
	}
	for _, tt := range tests {
		p, err := e.GetEngine(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("GetEngine(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if err == nil && p.GetModel() != tt.wantModel {
			t.Errorf("GetEngine(%q).GetModel() = %q, want %q", tt.name, p.GetModel(), tt.wantModel)
		}
	}
}

func TestStubOnlyWhenSelected(t *testing.T) {
	e := NewEngines(&config.Config{Provider: "stub"})
	p, err := e.GetEngine("stub")
	if err != nil || p.GetModel() != "stub-model" {
		t.Errorf("GetEngine(stub) = (%v, %v)", p, err)
	}
	if _, err := e.GetEngine("anthropic"); err == nil {
		t.Errorf("anthropic must be unconfigured without a key")
	}
}

func TestNewBuilder(t *testing.T) {
	cfg := &config.Config{Provider: "stub", MaxTokens: 512, Locale: "ko"}
	b := NewBuilder(cfg, NewEngines(cfg))

	orch, err := b.Build("", "")
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if orch.Provider().Name() != "stub" || orch.Locale() != "ko" {
		t.Errorf("orchestrator = %s/%s", orch.Provider().Name(), orch.Locale())
	}
	if orch.Config().MaxTokens != 512 || orch.Config().APIKey != "stub" {
		t.Errorf("config = %+v", orch.Config())
	}
}
