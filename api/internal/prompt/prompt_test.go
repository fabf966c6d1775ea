package prompt

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderBuiltin(t *testing.T) {
	s := NewSet("")

	id, err := s.Render(Identify, "en", Data{})
	if err != nil {
		t.Fatalf("Render(identify) error: %v", err)
	}
	if !strings.Contains(id, "fruit identification specialist") || strings.Contains(id, "IMPORTANT: Respond in") {
		t.Errorf("identify prompt unexpected:\n%s", id)
	}

	rp, err := s.Render(Ripeness, "en", Data{FruitName: "mango"})
	if err != nil {
		t.Fatalf("Render(ripeness) error: %v", err)
	}
	if !strings.Contains(rp, "expertise in mango assessment") || !strings.Contains(rp, "INSPECTION PROTOCOL for mango:") {
		t.Errorf("ripeness prompt missing fruit name")
	}

	sw, err := s.Render(Sweetness, "en", Data{FruitName: "mango", RipenessLevel: "perfect", RipenessScore: 85, QualityScore: 90})
	if err != nil {
		t.Fatalf("Render(sweetness) error: %v", err)
	}
	for _, want := range []string{"- Fruit Type: mango", "- Ripeness: perfect (85/100)", "- Overall Quality: 90/100"} {
		if !strings.Contains(sw, want) {
			t.Errorf("sweetness prompt missing %q", want)
		}
	}
}

func TestRenderLocale(t *testing.T) {
	s := NewSet("")
	tests := []struct {
		name   string
		locale string
		want   string
	}{
		{Identify, "ko", `IMPORTANT: Respond in Korean. The "reasoning" field must be in Korean.`},
		{Ripeness, "JA", "IMPORTANT: Respond in Japanese. All text fields (indicators, defects, color, texture, blemishes) must be in Japanese."},
		{Sweetness, "fr", "IMPORTANT: Respond in French. All text fields (label, compared_to_average, recommendation text, alternatives, taste_notes) must be in French."},
	}
	for _, tt := range tests {
		got, err := s.Render(tt.name, tt.locale, Data{FruitName: "kiwi"})
		if err != nil {
			t.Fatalf("Render(%s) error: %v", tt.name, err)
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("Render(%s, %s) missing instruction %q", tt.name, tt.locale, tt.want)
		}
	}

	got, _ := s.Render(Identify, "de", Data{})
	if strings.Contains(got, "IMPORTANT: Respond in") {
		t.Errorf("unknown locale should fall back to English without instruction")
	}
}

func TestNormalizeLocale(t *testing.T) {
	for in, want := range map[string]string{"": "en", "ZH": "zh", " fr ": "fr", "xx": "en"} {
		if got := NormalizeLocale(in); got != want {
			t.Errorf("NormalizeLocale(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOverride(t *testing.T) {
	dir := t.TempDir()
	s := NewSet(dir)

	path, err := s.WriteOverride(Ripeness, "Inspect this {{.FruitName}}.{{.Instruction}}")
	if err != nil {
		t.Fatalf("WriteOverride() error: %v", err)
	}
	if path != filepath.Join(dir, "ripeness.txt") {
		t.Errorf("path = %q", path)
	}

	got, err := s.Render(Ripeness, "en", Data{FruitName: "pear"})
	if err != nil || got != "Inspect this pear." {
		t.Errorf("Render() = %q, %v", got, err)
	}

	// without an override file the builtin template is used
	got, _ = s.Render(Identify, "en", Data{})
	if !strings.Contains(got, "fruit identification specialist") {
		t.Errorf("identify should fall back to builtin")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestOverrideRejects(t *testing.T) {
	s := NewSet(t.TempDir())
	if _, err := s.WriteOverride("hint", "x"); !errors.Is(err, ErrUnknownPrompt) {
		t.Errorf("WriteOverride(hint) error = %v, want ErrUnknownPrompt", err)
	}
	if _, err := s.WriteOverride(Identify, "{{.Broken"); err == nil {
		t.Errorf("WriteOverride() should reject a bad template")
	}
	if _, err := s.WriteOverride(Identify, "Name the fruit. {{.FruitNmae}}"); err == nil || !strings.HasPrefix(err.Error(), "bad template") {
		t.Errorf("WriteOverride() with unknown field error = %v, want bad template", err)
	}
	if _, err := os.Stat(s.Path(Identify)); !os.IsNotExist(err) {
		t.Errorf("rejected template was written: %v", err)
	}
	if got, err := s.Render(Identify, "en", Data{}); err != nil || !strings.Contains(got, "fruit") {
		t.Errorf("Render() after rejected override = (%.30q, %v)", got, err)
	}
	if _, err := NewSet("").WriteOverride(Identify, "x"); err == nil {
		t.Errorf("WriteOverride() without dir should fail")
	}
	if _, err := s.Render("hint", "en", Data{}); !errors.Is(err, ErrUnknownPrompt) {
		t.Errorf("Render(hint) error = %v", err)
	}
}
