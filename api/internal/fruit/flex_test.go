package fruit

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestTextUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want Text
	}{
		{`"12-14° Brix"`, "12-14° Brix"},
		{`14`, "14"},
		{`13.5`, "13.5"},
		{`true`, "true"},
		{`null`, ""},
		{`["crisp", "juicy"]`, "crisp, juicy"},
		{`{"min": 12}`, `{"min":12}`},
	}
	for _, tt := range tests {
		var got Text
		if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
			t.Errorf("Unmarshal(%s) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Unmarshal(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestListUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want List
	}{
		{`["uniform color", "firm"]`, List{"uniform color", "firm"}},
		{`"uniform color"`, List{"uniform color"}},
		{`""`, nil},
		{`null`, nil},
		{`[1, "two"]`, List{"1", "two"}},
		{`3`, List{"3"}},
	}
	for _, tt := range tests {
		var got List
		if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
			t.Errorf("Unmarshal(%s) error: %v", tt.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Unmarshal(%s) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestSweetnessTolerantFields(t *testing.T) {
	var s SweetnessEstimate
	in := `{"sweetness": {"score": 80, "emoji": "😋", "label": "Sweet", "brix_estimate": 14},
		"recommendation": {"text": "Eat now", "emoji": "🍴", "alternatives": "smoothie"},
		"taste_notes": ["honeyed", "floral"]}`
	if err := json.Unmarshal([]byte(in), &s); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if s.Sweetness.BrixEstimate != "14" || s.TasteNotes != "honeyed, floral" {
		t.Errorf("got brix %q, notes %q", s.Sweetness.BrixEstimate, s.TasteNotes)
	}
	if !reflect.DeepEqual(s.Recommendation.Alternatives, List{"smoothie"}) {
		t.Errorf("alternatives = %#v", s.Recommendation.Alternatives)
	}

	// числовые поля остаются строгими
	if err := json.Unmarshal([]byte(`{"sweetness": {"score": "high"}}`), &s); err == nil {
		t.Errorf("expected error for non-numeric score")
	}
}
