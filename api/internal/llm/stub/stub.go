// Package stub — детерминированный провайдер без сети: для тестов и LLM_PROVIDER=stub.
package stub

import (
	"context"
	"errors"
	"strings"
	"sync"

	"fruit-inspector/api/internal/llm"
)

var ErrNoReply = errors.New("stub: no scripted reply left")

type Reply struct {
	Text string
	Err  error
}

func Text(s string) Reply  { return Reply{Text: s} }
func Fail(err error) Reply { return Reply{Err: err} }

// Scripted отдаёт заранее заданные ответы по очереди и запоминает запросы.
type Scripted struct {
	mu      sync.Mutex
	replies []Reply
	calls   []llm.Request
}

func NewScripted(replies ...Reply) *Scripted {
	return &Scripted{replies: replies}
}

func (s *Scripted) Name() string     { return "stub" }
func (s *Scripted) GetModel() string { return "stub-model" }

func (s *Scripted) Complete(_ context.Context, req llm.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	if len(s.replies) == 0 {
		return "", ErrNoReply
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r.Text, r.Err
}

func (s *Scripted) Calls() []llm.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]llm.Request, len(s.calls))
	copy(out, s.calls)
	return out
}

// Canned отвечает фиксированным «яблоком» на любой этап.
// Этап берётся из Request.Stage; без него: без картинки сладость, иначе распознавание.
// Текст промпта не учитывается, он может быть перекрыт из PROMPT_DIR.
type Canned struct{}

func (Canned) Name() string     { return "stub" }
func (Canned) GetModel() string { return "stub-model" }

func (Canned) Complete(_ context.Context, req llm.Request) (string, error) {
	switch req.Stage {
	case "identify":
		return IdentifyJSON, nil
	case "ripeness":
		return RipenessJSON, nil
	case "sweetness":
		return SweetnessJSON, nil
	}
	if strings.TrimSpace(req.Image) == "" {
		return SweetnessJSON, nil
	}
	return IdentifyJSON, nil
}

const IdentifyJSON = `{
  "fruit": "apple",
  "variety": "gala",
  "emoji": "🍎",
  "confidence": 92,
  "reasoning": "Round red fruit with a visible stem cavity"
}`

const RipenessJSON = `{
  "ripeness": {"level": "perfect", "score": 85, "emoji": "🟢", "indicators": ["uniform color", "firm appearance"]},
  "quality": {"score": 90, "defects": [], "freshness": "excellent"},
  "visual_assessment": {"color": "deep red", "texture": "smooth waxy skin", "blemishes": "none"}
}`

const SweetnessJSON = `{
  "sweetness": {"score": 72, "emoji": "😋", "label": "Sweet", "brix_estimate": "12-14° Brix", "compared_to_average": "average"},
  "recommendation": {"text": "Great for eating fresh", "emoji": "🍴", "alternatives": ["slice into a salad"]},
  "taste_notes": "Crisp and juicy with mild acidity"
}`
