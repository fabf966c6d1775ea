package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"fruit-inspector/api/internal/llm"
	"fruit-inspector/api/internal/util"
)

type Engine struct {
	APIKey string
	Model  string
	opts   []option.ClientOption
}

func New(apiKey, model string, opts ...option.ClientOption) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
		opts:   opts,
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

// Complete — один вызов GenerateContent, без повторов.
func (e *Engine) Complete(ctx context.Context, req llm.Request) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(e.APIKey)}, e.opts...)...)
	if err != nil {
		return "", err
	}
	defer cl.Close()

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = e.Model
	}
	m := cl.GenerativeModel(model)
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature: ptrFloat32(0),
	}
	if req.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	parts, err := buildParts(req)
	if err != nil {
		return "", err
	}
	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	txt := firstText(resp)
	if txt == "" {
		return "", llm.ErrEmptyResponse
	}
	return txt, nil
}

// buildParts: картинка (если есть) идёт перед текстом, как в Messages API.
func buildParts(req llm.Request) ([]genai.Part, error) {
	var parts []genai.Part
	if strings.TrimSpace(req.Image) != "" {
		imgBytes, mimeFromDataURL, err := util.DecodeBase64MaybeDataURL(req.Image)
		if err != nil {
			return nil, fmt.Errorf("gemini: bad image base64: %w", err)
		}
		parts = append(parts, genai.Blob{
			MIMEType: util.PickMIME("", mimeFromDataURL, imgBytes),
			Data:     imgBytes,
		})
	}
	return append(parts, genai.Text(req.Prompt)), nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
