package anthropic

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	aoption "github.com/anthropics/anthropic-sdk-go/option"

	"fruit-inspector/api/internal/llm"
	"fruit-inspector/api/internal/util"
)

const DefaultModel = "claude-3-5-haiku-20241022"

type Engine struct {
	APIKey string
	Model  string
	client anthropic.Client
}

// New создаёт клиента Messages API. Повторы SDK выключены: один вызов — один запрос.
func New(key, model string, opts ...aoption.RequestOption) *Engine {
	key = strings.TrimSpace(key)
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	base := []aoption.RequestOption{
		aoption.WithAPIKey(key),
		aoption.WithMaxRetries(0),
	}
	return &Engine{
		APIKey: key,
		Model:  model,
		client: anthropic.NewClient(append(base, opts...)...),
	}
}

func (e *Engine) Name() string     { return "anthropic" }
func (e *Engine) GetModel() string { return e.Model }

func (e *Engine) Complete(ctx context.Context, req llm.Request) (string, error) {
	if e.APIKey == "" {
		return "", errors.New("ANTHROPIC_API_KEY is empty")
	}
	model := req.Model
	if model == "" {
		model = e.Model
	}

	var blocks []anthropic.ContentBlockParamUnion
	if strings.TrimSpace(req.Image) != "" {
		imgBytes, mimeFromDataURL, err := util.DecodeBase64MaybeDataURL(req.Image)
		if err != nil {
			return "", fmt.Errorf("anthropic: bad image base64: %w", err)
		}
		mime := util.PickMIME("", mimeFromDataURL, imgBytes)
		// API принимает только стандартную base64, URL-safe перекодируем
		blocks = append(blocks, anthropic.NewImageBlockBase64(mime, base64.StdEncoding.EncodeToString(imgBytes)))
	}
	blocks = append(blocks, anthropic.NewTextBlock(req.Prompt))

	msg, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(req.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(blocks...),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	for _, c := range msg.Content {
		if c.Type == "text" {
			return c.Text, nil
		}
	}
	return "", llm.ErrEmptyResponse
}
