package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apex/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fruit-inspector/api/internal/pipeline"
	"fruit-inspector/api/internal/store"
	"fruit-inspector/api/internal/util"
)

const maxPhotoBytes = 20 << 20

func (r *Router) acceptPhoto(msg tgbotapi.Message) {
	// берём самое большое превью
	ph := msg.Photo[len(msg.Photo)-1]
	r.analyzeFile(msg.Chat.ID, ph.FileID)
}

func (r *Router) acceptDocument(msg tgbotapi.Message) {
	r.analyzeFile(msg.Chat.ID, msg.Document.FileID)
}

// analyzeFile запускает анализ в фоне; на чат — не больше одного анализа сразу.
func (r *Router) analyzeFile(chatID int64, fileID string) {
	if !tryStart(chatID) {
		r.send(chatID, "⏳ Still working on your previous photo...")
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer finish(chatID)

		url, err := r.Bot.GetFileDirectURL(fileID)
		if err != nil {
			r.SendError(chatID, err)
			return
		}
		img, err := download(url)
		if err != nil {
			r.SendError(chatID, fmt.Errorf("download: %w", err))
			return
		}
		timeout := r.Timeout
		if timeout <= 0 {
			timeout = 3 * time.Minute
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		r.runAnalysis(ctx, chatID, img)
	}()
}

func (r *Router) runAnalysis(ctx context.Context, chatID int64, img []byte) {
	orch, err := r.Builder.ForProvider(r.EngManager.Get(chatID), r.locale(chatID))
	if err != nil {
		r.SendError(chatID, err)
		return
	}

	// один статусный месседж, который правим по ходу анализа
	status := r.send(chatID, "📷 Photo received")
	analysis, err := orch.AnalyzeImage(ctx, util.EncodeDataURL(img), func(p pipeline.Progress) {
		if status.MessageID != 0 {
			r.edit(chatID, status.MessageID, FormatProgress(p))
		}
	})
	if err != nil {
		r.send(chatID, FormatFailure(err))
		return
	}

	msg := tgbotapi.NewMessage(chatID, FormatReport(analysis))
	msg.ReplyMarkup = makeAgainKeyboard()
	if _, err := r.Bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Warn("send report")
	}

	if r.Repo == nil {
		return
	}
	if _, err := r.Repo.Save(ctx, store.AnalysisRow{
		ChatID:    chatID,
		ImageHash: util.SHA256Hex(img),
		Engine:    orch.Provider().Name(),
		Model:     orch.Config().Model,
		Locale:    orch.Locale(),
		Analysis:  *analysis,
	}); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Warn("save analysis")
	}
}

func download(url string) ([]byte, error) {
	resp, err := httpClient().Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}
