package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fruit-inspector/api/internal/llm"
	"fruit-inspector/api/internal/pipeline"
	"fruit-inspector/api/internal/prompt"
	"fruit-inspector/api/internal/store"
)

// BotAPI: то, что роутер использует от *tgbotapi.BotAPI.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Router struct {
	Bot        BotAPI
	Builder    *pipeline.Builder
	Engines    *llm.Engines
	EngManager *llm.Manager
	Repo       *store.AnalysisRepo // nil — история выключена

	Locale  string        // язык по умолчанию
	Timeout time.Duration // на один анализ

	wg sync.WaitGroup
}

// Wait дожидается анализов, запущенных в фоне.
func (r *Router) Wait() { r.wg.Wait() }

const helpText = `Send me a photo of a fruit and I will check what it is, how ripe it is and how sweet it should be.

Commands:
/lang <en|ko|ja|zh|fr> – answer language
/engine <anthropic|gemini|gpt> [model] – model provider
/history – your last analyses
/health – check the model connection`

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(*upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}
	if upd.Message.IsCommand() {
		r.HandleCommand(*upd.Message)
		return
	}
	if len(upd.Message.Photo) > 0 {
		r.acceptPhoto(*upd.Message)
		return
	}
	if upd.Message.Document != nil && strings.HasPrefix(upd.Message.Document.MimeType, "image/") {
		r.acceptDocument(*upd.Message)
		return
	}
	r.send(upd.Message.Chat.ID, "Please send a photo of a fruit 📷")
}

func (r *Router) HandleCommand(msg tgbotapi.Message) {
	cid := msg.Chat.ID
	args := strings.Fields(msg.CommandArguments())
	switch msg.Command() {
	case "start", "help":
		r.send(cid, helpText)
	case "health":
		r.handleHealth(cid)
	case "lang":
		r.handleLang(cid, args)
	case "engine":
		r.handleEngine(cid, args)
	case "history":
		r.handleHistory(cid)
	default:
		r.send(cid, "Unknown command. Try /help")
	}
}

func (r *Router) handleHealth(chatID int64) {
	orch, err := r.Builder.ForProvider(r.EngManager.Get(chatID), r.locale(chatID))
	if err != nil {
		r.SendError(chatID, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if orch.TestConnection(ctx) {
		r.send(chatID, "✅ OK ("+orch.Provider().Name()+", "+orch.Config().Model+")")
		return
	}
	r.send(chatID, "❌ "+orch.Provider().Name()+" is not reachable")
}

func (r *Router) handleLang(chatID int64, args []string) {
	if len(args) == 0 {
		msg := tgbotapi.NewMessage(chatID, "Current language: "+prompt.LanguageName(r.locale(chatID)))
		msg.ReplyMarkup = makeLangKeyboard()
		_, _ = r.Bot.Send(msg)
		return
	}
	r.setLang(chatID, args[0])
}

func (r *Router) setLang(chatID int64, code string) {
	code = strings.ToLower(strings.TrimSpace(code))
	if prompt.NormalizeLocale(code) != code {
		r.send(chatID, "Unsupported language. Available: en | ko | ja | zh | fr")
		return
	}
	setLocale(chatID, code)
	r.send(chatID, "✅ Language: "+prompt.LanguageName(code))
}

// handleEngine переключает движок для чата:
//
//	/engine anthropic [model]
//	/engine gemini [model]
//	/engine gpt [model]
func (r *Router) handleEngine(chatID int64, args []string) {
	if len(args) == 0 {
		cur := r.EngManager.Get(chatID)
		r.send(chatID, "Current engine: "+cur.Name()+" ("+cur.GetModel()+")"+
			"\nUsage: /engine {anthropic|gemini|gpt} [model]")
		return
	}
	eng, err := r.Engines.GetEngine(args[0])
	if err != nil {
		r.send(chatID, "❌ "+err.Error())
		return
	}
	if len(args) > 1 {
		eng = llm.WithModel(eng, args[1])
	}
	r.EngManager.Set(chatID, eng)
	r.send(chatID, fmt.Sprintf("✅ Engine: %s (%s)", eng.Name(), eng.GetModel()))
}

func (r *Router) handleHistory(chatID int64) {
	if r.Repo == nil {
		r.send(chatID, "History is disabled.")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	rows, err := r.Repo.Recent(ctx, chatID, 5)
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Warn("history")
		r.SendError(chatID, err)
		return
	}
	r.send(chatID, FormatHistory(rows))
}

func (r *Router) locale(chatID int64) string {
	if l := getLocale(chatID); l != "" {
		return l
	}
	return prompt.NormalizeLocale(r.Locale)
}

func (r *Router) send(chatID int64, text string) tgbotapi.Message {
	msg := tgbotapi.NewMessage(chatID, text)
	m, err := r.Bot.Send(msg)
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Warn("send")
	}
	return m
}

func (r *Router) edit(chatID int64, msgID int, text string) {
	if _, err := r.Bot.Send(tgbotapi.NewEditMessageText(chatID, msgID, text)); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Debug("edit")
	}
}

func (r *Router) SendError(chatID int64, err error) {
	r.send(chatID, fmt.Sprintf("⚠️ %v", err))
}
