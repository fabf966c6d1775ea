package telegram

import "sync"

var chatLocale sync.Map // chatID -> string

func setLocale(chatID int64, code string) { chatLocale.Store(chatID, code) }

func getLocale(chatID int64) string {
	if v, ok := chatLocale.Load(chatID); ok {
		if s, _ := v.(string); s != "" {
			return s
		}
	}
	return ""
}

// running: чаты, где анализ уже идёт; второе фото в это время не принимаем.
var running sync.Map // chatID -> struct{}

func tryStart(chatID int64) bool {
	_, busy := running.LoadOrStore(chatID, struct{}{})
	return !busy
}

func finish(chatID int64) { running.Delete(chatID) }
