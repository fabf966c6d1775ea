package telegram

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fruit-inspector/api/internal/agents"
	"fruit-inspector/api/internal/fruit"
	"fruit-inspector/api/internal/pipeline"
	"fruit-inspector/api/internal/store"
)

func makeLangKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, 5)
	for _, code := range []string{"en", "ko", "ja", "zh", "fr"} {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(code, "lang:"+code))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func makeAgainKeyboard() tgbotapi.InlineKeyboardMarkup {
	btn := tgbotapi.NewInlineKeyboardButtonData("🔁 Check another fruit", "again")
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(btn))
}

// progressBar рисует полосу из 10 клеток.
func progressBar(pct int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	n := pct / 10
	return strings.Repeat("▓", n) + strings.Repeat("░", 10-n)
}

func FormatProgress(p pipeline.Progress) string {
	if p.Stage == pipeline.StageError {
		return "❌ " + p.Message
	}
	return fmt.Sprintf("%s %d%%\n%s", progressBar(p.Progress), p.Progress, p.Message)
}

func FormatFailure(err error) string {
	var le *agents.LowConfidenceError
	if errors.As(err, &le) && le.Data != nil {
		return fmt.Sprintf("🤔 %s\nIt might be %s %s (%.0f%% sure).",
			err.Error(), le.Data.Fruit, le.Data.Emoji, le.Data.Confidence)
	}
	return "⚠️ " + err.Error()
}

func FormatReport(a *fruit.Analysis) string {
	var b strings.Builder

	id := a.Fruit
	name := id.Fruit
	if e, ok := fruit.Lookup(id.Fruit); ok {
		name = e.Name
	}
	fmt.Fprintf(&b, "%s %s", id.Emoji, name)
	if id.Variety != "" {
		fmt.Fprintf(&b, " (%s)", id.Variety)
	}
	fmt.Fprintf(&b, "\nConfidence: %.0f%%\n\n", id.Confidence)

	rp := a.Ripeness
	fmt.Fprintf(&b, "%s Ripeness: %s, %.0f/100\n", rp.Ripeness.Emoji, rp.Ripeness.Level, rp.Ripeness.Score)
	fmt.Fprintf(&b, "Quality: %.0f/100, freshness %s\n", rp.Quality.Score, rp.Quality.Freshness)
	if len(rp.Quality.Defects) > 0 {
		fmt.Fprintf(&b, "Defects: %s\n", strings.Join(rp.Quality.Defects, ", "))
	}
	if c := rp.VisualAssessment.Color; c != "" {
		fmt.Fprintf(&b, "Color: %s\n", c)
	}

	sw := a.Sweetness
	fmt.Fprintf(&b, "\n%s Sweetness: %.0f/100, %s\n", sw.Sweetness.Emoji, sw.Sweetness.Score, sw.Sweetness.Label)
	if e, ok := fruit.Lookup(id.Fruit); ok {
		avg := float64(e.AvgSweetness)
		fmt.Fprintf(&b, "Typical %s: %d/100 %s %s\n", strings.ToLower(e.Name), e.AvgSweetness,
			fruit.SweetnessEmoji(avg), fruit.SweetnessLabel(avg))
	}
	if rec := sw.Recommendation; rec.Text != "" {
		fmt.Fprintf(&b, "%s %s\n", rec.Emoji, rec.Text)
	}

	if o := a.Overall; o != nil {
		fmt.Fprintf(&b, "\nOverall: %d/100 %s %s", o.Score, o.Emoji, o.Label)
	}
	return strings.TrimRight(b.String(), "\n")
}

func FormatHistory(rows []store.AnalysisRow) string {
	if len(rows) == 0 {
		return "No analyses yet. Send a photo 📷"
	}
	var b strings.Builder
	b.WriteString("Your last analyses:\n")
	for i, row := range rows {
		a := row.Analysis
		fmt.Fprintf(&b, "%d. %s %s %s", i+1, row.CreatedAt.Format("2006-01-02 15:04"), a.Fruit.Emoji, a.Fruit.Fruit)
		if a.Overall != nil {
			fmt.Fprintf(&b, ": %d/100 %s", a.Overall.Score, a.Overall.Emoji)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
