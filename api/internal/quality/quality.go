// Package quality сводит оценки второго этапа в один итоговый балл.
package quality

import (
	"math"

	"fruit-inspector/api/internal/fruit"
)

const DefectPenalty = 15

var freshnessFactor = map[string]float64{
	"excellent": 1.0,
	"good":      0.9,
	"fair":      0.7,
	"poor":      0.4,
}

const unknownFreshnessFactor = 0.5

// Score: штраф за дефекты → свежесть → спелость → округление.
// Порядок шагов менять нельзя: множители применяются к уже оштрафованной базе.
func Score(qualityScore, ripenessScore float64, defectCount int, freshness string) fruit.OverallQuality {
	s := qualityScore - float64(DefectPenalty*defectCount)
	if s < 0 {
		s = 0
	}

	// сравнение точное: "Excellent" считается неизвестным значением
	f, ok := freshnessFactor[freshness]
	if !ok {
		f = unknownFreshnessFactor
	}
	s *= f

	switch {
	case ripenessScore < 40:
		s *= 0.7
	case ripenessScore < 60:
		s *= 0.85
	}

	final := int(math.Round(s))
	if final < 0 {
		final = 0
	}
	if final > 100 {
		final = 100
	}
	return grade(final)
}

// FromAnalysis: Score по данным второго этапа.
func FromAnalysis(r fruit.RipenessAnalysis) fruit.OverallQuality {
	return Score(r.Quality.Score, r.Ripeness.Score, len(r.Quality.Defects), r.Quality.Freshness)
}

func grade(score int) fruit.OverallQuality {
	q := fruit.OverallQuality{Score: score}
	switch {
	case score >= 85:
		q.Grade, q.Emoji, q.Label = fruit.GradeExcellent, "🌟", "Excellent"
	case score >= 70:
		q.Grade, q.Emoji, q.Label = fruit.GradeGood, "😊", "Good"
	case score >= 50:
		q.Grade, q.Emoji, q.Label = fruit.GradeFair, "😐", "Fair"
	case score >= 30:
		q.Grade, q.Emoji, q.Label = fruit.GradePoor, "😞", "Poor"
	default:
		q.Grade, q.Emoji, q.Label = fruit.GradeInedible, "⚠️", "Inedible"
	}
	return q
}
