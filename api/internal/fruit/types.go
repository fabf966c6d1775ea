package fruit

import "time"

// Identification: результат первого этапа.
type Identification struct {
	Fruit      string  `json:"fruit"`
	Variety    string  `json:"variety,omitempty"`
	Emoji      string  `json:"emoji"`
	Confidence float64 `json:"confidence"` // 0–100
	Reasoning  Text    `json:"reasoning"`
}

type Ripeness struct {
	Level      string  `json:"level"` // unripe | perfect | overripe
	Score      float64 `json:"score"`
	Emoji      string  `json:"emoji"`
	Indicators List    `json:"indicators"`
}

type Quality struct {
	Score     float64  `json:"score"`
	Defects   []string `json:"defects"`
	Freshness string   `json:"freshness"` // excellent | good | fair | poor
}

type VisualAssessment struct {
	Color     Text `json:"color"`
	Texture   Text `json:"texture"`
	Blemishes Text `json:"blemishes"`
}

// RipenessAnalysis: результат второго этапа.
type RipenessAnalysis struct {
	Ripeness         Ripeness         `json:"ripeness"`
	Quality          Quality          `json:"quality"`
	VisualAssessment VisualAssessment `json:"visual_assessment"`
}

type Sweetness struct {
	Score             float64 `json:"score"`
	Emoji             string  `json:"emoji"`
	Label             string  `json:"label"`
	BrixEstimate      Text    `json:"brix_estimate,omitempty"`
	ComparedToAverage Text    `json:"compared_to_average,omitempty"`
}

type Recommendation struct {
	Text         string `json:"text"`
	Emoji        string `json:"emoji"`
	Alternatives List   `json:"alternatives,omitempty"`
}

// SweetnessEstimate: результат третьего этапа.
type SweetnessEstimate struct {
	Sweetness      Sweetness      `json:"sweetness"`
	Recommendation Recommendation `json:"recommendation"`
	TasteNotes     Text           `json:"taste_notes,omitempty"`
}

type Grade string

const (
	GradeExcellent Grade = "excellent"
	GradeGood      Grade = "good"
	GradeFair      Grade = "fair"
	GradePoor      Grade = "poor"
	GradeInedible  Grade = "inedible"
)

type OverallQuality struct {
	Score int    `json:"score"`
	Grade Grade  `json:"grade"`
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

// Analysis: итог пайплайна. После сборки не меняется.
type Analysis struct {
	Fruit     Identification    `json:"fruit"`
	Ripeness  RipenessAnalysis  `json:"ripeness"`
	Sweetness SweetnessEstimate `json:"sweetness"`
	Overall   *OverallQuality   `json:"overall,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
