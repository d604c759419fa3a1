package dto

// Recommendation is the bilingual label pair plus the confidence of a band.
type Recommendation struct {
	EN         string `json:"recommendation_en"`
	ZH         string `json:"recommendation_zh"`
	Confidence string `json:"confidence"`
}

// Summary is the aggregated outcome of a run, rebuilt on every request.
type Summary struct {
	OverallScore     float64               `json:"overall_score"`
	RecommendationEN string                `json:"recommendation_en"`
	RecommendationZH string                `json:"recommendation_zh"`
	Confidence       string                `json:"confidence"`
	CategoryScores   map[Category]float64  `json:"category_scores"`
	Details          map[Category][]string `json:"details"`
}
