package scorer

import (
	"math"
	"sync"

	"golang-stock-analyst/internal/analyzer/dto"
)

const neutralScore = 50.0

// Scorer accumulates per-question scores for one analysis run and turns them into a recommendation.
// It is safe for concurrent use; per-category order follows the order of AddScore calls.
type Scorer struct {
	cfg Config

	mu      sync.Mutex
	scores  map[dto.Category][]float64
	details map[dto.Category][]string
}

// New creates an empty scorer.
func New(cfg Config) *Scorer {
	s := &Scorer{
		cfg:     cfg,
		scores:  make(map[dto.Category][]float64, len(dto.Categories)),
		details: make(map[dto.Category][]string, len(dto.Categories)),
	}
	for _, c := range dto.Categories {
		s.scores[c] = []float64{}
		s.details[c] = []string{}
	}
	return s
}

// AddScore records a score for category. Unknown categories are ignored.
// The score is clamped to [0,100]; an empty detail is not recorded.
func (s *Scorer) AddScore(category dto.Category, score float64, detail string) {
	if !category.Valid() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.scores[category] = append(s.scores[category], dto.Clamp(score))
	if detail != "" {
		s.details[category] = append(s.details[category], detail)
	}
}

// CategoryScore returns the mean of the recorded scores, or 50 when nothing was recorded.
func (s *Scorer) CategoryScore(category dto.Category) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categoryScore(category)
}

func (s *Scorer) categoryScore(category dto.Category) float64 {
	values := s.scores[category]
	if len(values) == 0 {
		return neutralScore
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// WeightedScore combines the category averages with the configured weights.
func (s *Scorer) WeightedScore() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weightedScore()
}

func (s *Scorer) weightedScore() float64 {
	var total, totalWeight float64
	for _, c := range dto.Categories {
		w, _ := s.cfg.Weights.Of(c)
		total += s.categoryScore(c) * float64(w)
		totalWeight += float64(w)
	}
	if totalWeight == 0 {
		return neutralScore
	}
	return total / totalWeight
}

// Recommendation maps the weighted score onto the configured bands.
func (s *Scorer) Recommendation() dto.Recommendation {
	return s.cfg.Recommend(s.WeightedScore())
}

// Recommend maps a weighted score onto the configured bands.
func (c Config) Recommend(score float64) dto.Recommendation {
	t := c.Thresholds
	switch {
	case score >= t.StrongBuy:
		return c.Labels.StrongBuy.recommendation()
	case score >= t.Buy:
		return c.Labels.Buy.recommendation()
	case score >= t.Hold:
		return c.Labels.Hold.recommendation()
	case score >= t.Sell:
		return c.Labels.Sell.recommendation()
	default:
		return c.Labels.StrongSell.recommendation()
	}
}

// Breakdown returns the average score of every category.
func (s *Scorer) Breakdown() map[dto.Category]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[dto.Category]float64, len(dto.Categories))
	for _, c := range dto.Categories {
		out[c] = s.categoryScore(c)
	}
	return out
}

// Details returns a copy of the detail labels per category.
func (s *Scorer) Details() map[dto.Category][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyDetails()
}

func (s *Scorer) copyDetails() map[dto.Category][]string {
	out := make(map[dto.Category][]string, len(dto.Categories))
	for _, c := range dto.Categories {
		out[c] = append([]string{}, s.details[c]...)
	}
	return out
}

// Summary builds a fresh summary from the current state. Nothing is cached.
func (s *Scorer) Summary() dto.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	weighted := s.weightedScore()
	rec := s.cfg.Recommend(weighted)

	categoryScores := make(map[dto.Category]float64, len(dto.Categories))
	for _, c := range dto.Categories {
		categoryScores[c] = round2(s.categoryScore(c))
	}

	return dto.Summary{
		OverallScore:     round2(weighted),
		RecommendationEN: rec.EN,
		RecommendationZH: rec.ZH,
		Confidence:       rec.Confidence,
		CategoryScores:   categoryScores,
		Details:          s.copyDetails(),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
