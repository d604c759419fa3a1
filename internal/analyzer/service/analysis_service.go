package service

import (
	"context"
	"time"

	"golang-stock-analyst/internal/analyzer/config"
	"golang-stock-analyst/internal/analyzer/dto"
	"golang-stock-analyst/internal/analyzer/evaluator"
	"golang-stock-analyst/internal/analyzer/indicator"
	"golang-stock-analyst/internal/analyzer/repository"
	"golang-stock-analyst/internal/analyzer/scorer"
	"golang-stock-analyst/internal/entity"
	"golang-stock-analyst/pkg/logger"
	"golang-stock-analyst/pkg/metrics"

	"github.com/google/uuid"
)

// AnalysisService runs the twenty questions against a symbol and aggregates the scores.
type AnalysisService interface {
	Analyze(ctx context.Context, symbol string) (*dto.AnalysisResult, error)
	Evaluate(snapshot *entity.Snapshot) *dto.AnalysisResult
}

type analysisService struct {
	cfg        *config.Config
	log        *logger.Logger
	snapshots  repository.SnapshotRepository
	evaluators []evaluator.Evaluator
	now        func() time.Time
}

// DefaultEvaluators returns the five category evaluators in report order.
func DefaultEvaluators(cfg *config.Config, log *logger.Logger) []evaluator.Evaluator {
	return []evaluator.Evaluator{
		evaluator.NewFundamentalEvaluator(log),
		evaluator.NewValuationEvaluator(log),
		evaluator.NewDividendEvaluator(log),
		evaluator.NewTechnicalEvaluator(cfg.Technical, indicator.NewDefault(), log),
		evaluator.NewSentimentEvaluator(log),
	}
}

// NewAnalysisService creates an AnalysisService. Evaluators run in category order
// (fundamental, valuation, dividend, technical, sentiment) regardless of the order given.
func NewAnalysisService(cfg *config.Config, log *logger.Logger, snapshots repository.SnapshotRepository, evaluators []evaluator.Evaluator) AnalysisService {
	return &analysisService{
		cfg:        cfg,
		log:        log,
		snapshots:  snapshots,
		evaluators: orderByCategory(evaluators),
		now:        time.Now,
	}
}

func orderByCategory(evaluators []evaluator.Evaluator) []evaluator.Evaluator {
	ordered := make([]evaluator.Evaluator, 0, len(evaluators))
	for _, c := range dto.Categories {
		for _, e := range evaluators {
			if e.Category() == c {
				ordered = append(ordered, e)
			}
		}
	}
	return ordered
}

// Analyze fetches the snapshot of symbol and evaluates it. Only a failure to obtain the
// snapshot is returned as an error.
func (s *analysisService) Analyze(ctx context.Context, symbol string) (*dto.AnalysisResult, error) {
	start := s.now()

	snapshot, err := s.snapshots.Get(ctx, symbol)
	if err != nil {
		metrics.AnalysisRuns.WithLabelValues("failed").Inc()
		metrics.AnalysisDuration.WithLabelValues("failed").Observe(time.Since(start).Seconds())
		s.log.ErrorContext(ctx, "Failed to get snapshot", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return nil, err
	}

	result := s.Evaluate(snapshot)

	metrics.AnalysisRuns.WithLabelValues("success").Inc()
	metrics.AnalysisDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())
	metrics.OverallScore.WithLabelValues(result.Symbol).Set(result.Summary.OverallScore)

	s.log.InfoContext(ctx, "Analysis completed",
		logger.StringField("run_id", result.RunID),
		logger.StringField("symbol", result.Symbol),
		logger.FloatField("overall_score", result.Summary.OverallScore),
		logger.StringField("recommendation", result.Summary.RecommendationEN),
		logger.DurationField("elapsed", time.Since(start)))

	return result, nil
}

// Evaluate runs every evaluator over snapshot, numbers the questions from 1 and feeds
// each scored question into a fresh scorer.
func (s *analysisService) Evaluate(snapshot *entity.Snapshot) *dto.AnalysisResult {
	sc := scorer.New(s.cfg.Scoring)

	var results []dto.QuestionResult
	for _, e := range s.evaluators {
		for _, r := range e.Evaluate(snapshot) {
			r.Number = len(results) + 1
			if r.HasScore() {
				sc.AddScore(r.Category, *r.Score, r.QuestionEN)
			}
			results = append(results, r)
		}
		s.log.Debug("Category evaluated",
			logger.StringField("symbol", snapshot.Symbol),
			logger.StringField("category", string(e.Category())),
			logger.FloatField("category_score", sc.CategoryScore(e.Category())))
	}

	return &dto.AnalysisResult{
		RunID:       uuid.NewString(),
		Symbol:      snapshot.Symbol,
		CompanyName: snapshot.CompanyName(),
		GeneratedAt: s.now(),
		Results:     results,
		Summary:     sc.Summary(),
	}
}
