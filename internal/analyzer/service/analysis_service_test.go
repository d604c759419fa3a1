package service

import (
	"context"
	"testing"

	"golang-stock-analyst/internal/analyzer/config"
	"golang-stock-analyst/internal/analyzer/dto"
	"golang-stock-analyst/internal/analyzer/evaluator"
	"golang-stock-analyst/internal/analyzer/repository"
	"golang-stock-analyst/internal/entity"
	"golang-stock-analyst/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalysisService(snapshots repository.SnapshotRepository) AnalysisService {
	cfg := config.Default()
	log := logger.NewNop()
	return NewAnalysisService(&cfg, log, snapshots, DefaultEvaluators(&cfg, log))
}

func TestAnalyze_EmptySnapshotIsHold(t *testing.T) {
	snapshots := &fakeSnapshots{snapshot: &entity.Snapshot{Symbol: "EMPTY"}}

	result, err := newAnalysisService(snapshots).Analyze(context.Background(), "empty")
	require.NoError(t, err)

	assert.Equal(t, []string{"empty"}, snapshots.calls)
	assert.Equal(t, "EMPTY", result.Symbol)
	assert.Equal(t, "EMPTY", result.CompanyName)
	assert.NotEmpty(t, result.RunID)
	assert.False(t, result.GeneratedAt.IsZero())

	require.Len(t, result.Results, 20)
	for i, r := range result.Results {
		assert.Equal(t, i+1, r.Number)
	}

	assert.Equal(t, 49.75, result.Summary.OverallScore)
	assert.Equal(t, "Hold", result.Summary.RecommendationEN)
	assert.Equal(t, "持有", result.Summary.RecommendationZH)
	assert.Equal(t, 45.0, result.Summary.CategoryScores[dto.CategoryDividend])
	assert.Equal(t, 50.0, result.Summary.CategoryScores[dto.CategoryTechnical])
}

func TestAnalyze_QuestionsFollowCategoryOrder(t *testing.T) {
	result, err := newAnalysisService(&fakeSnapshots{snapshot: &entity.Snapshot{Symbol: "X"}}).Analyze(context.Background(), "X")
	require.NoError(t, err)

	wantOrder := []dto.Category{}
	counts := []int{6, 4, 1, 5, 4}
	for i, c := range dto.Categories {
		for j := 0; j < counts[i]; j++ {
			wantOrder = append(wantOrder, c)
		}
	}

	var got []dto.Category
	for _, r := range result.Results {
		got = append(got, r.Category)
	}
	assert.Equal(t, wantOrder, got)
}

func TestAnalyze_OnlyScoredQuestionsReachDetails(t *testing.T) {
	result, err := newAnalysisService(&fakeSnapshots{snapshot: &entity.Snapshot{Symbol: "X"}}).Analyze(context.Background(), "X")
	require.NoError(t, err)

	var scoredFundamental []string
	for _, r := range result.Results {
		if r.Category == dto.CategoryFundamental && r.HasScore() {
			scoredFundamental = append(scoredFundamental, r.QuestionEN)
		}
	}
	assert.Equal(t, scoredFundamental, result.Summary.Details[dto.CategoryFundamental])
	assert.Less(t, len(scoredFundamental), 6)
}

func TestAnalyze_SnapshotErrorIsReturned(t *testing.T) {
	_, err := newAnalysisService(&fakeSnapshots{err: repository.ErrSymbolNotFound}).Analyze(context.Background(), "NOPE")
	assert.ErrorIs(t, err, repository.ErrSymbolNotFound)
}

func TestEvaluate_EvaluatorOrderIsNormalized(t *testing.T) {
	cfg := config.Default()
	log := logger.NewNop()
	evaluators := DefaultEvaluators(&cfg, log)
	reversed := make([]evaluator.Evaluator, len(evaluators))
	for i, e := range evaluators {
		reversed[len(evaluators)-1-i] = e
	}

	result := NewAnalysisService(&cfg, log, &fakeSnapshots{}, reversed).Evaluate(&entity.Snapshot{Symbol: "X"})

	require.Len(t, result.Results, 20)
	assert.Equal(t, dto.CategoryFundamental, result.Results[0].Category)
	assert.Equal(t, dto.CategorySentiment, result.Results[19].Category)
}

func TestEvaluate_FreshScorerPerRun(t *testing.T) {
	svc := newAnalysisService(&fakeSnapshots{})

	first := svc.Evaluate(&entity.Snapshot{Symbol: "X"})
	second := svc.Evaluate(&entity.Snapshot{Symbol: "X"})

	assert.Equal(t, first.Summary.OverallScore, second.Summary.OverallScore)
	assert.Equal(t, len(first.Summary.Details[dto.CategoryValuation]), len(second.Summary.Details[dto.CategoryValuation]))
	assert.NotEqual(t, first.RunID, second.RunID)
}
