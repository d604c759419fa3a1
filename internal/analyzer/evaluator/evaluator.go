// Package evaluator answers the twenty research questions from a market data snapshot.
//
// Evaluators never fail: missing or malformed inputs produce a neutral score with an
// explanatory answer. Scores start from a baseline, move through first-match threshold
// ladders and are clamped to [0,100] after every additive adjustment.
package evaluator

import (
	"fmt"

	"golang-stock-analyst/internal/analyzer/dto"
	"golang-stock-analyst/internal/entity"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	neutral       = 50.0
	notAvailable  = "N/A"
	noDataMessage = "Insufficient data"
)

// Evaluator answers the questions owned by one category.
type Evaluator interface {
	Category() dto.Category
	Evaluate(snapshot *entity.Snapshot) []dto.QuestionResult
}

var numberPrinter = message.NewPrinter(language.English)

// clamp bounds a running score to [0,100].
func clamp(score float64) float64 {
	return dto.Clamp(score)
}

// positive returns the value when it is present and strictly positive.
// Used for ratios where zero is not a meaningful observation (P/E, yield, ownership).
func positive(v *float64) (float64, bool) {
	if v == nil || *v <= 0 {
		return 0, false
	}
	return *v, true
}

// percent converts a reported fraction into a percentage.
func percent(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v * 100, true
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func formatSignedPercent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

func formatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func formatRatio(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// formatAmount renders a large amount with thousands separators, e.g. $1,234,567.
func formatAmount(v float64) string {
	return numberPrinter.Sprintf("$%d", int64(v))
}

func formatVolume(v float64) string {
	return numberPrinter.Sprintf("%d", int64(v))
}

// optional formats v with f when present, or N/A.
func optional(v *float64, f func(float64) string) string {
	if v == nil {
		return notAvailable
	}
	return f(*v)
}

// optionalPositive formats v with f when present and positive, or N/A.
func optionalPositive(v *float64, f func(float64) string) string {
	if x, ok := positive(v); ok {
		return f(x)
	}
	return notAvailable
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
