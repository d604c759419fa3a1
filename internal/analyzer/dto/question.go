package dto

import (
	"bytes"
	"encoding/json"
)

// Category is one of the five analysis buckets.
type Category string

const (
	CategoryFundamental Category = "fundamental"
	CategoryValuation   Category = "valuation"
	CategoryDividend    Category = "dividend"
	CategoryTechnical   Category = "technical"
	CategorySentiment   Category = "sentiment"
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryFundamental,
	CategoryValuation,
	CategoryDividend,
	CategoryTechnical,
	CategorySentiment,
}

// Valid reports whether c is one of the five known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// AnswerField is a single key/value line of an answer.
// Value is a string, a number or a []string.
type AnswerField struct {
	Key   string
	Value interface{}
}

// Answer is an ordered mapping of field name to value. Insertion order is kept for rendering.
type Answer struct {
	fields []AnswerField
}

// NewAnswer returns an empty answer.
func NewAnswer() *Answer {
	return &Answer{}
}

// Set adds key or replaces its value in place, keeping the original position.
func (a *Answer) Set(key string, value interface{}) *Answer {
	for i := range a.fields {
		if a.fields[i].Key == key {
			a.fields[i].Value = value
			return a
		}
	}
	a.fields = append(a.fields, AnswerField{Key: key, Value: value})
	return a
}

// Get returns the value stored under key.
func (a *Answer) Get(key string) (interface{}, bool) {
	if a == nil {
		return nil, false
	}
	for _, f := range a.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// String returns the value under key when it is a string.
func (a *Answer) String(key string) string {
	v, _ := a.Get(key)
	s, _ := v.(string)
	return s
}

// Fields returns a copy of the fields in insertion order.
func (a *Answer) Fields() []AnswerField {
	if a == nil {
		return nil
	}
	out := make([]AnswerField, len(a.fields))
	copy(out, a.fields)
	return out
}

// Len returns the number of fields.
func (a *Answer) Len() int {
	if a == nil {
		return 0
	}
	return len(a.fields)
}

// MarshalJSON writes the fields as a JSON object in insertion order.
func (a *Answer) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range a.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// QuestionResult is the outcome of one of the twenty questions.
type QuestionResult struct {
	Number     int      `json:"number"`
	Category   Category `json:"category"`
	QuestionEN string   `json:"question_en"`
	QuestionZH string   `json:"question_zh"`
	Answer     *Answer  `json:"answer"`
	Score      *float64 `json:"score,omitempty"`
}

// HasScore reports whether the question produced a score.
func (q QuestionResult) HasScore() bool {
	return q.Score != nil
}

// NewQuestionResult builds a scored result. The score is clamped to [0,100].
func NewQuestionResult(category Category, en, zh string, answer *Answer, score float64) QuestionResult {
	clamped := Clamp(score)
	return QuestionResult{
		Category:   category,
		QuestionEN: en,
		QuestionZH: zh,
		Answer:     answer,
		Score:      &clamped,
	}
}

// NewUnscoredResult builds a result that carries information only.
func NewUnscoredResult(category Category, en, zh string, answer *Answer) QuestionResult {
	return QuestionResult{
		Category:   category,
		QuestionEN: en,
		QuestionZH: zh,
		Answer:     answer,
	}
}

// Clamp bounds a score to [0,100].
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
