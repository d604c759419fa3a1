package dto

import "time"

// AnalysisResult bundles everything a report needs for one symbol.
type AnalysisResult struct {
	RunID       string           `json:"run_id"`
	Symbol      string           `json:"symbol"`
	CompanyName string           `json:"company_name"`
	GeneratedAt time.Time        `json:"generated_at"`
	Results     []QuestionResult `json:"results"`
	Summary     Summary          `json:"summary"`
}

// StreamDataStockAnalyzer is the payload carried on the analyzer stream.
type StreamDataStockAnalyzer struct {
	StockCode  string `json:"stock_code"`
	NotifyUser bool   `json:"notify_user"`
}

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}
