package domain

import "time"

// DefaultHistoryLimit is the number of analyses kept in history
const DefaultHistoryLimit = 5

// HistoryItem is a saved analysis
type HistoryItem struct {
	ID          string           `json:"id"`
	Ingredients string           `json:"ingredients"`
	Result      EnrichedAnalysis `json:"result"`
	HealthScore int              `json:"healthScore"`
	Timestamp   time.Time        `json:"timestamp"`
	Context     UsageContext     `json:"context"`
}

// HistoryStats summarizes saved analyses
type HistoryStats struct {
	Count        int     `json:"count"`
	AverageScore float64 `json:"averageScore"`
	BestScore    int     `json:"bestScore"`
	WorstScore   int     `json:"worstScore"`
}

// AnalyzeRequest is a single-product analysis request
type AnalyzeRequest struct {
	Ingredients string `json:"ingredients" binding:"required"`
	Context     string `json:"context,omitempty"`
	Save        bool   `json:"save,omitempty"`
}

// CompareRequest is a two-product comparison request
type CompareRequest struct {
	ProductA string `json:"productA" binding:"required"`
	ProductB string `json:"productB" binding:"required"`
	Context  string `json:"context,omitempty"`
}

// AnalysisResult is the response for a single-product analysis
type AnalysisResult struct {
	ID          string           `json:"id,omitempty"`
	Result      EnrichedAnalysis `json:"result"`
	HealthScore int              `json:"healthScore"`
	Severities  []Severity       `json:"severities"`
	CleanLabel  bool             `json:"cleanLabel"`
	Source      string           `json:"source"` // "LLM" or "Cache"
}
