package analyze

import (
	"strings"
	"time"
)

// ChunkOutcome is the step-1 structured output: a short summary plus the
// binary financial flag.
type ChunkOutcome struct {
	Summary     string `json:"summary"`
	IsFinancial bool   `json:"is_financial"`
}

// FinancialClassification is the step-2 structured output for chunks
// flagged financial.
type FinancialClassification struct {
	IsFinancial bool     `json:"is_financial"`
	Confidence  float64  `json:"confidence"`
	Entities    []string `json:"entities"`
	Reasoning   string   `json:"reasoning"`
}

// ChunkAnalysis is the per-chunk analysis record. Classification is
// non-nil exactly when IsFinancial is true; step-2 failures substitute
// the fallback classification instead of leaving it nil.
type ChunkAnalysis struct {
	ChunkIndex     int                      `json:"chunk_index"`
	Summary        string                   `json:"summary"`
	IsFinancial    bool                     `json:"is_financial"`
	Classification *FinancialClassification `json:"classification,omitempty"`
	Text           string                   `json:"text"`
}

// AggregationResult is the document-level reduction over chunk analyses.
// Invariant: IsFinancial == (FinancialChunkCount > 0).
type AggregationResult struct {
	IsFinancial         bool
	FinancialChunkCount int
	AllSummaries        []string
	FinancialSummaries  []string
	Entities            []string // deduplicated, byte-lexicographic ascending
}

// DocumentAnalysisResult is the pipeline's sole output. FinancialSummary
// is non-nil exactly when IsFinancial is true.
type DocumentAnalysisResult struct {
	Filename         string    `json:"filename"`
	CreatedAt        time.Time `json:"created_at"`
	GeneralSummary   string    `json:"general_summary"`
	IsFinancial      bool      `json:"is_financial"`
	FinancialSummary *string   `json:"financial_summary"`
	Entities         []string  `json:"entities"`
	TotalChunks      int       `json:"total_chunks"`
	FinancialChunks  int       `json:"financial_chunks"`
}

// CleanEntities trims whitespace, drops empty strings, and deduplicates.
// Order is not significant at this stage; the aggregator imposes the
// final sorted ordering.
func CleanEntities(entities []string) []string {
	seen := make(map[string]bool, len(entities))
	cleaned := make([]string, 0, len(entities))
	for _, e := range entities {
		e = strings.TrimSpace(e)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		cleaned = append(cleaned, e)
	}
	return cleaned
}
