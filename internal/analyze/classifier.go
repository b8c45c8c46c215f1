package analyze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmoralesc/actalyzer/internal/docmodel"
	"github.com/dmoralesc/actalyzer/internal/llm"
)

// FallbackReasoning marks classifications substituted after a failed
// step-2 call.
const FallbackReasoning = "Detailed classification failed, marked as financial based on initial analysis"

// Completer is the slice of the model client the analyzer needs.
type Completer interface {
	CompleteStructured(ctx context.Context, req llm.StructuredRequest, out any) error
	Complete(ctx context.Context, req llm.TextRequest) (string, error)
}

// Config carries the model names and sampling knobs for both phases.
type Config struct {
	AnalysisModel             string
	SummaryModel              string
	AnalysisTemperature       float64
	SummaryTemperature        float64
	SummaryMaxTokens          int
	FinancialSummaryMaxTokens int
}

// ClassificationError wraps a step-1 failure that is neither a rate
// limit nor an auth failure.
type ClassificationError struct {
	ChunkIndex int
	Err        error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classify chunk %d: %s", e.ChunkIndex, e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// Analyzer runs the per-chunk classification protocol and the two
// summary phases.
type Analyzer struct {
	client Completer
	cfg    Config
	log    *slog.Logger
}

func NewAnalyzer(client Completer, cfg Config, log *slog.Logger) *Analyzer {
	return &Analyzer{client: client, cfg: cfg, log: log}
}

// AnalyzeChunk runs the two-step protocol for one chunk. Step 1 always
// produces the summary and the financial flag; step 2 runs only for
// financial chunks and degrades to the fallback classification on any
// error — a chunk flagged financial never loses that status because the
// detailed call failed.
func (a *Analyzer) AnalyzeChunk(ctx context.Context, chunk docmodel.Chunk) (ChunkAnalysis, error) {
	var outcome ChunkOutcome
	err := a.client.CompleteStructured(ctx, llm.StructuredRequest{
		Model:       a.cfg.AnalysisModel,
		System:      chunkAnalysisSystemPrompt,
		User:        chunk.Text,
		SchemaName:  "chunk_analysis",
		Schema:      chunkOutcomeSchema,
		Temperature: a.cfg.AnalysisTemperature,
	}, &outcome)
	if err != nil {
		var rateErr *llm.RateLimitError
		var authErr *llm.AuthError
		if errors.As(err, &rateErr) || errors.As(err, &authErr) {
			return ChunkAnalysis{}, err
		}
		return ChunkAnalysis{}, &ClassificationError{ChunkIndex: chunk.Index, Err: err}
	}

	var classification *FinancialClassification
	if outcome.IsFinancial {
		classification = a.classifyDetailed(ctx, chunk.Text)
	}

	analysis := ChunkAnalysis{
		ChunkIndex:     chunk.Index,
		Summary:        outcome.Summary,
		IsFinancial:    outcome.IsFinancial,
		Classification: classification,
		Text:           chunk.Text,
	}

	a.log.Debug("chunk analyzed",
		"chunk_index", chunk.Index,
		"is_financial", analysis.IsFinancial,
		"summary_length", len(analysis.Summary),
	)
	return analysis, nil
}

// classifyDetailed issues the step-2 call. It never fails: any error is
// replaced by the fallback classification.
func (a *Analyzer) classifyDetailed(ctx context.Context, text string) *FinancialClassification {
	var cls FinancialClassification
	err := a.client.CompleteStructured(ctx, llm.StructuredRequest{
		Model:       a.cfg.AnalysisModel,
		System:      financialClassificationSystemPrompt,
		User:        text,
		SchemaName:  "financial_classification",
		Schema:      financialClassificationSchema,
		Temperature: a.cfg.AnalysisTemperature,
	}, &cls)
	if err != nil {
		a.log.Warn("detailed classification failed, using fallback", "error", err)
		return &FinancialClassification{
			IsFinancial: true,
			Confidence:  0.5,
			Entities:    []string{},
			Reasoning:   FallbackReasoning,
		}
	}

	cls.Entities = CleanEntities(cls.Entities)
	return &cls
}

// AnalyzeAll processes chunks strictly in index order, one at a time,
// stopping on the first unrecovered failure.
func (a *Analyzer) AnalyzeAll(ctx context.Context, chunks []docmodel.Chunk) ([]ChunkAnalysis, error) {
	a.log.Info("chunk analysis started", "total_chunks", len(chunks))

	analyses := make([]ChunkAnalysis, 0, len(chunks))
	for _, chunk := range chunks {
		analysis, err := a.AnalyzeChunk(ctx, chunk)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, analysis)
	}

	a.log.Info("chunk analysis completed", "total_chunks", len(analyses))
	return analyses, nil
}
