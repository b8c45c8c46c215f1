package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmoralesc/actalyzer/internal/analyze"
	"github.com/dmoralesc/actalyzer/internal/chunker"
	"github.com/dmoralesc/actalyzer/internal/extract"
)

// Stage names the pipeline step a failure occurred in.
type Stage string

const (
	StageExtracting           Stage = "extracting"
	StageChunking             Stage = "chunking"
	StageClassifyingChunks    Stage = "classifying_chunks"
	StageAggregating          Stage = "aggregating"
	StageSummarizingGeneral   Stage = "summarizing_general"
	StageSummarizingFinancial Stage = "summarizing_financial"
)

// ProcessingError is the single outer wrapper for any stage failure. The
// cause keeps its kind (rate limit, auth, extraction, ...) and is
// reachable through Unwrap.
type ProcessingError struct {
	Filename string
	Stage    Stage
	Err      error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("process %s (stage %s): %s", e.Filename, e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// Processor runs one document through the full analysis pipeline:
// extract → chunk → classify chunks → aggregate → summarize (general,
// then financial when applicable) → assemble. Each call owns its chunk
// list, analysis list, and aggregation exclusively; the pipeline is
// atomic and partial results are never surfaced.
type Processor struct {
	analyzer *analyze.Analyzer
	chunkCfg chunker.Config
	log      *slog.Logger
}

func NewProcessor(analyzer *analyze.Analyzer, chunkCfg chunker.Config, log *slog.Logger) *Processor {
	return &Processor{
		analyzer: analyzer,
		chunkCfg: chunkCfg,
		log:      log,
	}
}

// Process analyzes one acta. Any stage failure discards the partial
// state and returns a *ProcessingError carrying the filename, the stage,
// and the cause. No stage is retried here.
func (p *Processor) Process(ctx context.Context, data []byte, filename string) (*analyze.DocumentAnalysisResult, error) {
	log := p.log.With("filename", filename)
	log.Info("document processing started")

	fail := func(stage Stage, err error) (*analyze.DocumentAnalysisResult, error) {
		log.Error("document processing failed", "stage", string(stage), "error", err)
		return nil, &ProcessingError{Filename: filename, Stage: stage, Err: err}
	}

	doc, sections, err := extract.Extract(data, filename)
	if err != nil {
		return fail(StageExtracting, err)
	}
	log.Info("document extracted", "sections", sections)

	chunks := chunker.Split(doc, p.chunkCfg)
	if len(chunks) == 0 {
		return fail(StageChunking, fmt.Errorf("no extractable content"))
	}
	totalTokens := 0
	for _, c := range chunks {
		totalTokens += c.TokenCount
	}
	log.Info("document chunked", "total_chunks", len(chunks), "total_tokens", totalTokens)

	analyses, err := p.analyzer.AnalyzeAll(ctx, chunks)
	if err != nil {
		return fail(StageClassifyingChunks, err)
	}

	agg := analyze.Aggregate(analyses)
	log.Info("aggregation completed",
		"is_financial", agg.IsFinancial,
		"financial_chunks", agg.FinancialChunkCount,
		"unique_entities", len(agg.Entities),
	)

	generalSummary, err := p.analyzer.GeneralSummary(ctx, agg.AllSummaries)
	if err != nil {
		return fail(StageSummarizingGeneral, err)
	}

	var financialSummary *string
	if agg.IsFinancial {
		fs, err := p.analyzer.FinancialSummary(ctx, agg.FinancialSummaries, agg.Entities)
		if err != nil {
			return fail(StageSummarizingFinancial, err)
		}
		financialSummary = &fs
	}

	result := &analyze.DocumentAnalysisResult{
		Filename:         filename,
		CreatedAt:        time.Now(),
		GeneralSummary:   generalSummary,
		IsFinancial:      agg.IsFinancial,
		FinancialSummary: financialSummary,
		Entities:         agg.Entities,
		TotalChunks:      len(chunks),
		FinancialChunks:  agg.FinancialChunkCount,
	}

	log.Info("document processing completed",
		"is_financial", result.IsFinancial,
		"entities_count", len(result.Entities),
		"total_chunks", result.TotalChunks,
	)
	return result, nil
}
