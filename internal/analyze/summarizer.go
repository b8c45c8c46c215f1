package analyze

import (
	"context"

	"github.com/dmoralesc/actalyzer/internal/llm"
)

// GeneralSummary synthesizes the document-level summary from per-chunk
// summaries, preserving their chronological order. Always invoked.
func (a *Analyzer) GeneralSummary(ctx context.Context, summaries []string) (string, error) {
	a.log.Info("general summary started", "total_summaries", len(summaries))

	summary, err := a.client.Complete(ctx, llm.TextRequest{
		Model:       a.cfg.SummaryModel,
		System:      generalSummarySystemPrompt,
		User:        buildGeneralSummaryPrompt(summaries),
		MaxTokens:   a.cfg.SummaryMaxTokens,
		Temperature: a.cfg.SummaryTemperature,
	})
	if err != nil {
		return "", err
	}

	a.log.Info("general summary completed", "summary_length", len(summary))
	return summary, nil
}

// FinancialSummary synthesizes the financial-only summary, weighting the
// aggregated entity list in the prompt. Invoked only when aggregation
// found at least one financial chunk.
func (a *Analyzer) FinancialSummary(ctx context.Context, summaries, entities []string) (string, error) {
	a.log.Info("financial summary started",
		"total_financial_summaries", len(summaries),
		"entities_count", len(entities),
	)

	summary, err := a.client.Complete(ctx, llm.TextRequest{
		Model:       a.cfg.SummaryModel,
		System:      financialSummarySystemPrompt,
		User:        buildFinancialSummaryPrompt(summaries, entities),
		MaxTokens:   a.cfg.FinancialSummaryMaxTokens,
		Temperature: a.cfg.SummaryTemperature,
	})
	if err != nil {
		return "", err
	}

	a.log.Info("financial summary completed", "summary_length", len(summary))
	return summary, nil
}
