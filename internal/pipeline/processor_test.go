package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmoralesc/actalyzer/internal/analyze"
	"github.com/dmoralesc/actalyzer/internal/chunker"
	"github.com/dmoralesc/actalyzer/internal/extract"
	"github.com/dmoralesc/actalyzer/internal/llm"
)

// scriptedCompleter answers structured calls by schema name and free-text
// calls by prompt content.
type scriptedCompleter struct {
	chunkOutcomes   []analyze.ChunkOutcome
	chunkErr        error
	classification  *analyze.FinancialClassification
	generalSummary  string
	generalErr      error
	financial       string
	financialErr    error
	chunkCalls      int
	generalCalls    int
	financialCalls  int
	classifierCalls int
}

func (s *scriptedCompleter) CompleteStructured(_ context.Context, req llm.StructuredRequest, out any) error {
	switch req.SchemaName {
	case "chunk_analysis":
		if s.chunkErr != nil {
			return s.chunkErr
		}
		outcome := s.chunkOutcomes[s.chunkCalls%len(s.chunkOutcomes)]
		s.chunkCalls++
		return reply(out, outcome)
	case "financial_classification":
		s.classifierCalls++
		if s.classification == nil {
			return &llm.ServiceError{StatusCode: 500, Message: "no classification scripted"}
		}
		return reply(out, *s.classification)
	}
	return errors.New("unexpected schema " + req.SchemaName)
}

func (s *scriptedCompleter) Complete(_ context.Context, req llm.TextRequest) (string, error) {
	if strings.Contains(req.User, "Sección financiera") {
		s.financialCalls++
		return s.financial, s.financialErr
	}
	s.generalCalls++
	return s.generalSummary, s.generalErr
}

func reply(out any, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func newTestProcessor(fake *scriptedCompleter) *Processor {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	analyzer := analyze.NewAnalyzer(fake, analyze.Config{
		AnalysisModel:             "gpt-4o-mini",
		SummaryModel:              "gpt-4o",
		AnalysisTemperature:       0.1,
		SummaryTemperature:        0.3,
		SummaryMaxTokens:          800,
		FinancialSummaryMaxTokens: 600,
	}, log)
	cfg := chunker.Config{MaxTokens: 2000, OverlapTokens: 100, Count: chunker.EstimateTokens}
	return NewProcessor(analyzer, cfg, log)
}

func TestProcess_FinancialDocument(t *testing.T) {
	fake := &scriptedCompleter{
		chunkOutcomes: []analyze.ChunkOutcome{
			{Summary: "discusión del presupuesto del BCCR", IsFinancial: true},
		},
		classification: &analyze.FinancialClassification{
			IsFinancial: true,
			Confidence:  0.95,
			Entities:    []string{"SUGEF", "BCCR"},
			Reasoning:   "menciona entes reguladores",
		},
		generalSummary: "resumen general del acta",
		financial:      "resumen de los temas financieros",
	}
	p := newTestProcessor(fake)

	data := []byte("La comisión discute el presupuesto anual del Banco Central y las directrices de SUGEF.")
	result, err := p.Process(context.Background(), data, "sesion-12.txt")
	require.NoError(t, err)

	assert.Equal(t, "sesion-12.txt", result.Filename)
	assert.True(t, result.IsFinancial)
	assert.Equal(t, "resumen general del acta", result.GeneralSummary)
	require.NotNil(t, result.FinancialSummary)
	assert.Equal(t, "resumen de los temas financieros", *result.FinancialSummary)
	assert.Equal(t, []string{"BCCR", "SUGEF"}, result.Entities)
	assert.Equal(t, 1, result.TotalChunks)
	assert.Equal(t, 1, result.FinancialChunks)
	assert.False(t, result.CreatedAt.IsZero())
}

func TestProcess_NonFinancialSkipsFinancialSummary(t *testing.T) {
	fake := &scriptedCompleter{
		chunkOutcomes:  []analyze.ChunkOutcome{{Summary: "debate sobre caminos vecinales", IsFinancial: false}},
		generalSummary: "resumen general",
	}
	p := newTestProcessor(fake)

	result, err := p.Process(context.Background(), []byte("Se discute la reparación de caminos."), "sesion-13.txt")
	require.NoError(t, err)

	assert.False(t, result.IsFinancial)
	assert.Nil(t, result.FinancialSummary)
	assert.Empty(t, result.Entities)
	assert.Equal(t, 0, result.FinancialChunks)
	assert.Equal(t, 0, fake.classifierCalls, "detailed classification must not run for non-financial chunks")
	assert.Equal(t, 0, fake.financialCalls, "financial summary must not run")
	assert.Equal(t, 1, fake.generalCalls)
}

func TestProcess_UnsupportedFormatWrappedOnce(t *testing.T) {
	p := newTestProcessor(&scriptedCompleter{})

	_, err := p.Process(context.Background(), []byte("data"), "acta.pdf")

	var procErr *ProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, StageExtracting, procErr.Stage)
	assert.Equal(t, "acta.pdf", procErr.Filename)

	var unsupported *extract.UnsupportedFormatError
	assert.ErrorAs(t, err, &unsupported, "cause must stay reachable")
}

func TestProcess_EmptyDocumentFailsChunking(t *testing.T) {
	p := newTestProcessor(&scriptedCompleter{})

	_, err := p.Process(context.Background(), []byte("  \n \n"), "vacio.txt")

	var procErr *ProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, StageChunking, procErr.Stage)
}

func TestProcess_ClassificationFailureDiscardsEverything(t *testing.T) {
	fake := &scriptedCompleter{
		chunkErr: &llm.RateLimitError{Message: "429"},
	}
	p := newTestProcessor(fake)

	result, err := p.Process(context.Background(), []byte("Contenido del acta."), "sesion-14.txt")

	assert.Nil(t, result, "no partial result on failure")
	var procErr *ProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, StageClassifyingChunks, procErr.Stage)

	var rateErr *llm.RateLimitError
	assert.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 0, fake.generalCalls, "summarization must not run after a failed chunk")
}

func TestProcess_GeneralSummaryFailure(t *testing.T) {
	fake := &scriptedCompleter{
		chunkOutcomes: []analyze.ChunkOutcome{{Summary: "s", IsFinancial: false}},
		generalErr:    &llm.ServiceError{StatusCode: 503, Message: "unavailable"},
	}
	p := newTestProcessor(fake)

	_, err := p.Process(context.Background(), []byte("Contenido."), "sesion-15.txt")

	var procErr *ProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, StageSummarizingGeneral, procErr.Stage)
}

func TestProcess_FinancialSummaryFailure(t *testing.T) {
	fake := &scriptedCompleter{
		chunkOutcomes: []analyze.ChunkOutcome{{Summary: "s", IsFinancial: true}},
		classification: &analyze.FinancialClassification{
			IsFinancial: true, Confidence: 0.9, Entities: []string{"BCCR"}, Reasoning: "r",
		},
		generalSummary: "resumen",
		financialErr:   &llm.ServiceError{StatusCode: 500, Message: "boom"},
	}
	p := newTestProcessor(fake)

	result, err := p.Process(context.Background(), []byte("Contenido financiero."), "sesion-16.txt")

	assert.Nil(t, result)
	var procErr *ProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, StageSummarizingFinancial, procErr.Stage)
}
