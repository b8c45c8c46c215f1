package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fc(entities ...string) *FinancialClassification {
	return &FinancialClassification{
		IsFinancial: true,
		Confidence:  0.9,
		Entities:    entities,
		Reasoning:   "menciona instituciones financieras",
	}
}

func TestAggregate_NoFinancialChunks(t *testing.T) {
	analyses := []ChunkAnalysis{
		{ChunkIndex: 0, Summary: "apertura de la sesión", IsFinancial: false},
		{ChunkIndex: 1, Summary: "debate sobre infraestructura", IsFinancial: false},
		{ChunkIndex: 2, Summary: "cierre de la sesión", IsFinancial: false},
	}

	agg := Aggregate(analyses)

	assert.False(t, agg.IsFinancial)
	assert.Equal(t, 0, agg.FinancialChunkCount)
	assert.Empty(t, agg.Entities)
	assert.Empty(t, agg.FinancialSummaries)
	assert.Equal(t, []string{
		"apertura de la sesión",
		"debate sobre infraestructura",
		"cierre de la sesión",
	}, agg.AllSummaries)
}

func TestAggregate_EntityUnionSortedCaseSensitive(t *testing.T) {
	analyses := []ChunkAnalysis{
		{ChunkIndex: 0, Summary: "apertura", IsFinancial: false},
		{ChunkIndex: 1, Summary: "reforma bancaria", IsFinancial: true, Classification: fc("SUGEF", "bac")},
		{ChunkIndex: 2, Summary: "política monetaria", IsFinancial: true, Classification: fc("SUGEF", "BCCR")},
	}

	agg := Aggregate(analyses)

	require.True(t, agg.IsFinancial)
	assert.Equal(t, 2, agg.FinancialChunkCount)
	// Byte ordering: uppercase before lowercase, no case folding.
	assert.Equal(t, []string{"BCCR", "SUGEF", "bac"}, agg.Entities)
	assert.Equal(t, []string{"reforma bancaria", "política monetaria"}, agg.FinancialSummaries)
}

func TestAggregate_IsFinancialMatchesCount(t *testing.T) {
	cases := []struct {
		name     string
		analyses []ChunkAnalysis
	}{
		{"empty", nil},
		{"none financial", []ChunkAnalysis{{Summary: "a"}, {Summary: "b"}}},
		{"one financial", []ChunkAnalysis{{Summary: "a"}, {Summary: "b", IsFinancial: true, Classification: fc()}}},
		{"all financial", []ChunkAnalysis{
			{Summary: "a", IsFinancial: true, Classification: fc("BCR")},
			{Summary: "b", IsFinancial: true, Classification: fc("BNCR")},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			agg := Aggregate(tc.analyses)
			assert.Equal(t, agg.FinancialChunkCount > 0, agg.IsFinancial)
		})
	}
}

func TestAggregate_SummaryOrderFollowsChunkOrder(t *testing.T) {
	// Financial chunks interleaved with non-financial ones.
	analyses := []ChunkAnalysis{
		{ChunkIndex: 0, Summary: "s0", IsFinancial: true, Classification: fc("BAC")},
		{ChunkIndex: 1, Summary: "s1"},
		{ChunkIndex: 2, Summary: "s2", IsFinancial: true, Classification: fc("SUGEF")},
		{ChunkIndex: 3, Summary: "s3"},
	}

	agg := Aggregate(analyses)

	assert.Equal(t, []string{"s0", "s1", "s2", "s3"}, agg.AllSummaries)
	assert.Equal(t, []string{"s0", "s2"}, agg.FinancialSummaries)
}

func TestAggregate_Idempotent(t *testing.T) {
	analyses := []ChunkAnalysis{
		{ChunkIndex: 0, Summary: "s0", IsFinancial: true, Classification: fc("SUGEF", "BAC")},
		{ChunkIndex: 1, Summary: "s1"},
		{ChunkIndex: 2, Summary: "s2", IsFinancial: true, Classification: fc("CONASSIF")},
	}

	first := Aggregate(analyses)
	second := Aggregate(analyses)

	assert.Equal(t, first, second)
}

func TestAggregate_NilClassificationContributesNoEntities(t *testing.T) {
	// A financial chunk with a nil classification should never happen
	// (the classifier substitutes a fallback), but aggregation must not
	// panic on it either.
	analyses := []ChunkAnalysis{
		{ChunkIndex: 0, Summary: "s0", IsFinancial: true, Classification: nil},
	}

	agg := Aggregate(analyses)

	assert.True(t, agg.IsFinancial)
	assert.Equal(t, 1, agg.FinancialChunkCount)
	assert.Empty(t, agg.Entities)
}

func TestCleanEntities(t *testing.T) {
	got := CleanEntities([]string{" SUGEF ", "", "BAC", "SUGEF", "  ", "bac"})
	assert.ElementsMatch(t, []string{"SUGEF", "BAC", "bac"}, got)
}
