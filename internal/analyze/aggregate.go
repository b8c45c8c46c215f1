package analyze

import "sort"

// Aggregate reduces an ordered list of chunk analyses into the
// document-level result. Pure: no I/O, no failure modes, and identical
// input always yields an identical result.
//
// Entity ordering is a plain byte-lexicographic sort, case-sensitive and
// locale-unaware, so "BCCR" sorts before "bac". Stored results depend on
// this ordering staying stable.
func Aggregate(analyses []ChunkAnalysis) AggregationResult {
	allSummaries := make([]string, 0, len(analyses))
	var financialSummaries []string
	entitySet := make(map[string]bool)
	financialCount := 0

	for _, a := range analyses {
		allSummaries = append(allSummaries, a.Summary)
		if !a.IsFinancial {
			continue
		}
		financialCount++
		financialSummaries = append(financialSummaries, a.Summary)
		if a.Classification != nil {
			for _, e := range a.Classification.Entities {
				entitySet[e] = true
			}
		}
	}

	entities := make([]string, 0, len(entitySet))
	for e := range entitySet {
		entities = append(entities, e)
	}
	sort.Strings(entities)

	if financialSummaries == nil {
		financialSummaries = []string{}
	}

	return AggregationResult{
		IsFinancial:         financialCount > 0,
		FinancialChunkCount: financialCount,
		AllSummaries:        allSummaries,
		FinancialSummaries:  financialSummaries,
		Entities:            entities,
	}
}
