package chunker

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter reports how many tokens a piece of text costs for the
// downstream model. Chunk budgets are only accurate if this matches the
// tokenizer the model actually uses.
type TokenCounter func(text string) int

// NewTokenCounter returns a counter backed by the tiktoken encoding for
// the given model. When the encoding is unknown it falls back to the
// word-count heuristic so chunking still works offline.
func NewTokenCounter(model string) TokenCounter {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
	}
	if err != nil {
		return EstimateTokens
	}
	return func(text string) int {
		if text == "" {
			return 0
		}
		return len(enc.Encode(text, nil, nil))
	}
}

// EstimateTokens gives a rough token count from the word count
// (~1.33 tokens per word).
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	tokens := int(float64(words) * 1.33)
	if tokens < 1 && len(text) > 0 {
		tokens = 1
	}
	return tokens
}
