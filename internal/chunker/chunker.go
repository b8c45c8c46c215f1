package chunker

import (
	"strings"

	"github.com/dmoralesc/actalyzer/internal/docmodel"
)

// Config controls chunking behavior.
type Config struct {
	MaxTokens     int          // Maximum tokens per chunk.
	OverlapTokens int          // Overlap between consecutive chunks in tokens.
	Count         TokenCounter // Tokenizer shared with the downstream model.
}

// DefaultConfig returns the production defaults: 8k-token chunks with a
// ~6% overlap to preserve context across boundaries.
func DefaultConfig() Config {
	return Config{
		MaxTokens:     8000,
		OverlapTokens: 500,
		Count:         EstimateTokens,
	}
}

func (cfg Config) normalized() Config {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 8000
	}
	if cfg.OverlapTokens < 0 {
		cfg.OverlapTokens = 0
	}
	if cfg.Count == nil {
		cfg.Count = EstimateTokens
	}
	return cfg
}

// Split walks the document and produces ordered, token-bounded chunks
// covering every section with no gaps. Sections are kept intact whenever
// they fit the budget; adjacent chunks share up to OverlapTokens of
// trailing context.
func Split(doc *docmodel.Document, cfg Config) []docmodel.Chunk {
	cfg = cfg.normalized()

	blocks := collectBlocks(doc)
	if len(blocks) == 0 {
		return nil
	}

	var texts []string
	var current strings.Builder
	currentTokens := 0

	flush := func() {
		if currentTokens > 0 {
			texts = append(texts, current.String())
		}
		current.Reset()
		currentTokens = 0
	}

	for _, block := range blocks {
		blockTokens := cfg.Count(block)

		// A single section above the budget is split by paragraphs,
		// then sentences.
		if blockTokens > cfg.MaxTokens {
			flush()
			texts = append(texts, splitText(block, cfg)...)
			continue
		}

		if currentTokens+blockTokens > cfg.MaxTokens && currentTokens > 0 {
			prev := current.String()
			flush()
			if overlap := tailText(prev, cfg.OverlapTokens, cfg.Count); overlap != "" {
				current.WriteString(overlap)
				currentTokens = cfg.Count(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(block)
		currentTokens += blockTokens
	}
	flush()

	chunks := make([]docmodel.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, docmodel.Chunk{
			Text:       text,
			TokenCount: cfg.Count(text),
			Index:      i,
		})
	}
	return chunks
}

// collectBlocks flattens the section tree into ordered text blocks,
// prefixing each titled section with its heading so the classifier sees
// the structural context.
func collectBlocks(doc *docmodel.Document) []string {
	var blocks []string
	var walk func(secs []*docmodel.Section)
	walk = func(secs []*docmodel.Section) {
		for _, s := range secs {
			text := strings.TrimSpace(s.Text)
			if text != "" {
				if s.Title != "" {
					text = s.Title + "\n\n" + text
				}
				blocks = append(blocks, text)
			}
			walk(s.Children)
		}
	}
	walk(doc.Sections)
	return blocks
}

// splitText breaks oversized text into chunks of at most MaxTokens, with overlap.
func splitText(text string, cfg Config) []string {
	paragraphs := splitByParagraphs(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, para := range paragraphs {
		paraTokens := cfg.Count(para)

		// A single paragraph above the budget is split by sentences.
		if paraTokens > cfg.MaxTokens {
			if currentTokens > 0 {
				result = append(result, current.String())
				current.Reset()
				currentTokens = 0
			}
			result = append(result, splitBySentences(para, cfg)...)
			continue
		}

		if currentTokens+paraTokens > cfg.MaxTokens && currentTokens > 0 {
			result = append(result, current.String())

			overlap := tailText(current.String(), cfg.OverlapTokens, cfg.Count)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = cfg.Count(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		currentTokens += paraTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}

	return result
}

// splitByParagraphs splits on double-newlines.
func splitByParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// splitBySentences breaks a large paragraph into sentence-based chunks.
func splitBySentences(text string, cfg Config) []string {
	sentences := splitSentences(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, sent := range sentences {
		sentTokens := cfg.Count(sent)

		if currentTokens+sentTokens > cfg.MaxTokens && currentTokens > 0 {
			result = append(result, current.String())
			overlap := tailText(current.String(), cfg.OverlapTokens, cfg.Count)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = cfg.Count(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
		currentTokens += sentTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}

	return result
}

// splitSentences does basic sentence splitting.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}

	return sentences
}

// tailText extracts roughly targetTokens worth of trailing words for
// overlap. The word window is sized by approximation (~1.33 tokens/word)
// and then trimmed against the real tokenizer, so the carried context
// never exceeds the overlap budget by much.
func tailText(text string, targetTokens int, count TokenCounter) string {
	if targetTokens <= 0 {
		return ""
	}
	words := strings.Fields(text)
	targetWords := int(float64(targetTokens) / 1.33)
	if targetWords <= 0 || len(words) <= targetWords {
		// The whole text fits inside the overlap budget; carrying all of
		// it would duplicate the previous chunk entirely.
		return ""
	}
	tail := strings.Join(words[len(words)-targetWords:], " ")
	for count(tail) > targetTokens && targetWords > 1 {
		targetWords /= 2
		tail = strings.Join(words[len(words)-targetWords:], " ")
	}
	return tail
}
