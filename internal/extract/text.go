package extract

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/dmoralesc/actalyzer/internal/docmodel"
)

// extractText converts a plain-text acta. Blank lines separate paragraphs;
// each paragraph becomes its own section.
func extractText(data []byte, filename string) (*docmodel.Document, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	doc := &docmodel.Document{
		Title: strings.TrimSuffix(filename, ".txt"),
	}
	for _, para := range paragraphs {
		doc.Sections = append(doc.Sections, &docmodel.Section{Text: para})
	}

	return doc, nil
}
