package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmoralesc/actalyzer/internal/docmodel"
)

// SupportedExtensions lists the input formats the service accepts.
// Actas arrive as Word documents or plain-text exports; nothing else.
var SupportedExtensions = map[string]bool{
	".docx": true,
	".txt":  true,
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// UnsupportedFormatError is returned for file types the extractor cannot handle.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file extension: %s (only .docx and .txt are accepted)", e.Ext)
}

// ExtractionError wraps a failure while converting document bytes to structure.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %s", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extract converts raw document bytes into a structured Document plus the
// number of text-bearing sections found. Fails with *UnsupportedFormatError
// for unknown extensions and *ExtractionError for conversion failures.
func Extract(data []byte, filename string) (*docmodel.Document, int, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		doc *docmodel.Document
		err error
	)
	switch ext {
	case ".docx":
		doc, err = extractDOCX(data, filename)
	case ".txt":
		doc, err = extractText(data, filename)
	default:
		return nil, 0, &UnsupportedFormatError{Ext: ext}
	}
	if err != nil {
		return nil, 0, &ExtractionError{Filename: filename, Err: err}
	}
	return doc, doc.SectionCount(), nil
}
