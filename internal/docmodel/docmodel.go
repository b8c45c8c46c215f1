package docmodel

// Document is the structured form of an extracted acta.
type Document struct {
	Title    string     // Document title (from metadata or filename)
	Sections []*Section // Top-level sections
}

// Section is a recursive structural unit of the document.
type Section struct {
	Title    string     // Section heading (empty for plain paragraphs)
	Text     string     // Text content of this section (may be empty for containers)
	Children []*Section // Subsections
}

// Chunk is a token-bounded contiguous slice of document content.
// Index determines ordering through the rest of the pipeline.
type Chunk struct {
	Text       string `json:"text"`
	TokenCount int    `json:"token_count"`
	Index      int    `json:"index"`
}

// SectionCount walks the tree and counts sections carrying text. The
// extraction layer reports it in place of a page count, which neither
// input format reliably provides.
func (d *Document) SectionCount() int {
	n := 0
	var walk func(secs []*Section)
	walk = func(secs []*Section) {
		for _, s := range secs {
			if s.Text != "" {
				n++
			}
			walk(s.Children)
		}
	}
	walk(d.Sections)
	return n
}
