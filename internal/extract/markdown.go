package extract

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dmoralesc/actalyzer/internal/docmodel"
)

// buildFromMarkdown parses markdown into a Document, nesting sections by
// heading level.
func buildFromMarkdown(src []byte, title string) *docmodel.Document {
	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	out := &docmodel.Document{Title: title}

	// Walk the AST with a stack tracking the current heading nesting.
	type stackEntry struct {
		node  *docmodel.Section
		level int
	}

	// Root is level 0 — all h1+ nest under it.
	root := &docmodel.Section{Title: title}
	stack := []stackEntry{{node: root, level: 0}}

	var currentText bytes.Buffer

	flushText := func() {
		t := strings.TrimSpace(currentText.String())
		if t != "" {
			top := stack[len(stack)-1].node
			if top.Text != "" {
				top.Text += "\n\n" + t
			} else {
				top.Text = t
			}
		}
		currentText.Reset()
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			flushText()
			level := node.Level
			heading := string(node.Text(src))

			sec := &docmodel.Section{Title: heading}

			// Pop until we find a parent with a lower level.
			for len(stack) > 1 && stack[len(stack)-1].level >= level {
				stack = stack[:len(stack)-1]
			}

			parent := stack[len(stack)-1].node
			parent.Children = append(parent.Children, sec)
			stack = append(stack, stackEntry{node: sec, level: level})

		default:
			t := markdownText(n, src)
			if t != "" {
				if currentText.Len() > 0 {
					currentText.WriteString("\n\n")
				}
				currentText.WriteString(t)
			}
		}
	}
	flushText()

	out.Sections = root.Children
	// If there were no headings, put all text in a single section.
	if len(out.Sections) == 0 && root.Text != "" {
		out.Sections = []*docmodel.Section{{Text: root.Text}}
	}

	return out
}

// markdownText gets the text content of a goldmark AST node.
func markdownText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	// Also handle inline children.
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(markdownText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
