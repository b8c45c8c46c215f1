package extract

import (
	"errors"
	"testing"
)

func TestExtract_UnsupportedExtension(t *testing.T) {
	for _, name := range []string{"acta.pdf", "acta.md", "acta.html", "acta"} {
		_, _, err := Extract([]byte("contenido"), name)
		var unsupported *UnsupportedFormatError
		if !errors.As(err, &unsupported) {
			t.Errorf("%s: expected UnsupportedFormatError, got %v", name, err)
		}
	}
}

func TestIsSupportedExtension(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"acta.docx", true},
		{"ACTA.DOCX", true},
		{"acta.txt", true},
		{"acta.pdf", false},
		{"acta.doc", false},
		{"acta", false},
	}
	for _, tc := range cases {
		if got := IsSupportedExtension(tc.name); got != tc.want {
			t.Errorf("IsSupportedExtension(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestExtract_PlainTextParagraphs(t *testing.T) {
	data := []byte("Primer párrafo del acta.\ncontinúa en otra línea.\n\nSegundo párrafo.\n\n\nTercer párrafo.")

	doc, sections, err := Extract(data, "sesion-42.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "sesion-42" {
		t.Errorf("expected title from filename, got %q", doc.Title)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}
	if sections != 3 {
		t.Errorf("expected section count 3, got %d", sections)
	}
	if doc.Sections[0].Text != "Primer párrafo del acta.\ncontinúa en otra línea." {
		t.Errorf("unexpected first paragraph: %q", doc.Sections[0].Text)
	}
	if doc.Sections[2].Text != "Tercer párrafo." {
		t.Errorf("unexpected third paragraph: %q", doc.Sections[2].Text)
	}
}

func TestExtract_EmptyTextFile(t *testing.T) {
	doc, sections, err := Extract([]byte("   \n \n"), "vacio.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 0 || sections != 0 {
		t.Errorf("expected no sections, got %d", len(doc.Sections))
	}
}

func TestExtract_CorruptDOCX(t *testing.T) {
	_, _, err := Extract([]byte("this is not a zip archive"), "roto.docx")
	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if extractErr.Filename != "roto.docx" {
		t.Errorf("expected filename in error, got %q", extractErr.Filename)
	}
	if extractErr.Unwrap() == nil {
		t.Error("expected wrapped cause")
	}
}

func TestBuildFromMarkdown_NestedHeadings(t *testing.T) {
	src := []byte(`# Orden del día

Texto introductorio.

## Asuntos financieros

Discusión del presupuesto.

### Detalle

Partidas específicas.

## Asuntos varios

Cierre de la sesión.
`)

	doc := buildFromMarkdown(src, "acta")

	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 top-level section, got %d", len(doc.Sections))
	}
	top := doc.Sections[0]
	if top.Title != "Orden del día" {
		t.Errorf("unexpected top title: %q", top.Title)
	}
	if top.Text != "Texto introductorio." {
		t.Errorf("unexpected top text: %q", top.Text)
	}
	if len(top.Children) != 2 {
		t.Fatalf("expected 2 subsections, got %d", len(top.Children))
	}
	fin := top.Children[0]
	if fin.Title != "Asuntos financieros" || fin.Text != "Discusión del presupuesto." {
		t.Errorf("unexpected subsection: %+v", fin)
	}
	if len(fin.Children) != 1 || fin.Children[0].Title != "Detalle" {
		t.Fatalf("expected nested h3 under h2, got %+v", fin.Children)
	}
	if top.Children[1].Title != "Asuntos varios" {
		t.Errorf("unexpected second subsection: %q", top.Children[1].Title)
	}
}

func TestBuildFromMarkdown_SiblingHeadingsPopStack(t *testing.T) {
	src := []byte("## Uno\n\ntexto uno\n\n## Dos\n\ntexto dos\n")

	doc := buildFromMarkdown(src, "acta")

	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sibling sections, got %d", len(doc.Sections))
	}
	if doc.Sections[0].Title != "Uno" || doc.Sections[1].Title != "Dos" {
		t.Errorf("unexpected titles: %q, %q", doc.Sections[0].Title, doc.Sections[1].Title)
	}
	if len(doc.Sections[0].Children) != 0 {
		t.Errorf("sibling heading must not nest, got %d children", len(doc.Sections[0].Children))
	}
}

func TestBuildFromMarkdown_NoHeadings(t *testing.T) {
	doc := buildFromMarkdown([]byte("solo texto plano\n\nsegundo párrafo"), "acta")

	if len(doc.Sections) != 1 {
		t.Fatalf("expected single catch-all section, got %d", len(doc.Sections))
	}
	if doc.Sections[0].Title != "" {
		t.Errorf("catch-all section must be untitled, got %q", doc.Sections[0].Title)
	}
	if doc.Sections[0].Text == "" {
		t.Error("expected text content")
	}
}
