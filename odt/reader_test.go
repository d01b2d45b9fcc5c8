package odt

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dolphindoc/docgrid/model"
)

const contentHeader = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content
  xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0"
  xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0"
  xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"
  xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0"
  xmlns:xlink="http://www.w3.org/1999/xlink">`

// buildODT zips an ODT package. A content.xml holding the automatic styles
// and the office:text body is added unless body is empty.
func buildODT(t *testing.T, autoStyles, body string, parts map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip Create(%s) failed: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip Write(%s) failed: %v", name, err)
		}
	}

	write("mimetype", "application/vnd.oasis.opendocument.text")
	if body != "" {
		write("content.xml", contentHeader+
			`<office:automatic-styles>`+autoStyles+`</office:automatic-styles>`+
			`<office:body><office:text>`+body+`</office:text></office:body>`+
			`</office:document-content>`)
	}
	for name, content := range parts {
		write(name, content)
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("zip Close() failed: %v", err)
	}
	return buf.Bytes()
}

// createTestODT writes an ODT with the given body to a temp file.
func createTestODT(t *testing.T, autoStyles, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.odt")
	if err := os.WriteFile(path, buildODT(t, autoStyles, body, nil), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}

func paragraphsOf(t *testing.T, autoStyles, body string) []*model.TextParagraph {
	t.Helper()
	r, err := Open(createTestODT(t, autoStyles, body))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer r.Close()
	return r.Document().Paragraphs()
}

func TestOpen(t *testing.T) {
	path := createTestODT(t, "", `<text:p>Hello World</text:p>`)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer r.Close()

	doc := r.Document()
	if doc.Metadata.Source != path {
		t.Errorf("Source = %q, want %q", doc.Metadata.Source, path)
	}
	paras := doc.Paragraphs()
	if len(paras) != 1 || paras[0].Text() != "Hello World" {
		t.Errorf("Paragraphs() = %v, want [Hello World]", paras)
	}
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()
	noContent := filepath.Join(dir, "empty.odt")
	if err := os.WriteFile(noContent, buildODT(t, "", "", nil), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	notZip := filepath.Join(dir, "bad.odt")
	if err := os.WriteFile(notZip, []byte("not a zip file"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	if _, err := Open(noContent); !errors.Is(err, ErrNotODT) {
		t.Errorf("Open(no content.xml) error = %v, want ErrNotODT", err)
	}
	if _, err := Open(notZip); err == nil {
		t.Error("Open() expected error for invalid zip")
	}
	if _, err := Open(filepath.Join(dir, "missing.odt")); err == nil {
		t.Error("Open() expected error for nonexistent file")
	}
}

func TestOpenReader(t *testing.T) {
	data := buildODT(t, "", `<text:p>from memory</text:p>`, nil)

	r, err := OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}
	doc := r.Document()
	if doc.Metadata.Source != "" {
		t.Errorf("Source = %q, want empty for readers", doc.Metadata.Source)
	}
	if paras := doc.Paragraphs(); len(paras) != 1 || paras[0].Text() != "from memory" {
		t.Errorf("Paragraphs() = %v", paras)
	}
}

func TestMetadata(t *testing.T) {
	meta := `<?xml version="1.0" encoding="UTF-8"?>
<office:document-meta xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:meta="urn:oasis:names:tc:opendocument:xmlns:meta:1.0"
  xmlns:dc="http://purl.org/dc/elements/1.1/">
  <office:meta>
    <dc:title>Quarterly Report</dc:title>
    <dc:subject>Sales</dc:subject>
    <dc:creator>Editor</dc:creator>
    <meta:initial-creator>Author</meta:initial-creator>
    <meta:keyword>tables</meta:keyword>
    <meta:keyword>merges</meta:keyword>
  </office:meta>
</office:document-meta>`
	data := buildODT(t, "", `<text:p>x</text:p>`, map[string]string{"meta.xml": meta})

	r, err := OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}
	md := r.Document().Metadata
	if md.Title != "Quarterly Report" {
		t.Errorf("Title = %q, want Quarterly Report", md.Title)
	}
	want := map[string]string{"author": "Author", "subject": "Sales", "keywords": "tables, merges"}
	for k, v := range want {
		if md.Custom[k] != v {
			t.Errorf("Custom[%q] = %q, want %q", k, md.Custom[k], v)
		}
	}
}

func TestParagraphs_Text(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"heading and paragraph", `<text:h text:outline-level="1">Title</text:h><text:p>Body</text:p>`, []string{"Title", "Body"}},
		{"spans", `<text:p>Hello <text:span>big</text:span> world</text:p>`, []string{"Hello big world"}},
		{"collapsed white space", "<text:p>  a \n\t b  </text:p>", []string{"a b"}},
		{"explicit spaces", `<text:p>a<text:s text:c="3"/>b</text:p>`, []string{"a   b"}},
		{"tab", `<text:p>a<text:tab/>b</text:p>`, []string{"a\tb"}},
		{"line break", `<text:p>one<text:line-break/>two</text:p>`, []string{"one", "two"}},
		{"empty dropped", `<text:p/><text:p> </text:p><text:p>kept</text:p>`, []string{"kept"}},
		{
			"nested lists",
			`<text:list><text:list-item><text:p>one</text:p>` +
				`<text:list><text:list-item><text:p>one.a</text:p></text:list-item></text:list>` +
				`</text:list-item><text:list-item><text:p>two</text:p></text:list-item></text:list>`,
			[]string{"one", "one.a", "two"},
		},
		{"section", `<text:section><text:p>inside</text:p></text:section><text:p>after</text:p>`, []string{"inside", "after"}},
		{"note skipped", `<text:p>text<text:note><text:note-body><text:p>note</text:p></text:note-body></text:note></text:p>`, []string{"text"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paras := paragraphsOf(t, "", tt.body)
			if len(paras) != len(tt.want) {
				t.Fatalf("got %d paragraphs %v, want %d", len(paras), paras, len(tt.want))
			}
			for i, w := range tt.want {
				if got := paras[i].Text(); got != w {
					t.Errorf("paragraph %d = %q, want %q", i, got, w)
				}
			}
		})
	}
}

func TestParagraphs_Styles(t *testing.T) {
	named := `<?xml version="1.0" encoding="UTF-8"?>
<office:document-styles xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0"
  xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0">
  <office:styles>
    <style:style style:name="Strong" style:family="text">
      <style:text-properties fo:font-weight="bold"/>
    </style:style>
  </office:styles>
</office:document-styles>`
	auto := `<style:style style:name="T1" style:family="text" style:parent-style-name="Strong"/>` +
		`<style:style style:name="T2" style:family="text"><style:text-properties fo:font-style="italic"/></style:style>` +
		`<style:style style:name="P1" style:family="paragraph"><style:text-properties fo:font-weight="bold"/></style:style>` +
		`<style:style style:name="T3" style:family="text"><style:text-properties fo:font-weight="normal"/></style:style>`
	body := `<text:p>plain <text:span text:style-name="T1">bold</text:span> <text:span text:style-name="T2">italic</text:span></text:p>` +
		`<text:p text:style-name="P1">strong <text:span text:style-name="T3">normal</text:span></text:p>` +
		`<text:p><text:a xlink:href="https://example.com">link</text:a></text:p>`

	data := buildODT(t, auto, body, map[string]string{"styles.xml": named})
	r, err := OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}
	paras := r.Document().Paragraphs()
	if len(paras) != 3 {
		t.Fatalf("got %d paragraphs, want 3", len(paras))
	}

	want := [][]model.TextSegment{
		{{Text: "plain "}, {Text: "bold", Bold: true}, {Text: " "}, {Text: "italic", Italic: true}},
		{{Text: "strong ", Bold: true}, {Text: "normal"}},
		{{Text: "link", Link: "https://example.com"}},
	}
	for i, w := range want {
		got := paras[i].Segments()
		if len(got) != len(w) {
			t.Fatalf("paragraph %d segments = %+v, want %+v", i, got, w)
		}
		for j := range w {
			if got[j] != w[j] {
				t.Errorf("paragraph %d segment %d = %+v, want %+v", i, j, got[j], w[j])
			}
		}
	}
}

func TestDocument_Order(t *testing.T) {
	body := `<text:p>before</text:p>` +
		`<table:table><table:table-row><table:table-cell><text:p>cell</text:p></table:table-cell></table:table-row></table:table>` +
		`<text:p>after</text:p>`

	r, err := Open(createTestODT(t, "", body))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	blocks := r.Document().Blocks
	want := []model.BlockKind{model.BlockParagraph, model.BlockTable, model.BlockParagraph}
	if len(blocks) != len(want) {
		t.Fatalf("Blocks len = %d, want %d", len(blocks), len(want))
	}
	for i, k := range want {
		if blocks[i].Kind() != k {
			t.Errorf("block %d = %v, want %v", i, blocks[i].Kind(), k)
		}
	}
}
