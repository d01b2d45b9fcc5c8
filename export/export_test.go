package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dolphindoc/docgrid/model"
)

// mergedTable is a 2x2 table whose top row is one merged cell.
func mergedTable(t *testing.T) *model.Table {
	t.Helper()
	table, err := model.NewTable(2, 2)
	if err != nil {
		t.Fatalf("NewTable() failed: %v", err)
	}
	add := func(rect model.Rect, text string, seg *model.TextSegment) {
		c := model.NewCell(rect)
		p := model.NewTextParagraph(text)
		if seg != nil {
			p.AppendSegment(*seg)
		}
		if err := c.AppendParagraph(p); err != nil {
			t.Fatalf("AppendParagraph() failed: %v", err)
		}
		if err := table.AddCell(c); err != nil {
			t.Fatalf("AddCell() failed: %v", err)
		}
	}
	add(model.NewRect(0, 0, 2, 1), "A", &model.TextSegment{Text: " bold", Bold: true})
	add(model.NewRect(0, 1, 1, 1), "b", &model.TextSegment{Text: "link", Link: "https://example.com"})
	add(model.NewRect(1, 1, 1, 1), "c", nil)
	return table
}

func sampleDocument(t *testing.T) *model.Document {
	t.Helper()
	doc := model.NewDocument()
	doc.Metadata.Title = "Report"
	doc.Metadata.Source = "report.html"
	doc.Metadata.Custom["author"] = "someone"
	doc.AddBlock(model.NewTextParagraph("Intro"))
	doc.AddBlock(mergedTable(t))
	return doc
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"msgpack", FormatMsgPack, false},
		{"mpk", FormatMsgPack, false},
		{"markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{" csv ", FormatCSV, false},
		{"grid", FormatGrid, false},
		{"xml", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
			}
			if back, _ := ParseFormat(got.String()); back != got {
				t.Errorf("ParseFormat(%q.String()) = %v", got, back)
			}
		})
	}
}

func TestFormat_FileExtension(t *testing.T) {
	tests := []struct {
		f    Format
		want string
	}{
		{FormatJSON, ".json"},
		{FormatMsgPack, ".msgpack"},
		{FormatMarkdown, ".md"},
		{FormatCSV, ".csv"},
		{FormatGrid, ".txt"},
	}
	for _, tt := range tests {
		if got := tt.f.FileExtension(); got != tt.want {
			t.Errorf("%v.FileExtension() = %q, want %q", tt.f, got, tt.want)
		}
	}
}

func TestWriteTables_JSON(t *testing.T) {
	table, _ := model.NewTable(1, 1)
	c := model.NewCell(model.NewRect(0, 0, 1, 1))
	_ = c.AppendParagraph(model.NewTextParagraph("x"))
	if err := table.AddCell(c); err != nil {
		t.Fatalf("AddCell() failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteTables(&buf, []*model.Table{table}, DefaultConfig()); err != nil {
		t.Fatalf("WriteTables() failed: %v", err)
	}

	want := `[{"type":"table","cells":[{"type":"cell","rect":{"left":0,"top":0,"width":1,"height":1},` +
		`"paragraphs":[{"type":"paragraph","segments":[{"text":"x"}]}]}]}]` + "\n"
	if buf.String() != want {
		t.Errorf("WriteTables() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteTables_Pretty(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Format: FormatJSON, Pretty: true}
	if err := WriteTables(&buf, []*model.Table{mergedTable(t)}, cfg); err != nil {
		t.Fatalf("WriteTables() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  {\n    \"type\": \"table\"") {
		t.Errorf("pretty output not indented:\n%s", buf.String())
	}
}

func TestWriteTables_Text(t *testing.T) {
	tables := []*model.Table{mergedTable(t), mergedTable(t)}

	tests := []struct {
		name   string
		format Format
		want   string
	}{
		{
			name:   "markdown",
			format: FormatMarkdown,
			want: "| A bold |  |\n| --- | --- |\n| blink | c |\n" +
				"\n" +
				"| A bold |  |\n| --- | --- |\n| blink | c |\n",
		},
		{
			name:   "csv",
			format: FormatCSV,
			want:   "A bold,\nblink,c\n\nA bold,\nblink,c\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteTables(&buf, tables, Config{Format: tt.format}); err != nil {
				t.Fatalf("WriteTables() failed: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("WriteTables() =\n%q\nwant\n%q", buf.String(), tt.want)
			}
		})
	}
}

func TestWriteTables_Grid(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Format: FormatGrid, MaxCellWidth: 3}
	if err := WriteTables(&buf, []*model.Table{mergedTable(t)}, cfg); err != nil {
		t.Fatalf("WriteTables() failed: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("grid has %d lines, want 5:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "┌") || !strings.HasPrefix(lines[4], "└") {
		t.Errorf("grid not boxed:\n%s", buf.String())
	}
}

func TestWriteTables_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTables(&buf, nil, Config{Format: Format(42)}); err == nil {
		t.Error("WriteTables() expected error for unknown format")
	}
}

func TestWriteDocument_Markdown(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDocument(&buf, sampleDocument(t), Config{Format: FormatMarkdown}); err != nil {
		t.Fatalf("WriteDocument() failed: %v", err)
	}
	want := "# Report\n\nIntro\n\n| A bold |  |\n| --- | --- |\n| blink | c |\n"
	if buf.String() != want {
		t.Errorf("WriteDocument() =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestWriteDocument_CSVSkipsParagraphs(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDocument(&buf, sampleDocument(t), Config{Format: FormatCSV}); err != nil {
		t.Fatalf("WriteDocument() failed: %v", err)
	}
	if strings.Contains(buf.String(), "Intro") {
		t.Errorf("CSV output contains paragraph text: %q", buf.String())
	}
}

func TestReadDocument_RoundTrip(t *testing.T) {
	var want bytes.Buffer
	doc := sampleDocument(t)
	if err := WriteDocument(&want, doc, DefaultConfig()); err != nil {
		t.Fatalf("WriteDocument() failed: %v", err)
	}

	for _, f := range []Format{FormatJSON, FormatMsgPack} {
		t.Run(f.String(), func(t *testing.T) {
			var encoded bytes.Buffer
			if err := WriteDocument(&encoded, doc, Config{Format: f}); err != nil {
				t.Fatalf("WriteDocument() failed: %v", err)
			}

			got, err := ReadDocument(&encoded, f)
			if err != nil {
				t.Fatalf("ReadDocument() failed: %v", err)
			}

			var again bytes.Buffer
			if err := WriteDocument(&again, got, DefaultConfig()); err != nil {
				t.Fatalf("WriteDocument() failed: %v", err)
			}
			if again.String() != want.String() {
				t.Errorf("round trip =\n%s\nwant\n%s", again.String(), want.String())
			}

			tables := got.Tables()
			if len(tables) != 1 || !tables[0].ReadyToMove() {
				t.Fatalf("tables = %v, want one ready table", tables)
			}
			segs := tables[0].CellAt(0, 0).Paragraphs()[0].Segments()
			if len(segs) != 2 || !segs[1].Bold {
				t.Errorf("segments = %+v, want bold second segment", segs)
			}
		})
	}
}

func TestReadDocument_TableRecords(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatMsgPack} {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			tables := []*model.Table{mergedTable(t), mergedTable(t)}
			if err := WriteTables(&buf, tables, Config{Format: f}); err != nil {
				t.Fatalf("WriteTables() failed: %v", err)
			}

			doc, err := ReadDocument(&buf, f)
			if err != nil {
				t.Fatalf("ReadDocument() failed: %v", err)
			}
			if got := len(doc.Tables()); got != 2 {
				t.Errorf("tables = %d, want 2", got)
			}
		})
	}
}

func TestReadDocument_SingleTable(t *testing.T) {
	in := `{"type":"table","cells":[{"type":"cell","rect":{"left":0,"top":0,"width":2,"height":1},` +
		`"paragraphs":[]}]}`
	doc, err := ReadDocument(strings.NewReader(in), FormatJSON)
	if err != nil {
		t.Fatalf("ReadDocument() failed: %v", err)
	}
	tables := doc.Tables()
	if len(tables) != 1 || tables[0].Rows() != 1 || tables[0].Cols() != 2 {
		t.Fatalf("tables = %v, want one 1x2 table", tables)
	}
}

func TestReadDocument_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		format  Format
		wantErr error
	}{
		{"unknown block", `{"type":"document","blocks":[{"type":"image"}]}`, FormatJSON, model.ErrRecordType},
		{"wrong document type", `{"type":"sheet"}`, FormatJSON, model.ErrRecordType},
		{
			"overlapping cells",
			`[{"type":"table","cells":[` +
				`{"type":"cell","rect":{"left":0,"top":0,"width":2,"height":1}},` +
				`{"type":"cell","rect":{"left":1,"top":0,"width":1,"height":1}}]}]`,
			FormatJSON, model.ErrOccupied,
		},
		{
			"oversized table",
			`{"type":"table","cells":[{"type":"cell","rect":{"left":19999999,"top":4,"width":1,"height":1}}]}`,
			FormatJSON, model.ErrTableTooLarge,
		},
		{
			"oversized document table",
			`{"type":"document","blocks":[{"type":"table","cells":[` +
				`{"type":"cell","rect":{"left":0,"top":0,"width":3000,"height":3000}}]}]}`,
			FormatJSON, model.ErrTableTooLarge,
		},
		{"text format", "a,b\n", FormatCSV, ErrNotReadable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDocument(strings.NewReader(tt.in), tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := ReadDocument(strings.NewReader("{not json"), FormatJSON); err == nil {
		t.Error("ReadDocument() expected error for malformed JSON")
	}
}
