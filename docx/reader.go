// Package docx builds grid tables from DOCX (Office Open XML) documents.
//
// Every w:tbl in word/document.xml becomes a model.Table: w:gridSpan gives
// column spans, w:vMerge extends a cell downwards and w:gridBefore shifts
// the first cell of a row. Body paragraphs become paragraph blocks.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dolphindoc/docgrid/model"
)

// ErrNotDOCX is returned when the archive has no word/document.xml.
var ErrNotDOCX = errors.New("docx: missing word/document.xml")

// Options configures table extraction.
type Options struct {
	// FillGaps pads ragged rows with empty 1x1 cells so every table is
	// ready for navigation.
	FillGaps bool
}

// DefaultOptions returns options with gap filling on.
func DefaultOptions() Options {
	return Options{FillGaps: true}
}

// Reader provides access to the tables and text of a DOCX document. The
// document is built when the Reader is opened.
type Reader struct {
	document *model.Document
}

// Open opens a DOCX file with DefaultOptions.
func Open(filename string) (*Reader, error) {
	return OpenWithOptions(filename, DefaultOptions())
}

// OpenWithOptions opens a DOCX file.
func OpenWithOptions(filename string, opts Options) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	r, err := OpenReaderWithOptions(f, info.Size(), opts)
	if err != nil {
		return nil, err
	}
	r.document.Metadata.Source = filename
	return r, nil
}

// OpenReader reads a DOCX document of the given size with DefaultOptions.
func OpenReader(ra io.ReaderAt, size int64) (*Reader, error) {
	return OpenReaderWithOptions(ra, size, DefaultOptions())
}

// OpenReaderWithOptions reads a DOCX document of the given size.
func OpenReaderWithOptions(ra io.ReaderAt, size int64, opts Options) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	pkg := &archive{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		pkg.files[f.Name] = f
	}

	doc, err := pkg.build(opts)
	if err != nil {
		return nil, err
	}
	return &Reader{document: doc}, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	// The archive is fully read at open time
	return nil
}

// Document returns the parsed document: paragraphs and tables in order.
func (r *Reader) Document() *model.Document {
	return r.document
}

// Tables returns the document's tables, each outer table followed by the
// tables nested in its cells.
func (r *Reader) Tables() []*model.Table {
	return r.document.Tables()
}

// archive is an opened DOCX package.
type archive struct {
	files map[string]*zip.File
}

// read returns the content of a part, or nil if the part does not exist.
func (a *archive) read(name string) ([]byte, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

func (a *archive) build(opts Options) (*model.Document, error) {
	data, err := a.read("word/document.xml")
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrNotDOCX
	}

	var body documentXML
	if err := xml.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("unmarshaling document.xml: %w", err)
	}

	doc := model.NewDocument()
	a.readCoreProperties(doc)

	tables := &tableParser{links: a.hyperlinkTargets(), fillGaps: opts.FillGaps}
	if body.Body == nil {
		return doc, nil
	}

	for _, el := range body.Body.Elements {
		switch {
		case el.Paragraph != nil:
			for _, p := range convertParagraph(*el.Paragraph, tables.links) {
				doc.AddBlock(p)
			}
		case el.Table != nil:
			built, err := tables.parse(*el.Table)
			if err != nil {
				return nil, err
			}
			for _, t := range built {
				doc.AddBlock(t)
			}
		}
	}
	return doc, nil
}

// readCoreProperties copies Dublin Core metadata into doc. The part is
// optional and malformed metadata is ignored.
func (a *archive) readCoreProperties(doc *model.Document) {
	data, err := a.read("docProps/core.xml")
	if err != nil || data == nil {
		return
	}
	var props corePropertiesXML
	if xml.Unmarshal(data, &props) != nil {
		return
	}
	doc.Metadata.Title = props.Title
	for key, v := range map[string]string{
		"author":   props.Creator,
		"subject":  props.Subject,
		"keywords": props.Keywords,
	} {
		if v != "" {
			doc.Metadata.Custom[key] = v
		}
	}
}

// hyperlinkTargets maps relationship IDs to their targets.
func (a *archive) hyperlinkTargets() map[string]string {
	links := make(map[string]string)
	data, err := a.read("word/_rels/document.xml.rels")
	if err != nil || data == nil {
		return links
	}
	var rels relationshipsXML
	if xml.Unmarshal(data, &rels) != nil {
		return links
	}
	for _, rel := range rels.Relationships {
		links[rel.ID] = rel.Target
	}
	return links
}

// convertParagraph turns a w:p into paragraphs, splitting at line breaks.
// Paragraphs without text are dropped.
func convertParagraph(p paragraphXML, links map[string]string) []*model.TextParagraph {
	var out []*model.TextParagraph
	cur := model.NewTextParagraph("")

	flush := func() {
		if strings.TrimSpace(cur.Text()) != "" {
			out = append(out, cur)
		}
		cur = model.NewTextParagraph("")
	}

	for _, in := range p.Inlines {
		seg := model.TextSegment{
			Bold:   in.Run.Properties.Bold.on(),
			Italic: in.Run.Properties.Italic.on(),
		}
		if h := in.Hyperlink; h != nil {
			switch {
			case h.ID != "":
				seg.Link = links[h.ID]
			case h.Anchor != "":
				seg.Link = "#" + h.Anchor
			}
		}

		for i, line := range strings.Split(in.Run.Text, "\n") {
			if i > 0 {
				flush()
			}
			if line != "" {
				seg.Text = line
				cur.AppendSegment(seg)
			}
		}
	}
	flush()
	return out
}
