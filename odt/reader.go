// Package odt builds grid tables from ODT (OpenDocument Text) documents.
//
// Every table:table in content.xml becomes a model.Table:
// number-columns-spanned and number-rows-spanned give the cell's size and
// covered-table-cell elements mark the slots a span hides. Body paragraphs,
// headings and list items become paragraph blocks.
package odt

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

// ErrNotODT is returned when the archive has no content.xml.
var ErrNotODT = errors.New("odt: missing content.xml")

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

// Reader provides access to the tables and text of an ODT document. The
// document is built when the Reader is opened.
type Reader struct {
	document *model.Document
}

// Open opens an ODT file with DefaultOptions.
func Open(filename string) (*Reader, error) {
	return OpenWithOptions(filename, DefaultOptions())
}

// OpenWithOptions opens an ODT file.
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

// OpenReader reads an ODT document of the given size with DefaultOptions.
func OpenReader(ra io.ReaderAt, size int64) (*Reader, error) {
	return OpenReaderWithOptions(ra, size, DefaultOptions())
}

// OpenReaderWithOptions reads an ODT document of the given size.
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

// archive is an opened ODF package.
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
	data, err := a.read("content.xml")
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrNotODT
	}

	var content contentXML
	if err := xml.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("unmarshaling content.xml: %w", err)
	}

	doc := model.NewDocument()
	a.readMetadata(doc)

	styles := newStyleResolver(append(a.namedStyles(), content.AutoStyles)...)
	tables := &tableParser{styles: styles, fillGaps: opts.FillGaps}
	if content.Body == nil || content.Body.Text == nil {
		return doc, nil
	}

	for _, el := range content.Body.Text.Elements {
		switch {
		case el.Paragraph != nil:
			for _, p := range convertParagraph(*el.Paragraph, styles) {
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

// namedStyles returns the style lists of styles.xml. The part is optional
// and a malformed one is ignored.
func (a *archive) namedStyles() []styleListXML {
	data, err := a.read("styles.xml")
	if err != nil || data == nil {
		return nil
	}
	var styles stylesXML
	if xml.Unmarshal(data, &styles) != nil {
		return nil
	}
	return []styleListXML{styles.Styles, styles.AutoStyles}
}

// readMetadata copies meta.xml into doc. The part is optional and
// malformed metadata is ignored.
func (a *archive) readMetadata(doc *model.Document) {
	data, err := a.read("meta.xml")
	if err != nil || data == nil {
		return
	}
	var meta metaXML
	if xml.Unmarshal(data, &meta) != nil {
		return
	}

	m := meta.Meta
	doc.Metadata.Title = strings.TrimSpace(m.Title)
	author := m.InitialCreator
	if author == "" {
		author = m.Creator
	}
	for key, v := range map[string]string{
		"author":   author,
		"subject":  m.Subject,
		"keywords": strings.Join(m.Keywords, ", "),
	} {
		if v = strings.TrimSpace(v); v != "" {
			doc.Metadata.Custom[key] = v
		}
	}
}
