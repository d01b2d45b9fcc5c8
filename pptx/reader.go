// Package pptx builds grid tables from PPTX (Office Open XML Presentation)
// documents.
//
// Slides are read in presentation order. Every a:tbl in a graphic frame
// becomes a model.Table: gridSpan and rowSpan give the cell's size and
// hMerge or vMerge mark the slots a span hides. Text shapes become
// paragraph blocks.
package pptx

import (
	"archive/zip"
	"cmp"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/dolphindoc/docgrid/model"
)

// ErrNotPPTX is returned when the archive has no ppt/presentation.xml.
var ErrNotPPTX = errors.New("pptx: missing ppt/presentation.xml")

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

// Reader provides access to the tables and text of a PPTX presentation.
// The document is built when the Reader is opened.
type Reader struct {
	document *model.Document
}

// Open opens a PPTX file with DefaultOptions.
func Open(filename string) (*Reader, error) {
	return OpenWithOptions(filename, DefaultOptions())
}

// OpenWithOptions opens a PPTX file.
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

// OpenReader reads a PPTX presentation of the given size with
// DefaultOptions.
func OpenReader(ra io.ReaderAt, size int64) (*Reader, error) {
	return OpenReaderWithOptions(ra, size, DefaultOptions())
}

// OpenReaderWithOptions reads a PPTX presentation of the given size.
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

// Document returns the parsed presentation: paragraphs and tables of every
// slide in order.
func (r *Reader) Document() *model.Document {
	return r.document
}

// Tables returns the tables of every slide in order.
func (r *Reader) Tables() []*model.Table {
	return r.document.Tables()
}

// archive is an opened PPTX package.
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
	data, err := a.read("ppt/presentation.xml")
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrNotPPTX
	}

	var pres presentationXML
	if err := xml.Unmarshal(data, &pres); err != nil {
		return nil, fmt.Errorf("unmarshaling presentation.xml: %w", err)
	}

	doc := model.NewDocument()
	a.readCoreProperties(doc)

	slides := a.slideOrder(&pres)
	doc.Metadata.Custom["slides"] = strconv.Itoa(len(slides))

	tables := &tableParser{fillGaps: opts.FillGaps}
	for _, name := range slides {
		if err := a.readSlide(doc, name, tables); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// readSlide appends the text shapes and tables of one slide to doc.
func (a *archive) readSlide(doc *model.Document, name string, tables *tableParser) error {
	data, err := a.read(name)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}

	var slide slideXML
	if err := xml.Unmarshal(data, &slide); err != nil {
		return fmt.Errorf("unmarshaling %s: %w", name, err)
	}

	links := a.hyperlinkTargets(path.Join(path.Dir(name), "_rels", path.Base(name)+".rels"))
	for _, shape := range slide.CSld.SpTree.Shapes {
		switch {
		case shape.Text != nil:
			for _, p := range shape.Text.P {
				for _, para := range convertParagraph(p, links) {
					doc.AddBlock(para)
				}
			}
		case shape.Table != nil:
			t, err := tables.parse(shape.Table, links)
			if err != nil {
				return err
			}
			if t != nil {
				doc.AddBlock(t)
			}
		}
	}
	return nil
}

// slideOrder returns the slide part names in presentation order. Without a
// usable slide list the slide parts are ordered by their number.
func (a *archive) slideOrder(pres *presentationXML) []string {
	rels := a.relationships("ppt/_rels/presentation.xml.rels")

	var names []string
	if pres.SlideIdList != nil {
		for _, id := range pres.SlideIdList.SlideId {
			target, ok := rels[id.RID]
			if !ok {
				continue
			}
			name := path.Join("ppt", target)
			if abs, ok := strings.CutPrefix(target, "/"); ok {
				name = path.Clean(abs)
			}
			if _, ok := a.files[name]; ok {
				names = append(names, name)
			}
		}
	}
	if len(names) > 0 {
		return names
	}

	for name := range a.files {
		if slideNumber(name) > 0 {
			names = append(names, name)
		}
	}
	slices.SortFunc(names, func(x, y string) int {
		return cmp.Compare(slideNumber(x), slideNumber(y))
	})
	return names
}

// slideNumber extracts N from "ppt/slides/slideN.xml", or returns 0.
func slideNumber(name string) int {
	rest, ok := strings.CutPrefix(name, "ppt/slides/slide")
	if !ok {
		return 0
	}
	rest, ok = strings.CutSuffix(rest, ".xml")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// relationships maps relationship IDs to targets for one .rels part.
func (a *archive) relationships(name string) map[string]string {
	out := make(map[string]string)
	data, err := a.read(name)
	if err != nil || data == nil {
		return out
	}
	var rels relationshipsXML
	if xml.Unmarshal(data, &rels) != nil {
		return out
	}
	for _, rel := range rels.Relationship {
		out[rel.ID] = rel.Target
	}
	return out
}

// hyperlinkTargets maps relationship IDs to external targets for a slide.
func (a *archive) hyperlinkTargets(name string) map[string]string {
	links := make(map[string]string)
	data, err := a.read(name)
	if err != nil || data == nil {
		return links
	}
	var rels relationshipsXML
	if xml.Unmarshal(data, &rels) != nil {
		return links
	}
	for _, rel := range rels.Relationship {
		if rel.TargetMode == "External" || strings.HasSuffix(rel.Type, "/hyperlink") {
			links[rel.ID] = rel.Target
		}
	}
	return links
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
