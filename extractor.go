package docgrid

import (
	"errors"
	"fmt"
	"os"

	"github.com/dolphindoc/docgrid/docx"
	"github.com/dolphindoc/docgrid/export"
	"github.com/dolphindoc/docgrid/format"
	"github.com/dolphindoc/docgrid/htmldoc"
	"github.com/dolphindoc/docgrid/model"
	"github.com/dolphindoc/docgrid/odt"
	"github.com/dolphindoc/docgrid/pptx"
	"github.com/dolphindoc/docgrid/xlsx"
)

// ErrUnsupportedFormat is returned when the input format cannot be
// determined or has no reader.
var ErrUnsupportedFormat = errors.New("docgrid: unsupported file format")

// Extractor provides a fluent interface for extracting tables from HTML,
// XLSX, DOCX, PPTX, ODT and record files. Each configuration method returns
// a new Extractor instance, making it safe for concurrent use and allowing
// method chaining.
type Extractor struct {
	// Source
	filename string
	format   format.Format

	// Configuration
	options ExtractOptions
}

// clone creates a copy of the Extractor with a deep copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		format:   e.format,
		options:  e.options.clone(),
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Format overrides the format detected from the file extension.
// format.Unknown restores content sniffing.
//
// Example:
//
//	tables, _, err := docgrid.Open("export.txt").Format(format.JSON).Tables()
func (e *Extractor) Format(f format.Format) *Extractor {
	newExt := e.clone()
	newExt.format = f
	return newExt
}

// Strict makes overlapping HTML row and column spans fail with
// *model.OccupiedError instead of clipping the later cell.
func (e *Extractor) Strict() *Extractor {
	newExt := e.clone()
	newExt.options.strict = true
	return newExt
}

// NoFill leaves unoccupied coordinates empty. Tables with gaps are
// reported in warnings and cannot be navigated.
func (e *Extractor) NoFill() *Extractor {
	newExt := e.clone()
	newExt.options.noFill = true
	return newExt
}

// Sheets restricts XLSX extraction to the named sheets, in the given
// order. Multiple calls are cumulative.
//
// Example:
//
//	tables, _, err := docgrid.Open("book.xlsx").Sheets("Q1", "Q2").Tables()
func (e *Extractor) Sheets(names ...string) *Extractor {
	newExt := e.clone()
	newExt.options.sheets = append(newExt.options.sheets, names...)
	return newExt
}

// Boilerplate selects how much HTML navigation content is skipped.
func (e *Extractor) Boilerplate(mode htmldoc.SkipMode) *Extractor {
	newExt := e.clone()
	newExt.options.boilerplate = mode
	return newExt
}

// ============================================================================
// Terminal Operations (execute extraction and return results)
// ============================================================================

// Document extracts the paragraphs and tables of the file in order.
//
// Returns the document, any warnings encountered during processing, and
// an error if extraction failed.
//
// Example:
//
//	doc, warnings, err := docgrid.Open("report.html").Document()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", docgrid.FormatWarnings(warnings))
//	}
func (e *Extractor) Document() (*model.Document, []Warning, error) {
	f, err := e.resolveFormat()
	if err != nil {
		return nil, nil, err
	}

	var doc *model.Document
	var warnings []Warning

	if len(e.options.sheets) > 0 && f != format.XLSX {
		warnings = append(warnings, Warning{
			Code:    WarnIgnoredOption,
			Message: fmt.Sprintf("sheet selection does not apply to %s input", f),
		})
	}

	switch f {
	case format.HTML:
		doc, warnings, err = e.readHTML(warnings)
	case format.XLSX:
		doc, err = e.readXLSX()
	case format.DOCX:
		doc, err = e.readDOCX()
	case format.PPTX:
		doc, err = e.readPPTX()
	case format.ODT:
		doc, err = e.readODT()
	case format.JSON:
		doc, err = e.readRecords(export.FormatJSON)
	case format.MsgPack:
		doc, err = e.readRecords(export.FormatMsgPack)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, warnings, err
	}

	for i, t := range doc.Tables() {
		if gaps := t.Gaps(); len(gaps) > 0 {
			warnings = append(warnings, Warning{
				Code:    WarnGaps,
				Message: fmt.Sprintf("table %d: %d unoccupied coordinates, first at row %d col %d", i+1, len(gaps), gaps[0].Y, gaps[0].X),
			})
		}
	}
	return doc, warnings, nil
}

// Tables extracts the tables of the file in document order.
//
// Example:
//
//	tables, warnings, err := docgrid.Open("book.xlsx").Tables()
func (e *Extractor) Tables() ([]*model.Table, []Warning, error) {
	doc, warnings, err := e.Document()
	if err != nil {
		return nil, warnings, err
	}
	return doc.Tables(), warnings, nil
}

// resolveFormat returns the configured format, sniffing the file content
// when it is unknown.
func (e *Extractor) resolveFormat() (format.Format, error) {
	if e.filename == "" {
		return format.Unknown, fmt.Errorf("no filename specified")
	}
	if e.format != format.Unknown {
		return e.format, nil
	}

	f, err := os.Open(e.filename)
	if err != nil {
		return format.Unknown, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return format.Unknown, fmt.Errorf("opening file: %w", err)
	}
	detected, err := format.DetectFromReader(f, info.Size())
	if err != nil {
		return format.Unknown, fmt.Errorf("detecting format: %w", err)
	}
	if detected == format.Unknown {
		return format.Unknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, e.filename)
	}
	return detected, nil
}

func (e *Extractor) readHTML(warnings []Warning) (*model.Document, []Warning, error) {
	r, err := htmldoc.OpenWithOptions(e.filename, htmldoc.Options{
		Strict:      e.options.strict,
		FillGaps:    !e.options.noFill,
		Boilerplate: e.options.boilerplate,
	})
	if err != nil {
		return nil, warnings, fmt.Errorf("failed to open HTML: %w", err)
	}
	defer r.Close()

	for _, msg := range r.Warnings() {
		warnings = append(warnings, Warning{Code: WarnClippedSpan, Message: msg})
	}
	return r.Document(), warnings, nil
}

func (e *Extractor) readXLSX() (*model.Document, error) {
	r, err := xlsx.OpenWithOptions(e.filename, xlsx.Options{
		Sheets:   e.options.sheets,
		FillGaps: !e.options.noFill,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer r.Close()

	return r.Document()
}

func (e *Extractor) readDOCX() (*model.Document, error) {
	r, err := docx.OpenWithOptions(e.filename, docx.Options{FillGaps: !e.options.noFill})
	if err != nil {
		return nil, fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer r.Close()

	return r.Document(), nil
}

func (e *Extractor) readPPTX() (*model.Document, error) {
	r, err := pptx.OpenWithOptions(e.filename, pptx.Options{FillGaps: !e.options.noFill})
	if err != nil {
		return nil, fmt.Errorf("failed to open PPTX: %w", err)
	}
	defer r.Close()

	return r.Document(), nil
}

func (e *Extractor) readODT() (*model.Document, error) {
	r, err := odt.OpenWithOptions(e.filename, odt.Options{FillGaps: !e.options.noFill})
	if err != nil {
		return nil, fmt.Errorf("failed to open ODT: %w", err)
	}
	defer r.Close()

	return r.Document(), nil
}

// readRecords decodes a record file. Records are read back as written, so
// gap filling does not apply.
func (e *Extractor) readRecords(f export.Format) (*model.Document, error) {
	file, err := os.Open(e.filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	doc, err := export.ReadDocument(file, f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %v records: %w", f, err)
	}
	if doc.Metadata.Source == "" {
		doc.Metadata.Source = e.filename
	}
	return doc, nil
}
