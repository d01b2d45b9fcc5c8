// Package xlsx builds grid tables from XLSX workbooks.
//
// Each worksheet becomes one model.Table covering the sheet's used range.
// Merged regions become merged cells holding the region's value; every
// other non-empty value becomes a 1x1 cell.
package xlsx

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dolphindoc/docgrid/model"
)

// ErrSheetNotFound is returned when a requested sheet is not in the workbook.
var ErrSheetNotFound = errors.New("xlsx: sheet not found")

// SheetError reports a failure to build the table of one sheet.
type SheetError struct {
	Sheet string
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("xlsx: sheet %q: %v", e.Sheet, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// Options configures table extraction.
type Options struct {
	// Sheets restricts Tables and Document to the named sheets, in the
	// given order. Empty means every sheet in workbook order.
	Sheets []string
	// FillGaps covers empty coordinates of the used range with empty 1x1
	// cells so every table is ready for navigation.
	FillGaps bool
}

// DefaultOptions returns options selecting every sheet with gap filling on.
func DefaultOptions() Options {
	return Options{FillGaps: true}
}

// Reader provides access to the sheets of an XLSX workbook.
type Reader struct {
	file   *excelize.File
	opts   Options
	source string
}

// Open opens an XLSX file with DefaultOptions.
func Open(filename string) (*Reader, error) {
	return OpenWithOptions(filename, DefaultOptions())
}

// OpenWithOptions opens an XLSX file.
func OpenWithOptions(filename string, opts Options) (*Reader, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	return &Reader{file: f, opts: opts, source: filename}, nil
}

// OpenReader reads an XLSX workbook from r with DefaultOptions.
func OpenReader(r io.Reader) (*Reader, error) {
	return OpenReaderWithOptions(r, DefaultOptions())
}

// OpenReaderWithOptions reads an XLSX workbook from r.
func OpenReaderWithOptions(r io.Reader, opts Options) (*Reader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading workbook: %w", err)
	}
	return &Reader{file: f, opts: opts}, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// SheetNames returns the names of all sheets in workbook order.
func (r *Reader) SheetNames() []string {
	return r.file.GetSheetList()
}

// selectedSheets resolves Options.Sheets against the workbook.
func (r *Reader) selectedSheets() ([]string, error) {
	all := r.file.GetSheetList()
	if len(r.opts.Sheets) == 0 {
		return all, nil
	}
	for _, name := range r.opts.Sheets {
		if !slices.Contains(all, name) {
			return nil, &SheetError{Sheet: name, Err: ErrSheetNotFound}
		}
	}
	return r.opts.Sheets, nil
}

// Table builds the table of one sheet. It returns nil without error when
// the sheet has no values and no merged regions.
func (r *Reader) Table(sheet string) (*model.Table, error) {
	if !slices.Contains(r.file.GetSheetList(), sheet) {
		return nil, &SheetError{Sheet: sheet, Err: ErrSheetNotFound}
	}

	rows, err := r.file.GetRows(sheet)
	if err != nil {
		return nil, &SheetError{Sheet: sheet, Err: err}
	}
	merges, err := r.file.GetMergeCells(sheet)
	if err != nil {
		return nil, &SheetError{Sheet: sheet, Err: err}
	}

	table, err := buildTable(rows, merges, r.opts.FillGaps)
	if err != nil {
		return nil, &SheetError{Sheet: sheet, Err: err}
	}
	return table, nil
}

// Tables builds the tables of the selected sheets, skipping empty ones.
func (r *Reader) Tables() ([]*model.Table, error) {
	sheets, err := r.selectedSheets()
	if err != nil {
		return nil, err
	}

	var tables []*model.Table
	for _, name := range sheets {
		t, err := r.Table(name)
		if err != nil {
			return nil, err
		}
		if t != nil {
			tables = append(tables, t)
		}
	}
	return tables, nil
}

// Document returns a document with, for each selected non-empty sheet, a
// paragraph naming the sheet followed by the sheet's table.
func (r *Reader) Document() (*model.Document, error) {
	sheets, err := r.selectedSheets()
	if err != nil {
		return nil, err
	}

	doc := model.NewDocument()
	doc.Metadata.Source = r.source
	if props, err := r.file.GetDocProps(); err == nil && props != nil {
		doc.Metadata.Title = props.Title
		if props.Creator != "" {
			doc.Metadata.Custom["author"] = props.Creator
		}
	}

	for _, name := range sheets {
		t, err := r.Table(name)
		if err != nil {
			return nil, err
		}
		if t == nil {
			continue
		}
		doc.AddBlock(model.NewTextParagraph(name))
		doc.AddBlock(t)
	}
	return doc, nil
}

// region is a merged range in 0-based coordinates.
type region struct {
	rect  model.Rect
	value string
}

func parseMerges(merges []excelize.MergeCell) ([]region, error) {
	regions := make([]region, 0, len(merges))
	for _, mc := range merges {
		startCol, startRow, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			return nil, fmt.Errorf("merged range start %q: %w", mc.GetStartAxis(), err)
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			return nil, fmt.Errorf("merged range end %q: %w", mc.GetEndAxis(), err)
		}
		p1 := model.Point{X: startCol - 1, Y: startRow - 1}
		p2 := model.Point{X: endCol - 1, Y: endRow - 1}
		regions = append(regions, region{
			rect:  model.NewRectFromPoints(p1, p2),
			value: mc.GetCellValue(),
		})
	}
	return regions, nil
}

// usedRange returns the rows and columns up to the last non-empty value,
// extended to cover every merged region.
func usedRange(rows [][]string, regions []region) (nrows, ncols int) {
	for y, row := range rows {
		for x, v := range row {
			if v != "" {
				nrows = max(nrows, y+1)
				ncols = max(ncols, x+1)
			}
		}
	}
	for _, rg := range regions {
		nrows = max(nrows, rg.rect.Bottom()+1)
		ncols = max(ncols, rg.rect.Right()+1)
	}
	return nrows, ncols
}

func buildTable(rows [][]string, merges []excelize.MergeCell, fill bool) (*model.Table, error) {
	regions, err := parseMerges(merges)
	if err != nil {
		return nil, err
	}

	nrows, ncols := usedRange(rows, regions)
	if nrows == 0 || ncols == 0 {
		return nil, nil
	}

	table, err := model.NewTable(nrows, ncols)
	if err != nil {
		return nil, err
	}

	for _, rg := range regions {
		if err := table.AddCell(newCell(rg.rect, rg.value)); err != nil {
			return nil, fmt.Errorf("merged range %s: %w", rg.rect, err)
		}
	}

	for y, row := range rows {
		for x, v := range row {
			if v == "" || table.CellAt(y, x) != nil {
				continue
			}
			if err := table.AddCell(newCell(model.NewRect(x, y, 1, 1), v)); err != nil {
				return nil, err
			}
		}
	}

	if fill {
		table.FillGaps()
	}
	return table, nil
}

// newCell creates a cell with one paragraph per line of value.
func newCell(rect model.Rect, value string) *model.Cell {
	c := model.NewCell(rect)
	if value == "" {
		return c
	}
	value = strings.ReplaceAll(value, "\r\n", "\n")
	for _, line := range strings.Split(value, "\n") {
		// A fresh paragraph cannot be owned yet.
		_ = c.AppendParagraph(model.NewTextParagraph(line))
	}
	return c
}
