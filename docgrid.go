// Package docgrid provides a fluent API for extracting grid tables from
// HTML, XLSX, DOCX, PPTX and ODT files, and from the JSON or MessagePack
// records the export package writes.
//
// Basic usage:
//
//	tables, warnings, err := docgrid.Open("report.html").Tables()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", docgrid.FormatWarnings(warnings))
//	}
//
// With options:
//
//	doc, _, err := docgrid.Open("book.xlsx").
//	    Sheets("Summary").
//	    NoFill().
//	    Document()
//
// Every table returned without gaps is ready for navigation:
//
//	next, err := tables[0].Cells()[0].Move(model.DirRight)
package docgrid

import "github.com/dolphindoc/docgrid/format"

// Open returns an Extractor for filename. The format is taken from the
// file extension; files with an unknown extension are sniffed when a
// terminal operation runs. Nothing is read until then.
//
// Example:
//
//	doc, warnings, err := docgrid.Open("document.docx").Document()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		format:   format.Detect(filename),
		options:  defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustTables wraps a call to Tables or Document and panics if the error is
// non-nil. Warnings are discarded.
//
// Example:
//
//	tables := docgrid.MustTables(docgrid.Open("report.html").Tables())
func MustTables[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
