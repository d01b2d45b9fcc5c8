package model

import (
	"errors"
	"fmt"
)

// Record type tags written in the "type" field of every record.
const (
	RecordTypeDocument  = "document"
	RecordTypeTable     = "table"
	RecordTypeCell      = "cell"
	RecordTypeParagraph = "paragraph"
)

// ErrRecordType is returned when a record carries an unexpected type tag.
var ErrRecordType = errors.New("model: unexpected record type")

// RectRecord is the serialised form of a Rect.
type RectRecord struct {
	Left   int `json:"left" msgpack:"left"`
	Top    int `json:"top" msgpack:"top"`
	Width  int `json:"width" msgpack:"width"`
	Height int `json:"height" msgpack:"height"`
}

// SegmentRecord is the serialised form of a TextSegment.
type SegmentRecord struct {
	Text   string `json:"text" msgpack:"text"`
	Bold   bool   `json:"bold,omitempty" msgpack:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty" msgpack:"italic,omitempty"`
	Link   string `json:"link,omitempty" msgpack:"link,omitempty"`
}

// ParagraphRecord is the serialised form of a TextParagraph.
type ParagraphRecord struct {
	Type     string          `json:"type" msgpack:"type"`
	Segments []SegmentRecord `json:"segments" msgpack:"segments"`
}

// CellRecord is the serialised form of a Cell:
// {"type": "cell", "rect": {...}, "paragraphs": [...]}.
type CellRecord struct {
	Type       string            `json:"type" msgpack:"type"`
	Rect       RectRecord        `json:"rect" msgpack:"rect"`
	Paragraphs []ParagraphRecord `json:"paragraphs" msgpack:"paragraphs"`
}

// TableRecord is the serialised form of a Table: {"type": "table",
// "cells": [...]} with cells in (top, left) order.
type TableRecord struct {
	Type  string       `json:"type" msgpack:"type"`
	Cells []CellRecord `json:"cells" msgpack:"cells"`
}

// DocumentRecord is the serialised form of a Document. Blocks holds
// ParagraphRecord and TableRecord values in document order.
type DocumentRecord struct {
	Type     string            `json:"type" msgpack:"type"`
	Title    string            `json:"title,omitempty" msgpack:"title,omitempty"`
	Source   string            `json:"source,omitempty" msgpack:"source,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
	Blocks   []any             `json:"blocks" msgpack:"blocks"`
}

// ParagraphFromRecord rebuilds a detached paragraph from its record.
func ParagraphFromRecord(rec ParagraphRecord) (*TextParagraph, error) {
	if rec.Type != "" && rec.Type != RecordTypeParagraph {
		return nil, fmt.Errorf("%w: %q, want %q", ErrRecordType, rec.Type, RecordTypeParagraph)
	}
	p := &TextParagraph{}
	for _, seg := range rec.Segments {
		p.AppendSegment(TextSegment{
			Text:   seg.Text,
			Bold:   seg.Bold,
			Italic: seg.Italic,
			Link:   seg.Link,
		})
	}
	return p, nil
}

// TableFromRecord rebuilds a table from its record. The record carries no
// dimensions, so the table is sized to the extent of its cells; a record
// of a table with trailing empty rows or columns comes back smaller.
func TableFromRecord(rec TableRecord) (*Table, error) {
	if rec.Type != "" && rec.Type != RecordTypeTable {
		return nil, fmt.Errorf("%w: %q, want %q", ErrRecordType, rec.Type, RecordTypeTable)
	}

	rows, cols := 0, 0
	for i, cr := range rec.Cells {
		r := cr.Rect
		if max(r.Left, r.Top, r.Width, r.Height) > MaxBoardArea {
			return nil, fmt.Errorf("cell %d: %w: rect %d,%d %dx%d", i, ErrTableTooLarge, r.Left, r.Top, r.Width, r.Height)
		}
		rows = max(rows, cr.Rect.Top+cr.Rect.Height)
		cols = max(cols, cr.Rect.Left+cr.Rect.Width)
	}

	t, err := NewTable(rows, cols)
	if err != nil {
		return nil, err
	}

	for i, cr := range rec.Cells {
		if cr.Type != "" && cr.Type != RecordTypeCell {
			return nil, fmt.Errorf("cell %d: %w: %q, want %q", i, ErrRecordType, cr.Type, RecordTypeCell)
		}
		c := NewCell(NewRect(cr.Rect.Left, cr.Rect.Top, cr.Rect.Width, cr.Rect.Height))
		for _, pr := range cr.Paragraphs {
			p, err := ParagraphFromRecord(pr)
			if err != nil {
				return nil, fmt.Errorf("cell %d: %w", i, err)
			}
			if err := c.AppendParagraph(p); err != nil {
				return nil, fmt.Errorf("cell %d: %w", i, err)
			}
		}
		if err := t.AddCell(c); err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
	}
	return t, nil
}

// DocumentFromRecord rebuilds a document from its record. Blocks may hold
// ParagraphRecord and TableRecord values or pointers to them.
func DocumentFromRecord(rec DocumentRecord) (*Document, error) {
	if rec.Type != "" && rec.Type != RecordTypeDocument {
		return nil, fmt.Errorf("%w: %q, want %q", ErrRecordType, rec.Type, RecordTypeDocument)
	}

	doc := NewDocument()
	doc.Metadata.Title = rec.Title
	doc.Metadata.Source = rec.Source
	for k, v := range rec.Metadata {
		doc.Metadata.Custom[k] = v
	}

	for i, b := range rec.Blocks {
		var block Block
		var err error
		switch v := b.(type) {
		case ParagraphRecord:
			block, err = ParagraphFromRecord(v)
		case *ParagraphRecord:
			block, err = ParagraphFromRecord(*v)
		case TableRecord:
			block, err = TableFromRecord(v)
		case *TableRecord:
			block, err = TableFromRecord(*v)
		default:
			err = fmt.Errorf("%w: %T", ErrRecordType, b)
		}
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		doc.AddBlock(block)
	}
	return doc, nil
}
