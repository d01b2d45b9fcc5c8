package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TextSegment is a run of text sharing one style.
type TextSegment struct {
	Text   string
	Bold   bool
	Italic bool
	Link   string // target URL when the segment is a hyperlink
}

// TextParagraph is an ordered list of text segments. A paragraph is
// either free-standing in a Document or attached to exactly one Cell.
type TextParagraph struct {
	segments []TextSegment
	parent   *Cell
}

// NewTextParagraph creates a paragraph holding a single plain segment.
// An empty string yields a paragraph with no segments.
func NewTextParagraph(text string) *TextParagraph {
	p := &TextParagraph{}
	if text != "" {
		p.AppendSegment(TextSegment{Text: text})
	}
	return p
}

// AppendSegment appends a segment and returns the paragraph.
// Segment text is normalised to NFC so that text coming from different
// sources compares equal.
func (p *TextParagraph) AppendSegment(seg TextSegment) *TextParagraph {
	seg.Text = norm.NFC.String(seg.Text)
	p.segments = append(p.segments, seg)
	return p
}

// Segments returns a copy of the paragraph's segments
func (p *TextParagraph) Segments() []TextSegment {
	return append([]TextSegment(nil), p.segments...)
}

// Parent returns the cell owning the paragraph, or nil.
func (p *TextParagraph) Parent() *Cell {
	return p.parent
}

// Text returns the concatenated text of all segments
func (p *TextParagraph) Text() string {
	var sb strings.Builder
	for _, seg := range p.segments {
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// IsEmpty returns true if the paragraph has no visible text
func (p *TextParagraph) IsEmpty() bool {
	return strings.TrimSpace(p.Text()) == ""
}

// Kind reports BlockParagraph
func (p *TextParagraph) Kind() BlockKind { return BlockParagraph }

// Record returns the serialisable form of the paragraph
func (p *TextParagraph) Record() ParagraphRecord {
	rec := ParagraphRecord{
		Type:     RecordTypeParagraph,
		Segments: make([]SegmentRecord, 0, len(p.segments)),
	}
	for _, seg := range p.segments {
		rec.Segments = append(rec.Segments, SegmentRecord{
			Text:   seg.Text,
			Bold:   seg.Bold,
			Italic: seg.Italic,
			Link:   seg.Link,
		})
	}
	return rec
}
