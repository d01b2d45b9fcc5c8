package model

// BlockKind represents the type of a document block
type BlockKind int

const (
	BlockUnknown BlockKind = iota
	BlockParagraph
	BlockTable
)

func (k BlockKind) String() string {
	switch k {
	case BlockParagraph:
		return "Paragraph"
	case BlockTable:
		return "Table"
	default:
		return "Unknown"
	}
}

// Block is a top-level element of a document. *TextParagraph and *Table
// implement it.
type Block interface {
	Kind() BlockKind
}

// Document is an ordered sequence of paragraphs and tables extracted from
// one source file.
type Document struct {
	Metadata Metadata
	Blocks   []Block
}

// Metadata contains document-level information
type Metadata struct {
	Title  string
	Source string // file name or other origin of the content
	// Custom metadata, such as HTML <meta> tags
	Custom map[string]string
}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{
		Metadata: Metadata{
			Custom: make(map[string]string),
		},
		Blocks: make([]Block, 0),
	}
}

// AddBlock appends a block to the document
func (d *Document) AddBlock(b Block) {
	d.Blocks = append(d.Blocks, b)
}

// Tables returns all tables in document order
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, b := range d.Blocks {
		if t, ok := b.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// Paragraphs returns the free-standing paragraphs in document order
func (d *Document) Paragraphs() []*TextParagraph {
	var paragraphs []*TextParagraph
	for _, b := range d.Blocks {
		if p, ok := b.(*TextParagraph); ok {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// ExtractText returns the text of all blocks separated by blank lines
func (d *Document) ExtractText() string {
	var text string
	for _, b := range d.Blocks {
		switch v := b.(type) {
		case *TextParagraph:
			text += v.Text() + "\n\n"
		case *Table:
			text += v.Text() + "\n"
		}
	}
	return text
}

// Record returns the serialisable form of the document
func (d *Document) Record() DocumentRecord {
	rec := DocumentRecord{
		Type:   RecordTypeDocument,
		Title:  d.Metadata.Title,
		Source: d.Metadata.Source,
		Blocks: make([]any, 0, len(d.Blocks)),
	}
	if len(d.Metadata.Custom) > 0 {
		rec.Metadata = d.Metadata.Custom
	}
	for _, b := range d.Blocks {
		switch v := b.(type) {
		case *TextParagraph:
			rec.Blocks = append(rec.Blocks, v.Record())
		case *Table:
			rec.Blocks = append(rec.Blocks, v.Record())
		}
	}
	return rec
}
