package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/dolphindoc/docgrid/model"
)

// envelope decodes any top-level record: a document, or a single table.
type envelope struct {
	Type     string             `json:"type" msgpack:"type"`
	Title    string             `json:"title" msgpack:"title"`
	Source   string             `json:"source" msgpack:"source"`
	Metadata map[string]string  `json:"metadata" msgpack:"metadata"`
	Blocks   []blockRecord      `json:"blocks" msgpack:"blocks"`
	Cells    []model.CellRecord `json:"cells" msgpack:"cells"`
}

// blockRecord decodes a paragraph or table record of a document.
type blockRecord struct {
	Type     string                `json:"type" msgpack:"type"`
	Segments []model.SegmentRecord `json:"segments" msgpack:"segments"`
	Cells    []model.CellRecord    `json:"cells" msgpack:"cells"`
}

func (b blockRecord) record() (any, error) {
	switch b.Type {
	case model.RecordTypeParagraph:
		return model.ParagraphRecord{Type: b.Type, Segments: b.Segments}, nil
	case model.RecordTypeTable:
		return model.TableRecord{Type: b.Type, Cells: b.Cells}, nil
	}
	return nil, fmt.Errorf("%w: %q", model.ErrRecordType, b.Type)
}

// ReadDocument decodes JSON or MessagePack written by WriteDocument or
// WriteTables. A document record keeps its blocks; a table record or an
// array of table records becomes a document holding only those tables.
func ReadDocument(r io.Reader, f Format) (*model.Document, error) {
	var unmarshal func([]byte, any) error
	switch f {
	case FormatJSON:
		unmarshal = json.Unmarshal
	case FormatMsgPack:
		unmarshal = msgpack.Unmarshal
	default:
		return nil, fmt.Errorf("%w: %v", ErrNotReadable, f)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	if isArray(data, f) {
		var records []model.TableRecord
		if err := unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decoding %v records: %w", f, err)
		}
		doc := model.NewDocument()
		for i, rec := range records {
			t, err := model.TableFromRecord(rec)
			if err != nil {
				return nil, fmt.Errorf("table %d: %w", i, err)
			}
			doc.AddBlock(t)
		}
		return doc, nil
	}

	var env envelope
	if err := unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding %v record: %w", f, err)
	}

	if env.Type == model.RecordTypeTable {
		t, err := model.TableFromRecord(model.TableRecord{Type: env.Type, Cells: env.Cells})
		if err != nil {
			return nil, err
		}
		doc := model.NewDocument()
		doc.AddBlock(t)
		return doc, nil
	}

	rec := model.DocumentRecord{
		Type:     env.Type,
		Title:    env.Title,
		Source:   env.Source,
		Metadata: env.Metadata,
		Blocks:   make([]any, 0, len(env.Blocks)),
	}
	for i, b := range env.Blocks {
		block, err := b.record()
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		rec.Blocks = append(rec.Blocks, block)
	}
	return model.DocumentFromRecord(rec)
}

// isArray reports whether data holds a top-level array.
func isArray(data []byte, f Format) bool {
	if f == FormatJSON {
		trimmed := bytes.TrimSpace(data)
		return len(trimmed) > 0 && trimmed[0] == '['
	}
	if len(data) == 0 {
		return false
	}
	b := data[0]
	return (b >= 0x90 && b <= 0x9f) || b == 0xdc || b == 0xdd
}
