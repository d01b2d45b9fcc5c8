// Package export writes tables and documents as JSON or MessagePack
// records, Markdown, CSV or box-drawn grids, and reads the record formats
// back.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/dolphindoc/docgrid/internal/render"
	"github.com/dolphindoc/docgrid/model"
)

var (
	// ErrUnknownFormat is returned by ParseFormat for unrecognised names.
	ErrUnknownFormat = errors.New("export: unknown format")
	// ErrNotReadable is returned by ReadDocument for formats that carry no
	// records.
	ErrNotReadable = errors.New("export: format cannot be read back")
)

// Format defines the available output formats
type Format int

const (
	// FormatJSON writes table or document records as JSON
	FormatJSON Format = iota
	// FormatMsgPack writes the same records as MessagePack
	FormatMsgPack
	// FormatMarkdown writes Markdown tables
	FormatMarkdown
	// FormatCSV writes one CSV block per table
	FormatCSV
	// FormatGrid writes box-drawn boards
	FormatGrid
)

// String returns the lowercase name of the format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMsgPack:
		return "msgpack"
	case FormatMarkdown:
		return "markdown"
	case FormatCSV:
		return "csv"
	case FormatGrid:
		return "grid"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (f Format) FileExtension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatMsgPack:
		return ".msgpack"
	case FormatMarkdown:
		return ".md"
	case FormatCSV:
		return ".csv"
	default:
		return ".txt"
	}
}

// ParseFormat parses a format name as written by String. "md" and "mpk"
// are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "msgpack", "mpk":
		return FormatMsgPack, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "grid":
		return FormatGrid, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Config holds configuration options for export
type Config struct {
	// Format specifies the output format
	Format Format

	// Pretty indents JSON output
	Pretty bool

	// MaxCellWidth caps grid column width; zero uses the renderer default
	MaxCellWidth int
}

// DefaultConfig returns compact JSON output
func DefaultConfig() Config {
	return Config{Format: FormatJSON}
}

// WriteTables writes tables to w. JSON and MessagePack write an array of
// table records; the text formats separate tables with a blank line.
func WriteTables(w io.Writer, tables []*model.Table, cfg Config) error {
	switch cfg.Format {
	case FormatJSON, FormatMsgPack:
		records := make([]model.TableRecord, 0, len(tables))
		for _, t := range tables {
			records = append(records, t.Record())
		}
		return encode(w, records, cfg)
	case FormatMarkdown, FormatCSV, FormatGrid:
		parts := make([]string, 0, len(tables))
		for _, t := range tables {
			parts = append(parts, tableText(t, cfg))
		}
		return writeParts(w, parts)
	default:
		return fmt.Errorf("unsupported export format: %v", cfg.Format)
	}
}

// WriteDocument writes doc to w. JSON and MessagePack write the document
// record. Markdown and grid output keep paragraphs as plain lines between
// the tables; CSV writes the tables only.
func WriteDocument(w io.Writer, doc *model.Document, cfg Config) error {
	switch cfg.Format {
	case FormatJSON, FormatMsgPack:
		return encode(w, doc.Record(), cfg)
	case FormatCSV:
		return WriteTables(w, doc.Tables(), cfg)
	case FormatMarkdown, FormatGrid:
		var parts []string
		if cfg.Format == FormatMarkdown && doc.Metadata.Title != "" {
			parts = append(parts, "# "+doc.Metadata.Title+"\n")
		}
		for _, b := range doc.Blocks {
			switch v := b.(type) {
			case *model.TextParagraph:
				if !v.IsEmpty() {
					parts = append(parts, v.Text()+"\n")
				}
			case *model.Table:
				parts = append(parts, tableText(v, cfg))
			}
		}
		return writeParts(w, parts)
	default:
		return fmt.Errorf("unsupported export format: %v", cfg.Format)
	}
}

func encode(w io.Writer, v any, cfg Config) error {
	if cfg.Format == FormatMsgPack {
		if err := msgpack.NewEncoder(w).Encode(v); err != nil {
			return fmt.Errorf("encoding msgpack: %w", err)
		}
		return nil
	}

	encoder := json.NewEncoder(w)
	if cfg.Pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func tableText(t *model.Table, cfg Config) string {
	switch cfg.Format {
	case FormatMarkdown:
		return t.ToMarkdown()
	case FormatCSV:
		return t.ToCSV()
	default:
		return render.Board(t, render.Options{MaxCellWidth: cfg.MaxCellWidth})
	}
}

// writeParts writes newline-terminated parts separated by blank lines.
func writeParts(w io.Writer, parts []string) error {
	var sb strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i > 0 && sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(p)
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
