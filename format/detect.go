// Package format provides input format detection for docgrid.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// HTML indicates an HTML document.
	HTML
	// XLSX indicates a Microsoft Excel (.xlsx) workbook.
	XLSX
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// JSON indicates document or table records encoded as JSON.
	JSON
	// MsgPack indicates document or table records encoded as MessagePack.
	MsgPack
	// ODT indicates an OpenDocument Text (.odt) document.
	ODT
	// PPTX indicates a Microsoft PowerPoint (.pptx) presentation.
	PPTX
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case HTML:
		return "HTML"
	case XLSX:
		return "XLSX"
	case DOCX:
		return "DOCX"
	case JSON:
		return "JSON"
	case MsgPack:
		return "MsgPack"
	case ODT:
		return "ODT"
	case PPTX:
		return "PPTX"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case HTML:
		return ".html"
	case XLSX:
		return ".xlsx"
	case DOCX:
		return ".docx"
	case JSON:
		return ".json"
	case MsgPack:
		return ".msgpack"
	case ODT:
		return ".odt"
	case PPTX:
		return ".pptx"
	default:
		return ""
	}
}

// Parse parses a format name as accepted on the command line.
func Parse(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html", "htm":
		return HTML
	case "xlsx":
		return XLSX
	case "docx":
		return DOCX
	case "json":
		return JSON
	case "msgpack", "mpk":
		return MsgPack
	case "odt":
		return ODT
	case "pptx":
		return PPTX
	default:
		return Unknown
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".html", ".htm", ".xhtml":
		return HTML
	case ".xlsx", ".xlsm":
		return XLSX
	case ".docx":
		return DOCX
	case ".json":
		return JSON
	case ".msgpack", ".mpk":
		return MsgPack
	case ".odt":
		return ODT
	case ".pptx":
		return PPTX
	default:
		return Unknown
	}
}

var zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}

// DetectFromMagic checks leading bytes to determine format. ZIP archives
// report Unknown; use DetectFromReader to tell DOCX, XLSX, PPTX and ODT
// apart.
func DetectFromMagic(data []byte) Format {
	if len(data) == 0 || bytes.HasPrefix(data, zipMagic) {
		return Unknown
	}

	if isMsgPackContainer(data[0]) {
		return MsgPack
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return Unknown
	}
	if detectHTMLMagic(trimmed) {
		return HTML
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return JSON
	}
	return Unknown
}

// isMsgPackContainer reports whether b starts a MessagePack map or array.
// Records are always encoded as one of the two.
func isMsgPackContainer(b byte) bool {
	switch {
	case b >= 0x80 && b <= 0x9f: // fixmap, fixarray
		return true
	case b >= 0xdc && b <= 0xdf: // array16, array32, map16, map32
		return true
	}
	return false
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	head := strings.ToUpper(string(data[:min(512, len(data))]))
	switch {
	case strings.HasPrefix(head, "<!DOCTYPE HTML"),
		strings.HasPrefix(head, "<HTML"),
		strings.HasPrefix(head, "<TABLE"),
		strings.HasPrefix(head, "<BODY"):
		return true
	}
	// XML declaration followed by html-like content could be XHTML
	return strings.HasPrefix(head, "<?XML") && strings.Contains(head, "<HTML")
}

// DetectFromReader inspects the content to determine format. ZIP archives
// are opened to tell DOCX, XLSX, PPTX and ODT apart.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if bytes.HasPrefix(magic, zipMagic) {
		return detectZIPFormat(r, size)
	}
	return DetectFromMagic(magic), nil
}

// odtMimeType is the content of the mimetype entry of an ODT package.
const odtMimeType = "application/vnd.oasis.opendocument.text"

// detectZIPFormat inspects an Office Open XML or OpenDocument package. An
// OpenDocument package is ODT when its mimetype entry says so, or when it
// has no mimetype entry but carries content.xml.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	var mimetype *zip.File
	hasContent := false
	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "word/"):
			return DOCX, nil
		case strings.HasPrefix(f.Name, "xl/"):
			return XLSX, nil
		case strings.HasPrefix(f.Name, "ppt/"):
			return PPTX, nil
		case f.Name == "mimetype":
			mimetype = f
		case f.Name == "content.xml":
			hasContent = true
		}
	}

	if mimetype != nil {
		rc, err := mimetype.Open()
		if err != nil {
			return Unknown, err
		}
		defer rc.Close()
		data, err := io.ReadAll(io.LimitReader(rc, 128))
		if err != nil {
			return Unknown, err
		}
		if strings.TrimSpace(string(data)) == odtMimeType {
			return ODT, nil
		}
		return Unknown, nil
	}
	if hasContent {
		return ODT, nil
	}
	return Unknown, nil
}
