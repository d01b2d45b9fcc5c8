package htmldoc

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/net/html"

	"github.com/dolphindoc/docgrid/model"
)

// Reader provides access to the tables and text of an HTML document. The
// document is built when the Reader is opened.
type Reader struct {
	opts     Options
	title    string
	metadata map[string]string
	document *model.Document
	warnings []string
}

// Open opens an HTML file with DefaultOptions.
func Open(filename string) (*Reader, error) {
	return OpenWithOptions(filename, DefaultOptions())
}

// OpenWithOptions opens an HTML file.
func OpenWithOptions(filename string, opts Options) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	r, err := OpenReaderWithOptions(f, opts)
	if err != nil {
		return nil, err
	}
	r.document.Metadata.Source = filename
	return r, nil
}

// OpenReader parses HTML from an io.Reader with DefaultOptions.
func OpenReader(r io.Reader) (*Reader, error) {
	return OpenReaderWithOptions(r, DefaultOptions())
}

// OpenReaderWithOptions parses HTML from an io.Reader.
func OpenReaderWithOptions(r io.Reader, opts Options) (*Reader, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	reader := &Reader{
		opts:     opts,
		metadata: make(map[string]string),
	}

	// Extract title and metadata from head
	reader.extractHead(doc)

	if err := reader.extractBody(doc); err != nil {
		return nil, err
	}
	return reader, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	// Nothing to close for HTML (no file handles kept)
	return nil
}

// Title returns the contents of the <title> element.
func (r *Reader) Title() string {
	return r.title
}

// Metadata returns the <meta> name/content pairs from the head.
func (r *Reader) Metadata() map[string]string {
	out := make(map[string]string, len(r.metadata))
	for k, v := range r.metadata {
		out[k] = v
	}
	return out
}

// Document returns the parsed document: paragraphs and tables in
// document order.
func (r *Reader) Document() *model.Document {
	return r.document
}

// Tables returns the document's tables in document order, each outer table
// followed by the tables nested inside it.
func (r *Reader) Tables() []*model.Table {
	return r.document.Tables()
}

// Warnings returns the non-fatal problems met while laying out tables,
// such as spans clipped because they overlapped earlier cells.
func (r *Reader) Warnings() []string {
	return append([]string(nil), r.warnings...)
}

// extractHead extracts title and meta tags from the head element.
func (r *Reader) extractHead(n *html.Node) {
	head := findElement(n, "head")
	if head == nil {
		return
	}

	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "title":
			r.title = getTextContent(c)
		case "meta":
			name := getAttr(c, "name")
			if name == "" {
				name = getAttr(c, "property")
			}
			if content := getAttr(c, "content"); name != "" && content != "" {
				r.metadata[name] = content
			}
		}
	}
}

// extractBody builds the document from the body element.
func (r *Reader) extractBody(n *html.Node) error {
	body := findElement(n, "body")
	if body == nil {
		// No body tag, try to extract from root
		body = n
	}

	doc := model.NewDocument()
	doc.Metadata.Title = r.title
	for k, v := range r.metadata {
		doc.Metadata.Custom[k] = v
	}

	filter := newBoilerplateFilter(r.opts.Boilerplate, n)
	tables := &tableBuilder{opts: r.opts, filter: filter}

	collector := &textCollector{
		filter: filter,
		emit: func(p *model.TextParagraph) error {
			doc.AddBlock(p)
			return nil
		},
	}
	collector.onTable = func(t *html.Node) error {
		if text := caption(t); text != "" {
			doc.AddBlock(model.NewTextParagraph(text))
		}
		built, err := tables.build(t)
		if err != nil {
			return err
		}
		for _, table := range built {
			doc.AddBlock(table)
		}
		return nil
	}

	if err := collector.walkChildren(body, textStyle{}); err != nil {
		return err
	}
	if err := collector.flush(); err != nil {
		return err
	}

	r.document = doc
	r.warnings = tables.warnings
	return nil
}
