package odt

import (
	"encoding/xml"
	"strings"
)

// contentXML represents the structure of content.xml
type contentXML struct {
	XMLName    xml.Name       `xml:"document-content"`
	AutoStyles styleListXML   `xml:"automatic-styles"`
	Body       *officeBodyXML `xml:"body"`
}

// officeBodyXML represents office:body; only text documents are read.
type officeBodyXML struct {
	Text *textBodyXML `xml:"text"`
}

// textBodyXML represents office:text. Paragraphs, headings, lists and
// tables are kept in document order; sections are flattened.
type textBodyXML struct {
	Elements []bodyElement
}

// bodyElement is a paragraph or a table; exactly one field is set. List
// items become paragraphs.
type bodyElement struct {
	Paragraph *paragraphXML
	Table     *tableXML
}

func (b *textBodyXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return b.decode(d)
}

func (b *textBodyXML) decode(d *xml.Decoder) error {
	return decodeChildren(d, func(el xml.StartElement) (bool, error) {
		switch el.Name.Local {
		case "p", "h":
			var p paragraphXML
			if err := d.DecodeElement(&p, &el); err != nil {
				return true, err
			}
			b.Elements = append(b.Elements, bodyElement{Paragraph: &p})
		case "list":
			var l listXML
			if err := d.DecodeElement(&l, &el); err != nil {
				return true, err
			}
			for i := range l.Paragraphs {
				b.Elements = append(b.Elements, bodyElement{Paragraph: &l.Paragraphs[i]})
			}
		case "table":
			var t tableXML
			if err := d.DecodeElement(&t, &el); err != nil {
				return true, err
			}
			b.Elements = append(b.Elements, bodyElement{Table: &t})
		case "section":
			return true, b.decode(d)
		default:
			return false, nil
		}
		return true, nil
	})
}

// paragraphXML represents <text:p> or <text:h>. Inline content is kept as
// a flat list of styled runs; line breaks are runs with Break set.
type paragraphXML struct {
	StyleName string
	Runs      []runXML
}

// runXML is a piece of paragraph text with its text style and link.
type runXML struct {
	Text      string
	StyleName string
	Link      string
	Break     bool
}

func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	p.StyleName = attr(start, "style-name")
	return p.collect(d, "", "")
}

// collect reads inline content up to the end of the current element.
// Spans set the text style of their content and links set its target.
func (p *paragraphXML) collect(d *xml.Decoder, style, link string) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			p.Runs = append(p.Runs, runXML{Text: collapseSpace(string(t)), StyleName: style, Link: link})
		case xml.StartElement:
			switch t.Name.Local {
			case "span":
				inner := style
				if s := attr(t, "style-name"); s != "" {
					inner = s
				}
				err = p.collect(d, inner, link)
			case "a":
				err = p.collect(d, style, attr(t, "href"))
			case "s":
				n := repeatValue(attr(t, "c"))
				p.Runs = append(p.Runs, runXML{Text: strings.Repeat(" ", n), StyleName: style, Link: link})
				err = d.Skip()
			case "tab":
				p.Runs = append(p.Runs, runXML{Text: "\t", StyleName: style, Link: link})
				err = d.Skip()
			case "line-break":
				p.Runs = append(p.Runs, runXML{Break: true})
				err = d.Skip()
			default:
				// notes, annotations, frames and bookmarks carry no body text
				err = d.Skip()
			}
			if err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// listXML represents <text:list>. Items, including those of nested lists,
// are flattened into their paragraphs in document order.
type listXML struct {
	Paragraphs []paragraphXML
}

func (l *listXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return l.decode(d)
}

func (l *listXML) decode(d *xml.Decoder) error {
	return decodeChildren(d, func(el xml.StartElement) (bool, error) {
		switch el.Name.Local {
		case "list", "list-item", "list-header":
			return true, l.decode(d)
		case "p", "h":
			var p paragraphXML
			if err := d.DecodeElement(&p, &el); err != nil {
				return true, err
			}
			l.Paragraphs = append(l.Paragraphs, p)
			return true, nil
		}
		return false, nil
	})
}

// tableXML represents <table:table>. Rows inside header-rows, rows and
// row-group wrappers are flattened.
type tableXML struct {
	Columns int
	Rows    []tableRowXML
}

func (t *tableXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return t.decode(d)
}

func (t *tableXML) decode(d *xml.Decoder) error {
	return decodeChildren(d, func(el xml.StartElement) (bool, error) {
		switch el.Name.Local {
		case "table-columns", "table-header-columns", "table-column-group":
			return true, t.decode(d)
		case "table-column":
			t.Columns += repeatValue(attr(el, "number-columns-repeated"))
			return false, nil
		case "table-rows", "table-header-rows", "table-row-group":
			return true, t.decode(d)
		case "table-row":
			var row tableRowXML
			if err := d.DecodeElement(&row, &el); err != nil {
				return true, err
			}
			t.Rows = append(t.Rows, row)
			return true, nil
		}
		return false, nil
	})
}

// tableRowXML represents <table:table-row>.
type tableRowXML struct {
	Repeated int
	Cells    []tableCellXML
}

func (r *tableRowXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r.Repeated = repeatValue(attr(start, "number-rows-repeated"))
	return decodeChildren(d, func(el xml.StartElement) (bool, error) {
		switch el.Name.Local {
		case "table-cell", "covered-table-cell":
			var c tableCellXML
			if err := d.DecodeElement(&c, &el); err != nil {
				return true, err
			}
			c.Covered = el.Name.Local == "covered-table-cell"
			c.Repeated = repeatValue(attr(el, "number-columns-repeated"))
			c.ColSpan = attr(el, "number-columns-spanned")
			c.RowSpan = attr(el, "number-rows-spanned")
			r.Cells = append(r.Cells, c)
			return true, nil
		}
		return false, nil
	})
}

// tableCellXML represents <table:table-cell> or, with Covered set, a
// <table:covered-table-cell> slot hidden by a span.
type tableCellXML struct {
	Covered    bool
	Repeated   int
	ColSpan    string
	RowSpan    string
	Paragraphs []paragraphXML
	Tables     []tableXML
}

func (c *tableCellXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return c.decode(d)
}

func (c *tableCellXML) decode(d *xml.Decoder) error {
	return decodeChildren(d, func(el xml.StartElement) (bool, error) {
		switch el.Name.Local {
		case "p", "h":
			var p paragraphXML
			if err := d.DecodeElement(&p, &el); err != nil {
				return true, err
			}
			c.Paragraphs = append(c.Paragraphs, p)
		case "list":
			var l listXML
			if err := d.DecodeElement(&l, &el); err != nil {
				return true, err
			}
			c.Paragraphs = append(c.Paragraphs, l.Paragraphs...)
		case "table":
			var t tableXML
			if err := d.DecodeElement(&t, &el); err != nil {
				return true, err
			}
			c.Tables = append(c.Tables, t)
		case "section":
			return true, c.decode(d)
		default:
			return false, nil
		}
		return true, nil
	})
}

// stylesXML represents styles.xml
type stylesXML struct {
	XMLName    xml.Name     `xml:"document-styles"`
	Styles     styleListXML `xml:"styles"`
	AutoStyles styleListXML `xml:"automatic-styles"`
}

// styleListXML represents office:styles or office:automatic-styles.
type styleListXML struct {
	Styles []styleDefXML `xml:"style"`
}

// styleDefXML represents a style definition (<style:style>).
type styleDefXML struct {
	Name            string        `xml:"name,attr"`
	Family          string        `xml:"family,attr"` // paragraph, text, table-cell, ...
	ParentStyleName string        `xml:"parent-style-name,attr"`
	TextProps       *textPropsXML `xml:"text-properties"`
}

// textPropsXML represents text properties (<style:text-properties>).
type textPropsXML struct {
	FontStyle  string `xml:"font-style,attr"`  // normal, italic, oblique
	FontWeight string `xml:"font-weight,attr"` // normal, bold, 100-900
}

// metaXML represents document metadata from meta.xml.
type metaXML struct {
	XMLName xml.Name    `xml:"document-meta"`
	Meta    metaInfoXML `xml:"meta"`
}

// metaInfoXML represents the office:meta element.
type metaInfoXML struct {
	Title          string   `xml:"title"`
	Subject        string   `xml:"subject"`
	Keywords       []string `xml:"keyword"`
	InitialCreator string   `xml:"initial-creator"`
	Creator        string   `xml:"creator"`
}

// attr returns the value of the attribute with the given local name.
func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// collapseSpace replaces every run of XML white space with one space, as
// ODF requires for character data outside text:s.
func collapseSpace(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
			if !space {
				sb.WriteByte(' ')
			}
			space = true
		default:
			sb.WriteRune(r)
			space = false
		}
	}
	return sb.String()
}

// decodeChildren calls fn for each direct child element until the parent's
// end tag. Children fn reports as unhandled are skipped.
func decodeChildren(d *xml.Decoder, fn func(xml.StartElement) (bool, error)) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			handled, err := fn(t)
			if err != nil {
				return err
			}
			if !handled {
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}
