package docx

import (
	"encoding/xml"
	"strings"
)

// documentXML represents the structure of word/document.xml
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    *bodyXML `xml:"body"`
}

// bodyXML represents the document body. Paragraphs and tables are kept in
// document order.
type bodyXML struct {
	Elements []bodyElement
}

// bodyElement is a paragraph or a table; exactly one field is set.
type bodyElement struct {
	Paragraph *paragraphXML
	Table     *tableXML
}

func (b *bodyXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return decodeChildren(d, func(el xml.StartElement) (bool, error) {
		switch el.Name.Local {
		case "p":
			var p paragraphXML
			if err := d.DecodeElement(&p, &el); err != nil {
				return true, err
			}
			b.Elements = append(b.Elements, bodyElement{Paragraph: &p})
		case "tbl":
			var t tableXML
			if err := d.DecodeElement(&t, &el); err != nil {
				return true, err
			}
			b.Elements = append(b.Elements, bodyElement{Table: &t})
		default:
			return false, nil
		}
		return true, nil
	})
}

// paragraphXML represents a paragraph element (<w:p>). Runs outside and
// inside hyperlinks are kept in document order.
type paragraphXML struct {
	Inlines []inlineXML
}

// inlineXML is a run, optionally inside a hyperlink.
type inlineXML struct {
	Run       runXML
	Hyperlink *hyperlinkXML
}

func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return decodeChildren(d, func(el xml.StartElement) (bool, error) {
		switch el.Name.Local {
		case "r":
			var r runXML
			if err := d.DecodeElement(&r, &el); err != nil {
				return true, err
			}
			p.Inlines = append(p.Inlines, inlineXML{Run: r})
		case "hyperlink":
			var h hyperlinkXML
			if err := d.DecodeElement(&h, &el); err != nil {
				return true, err
			}
			for _, r := range h.Runs {
				p.Inlines = append(p.Inlines, inlineXML{Run: r, Hyperlink: &h})
			}
		default:
			return false, nil
		}
		return true, nil
	})
}

// runXML represents a text run (<w:r>). Text collects <w:t>, tabs and
// breaks in order; breaks become "\n".
type runXML struct {
	Properties runPropsXML
	Text       string
}

func (r *runXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var sb strings.Builder
	err := decodeChildren(d, func(el xml.StartElement) (bool, error) {
		switch el.Name.Local {
		case "rPr":
			return true, d.DecodeElement(&r.Properties, &el)
		case "t":
			var t textXML
			if err := d.DecodeElement(&t, &el); err != nil {
				return true, err
			}
			sb.WriteString(t.Value)
		case "tab":
			sb.WriteString("\t")
			return false, nil
		case "br", "cr":
			sb.WriteString("\n")
			return false, nil
		case "noBreakHyphen":
			sb.WriteString("-")
			return false, nil
		default:
			return false, nil
		}
		return true, nil
	})
	r.Text = sb.String()
	return err
}

// runPropsXML represents run properties (<w:rPr>).
type runPropsXML struct {
	Bold   *boolXML `xml:"b"`
	Italic *boolXML `xml:"i"`
}

// boolXML represents a toggle property; present without val means on.
type boolXML struct {
	Val string `xml:"val,attr"`
}

func (b *boolXML) on() bool {
	if b == nil {
		return false
	}
	switch b.Val {
	case "false", "0", "off":
		return false
	}
	return true
}

// textXML represents text content (<w:t>).
type textXML struct {
	Value string `xml:",chardata"`
}

// hyperlinkXML represents a hyperlink. ID refers to an external target in
// the document relationships; Anchor names a bookmark.
type hyperlinkXML struct {
	ID     string   `xml:"id,attr"`
	Anchor string   `xml:"anchor,attr"`
	Runs   []runXML `xml:"r"`
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	Grid tableGridXML  `xml:"tblGrid"`
	Rows []tableRowXML `xml:"tr"`
}

// tableGridXML represents table grid definition.
type tableGridXML struct {
	Cols []gridColXML `xml:"gridCol"`
}

// gridColXML represents a grid column.
type gridColXML struct {
	W string `xml:"w,attr"` // Width in twips
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	Properties rowPropsXML    `xml:"trPr"`
	Cells      []tableCellXML `xml:"tc"`
}

// rowPropsXML represents row properties.
type rowPropsXML struct {
	GridBefore valXML `xml:"gridBefore"` // Grid columns skipped before the first cell
}

// tableCellXML represents a table cell (<w:tc>).
type tableCellXML struct {
	Properties cellPropsXML   `xml:"tcPr"`
	Paragraphs []paragraphXML `xml:"p"`
	Tables     []tableXML     `xml:"tbl"`
}

// cellPropsXML represents cell properties.
type cellPropsXML struct {
	GridSpan valXML     `xml:"gridSpan"`
	VMerge   *vMergeXML `xml:"vMerge"`
}

// valXML is an element carrying a single w:val attribute.
type valXML struct {
	Val string `xml:"val,attr"`
}

// vMergeXML represents vertical merge: "restart" begins a merge, an empty
// or "continue" value extends the cell above.
type vMergeXML struct {
	Val string `xml:"val,attr"`
}

func (v *vMergeXML) continues() bool {
	return v != nil && (v.Val == "" || v.Val == "continue")
}

// relationshipsXML represents _rels/*.rels files
type relationshipsXML struct {
	Relationships []relationshipXML `xml:"Relationship"`
}

// relationshipXML represents a single relationship.
type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Target string `xml:"Target,attr"`
}

// corePropertiesXML represents docProps/core.xml (Dublin Core metadata)
type corePropertiesXML struct {
	Title    string `xml:"title"`
	Subject  string `xml:"subject"`
	Creator  string `xml:"creator"`
	Keywords string `xml:"keywords"`
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
