package pptx

import "encoding/xml"

// presentationXML represents the ppt/presentation.xml file structure.
type presentationXML struct {
	XMLName     xml.Name        `xml:"presentation"`
	SlideIdList *slideIdListXML `xml:"sldIdLst"`
}

type slideIdListXML struct {
	SlideId []slideIdXML `xml:"sldId"`
}

type slideIdXML struct {
	ID  string `xml:"id,attr"`
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

// slideXML represents a ppt/slides/slide*.xml file structure.
type slideXML struct {
	XMLName xml.Name `xml:"sld"`
	CSld    cSldXML  `xml:"cSld"`
}

type cSldXML struct {
	SpTree shapeTreeXML `xml:"spTree"`
}

// shapeTreeXML represents p:spTree. Text shapes and tables are kept in
// document order; grouped shapes are flattened into the tree.
type shapeTreeXML struct {
	Shapes []shapeXML
}

// shapeXML is a text body or a table; exactly one field is set.
type shapeXML struct {
	Text  *txBodyXML
	Table *tblXML
}

func (s *shapeTreeXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return s.decode(d)
}

func (s *shapeTreeXML) decode(d *xml.Decoder) error {
	return decodeChildren(d, func(el xml.StartElement) (bool, error) {
		switch el.Name.Local {
		case "sp":
			var sp spXML
			if err := d.DecodeElement(&sp, &el); err != nil {
				return true, err
			}
			if sp.TxBody != nil {
				s.Shapes = append(s.Shapes, shapeXML{Text: sp.TxBody})
			}
		case "graphicFrame":
			var gf graphicFrameXML
			if err := d.DecodeElement(&gf, &el); err != nil {
				return true, err
			}
			if tbl := gf.Graphic.GraphicData.Tbl; tbl != nil {
				s.Shapes = append(s.Shapes, shapeXML{Table: tbl})
			}
		case "grpSp":
			return true, s.decode(d)
		default:
			return false, nil
		}
		return true, nil
	})
}

// spXML represents a shape element.
type spXML struct {
	TxBody *txBodyXML `xml:"txBody"`
}

// txBodyXML represents text body content.
type txBodyXML struct {
	P []pXML `xml:"p"`
}

// pXML represents a:p. Runs, fields and line breaks are kept in order;
// line breaks are runs with Break set.
type pXML struct {
	Runs []rXML
}

// rXML represents a:r or a:fld.
type rXML struct {
	RPr   *rPrXML `xml:"rPr"`
	T     string  `xml:"t"`
	Break bool    `xml:"-"`
}

func (p *pXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return decodeChildren(d, func(el xml.StartElement) (bool, error) {
		switch el.Name.Local {
		case "r", "fld":
			var r rXML
			if err := d.DecodeElement(&r, &el); err != nil {
				return true, err
			}
			p.Runs = append(p.Runs, r)
			return true, nil
		case "br":
			p.Runs = append(p.Runs, rXML{Break: true})
		}
		return false, nil
	})
}

type rPrXML struct {
	B          string         `xml:"b,attr"` // xsd:boolean
	I          string         `xml:"i,attr"`
	HlinkClick *hlinkClickXML `xml:"hlinkClick"`
}

type hlinkClickXML struct {
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

// graphicFrameXML represents a graphic frame (tables, charts).
type graphicFrameXML struct {
	Graphic graphicXML `xml:"graphic"`
}

type graphicXML struct {
	GraphicData graphicDataXML `xml:"graphicData"`
}

type graphicDataXML struct {
	URI string  `xml:"uri,attr"`
	Tbl *tblXML `xml:"tbl"`
}

// tblXML represents a table.
type tblXML struct {
	TblGrid tblGridXML `xml:"tblGrid"`
	Tr      []trXML    `xml:"tr"`
}

type tblGridXML struct {
	GridCol []gridColXML `xml:"gridCol"`
}

type gridColXML struct {
	W int `xml:"w,attr"` // Width in EMUs
}

type trXML struct {
	Tc []tcXML `xml:"tc"`
}

// tcXML represents a:tc. A cell with hMerge or vMerge set is a slot hidden
// by the gridSpan or rowSpan of an earlier cell.
type tcXML struct {
	TxBody   *txBodyXML `xml:"txBody"`
	RowSpan  string     `xml:"rowSpan,attr"`
	GridSpan string     `xml:"gridSpan,attr"`
	HMerge   string     `xml:"hMerge,attr"`
	VMerge   string     `xml:"vMerge,attr"`
}

// relationshipsXML represents .rels files.
type relationshipsXML struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Relationship []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// corePropertiesXML represents docProps/core.xml.
type corePropertiesXML struct {
	XMLName  xml.Name `xml:"coreProperties"`
	Title    string   `xml:"title"`
	Subject  string   `xml:"subject"`
	Creator  string   `xml:"creator"`
	Keywords string   `xml:"keywords"`
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
