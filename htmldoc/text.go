package htmldoc

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/dolphindoc/docgrid/model"
)

// textStyle is the inline style in effect while walking a subtree.
type textStyle struct {
	bold   bool
	italic bool
	link   string
}

// textCollector turns a subtree into paragraphs. Block elements and <br>
// end the current paragraph; tables are handed to onTable instead of being
// flattened into text.
type textCollector struct {
	filter  *boilerplateFilter
	emit    func(*model.TextParagraph) error
	onTable func(*html.Node) error
	pending []model.TextSegment
}

func (c *textCollector) walk(n *html.Node, st textStyle) error {
	switch n.Type {
	case html.TextNode:
		if n.Data != "" {
			c.pending = append(c.pending, model.TextSegment{
				Text:   n.Data,
				Bold:   st.bold,
				Italic: st.italic,
				Link:   st.link,
			})
		}
		return nil
	case html.ElementNode:
	case html.DocumentNode:
		return c.walkChildren(n, st)
	default:
		return nil
	}

	if shouldSkipElement(n.Data) || (c.filter != nil && c.filter.skip(n)) {
		return nil
	}

	switch n.Data {
	case "table":
		if err := c.flush(); err != nil {
			return err
		}
		if c.onTable == nil {
			return nil
		}
		return c.onTable(n)
	case "br", "hr":
		return c.flush()
	case "b", "strong":
		st.bold = true
	case "i", "em":
		st.italic = true
	case "a":
		if href := getAttr(n, "href"); href != "" {
			st.link = href
		}
	}

	if !isBlockElement(n.Data) {
		return c.walkChildren(n, st)
	}

	if err := c.flush(); err != nil {
		return err
	}
	if err := c.walkChildren(n, st); err != nil {
		return err
	}
	return c.flush()
}

func (c *textCollector) walkChildren(n *html.Node, st textStyle) error {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if err := c.walk(child, st); err != nil {
			return err
		}
	}
	return nil
}

// flush emits the pending segments as one paragraph, if they carry any text.
func (c *textCollector) flush() error {
	segs := normalizeSegments(c.pending)
	c.pending = c.pending[:0]
	if len(segs) == 0 {
		return nil
	}

	p := model.NewTextParagraph("")
	for _, seg := range segs {
		p.AppendSegment(seg)
	}
	return c.emit(p)
}

// normalizeSegments collapses whitespace runs across segment boundaries,
// trims the paragraph ends and merges neighbours with the same style.
func normalizeSegments(in []model.TextSegment) []model.TextSegment {
	var out []model.TextSegment
	space := true // swallow leading whitespace

	for _, seg := range in {
		var b strings.Builder
		for _, r := range seg.Text {
			if unicode.IsSpace(r) {
				if !space {
					b.WriteByte(' ')
					space = true
				}
				continue
			}
			b.WriteRune(r)
			space = false
		}
		if b.Len() == 0 {
			continue
		}

		seg.Text = b.String()
		if n := len(out); n > 0 && sameStyle(out[n-1], seg) {
			out[n-1].Text += seg.Text
			continue
		}
		out = append(out, seg)
	}

	// Trailing whitespace
	for len(out) > 0 {
		last := &out[len(out)-1]
		last.Text = strings.TrimRightFunc(last.Text, unicode.IsSpace)
		if last.Text != "" {
			break
		}
		out = out[:len(out)-1]
	}
	return out
}

func sameStyle(a, b model.TextSegment) bool {
	return a.Bold == b.Bold && a.Italic == b.Italic && a.Link == b.Link
}

// shouldSkipElement returns true if the element should be skipped during content extraction.
func shouldSkipElement(tagName string) bool {
	switch tagName {
	case "head", "script", "style", "noscript", "template", "svg", "math", "iframe", "object", "embed":
		return true
	}
	return false
}

func isBlockElement(tagName string) bool {
	switch tagName {
	case "p", "div", "section", "article", "main", "header", "footer", "address",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "dl", "dt", "dd",
		"blockquote", "pre", "figure", "figcaption", "caption",
		"tr", "td", "th":
		return true
	}
	return false
}

// getTextContent extracts all text content from a node and its descendants.
func getTextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && shouldSkipElement(n.Data) && n.Data != "head" {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
