package htmldoc

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// boilerplatePattern matches class and id values that usually mark site
// chrome rather than content.
var boilerplatePattern = regexp.MustCompile(
	`(?i)(^|[^a-z])(nav|navbar|navigation|menu|topnav|sidenav|breadcrumb|breadcrumbs|` +
		`site-header|page-header|masthead|banner|` +
		`footer|site-footer|page-footer|colophon|` +
		`sidebar|widget-area|widget|aside)([^a-z]|$)`)

// boilerplateFilter decides which elements are left out of the document.
type boilerplateFilter struct {
	mode    SkipMode
	body    *html.Node
	wrapper *html.Node // single <div>/<main> directly under body, if any
	density map[*html.Node]float64
}

func newBoilerplateFilter(mode SkipMode, doc *html.Node) *boilerplateFilter {
	f := &boilerplateFilter{
		mode:    mode,
		density: make(map[*html.Node]float64),
	}
	f.body = findElement(doc, "body")
	if f.body == nil {
		f.body = doc
	}
	f.wrapper = soleWrapper(f.body)
	return f
}

// soleWrapper handles the common <body><div id="wrapper">...</div></body>
// layout, where the wrapper's children are the real top level.
func soleWrapper(body *html.Node) *html.Node {
	var found *html.Node
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "div", "main":
			if found != nil {
				return nil
			}
			found = c
		case "script", "style", "noscript", "template":
		default:
			return nil
		}
	}
	return found
}

// skip reports whether n and its subtree should be left out.
func (f *boilerplateFilter) skip(n *html.Node) bool {
	if n.Type != html.ElementNode || f.mode == SkipNone {
		return false
	}
	if f.explicit(n) {
		return true
	}
	if f.mode >= SkipStandard && f.matchesPattern(n) {
		return true
	}
	return f.mode >= SkipAggressive && f.linkHeavy(n)
}

func (f *boilerplateFilter) explicit(n *html.Node) bool {
	switch n.Data {
	case "nav", "aside":
		return true
	case "header", "footer":
		return f.topLevel(n)
	}

	switch getAttr(n, "role") {
	case "navigation", "complementary":
		return true
	case "banner", "contentinfo":
		return f.topLevel(n)
	}
	return false
}

func (f *boilerplateFilter) topLevel(n *html.Node) bool {
	p := n.Parent
	return p != nil && (p == f.body || (f.wrapper != nil && p == f.wrapper))
}

func (f *boilerplateFilter) matchesPattern(n *html.Node) bool {
	for _, key := range []string{"class", "id"} {
		if v := getAttr(n, key); v != "" && boilerplatePattern.MatchString(v) {
			return true
		}
	}
	return false
}

// linkHeavy flags block containers where more than 60% of the text is
// link text and there are at least four links.
func (f *boilerplateFilter) linkHeavy(n *html.Node) bool {
	switch n.Data {
	case "div", "section", "ul", "ol":
	default:
		return false
	}
	return f.linkDensity(n) > 0.6 && countLinks(n) >= 4
}

func (f *boilerplateFilter) linkDensity(n *html.Node) float64 {
	if d, ok := f.density[n]; ok {
		return d
	}
	var d float64
	if total := textLength(n); total > 0 {
		d = float64(linkTextLength(n)) / float64(total)
	}
	f.density[n] = d
	return d
}

func textLength(n *html.Node) int {
	if n.Type == html.TextNode {
		return len(strings.TrimSpace(n.Data))
	}
	total := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		total += textLength(c)
	}
	return total
}

func linkTextLength(n *html.Node) int {
	if n.Type == html.ElementNode && n.Data == "a" {
		return textLength(n)
	}
	total := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		total += linkTextLength(c)
	}
	return total
}

func countLinks(n *html.Node) int {
	count := 0
	if n.Type == html.ElementNode && n.Data == "a" {
		count = 1
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count += countLinks(c)
	}
	return count
}

// getAttr returns the value of an attribute on a node, or empty string if not found.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}
