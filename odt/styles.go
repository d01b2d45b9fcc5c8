package odt

// emphasis is the bold/italic state a style sets. The set flags record
// whether the style chain defines the property at all, so a span can
// override its paragraph's style in either direction.
type emphasis struct {
	bold, italic       bool
	setBold, setItalic bool
}

// over returns e with the properties e leaves undefined taken from base.
func (e emphasis) over(base emphasis) emphasis {
	if !e.setBold {
		e.bold, e.setBold = base.bold, base.setBold
	}
	if !e.setItalic {
		e.italic, e.setItalic = base.italic, base.setItalic
	}
	return e
}

// styleResolver resolves text emphasis through style inheritance. Automatic
// styles from content.xml shadow same-named styles from styles.xml.
type styleResolver struct {
	styles map[string]*styleDefXML
	cache  map[string]emphasis
}

func newStyleResolver(lists ...styleListXML) *styleResolver {
	sr := &styleResolver{
		styles: make(map[string]*styleDefXML),
		cache:  make(map[string]emphasis),
	}
	for _, list := range lists {
		for i := range list.Styles {
			def := &list.Styles[i]
			sr.styles[def.Name] = def
		}
	}
	return sr
}

// resolve returns the emphasis of a style, following parent-style-name
// links. Cycles end the walk.
func (sr *styleResolver) resolve(name string) emphasis {
	if name == "" {
		return emphasis{}
	}
	if e, ok := sr.cache[name]; ok {
		return e
	}

	var e emphasis
	visited := make(map[string]bool)
	for current := name; current != "" && !visited[current]; {
		visited[current] = true
		def, ok := sr.styles[current]
		if !ok {
			break
		}
		e = e.over(def.emphasis())
		current = def.ParentStyleName
	}

	sr.cache[name] = e
	return e
}

// emphasis returns the properties this definition sets itself.
func (def *styleDefXML) emphasis() emphasis {
	var e emphasis
	tp := def.TextProps
	if tp == nil {
		return e
	}
	switch tp.FontWeight {
	case "":
	case "bold", "600", "700", "800", "900":
		e.bold, e.setBold = true, true
	default:
		e.setBold = true
	}
	switch tp.FontStyle {
	case "":
	case "italic", "oblique":
		e.italic, e.setItalic = true, true
	default:
		e.setItalic = true
	}
	return e
}
