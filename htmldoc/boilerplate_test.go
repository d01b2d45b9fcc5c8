package htmldoc

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestBoilerplateModes(t *testing.T) {
	tests := []struct {
		name           string
		html           string
		mode           SkipMode
		wantContains   []string
		wantNotContain []string
	}{
		{
			name: "SkipNone keeps everything",
			html: `<body>
				<nav>Home About</nav>
				<main><p>Main content</p></main>
				<footer>Copyright 2024</footer>
			</body>`,
			mode:         SkipNone,
			wantContains: []string{"Home About", "Main content", "Copyright 2024"},
		},
		{
			name: "SkipExplicit removes nav and aside",
			html: `<body>
				<nav>Navigation links</nav>
				<aside>Sidebar content</aside>
				<main><p>Main content</p></main>
			</body>`,
			mode:           SkipExplicit,
			wantContains:   []string{"Main content"},
			wantNotContain: []string{"Navigation links", "Sidebar content"},
		},
		{
			name: "SkipExplicit removes ARIA roles",
			html: `<body>
				<div role="navigation">Role nav</div>
				<div role="complementary">Role aside</div>
				<p>Body text</p>
			</body>`,
			mode:           SkipExplicit,
			wantContains:   []string{"Body text"},
			wantNotContain: []string{"Role nav", "Role aside"},
		},
		{
			name: "SkipExplicit keeps header inside article",
			html: `<body>
				<header>Site header</header>
				<article><header>Article header</header><p>Article body</p></article>
				<footer>Site footer</footer>
			</body>`,
			mode:           SkipExplicit,
			wantContains:   []string{"Article header", "Article body"},
			wantNotContain: []string{"Site header", "Site footer"},
		},
		{
			name: "SkipExplicit treats sole wrapper children as top level",
			html: `<body><div id="page">
				<header>Wrapped header</header>
				<p>Wrapped body</p>
			</div></body>`,
			mode:           SkipExplicit,
			wantContains:   []string{"Wrapped body"},
			wantNotContain: []string{"Wrapped header"},
		},
		{
			name: "SkipExplicit ignores class patterns",
			html: `<body>
				<div class="navbar">Class nav</div>
				<p>Body text</p>
			</body>`,
			mode:         SkipExplicit,
			wantContains: []string{"Class nav", "Body text"},
		},
		{
			name: "SkipStandard matches class and id patterns",
			html: `<body>
				<div class="site-header">Header by class</div>
				<div id="sidebar">Sidebar by id</div>
				<div class="main-menu">Menu by class</div>
				<p>Body text</p>
			</body>`,
			mode:           SkipStandard,
			wantContains:   []string{"Body text"},
			wantNotContain: []string{"Header by class", "Sidebar by id", "Menu by class"},
		},
		{
			name: "SkipStandard respects word boundaries",
			html: `<body>
				<div class="canvas">Canvas text</div>
				<div class="menuitems-list">Compound text</div>
				<p>Body text</p>
			</body>`,
			mode:         SkipStandard,
			wantContains: []string{"Canvas text", "Compound text", "Body text"},
		},
		{
			name: "SkipAggressive drops link-heavy blocks",
			html: `<body>
				<div><a href="/1">One</a> <a href="/2">Two</a> <a href="/3">Three</a> <a href="/4">Four</a></div>
				<p>Body text with <a href="/x">one link</a> and plenty of ordinary words around it.</p>
			</body>`,
			mode:           SkipAggressive,
			wantContains:   []string{"Body text", "one link"},
			wantNotContain: []string{"Three"},
		},
		{
			name: "SkipStandard keeps link-heavy blocks",
			html: `<body>
				<div><a href="/1">One</a> <a href="/2">Two</a> <a href="/3">Three</a> <a href="/4">Four</a></div>
			</body>`,
			mode:         SkipStandard,
			wantContains: []string{"Three"},
		},
		{
			name: "tables inside nav are skipped",
			html: `<body>
				<nav><table><tr><td>Nav cell</td></tr></table></nav>
				<table><tr><td>Data cell</td></tr></table>
			</body>`,
			mode:           SkipExplicit,
			wantContains:   []string{"Data cell"},
			wantNotContain: []string{"Nav cell"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Boilerplate = tt.mode
			text := mustOpen(t, tt.html, opts).Document().ExtractText()

			for _, want := range tt.wantContains {
				if !strings.Contains(text, want) {
					t.Errorf("text missing %q:\n%s", want, text)
				}
			}
			for _, unwanted := range tt.wantNotContain {
				if strings.Contains(text, unwanted) {
					t.Errorf("text should not contain %q:\n%s", unwanted, text)
				}
			}
		})
	}
}

func TestDefaultOptionsUseStandard(t *testing.T) {
	opts := DefaultOptions()
	if opts.Boilerplate != SkipStandard {
		t.Errorf("DefaultOptions().Boilerplate = %v, want standard", opts.Boilerplate)
	}
	if !opts.FillGaps || opts.Strict {
		t.Errorf("DefaultOptions() = %+v, want lenient with gap filling", opts)
	}
}

func TestLinkDensityCaching(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(
		`<body><div id="links"><a href="/a">aaaa</a> bb</div></body>`))
	if err != nil {
		t.Fatalf("html.Parse() failed: %v", err)
	}

	f := newBoilerplateFilter(SkipAggressive, doc)
	div := findElement(doc, "div")

	first := f.linkDensity(div)
	if first < 0.6 || first > 0.7 {
		t.Errorf("linkDensity() = %v, want 4/6", first)
	}
	if _, ok := f.density[div]; !ok {
		t.Error("density should be cached after first call")
	}
	if second := f.linkDensity(div); second != first {
		t.Errorf("cached linkDensity() = %v, want %v", second, first)
	}
}
