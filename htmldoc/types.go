// Package htmldoc builds documents and grid tables from HTML.
//
// Every <table> element becomes a model.Table laid out with the HTML
// row/column slot rules: a column cursor skips slots taken by rowspans from
// earlier rows, colspan is clamped to 1..1000 and rowspan to 0..65534, where
// rowspan="0" extends the cell to the last row. Text outside tables becomes
// free-standing paragraphs.
package htmldoc

import (
	"fmt"
	"strings"
)

const (
	maxColSpan = 1000
	maxRowSpan = 65534
)

// SkipMode controls how navigation, headers, and footers are filtered.
type SkipMode int

const (
	// SkipNone includes all content without filtering.
	SkipNone SkipMode = iota

	// SkipExplicit skips only explicit semantic HTML5 elements:
	// <nav>, <aside>, and ARIA roles (role="navigation", role="complementary").
	// <header> and <footer> are only skipped when they are direct children of <body>
	// or a single top-level wrapper element.
	SkipExplicit

	// SkipStandard (default) adds class/id pattern matching such as
	// nav, navbar, menu, footer and sidebar.
	SkipStandard

	// SkipAggressive adds link-density heuristics: sections where most of
	// the text sits inside links are dropped.
	SkipAggressive
)

func (m SkipMode) String() string {
	switch m {
	case SkipNone:
		return "none"
	case SkipExplicit:
		return "explicit"
	case SkipStandard:
		return "standard"
	case SkipAggressive:
		return "aggressive"
	default:
		return "unknown"
	}
}

// ParseSkipMode parses the names returned by SkipMode.String.
func ParseSkipMode(s string) (SkipMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return SkipNone, nil
	case "explicit":
		return SkipExplicit, nil
	case "standard", "":
		return SkipStandard, nil
	case "aggressive":
		return SkipAggressive, nil
	}
	return SkipNone, fmt.Errorf("htmldoc: unknown boilerplate mode %q", s)
}

// Options configures how HTML is turned into a document.
type Options struct {
	// Strict reports overlapping row/column spans as errors instead of
	// clipping the later cell to the free region.
	Strict bool
	// FillGaps pads ragged rows with empty 1x1 cells so every table is
	// ready for navigation.
	FillGaps bool
	// Boilerplate selects which navigation sections are skipped.
	Boilerplate SkipMode
}

// DefaultOptions returns lenient options that fill gaps and skip
// boilerplate in SkipStandard mode.
func DefaultOptions() Options {
	return Options{
		FillGaps:    true,
		Boilerplate: SkipStandard,
	}
}
