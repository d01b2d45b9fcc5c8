package docgrid

import "github.com/dolphindoc/docgrid/htmldoc"

// ExtractOptions holds configuration for table extraction.
type ExtractOptions struct {
	// Overlapping HTML spans fail instead of being clipped
	strict bool

	// Leave unoccupied coordinates empty instead of padding them
	noFill bool

	// XLSX sheet selection; nil means every sheet
	sheets []string

	// HTML boilerplate skipping
	boilerplate htmldoc.SkipMode
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		boilerplate: htmldoc.SkipStandard,
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o
	if o.sheets != nil {
		newOpts.sheets = make([]string, len(o.sheets))
		copy(newOpts.sheets, o.sheets)
	}
	return newOpts
}
