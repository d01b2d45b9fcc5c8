package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dolphindoc/docgrid"
	"github.com/dolphindoc/docgrid/model"
)

// loadedFile is the result of extracting one input file.
type loadedFile struct {
	path     string
	doc      *model.Document
	warnings []docgrid.Warning
}

// loadAll extracts the given files in parallel. Results keep the argument
// order; the first failure cancels the remaining files.
func (a *app) loadAll(ctx context.Context, cmd *cobra.Command, paths []string, f extractFlags) ([]loadedFile, error) {
	extractors := make([]*docgrid.Extractor, len(paths))
	for i, path := range paths {
		ext, err := a.extractor(cmd, path, f)
		if err != nil {
			return nil, err
		}
		extractors[i] = ext
	}

	results := make([]loadedFile, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(runtime.GOMAXPROCS(0), max(len(paths), 1)))

	for i, path := range paths {
		i, path := i, path
		ext := extractors[i]
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			a.logger.Printf("reading %s", path)
			doc, warnings, err := ext.Document()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			a.logger.Printf("%s: %d tables, %d warnings", path, len(doc.Tables()), len(warnings))
			results[i] = loadedFile{path: path, doc: doc, warnings: warnings}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// reportWarnings prints the warnings of every file to the command's
// error stream.
func reportWarnings(cmd *cobra.Command, files []loadedFile) {
	for _, lf := range files {
		for _, w := range lf.warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %s\n", warnColor.Sprint("warning:"), lf.path, w.Message)
		}
	}
}
