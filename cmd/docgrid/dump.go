package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dolphindoc/docgrid/export"
)

func newDumpCmd(a *app) *cobra.Command {
	var (
		ef         extractFlags
		formatName string
		pretty     bool
		width      int
		output     string
		tablesOnly bool
	)

	cmd := &cobra.Command{
		Use:   "dump FILE...",
		Short: "Write the tables of one or more files",
		Long: `Extract every file and write its document (paragraphs and tables) in the chosen format.
Files are read in parallel and written in argument order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.cfg.Export()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				if cfg.Format, err = export.ParseFormat(formatName); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("pretty") {
				cfg.Pretty = pretty
			}
			if cmd.Flags().Changed("width") {
				cfg.MaxCellWidth = width
			}

			files, err := a.loadAll(cmd.Context(), cmd, args, ef)
			if err != nil {
				return err
			}
			reportWarnings(cmd, files)

			out := cmd.OutOrStdout()
			var file *os.File
			if output != "" {
				if file, err = os.Create(output); err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer file.Close()
				out = file
				a.logger.Printf("writing %s to %s", cfg.Format, output)
			} else if f, ok := out.(*os.File); ok && cfg.Format == export.FormatMsgPack && isTerminal(f) {
				return fmt.Errorf("refusing to write MessagePack to a terminal; use -o")
			}

			if err := writeFiles(out, files, cfg, tablesOnly); err != nil {
				return err
			}
			if file != nil {
				return file.Close()
			}
			return nil
		},
	}

	ef.register(cmd)
	cmd.Flags().StringVarP(&formatName, "format", "f", "json", "output format (json|msgpack|markdown|csv|grid)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	cmd.Flags().IntVar(&width, "width", 0, "maximum grid column width (0 = default)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path (default: stdout)")
	cmd.Flags().BoolVar(&tablesOnly, "tables", false, "write tables only, without paragraphs")
	return cmd
}

// writeFiles writes each file's document, separating text output of
// consecutive files with a blank line.
func writeFiles(w io.Writer, files []loadedFile, cfg export.Config, tablesOnly bool) error {
	text := cfg.Format != export.FormatJSON && cfg.Format != export.FormatMsgPack
	for i, lf := range files {
		if i > 0 && text {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		var err error
		if tablesOnly {
			err = export.WriteTables(w, lf.doc.Tables(), cfg)
		} else {
			err = export.WriteDocument(w, lf.doc, cfg)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", lf.path, err)
		}
	}
	return nil
}
