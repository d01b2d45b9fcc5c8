package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	var ef extractFlags

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Report table dimensions and unoccupied coordinates",
		Long: `Extract every file without gap filling and report, per table, its dimensions,
cell count and whether every coordinate is covered. Exits non-zero when any table has gaps.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ef.noFill = true
			files, err := a.loadAll(cmd.Context(), cmd, args, ef)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			gappy := 0
			for _, lf := range files {
				tables := lf.doc.Tables()
				if len(tables) == 0 {
					fmt.Fprintf(out, "%s: %s\n", lf.path, dimColor.Sprint("no tables"))
					continue
				}
				for i, t := range tables {
					fmt.Fprintf(out, "%s: table %d: %dx%d, %d cells: ", lf.path, i+1, t.Rows(), t.Cols(), t.Len())
					gaps := t.Gaps()
					if len(gaps) == 0 {
						fmt.Fprintln(out, okColor.Sprint("ready"))
						continue
					}
					gappy++
					fmt.Fprintf(out, "%s %s\n",
						errColor.Sprintf("%d gaps", len(gaps)),
						dimColor.Sprintf("(first at row %d col %d)", gaps[0].Y, gaps[0].X))
				}
			}

			if gappy > 0 {
				a.logger.Printf("%d tables with gaps", gappy)
				return errGapsFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&ef.strict, "strict", false, "fail on overlapping HTML spans instead of clipping them")
	cmd.Flags().StringSliceVar(&ef.sheets, "sheet", nil, "XLSX sheets to read (repeatable; default: all)")
	cmd.Flags().StringVar(&ef.boilerplate, "boilerplate", "", "HTML boilerplate skipping (none|explicit|standard|aggressive)")
	return cmd
}
