package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dolphindoc/docgrid/model"
)

func newMoveCmd(a *app) *cobra.Command {
	var (
		ef    extractFlags
		table int
		at    string
		dir   string
	)

	cmd := &cobra.Command{
		Use:   "move FILE --dir DIR",
		Short: "Print the cell next to a coordinate",
		Long: `Find the cell covering --at in table --table (1-based) and print the cell reached
by moving one step in --dir (up, down, left, right or h, j, k, l), or "boundary".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := model.ParseDirection(dir)
			if err != nil {
				return err
			}
			row, col, err := parseAt(at)
			if err != nil {
				return err
			}

			ext, err := a.extractor(cmd, args[0], ef)
			if err != nil {
				return err
			}
			tables, _, err := ext.Tables()
			if err != nil {
				return err
			}
			if table < 1 || table > len(tables) {
				return fmt.Errorf("%s has %d tables, no table %d", args[0], len(tables), table)
			}

			t := tables[table-1]
			cell := t.CellAt(row, col)
			if cell == nil {
				return fmt.Errorf("no cell at row %d col %d of table %d", row, col, table)
			}

			next, err := cell.Move(d)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if next == nil {
				fmt.Fprintln(out, "boundary")
				return nil
			}
			fmt.Fprintf(out, "%s\n%s\n", next.Bounds(), next.Text())
			return nil
		},
	}

	ef.register(cmd)
	cmd.Flags().IntVarP(&table, "table", "t", 1, "table number, starting at 1")
	cmd.Flags().StringVar(&at, "at", "0,0", "starting coordinate as ROW,COL")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "direction (up|down|left|right)")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

// parseAt parses a "ROW,COL" coordinate.
func parseAt(s string) (row, col int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid coordinate %q (want ROW,COL)", s)
	}
	if row, err = strconv.Atoi(strings.TrimSpace(parts[0])); err != nil {
		return 0, 0, fmt.Errorf("invalid row in %q: %w", s, err)
	}
	if col, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
		return 0, 0, fmt.Errorf("invalid column in %q: %w", s, err)
	}
	if row < 0 || col < 0 {
		return 0, 0, fmt.Errorf("invalid coordinate %q: negative", s)
	}
	return row, col, nil
}
