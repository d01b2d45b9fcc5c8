package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dolphindoc/docgrid/internal/tui"
)

func newNavCmd(a *app) *cobra.Command {
	var ef extractFlags

	cmd := &cobra.Command{
		Use:   "nav FILE...",
		Short: "Navigate tables interactively",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return errors.New("nav needs an interactive terminal")
			}

			files, err := a.loadAll(cmd.Context(), cmd, args, ef)
			if err != nil {
				return err
			}
			reportWarnings(cmd, files)

			var entries []tui.Entry
			for _, lf := range files {
				for i, t := range lf.doc.Tables() {
					entries = append(entries, tui.Entry{Name: fmt.Sprintf("%s #%d", lf.path, i+1), Table: t})
				}
			}
			return tui.Run(entries, a.cfg.Output.MaxCellWidth)
		},
	}

	ef.register(cmd)
	return cmd
}
