// Command docgrid extracts grid tables from HTML, XLSX, DOCX, PPTX and ODT
// files, dumps them as records or text, and navigates them cell by cell.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dolphindoc/docgrid"
	"github.com/dolphindoc/docgrid/htmldoc"
	"github.com/dolphindoc/docgrid/internal/config"
)

// errGapsFound makes "check" exit non-zero without printing usage.
var errGapsFound = errors.New("tables with gaps found")

// app carries the settings shared by all subcommands.
type app struct {
	configPath string
	colorMode  string
	verbose    bool

	cfg    config.Config
	logger *log.Logger
}

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
	dimColor  = color.New(color.Faint)
)

func newRootCmd() *cobra.Command {
	a := &app{logger: log.New(io.Discard, "", 0)}

	rootCmd := &cobra.Command{
		Use:           "docgrid",
		Short:         "Extract and navigate grid tables",
		Long:          `docgrid reads the tables of HTML, XLSX, DOCX, PPTX and ODT files into grids of merged cells that can be dumped, checked for gaps and navigated.`,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "settings file (default: docgrid.toml found from the working directory)")
	rootCmd.PersistentFlags().StringVar(&a.colorMode, "color", config.ColorAuto, "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log progress to stderr")

	rootCmd.AddCommand(
		newDumpCmd(a),
		newCheckCmd(a),
		newMoveCmd(a),
		newNavCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// setup loads the settings file and applies the global flags.
func (a *app) setup(cmd *cobra.Command) error {
	if a.verbose {
		a.logger = log.New(cmd.ErrOrStderr(), "docgrid: ", log.Ltime)
	}

	cfg, path, err := config.Resolve(a.configPath, ".")
	if err != nil {
		return err
	}
	a.cfg = cfg
	if path != "" {
		a.logger.Printf("using settings from %s", path)
	}

	mode := cfg.UI.Color
	if cmd.Flags().Changed("color") {
		mode = a.colorMode
	}
	mode, err = config.ParseColor(mode)
	if err != nil {
		return err
	}
	switch mode {
	case config.ColorOn:
		color.NoColor = false
	case config.ColorOff:
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stdout)
	}
	return nil
}

// extractFlags are the extraction options shared by dump, check, move and nav.
type extractFlags struct {
	strict      bool
	noFill      bool
	sheets      []string
	boilerplate string
}

func (f *extractFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail on overlapping HTML spans instead of clipping them")
	cmd.Flags().BoolVar(&f.noFill, "no-fill", false, "leave unoccupied coordinates empty")
	cmd.Flags().StringSliceVar(&f.sheets, "sheet", nil, "XLSX sheets to read (repeatable; default: all)")
	cmd.Flags().StringVar(&f.boilerplate, "boilerplate", "", "HTML boilerplate skipping (none|explicit|standard|aggressive)")
}

// extractor builds the extractor for path from the flags, falling back to
// the settings file for flags that were not given.
func (a *app) extractor(cmd *cobra.Command, path string, f extractFlags) (*docgrid.Extractor, error) {
	ext := docgrid.Open(path)

	if f.strict || a.cfg.Extract.Strict {
		ext = ext.Strict()
	}
	if f.noFill || !a.cfg.Extract.FillGaps {
		ext = ext.NoFill()
	}

	sheets := a.cfg.Extract.Sheets
	if cmd.Flags().Changed("sheet") {
		sheets = f.sheets
	}
	if len(sheets) > 0 {
		ext = ext.Sheets(sheets...)
	}

	mode, err := a.cfg.SkipMode()
	if cmd.Flags().Changed("boilerplate") {
		mode, err = htmldoc.ParseSkipMode(f.boilerplate)
	}
	if err != nil {
		return nil, err
	}
	return ext.Boilerplate(mode), nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errGapsFound) {
			fmt.Fprintln(os.Stderr, errColor.Sprint("error:"), err)
		}
		os.Exit(1)
	}
}
