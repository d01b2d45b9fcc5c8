// Package config loads the optional docgrid.toml settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dolphindoc/docgrid/export"
	"github.com/dolphindoc/docgrid/htmldoc"
)

// FileName is the settings file looked up from the working directory.
const FileName = "docgrid.toml"

// Color modes accepted by [ui].color.
const (
	ColorAuto = "auto"
	ColorOn   = "on"
	ColorOff  = "off"
)

// Config mirrors docgrid.toml. Keys left out of the file keep the values
// from Default.
type Config struct {
	Output  OutputConfig  `toml:"output"`
	Extract ExtractConfig `toml:"extract"`
	UI      UIConfig      `toml:"ui"`
}

type OutputConfig struct {
	Format       string `toml:"format"`
	Pretty       bool   `toml:"pretty"`
	MaxCellWidth int    `toml:"max_cell_width"`
}

type ExtractConfig struct {
	Strict      bool     `toml:"strict"`
	FillGaps    bool     `toml:"fill_gaps"`
	Boilerplate string   `toml:"boilerplate"`
	Sheets      []string `toml:"sheets"`
}

type UIConfig struct {
	Color string `toml:"color"`
}

// Default returns the settings used when no file is found.
func Default() Config {
	return Config{
		Output:  OutputConfig{Format: export.FormatJSON.String()},
		Extract: ExtractConfig{FillGaps: true, Boilerplate: htmldoc.SkipStandard.String()},
		UI:      UIConfig{Color: ColorAuto},
	}
}

// Find walks up from startDir looking for docgrid.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes the file at path over Default and validates the keys it
// sets.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}

	if meta.IsDefined("output", "format") {
		if _, err := export.ParseFormat(cfg.Output.Format); err != nil {
			return Config{}, fmt.Errorf("%s: [output].format: %w", path, err)
		}
	}
	if meta.IsDefined("output", "max_cell_width") && cfg.Output.MaxCellWidth < 0 {
		return Config{}, fmt.Errorf("%s: [output].max_cell_width must not be negative", path)
	}
	if meta.IsDefined("extract", "boilerplate") {
		if _, err := htmldoc.ParseSkipMode(cfg.Extract.Boilerplate); err != nil {
			return Config{}, fmt.Errorf("%s: [extract].boilerplate: %w", path, err)
		}
	}
	if meta.IsDefined("extract", "sheets") {
		for i, s := range cfg.Extract.Sheets {
			if strings.TrimSpace(s) == "" {
				return Config{}, fmt.Errorf("%s: [extract].sheets[%d] is empty", path, i)
			}
		}
	}
	if meta.IsDefined("ui", "color") {
		if _, err := ParseColor(cfg.UI.Color); err != nil {
			return Config{}, fmt.Errorf("%s: [ui].color: %w", path, err)
		}
	}
	return cfg, nil
}

// Resolve loads explicit when it is set, otherwise the docgrid.toml found
// from startDir, otherwise Default. It returns the path that was loaded,
// or "" for the defaults.
func Resolve(explicit, startDir string) (Config, string, error) {
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// ParseColor normalises a color mode name.
func ParseColor(s string) (string, error) {
	switch mode := strings.ToLower(strings.TrimSpace(s)); mode {
	case ColorAuto, ColorOn, ColorOff:
		return mode, nil
	case "":
		return ColorAuto, nil
	}
	return "", fmt.Errorf("unknown color mode %q (want auto, on or off)", s)
}

// Export returns the export settings.
func (c Config) Export() (export.Config, error) {
	f, err := export.ParseFormat(c.Output.Format)
	if err != nil {
		return export.Config{}, err
	}
	return export.Config{
		Format:       f,
		Pretty:       c.Output.Pretty,
		MaxCellWidth: c.Output.MaxCellWidth,
	}, nil
}

// SkipMode returns the HTML boilerplate mode.
func (c Config) SkipMode() (htmldoc.SkipMode, error) {
	return htmldoc.ParseSkipMode(c.Extract.Boilerplate)
}
