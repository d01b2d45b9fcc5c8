package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dolphindoc/docgrid/export"
	"github.com/dolphindoc/docgrid/htmldoc"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[output]
format = "grid"
max_cell_width = 24

[extract]
boilerplate = "aggressive"
sheets = ["Summary", "Detail"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	exp, err := cfg.Export()
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if exp.Format != export.FormatGrid || exp.MaxCellWidth != 24 || exp.Pretty {
		t.Errorf("Export() = %+v", exp)
	}

	mode, err := cfg.SkipMode()
	if err != nil || mode != htmldoc.SkipAggressive {
		t.Errorf("SkipMode() = %v, %v, want aggressive", mode, err)
	}

	// Keys not in the file keep their defaults
	if !cfg.Extract.FillGaps {
		t.Error("FillGaps should default to true")
	}
	if cfg.UI.Color != ColorAuto {
		t.Errorf("Color = %q, want auto", cfg.UI.Color)
	}
	if len(cfg.Extract.Sheets) != 2 || cfg.Extract.Sheets[1] != "Detail" {
		t.Errorf("Sheets = %v", cfg.Extract.Sheets)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", "[output\n", "failed to parse TOML"},
		{"format", "[output]\nformat = \"xml\"\n", "[output].format"},
		{"width", "[output]\nmax_cell_width = -1\n", "max_cell_width"},
		{"boilerplate", "[extract]\nboilerplate = \"some\"\n", "[extract].boilerplate"},
		{"empty sheet", "[extract]\nsheets = [\"\"]\n", "sheets[0]"},
		{"color", "[ui]\ncolor = \"rainbow\"\n", "[ui].color"},
		{"unknown key", "[output]\nwidth = 3\n", "unknown key output.width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}

	if _, ok, err := Find(nested); err != nil || ok {
		t.Fatalf("Find() without file = %v, %v, want not found", ok, err)
	}

	want := writeConfig(t, root, "[output]\npretty = true\n")
	got, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find() = %q, %v, %v", got, ok, err)
	}
	if got != want {
		t.Errorf("Find() = %q, want %q", got, want)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()

	cfg, path, err := Resolve("", dir)
	if err != nil || path != "" {
		t.Fatalf("Resolve() = %q, %v, want defaults", path, err)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("default format = %q, want json", cfg.Output.Format)
	}

	explicit := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(explicit, []byte("[output]\npretty = true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	cfg, path, err = Resolve(explicit, dir)
	if err != nil || path != explicit || !cfg.Output.Pretty {
		t.Errorf("Resolve(explicit) = %+v, %q, %v", cfg, path, err)
	}

	if _, _, err := Resolve(filepath.Join(dir, "missing.toml"), dir); err == nil {
		t.Error("Resolve() expected error for missing explicit file")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"auto", ColorAuto, false},
		{"ON", ColorOn, false},
		{" off ", ColorOff, false},
		{"", ColorAuto, false},
		{"always", "", true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseColor(%q) = %q, %v", tt.in, got, err)
		}
	}
}
