package render

import (
	"strings"
	"testing"

	"github.com/dolphindoc/docgrid/model"
)

func buildTable(t *testing.T, rows, cols int, cells map[model.Rect]string) *model.Table {
	t.Helper()
	table, err := model.NewTable(rows, cols)
	if err != nil {
		t.Fatalf("NewTable() failed: %v", err)
	}
	for rect, text := range cells {
		c := model.NewCell(rect)
		if text != "" {
			if err := c.AppendParagraph(model.NewTextParagraph(text)); err != nil {
				t.Fatalf("AppendParagraph() failed: %v", err)
			}
		}
		if err := table.AddCell(c); err != nil {
			t.Fatalf("AddCell(%v) failed: %v", rect, err)
		}
	}
	return table
}

func TestBoard(t *testing.T) {
	tests := []struct {
		name  string
		rows  int
		cols  int
		cells map[model.Rect]string
		want  string
	}{
		{
			name: "merged header row",
			rows: 2, cols: 2,
			cells: map[model.Rect]string{
				model.NewRect(0, 0, 2, 1): "A",
				model.NewRect(0, 1, 1, 1): "b",
				model.NewRect(1, 1, 1, 1): "c",
			},
			want: "┌───┐\n" +
				"│A  │\n" +
				"├─┬─┤\n" +
				"│b│c│\n" +
				"└─┴─┘\n",
		},
		{
			name: "tall cell",
			rows: 2, cols: 2,
			cells: map[model.Rect]string{
				model.NewRect(0, 0, 1, 2): "T",
				model.NewRect(1, 0, 1, 1): "x",
				model.NewRect(1, 1, 1, 1): "y",
			},
			want: "┌─┬─┐\n" +
				"│T│x│\n" +
				"│ ├─┤\n" +
				"│ │y│\n" +
				"└─┴─┘\n",
		},
		{
			name: "grid of four",
			rows: 2, cols: 2,
			cells: map[model.Rect]string{
				model.NewRect(0, 0, 1, 1): "ab",
				model.NewRect(1, 0, 1, 1): "c",
				model.NewRect(0, 1, 1, 1): "d",
				model.NewRect(1, 1, 1, 1): "e",
			},
			want: "┌──┬─┐\n" +
				"│ab│c│\n" +
				"├──┼─┤\n" +
				"│d │e│\n" +
				"└──┴─┘\n",
		},
		{
			name: "unoccupied coordinate",
			rows: 1, cols: 2,
			cells: map[model.Rect]string{
				model.NewRect(0, 0, 1, 1): "a",
			},
			want: "┌─┬─┐\n" +
				"│a│ │\n" +
				"└─┴─┘\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := buildTable(t, tt.rows, tt.cols, tt.cells)
			if got := Board(table, Options{}); got != tt.want {
				t.Errorf("Board() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestBoardTruncatesLabels(t *testing.T) {
	table := buildTable(t, 1, 1, map[model.Rect]string{
		model.NewRect(0, 0, 1, 1): "abcdef",
	})

	got := Board(table, Options{MaxCellWidth: 3})
	want := "┌───┐\n│ab…│\n└───┘\n"
	if got != want {
		t.Errorf("Board() =\n%s\nwant\n%s", got, want)
	}
}

func TestBoardWideRunes(t *testing.T) {
	table := buildTable(t, 1, 1, map[model.Rect]string{
		model.NewRect(0, 0, 1, 1): "表格",
	})

	got := Board(table, Options{})
	if !strings.Contains(got, "│表格│") {
		t.Errorf("Board() = %q, want label sized by display width", got)
	}
	if !strings.HasPrefix(got, "┌────┐") {
		t.Errorf("Board() top = %q, want four columns wide", strings.SplitN(got, "\n", 2)[0])
	}
}

func TestBoardEmptyTable(t *testing.T) {
	table, err := model.NewTable(0, 0)
	if err != nil {
		t.Fatalf("NewTable() failed: %v", err)
	}
	if got := Board(table, Options{}); got != "" {
		t.Errorf("Board() = %q, want empty", got)
	}
}

func TestLabel(t *testing.T) {
	c := model.NewCell(model.NewRect(0, 0, 1, 1))
	if Label(c) != "" {
		t.Errorf("Label(empty) = %q", Label(c))
	}
	_ = c.AppendParagraph(model.NewTextParagraph("  first \n line "))
	_ = c.AppendParagraph(model.NewTextParagraph("second"))
	if got := Label(c); got != "first line" {
		t.Errorf("Label() = %q, want %q", got, "first line")
	}
	if Label(nil) != "" {
		t.Error("Label(nil) should be empty")
	}
}

func TestJunction(t *testing.T) {
	tests := []struct {
		up, down, left, right bool
		want                  rune
	}{
		{true, true, true, true, '┼'},
		{false, true, false, true, '┌'},
		{true, false, true, false, '┘'},
		{true, true, false, false, '│'},
		{false, false, true, true, '─'},
		{false, false, false, false, ' '},
	}

	for _, tt := range tests {
		if got := junction(tt.up, tt.down, tt.left, tt.right); got != tt.want {
			t.Errorf("junction(%v, %v, %v, %v) = %q, want %q", tt.up, tt.down, tt.left, tt.right, got, tt.want)
		}
	}
}
