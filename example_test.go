package docgrid_test

import (
	"fmt"
	"log"
	"os"

	"github.com/dolphindoc/docgrid"
	"github.com/dolphindoc/docgrid/export"
	"github.com/dolphindoc/docgrid/model"
)

// These examples mirror the package documentation. They need input files
// and are compiled but not run.

func Example_extractTables() {
	tables, warnings, err := docgrid.Open("report.html").Tables()
	if err != nil {
		log.Fatal(err)
	}

	for _, t := range tables {
		fmt.Printf("%dx%d, %d cells\n", t.Rows(), t.Cols(), t.Len())
	}

	for _, w := range warnings {
		fmt.Println("Warning:", w.Message)
	}
}

func Example_extractWithOptions() {
	doc, warnings, err := docgrid.Open("book.xlsx").
		Sheets("Summary", "Detail"). // XLSX only
		NoFill().                    // Keep gaps; tables with gaps cannot be navigated
		Document()
	_ = doc
	_ = warnings
	_ = err
}

func Example_navigate() {
	tables := docgrid.MustTables(docgrid.Open("report.docx").Tables())

	cell := tables[0].Cells()[0]
	for cell != nil {
		fmt.Println(cell.Text())
		next, err := cell.Move(model.DirRight)
		if err != nil {
			log.Fatal(err) // model.ErrNotReady when the table has gaps
		}
		cell = next
	}
}

func Example_export() {
	doc, _, err := docgrid.Open("report.html").Strict().Document()
	if err != nil {
		log.Fatal(err)
	}

	cfg := export.DefaultConfig()
	cfg.Pretty = true
	if err := export.WriteDocument(os.Stdout, doc, cfg); err != nil {
		log.Fatal(err)
	}

	// Render as box-drawn grids
	cfg.Format = export.FormatGrid
	_ = export.WriteTables(os.Stdout, doc.Tables(), cfg)
}
