package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"kastelo.dev/attest"
)

func main() {
	sheet := flag.String("sheet", "", "Sheet name (default first sheet)")
	patch := flag.Bool("patch", false, "Print a unified diff of category membership")
	cols := attest.DefaultSnapshotColumns
	flag.StringVar(&cols.PrevUCAL, "prev-ucal", cols.PrevUCAL, "Previous UCAL column")
	flag.StringVar(&cols.PrevNonUCAL, "prev-nonucal", cols.PrevNonUCAL, "Previous non-UCAL column")
	flag.StringVar(&cols.CurUCAL, "cur-ucal", cols.CurUCAL, "Current UCAL column")
	flag.StringVar(&cols.CurNonUCAL, "cur-nonucal", cols.CurNonUCAL, "Current non-UCAL column")
	flag.Parse()

	t, err := attest.ReadXLSX(os.Stdin, *sheet)
	if err != nil {
		slog.Error("Error reading workbook", "error", err)
		os.Exit(1)
	}

	prev, cur, err := attest.SnapshotsFromTable(t, cols)
	if err != nil {
		slog.Error("Error reading snapshots", "error", err)
		os.Exit(1)
	}

	if *patch {
		fmt.Print(attest.Patch(t.Name, prev, cur))
		return
	}

	changes := attest.Compare(prev, cur)
	if changes.Empty() {
		slog.Info("No changes between snapshots")
	}
	fmt.Print(changes)
}
