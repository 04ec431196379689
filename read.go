package attest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/htmlindex"
)

// ReadXLSX reads a sheet from a workbook. The first row is the header.
// An empty sheet name selects the first sheet.
func ReadXLSX(r io.Reader, sheet string) (Table, error) {
	xlsx, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, err
	}
	defer xlsx.Close()

	if sheet == "" {
		sheets := xlsx.GetSheetList()
		if len(sheets) == 0 {
			return Table{}, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := xlsx.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return tableFromRows(sheet, rows), nil
}

// ReadCSV reads a comma separated table. The first record is the header.
// A non-empty encoding names the character set of the input, such as
// "windows-1252"; the default is UTF-8.
func ReadCSV(r io.Reader, encoding string) (Table, error) {
	if encoding != "" && !strings.EqualFold(encoding, "utf-8") {
		enc, err := htmlindex.Get(encoding)
		if err != nil {
			return Table{}, fmt.Errorf("encoding %q: %w", encoding, err)
		}
		r = enc.NewDecoder().Reader(r)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, err
	}
	return tableFromRows("", records), nil
}

// OpenTable reads a table from an .xlsx or .csv file. The sheet applies
// to workbooks and the encoding to CSV files.
func OpenTable(path, sheet, encoding string) (Table, error) {
	fd, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer fd.Close()

	var t Table
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		t, err = ReadXLSX(fd, sheet)
	case ".csv", ".txt":
		t, err = ReadCSV(fd, encoding)
	default:
		return Table{}, fmt.Errorf("%s: unsupported file type %q", path, ext)
	}
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	t.Name = filepath.Base(path)
	if sheet != "" {
		t.Name += ":" + sheet
	}
	return t, nil
}

// tableFromRows splits off the header and pads short rows to the header
// width. Spreadsheet readers drop trailing blank cells, so short rows are
// normal. Blank cells past the header are dropped; a row with values past
// the header is kept as is and fails the row width check.
func tableFromRows(name string, rows [][]string) Table {
	t := Table{Name: name}
	if len(rows) == 0 {
		return t
	}

	for i := len(rows) - 1; i > 0 && blank(rows[i]); i-- {
		rows = rows[:i]
	}
	width := len(rows[0])

	t.Columns = make([]string, width)
	for i, c := range rows[0] {
		t.Columns[i] = strings.TrimSpace(c)
	}
	for _, row := range rows[1:] {
		if len(row) > width && blank(row[width:]) {
			row = row[:width]
		}
		if len(row) < width {
			row = pad(row, width)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func pad(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
