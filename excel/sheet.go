package excel

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"
	"kastelo.dev/attest"
)

// Sheet is one table to render. Row values are written as is; a nil
// value leaves the cell blank.
type Sheet struct {
	Name   string
	Title  string
	Header []string
	Rows   [][]any
	// Footer is an optional totals row below the data.
	Footer []any
	Rules  []Rule
}

// headerRow is the sheet row holding the column names.
func (s Sheet) headerRow() int {
	if s.Title != "" {
		return 3
	}
	return 1
}

const unassigned = "(unassigned)"

// AttestationSheet renders an enriched attestation table.
func AttestationSheet(l SheetLayout, t *attest.AttestationTable) Sheet {
	s := Sheet{
		Name:   l.Name,
		Title:  l.Title,
		Header: t.Header(),
		Rules:  l.Rules,
	}
	for _, row := range t.Rows() {
		vals := make([]any, len(row))
		for i, v := range row {
			vals[i] = v
		}
		s.Rows = append(s.Rows, vals)
	}
	return s
}

// PivotSheet renders a pivot with one row per executive pair, one column
// per category value and a total column. Combinations without records are
// left blank.
func PivotSheet(l SheetLayout, p *attest.Pivot) Sheet {
	s := Sheet{
		Name:   l.Name,
		Title:  l.Title,
		Header: []string{string(attest.FieldCIOExec), string(attest.FieldTechExec)},
		Rules:  l.Rules,
	}
	s.Header = append(s.Header, p.Categories...)
	s.Header = append(s.Header, "Total")

	grand := 0
	for _, g := range p.Groups {
		row := []any{label(g.CIOExec), label(g.TechExec)}
		for _, c := range p.Categories {
			if n, ok := p.Count(g, c); ok {
				row = append(row, n)
			} else {
				row = append(row, nil)
			}
		}
		total := p.Total(g)
		grand += total
		row = append(row, total)
		s.Rows = append(s.Rows, row)
	}

	if len(p.Groups) > 0 {
		s.Footer = []any{"Total", nil}
		for _, c := range p.Categories {
			s.Footer = append(s.Footer, p.CategoryTotal(c))
		}
		s.Footer = append(s.Footer, grand)
	}
	return s
}

func label(s string) string {
	if s == "" {
		return unassigned
	}
	return s
}

func writeSheet(xlsx *excelize.File, s Sheet) error {
	cols := len(s.Header)
	if cols == 0 {
		return fmt.Errorf("sheet %q: no columns", s.Name)
	}
	row := 1

	if s.Title != "" {
		if err := xlsx.SetCellValue(s.Name, cell(1, row), s.Title); err != nil {
			return err
		}
		style, err := xlsx.NewStyle(mergeStyles(append([]*excelize.Style{defaultStyle(), fontTitle()}, rowStyles(s.Rules, row)...)...))
		if err != nil {
			return err
		}
		_ = xlsx.SetCellStyle(s.Name, cell(1, row), cell(cols, row), style)
		_ = xlsx.SetRowHeight(s.Name, row, 20)
		row += 2
	}

	for i, h := range s.Header {
		_ = xlsx.SetCellValue(s.Name, cell(i+1, row), h)
	}
	style, err := xlsx.NewStyle(mergeStyles(append([]*excelize.Style{defaultStyle(), fontBold(), verticalCenter(), fill("#D9E1F2"), thinBorder(allSides...), thickBorder("bottom")}, rowStyles(s.Rules, row)...)...))
	if err != nil {
		return err
	}
	_ = xlsx.SetCellStyle(s.Name, cell(1, row), cell(cols, row), style)
	headerRow := row
	row++

	for _, vals := range s.Rows {
		if err := setRow(xlsx, s.Name, row, vals); err != nil {
			return err
		}
		style, err := xlsx.NewStyle(mergeStyles(append([]*excelize.Style{defaultStyle(), thinBorder(allSides...)}, rowStyles(s.Rules, row)...)...))
		if err != nil {
			return err
		}
		_ = xlsx.SetCellStyle(s.Name, cell(1, row), cell(cols, row), style)
		row++
	}

	if s.Footer != nil {
		if err := setRow(xlsx, s.Name, row, s.Footer); err != nil {
			return err
		}
		style, err := xlsx.NewStyle(mergeStyles(append([]*excelize.Style{defaultStyle(), fontBold(), thinBorder(allSides...), thickBorder("top")}, rowStyles(s.Rules, row)...)...))
		if err != nil {
			return err
		}
		_ = xlsx.SetCellStyle(s.Name, cell(1, row), cell(cols, row), style)
	}

	_ = xlsx.SetPanes(s.Name, &excelize.Panes{
		ActivePane:  "bottomLeft",
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: cell(1, headerRow+1),
	})

	for i, w := range columnWidths(s) {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		_ = xlsx.SetColWidth(s.Name, name, name, w)
	}
	return nil
}

func setRow(xlsx *excelize.File, sheet string, row int, vals []any) error {
	for i, v := range vals {
		if v == nil {
			continue
		}
		if err := xlsx.SetCellValue(sheet, cell(i+1, row), v); err != nil {
			return err
		}
	}
	return nil
}

const (
	minColWidth = 8
	maxColWidth = 60
)

// columnWidths sizes each column to its widest header or value.
func columnWidths(s Sheet) []float64 {
	widths := make([]int, len(s.Header))
	measure := func(vals []any) {
		for i, v := range vals {
			if i >= len(widths) || v == nil {
				continue
			}
			widths[i] = max(widths[i], runewidth.StringWidth(fmt.Sprint(v)))
		}
	}
	hdr := make([]any, len(s.Header))
	for i, h := range s.Header {
		hdr[i] = h
	}
	measure(hdr)
	for _, r := range s.Rows {
		measure(r)
	}
	measure(s.Footer)

	res := make([]float64, len(widths))
	for i, w := range widths {
		res[i] = float64(min(max(w+2, minColWidth), maxColWidth))
	}
	return res
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
