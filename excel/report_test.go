package excel

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
	"kastelo.dev/attest"
)

func testReport(t *testing.T) *attest.Report {
	t.Helper()
	in := attest.Input{
		APS: attest.Table{
			Name:    "aps",
			Columns: []string{"AIT", "Context", "Title", "Status", "Due", "Completed", "Accountable"},
			Rows: [][]string{
				{"101", "Alpha", "Q2", "Complete", "2024-06-30", "ann", "bob"},
				{"102", "Beta", "Q2", "Complete", "2024-06-30", "cid", "dan"},
				{"103", "Gamma", "Q2", "Pending", "2024-06-30", "eve", "fay"},
			},
		},
		CIO: attest.Table{
			Name:    "cio",
			Columns: []string{"AIT", "Context", "Title", "Status", "Due", "Accountable"},
			Rows: [][]string{
				{"201", "Delta", "Q2", "Pending", "2024-07-31", "gus"},
			},
		},
		Owners: attest.Table{Columns: []string{"AIT", "Support Owner", "APS SLT"}},
		Execs: attest.Table{
			Columns: []string{"AIT", "Tech Exec", "CIO Exec"},
			Rows: [][]string{
				{"101", "TechX", "CIOY"},
				{"102", "TechX", "CIOY"},
				{"103", "TechB", "CIOA"},
			},
		},
	}
	rep, err := attest.Build(context.Background(), in, attest.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	return rep
}

func TestPivotSheet(t *testing.T) {
	rep := testReport(t)
	s := PivotSheet(SheetLayout{Name: "Status"}, rep.APSStatus)

	if diff := cmp.Diff([]string{"CIO Exec", "Tech Exec", "Complete", "Pending", "Total"}, s.Header); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	expected := [][]any{
		{"CIOA", "TechB", nil, 1, 1},
		{"CIOY", "TechX", 2, nil, 2},
	}
	if diff := cmp.Diff(expected, s.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"Total", nil, 2, 1, 3}, s.Footer); diff != "" {
		t.Errorf("footer mismatch (-want +got):\n%s", diff)
	}
}

func TestPivotSheetEmpty(t *testing.T) {
	rep := testReport(t)
	s := PivotSheet(SheetLayout{Name: "Review"}, rep.APSReview)
	if len(s.Rows) != 0 || s.Footer != nil {
		t.Errorf("expected no rows, got %v / %v", s.Rows, s.Footer)
	}
	if diff := cmp.Diff([]string{"CIO Exec", "Tech Exec", "Total"}, s.Header); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestPivotSheetUnassigned(t *testing.T) {
	rep := testReport(t)
	s := PivotSheet(SheetLayout{Name: "CIO"}, rep.CIOStatus)
	if len(s.Rows) != 1 || s.Rows[0][0] != unassigned || s.Rows[0][1] != unassigned {
		t.Errorf("expected one unassigned row, got %v", s.Rows)
	}
}

func TestReportXLSX(t *testing.T) {
	rep := testReport(t)
	layout := DefaultLayout()
	layout.APS.Rules = []Rule{{Rows: []int{4}, Style: Style{Fill: "#FFFF00", Bold: true}}}

	bs, err := ReportXLSX(ReportSheets(rep, layout), Properties{
		Title:   "Attestation Status Report",
		RunID:   "run-1",
		Created: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}

	xlsx, err := excelize.OpenReader(bytes.NewReader(bs))
	if err != nil {
		t.Fatal(err)
	}
	defer xlsx.Close()

	expectedSheets := []string{"APS", "CIO", "APS Status", "APS Review", "CIO Status", "CIO Review"}
	if diff := cmp.Diff(expectedSheets, xlsx.GetSheetList()); diff != "" {
		t.Errorf("sheets mismatch (-want +got):\n%s", diff)
	}

	rows, err := xlsx.GetRows("APS")
	if err != nil {
		t.Fatal(err)
	}
	if rows[0][0] != "APS Attestations" {
		t.Errorf("unexpected title %q", rows[0][0])
	}
	if rows[2][0] != "AIT #" || rows[2][len(rows[2])-1] != "CIO Exec" {
		t.Errorf("unexpected header %v", rows[2])
	}
	if len(rows) != 6 || rows[3][0] != "101" {
		t.Errorf("unexpected data rows %v", rows[3:])
	}

	// highlighted row picks up the rule fill
	styleID, err := xlsx.GetCellStyle("APS", "A4")
	if err != nil {
		t.Fatal(err)
	}
	style, err := xlsx.GetStyle(styleID)
	if err != nil {
		t.Fatal(err)
	}
	if len(style.Fill.Color) != 1 || !strings.HasSuffix(strings.ToUpper(style.Fill.Color[0]), "FFFF00") {
		t.Errorf("unexpected fill %v", style.Fill.Color)
	}
	if style.Font == nil || !style.Font.Bold {
		t.Error("expected bold highlighted row")
	}
	plainID, err := xlsx.GetCellStyle("APS", "A5")
	if err != nil {
		t.Fatal(err)
	}
	if plainID == styleID {
		t.Error("expected unhighlighted row to have a different style")
	}

	rows, err = xlsx.GetRows("APS Status")
	if err != nil {
		t.Fatal(err)
	}
	// title, blank, header, two groups, totals
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d: %v", len(rows), rows)
	}
	if diff := cmp.Diff([]string{"CIOA", "TechB", "", "1", "1"}, rows[3]); diff != "" {
		t.Errorf("pivot row mismatch (-want +got):\n%s", diff)
	}

	props, err := xlsx.GetDocProps()
	if err != nil {
		t.Fatal(err)
	}
	if props.Identifier != "run-1" {
		t.Errorf("unexpected identifier %q", props.Identifier)
	}
}

func TestReportXLSXNoSheets(t *testing.T) {
	if _, err := ReportXLSX(nil, Properties{}); err == nil {
		t.Error("unexpected success")
	}
}

func TestColumnWidths(t *testing.T) {
	s := Sheet{
		Header: []string{"A", "Long header name"},
		Rows:   [][]any{{"x", nil}, {"日本語テキスト", 3}},
	}
	got := columnWidths(s)
	// 14 columns wide for the CJK text plus padding
	if diff := cmp.Diff([]float64{16, 18}, got); diff != "" {
		t.Errorf("widths mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeStyles(t *testing.T) {
	s := mergeStyles(defaultStyle(), thinBorder(allSides...), thickBorder("bottom"), fill("#FF0000"), fontBold())
	if len(s.Border) != 4 {
		t.Fatalf("expected 4 borders, got %d", len(s.Border))
	}
	for _, b := range s.Border {
		want := 1
		if b.Type == "bottom" {
			want = 2
		}
		if b.Style != want {
			t.Errorf("%s border style %d, expected %d", b.Type, b.Style, want)
		}
	}
	if s.Fill.Color[0] != "#FF0000" || s.Font == nil || !s.Font.Bold {
		t.Errorf("unexpected merged style %+v", s)
	}
}
