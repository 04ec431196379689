package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"kastelo.dev/attest"
)

// SheetLayout names and styles one sheet of the report.
type SheetLayout struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	Rules []Rule `yaml:"rules"`
}

// Layout holds the sheet layouts of the six report tables.
type Layout struct {
	APS       SheetLayout `yaml:"aps"`
	CIO       SheetLayout `yaml:"cio"`
	APSStatus SheetLayout `yaml:"aps_status"`
	APSReview SheetLayout `yaml:"aps_review"`
	CIOStatus SheetLayout `yaml:"cio_status"`
	CIOReview SheetLayout `yaml:"cio_review"`
}

func DefaultLayout() Layout {
	return Layout{
		APS:       SheetLayout{Name: "APS", Title: "APS Attestations"},
		CIO:       SheetLayout{Name: "CIO", Title: "CIO Attestations"},
		APSStatus: SheetLayout{Name: "APS Status", Title: "APS Trident Status by Executive"},
		APSReview: SheetLayout{Name: "APS Review", Title: "APS CPPM Review Status by Executive"},
		CIOStatus: SheetLayout{Name: "CIO Status", Title: "CIO Trident Status by Executive"},
		CIOReview: SheetLayout{Name: "CIO Review", Title: "CIO CPPM Review Status by Executive"},
	}
}

// Properties are stamped into the workbook metadata.
type Properties struct {
	Title   string
	Creator string
	RunID   string
	Created time.Time
}

// ReportSheets lays out a report as sheets, attestation tables first.
func ReportSheets(rep *attest.Report, l Layout) []Sheet {
	return []Sheet{
		AttestationSheet(l.APS, rep.APS),
		AttestationSheet(l.CIO, rep.CIO),
		PivotSheet(l.APSStatus, rep.APSStatus),
		PivotSheet(l.APSReview, rep.APSReview),
		PivotSheet(l.CIOStatus, rep.CIOStatus),
		PivotSheet(l.CIOReview, rep.CIOReview),
	}
}

// ReportXLSX renders the sheets into a workbook and returns its bytes.
func ReportXLSX(sheets []Sheet, props Properties) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets to write")
	}

	xlsx := excelize.NewFile()
	defer xlsx.Close()

	_ = xlsx.SetAppProps(&excelize.AppProperties{
		Application: "kastelo.dev/attest",
		DocSecurity: 2,
	})
	created := props.Created
	if created.IsZero() {
		created = time.Now()
	}
	_ = xlsx.SetDocProps(&excelize.DocProperties{
		Title:      props.Title,
		Creator:    props.Creator,
		Identifier: props.RunID,
		Created:    created.UTC().Format(time.RFC3339),
	})

	first := xlsx.GetSheetName(xlsx.GetActiveSheetIndex())
	for i, s := range sheets {
		if i == 0 {
			if err := xlsx.SetSheetName(first, s.Name); err != nil {
				return nil, fmt.Errorf("sheet %q: %w", s.Name, err)
			}
		} else if _, err := xlsx.NewSheet(s.Name); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", s.Name, err)
		}
		if err := writeSheet(xlsx, s); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", s.Name, err)
		}
	}

	xlsx.SetActiveSheet(0)

	// Increase size of window
	for i := range xlsx.WorkBook.BookViews.WorkBookView {
		xlsx.WorkBook.BookViews.WorkBookView[i].XWindow = "1000"
		xlsx.WorkBook.BookViews.WorkBookView[i].YWindow = "1000"
		xlsx.WorkBook.BookViews.WorkBookView[i].WindowWidth = 25000
		xlsx.WorkBook.BookViews.WorkBookView[i].WindowHeight = 25000 / 3 * 2
	}

	buf, err := xlsx.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
