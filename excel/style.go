package excel

import (
	"dario.cat/mergo"
	"github.com/xuri/excelize/v2"
)

// Style is a declarative cell style. Zero fields leave the base style
// alone.
type Style struct {
	Fill      string `yaml:"fill"`
	FontColor string `yaml:"font_color"`
	Bold      bool   `yaml:"bold"`
	Italic    bool   `yaml:"italic"`
	// Border is "thin" or "thick", applied on all four sides.
	Border string `yaml:"border"`
}

// Rule applies a style to whole sheet rows, counted from 1 as in the
// spreadsheet.
type Rule struct {
	Rows  []int `yaml:"rows"`
	Style Style `yaml:"style"`
}

func (s Style) xlsx() *excelize.Style {
	var parts []*excelize.Style
	parts = append(parts, &excelize.Style{})
	if s.Fill != "" {
		parts = append(parts, fill(s.Fill))
	}
	if s.Bold && s.Italic {
		parts = append(parts, fontBoldItalic())
	} else if s.Bold {
		parts = append(parts, fontBold())
	} else if s.Italic {
		parts = append(parts, fontItalic())
	}
	if s.FontColor != "" {
		parts = append(parts, fontColor(s.FontColor))
	}
	switch s.Border {
	case "thin":
		parts = append(parts, thinBorder(allSides...))
	case "thick":
		parts = append(parts, thickBorder(allSides...))
	}
	return mergeStyles(parts...)
}

// rowStyles returns the rule styles that apply to the row, in rule order.
func rowStyles(rules []Rule, row int) []*excelize.Style {
	var res []*excelize.Style
	for _, r := range rules {
		for _, n := range r.Rows {
			if n == row {
				res = append(res, r.Style.xlsx())
				break
			}
		}
	}
	return res
}

var allSides = []string{"left", "right", "top", "bottom"}

func defaultStyle() *excelize.Style {
	return &excelize.Style{
		// solid white
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#FFFFFF"},
			Pattern: 1,
		},
	}
}

func fill(color string) *excelize.Style {
	return &excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{color},
			Pattern: 1,
		},
	}
}

func fontItalic() *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{
			Italic: true,
		},
	}
}

func fontBold() *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	}
}

func fontBoldItalic() *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Italic: true,
		},
	}
}

func fontColor(c string) *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{
			Color: c,
		},
	}
}

func fontTitle() *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 14,
		},
	}
}

func verticalCenter() *excelize.Style {
	return &excelize.Style{
		Alignment: &excelize.Alignment{
			Vertical: "center",
		},
	}
}

func thinBorder(where ...string) *excelize.Style {
	s := &excelize.Style{}
	for _, w := range where {
		s.Border = append(s.Border, excelize.Border{
			Type:  w,
			Color: "#000000",
			Style: 1,
		})
	}
	return s
}

func thickBorder(where ...string) *excelize.Style {
	s := &excelize.Style{}
	for _, w := range where {
		s.Border = append(s.Border, excelize.Border{
			Type:  w,
			Color: "#000000",
			Style: 2,
		})
	}
	return s
}

// mergeStyles folds the styles left to right into the first one, later
// values overriding earlier ones. Borders are combined per side.
func mergeStyles(ext ...*excelize.Style) *excelize.Style {
	if len(ext) == 0 {
		return nil
	}
	for _, e := range ext[1:] {
		borders := mergeBorders(ext[0].Border, e.Border)
		_ = mergo.Merge(ext[0], e, mergo.WithOverride)
		ext[0].Border = borders
	}
	return ext[0]
}

func mergeBorders(base, over []excelize.Border) []excelize.Border {
	res := append([]excelize.Border(nil), base...)
	for _, o := range over {
		replaced := false
		for i := range res {
			if res[i].Type == o.Type {
				res[i] = o
				replaced = true
				break
			}
		}
		if !replaced {
			res = append(res, o)
		}
	}
	return res
}
