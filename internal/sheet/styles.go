package sheet

import "github.com/xuri/excelize/v2"

// styles holds the style IDs a workbook needs.  Excelize style IDs are scoped
// to one file, so they are rebuilt for every new workbook.
type styles struct {
	title      int
	header     int
	section    int
	pharmLabel int
	nameBlock  int
	dateBlock  int
	separator  int
	bordered   int
}

func solid(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

func thinBorder() []excelize.Border {
	sides := []string{"left", "right", "top", "bottom"}
	border := make([]excelize.Border, 0, len(sides))
	for _, s := range sides {
		border = append(border, excelize.Border{Type: s, Style: 1, Color: "000000"})
	}
	return border
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error

	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	st.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Fill:      solid(colorHeader),
		Alignment: center,
	})
	if err != nil {
		return st, err
	}
	st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      solid(colorHeader),
		Alignment: center,
		Border:    thinBorder(),
	})
	if err != nil {
		return st, err
	}
	st.section, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      solid(colorSection),
		Alignment: center,
	})
	if err != nil {
		return st, err
	}
	// The pharmacy label uses the header yellow rather than the section green.
	st.pharmLabel, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      solid(colorHeader),
		Alignment: center,
	})
	if err != nil {
		return st, err
	}
	st.nameBlock, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: solid(colorName),
	})
	if err != nil {
		return st, err
	}
	st.dateBlock, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      solid(colorDate),
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return st, err
	}
	st.separator, err = f.NewStyle(&excelize.Style{Fill: solid(colorDate)})
	if err != nil {
		return st, err
	}
	st.bordered, err = f.NewStyle(&excelize.Style{Border: thinBorder()})
	return st, err
}
