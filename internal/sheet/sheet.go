// Package sheet renders report workbooks and allocates visit rows inside
// them.  It owns the fixed tabular layout: three zones (morning, afternoon,
// pharmacy) under a title block, with every coordinate hardcoded.
package sheet

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"medrep-bot/pkg"
)

var headers = []string{"A.M / P.M", "Doctor Name", "Hospital", "Specialist", "Product", "Comment"}

var colWidths = []float64{15, 25, 20, 20, 20, 30}

// New builds a blank report workbook: title, author name and date block,
// table headers, the three empty zones with borders, separators between
// them, and column widths.
func New(author string, date time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	// Title band.
	if err := f.MergeCell(SheetName, "A2", "F2"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(SheetName, "A2", "Daily Report"); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A2", "F2", st.title); err != nil {
		return nil, err
	}

	// Name and date block.  The value cells span B:F so long names fit.
	if err := f.MergeCell(SheetName, "B4", "F4"); err != nil {
		return nil, err
	}
	if err := f.MergeCell(SheetName, "B5", "F5"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(SheetName, "A4", "Name:"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(SheetName, "A5", "Date:"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(SheetName, "B4", author); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(SheetName, "B5", date.Format("02/01/2006")); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A4", "B4", st.nameBlock); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A5", "B5", st.dateBlock); err != nil {
		return nil, err
	}

	// Main table header.
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(firstCol+i, headerRow)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(SheetName, "A7", "F7", st.header); err != nil {
		return nil, err
	}

	// Morning zone with its merged section label, then a separator band.
	if err := section(f, st, "A.M", st.section, morningTop, morningEnd); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A15", "F15", st.separator); err != nil {
		return nil, err
	}

	// Afternoon zone and separator.
	if err := section(f, st, "P.M", st.section, noonTop, noonEnd); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A29", "F29", st.separator); err != nil {
		return nil, err
	}

	// Pharmacy zone: its own header row and a Products span merged over D:E
	// on every row, header included.
	if err := section(f, st, "PHARMACY", st.pharmLabel, pharmHead, pharmEnd); err != nil {
		return nil, err
	}
	for r := pharmHead; r <= pharmEnd; r++ {
		if err := f.MergeCell(SheetName, fmt.Sprintf("D%d", r), fmt.Sprintf("E%d", r)); err != nil {
			return nil, err
		}
	}
	for _, h := range []struct {
		cell  string
		value string
	}{
		{"B30", "Pharmacy Name"},
		{"C30", "Address"},
		{"D30", "Products"},
		{"F30", "Comments"},
	} {
		if err := f.SetCellValue(SheetName, h.cell, h.value); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(SheetName, "B30", "F30", st.header); err != nil {
		return nil, err
	}

	for i, w := range colWidths {
		col, err := excelize.ColumnNumberToName(firstCol + i)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// section writes one zone's merged label in column A and borders its data
// cells.  labelRow differs from the first data row only for the pharmacy
// zone, whose label spans the header row as well.
func section(f *excelize.File, st styles, label string, labelStyle, labelRow, lastRow int) error {
	top := fmt.Sprintf("A%d", labelRow)
	if err := f.MergeCell(SheetName, top, fmt.Sprintf("A%d", lastRow)); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, top, label); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, top, top, labelStyle); err != nil {
		return err
	}
	return f.SetCellStyle(SheetName,
		fmt.Sprintf("B%d", labelRow), fmt.Sprintf("F%d", lastRow), st.bordered)
}

// AppendVisit writes the record's fields into the first free slot of the
// zone for kind, mapped through the zone's column schema.  Fields missing
// from the record are written as empty strings so a slot never keeps stale
// content.  The boolean reports whether a slot was filled; a full zone
// returns false with the workbook untouched.
func AppendVisit(f *excelize.File, kind pkg.VisitKind, fields map[string]string) (bool, error) {
	zone, ok := ZoneFor(kind)
	if !ok {
		return false, fmt.Errorf("sheet: unknown visit kind %q", kind)
	}
	for row := zone.FirstRow; row <= zone.LastRow; row++ {
		primary, err := excelize.CoordinatesToCellName(zone.columns[0].col, row)
		if err != nil {
			return false, err
		}
		v, err := f.GetCellValue(SheetName, primary)
		if err != nil {
			return false, err
		}
		if v != "" {
			continue
		}
		for _, c := range zone.columns {
			cell, err := excelize.CoordinatesToCellName(c.col, row)
			if err != nil {
				return false, err
			}
			if err := f.SetCellValue(SheetName, cell, fields[c.field]); err != nil {
				return false, err
			}
		}
		return true, nil
	}
	return false, nil
}

// ZoneValues reads back every slot of the zone for kind in slot order, one
// string per schema column.
func ZoneValues(f *excelize.File, kind pkg.VisitKind) ([][]string, error) {
	zone, ok := ZoneFor(kind)
	if !ok {
		return nil, fmt.Errorf("sheet: unknown visit kind %q", kind)
	}
	rows := make([][]string, 0, zone.Capacity())
	for row := zone.FirstRow; row <= zone.LastRow; row++ {
		values := make([]string, 0, len(zone.columns))
		for _, c := range zone.columns {
			cell, err := excelize.CoordinatesToCellName(c.col, row)
			if err != nil {
				return nil, err
			}
			v, err := f.GetCellValue(SheetName, cell)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		rows = append(rows, values)
	}
	return rows, nil
}
