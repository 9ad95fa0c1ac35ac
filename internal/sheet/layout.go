package sheet

import (
	"medrep-bot/pkg"
)

// SheetName is the single worksheet every report workbook contains.
const SheetName = "Daily Report"

// Fixed geometry of the report layout.  Rows are 1-based worksheet rows;
// columns are 1-based (A=1).  The three visit zones sit at hardcoded
// positions and never move.
const (
	headerRow  = 7
	morningTop = 8
	morningEnd = 14
	noonTop    = 16
	noonEnd    = 28
	pharmHead  = 30
	pharmTop   = 31
	pharmEnd   = 37

	firstCol = 1 // A: section labels
)

// Fill colors, matching the house report template.
const (
	colorHeader  = "FFFF00"
	colorName    = "31859B"
	colorDate    = "FABF8F"
	colorSection = "C6E0B4"
)

// column binds a visit-record field name to the worksheet column it is
// written into.
type column struct {
	field string
	col   int
}

// Zone is one fixed row-range of the report.  Slots fill top-down: the first
// row whose primary column (the first entry of columns) is empty receives the
// next visit of the zone's kind.
type Zone struct {
	Kind     pkg.VisitKind
	FirstRow int
	LastRow  int
	columns  []column
}

// Capacity returns the number of row slots in the zone.
func (z Zone) Capacity() int { return z.LastRow - z.FirstRow + 1 }

var zones = []Zone{
	{
		Kind:     pkg.VisitMorning,
		FirstRow: morningTop,
		LastRow:  morningEnd,
		columns: []column{
			{pkg.FieldDoctor, 2},
			{pkg.FieldHospital, 3},
			{pkg.FieldSpecialty, 4},
			{pkg.FieldProducts, 5},
			{pkg.FieldComment, 6},
		},
	},
	{
		Kind:     pkg.VisitAfternoon,
		FirstRow: noonTop,
		LastRow:  noonEnd,
		columns: []column{
			{pkg.FieldDoctor, 2},
			{pkg.FieldArea, 3},
			{pkg.FieldSpecialty, 4},
			{pkg.FieldProducts, 5},
			{pkg.FieldComment, 6},
		},
	},
	{
		Kind:     pkg.VisitPharmacy,
		FirstRow: pharmTop,
		LastRow:  pharmEnd,
		columns: []column{
			{pkg.FieldPharmacy, 2},
			{pkg.FieldAddress, 3},
			{pkg.FieldProducts, 4}, // merged D:E span
			{pkg.FieldComment, 6},
		},
	},
}

// ZoneFor returns the zone a visit kind maps to.
func ZoneFor(kind pkg.VisitKind) (Zone, bool) {
	for _, z := range zones {
		if z.Kind == kind {
			return z, true
		}
	}
	return Zone{}, false
}
