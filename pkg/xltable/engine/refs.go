package engine

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellRef returns the A1 reference of the zero-based coordinates.
func CellRef(row, col int) string {
	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return fmt.Sprintf("R%dC%d", row+1, col+1)
	}
	return ref
}

// ColumnName returns the column letters of the zero-based column.
func ColumnName(col int) string {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return ""
	}
	return name
}

// ParseCellRef parses an A1 reference, with or without "$" anchors, into
// zero-based coordinates.
func ParseCellRef(ref string) (row, col int, err error) {
	c, r, err := excelize.CellNameToCoordinates(strings.ReplaceAll(ref, "$", ""))
	if err != nil {
		return 0, 0, err
	}
	return r - 1, c - 1, nil
}
