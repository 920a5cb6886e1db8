package engine

// bounds is the row span of the used cells of a sheet.
type bounds struct {
	minRow, maxRow int
}

// empty reports whether no used cell was found.
func (b bounds) empty() bool {
	return b.minRow < 0
}

// scanUsedCells lists the non-empty cell columns of every row in a value
// grid and computes the span of rows holding them.
func scanUsedCells(rows [][]string) (map[int][]int, bounds) {
	used := make(map[int][]int)
	b := bounds{minRow: -1, maxRow: -1}

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			used[rowIdx] = append(used[rowIdx], colIdx)
			if b.minRow < 0 {
				b.minRow = rowIdx
			}
			b.maxRow = rowIdx
		}
	}

	return used, b
}
