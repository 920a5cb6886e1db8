package marshal

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/ukaji3/xltable-go/pkg/xltable/engine"
	"github.com/ukaji3/xltable-go/pkg/xltable/models"
)

// WriteRow writes values into freshly created cells of row, one per column.
// A nil value is written blank whatever the column type.
func (m *Marshaller) WriteRow(row engine.Row, cols []models.Column, values []interface{}) error {
	if len(values) < len(cols) {
		return fmt.Errorf("%w: row %d has %d values for %d columns",
			models.ErrRowLength, row.Index(), len(values), len(cols))
	}
	for j, col := range cols {
		cell, err := row.CreateCell(j)
		if err != nil {
			return cellError("write", row.Index(), j, err)
		}
		v := values[j]
		if !m.Resolver.UseColumnTypes {
			err = m.WriteCellPlain(cell, v)
		} else {
			dt := models.None
			if v != nil {
				dt = m.Resolver.FromColumn(col)
			}
			err = m.WriteCell(cell, v, dt)
		}
		if err != nil {
			return cellError("write", row.Index(), j, err)
		}
	}
	return nil
}

// WriteContent writes one sheet row per table row starting at startRow and
// returns the index of the row after the last one written.
func (m *Marshaller) WriteContent(sheet engine.Sheet, t *models.Table, startRow int) (int, error) {
	for i, values := range t.Rows {
		row, err := sheet.CreateRow(startRow + i)
		if err != nil {
			return startRow + i, err
		}
		if err := row.SetHeight(RowHeight); err != nil {
			return startRow + i, err
		}
		if err := m.WriteRow(row, t.Columns, values); err != nil {
			return startRow + i, inSheet(sheet, err)
		}
	}
	return startRow + len(t.Rows), nil
}

// ReadRow reads the cells of row aligned with cols. It returns nil when
// there are no columns to read into. Cells before the first used cell and
// absent cells read as nil.
func (m *Marshaller) ReadRow(row engine.Row, cols []models.Column) ([]interface{}, error) {
	if len(cols) == 0 {
		return nil, nil
	}
	values := make([]interface{}, len(cols))
	first := row.FirstCellIndex()
	if first < 0 {
		return values, nil
	}
	for j := first; j < len(cols); j++ {
		cell := row.Cell(j)
		if cell == nil {
			continue
		}
		v, err := m.ReadCell(cell, m.Resolver.ForCell(&cols[j], cell))
		if err != nil {
			return nil, cellError("read", row.Index(), j, err)
		}
		values[j] = v
	}
	return values, nil
}

// ReadContent appends the rows in [start, end] to t, skipping absent rows
// and rows without cells. The count returned is the number of row indices
// visited, including the skipped ones.
func (m *Marshaller) ReadContent(sheet engine.Sheet, start, end int, t *models.Table) (int, error) {
	visited := 0
	for i := start; i <= end; i++ {
		visited++
		row := sheet.Row(i)
		if row == nil || row.FirstCellIndex() < 0 {
			continue
		}
		values, err := m.ReadRow(row, t.Columns)
		if err != nil {
			return visited, inSheet(sheet, err)
		}
		if values == nil {
			continue
		}
		t.Rows = append(t.Rows, models.Row(values))
	}
	m.Log.WithFields(logrus.Fields{
		"sheet": sheet.Name(),
		"start": start,
		"end":   end,
		"rows":  len(t.Rows),
	}).Debug("read content")
	return visited, nil
}
