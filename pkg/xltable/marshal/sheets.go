package marshal

import (
	"github.com/sirupsen/logrus"
	"github.com/ukaji3/xltable-go/pkg/xltable/engine"
	"github.com/ukaji3/xltable-go/pkg/xltable/models"
)

// WriteSheet writes t to sheet from startRow, preceded by a title row when
// writeTitle is set, then fits the column widths. It returns the index of
// the row after the last one written.
func (m *Marshaller) WriteSheet(sheet engine.Sheet, t *models.Table, writeTitle bool, startRow int) (int, error) {
	cursor := startRow
	if writeTitle {
		row, err := sheet.CreateRow(cursor)
		if err != nil {
			return cursor, err
		}
		if err := m.WriteTitle(row, t.Columns); err != nil {
			return cursor, inSheet(sheet, err)
		}
		cursor++
	}

	next, err := m.WriteContent(sheet, t, cursor)
	if err != nil {
		return next, err
	}
	if err := m.AutoFitColumns(sheet, len(t.Columns)); err != nil {
		return next, err
	}

	m.Log.WithFields(logrus.Fields{
		"sheet": sheet.Name(),
		"title": writeTitle,
		"start": startRow,
		"rows":  len(t.Rows),
	}).Debug("wrote sheet")
	return next, nil
}

// WriteTitle writes the column names into row with the title style.
func (m *Marshaller) WriteTitle(row engine.Row, cols []models.Column) error {
	for j, col := range cols {
		cell, err := row.CreateCell(j)
		if err != nil {
			return cellError("title", row.Index(), j, err)
		}
		if err := cell.SetString(col.Name); err != nil {
			return cellError("title", row.Index(), j, err)
		}
		if err := cell.SetStyle(m.Styles.Title()); err != nil {
			return cellError("title", row.Index(), j, err)
		}
	}
	return nil
}

// WriteTitleSheet writes the column names into the first row of sheet.
func (m *Marshaller) WriteTitleSheet(sheet engine.Sheet, cols []models.Column) error {
	row, err := sheet.CreateRow(0)
	if err != nil {
		return err
	}
	return inSheet(sheet, m.WriteTitle(row, cols))
}

// ReadTitle reads column names from the used cells of row. Absent cells
// are skipped, so the result may be shorter than the used range. A nil row
// yields no columns.
func (m *Marshaller) ReadTitle(row engine.Row) ([]models.Column, error) {
	if row == nil {
		return nil, nil
	}
	first, last := row.FirstCellIndex(), row.LastCellIndex()
	if first < 0 {
		return nil, nil
	}
	var cols []models.Column
	for j := first; j < last; j++ {
		cell := row.Cell(j)
		if cell == nil {
			continue
		}
		name, err := cell.String()
		if err != nil {
			return nil, cellError("title", row.Index(), j, err)
		}
		cols = append(cols, models.Column{Name: name})
	}
	return cols, nil
}

// ReadTitleSheet reads column names from the first row of sheet.
func (m *Marshaller) ReadTitleSheet(sheet engine.Sheet) ([]models.Column, error) {
	cols, err := m.ReadTitle(sheet.Row(0))
	return cols, inSheet(sheet, err)
}

// ReadSheet reads sheet from startRow into a new table. With readTitle the
// row at startRow names the columns; without it the columns are named
// Column1..ColumnN by position. A nil sheet yields a nil table.
func (m *Marshaller) ReadSheet(sheet engine.Sheet, readTitle bool, startRow int) (*models.Table, error) {
	if sheet == nil {
		return nil, nil
	}
	t := &models.Table{}
	if err := m.ReadSheetInto(sheet, t, readTitle, startRow); err != nil {
		return nil, err
	}
	return t, nil
}

// ReadSheetInto reads sheet from startRow into t. Columns already declared
// on t drive type resolution and a title row, when present, is skipped.
// Columns are only taken from the title row or discovered by position when
// t has none.
func (m *Marshaller) ReadSheetInto(sheet engine.Sheet, t *models.Table, readTitle bool, startRow int) error {
	if sheet == nil {
		return nil
	}
	cursor := startRow
	last := sheet.LastRowIndex()

	if readTitle {
		if len(t.Columns) == 0 {
			cols, err := m.ReadTitle(sheet.Row(cursor))
			if err != nil {
				return inSheet(sheet, err)
			}
			for _, col := range cols {
				if err := t.AddColumn(col); err != nil {
					return err
				}
			}
		}
		cursor++
	} else if len(t.Columns) == 0 {
		for i := 0; i < widestRow(sheet, cursor, last); i++ {
			if err := t.AddColumn(models.Column{}); err != nil {
				return err
			}
		}
	}

	_, err := m.ReadContent(sheet, cursor, last, t)
	return err
}

// widestRow returns the largest exclusive last cell index of the rows in
// [start, end].
func widestRow(sheet engine.Sheet, start, end int) int {
	widest := 0
	for i := start; i <= end; i++ {
		if row := sheet.Row(i); row != nil && row.LastCellIndex() > widest {
			widest = row.LastCellIndex()
		}
	}
	return widest
}

// AutoFitColumns sizes the first n columns of sheet. Each column takes the
// larger of the engine's own fit and the display width of the cells in the
// first, middle and last rows.
func (m *Marshaller) AutoFitColumns(sheet engine.Sheet, n int) error {
	last := sheet.LastRowIndex()
	if last < 0 {
		return nil
	}
	samples := []int{0, last / 2, last}

	for col := 0; col < n; col++ {
		if err := sheet.AutoSizeColumn(col); err != nil {
			return err
		}
		units, err := sheet.ColumnWidth(col)
		if err != nil {
			return err
		}
		chars := units / engine.WidthUnitsPerChar

		for _, r := range samples {
			row := sheet.Row(r)
			if row == nil {
				if row, err = sheet.CreateRow(r); err != nil {
					return err
				}
			}
			cell := row.Cell(col)
			if cell == nil {
				continue
			}
			if w := engine.DisplayWidth(cell.Text()); w > chars {
				chars = w
			}
		}

		if chars > engine.MaxColumnChars {
			chars = engine.MaxColumnChars
		}
		if err := sheet.SetColumnWidth(col, chars*engine.WidthUnitsPerChar); err != nil {
			return err
		}
	}
	return nil
}
