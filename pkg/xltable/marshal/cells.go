package marshal

import (
	"fmt"
	"math"
	"time"

	"github.com/ukaji3/xltable-go/pkg/xltable/engine"
	"github.com/ukaji3/xltable-go/pkg/xltable/models"
)

// WriteCell stores value in cell and styles it by dt. A nil value or a None
// or Null type leaves the cell blank and unstyled.
func (m *Marshaller) WriteCell(cell engine.Cell, value interface{}, dt models.CellDataType) error {
	if value == nil || dt.Blank() {
		return cell.SetBlank()
	}
	if err := storeValue(cell, value); err != nil {
		return err
	}
	return cell.SetStyle(m.Styles.ForType(dt))
}

// WriteCellPlain stores value in cell by its runtime kind without styling.
func (m *Marshaller) WriteCellPlain(cell engine.Cell, value interface{}) error {
	if value == nil {
		return cell.SetBlank()
	}
	return storeValue(cell, value)
}

// storeValue picks the native representation from the runtime kind of v.
func storeValue(cell engine.Cell, v interface{}) error {
	switch v := v.(type) {
	case time.Time:
		return cell.SetTime(v)
	case *time.Time:
		if v == nil {
			return cell.SetBlank()
		}
		return cell.SetTime(*v)
	case int:
		return cell.SetInt(int64(v))
	case int8:
		return cell.SetInt(int64(v))
	case int16:
		return cell.SetInt(int64(v))
	case int32:
		return cell.SetInt(int64(v))
	case int64:
		return cell.SetInt(v)
	case uint:
		return storeUint(cell, uint64(v))
	case uint8:
		return cell.SetInt(int64(v))
	case uint16:
		return cell.SetInt(int64(v))
	case uint32:
		return cell.SetInt(int64(v))
	case uint64:
		return storeUint(cell, v)
	case float32:
		return cell.SetFloat(float64(v))
	case float64:
		return cell.SetFloat(v)
	case bool:
		return cell.SetBool(v)
	case models.FormulaValue:
		return cell.SetFormula(string(v))
	case models.RichTextValue:
		return cell.SetRichText(v)
	case string:
		return cell.SetString(v)
	}
	if f, ok := models.DecimalFloat(v); ok {
		return cell.SetFloat(f)
	}
	return cell.SetString(fmt.Sprint(v))
}

func storeUint(cell engine.Cell, v uint64) error {
	if v > math.MaxInt64 {
		return cell.SetFloat(float64(v))
	}
	return cell.SetInt(int64(v))
}

// ReadCell reads cell as dt. A read that disagrees with the stored kind
// fails with engine.ErrTypeMismatch.
func (m *Marshaller) ReadCell(cell engine.Cell, dt models.CellDataType) (interface{}, error) {
	switch dt {
	case models.Boolean:
		return cell.Bool()
	case models.Date, models.DateTime:
		t, err := cell.Time()
		if err != nil {
			return nil, err
		}
		if t.IsZero() {
			return nil, nil
		}
		return t, nil
	case models.Double, models.Int:
		return cell.Float()
	case models.Formula:
		return cell.Formula()
	case models.RichText:
		return cell.RichText()
	case models.Text:
		return cell.String()
	case models.None:
		return "", nil
	case models.Null:
		return nil, nil
	}
	return nil, nil
}

// WriteCellAt writes value at the zero-based coordinates, creating the row
// and cell as needed.
func (m *Marshaller) WriteCellAt(sheet engine.Sheet, row, col int, value interface{}, dt models.CellDataType) error {
	r, err := sheet.CreateRow(row)
	if err != nil {
		return err
	}
	cell, err := r.CreateCell(col)
	if err != nil {
		return err
	}
	if err := m.WriteCell(cell, value, dt); err != nil {
		return inSheet(sheet, cellError("write", row, col, err))
	}
	return nil
}

// ReadCellAt reads the cell at the zero-based coordinates. An absent row or
// cell reads as nil.
func (m *Marshaller) ReadCellAt(sheet engine.Sheet, row, col int, dt models.CellDataType) (interface{}, error) {
	r := sheet.Row(row)
	if r == nil {
		return nil, nil
	}
	cell := r.Cell(col)
	if cell == nil {
		return nil, nil
	}
	v, err := m.ReadCell(cell, dt)
	if err != nil {
		return nil, inSheet(sheet, cellError("read", row, col, err))
	}
	return v, nil
}
