package models

import (
	"errors"
	"fmt"
)

// ErrDuplicateColumn indicates a column name already used in the table.
var ErrDuplicateColumn = errors.New("duplicate column name")

// ErrRowLength indicates a row whose length differs from the column count.
var ErrRowLength = errors.New("row length does not match column count")

// Row holds one value per column, aligned positionally with Table.Columns.
// A nil entry is an absent value.
type Row []interface{}

// Table is an ordered set of columns and rows.
type Table struct {
	// Columns in on-disk order.
	Columns []Column `json:"columns"`
	// Rows aligned positionally with Columns.
	Rows []Row `json:"rows"`
}

// NewTable creates a table with the given columns.
func NewTable(cols ...Column) (*Table, error) {
	t := &Table{}
	for _, c := range cols {
		if err := t.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AddColumn appends a column. An empty name is replaced by the default
// name for its position.
func (t *Table) AddColumn(c Column) error {
	if c.Name == "" {
		c.Name = DefaultColumnName(len(t.Columns))
	}
	if t.ColumnIndex(c.Name) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
	}
	t.Columns = append(t.Columns, c)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], nil)
	}
	return nil
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// NewRow returns an empty row sized for the table.
func (t *Table) NewRow() Row {
	return make(Row, len(t.Columns))
}

// AddRow appends a row of values.
func (t *Table) AddRow(values ...interface{}) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("%w: got %d values for %d columns", ErrRowLength, len(values), len(t.Columns))
	}
	t.Rows = append(t.Rows, Row(values))
	return nil
}

// Value returns the value of the named column in row i.
func (t *Table) Value(i int, name string) (interface{}, bool) {
	j := t.ColumnIndex(name)
	if j < 0 || i < 0 || i >= len(t.Rows) || j >= len(t.Rows[i]) {
		return nil, false
	}
	return t.Rows[i][j], true
}
