package marshal

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xltable-go/pkg/xltable/engine"
	"github.com/ukaji3/xltable-go/pkg/xltable/models"
)

func newTestMarshaller(t *testing.T, useColumnTypes bool) (engine.Workbook, engine.Sheet, *Marshaller) {
	t.Helper()
	wb, err := engine.Create("test.xlsx")
	require.NoError(t, err)
	t.Cleanup(func() { wb.Close() })

	m, err := New(wb, useColumnTypes, nil)
	require.NoError(t, err)

	sheet, err := wb.CreateSheet("Data")
	require.NoError(t, err)
	return wb, sheet, m
}

func createCell(t *testing.T, sheet engine.Sheet, row, col int) engine.Cell {
	t.Helper()
	r, err := sheet.CreateRow(row)
	require.NoError(t, err)
	c, err := r.CreateCell(col)
	require.NoError(t, err)
	return c
}

func style(t *testing.T, m *Marshaller, key string) engine.Style {
	t.Helper()
	s, ok := m.Styles.Get(key)
	require.True(t, ok, key)
	return s
}

func TestStylesAreDistinct(t *testing.T) {
	_, _, m := newTestMarshaller(t, true)

	seen := map[engine.Style]string{}
	for _, key := range []string{StyleDate, StyleDateTime, StyleDouble, StyleText} {
		s := style(t, m, key)
		prev, dup := seen[s]
		assert.False(t, dup, "%s shares a style with %s", key, prev)
		seen[s] = key
	}
	_, dup := seen[m.Styles.Title()]
	assert.False(t, dup, "title shares a content style")

	assert.Equal(t, style(t, m, StyleDate), m.Styles.ForType(models.Date))
	assert.Equal(t, style(t, m, StyleDateTime), m.Styles.ForType(models.DateTime))
	assert.Equal(t, style(t, m, StyleDouble), m.Styles.ForType(models.Double))
	assert.Equal(t, style(t, m, StyleText), m.Styles.ForType(models.Int))
	assert.Equal(t, style(t, m, StyleText), m.Styles.ForType(models.Formula))
}

func TestWriteCellBlank(t *testing.T) {
	_, sheet, m := newTestMarshaller(t, true)

	tests := []struct {
		name  string
		value interface{}
		dt    models.CellDataType
	}{
		{"nil value", nil, models.Text},
		{"none type", "hidden", models.None},
		{"null type", 12, models.Null},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := createCell(t, sheet, i, 0)
			require.NoError(t, cell.SetString("previous"))

			require.NoError(t, m.WriteCell(cell, tt.value, tt.dt))
			assert.Equal(t, engine.NativeBlank, cell.Kind())
		})
	}
}

func TestWriteCellByRuntimeKind(t *testing.T) {
	_, sheet, m := newTestMarshaller(t, true)

	tests := []struct {
		name  string
		value interface{}
		dt    models.CellDataType
		kind  engine.NativeKind
		style string
		read  interface{}
	}{
		{"string", "Alice", models.Text, engine.NativeString, StyleText, "Alice"},
		{"int as int", 42, models.Int, engine.NativeNumeric, StyleText, 42.0},
		{"int64 as double", int64(7), models.Double, engine.NativeNumeric, StyleDouble, 7.0},
		{"uint8", uint8(3), models.Int, engine.NativeNumeric, StyleText, 3.0},
		{"float", 3.25, models.Double, engine.NativeNumeric, StyleDouble, 3.25},
		{"float32", float32(0.5), models.Double, engine.NativeNumeric, StyleDouble, 0.5},
		{"decimal", json.Number("12.5"), models.Double, engine.NativeNumeric, StyleDouble, 12.5},
		{"bool", true, models.Boolean, engine.NativeBoolean, StyleText, true},
		{"number as text", 12, models.Text, engine.NativeNumeric, StyleText, 12.0},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := createCell(t, sheet, i, 0)
			require.NoError(t, m.WriteCell(cell, tt.value, tt.dt))

			assert.Equal(t, tt.kind, cell.Kind())
			assert.Equal(t, style(t, m, tt.style), cell.Style())

			got, err := m.ReadCell(cell, FromNative(cell.Kind()))
			require.NoError(t, err)
			assert.Equal(t, tt.read, got)
		})
	}
}

func TestWriteCellDates(t *testing.T) {
	_, sheet, m := newTestMarshaller(t, true)

	birthday := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	cell := createCell(t, sheet, 0, 0)
	require.NoError(t, m.WriteCell(cell, birthday, models.Date))
	assert.Equal(t, engine.NativeDate, cell.Kind())
	assert.Equal(t, style(t, m, StyleDate), cell.Style())
	assert.Equal(t, "1990-05-17", cell.Text())

	got, err := m.ReadCell(cell, models.Date)
	require.NoError(t, err)
	require.IsType(t, time.Time{}, got)
	assert.True(t, birthday.Equal(got.(time.Time)))

	stamp := time.Date(2020, 1, 2, 13, 4, 5, 0, time.UTC)
	cell = createCell(t, sheet, 1, 0)
	require.NoError(t, m.WriteCell(cell, stamp, models.DateTime))
	assert.Equal(t, style(t, m, StyleDateTime), cell.Style())
	assert.Equal(t, "2020-01-02 13:04:05", cell.Text())

	got, err = m.ReadCell(cell, models.DateTime)
	require.NoError(t, err)
	assert.WithinDuration(t, stamp, got.(time.Time), time.Millisecond)

	blank := createCell(t, sheet, 2, 0)
	got, err = m.ReadCell(blank, models.Date)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWriteCellFormulaAndRichText(t *testing.T) {
	_, sheet, m := newTestMarshaller(t, true)

	cell := createCell(t, sheet, 0, 0)
	require.NoError(t, m.WriteCell(cell, models.FormulaValue("=A2+A3"), models.Formula))
	assert.Equal(t, engine.NativeFormula, cell.Kind())
	got, err := m.ReadCell(cell, models.Formula)
	require.NoError(t, err)
	assert.Equal(t, "A2+A3", got)

	rich := models.RichTextValue{{Text: "Hello", Bold: true}, {Text: " world"}}
	cell = createCell(t, sheet, 1, 0)
	require.NoError(t, m.WriteCell(cell, rich, models.RichText))
	got, err = m.ReadCell(cell, models.RichText)
	require.NoError(t, err)
	runs, ok := got.(models.RichTextValue)
	require.True(t, ok)
	assert.Equal(t, "Hello world", runs.String())
	assert.True(t, runs[0].Bold)
}

func TestWriteCellOtherKinds(t *testing.T) {
	_, sheet, m := newTestMarshaller(t, true)

	type point struct{ X, Y int }
	cell := createCell(t, sheet, 0, 0)
	require.NoError(t, m.WriteCell(cell, point{1, 2}, models.Text))
	got, err := m.ReadCell(cell, models.Text)
	require.NoError(t, err)
	assert.Equal(t, "{1 2}", got)

	cell = createCell(t, sheet, 1, 0)
	require.NoError(t, m.WriteCell(cell, uint64(math.MaxUint64), models.Double))
	f, err := cell.Float()
	require.NoError(t, err)
	assert.InEpsilon(t, float64(math.MaxUint64), f, 1e-9)
}

func TestWriteCellPlain(t *testing.T) {
	_, sheet, m := newTestMarshaller(t, false)

	cell := createCell(t, sheet, 0, 0)
	require.NoError(t, m.WriteCellPlain(cell, 9.5))
	assert.Equal(t, engine.NativeNumeric, cell.Kind())
	assert.Equal(t, engine.Style(0), cell.Style())

	require.NoError(t, m.WriteCellPlain(cell, nil))
	assert.Equal(t, engine.NativeBlank, cell.Kind())
}

func TestReadCellDispatch(t *testing.T) {
	_, sheet, m := newTestMarshaller(t, true)

	cell := createCell(t, sheet, 0, 0)
	require.NoError(t, cell.SetString("text"))

	got, err := m.ReadCell(cell, models.None)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	got, err = m.ReadCell(cell, models.Null)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = m.ReadCell(cell, models.CellDataType(99))
	require.NoError(t, err)
	assert.Nil(t, got)

	for _, dt := range []models.CellDataType{models.Int, models.Double, models.Boolean, models.Date, models.Formula} {
		_, err := m.ReadCell(cell, dt)
		assert.ErrorIs(t, err, engine.ErrTypeMismatch, dt.String())
	}
}

func TestCellAt(t *testing.T) {
	_, sheet, m := newTestMarshaller(t, true)

	got, err := m.ReadCellAt(sheet, 5, 5, models.Text)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, m.WriteCellAt(sheet, 5, 2, "value", models.Text))
	got, err = m.ReadCellAt(sheet, 5, 2, models.Text)
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	got, err = m.ReadCellAt(sheet, 5, 3, models.Text)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = m.ReadCellAt(sheet, 5, 2, models.Double)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrTypeMismatch)

	var me *Error
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "Data", me.Sheet)
	assert.Equal(t, 5, me.Row)
	assert.Equal(t, 2, me.Col)
	assert.Equal(t, "read", me.Op)
	assert.Contains(t, me.Error(), "Data!C6")
}
