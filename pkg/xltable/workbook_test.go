package xltable

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xltable-go/pkg/xltable/engine"
	"github.com/ukaji3/xltable-go/pkg/xltable/models"
	"github.com/xuri/excelize/v2"
)

func openTemp(t *testing.T, opts Options) (*Workbook, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.xlsx")
	wb, err := Open(path, opts)
	require.NoError(t, err)
	t.Cleanup(func() { wb.Close() })
	return wb, path
}

func studentTable(t *testing.T) *models.Table {
	t.Helper()
	tbl, err := models.NewTable(
		models.Column{Name: "id", Kind: models.KindString},
		models.Column{Name: "name", Kind: models.KindString},
		models.Column{Name: "sex", Kind: models.KindInt},
		models.Column{Name: "class", Kind: models.KindString},
		models.Column{Name: "birthday", Kind: models.KindDateTime, DataType: "Date"},
	)
	require.NoError(t, err)
	require.NoError(t, tbl.AddRow("1", "Zhang San", 1, "Class 1", time.Date(2001, 3, 14, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, tbl.AddRow("2", "Li Si", 0, "Class 2", time.Date(2002, 7, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, tbl.AddRow("3", "Wang Wu", 1, "Class 1", time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC)))
	return tbl
}

func TestOptionsDefaults(t *testing.T) {
	opts := DefaultOptions()
	assert.True(t, opts.ShouldUseColumnTypes())

	disabled := false
	opts.UseColumnTypes = &disabled
	assert.False(t, opts.ShouldUseColumnTypes())
}

func TestOpenNewWorkbook(t *testing.T) {
	wb, path := openTemp(t, DefaultOptions())

	assert.Equal(t, path, wb.Path())
	count, err := wb.SheetCount()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, engine.FormatXLSX, wb.Engine().Format())
	assert.NotNil(t, wb.Marshaller())
}

func TestOpenUnsupportedFormat(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "data.csv"), DefaultOptions())
	assert.ErrorIs(t, err, engine.ErrUnsupportedFormat)
}

func TestSheetNotFound(t *testing.T) {
	wb, _ := openTemp(t, DefaultOptions())
	_, err := wb.CreateSheet("Data")
	require.NoError(t, err)

	sheet, err := wb.Sheet("Nonexistent")
	require.NoError(t, err)
	assert.Nil(t, sheet)

	sheet, err = wb.SheetAt(999)
	require.NoError(t, err)
	assert.Nil(t, sheet)

	sheet, err = wb.SheetAt(-1)
	require.NoError(t, err)
	assert.Nil(t, sheet)

	tbl, err := wb.ReadSheet("Nonexistent", true)
	require.NoError(t, err)
	assert.Nil(t, tbl)
}

func TestBlankSheetName(t *testing.T) {
	wb, _ := openTemp(t, DefaultOptions())

	for _, name := range []string{"", "   "} {
		_, err := wb.Sheet(name)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = wb.CreateSheet(name)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = wb.GetOrCreateSheet(name)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = wb.WriteSheet(name, studentTable(t), true)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}

	sheet, err := wb.GetOrCreateSheet("Valid")
	require.NoError(t, err)
	again, err := wb.GetOrCreateSheet("Valid")
	require.NoError(t, err)
	assert.Equal(t, sheet.Name(), again.Name())
}

func TestUninitializedWorkbook(t *testing.T) {
	var nilWB *Workbook
	_, err := nilWB.SheetCount()
	assert.ErrorIs(t, err, ErrUninitialized)
	_, err = nilWB.WriteSheet("Data", studentTable(t), true)
	assert.ErrorIs(t, err, ErrUninitialized)

	wb, _ := openTemp(t, DefaultOptions())
	require.NoError(t, wb.Close())

	_, err = wb.Sheet("Data")
	assert.ErrorIs(t, err, ErrUninitialized)
	_, err = wb.ReadSheet("Data", true)
	assert.ErrorIs(t, err, ErrUninitialized)
	assert.ErrorIs(t, wb.Flush(), ErrUninitialized)
	assert.ErrorIs(t, wb.Close(), ErrUninitialized)
}

func TestWriteAndReadWithTitle(t *testing.T) {
	wb, _ := openTemp(t, DefaultOptions())

	next, err := wb.WriteSheet("Students", studentTable(t), true)
	require.NoError(t, err)
	assert.Equal(t, 4, next)

	tbl, err := wb.ReadSheet("Students", true)
	require.NoError(t, err)
	require.NotNil(t, tbl)
	assert.Len(t, tbl.Columns, 5)
	require.Len(t, tbl.Rows, 3)

	name, _ := tbl.Value(0, "name")
	assert.Equal(t, "Zhang San", name)
	birthday, _ := tbl.Value(0, "birthday")
	require.IsType(t, time.Time{}, birthday)
	assert.Equal(t, "2001-03-14", birthday.(time.Time).Format("2006-01-02"))
}

func TestWriteAndReadWithoutTitle(t *testing.T) {
	wb, _ := openTemp(t, DefaultOptions())
	sheet, err := wb.CreateSheet("Students")
	require.NoError(t, err)

	next, err := wb.WriteSheetAt(sheet, studentTable(t), false, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, next)

	tbl, err := wb.ReadSheetFrom(sheet, false, 2)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 3)
	name, _ := tbl.Value(2, "Column2")
	assert.Equal(t, "Wang Wu", name)
}

func TestFlushAndReopen(t *testing.T) {
	var logs bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&logs)
	logger.SetLevel(logrus.DebugLevel)

	path := filepath.Join(t.TempDir(), "data.xlsx")
	wb, err := Open(path, Options{Logger: logger})
	require.NoError(t, err)

	_, err = wb.WriteSheet("Students", studentTable(t), true)
	require.NoError(t, err)
	require.NoError(t, wb.Flush())
	require.NoError(t, wb.Close())
	assert.Contains(t, logs.String(), "flushed workbook")

	reopened, err := Open(path, DefaultOptions())
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.SheetCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	tbl, err := reopened.ReadSheet("Students", true)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 3)
	class, _ := tbl.Value(1, "class")
	assert.Equal(t, "Class 2", class)

	// A second flush replaces the file rather than appending to it.
	_, err = reopened.WriteSheet("Extra", studentTable(t), false)
	require.NoError(t, err)
	require.NoError(t, reopened.Flush())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Students", "Extra"}, f.GetSheetList())
}

func TestOpenFromTemplate(t *testing.T) {
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "template.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Report"))
	require.NoError(t, f.SetCellValue("Report", "A1", "Prepared by"))
	require.NoError(t, f.SaveAs(templatePath))
	require.NoError(t, f.Close())

	dataPath := filepath.Join(dir, "out.xlsx")
	wb, err := Open(dataPath, Options{TemplatePath: templatePath})
	require.NoError(t, err)
	defer wb.Close()

	sheet, err := wb.Sheet("Report")
	require.NoError(t, err)
	require.NotNil(t, sheet)

	tbl := studentTable(t)
	next, err := wb.WriteSheetAt(sheet, tbl, true, 2)
	require.NoError(t, err)
	assert.Equal(t, 6, next)
	require.NoError(t, wb.Flush())

	out, err := excelize.OpenFile(dataPath)
	require.NoError(t, err)
	defer out.Close()
	v, err := out.GetCellValue("Report", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Prepared by", v)
	v, err = out.GetCellValue("Report", "B4")
	require.NoError(t, err)
	assert.Equal(t, "Zhang San", v)
}

func TestColumnTypesDisabled(t *testing.T) {
	disabled := false
	wb, _ := openTemp(t, Options{UseColumnTypes: &disabled})

	tbl, err := models.NewTable(
		models.Column{Name: "n", Kind: models.KindInt},
		models.Column{Name: "s", Kind: models.KindString},
	)
	require.NoError(t, err)
	require.NoError(t, tbl.AddRow(5, "five"))

	sheet, err := wb.CreateSheet("Plain")
	require.NoError(t, err)
	_, err = wb.WriteSheetAt(sheet, tbl, false, 0)
	require.NoError(t, err)

	cell := sheet.Row(0).Cell(0)
	assert.Equal(t, engine.NativeNumeric, cell.Kind())
	assert.Equal(t, engine.Style(0), cell.Style())

	values, err := wb.ReadRow(sheet, 0, tbl.Columns)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{5.0, "five"}, values)
}

func TestRowAndCellOperations(t *testing.T) {
	wb, _ := openTemp(t, DefaultOptions())
	sheet, err := wb.CreateSheet("Cells")
	require.NoError(t, err)

	cols := []models.Column{{Name: "a", Kind: models.KindString}, {Name: "b", Kind: models.KindFloat}}
	require.NoError(t, wb.WriteTitle(sheet, cols))
	require.NoError(t, wb.WriteRow(sheet, 1, cols, []interface{}{"x", 1.5}))
	require.NoError(t, wb.WriteCell(sheet, 2, 0, "y", models.Text))

	title, err := wb.ReadTitle(sheet)
	require.NoError(t, err)
	require.Len(t, title, 2)
	assert.Equal(t, "b", title[1].Name)

	values, err := wb.ReadRow(sheet, 1, cols)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"x", 1.5}, values)

	values, err = wb.ReadRow(sheet, 9, cols)
	require.NoError(t, err)
	assert.Nil(t, values)

	v, err := wb.ReadCell(sheet, 2, 0, models.Text)
	require.NoError(t, err)
	assert.Equal(t, "y", v)

	tbl := &models.Table{Columns: cols}
	visited, err := wb.ReadContent(sheet, 1, 3, tbl)
	require.NoError(t, err)
	assert.Equal(t, 3, visited)
	assert.Len(t, tbl.Rows, 2)
}

func TestMarshalErrorCarriesPosition(t *testing.T) {
	wb, _ := openTemp(t, DefaultOptions())
	sheet, err := wb.CreateSheet("Typed")
	require.NoError(t, err)
	require.NoError(t, wb.WriteCell(sheet, 0, 1, "text", models.Text))

	cols := []models.Column{{Name: "a"}, {Name: "b", Kind: models.KindInt}}
	_, err = wb.ReadRow(sheet, 0, cols)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrTypeMismatch)

	var me *MarshalError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "Typed", me.Sheet)
	assert.Equal(t, 0, me.Row)
	assert.Equal(t, 1, me.Col)
}

func TestReadSheetIntoDeclaredTable(t *testing.T) {
	wb, _ := openTemp(t, DefaultOptions())
	_, err := wb.WriteSheet("Students", studentTable(t), true)
	require.NoError(t, err)

	schema, err := ParseSchema([]byte(`
sheet: Students
title: true
columns:
  - name: id
  - name: name
  - name: sex
    kind: int
  - name: class
  - name: birthday
    data_type: Date
`))
	require.NoError(t, err)
	tbl, err := schema.Table()
	require.NoError(t, err)

	sheet, err := wb.Sheet(schema.Sheet)
	require.NoError(t, err)
	require.NoError(t, wb.ReadSheetInto(sheet, tbl, schema.Title, schema.StartRow))
	require.Len(t, tbl.Rows, 3)
	sex, _ := tbl.Value(2, "sex")
	assert.Equal(t, 1.0, sex)

	assert.ErrorIs(t, wb.ReadSheetInto(sheet, nil, true, 0), ErrInvalidArgument)
}
