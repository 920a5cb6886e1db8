package engine

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/xltable-go/pkg/xltable/models"
	"github.com/yamitzky/xlrd-go/xlrd"
)

// xlsWorkbook adapts a legacy BIFF workbook loaded by xlrd. The format has
// no writer, so every mutation fails with ErrReadOnly.
type xlsWorkbook struct {
	book   *xlrd.Book
	sheets []*xlsSheet
}

func openXLS(r io.Reader) (*xlsWorkbook, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	book, err := xlrd.OpenWorkbook("", &xlrd.OpenWorkbookOptions{
		Logfile:        io.Discard,
		FileContents:   content,
		FormattingInfo: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	wb := &xlsWorkbook{book: book}
	for i := range book.SheetNames() {
		sh, err := book.SheetByIndex(i)
		if err != nil {
			return nil, err
		}
		wb.sheets = append(wb.sheets, wb.loadSheet(sh))
	}
	return wb, nil
}

// loadSheet registers every non-empty cell of a BIFF sheet.
func (wb *xlsWorkbook) loadSheet(sh *xlrd.Sheet) *xlsSheet {
	sheet := &xlsSheet{wb: wb, sh: sh, rows: make(map[int]*xlsRow), last: -1}
	for rowx := 0; rowx < sh.NRows; rowx++ {
		var row *xlsRow
		for colx := 0; colx < sh.NCols; colx++ {
			if sh.CellType(rowx, colx) == xlrd.XL_CELL_EMPTY {
				continue
			}
			if row == nil {
				row = &xlsRow{sheet: sheet, index: rowx, cells: make(map[int]*xlsCell), first: -1}
				sheet.rows[rowx] = row
				sheet.last = rowx
			}
			row.cells[colx] = &xlsCell{row: row, col: colx, ref: CellRef(rowx, colx)}
			if row.first < 0 {
				row.first = colx
			}
			row.last = colx + 1
		}
	}
	return sheet
}

// isDateXF reports whether the XF record formats numbers as dates.
func (wb *xlsWorkbook) isDateXF(xfIndex int) bool {
	if xfIndex < 0 || xfIndex >= len(wb.book.XFList) {
		return false
	}
	key := wb.book.XFList[xfIndex].FormatKey
	if builtinDateFormats[key] {
		return true
	}
	if wb.book.FormatMap == nil {
		return false
	}
	format := wb.book.FormatMap[key]
	if format == nil || format.FormatString == "" {
		return false
	}
	return xlrd.IsDateFormatString(wb.book, format.FormatString)
}

func (wb *xlsWorkbook) Format() Format { return FormatXLS }

func (wb *xlsWorkbook) SheetCount() int { return len(wb.sheets) }

func (wb *xlsWorkbook) SheetByName(name string) Sheet {
	for _, s := range wb.sheets {
		if strings.EqualFold(s.sh.Name, name) {
			return s
		}
	}
	return nil
}

func (wb *xlsWorkbook) SheetAt(index int) Sheet {
	if index < 0 || index >= len(wb.sheets) {
		return nil
	}
	return wb.sheets[index]
}

func (wb *xlsWorkbook) CreateSheet(name string) (Sheet, error) {
	return nil, ErrReadOnly
}

// NewStyle returns the default XF so style registries can be built before
// any write is attempted.
func (wb *xlsWorkbook) NewStyle(spec StyleSpec) (Style, error) {
	return 0, nil
}

func (wb *xlsWorkbook) Write(w io.Writer) error {
	return ErrReadOnly
}

func (wb *xlsWorkbook) Close() error {
	wb.book.ReleaseResources()
	return nil
}

type xlsSheet struct {
	wb   *xlsWorkbook
	sh   *xlrd.Sheet
	rows map[int]*xlsRow
	last int
}

func (s *xlsSheet) Name() string { return s.sh.Name }

func (s *xlsSheet) Row(index int) Row {
	if row, ok := s.rows[index]; ok {
		return row
	}
	return nil
}

func (s *xlsSheet) CreateRow(index int) (Row, error) {
	if row, ok := s.rows[index]; ok {
		return row, nil
	}
	return nil, ErrReadOnly
}

func (s *xlsSheet) LastRowIndex() int { return s.last }

func (s *xlsSheet) AutoSizeColumn(col int) error { return ErrReadOnly }

func (s *xlsSheet) ColumnWidth(col int) (int, error) {
	if info, ok := s.sh.ColInfoMap[col]; ok && info != nil {
		return info.Width, nil
	}
	if s.sh.DefColWidth > 0 {
		return s.sh.DefColWidth * WidthUnitsPerChar, nil
	}
	return CharsToWidthUnits(8.43), nil
}

func (s *xlsSheet) SetColumnWidth(col, width int) error { return ErrReadOnly }

type xlsRow struct {
	sheet *xlsSheet
	index int
	cells map[int]*xlsCell
	first int
	last  int
}

func (r *xlsRow) Index() int { return r.index }

func (r *xlsRow) Cell(col int) Cell {
	if cell, ok := r.cells[col]; ok {
		return cell
	}
	return nil
}

func (r *xlsRow) CreateCell(col int) (Cell, error) { return nil, ErrReadOnly }

func (r *xlsRow) FirstCellIndex() int { return r.first }

func (r *xlsRow) LastCellIndex() int { return r.last }

func (r *xlsRow) SetHeight(points float64) error { return ErrReadOnly }

type xlsCell struct {
	row *xlsRow
	col int
	ref string
}

func (c *xlsCell) sheet() *xlrd.Sheet { return c.row.sheet.sh }

func (c *xlsCell) value() interface{} {
	return c.sheet().CellValue(c.row.index, c.col)
}

func (c *xlsCell) Ref() string { return c.ref }

func (c *xlsCell) Kind() NativeKind {
	switch c.sheet().CellType(c.row.index, c.col) {
	case xlrd.XL_CELL_EMPTY, xlrd.XL_CELL_BLANK:
		return NativeBlank
	case xlrd.XL_CELL_TEXT:
		return NativeString
	case xlrd.XL_CELL_DATE:
		return NativeDate
	case xlrd.XL_CELL_NUMBER:
		if c.row.sheet.wb.isDateXF(int(c.Style())) {
			return NativeDate
		}
		return NativeNumeric
	case xlrd.XL_CELL_BOOLEAN:
		return NativeBoolean
	case xlrd.XL_CELL_ERROR:
		return NativeError
	}
	return NativeUnknown
}

func (c *xlsCell) SetBlank() error                     { return ErrReadOnly }
func (c *xlsCell) SetString(v string) error            { return ErrReadOnly }
func (c *xlsCell) SetInt(v int64) error                { return ErrReadOnly }
func (c *xlsCell) SetFloat(v float64) error            { return ErrReadOnly }
func (c *xlsCell) SetBool(v bool) error                { return ErrReadOnly }
func (c *xlsCell) SetTime(v time.Time) error           { return ErrReadOnly }
func (c *xlsCell) SetFormula(v string) error           { return ErrReadOnly }
func (c *xlsCell) SetRichText(v models.RichTextValue) error { return ErrReadOnly }
func (c *xlsCell) SetStyle(s Style) error              { return ErrReadOnly }

func (c *xlsCell) String() (string, error) {
	switch c.Kind() {
	case NativeString:
		return fmt.Sprint(c.value()), nil
	case NativeError:
		return c.Text(), nil
	case NativeBlank:
		return "", nil
	}
	return "", mismatch(c, "string")
}

func (c *xlsCell) number() (float64, bool) {
	switch v := c.value().(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func (c *xlsCell) Float() (float64, error) {
	switch c.Kind() {
	case NativeBlank:
		return 0, nil
	case NativeNumeric, NativeDate:
		if f, ok := c.number(); ok {
			return f, nil
		}
	}
	return 0, mismatch(c, "numeric")
}

func (c *xlsCell) Bool() (bool, error) {
	switch c.Kind() {
	case NativeBlank:
		return false, nil
	case NativeBoolean:
		switch v := c.value().(type) {
		case bool:
			return v, nil
		case int:
			return v != 0, nil
		case float64:
			return v != 0, nil
		}
	}
	return false, mismatch(c, "boolean")
}

func (c *xlsCell) Time() (time.Time, error) {
	switch c.Kind() {
	case NativeBlank:
		return time.Time{}, nil
	case NativeNumeric, NativeDate:
		if f, ok := c.number(); ok {
			return xlrd.XldateAsDatetime(f, c.row.sheet.wb.book.Datemode)
		}
	}
	return time.Time{}, mismatch(c, "date")
}

// Formula always fails: BIFF cells only expose cached formula results.
func (c *xlsCell) Formula() (string, error) {
	return "", mismatch(c, "formula")
}

func (c *xlsCell) RichText() (models.RichTextValue, error) {
	switch c.Kind() {
	case NativeBlank:
		return models.RichTextValue{}, nil
	case NativeString:
		return models.RichTextValue{{Text: fmt.Sprint(c.value())}}, nil
	}
	return nil, mismatch(c, "rich text")
}

func (c *xlsCell) Text() string {
	switch c.Kind() {
	case NativeBlank:
		return ""
	case NativeNumeric:
		if f, ok := c.number(); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	case NativeDate:
		if t, err := c.Time(); err == nil {
			return t.Format("2006-01-02 15:04:05")
		}
	case NativeBoolean:
		if b, err := c.Bool(); err == nil {
			return strings.ToUpper(strconv.FormatBool(b))
		}
	case NativeError:
		if code, ok := c.value().(byte); ok {
			if text, ok := xlrd.ErrorTextFromCode[code]; ok {
				return text
			}
		}
		return "#ERROR"
	}
	return fmt.Sprint(c.value())
}

func (c *xlsCell) Style() Style {
	return Style(c.sheet().CellXFIndex(c.row.index, c.col))
}
