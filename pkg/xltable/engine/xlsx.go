package engine

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/xltable-go/pkg/xltable/models"
	"github.com/xuri/excelize/v2"
)

// defaultSheetName is the sheet excelize creates with every new file.
const defaultSheetName = "Sheet1"

// builtinDateFormats lists the builtin number format ids that render dates
// or times.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true,
	21: true, 22: true, 27: true, 30: true, 36: true, 45: true, 46: true,
	47: true, 50: true, 57: true, 58: true,
}

// xlsxWorkbook adapts an excelize file. excelize addresses cells through
// sheet names and references only, so the adapter keeps a registry of the
// rows and cells in use to report absent rows and cells as nil.
type xlsxWorkbook struct {
	f      *excelize.File
	sheets map[string]*xlsxSheet
	// placeholder is the hidden default sheet of a new file, renamed by
	// the first CreateSheet.
	placeholder string
	date1904    bool
	dateStyles  map[int]bool
}

func newXLSX() *xlsxWorkbook {
	return &xlsxWorkbook{
		f:           excelize.NewFile(),
		sheets:      make(map[string]*xlsxSheet),
		placeholder: defaultSheetName,
		dateStyles:  make(map[int]bool),
	}
}

func openXLSX(r io.Reader) (*xlsxWorkbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	wb := &xlsxWorkbook{
		f:          f,
		sheets:     make(map[string]*xlsxSheet),
		dateStyles: make(map[int]bool),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	for _, name := range f.GetSheetList() {
		sheet, err := wb.loadSheet(name)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("load sheet %q: %w", name, err)
		}
		wb.sheets[name] = sheet
	}
	return wb, nil
}

// loadSheet registers the used cells of an existing sheet.
func (wb *xlsxWorkbook) loadSheet(name string) (*xlsxSheet, error) {
	sheet := &xlsxSheet{wb: wb, name: name, rows: make(map[int]*xlsxRow), last: -1}
	grid, err := wb.f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	used, b := scanUsedCells(grid)
	if b.empty() {
		return sheet, nil
	}
	for rowIdx, cols := range used {
		row := sheet.newRow(rowIdx)
		for _, col := range cols {
			row.register(col)
		}
	}
	sheet.last = b.maxRow
	return sheet, nil
}

func (wb *xlsxWorkbook) Format() Format { return FormatXLSX }

func (wb *xlsxWorkbook) names() []string {
	var names []string
	for _, name := range wb.f.GetSheetList() {
		if name == wb.placeholder {
			continue
		}
		names = append(names, name)
	}
	return names
}

func (wb *xlsxWorkbook) SheetCount() int {
	return len(wb.names())
}

func (wb *xlsxWorkbook) SheetByName(name string) Sheet {
	if name == "" || name == wb.placeholder {
		return nil
	}
	for _, n := range wb.names() {
		if strings.EqualFold(n, name) {
			return wb.sheets[n]
		}
	}
	return nil
}

func (wb *xlsxWorkbook) SheetAt(index int) Sheet {
	names := wb.names()
	if index < 0 || index >= len(names) {
		return nil
	}
	return wb.sheets[names[index]]
}

func (wb *xlsxWorkbook) CreateSheet(name string) (Sheet, error) {
	if wb.SheetByName(name) != nil {
		return nil, fmt.Errorf("%w: %q", ErrSheetExists, name)
	}
	if wb.placeholder != "" {
		if err := wb.f.SetSheetName(wb.placeholder, name); err != nil {
			return nil, err
		}
		wb.placeholder = ""
	} else if _, err := wb.f.NewSheet(name); err != nil {
		return nil, err
	}
	sheet := &xlsxSheet{wb: wb, name: name, rows: make(map[int]*xlsxRow), last: -1}
	wb.sheets[name] = sheet
	return sheet, nil
}

func (wb *xlsxWorkbook) NewStyle(spec StyleSpec) (Style, error) {
	style := &excelize.Style{
		Font: &excelize.Font{
			Bold:   spec.Bold,
			Family: spec.FontFamily,
			Size:   spec.FontSize,
		},
		Alignment: &excelize.Alignment{
			Horizontal: spec.Horizontal,
			Vertical:   spec.Vertical,
			WrapText:   spec.WrapText,
		},
		NumFmt: spec.NumFmt,
	}
	if spec.CustomNumFmt != "" {
		code := spec.CustomNumFmt
		style.CustomNumFmt = &code
	}
	id, err := wb.f.NewStyle(style)
	if err != nil {
		return 0, err
	}
	return Style(id), nil
}

func (wb *xlsxWorkbook) Write(w io.Writer) error {
	return wb.f.Write(w)
}

func (wb *xlsxWorkbook) Close() error {
	return wb.f.Close()
}

// isDateStyle reports whether the style renders numbers as dates.
func (wb *xlsxWorkbook) isDateStyle(id int) bool {
	if v, ok := wb.dateStyles[id]; ok {
		return v
	}
	var isDate bool
	if style, err := wb.f.GetStyle(id); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			isDate = IsDateFormatCode(*style.CustomNumFmt)
		} else {
			isDate = builtinDateFormats[style.NumFmt]
		}
	}
	wb.dateStyles[id] = isDate
	return isDate
}

// IsDateFormatCode reports whether a number format code renders a date or
// a time. Quoted literals, escapes and bracketed sections are ignored.
func IsDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case inQuote:
			inQuote = ch != '"'
		case inBracket:
			inBracket = ch != ']'
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		default:
			b.WriteByte(ch)
		}
	}
	cleaned := strings.ToLower(b.String())
	if cleaned == "general" {
		return false
	}
	return strings.ContainsAny(cleaned, "ydhms")
}

type xlsxSheet struct {
	wb   *xlsxWorkbook
	name string
	rows map[int]*xlsxRow
	last int
}

func (s *xlsxSheet) Name() string { return s.name }

func (s *xlsxSheet) newRow(index int) *xlsxRow {
	row := &xlsxRow{sheet: s, index: index, cells: make(map[int]*xlsxCell), first: -1}
	s.rows[index] = row
	if index > s.last {
		s.last = index
	}
	return row
}

func (s *xlsxSheet) Row(index int) Row {
	if row, ok := s.rows[index]; ok {
		return row
	}
	return nil
}

func (s *xlsxSheet) CreateRow(index int) (Row, error) {
	if index < 0 || index >= excelize.TotalRows {
		return nil, fmt.Errorf("row index %d out of range", index)
	}
	if row, ok := s.rows[index]; ok {
		return row, nil
	}
	return s.newRow(index), nil
}

func (s *xlsxSheet) LastRowIndex() int { return s.last }

// AutoSizeColumn sets the column width to the widest rendered cell text.
func (s *xlsxSheet) AutoSizeColumn(col int) error {
	widest := 0
	for _, row := range s.rows {
		cell, ok := row.cells[col]
		if !ok {
			continue
		}
		if w := DisplayWidth(cell.Text()); w > widest {
			widest = w
		}
	}
	if widest == 0 {
		return nil
	}
	return s.SetColumnWidth(col, CharsToWidthUnits(float64(widest)+1))
}

func (s *xlsxSheet) ColumnWidth(col int) (int, error) {
	w, err := s.wb.f.GetColWidth(s.name, ColumnName(col))
	if err != nil {
		return 0, err
	}
	return CharsToWidthUnits(w), nil
}

func (s *xlsxSheet) SetColumnWidth(col, width int) error {
	chars := math.Min(WidthUnitsToChars(width), MaxColumnChars)
	name := ColumnName(col)
	return s.wb.f.SetColWidth(s.name, name, name, chars)
}

type xlsxRow struct {
	sheet *xlsxSheet
	index int
	cells map[int]*xlsxCell
	first int
	last  int
}

func (r *xlsxRow) register(col int) *xlsxCell {
	if cell, ok := r.cells[col]; ok {
		return cell
	}
	cell := &xlsxCell{row: r, col: col, ref: CellRef(r.index, col)}
	r.cells[col] = cell
	if r.first < 0 || col < r.first {
		r.first = col
	}
	if col+1 > r.last {
		r.last = col + 1
	}
	return cell
}

func (r *xlsxRow) Index() int { return r.index }

func (r *xlsxRow) Cell(col int) Cell {
	if cell, ok := r.cells[col]; ok {
		return cell
	}
	return nil
}

func (r *xlsxRow) CreateCell(col int) (Cell, error) {
	if col < 0 || col >= excelize.MaxColumns {
		return nil, fmt.Errorf("column index %d out of range", col)
	}
	cell := r.register(col)
	if err := cell.SetBlank(); err != nil {
		return nil, err
	}
	if err := cell.SetStyle(0); err != nil {
		return nil, err
	}
	return cell, nil
}

func (r *xlsxRow) FirstCellIndex() int { return r.first }

func (r *xlsxRow) LastCellIndex() int { return r.last }

func (r *xlsxRow) SetHeight(points float64) error {
	return r.sheet.wb.f.SetRowHeight(r.sheet.name, r.index+1, points)
}

type xlsxCell struct {
	row *xlsxRow
	col int
	ref string
}

func (c *xlsxCell) file() *excelize.File { return c.row.sheet.wb.f }

func (c *xlsxCell) sheet() string { return c.row.sheet.name }

func (c *xlsxCell) Ref() string { return c.ref }

func (c *xlsxCell) raw() string {
	v, _ := c.file().GetCellValue(c.sheet(), c.ref, excelize.Options{RawCellValue: true})
	return v
}

func (c *xlsxCell) Kind() NativeKind {
	if formula, err := c.file().GetCellFormula(c.sheet(), c.ref); err == nil && formula != "" {
		return NativeFormula
	}
	t, err := c.file().GetCellType(c.sheet(), c.ref)
	if err != nil {
		return NativeUnknown
	}
	switch t {
	case excelize.CellTypeBool:
		return NativeBoolean
	case excelize.CellTypeDate:
		return NativeDate
	case excelize.CellTypeError:
		return NativeError
	case excelize.CellTypeInlineString, excelize.CellTypeSharedString, excelize.CellTypeFormula:
		return NativeString
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if c.raw() == "" {
			return NativeBlank
		}
		if c.row.sheet.wb.isDateStyle(int(c.Style())) {
			return NativeDate
		}
		return NativeNumeric
	}
	return NativeUnknown
}

func (c *xlsxCell) SetBlank() error {
	return c.file().SetCellValue(c.sheet(), c.ref, nil)
}

func (c *xlsxCell) SetString(v string) error {
	return c.file().SetCellStr(c.sheet(), c.ref, v)
}

func (c *xlsxCell) SetInt(v int64) error {
	return c.file().SetCellInt(c.sheet(), c.ref, v)
}

func (c *xlsxCell) SetFloat(v float64) error {
	return c.file().SetCellFloat(c.sheet(), c.ref, v, -1, 64)
}

func (c *xlsxCell) SetBool(v bool) error {
	return c.file().SetCellBool(c.sheet(), c.ref, v)
}

func (c *xlsxCell) SetTime(v time.Time) error {
	return c.file().SetCellValue(c.sheet(), c.ref, v)
}

func (c *xlsxCell) SetFormula(v string) error {
	return c.file().SetCellFormula(c.sheet(), c.ref, strings.TrimPrefix(v, "="))
}

func (c *xlsxCell) SetRichText(v models.RichTextValue) error {
	runs := make([]excelize.RichTextRun, 0, len(v))
	for _, run := range v {
		r := excelize.RichTextRun{Text: run.Text}
		if run.Bold || run.Italic || run.Color != "" || run.Size > 0 || run.Family != "" {
			r.Font = &excelize.Font{
				Bold:   run.Bold,
				Italic: run.Italic,
				Color:  run.Color,
				Size:   run.Size,
				Family: run.Family,
			}
		}
		runs = append(runs, r)
	}
	return c.file().SetCellRichText(c.sheet(), c.ref, runs)
}

func (c *xlsxCell) String() (string, error) {
	switch c.Kind() {
	case NativeString, NativeFormula, NativeError:
		return c.file().GetCellValue(c.sheet(), c.ref)
	case NativeBlank:
		return "", nil
	}
	return "", mismatch(c, "string")
}

func (c *xlsxCell) Float() (float64, error) {
	switch c.Kind() {
	case NativeBlank:
		return 0, nil
	case NativeNumeric, NativeDate, NativeFormula:
		raw := c.raw()
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f, nil
		}
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return timeToSerial(t, c.row.sheet.wb.date1904), nil
		}
	}
	return 0, mismatch(c, "numeric")
}

func (c *xlsxCell) Bool() (bool, error) {
	switch c.Kind() {
	case NativeBlank:
		return false, nil
	case NativeBoolean, NativeFormula:
		switch strings.ToUpper(c.raw()) {
		case "1", "TRUE":
			return true, nil
		case "0", "FALSE":
			return false, nil
		}
	}
	return false, mismatch(c, "boolean")
}

func (c *xlsxCell) Time() (time.Time, error) {
	switch c.Kind() {
	case NativeBlank:
		return time.Time{}, nil
	case NativeNumeric, NativeDate, NativeFormula:
		raw := c.raw()
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return excelize.ExcelDateToTime(f, c.row.sheet.wb.date1904)
		}
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, mismatch(c, "date")
}

func (c *xlsxCell) Formula() (string, error) {
	formula, err := c.file().GetCellFormula(c.sheet(), c.ref)
	if err != nil {
		return "", err
	}
	if formula == "" {
		return "", mismatch(c, "formula")
	}
	return formula, nil
}

func (c *xlsxCell) RichText() (models.RichTextValue, error) {
	switch c.Kind() {
	case NativeBlank:
		return models.RichTextValue{}, nil
	case NativeString:
	default:
		return nil, mismatch(c, "rich text")
	}
	runs, err := c.file().GetCellRichText(c.sheet(), c.ref)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		text, err := c.file().GetCellValue(c.sheet(), c.ref)
		if err != nil {
			return nil, err
		}
		return models.RichTextValue{{Text: text}}, nil
	}
	out := make(models.RichTextValue, 0, len(runs))
	for _, run := range runs {
		r := models.RichTextRun{Text: run.Text}
		if run.Font != nil {
			r.Bold = run.Font.Bold
			r.Italic = run.Font.Italic
			r.Color = run.Font.Color
			r.Size = run.Font.Size
			r.Family = run.Font.Family
		}
		out = append(out, r)
	}
	return out, nil
}

func (c *xlsxCell) Text() string {
	if formula, err := c.file().GetCellFormula(c.sheet(), c.ref); err == nil && formula != "" {
		return formula
	}
	v, _ := c.file().GetCellValue(c.sheet(), c.ref)
	return v
}

func (c *xlsxCell) Style() Style {
	id, err := c.file().GetCellStyle(c.sheet(), c.ref)
	if err != nil {
		return 0
	}
	return Style(id)
}

func (c *xlsxCell) SetStyle(s Style) error {
	return c.file().SetCellStyle(c.sheet(), c.ref, c.ref, int(s))
}

// timeToSerial converts a time to a spreadsheet serial day number.
func timeToSerial(t time.Time, date1904 bool) float64 {
	epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	if date1904 {
		epoch = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return t.Sub(epoch).Hours() / 24
}
