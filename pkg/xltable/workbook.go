package xltable

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/ukaji3/xltable-go/pkg/xltable/engine"
	"github.com/ukaji3/xltable-go/pkg/xltable/marshal"
	"github.com/ukaji3/xltable-go/pkg/xltable/models"
)

// Workbook binds a spreadsheet to its backing data file. Changes stay in
// memory until Flush. A Workbook is not safe for concurrent use.
type Workbook struct {
	path string
	wb   engine.Workbook
	m    *marshal.Marshaller
	log  logrus.FieldLogger
}

// Open opens the workbook backed by dataPath. The template in
// opts.TemplatePath is used as the creation source when set; otherwise an
// existing data file is opened, or a new empty workbook is created.
func Open(dataPath string, opts Options) (*Workbook, error) {
	log := opts.logger().WithField("path", dataPath)

	source := "new"
	var (
		wb  engine.Workbook
		err error
	)
	switch {
	case opts.TemplatePath != "":
		source = "template"
		wb, err = engine.Open(opts.TemplatePath)
	default:
		exists, statErr := fileExists(dataPath)
		if statErr != nil {
			return nil, statErr
		}
		if exists {
			source = "data"
			wb, err = engine.Open(dataPath)
		} else {
			wb, err = engine.Create(dataPath)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open %s workbook: %w", source, err)
	}

	m, err := marshal.New(wb, opts.ShouldUseColumnTypes(), log)
	if err != nil {
		wb.Close()
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"source":   source,
		"format":   wb.Format(),
		"sheets":   wb.SheetCount(),
		"template": opts.TemplatePath,
	}).Debug("opened workbook")

	return &Workbook{path: dataPath, wb: wb, m: m, log: log}, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (w *Workbook) ready() error {
	if w == nil || w.wb == nil {
		return ErrUninitialized
	}
	return nil
}

func validName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: blank sheet name", ErrInvalidArgument)
	}
	return nil
}

// Path returns the backing data file path.
func (w *Workbook) Path() string {
	if w == nil {
		return ""
	}
	return w.path
}

// Engine returns the underlying engine workbook, or nil once closed.
func (w *Workbook) Engine() engine.Workbook {
	if w == nil {
		return nil
	}
	return w.wb
}

// Marshaller returns the marshaller bound to the workbook styles.
func (w *Workbook) Marshaller() *marshal.Marshaller {
	if w == nil {
		return nil
	}
	return w.m
}

// SheetCount returns the number of sheets.
func (w *Workbook) SheetCount() (int, error) {
	if err := w.ready(); err != nil {
		return 0, err
	}
	return w.wb.SheetCount(), nil
}

// Sheet returns the named sheet, or nil when there is none.
func (w *Workbook) Sheet(name string) (engine.Sheet, error) {
	if err := w.ready(); err != nil {
		return nil, err
	}
	if err := validName(name); err != nil {
		return nil, err
	}
	return w.wb.SheetByName(name), nil
}

// SheetAt returns the sheet at the zero-based index, or nil when the index
// is out of range.
func (w *Workbook) SheetAt(index int) (engine.Sheet, error) {
	if err := w.ready(); err != nil {
		return nil, err
	}
	return w.wb.SheetAt(index), nil
}

// CreateSheet adds a sheet.
func (w *Workbook) CreateSheet(name string) (engine.Sheet, error) {
	if err := w.ready(); err != nil {
		return nil, err
	}
	if err := validName(name); err != nil {
		return nil, err
	}
	sheet, err := w.wb.CreateSheet(name)
	if err != nil {
		return nil, err
	}
	w.log.WithField("sheet", name).Debug("created sheet")
	return sheet, nil
}

// GetOrCreateSheet returns the named sheet, creating it when absent.
func (w *Workbook) GetOrCreateSheet(name string) (engine.Sheet, error) {
	sheet, err := w.Sheet(name)
	if err != nil || sheet != nil {
		return sheet, err
	}
	return w.CreateSheet(name)
}

// WriteSheet writes t from the first row of the named sheet, creating the
// sheet when absent. It returns the index of the row after the last one
// written.
func (w *Workbook) WriteSheet(name string, t *models.Table, writeTitle bool) (int, error) {
	sheet, err := w.GetOrCreateSheet(name)
	if err != nil {
		return 0, err
	}
	return w.WriteSheetAt(sheet, t, writeTitle, 0)
}

// WriteSheetAt writes t into sheet from startRow.
func (w *Workbook) WriteSheetAt(sheet engine.Sheet, t *models.Table, writeTitle bool, startRow int) (int, error) {
	if err := w.ready(); err != nil {
		return 0, err
	}
	if sheet == nil || t == nil {
		return startRow, fmt.Errorf("%w: nil sheet or table", ErrInvalidArgument)
	}
	if startRow < 0 {
		return startRow, fmt.Errorf("%w: negative start row %d", ErrInvalidArgument, startRow)
	}
	return w.m.WriteSheet(sheet, t, writeTitle, startRow)
}

// WriteTitle writes column names into the first row of sheet.
func (w *Workbook) WriteTitle(sheet engine.Sheet, cols []models.Column) error {
	if err := w.ready(); err != nil {
		return err
	}
	if sheet == nil {
		return fmt.Errorf("%w: nil sheet", ErrInvalidArgument)
	}
	return w.m.WriteTitleSheet(sheet, cols)
}

// WriteRow writes values into the row at index, one cell per column.
func (w *Workbook) WriteRow(sheet engine.Sheet, index int, cols []models.Column, values []interface{}) error {
	if err := w.ready(); err != nil {
		return err
	}
	if sheet == nil {
		return fmt.Errorf("%w: nil sheet", ErrInvalidArgument)
	}
	row, err := sheet.CreateRow(index)
	if err != nil {
		return err
	}
	if err := w.m.WriteRow(row, cols, values); err != nil {
		var me *MarshalError
		if errors.As(err, &me) {
			me.Sheet = sheet.Name()
		}
		return err
	}
	return nil
}

// WriteCell writes one value at the zero-based coordinates.
func (w *Workbook) WriteCell(sheet engine.Sheet, row, col int, value interface{}, dt models.CellDataType) error {
	if err := w.ready(); err != nil {
		return err
	}
	if sheet == nil {
		return fmt.Errorf("%w: nil sheet", ErrInvalidArgument)
	}
	return w.m.WriteCellAt(sheet, row, col, value, dt)
}

// ReadSheet reads the named sheet from its first row. It returns nil when
// the sheet does not exist.
func (w *Workbook) ReadSheet(name string, readTitle bool) (*models.Table, error) {
	sheet, err := w.Sheet(name)
	if err != nil {
		return nil, err
	}
	return w.ReadSheetFrom(sheet, readTitle, 0)
}

// ReadSheetFrom reads sheet from startRow. It returns nil for a nil sheet.
func (w *Workbook) ReadSheetFrom(sheet engine.Sheet, readTitle bool, startRow int) (*models.Table, error) {
	if err := w.ready(); err != nil {
		return nil, err
	}
	return w.m.ReadSheet(sheet, readTitle, startRow)
}

// ReadSheetInto reads sheet from startRow into a table with declared
// columns.
func (w *Workbook) ReadSheetInto(sheet engine.Sheet, t *models.Table, readTitle bool, startRow int) error {
	if err := w.ready(); err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("%w: nil table", ErrInvalidArgument)
	}
	return w.m.ReadSheetInto(sheet, t, readTitle, startRow)
}

// ReadTitle reads column names from the first row of sheet.
func (w *Workbook) ReadTitle(sheet engine.Sheet) ([]models.Column, error) {
	if err := w.ready(); err != nil {
		return nil, err
	}
	if sheet == nil {
		return nil, nil
	}
	return w.m.ReadTitleSheet(sheet)
}

// ReadRow reads the row at index aligned with cols. An absent row reads
// as nil.
func (w *Workbook) ReadRow(sheet engine.Sheet, index int, cols []models.Column) ([]interface{}, error) {
	if err := w.ready(); err != nil {
		return nil, err
	}
	if sheet == nil {
		return nil, nil
	}
	row := sheet.Row(index)
	if row == nil {
		return nil, nil
	}
	values, err := w.m.ReadRow(row, cols)
	if err != nil {
		var me *MarshalError
		if errors.As(err, &me) {
			me.Sheet = sheet.Name()
		}
		return nil, err
	}
	return values, nil
}

// ReadCell reads one value at the zero-based coordinates.
func (w *Workbook) ReadCell(sheet engine.Sheet, row, col int, dt models.CellDataType) (interface{}, error) {
	if err := w.ready(); err != nil {
		return nil, err
	}
	if sheet == nil {
		return nil, nil
	}
	return w.m.ReadCellAt(sheet, row, col, dt)
}

// ReadContent appends the rows in [start, end] of sheet to t and returns
// the number of row indices visited.
func (w *Workbook) ReadContent(sheet engine.Sheet, start, end int, t *models.Table) (int, error) {
	if err := w.ready(); err != nil {
		return 0, err
	}
	if sheet == nil || t == nil {
		return 0, fmt.Errorf("%w: nil sheet or table", ErrInvalidArgument)
	}
	return w.m.ReadContent(sheet, start, end, t)
}

// Flush serializes the whole workbook to the data file, replacing its
// content.
func (w *Workbook) Flush() error {
	if err := w.ready(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := w.wb.Write(&buf); err != nil {
		return fmt.Errorf("serialize workbook: %w", err)
	}
	f, err := os.OpenFile(w.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	n, err := buf.WriteTo(f)
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	w.log.WithField("bytes", n).Debug("flushed workbook")
	return nil
}

// Close releases the workbook. Later calls fail with ErrUninitialized.
func (w *Workbook) Close() error {
	if err := w.ready(); err != nil {
		return err
	}
	err := w.wb.Close()
	w.wb = nil
	w.m = nil
	return err
}
