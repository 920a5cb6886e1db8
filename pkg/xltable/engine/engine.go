// Package engine defines the narrow spreadsheet interface the marshallers
// work against, with one adapter per container format.
//
// All row and column indices are zero-based.
package engine

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ukaji3/xltable-go/pkg/xltable/models"
)

// ErrTypeMismatch indicates a typed read that disagrees with the stored cell.
var ErrTypeMismatch = errors.New("cell type mismatch")

// ErrReadOnly indicates a mutation on a workbook opened from a read-only format.
var ErrReadOnly = errors.New("workbook format is read-only")

// ErrUnsupportedFormat indicates a path whose container format is unknown.
var ErrUnsupportedFormat = errors.New("unsupported workbook format")

// ErrSheetExists indicates a CreateSheet call for a name already in use.
var ErrSheetExists = errors.New("sheet already exists")

// Format identifies a workbook container format.
type Format string

const (
	// FormatXLSX is the zip based Office Open XML container.
	FormatXLSX Format = "xlsx"
	// FormatXLS is the legacy BIFF container.
	FormatXLS Format = "xls"
)

// NativeKind is the storage kind of a cell as reported by the container.
type NativeKind int

const (
	NativeUnknown NativeKind = iota
	NativeBlank
	NativeBoolean
	NativeError
	NativeFormula
	NativeNumeric
	NativeString
	// NativeDate is a numeric or ISO date cell carrying a date format.
	NativeDate
)

var nativeKindNames = [...]string{
	NativeUnknown: "unknown",
	NativeBlank:   "blank",
	NativeBoolean: "boolean",
	NativeError:   "error",
	NativeFormula: "formula",
	NativeNumeric: "numeric",
	NativeString:  "string",
	NativeDate:    "date",
}

func (k NativeKind) String() string {
	if k < 0 || int(k) >= len(nativeKindNames) {
		return "unknown"
	}
	return nativeKindNames[k]
}

// Style is an opaque style handle owned by one workbook.
type Style int

// StyleSpec describes a cell style to register with NewStyle.
type StyleSpec struct {
	FontFamily string
	FontSize   float64
	Bold       bool
	// NumFmt is a builtin number format id; ignored when CustomNumFmt is set.
	NumFmt       int
	CustomNumFmt string
	Horizontal   string
	Vertical     string
	WrapText     bool
}

// Workbook is an open spreadsheet document.
type Workbook interface {
	Format() Format
	SheetCount() int
	// SheetByName returns nil when no sheet has the name.
	SheetByName(name string) Sheet
	// SheetAt returns nil for a negative or out of range index.
	SheetAt(index int) Sheet
	CreateSheet(name string) (Sheet, error)
	NewStyle(spec StyleSpec) (Style, error)
	Write(w io.Writer) error
	Close() error
}

// Sheet is a sparse, ordered collection of rows.
type Sheet interface {
	Name() string
	// Row returns nil when the row is absent.
	Row(index int) Row
	// CreateRow returns the row at index, creating it when absent.
	CreateRow(index int) (Row, error)
	// LastRowIndex returns the index of the last used row, or -1.
	LastRowIndex() int
	AutoSizeColumn(col int) error
	// ColumnWidth returns the width in 1/256 character units.
	ColumnWidth(col int) (int, error)
	SetColumnWidth(col, width int) error
}

// Row is a sparse, ordered collection of cells.
type Row interface {
	Index() int
	// Cell returns nil when the cell is absent.
	Cell(col int) Cell
	// CreateCell returns an empty, unstyled cell at col, clearing any
	// previous content.
	CreateCell(col int) (Cell, error)
	// FirstCellIndex returns the first used cell index, or -1.
	FirstCellIndex() int
	// LastCellIndex returns one past the last used cell index.
	LastCellIndex() int
	// SetHeight sets the display height in points.
	SetHeight(points float64) error
}

// Cell is a single value position.
type Cell interface {
	Ref() string
	Kind() NativeKind

	SetBlank() error
	SetString(v string) error
	SetInt(v int64) error
	SetFloat(v float64) error
	SetBool(v bool) error
	SetTime(v time.Time) error
	SetFormula(v string) error
	SetRichText(v models.RichTextValue) error

	String() (string, error)
	Float() (float64, error)
	Bool() (bool, error)
	Time() (time.Time, error)
	Formula() (string, error)
	RichText() (models.RichTextValue, error)
	// Text returns the rendered display text.
	Text() string

	Style() Style
	SetStyle(s Style) error
}

func mismatch(c Cell, want string) error {
	return fmt.Errorf("%w: cannot read %s from %s cell %s", ErrTypeMismatch, want, c.Kind(), c.Ref())
}
