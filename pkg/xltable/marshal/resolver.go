// Package marshal converts between in-memory tables and spreadsheet cells.
//
// A Marshaller resolves a CellDataType for every column or cell, stores
// values by their runtime kind, styles them by their resolved type, and
// iterates rows and sheets on top of the engine interfaces.
package marshal

import (
	"github.com/ukaji3/xltable-go/pkg/xltable/engine"
	"github.com/ukaji3/xltable-go/pkg/xltable/models"
)

// Resolver decides which CellDataType applies to a column or a cell.
type Resolver struct {
	// UseColumnTypes enables resolution from column metadata. When false,
	// FromColumn always returns None.
	UseColumnTypes bool
}

// FromColumn resolves the type of a column from its metadata. An explicit
// DataType override always wins over the declared Kind.
func (r Resolver) FromColumn(col models.Column) models.CellDataType {
	if !r.UseColumnTypes {
		return models.None
	}
	if col.DataType != "" {
		return models.ParseCellDataType(col.DataType)
	}
	switch col.Kind {
	case models.KindDateTime:
		return models.DateTime
	case models.KindInt:
		return models.Int
	case models.KindFloat, models.KindDecimal:
		return models.Double
	case models.KindBool:
		return models.Boolean
	}
	return models.Text
}

// FromNative resolves the type of a cell from its storage kind.
func FromNative(kind engine.NativeKind) models.CellDataType {
	switch kind {
	case engine.NativeBlank:
		return models.None
	case engine.NativeBoolean:
		return models.Boolean
	case engine.NativeFormula:
		return models.Formula
	case engine.NativeNumeric:
		return models.Double
	case engine.NativeDate:
		return models.DateTime
	case engine.NativeError, engine.NativeString, engine.NativeUnknown:
		return models.Text
	}
	return models.Text
}

// ForCell resolves the type used to read cell. Typed columns resolve from
// their metadata; untyped or missing columns fall back to the native kind.
func (r Resolver) ForCell(col *models.Column, cell engine.Cell) models.CellDataType {
	if col != nil && col.Typed() && r.UseColumnTypes {
		return r.FromColumn(*col)
	}
	return FromNative(cell.Kind())
}
