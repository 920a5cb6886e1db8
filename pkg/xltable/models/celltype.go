// Package models defines the tabular data structures mapped to and from sheets.
package models

// CellDataType is the semantic kind used to marshal a cell.
type CellDataType int

const (
	// None writes a blank cell; it is also the unknown sentinel.
	None CellDataType = iota
	// Null writes a blank cell and reads back as nil.
	Null
	Text
	Date
	DateTime
	Int
	Double
	Formula
	Boolean
	RichText
)

var cellDataTypeNames = [...]string{
	None:     "None",
	Null:     "Null",
	Text:     "Text",
	Date:     "Date",
	DateTime: "DateTime",
	Int:      "Int",
	Double:   "Double",
	Formula:  "Formula",
	Boolean:  "Boolean",
	RichText: "RichText",
}

// String returns the name of the data type.
func (t CellDataType) String() string {
	if t < 0 || int(t) >= len(cellDataTypeNames) {
		return "Unknown"
	}
	return cellDataTypeNames[t]
}

// Blank reports whether the type always produces a blank cell.
func (t CellDataType) Blank() bool {
	return t == None || t == Null
}

// ParseCellDataType maps an explicit column type override to a CellDataType.
// Unrecognized names, including "Text", map to Text.
func ParseCellDataType(s string) CellDataType {
	switch s {
	case "Null":
		return Null
	case "Date":
		return Date
	case "DateTime":
		return DateTime
	case "Int":
		return Int
	case "Double":
		return Double
	case "Boolean":
		return Boolean
	case "Formula":
		return Formula
	case "RichText":
		return RichText
	default:
		return Text
	}
}
