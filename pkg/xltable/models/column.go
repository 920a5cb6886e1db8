package models

import (
	"fmt"
	"strings"
)

// ValueKind is the declared runtime type of the values held by a column.
type ValueKind int

const (
	// KindAny marks a column without a declared type, such as one discovered
	// from a title row.
	KindAny ValueKind = iota
	KindString
	KindInt
	KindFloat
	KindDecimal
	KindBool
	KindDateTime
	KindOther
)

var valueKindNames = map[ValueKind]string{
	KindAny:      "any",
	KindString:   "string",
	KindInt:      "int",
	KindFloat:    "double",
	KindDecimal:  "decimal",
	KindBool:     "bool",
	KindDateTime: "datetime",
	KindOther:    "other",
}

// String returns the schema name of the kind.
func (k ValueKind) String() string {
	if name, ok := valueKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ValueKind(%d)", int(k))
}

// ParseValueKind parses a schema kind name such as "int" or "datetime".
func ParseValueKind(s string) (ValueKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return KindAny, nil
	case "string", "text":
		return KindString, nil
	case "int", "integer":
		return KindInt, nil
	case "double", "float":
		return KindFloat, nil
	case "decimal":
		return KindDecimal, nil
	case "bool", "boolean":
		return KindBool, nil
	case "datetime", "date", "time":
		return KindDateTime, nil
	case "other":
		return KindOther, nil
	}
	return KindAny, fmt.Errorf("unknown value kind %q", s)
}

func (k ValueKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ValueKind) UnmarshalText(b []byte) error {
	v, err := ParseValueKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Column describes one column of a table.
type Column struct {
	// Name is the column name, unique within a table.
	Name string `json:"name"`
	// Kind is the declared runtime type of the column values.
	Kind ValueKind `json:"kind"`
	// DataType is an optional explicit type override such as "Date" or "Int".
	// It takes precedence over Kind when set.
	DataType string `json:"data_type,omitempty"`
}

// Typed reports whether the column carries type metadata.
func (c Column) Typed() bool {
	return c.Kind != KindAny || c.DataType != ""
}

// DefaultColumnName returns the name given to an unnamed column at the
// zero-based position i.
func DefaultColumnName(i int) string {
	return fmt.Sprintf("Column%d", i+1)
}
