package models

import (
	"encoding/json"
	"math/big"
	"strings"
)

// FormulaValue is a cell formula stored as a native formula.
type FormulaValue string

// RichTextRun is a run of text sharing one font.
type RichTextRun struct {
	// Text is the run content.
	Text string `json:"text"`
	// Bold marks a bold run.
	Bold bool `json:"bold,omitempty"`
	// Italic marks an italic run.
	Italic bool `json:"italic,omitempty"`
	// Color is an RGB hex color such as "FF0000".
	Color string `json:"color,omitempty"`
	// Size is the font size in points (0 means inherit).
	Size float64 `json:"size,omitempty"`
	// Family is the font family name.
	Family string `json:"family,omitempty"`
}

// RichTextValue is a cell value made of formatted runs.
type RichTextValue []RichTextRun

// String returns the concatenated text of all runs.
func (r RichTextValue) String() string {
	var b strings.Builder
	for _, run := range r {
		b.WriteString(run.Text)
	}
	return b.String()
}

// floater is satisfied by decimal types such as shopspring/decimal.Decimal.
type floater interface {
	Float64() (float64, bool)
}

// DecimalFloat converts a decimal value to float64. ok is false when v is
// not a decimal.
func DecimalFloat(v interface{}) (f float64, ok bool) {
	switch d := v.(type) {
	case json.Number:
		n, err := d.Float64()
		return n, err == nil
	case *big.Float:
		if d == nil {
			return 0, false
		}
		f, _ = d.Float64()
		return f, true
	case *big.Rat:
		if d == nil {
			return 0, false
		}
		f, _ = d.Float64()
		return f, true
	case floater:
		f, _ = d.Float64()
		return f, true
	}
	return 0, false
}
