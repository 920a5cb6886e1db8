package engine

import (
	"unicode/utf8"

	"golang.org/x/text/width"
)

// WidthUnitsPerChar is the number of column width units per character.
// Column widths are stored in 1/256 of a character width.
const WidthUnitsPerChar = 256

// MaxColumnChars is the widest column a sheet accepts, in characters.
const MaxColumnChars = 255

// CharsToWidthUnits converts a width in characters to 1/256 units.
func CharsToWidthUnits(chars float64) int {
	return int(chars * WidthUnitsPerChar)
}

// WidthUnitsToChars converts a width in 1/256 units to characters.
func WidthUnitsToChars(units int) float64 {
	return float64(units) / WidthUnitsPerChar
}

// DisplayWidth returns the number of character cells s occupies. East Asian
// wide and fullwidth runes count as two, matching their byte length in the
// legacy double-byte code pages.
func DisplayWidth(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
