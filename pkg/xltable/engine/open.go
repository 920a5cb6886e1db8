package engine

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// DetectFormat selects the container format from a path. The check is a
// substring match: any path containing ".xlsx" is xlsx, otherwise any path
// containing ".xls" is xls.
func DetectFormat(path string) (Format, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.Contains(lower, ".xlsx"):
		return FormatXLSX, nil
	case strings.Contains(lower, ".xls"):
		return FormatXLS, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Open opens an existing workbook file.
func Open(path string) (Workbook, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return OpenReader(f, format)
}

// OpenReader reads a workbook of the given format from r.
func OpenReader(r io.Reader, format Format) (Workbook, error) {
	switch format {
	case FormatXLSX:
		return openXLSX(r)
	case FormatXLS:
		return openXLS(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Create returns a new, empty workbook for the format of path.
func Create(path string) (Workbook, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatXLSX:
		return newXLSX(), nil
	case FormatXLS:
		return nil, fmt.Errorf("%w: cannot create %s", ErrReadOnly, path)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}
