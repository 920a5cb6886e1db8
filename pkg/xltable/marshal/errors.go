package marshal

import (
	"errors"
	"fmt"

	"github.com/ukaji3/xltable-go/pkg/xltable/engine"
)

// Error records the position of a failed cell read or write.
type Error struct {
	Sheet string
	Row   int
	Col   int
	Op    string // "read", "write", "title"
	Err   error
}

func (e *Error) Error() string {
	ref := engine.CellRef(e.Row, e.Col)
	if e.Sheet != "" {
		return fmt.Sprintf("%s cell %s!%s: %v", e.Op, e.Sheet, ref, e.Err)
	}
	return fmt.Sprintf("%s cell %s: %v", e.Op, ref, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func cellError(op string, row, col int, err error) *Error {
	return &Error{Row: row, Col: col, Op: op, Err: err}
}

// inSheet attaches the sheet name to a positioned error.
func inSheet(sheet engine.Sheet, err error) error {
	var me *Error
	if errors.As(err, &me) && me.Sheet == "" {
		me.Sheet = sheet.Name()
	}
	return err
}
