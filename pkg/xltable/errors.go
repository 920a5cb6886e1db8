package xltable

import (
	"errors"

	"github.com/ukaji3/xltable-go/pkg/xltable/marshal"
)

// ErrInvalidArgument indicates a blank sheet name or another argument the
// operation cannot run with.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrUninitialized indicates an operation on a nil or closed workbook.
var ErrUninitialized = errors.New("workbook is not initialized")

// MarshalError is the positioned error returned by cell reads and writes.
type MarshalError = marshal.Error
