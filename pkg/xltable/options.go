// Package xltable reads spreadsheet sheets into tables and writes tables
// back into sheets.
package xltable

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Options configures how a workbook is opened and marshalled.
type Options struct {
	// TemplatePath is an optional workbook used as the creation source.
	// It takes precedence over an existing data file.
	TemplatePath string
	// UseColumnTypes specifies whether declared column types drive type
	// resolution. If nil, defaults to true.
	UseColumnTypes *bool
	// Logger receives debug logs. If nil, logs are discarded.
	Logger logrus.FieldLogger
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{}
}

// ShouldUseColumnTypes returns whether declared column types drive type
// resolution.
func (o Options) ShouldUseColumnTypes() bool {
	if o.UseColumnTypes != nil {
		return *o.UseColumnTypes
	}
	return true
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
