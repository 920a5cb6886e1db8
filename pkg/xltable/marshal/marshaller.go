package marshal

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/ukaji3/xltable-go/pkg/xltable/engine"
)

// RowHeight is the display height of written content rows, in points.
const RowHeight = 26

// Marshaller reads and writes tables through one workbook's styles.
type Marshaller struct {
	Resolver Resolver
	Styles   *Styles
	Log      logrus.FieldLogger
}

// New returns a Marshaller that registers its styles with wb.
func New(wb engine.Workbook, useColumnTypes bool, log logrus.FieldLogger) (*Marshaller, error) {
	styles, err := NewStyles(wb)
	if err != nil {
		return nil, err
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Marshaller{
		Resolver: Resolver{UseColumnTypes: useColumnTypes},
		Styles:   styles,
		Log:      log,
	}, nil
}
