package marshal

import (
	"fmt"

	"github.com/ukaji3/xltable-go/pkg/xltable/engine"
	"github.com/ukaji3/xltable-go/pkg/xltable/models"
)

// Content style bucket keys.
const (
	StyleDate     = "date"
	StyleDateTime = "datetime"
	StyleDouble   = "double"
	StyleText     = "text"
)

const (
	styleFontFamily = "SimSun"
	styleFontSize   = 9

	dateFormat     = "yyyy-mm-dd"
	dateTimeFormat = "yyyy-mm-dd hh:mm:ss"
	// doubleFormat is the builtin "0.00" number format.
	doubleFormat = 2
)

// Styles holds the content and title styles of one workbook. It is built
// once and read-only afterwards.
type Styles struct {
	content map[string]engine.Style
	title   engine.Style
}

// NewStyles registers the style buckets with wb.
func NewStyles(wb engine.Workbook) (*Styles, error) {
	specs := map[string]engine.StyleSpec{
		StyleDate:     contentSpec(dateFormat, 0),
		StyleDateTime: contentSpec(dateTimeFormat, 0),
		StyleDouble:   contentSpec("", doubleFormat),
		StyleText:     contentSpec("", 0),
	}

	s := &Styles{content: make(map[string]engine.Style, len(specs))}
	for key, spec := range specs {
		style, err := wb.NewStyle(spec)
		if err != nil {
			return nil, fmt.Errorf("create %s style: %w", key, err)
		}
		s.content[key] = style
	}

	title, err := wb.NewStyle(engine.StyleSpec{
		FontFamily: styleFontFamily,
		FontSize:   styleFontSize,
		Bold:       true,
		Horizontal: "left",
		Vertical:   "center",
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	s.title = title
	return s, nil
}

func contentSpec(custom string, builtin int) engine.StyleSpec {
	return engine.StyleSpec{
		FontFamily:   styleFontFamily,
		FontSize:     styleFontSize,
		NumFmt:       builtin,
		CustomNumFmt: custom,
		Vertical:     "center",
	}
}

// Get returns the content style registered under key.
func (s *Styles) Get(key string) (engine.Style, bool) {
	style, ok := s.content[key]
	return style, ok
}

// Title returns the title row style.
func (s *Styles) Title() engine.Style {
	return s.title
}

// ForType returns the content style applied to cells of type dt.
func (s *Styles) ForType(dt models.CellDataType) engine.Style {
	return s.content[bucketFor(dt)]
}

func bucketFor(dt models.CellDataType) string {
	switch dt {
	case models.Date:
		return StyleDate
	case models.DateTime:
		return StyleDateTime
	case models.Double:
		return StyleDouble
	case models.None, models.Null, models.Text, models.Int, models.Formula,
		models.Boolean, models.RichText:
		return StyleText
	}
	return StyleText
}
