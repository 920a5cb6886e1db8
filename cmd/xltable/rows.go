package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/ukaji3/xltable-go/pkg/xltable"
	"github.com/ukaji3/xltable-go/pkg/xltable/marshal"
	"github.com/ukaji3/xltable-go/pkg/xltable/models"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// decodeRows builds a table from a JSON array of rows. Each row is either
// an array of values or an object keyed by column name. Columns come from
// the schema when given, otherwise from the first row: sorted keys for
// objects, positional names for arrays.
func decodeRows(data []byte, schema *xltable.Schema) (*models.Table, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	tbl := &models.Table{}
	if schema != nil {
		cols, err := schema.ColumnDefs()
		if err != nil {
			return nil, err
		}
		for _, col := range cols {
			if err := tbl.AddColumn(col); err != nil {
				return nil, err
			}
		}
	}

	for i, msg := range raw {
		values, err := decodeRow(tbl, bytes.TrimSpace(msg))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		for j := range values {
			values[j] = coerce(tbl.Columns[j], values[j])
		}
		if err := tbl.AddRow(values...); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return tbl, nil
}

func decodeRow(tbl *models.Table, msg []byte) ([]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()

	if len(msg) > 0 && msg[0] == '{' {
		var obj map[string]interface{}
		if err := dec.Decode(&obj); err != nil {
			return nil, err
		}
		if len(tbl.Columns) == 0 {
			keys := make([]string, 0, len(obj))
			for k := range obj {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if err := tbl.AddColumn(models.Column{Name: k}); err != nil {
					return nil, err
				}
			}
		}
		values := tbl.NewRow()
		for j, col := range tbl.Columns {
			values[j] = obj[col.Name]
		}
		return values, nil
	}

	var values []interface{}
	if err := dec.Decode(&values); err != nil {
		return nil, err
	}
	if len(tbl.Columns) == 0 {
		for range values {
			if err := tbl.AddColumn(models.Column{}); err != nil {
				return nil, err
			}
		}
	}
	if len(values) != len(tbl.Columns) {
		return nil, fmt.Errorf("%w: got %d values for %d columns", models.ErrRowLength, len(values), len(tbl.Columns))
	}
	return values, nil
}

// coerce converts a decoded JSON value to the runtime kind the column
// type expects.
func coerce(col models.Column, v interface{}) interface{} {
	dt := marshal.Resolver{UseColumnTypes: true}.FromColumn(col)

	switch v := v.(type) {
	case json.Number:
		if dt == models.Int {
			if n, err := v.Int64(); err == nil {
				return n
			}
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case string:
		switch dt {
		case models.Date, models.DateTime:
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, v); err == nil {
					return t
				}
			}
		case models.Formula:
			return models.FormulaValue(v)
		}
		return v
	}
	return v
}
