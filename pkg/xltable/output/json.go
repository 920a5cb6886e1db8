// Package output renders tables as JSON.
package output

import (
	"encoding/json"

	"github.com/ukaji3/xltable-go/pkg/xltable/models"
)

// ToJSON serializes a table as {"columns": [...], "rows": [[...], ...]}.
func ToJSON(t *models.Table, pretty bool) ([]byte, error) {
	return marshal(t, pretty)
}

// RecordsToJSON serializes the table rows as objects keyed by column name.
func RecordsToJSON(t *models.Table, pretty bool) ([]byte, error) {
	return marshal(Records(t), pretty)
}

// Records converts the table rows to maps keyed by column name.
func Records(t *models.Table) []map[string]interface{} {
	records := make([]map[string]interface{}, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]interface{}, len(t.Columns))
		for j, col := range t.Columns {
			if j < len(row) {
				rec[col.Name] = row[j]
			}
		}
		records = append(records, rec)
	}
	return records
}

func marshal(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
