package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	ID      string               `json:"id"`
	Kind    string               `json:"kind"`
	Params  map[string]float64   `json:"params"`
	Summary map[string]float64   `json:"summary"`
	Steps   int                  `json:"steps"`
	Columns map[string][]float64 `json:"columns"`
}

// ExportJSON writes a run as one JSON document with column arrays.
func ExportJSON(w io.Writer, meta *RunMetadata, table *Table) error {
	data := ExportData{
		ID:      meta.ID,
		Kind:    meta.Kind,
		Params:  meta.Params,
		Summary: meta.Summary,
		Steps:   len(table.Rows),
		Columns: make(map[string][]float64, len(table.Columns)),
	}

	for _, name := range table.Columns {
		data.Columns[name] = table.Column(name)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
