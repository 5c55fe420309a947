package render

import (
	"encoding/json"
	"io"

	"github.com/scan-io-git/checkview/internal/results"
)

// FieldFindingID is added to JSON rows so findings can be acknowledged.
const FieldFindingID = "findingId"

type jsonReport struct {
	Rows    []map[string]interface{} `json:"rows"`
	Errors  []results.ErrorRecord    `json:"errors"`
	Summary map[string]int           `json:"summary"`
}

// JSON writes the flat rows, the scan errors and a per-check count.
func JSON(w io.Writer, view results.View) error {
	report := jsonReport{
		Rows:    make([]map[string]interface{}, 0, len(view.Rows)),
		Errors:  view.Errors,
		Summary: make(map[string]int),
	}
	if report.Errors == nil {
		report.Errors = []results.ErrorRecord{}
	}
	for _, row := range view.Rows {
		fields := row.Fields()
		fields[FieldFindingID] = row.FindingID
		report.Rows = append(report.Rows, fields)
	}
	for _, id := range view.Presence.Checks() {
		report.Summary[id] = view.Presence.Count(id)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
