package render

import (
	"fmt"
	"io"
	"time"

	"github.com/scan-io-git/checkview/internal/catalog"
	"github.com/scan-io-git/checkview/internal/results"
	"github.com/scan-io-git/checkview/internal/template"
)

type htmlRow struct {
	FindingID    uint64
	Repository   string
	Location     string
	Branch       string
	Acknowledged bool
	Timestamp    time.Time
	Extra        []string
}

type htmlSection struct {
	Check   string
	Label   string
	Columns []string
	Rows    []htmlRow
}

type htmlReport struct {
	GeneratedAt   time.Time
	TotalFindings int
	Sections      []htmlSection
	Errors        []results.ErrorRecord
}

// now is replaced in tests.
var now = time.Now

// HTML writes a standalone HTML page with the same sections as Table.
func HTML(w io.Writer, view results.View, cat *catalog.Catalog) error {
	tmpl, err := template.NewReportTemplate()
	if err != nil {
		return fmt.Errorf("failed to parse report template: %w", err)
	}

	report := htmlReport{
		GeneratedAt:   now().UTC(),
		TotalFindings: len(view.Rows),
		Errors:        view.Errors,
	}
	for _, sec := range sections(view, cat) {
		hs := htmlSection{Check: sec.Check, Label: sec.Label, Columns: sec.Columns}
		for _, row := range sec.Rows {
			extra := row.Extra()
			cells := make([]string, len(sec.Columns))
			for i, col := range sec.Columns {
				cells[i] = results.FormatValue(extra[col])
			}
			hs.Rows = append(hs.Rows, htmlRow{
				FindingID:    row.FindingID,
				Repository:   row.RepositoryIdentifier,
				Location:     row.Location,
				Branch:       row.BranchReference,
				Acknowledged: row.Acknowledged,
				Timestamp:    row.Timestamp,
				Extra:        cells,
			})
		}
		report.Sections = append(report.Sections, hs)
	}

	if err := tmpl.Execute(w, report); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}
