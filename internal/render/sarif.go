package render

import (
	"fmt"
	"io"
	"time"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/checkview/internal/catalog"
	"github.com/scan-io-git/checkview/internal/results"
)

const (
	sarifToolName = "checkview"
	sarifToolURI  = "https://github.com/scan-io-git/checkview"
	sarifLevel    = "warning"
)

// BuildSARIF converts the view into a SARIF report with one run. Each check
// with findings becomes a rule; acknowledged findings carry a suppression.
func BuildSARIF(view results.View, opts Options) (*sarif.Report, error) {
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}

	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(sarifToolName, sarifToolURI)
	if opts.ToolVersion != "" {
		version := opts.ToolVersion
		run.Tool.Driver.Version = &version
	}

	for _, sec := range sections(view, cat) {
		rule := run.AddRule(sec.Check).
			WithDescription(sec.Label).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: sarifLevel})

		for _, row := range sec.Rows {
			location := sarif.NewLocation().WithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewArtifactLocation().WithUri(row.Location)),
			)

			result := sarif.NewRuleResult(rule.ID).
				WithMessage(sarif.NewTextMessage(resultMessage(sec.Label, row))).
				WithLevel(sarifLevel).
				WithLocations([]*sarif.Location{location})
			result.Properties = resultProperties(row)

			if row.Acknowledged {
				justification := "acknowledged in checkview"
				result.Suppressions = []*sarif.Suppression{{
					Kind:          "external",
					Justification: &justification,
				}}
			}
			run.AddResult(result)
		}
	}

	report.AddRun(run)
	return report, nil
}

// SARIF writes the view as an indented SARIF 2.1.0 document.
func SARIF(w io.Writer, view results.View, opts Options) error {
	report, err := BuildSARIF(view, opts)
	if err != nil {
		return err
	}
	return report.PrettyWrite(w)
}

func resultMessage(label string, row results.Row) string {
	if row.BranchReference == "" {
		return fmt.Sprintf("%s: %s in %s", label, row.Location, row.RepositoryIdentifier)
	}
	return fmt.Sprintf("%s: %s in %s (%s)", label, row.Location, row.RepositoryIdentifier, row.BranchReference)
}

func resultProperties(row results.Row) sarif.Properties {
	props := sarif.Properties{}
	for k, v := range row.Extra() {
		props[k] = v
	}
	props["findingId"] = row.FindingID
	props["repository"] = row.RepositoryIdentifier
	props["branch"] = row.BranchReference
	props["acknowledged"] = row.Acknowledged
	if !row.Timestamp.IsZero() {
		props["timestamp"] = row.Timestamp.UTC().Format(time.RFC3339)
	}
	return props
}
