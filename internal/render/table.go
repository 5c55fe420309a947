package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/scan-io-git/checkview/internal/catalog"
	"github.com/scan-io-git/checkview/internal/results"
)

var baseColumns = []string{"ID", "REPOSITORY", "LOCATION", "BRANCH", "ACK", "SCANNED"}

// Table writes one aligned table per check with findings, followed by the
// list of repositories whose scan failed.
func Table(w io.Writer, view results.View, cat *catalog.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	secs := sections(view, cat)
	if len(secs) == 0 && len(view.Errors) == 0 {
		fmt.Fprintln(tw, "No findings.")
		return tw.Flush()
	}

	for i, sec := range secs {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s (%d)\n", sec.Label, len(sec.Rows))

		header := append(append([]string(nil), baseColumns...), upper(sec.Columns)...)
		fmt.Fprintln(tw, strings.Join(header, "\t"))

		for _, row := range sec.Rows {
			cells := []string{
				fmt.Sprint(row.FindingID),
				row.RepositoryIdentifier,
				row.Location,
				dash(row.BranchReference),
				yesNo(row.Acknowledged),
				formatTime(row.Timestamp),
			}
			extra := row.Extra()
			for _, col := range sec.Columns {
				cells = append(cells, dash(results.FormatValue(extra[col])))
			}
			fmt.Fprintln(tw, strings.Join(sanitize(cells), "\t"))
		}
	}

	if len(view.Errors) > 0 {
		if len(secs) > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "Scan errors (%d)\n", len(view.Errors))
		fmt.Fprintln(tw, "REPOSITORY\tERROR")
		for _, e := range view.Errors {
			fmt.Fprintln(tw, strings.Join(sanitize([]string{e.RepositoryIdentifier, e.ErrorMessage}), "\t"))
		}
	}
	return tw.Flush()
}

func upper(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = strings.ToUpper(c)
	}
	return out
}

// sanitize keeps multi-line values such as commit messages on one line.
func sanitize(cells []string) []string {
	r := strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ")
	for i, c := range cells {
		cells[i] = r.Replace(c)
	}
	return cells
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
