// Package render writes a results view as a table, JSON, SARIF or HTML report.
package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/scan-io-git/checkview/internal/catalog"
	"github.com/scan-io-git/checkview/internal/results"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatSARIF = "sarif"
	FormatHTML  = "html"
)

// Formats lists the supported output formats.
var Formats = []string{FormatTable, FormatJSON, FormatSARIF, FormatHTML}

// Options carries what every format needs besides the view.
type Options struct {
	Catalog *catalog.Catalog
	// ToolVersion is recorded in SARIF output.
	ToolVersion string
}

// Extension returns the file extension conventionally used for format.
func Extension(format string) string {
	switch format {
	case FormatJSON:
		return ".json"
	case FormatSARIF:
		return ".sarif"
	case FormatHTML:
		return ".html"
	default:
		return ".txt"
	}
}

// Render writes view to w in format.
func Render(w io.Writer, format string, view results.View, opts Options) error {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}

	switch format {
	case FormatTable, "":
		return Table(w, view, opts.Catalog)
	case FormatJSON:
		return JSON(w, view)
	case FormatSARIF:
		return SARIF(w, view, opts)
	case FormatHTML:
		return HTML(w, view, opts.Catalog)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// section is the group of rows of one check, shown only when it has rows.
type section struct {
	Check   string
	Label   string
	Columns []string
	Rows    []results.Row
}

// sections groups rows by check: catalog checks first in catalog order, then
// checks unknown to the catalog in order of first appearance.
func sections(view results.View, cat *catalog.Catalog) []section {
	var out []section
	for _, def := range cat.List() {
		if !view.Presence.Has(def.Identifier) {
			continue
		}
		out = append(out, section{
			Check:   def.Identifier,
			Label:   def.DisplayLabel,
			Columns: def.Fields,
			Rows:    view.RowsFor(def.Identifier),
		})
	}

	for _, id := range view.Presence.Checks() {
		if _, known := cat.Lookup(id); known {
			continue
		}
		rows := view.RowsFor(id)
		out = append(out, section{
			Check:   id,
			Label:   id,
			Columns: extraColumns(rows),
			Rows:    rows,
		})
	}
	return out
}

// extraColumns returns the union of extra keys of rows, sorted.
func extraColumns(rows []results.Row) []string {
	set := map[string]struct{}{}
	for _, row := range rows {
		for k := range row.Extra() {
			set[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(set))
	for k := range set {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}
