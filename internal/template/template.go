package template

import (
	_ "embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed report.html
var reportTemplate string

// add adds two integers and returns the result.
// helper function for html template
func add(a, b int) int {
	return a + b
}

// ordinalDate returns a string with the ordinal number of the day
// helper function for html template
func ordinalDate(day int) string {
	suffix := "th"
	switch day {
	case 1, 21, 31:
		suffix = "st"
	case 2, 22:
		suffix = "nd"
	case 3, 23:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", day, suffix)
}

// formatDateTime formats a time.Time object into a human readable string.
// helper function for html template
func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%s %s %d %d:%02d:%02d %s", ordinalDate(t.Day()), t.Month(), t.Year(), hour, t.Minute(), t.Second(), t.Format("pm"))
}

// NewReportTemplate parses the built-in HTML report template.
func NewReportTemplate() (*template.Template, error) {
	return template.New("report.html").
		Funcs(template.FuncMap{
			"add":            add,
			"formatDateTime": formatDateTime,
		}).
		Parse(reportTemplate)
}
