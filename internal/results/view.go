package results

// View bundles everything derived from one set of scan results.
type View struct {
	Rows     []Row
	Errors   []ErrorRecord
	Presence PresenceIndex
}

// BuildView derives a fresh view. It is the only way views are produced, so a
// view is always a pure function of the results it was built from.
func BuildView(results []RepositoryScanResult) View {
	rows := Normalize(results)
	return View{
		Rows:     rows,
		Errors:   CollectErrors(results),
		Presence: NewPresenceIndex(rows),
	}
}

// RowsFor returns the rows of one check, preserving order.
func (v View) RowsFor(checkIdentifier string) []Row {
	var out []Row
	for _, row := range v.Rows {
		if row.CheckIdentifier == checkIdentifier {
			out = append(out, row)
		}
	}
	return out
}
