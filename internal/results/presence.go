package results

// HasFindings reports whether at least one row belongs to checkIdentifier.
func HasFindings(rows []Row, checkIdentifier string) bool {
	for _, row := range rows {
		if row.CheckIdentifier == checkIdentifier {
			return true
		}
	}
	return false
}

// PresenceIndex counts rows per check. It is built from one set of rows and
// must be rebuilt whenever the rows are.
type PresenceIndex struct {
	counts map[string]int
	order  []string
}

// NewPresenceIndex counts the rows of every check.
func NewPresenceIndex(rows []Row) PresenceIndex {
	idx := PresenceIndex{counts: make(map[string]int)}
	for _, row := range rows {
		if idx.counts[row.CheckIdentifier] == 0 {
			idx.order = append(idx.order, row.CheckIdentifier)
		}
		idx.counts[row.CheckIdentifier]++
	}
	return idx
}

// Has reports whether checkIdentifier has at least one row.
func (p PresenceIndex) Has(checkIdentifier string) bool {
	return p.counts[checkIdentifier] > 0
}

// Count returns the number of rows of checkIdentifier.
func (p PresenceIndex) Count(checkIdentifier string) int {
	return p.counts[checkIdentifier]
}

// Checks returns the checks with findings in order of first appearance.
func (p PresenceIndex) Checks() []string {
	return append([]string(nil), p.order...)
}
