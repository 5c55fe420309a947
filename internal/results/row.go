package results

import (
	"encoding/json"
	"time"
)

// Display field names of a Row.
const (
	FieldLocation             = "location"
	FieldBranchReference      = "branchReference"
	FieldCheckIdentifier      = "checkIdentifier"
	FieldAcknowledged         = "acknowledged"
	FieldTimestamp            = "timestamp"
	FieldRepositoryIdentifier = "repositoryIdentifier"
)

// Row is a finding merged with the context of the repository it belongs to.
// Rows are derived values; they are rebuilt from the scan results instead of
// being patched.
type Row struct {
	// FindingID is not a display field. It keys acknowledgment updates.
	FindingID            uint64
	Location             string
	BranchReference      string
	CheckIdentifier      string
	Acknowledged         bool
	Details              Details
	Timestamp            time.Time
	RepositoryIdentifier string
}

// Fields returns the flat view of the row. Extra fields are written first,
// the finding's own fields overwrite them, and the repository context is
// written last so nothing can override it.
func (r Row) Fields() map[string]any {
	var out map[string]any
	if r.Details != nil {
		out = r.Details.Fields()
	} else {
		out = make(map[string]any, 6)
	}

	out[FieldLocation] = r.Location
	out[FieldBranchReference] = r.BranchReference
	out[FieldCheckIdentifier] = r.CheckIdentifier
	out[FieldAcknowledged] = r.Acknowledged

	out[FieldTimestamp] = r.Timestamp
	out[FieldRepositoryIdentifier] = r.RepositoryIdentifier
	return out
}

// Value returns a single flat field of the row.
func (r Row) Value(key string) (any, bool) {
	v, ok := r.Fields()[key]
	return v, ok
}

// Extra returns the check-specific fields only.
func (r Row) Extra() map[string]any {
	if r.Details == nil {
		return map[string]any{}
	}
	return r.Details.Fields()
}

// MarshalJSON encodes the flat field view of the row.
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Fields())
}
