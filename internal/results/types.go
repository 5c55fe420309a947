// Package results turns the nested scan-result tree returned by the scanning
// service into flat display rows, a per-check presence index and a list of
// per-repository scan errors.
package results

import (
	"time"
)

// RepositoryScanResult is the outcome of scanning one repository.
// A non-empty ScanError means the whole scan failed and Findings are ignored.
type RepositoryScanResult struct {
	ID                   uint64
	Timestamp            time.Time
	RepositoryIdentifier string
	ScanError            string
	Findings             []Finding
}

// Failed reports whether the repository scan failed outright.
func (r RepositoryScanResult) Failed() bool {
	return r.ScanError != ""
}

// Finding is a single issue detected by a check.
type Finding struct {
	// ID is assigned by the scanning service and keys acknowledgment updates.
	ID              uint64
	Location        string
	BranchReference string
	CheckIdentifier string
	Acknowledged    bool
	Details         Details
}

// ErrorRecord is a repository whose scan failed.
type ErrorRecord struct {
	RepositoryIdentifier string `json:"repositoryIdentifier"`
	ErrorMessage         string `json:"errorMessage"`
}
