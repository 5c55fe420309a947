package scanclient

import (
	"encoding/json"
	"time"

	"github.com/scan-io-git/checkview/internal/catalog"
	"github.com/scan-io-git/checkview/internal/results"
)

// scanRecord is one repository entry as returned by the service.
type scanRecord struct {
	ID         uint64        `json:"id"`
	Date       time.Time     `json:"date"`
	Repository string        `json:"repository"`
	Error      string        `json:"error"`
	Checks     []checkRecord `json:"checks"`
}

type checkRecord struct {
	ID             uint64          `json:"id"`
	Origin         string          `json:"origin"`
	Branch         string          `json:"branch"`
	CheckName      string          `json:"checkName"`
	Acknowledged   bool            `json:"acknowledged"`
	AdditionalInfo json.RawMessage `json:"additionalInfo"`
}

type scanRequestBody struct {
	Path       string   `json:"path"`
	CheckNames []string `json:"checkNames"`
}

type acknowledgeBody struct {
	Acknowledged bool `json:"acknowledged"`
}

type sshKeyBody struct {
	Key      string `json:"key"`
	Password string `json:"password"`
}

type basicAuthBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// toResults converts wire records, using cat to pick the details variant of
// every finding.
func toResults(cat *catalog.Catalog, records []scanRecord) ([]results.RepositoryScanResult, error) {
	out := make([]results.RepositoryScanResult, 0, len(records))
	for _, rec := range records {
		repo := results.RepositoryScanResult{
			ID:                   rec.ID,
			Timestamp:            rec.Date,
			RepositoryIdentifier: rec.Repository,
			ScanError:            rec.Error,
			Findings:             make([]results.Finding, 0, len(rec.Checks)),
		}
		for _, chk := range rec.Checks {
			info, err := decodeAdditionalInfo(chk.AdditionalInfo)
			if err != nil {
				return nil, err
			}
			repo.Findings = append(repo.Findings, results.Finding{
				ID:              chk.ID,
				Location:        chk.Origin,
				BranchReference: chk.Branch,
				CheckIdentifier: chk.CheckName,
				Acknowledged:    chk.Acknowledged,
				Details:         results.DecodeDetails(cat.CategoryOf(chk.CheckName), info),
			})
		}
		out = append(out, repo)
	}
	return out, nil
}

func decodeAdditionalInfo(raw json.RawMessage) (map[string]interface{}, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var info map[string]interface{}
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, err
	}
	return info, nil
}
