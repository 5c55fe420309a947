package results

// CollectErrors returns one record per failed repository scan, in input order.
// Failed results without a repository identifier are skipped.
func CollectErrors(results []RepositoryScanResult) []ErrorRecord {
	var records []ErrorRecord
	for _, repo := range results {
		if !repo.Failed() || repo.RepositoryIdentifier == "" {
			continue
		}
		records = append(records, ErrorRecord{
			RepositoryIdentifier: repo.RepositoryIdentifier,
			ErrorMessage:         repo.ScanError,
		})
	}
	return records
}
