package results

// Normalize flattens scan results into rows. Repositories are processed in
// input order and findings keep their order, so the output order is stable.
// Failed repositories and repositories without findings contribute no rows.
// The input is not modified.
func Normalize(results []RepositoryScanResult) []Row {
	total := 0
	for _, repo := range results {
		if !repo.Failed() {
			total += len(repo.Findings)
		}
	}

	rows := make([]Row, 0, total)
	for _, repo := range results {
		if repo.Failed() {
			continue
		}
		for _, f := range repo.Findings {
			rows = append(rows, newRow(repo, f))
		}
	}
	return rows
}

func newRow(repo RepositoryScanResult, f Finding) Row {
	var details Details
	if f.Details != nil {
		details = f.Details.clone()
	}
	return Row{
		FindingID:            f.ID,
		Location:             f.Location,
		BranchReference:      f.BranchReference,
		CheckIdentifier:      f.CheckIdentifier,
		Acknowledged:         f.Acknowledged,
		Details:              details,
		Timestamp:            repo.Timestamp,
		RepositoryIdentifier: repo.RepositoryIdentifier,
	}
}
