package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/checkview/internal/catalog"
	"github.com/scan-io-git/checkview/internal/render"
	"github.com/scan-io-git/checkview/internal/results"
	"github.com/scan-io-git/checkview/pkg/shared/config"
	"github.com/scan-io-git/checkview/pkg/shared/errors"
)

type fakeSource struct {
	cat *catalog.Catalog
	err error
}

func (f fakeSource) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	return f.cat, f.err
}

type fakeUploader struct {
	uri, fileName, contentType string
	body                       []byte
	err                        error
}

func (f *fakeUploader) Upload(ctx context.Context, uri, fileName, contentType string, body io.Reader) (string, error) {
	f.uri, f.fileName, f.contentType = uri, fileName, contentType
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.body = data
	if f.err != nil {
		return "", f.err
	}
	return "https://bucket.s3.amazonaws.com/" + fileName, nil
}

var reportTime = time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

func sampleView() results.View {
	return results.BuildView([]results.RepositoryScanResult{{
		RepositoryIdentifier: "https://github.com/org/app",
		Timestamp:            reportTime,
		Findings: []results.Finding{{
			ID:              7,
			Location:        "bin/tool",
			BranchReference: "main",
			CheckIdentifier: catalog.SearchBinaries,
			Details:         results.BinaryDetails{FileMode: "0100755", FileSize: "1 MB"},
		}},
	}})
}

func TestResolveChecks(t *testing.T) {
	remote := catalog.FromNames([]string{catalog.SearchBinaries, "SearchSecrets"})

	tests := []struct {
		name       string
		source     fakeSource
		names      []string
		all        bool
		wantChecks []string
		wantErr    string
	}{
		{
			name:       "All checks from the service",
			source:     fakeSource{cat: remote},
			all:        true,
			wantChecks: []string{catalog.SearchBinaries, "SearchSecrets"},
		},
		{
			name:       "All checks fall back to built-in catalog",
			source:     fakeSource{err: fmt.Errorf("connection refused")},
			all:        true,
			wantChecks: catalog.Default().Identifiers(),
		},
		{
			name:       "Comma separated selection",
			source:     fakeSource{cat: remote},
			names:      []string{"SearchSecrets, SearchBinaries"},
			wantChecks: []string{"SearchSecrets", catalog.SearchBinaries},
		},
		{
			name:    "Unknown check rejected by service catalog",
			source:  fakeSource{cat: remote},
			names:   []string{"SearchBigFiles"},
			wantErr: "unknown check(s): SearchBigFiles",
		},
		{
			name:       "Unknown check kept with built-in catalog",
			source:     fakeSource{err: fmt.Errorf("timeout")},
			names:      []string{"SearchSecrets"},
			wantChecks: []string{"SearchSecrets"},
		},
		{
			name:    "Empty selection",
			source:  fakeSource{cat: remote},
			names:   []string{" , "},
			wantErr: "at least one check must be selected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checks, cat, err := ResolveChecks(context.Background(), hclog.NewNullLogger(), tt.source, tt.names, tt.all)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.IsPreconditionError(err))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cat)
			assert.Equal(t, tt.wantChecks, checks)
		})
	}
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("1709647629000")
	require.NoError(t, err)
	assert.Equal(t, reportTime, got.UTC())

	got, err = ParseTime("2024-03-05T14:07:09Z")
	require.NoError(t, err)
	assert.Equal(t, reportTime, got)

	_, err = ParseTime("yesterday")
	assert.ErrorContains(t, err, `invalid time "yesterday"`)
}

func TestWriteReportToStdout(t *testing.T) {
	var stdout bytes.Buffer
	report := Report{Command: "scan", View: sampleView(), Now: reportTime}

	err := WriteReport(context.Background(), hclog.NewNullLogger(), &stdout, report, ReportOptions{Format: render.FormatJSON}, nil)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &decoded))
	assert.Len(t, decoded["rows"], 1)
}

func TestWriteReportToFolderAndUpload(t *testing.T) {
	dir := t.TempDir()
	var stdout bytes.Buffer
	up := &fakeUploader{}
	report := Report{Command: "history", View: sampleView(), Now: reportTime}
	opts := ReportOptions{Format: render.FormatSARIF, OutputPath: dir, Upload: "s3://reports/ci/"}

	err := WriteReport(context.Background(), hclog.NewNullLogger(), &stdout, report, opts, up)
	require.NoError(t, err)
	assert.Empty(t, stdout.String())

	wantName := "checkview-history-20240305T140709Z.sarif"
	written, err := os.ReadFile(filepath.Join(dir, wantName))
	require.NoError(t, err)

	assert.Equal(t, "s3://reports/ci/", up.uri)
	assert.Equal(t, wantName, up.fileName)
	assert.Equal(t, "application/json", up.contentType)
	assert.Equal(t, written, up.body)
}

func TestWriteReportUploadFailure(t *testing.T) {
	up := &fakeUploader{err: fmt.Errorf("access denied")}
	opts := ReportOptions{Format: render.FormatTable, Upload: "s3://reports/"}

	err := WriteReport(context.Background(), hclog.NewNullLogger(), io.Discard, Report{Command: "scan", Now: reportTime}, opts, up)
	assert.ErrorContains(t, err, "access denied")
}

func TestWriteReportUnknownFormat(t *testing.T) {
	err := WriteReport(context.Background(), hclog.NewNullLogger(), io.Discard, Report{Command: "scan"}, ReportOptions{Format: "xml"}, nil)
	assert.ErrorContains(t, err, `unknown output format "xml"`)
}

func TestValidateFormat(t *testing.T) {
	for _, f := range render.Formats {
		assert.NoError(t, ValidateFormat(f))
	}
	assert.EqualError(t, ValidateFormat("pdf"), `unknown format "pdf", expected one of: table, json, sarif, html`)
}

func TestResolveUploadDestination(t *testing.T) {
	cfg := &config.Config{Upload: config.Upload{Destination: "s3://reports/"}}

	got, err := ResolveUploadDestination(cfg, UploadFromConfig)
	require.NoError(t, err)
	assert.Equal(t, "s3://reports/", got)

	got, err = ResolveUploadDestination(cfg, "s3://other/x.json")
	require.NoError(t, err)
	assert.Equal(t, "s3://other/x.json", got)

	_, err = ResolveUploadDestination(&config.Config{}, UploadFromConfig)
	assert.True(t, errors.IsPreconditionError(err))
}
