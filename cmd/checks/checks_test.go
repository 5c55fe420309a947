package checks

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v2"

	"github.com/scan-io-git/checkview/pkg/shared/config"
	"github.com/scan-io-git/checkview/pkg/shared/errors"
)

func TestParseSetPair(t *testing.T) {
	tests := []struct {
		pair      string
		wantKey   string
		wantValue interface{}
		wantErr   string
	}{
		{pair: "maxSize=10485760", wantKey: "maxSize", wantValue: 10485760},
		{pair: "ignoreLfs=true", wantKey: "ignoreLfs", wantValue: true},
		{pair: "pattern=^(feat|fix)", wantKey: "pattern", wantValue: "^(feat|fix)"},
		{pair: "extensions=[exe, dll]", wantKey: "extensions", wantValue: []interface{}{"exe", "dll"}},
		{pair: " comment = ", wantKey: "comment", wantValue: ""},
		{pair: "novalue", wantErr: `invalid 'set' value "novalue"`},
		{pair: "=5", wantErr: `invalid 'set' value "=5"`},
	}

	for _, tt := range tests {
		t.Run(tt.pair, func(t *testing.T) {
			key, value, err := parseSetPair(tt.pair)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestValidateConfigSetArgs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yml")
	require.NoError(t, os.WriteFile(path, []byte("maxParents: 1\nmessage:\n  pattern: '^(feat|fix):'\n"), 0o600))

	options := &RunOptionsChecks{FromFile: path, Set: []string{"maxParents=2"}}
	updates, err := validateConfigSetArgs(options, []string{"CheckCommitMetaInformation"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"maxParents": 2,
		"message":    map[string]interface{}{"pattern": "^(feat|fix):"},
	}, updates)

	_, err = validateConfigSetArgs(&RunOptionsChecks{}, nil)
	assert.EqualError(t, err, "exactly one check name must be specified")

	_, err = validateConfigSetArgs(&RunOptionsChecks{FromFile: filepath.Join(dir, "missing.yml")}, []string{"X"})
	assert.ErrorContains(t, err, "failed to read 'from-file'")
}

func TestNormalizeValue(t *testing.T) {
	in := map[string]interface{}{
		"size":   float64(1048576),
		"ratio":  0.5,
		"nested": map[interface{}]interface{}{"a": []interface{}{float64(1), "b"}},
	}
	assert.Equal(t, map[string]interface{}{
		"size":   int64(1048576),
		"ratio":  0.5,
		"nested": map[string]interface{}{"a": []interface{}{int64(1), "b"}},
	}, normalizeMap(in))
	assert.Nil(t, normalizeMap(nil))
}

func TestMergeConfig(t *testing.T) {
	base := map[string]interface{}{"a": 1, "b": 2}
	merged := mergeConfig(base, map[string]interface{}{"b": 3, "c": 4})
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 3, "c": 4}, merged)
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2}, base)
}

func setupCommand(t *testing.T, cmdOut *bytes.Buffer, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	Init(&config.Config{ScanService: config.ScanService{URL: srv.URL}}, hclog.NewNullLogger())
	for _, c := range []*cobra.Command{listCmd, configGetCmd, configSetCmd} {
		c.SetOut(cmdOut)
	}
	t.Cleanup(func() {
		for _, c := range []*cobra.Command{listCmd, configGetCmd, configSetCmd} {
			c.SetOut(nil)
		}
	})
}

func TestRunListCommand(t *testing.T) {
	var stdout bytes.Buffer
	setupCommand(t, &stdout, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["SearchBigFiles", "SearchSecrets"]`))
	})

	checksOptions = RunOptionsChecks{}
	require.NoError(t, runListCommand(listCmd, nil))
	lines := bytes.Split(bytes.TrimSpace(stdout.Bytes()), []byte("\n"))
	require.Len(t, lines, 5)
	assert.Contains(t, string(lines[0]), "IDENTIFIER")
	assert.Contains(t, string(lines[1]), "SearchBinaries")
	assert.Contains(t, string(lines[1]), "filemode,filesize")

	stdout.Reset()
	checksOptions = RunOptionsChecks{Remote: true}
	require.NoError(t, runListCommand(listCmd, nil))
	out := stdout.String()
	assert.Contains(t, out, "Big files")
	assert.Contains(t, out, "SearchSecrets")
	assert.Contains(t, out, "generic")
	assert.NotContains(t, out, "SearchBinaries")
}

func TestRunConfigGetCommand(t *testing.T) {
	var stdout bytes.Buffer
	setupCommand(t, &stdout, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/config/SearchBigFiles", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"checkName": "SearchBigFiles", "enabled": true, "config": {"maxSize": 10485760}}`))
	})

	require.NoError(t, runConfigGetCommand(configGetCmd, []string{"SearchBigFiles"}))

	var doc checkConfigDocument
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &doc))
	assert.Equal(t, "SearchBigFiles", doc.Name)
	assert.True(t, doc.Enabled)
	assert.Equal(t, 10485760, doc.Config["maxSize"])
	assert.Contains(t, stdout.String(), "maxSize: 10485760")
}

func TestRunConfigGetCommandFailure(t *testing.T) {
	var stdout bytes.Buffer
	setupCommand(t, &stdout, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown check", http.StatusBadRequest)
	})

	err := runConfigGetCommand(configGetCmd, []string{"Nope"})
	require.Error(t, err)
	assert.Equal(t, errors.ExitCodeFailure, errors.ExitCode(err))
	assert.Contains(t, err.Error(), "unknown check")
}

func TestRunConfigSetCommand(t *testing.T) {
	var stdout bytes.Buffer
	var put map[string]interface{}
	setupCommand(t, &stdout, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"checkName": "SearchBigFiles", "enabled": true, "config": {"maxSize": 1024, "ignoreLfs": false}}`))
		case http.MethodPut:
			assert.Equal(t, "/api/v1/config", r.URL.Path)
			data, err := io.ReadAll(r.Body)
			if assert.NoError(t, err) {
				assert.NoError(t, json.Unmarshal(data, &put))
			}
		}
	})

	checksOptions = RunOptionsChecks{Set: []string{"ignoreLfs=true"}}
	require.NoError(t, configSetCmd.Flags().Set("enabled", "false"))
	t.Cleanup(func() { configSetCmd.Flags().Lookup("enabled").Changed = false })

	require.NoError(t, runConfigSetCommand(configSetCmd, []string{"SearchBigFiles"}))
	assert.Equal(t, map[string]interface{}{
		"name":    "SearchBigFiles",
		"enabled": false,
		"config":  map[string]interface{}{"maxSize": float64(1024), "ignoreLfs": true},
	}, put)
}
