package targets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/checkview/pkg/shared/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []Target
		wantErr bool
	}{
		{
			name: "Single URL",
			args: []string{"https://github.com/scan-io-git/scan-io"},
			want: []Target{{Raw: "https://github.com/scan-io-git/scan-io", Kind: Remote}},
		},
		{
			name: "Comma separated with spaces and duplicates",
			args: []string{" git@github.com:org/a.git , /srv/b,", "/srv/b", "file:///srv/c"},
			want: []Target{
				{Raw: "git@github.com:org/a.git", Kind: Remote},
				{Raw: "/srv/b", Kind: Local},
				{Raw: "file:///srv/c", Kind: Local},
			},
		},
		{
			name: "SSH scheme",
			args: []string{"ssh://git@example.com:7999/proj/repo.git"},
			want: []Target{{Raw: "ssh://git@example.com:7999/proj/repo.git", Kind: Remote}},
		},
		{
			name:    "Only separators",
			args:    []string{" , ,"},
			wantErr: true,
		},
		{
			name:    "No arguments",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsPreconditionError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSpecifiers(t *testing.T) {
	targets, err := Parse([]string{"a,b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, Specifiers(targets))
}

func TestName(t *testing.T) {
	tests := []struct {
		target Target
		want   string
	}{
		{target: Target{Raw: "https://github.com/scan-io-git/scan-io", Kind: Remote}, want: "scan-io-git/scan-io"},
		{target: Target{Raw: "git@github.com:scan-io-git/scan-io.git", Kind: Remote}, want: "scan-io-git/scan-io"},
		{target: Target{Raw: "/srv/repos/app", Kind: Local}, want: "/srv/repos/app"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.target.Name(), tt.target.Raw)
	}
}

func initRepo(t *testing.T, origin string) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	if origin != "" {
		_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{origin}})
		require.NoError(t, err)
	}
	return dir
}

func TestResolveOrigin(t *testing.T) {
	dir := initRepo(t, "https://github.com/org/app.git")
	nested := filepath.Join(dir, "services", "api")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := ResolveOrigin(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/org/app.git", got)

	got, err = ResolveOrigin(nested)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/org/app.git", got)

	got, err = ResolveOrigin("file://" + nested)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/org/app.git", got)
}

func TestResolveOriginWithoutRemote(t *testing.T) {
	dir := initRepo(t, "")
	_, err := ResolveOrigin(dir)
	assert.ErrorContains(t, err, "no origin remote")
}

func TestResolveLocal(t *testing.T) {
	dir := initRepo(t, "git@github.com:org/app.git")
	targets := []Target{
		{Raw: dir, Kind: Local},
		{Raw: "git@github.com:org/app.git", Kind: Remote},
		{Raw: "https://github.com/org/other", Kind: Remote},
	}

	got, err := ResolveLocal(targets)
	require.NoError(t, err)
	assert.Equal(t, []Target{
		{Raw: "git@github.com:org/app.git", Kind: Remote},
		{Raw: "https://github.com/org/other", Kind: Remote},
	}, got)
}
