// Package targets parses the repository specifiers a scan is run against.
package targets

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gitsight/go-vcsurl"
	"github.com/go-git/go-git/v5"

	"github.com/scan-io-git/checkview/pkg/shared/errors"
)

// Kind tells whether a target is cloned by the service or read from its disk.
type Kind int

const (
	Remote Kind = iota
	Local
)

func (k Kind) String() string {
	if k == Local {
		return "local"
	}
	return "remote"
}

// Target is one repository specifier as sent to the service.
type Target struct {
	Raw  string
	Kind Kind
}

func (t Target) String() string {
	return t.Raw
}

// Name returns a short display name: owner/repo for recognised remote URLs,
// the raw specifier otherwise.
func (t Target) Name() string {
	if t.Kind != Remote {
		return t.Raw
	}
	info, err := vcsurl.Parse(t.Raw)
	if err != nil || info.FullName == "" {
		return t.Raw
	}
	return info.FullName
}

// Parse accepts any mix of arguments and comma separated lists. Entries are
// trimmed, empty ones dropped and duplicates removed keeping the first.
func Parse(args []string) ([]Target, error) {
	var out []Target
	seen := make(map[string]struct{})
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			raw := strings.TrimSpace(part)
			if raw == "" {
				continue
			}
			if _, dup := seen[raw]; dup {
				continue
			}
			seen[raw] = struct{}{}
			out = append(out, Target{Raw: raw, Kind: kindOf(raw)})
		}
	}
	if len(out) == 0 {
		return nil, errors.NewPreconditionError("targets", "at least one repository URL or path is required")
	}
	return out, nil
}

func kindOf(raw string) Kind {
	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "http://"),
		strings.HasPrefix(lower, "https://"),
		strings.HasPrefix(lower, "ssh://"),
		strings.HasPrefix(lower, "git://"),
		strings.HasPrefix(lower, "git@"):
		return Remote
	default:
		return Local
	}
}

// Specifiers returns the raw specifiers in order.
func Specifiers(targets []Target) []string {
	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = t.Raw
	}
	return out
}

// ResolveOrigin returns the origin remote URL of the git working copy that
// contains dir.
func ResolveOrigin(dir string) (string, error) {
	dir = strings.TrimPrefix(dir, "file://")
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	root, err := findRepositoryRoot(dir)
	if err != nil {
		return "", err
	}

	repo, err := git.PlainOpen(root)
	if err != nil {
		return "", fmt.Errorf("failed to open repository: %w", err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("repository %q has no origin remote: %w", root, err)
	}
	if cfg := remote.Config(); cfg != nil && len(cfg.URLs) > 0 {
		return cfg.URLs[0], nil
	}
	return "", fmt.Errorf("origin remote of %q has no URL", root)
}

// ResolveLocal replaces local targets with the origin URL of their working copy.
func ResolveLocal(targets []Target) ([]Target, error) {
	out := make([]Target, 0, len(targets))
	seen := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		if t.Kind == Local {
			origin, err := ResolveOrigin(t.Raw)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve %q: %w", t.Raw, err)
			}
			t = Target{Raw: origin, Kind: kindOf(origin)}
		}
		if _, dup := seen[t.Raw]; dup {
			continue
		}
		seen[t.Raw] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

func findRepositoryRoot(dir string) (string, error) {
	for {
		if _, err := git.PlainOpen(dir); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%q is not inside a git repository", dir)
		}
		dir = parent
	}
}
