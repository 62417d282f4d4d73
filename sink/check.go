package sink

import (
	"bytes"
	"context"
	"io/fs"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/pmezard/go-difflib/difflib"
)

// DriftStatus classifies a file whose on-disk content differs from the
// generated content.
type DriftStatus string

const (
	DriftMissing DriftStatus = "missing"
	DriftStale   DriftStatus = "stale"
)

// Drift describes one out-of-date file.
type Drift struct {
	Path   string
	Status DriftStatus

	// Diff is a unified diff from the current content to the generated
	// content. Empty for missing files.
	Diff string
}

// Compare reports every file in want whose content in r differs. Results
// are sorted by path; an empty result means r is up to date.
func Compare(ctx context.Context, r Reader, want map[string][]byte) ([]Drift, error) {
	paths := make([]string, 0, len(want))
	for p := range want {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	var drifts []Drift
	for _, p := range paths {
		have, err := r.ReadFile(ctx, p)
		if errors.Is(err, fs.ErrNotExist) {
			drifts = append(drifts, Drift{Path: p, Status: DriftMissing})
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", p)
		}
		if bytes.Equal(have, want[p]) {
			continue
		}
		diff, err := UnifiedDiff(p, have, want[p])
		if err != nil {
			return nil, err
		}
		drifts = append(drifts, Drift{Path: p, Status: DriftStale, Diff: diff})
	}
	return drifts, nil
}

// UnifiedDiff renders a three-line-context diff from have to want.
func UnifiedDiff(path string, have, want []byte) (string, error) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(have)),
		B:        difflib.SplitLines(string(want)),
		FromFile: path + " (current)",
		ToFile:   path + " (generated)",
		Context:  3,
	})
	return diff, errors.Wrapf(err, "diff %s", path)
}
