package derivegen

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"

	"github.com/broady/derivegen/diag"
)

// ProjectFileName is the name of the project configuration file.
const ProjectFileName = "derivegen.toml"

// ErrNoProject is returned by FindProject when no project file exists in
// the directory or any of its parents.
var ErrNoProject = errors.New("no " + ProjectFileName + " found")

// FindProject returns the path of the nearest project file at or above
// dir.
func FindProject(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(err, "resolve project directory")
	}
	for {
		path := filepath.Join(dir, ProjectFileName)
		info, err := os.Stat(path)
		switch {
		case err == nil && !info.IsDir():
			return path, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", errors.Wrapf(err, "stat %s", path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoProject
		}
		dir = parent
	}
}

// LoadProject decodes a project file. Unknown keys are rejected. Relative
// inputs and out_dir are resolved against the file's directory.
func LoadProject(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, diag.Newf(diag.CodeInvalidDescriptor, path, "decode project file: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, diag.WithHint(
			diag.Newf(diag.CodeInvalidDescriptor, path, "unknown keys: %s", strings.Join(keys, ", ")),
			"supported keys: inputs, out_dir, single_file, header, overflow_policy, id_vector_path, jobs, requires")
	}

	base := filepath.Dir(path)
	for i, in := range cfg.Inputs {
		cfg.Inputs[i] = resolveRelative(base, in)
	}
	cfg.OutDir = resolveRelative(base, cfg.OutDir)
	return &cfg, nil
}

func resolveRelative(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// CheckRequires reports an error when version does not satisfy the
// constraint. An empty constraint always passes, and so does a version
// that is not semver (development builds).
func CheckRequires(constraint, version string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return diag.Newf(diag.CodeInvalidDescriptor, "requires", "invalid version constraint %q: %v", constraint, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil
	}
	if ok, errs := c.Validate(v); !ok {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return diag.WithHint(
			diag.Newf(diag.CodeInvalidDescriptor, "requires", "derivegen %s does not satisfy %q: %s",
				v, constraint, strings.Join(msgs, "; ")),
			"install a matching derivegen release or relax requires in "+ProjectFileName)
	}
	return nil
}
