// Package sink provides the destinations generated Rust files are written
// to, and a drift check that compares fresh output with what a destination
// already holds.
package sink

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// OutputSink receives generated files. Paths are slash-separated and
// relative to the sink. Implementations must be safe for concurrent use.
type OutputSink interface {
	WriteFile(ctx context.Context, path string, content []byte) error
}

// Reader returns previously written content. ReadFile reports
// fs.ErrNotExist for missing files.
type Reader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// FilesystemSink writes below a root directory.
type FilesystemSink struct {
	Root string

	// Mode is the permission of written files (default 0644).
	Mode os.FileMode

	// Overwrite replaces existing files. When false, writing a path that
	// already exists fails.
	Overwrite bool
}

// NewFilesystemSink returns an overwriting sink rooted at root.
func NewFilesystemSink(root string) *FilesystemSink {
	return &FilesystemSink{Root: root, Mode: 0o644, Overwrite: true}
}

// resolve validates path and returns its location under Root.
func (s *FilesystemSink) resolve(path string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", errors.Wrapf(err, "invalid path %q", path)
	}
	full := filepath.Join(s.Root, filepath.FromSlash(path))
	absRoot, err := filepath.Abs(s.Root)
	if err != nil {
		return "", errors.Wrap(err, "resolve output root")
	}
	absPath, err := filepath.Abs(full)
	if err != nil {
		return "", errors.Wrapf(err, "resolve %q", path)
	}
	if absPath != absRoot && !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return "", errors.Newf("path escapes output root: %q", path)
	}
	return full, nil
}

// WriteFile writes content atomically: it is staged in a temp file in the
// target directory and then renamed (or hard-linked when Overwrite is
// false) into place.
func (s *FilesystemSink) WriteFile(ctx context.Context, path string, content []byte) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}
	mode := s.Mode
	if mode == 0 {
		mode = 0o644
	}

	tmp, err := os.CreateTemp(dir, ".derivegen-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpPath := tmp.Name()
	// Leftovers keep the .derivegen-*.tmp prefix.
	discard := func() { _ = os.Remove(tmpPath) }

	_, werr := tmp.Write(content)
	cerr := tmp.Close()
	if err := errors.CombineErrors(werr, cerr); err != nil {
		discard()
		return errors.Wrap(err, "write temp file")
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		discard()
		return errors.Wrap(err, "set file mode")
	}
	if err := ctx.Err(); err != nil {
		discard()
		return err
	}

	if s.Overwrite {
		if err := os.Rename(tmpPath, full); err != nil {
			discard()
			return errors.Wrapf(err, "move %s into place", path)
		}
		return nil
	}
	// Link fails with EEXIST instead of racing a stat.
	err = os.Link(tmpPath, full)
	discard()
	if errors.Is(err, fs.ErrExist) {
		return errors.Newf("file already exists: %q", path)
	}
	return errors.Wrapf(err, "create %s", path)
}

// ReadFile reads a previously written file.
func (s *FilesystemSink) ReadFile(ctx context.Context, path string) ([]byte, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

// MemorySink keeps files in memory.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// WriteFile stores a copy of content.
func (s *MemorySink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return errors.Wrapf(err, "invalid path %q", path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = append([]byte(nil), content...)
	return nil
}

// ReadFile returns a copy of the stored content.
func (s *MemorySink) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.files[path]
	if !ok {
		return nil, errors.Wrapf(fs.ErrNotExist, "read %s", path)
	}
	return append([]byte(nil), content...), nil
}

// Get returns a copy of one file, or nil.
func (s *MemorySink) Get(path string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.files[path]
	if !ok {
		return nil
	}
	return append([]byte(nil), content...)
}

// Files returns a copy of every stored file.
func (s *MemorySink) Files() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]byte, len(s.files))
	for p, c := range s.files {
		out[p] = append([]byte(nil), c...)
	}
	return out
}

// Reset removes every stored file.
func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string][]byte)
}

// ValidatePath rejects empty, absolute, unclean and traversing paths.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return errors.New("path is empty")
	case filepath.IsAbs(path) || strings.HasPrefix(path, "/"):
		return errors.New("absolute paths not allowed")
	case len(path) >= 2 && path[1] == ':' && isASCIILetter(path[0]):
		// Drive letters are rejected on every platform.
		return errors.New("absolute paths not allowed")
	case strings.Contains(path, ".."):
		return errors.New("path traversal not allowed")
	}
	slashed := filepath.ToSlash(path)
	if cleaned := filepath.ToSlash(filepath.Clean(slashed)); cleaned != slashed {
		return errors.Newf("path is not clean (expected %q, got %q)", cleaned, path)
	}
	return nil
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
