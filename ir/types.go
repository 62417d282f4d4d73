// Package ir defines the descriptor model for algebraic data type
// declarations. Descriptors are produced by a host-language parser (or read
// from descriptor files by package loader) and consumed by the Rust emitter,
// which turns them into derived method and module source text.
//
// All descriptors are plain value trees: each node exclusively owns its
// children and nothing is mutated after construction.
package ir

import (
	"strconv"
	"strings"
)

// Source represents source code location information for a declaration.
type Source struct {
	File   string
	Line   int
	Column int
}

// IsZero returns true if the source location is empty.
func (s Source) IsZero() bool {
	return s.File == "" && s.Line == 0 && s.Column == 0
}

// String formats the location as file:line:column, omitting empty parts.
func (s Source) String() string {
	if s.IsZero() {
		return ""
	}
	var b strings.Builder
	b.WriteString(s.File)
	if s.Line > 0 {
		b.WriteString(":")
		b.WriteString(strconv.Itoa(s.Line))
		if s.Column > 0 {
			b.WriteString(":")
			b.WriteString(strconv.Itoa(s.Column))
		}
	}
	return b.String()
}

// NormalizeLifetime strips a leading apostrophe so lifetimes are stored by
// bare name ("a", "static").
func NormalizeLifetime(name string) string {
	return strings.TrimPrefix(name, "'")
}
