package rust

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts a PascalCase identifier to snake_case.
//
// An underscore is inserted before an uppercase letter only when the
// previous character was not uppercase. Digits count as lowercase, so
// "I32" becomes "i32" and "ConstantValue" becomes "constant_value", while
// runs of capitals stay glued: "VARIANT" becomes "variant".
func ToSnakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	lastIsLower := false
	for _, r := range s {
		if unicode.IsUpper(r) {
			if lastIsLower {
				b.WriteByte('_')
			}
			lastIsLower = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		lastIsLower = true
		b.WriteRune(r)
	}
	return b.String()
}

// snakeIdent converts a variant name for use inside a method name. The raw
// identifier prefix is dropped: is_r#type is not an identifier.
func snakeIdent(name string) string {
	return ToSnakeCase(strings.TrimPrefix(name, "r#"))
}

// Rust keywords (strict and reserved) that cannot be used as bare
// identifiers.
var keywords = map[string]bool{
	"as":       true,
	"async":    true,
	"await":    true,
	"break":    true,
	"const":    true,
	"continue": true,
	"crate":    true,
	"dyn":      true,
	"else":     true,
	"enum":     true,
	"extern":   true,
	"false":    true,
	"fn":       true,
	"for":      true,
	"if":       true,
	"impl":     true,
	"in":       true,
	"let":      true,
	"loop":     true,
	"match":    true,
	"mod":      true,
	"move":     true,
	"mut":      true,
	"pub":      true,
	"ref":      true,
	"return":   true,
	"self":     true,
	"Self":     true,
	"static":   true,
	"struct":   true,
	"super":    true,
	"trait":    true,
	"true":     true,
	"type":     true,
	"unsafe":   true,
	"use":      true,
	"where":    true,
	"while":    true,
	"abstract": true,
	"become":   true,
	"box":      true,
	"do":       true,
	"final":    true,
	"macro":    true,
	"override": true,
	"priv":     true,
	"try":      true,
	"typeof":   true,
	"unsized":  true,
	"virtual":  true,
	"yield":    true,
	"_":        true,
}

// IsKeyword reports whether name is a Rust keyword.
func IsKeyword(name string) bool {
	return keywords[name]
}

// IsIdentifier reports whether name is a Rust identifier: an XID-like start
// character followed by letters, digits or underscores. Raw identifiers
// (r#type) are accepted. Keywords are identifiers lexically; use IsKeyword
// to reject them.
func IsIdentifier(name string) bool {
	name = strings.TrimPrefix(name, "r#")
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 && !unicode.IsLetter(r) && r != '_' {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
