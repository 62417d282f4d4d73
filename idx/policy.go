package idx

import (
	"github.com/broady/derivegen/diag"
)

// OverflowPolicy selects how generated index code handles counter overflow
// and out-of-range serialization.
type OverflowPolicy string

const (
	// PolicyAbort panics, matching checked_add(1).unwrap() and assert!.
	PolicyAbort OverflowPolicy = "abort"

	// PolicyError additionally generates try_incr and try_fresh_id returning
	// Result, and a serializer that returns an error instead of asserting.
	PolicyError OverflowPolicy = "error"
)

// Valid reports whether p is a known policy.
func (p OverflowPolicy) Valid() bool {
	return p == PolicyAbort || p == PolicyError
}

// ParseOverflowPolicy parses a policy name. The empty string selects
// PolicyAbort.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	if s == "" {
		return PolicyAbort, nil
	}
	p := OverflowPolicy(s)
	if !p.Valid() {
		return "", diag.Newf(diag.CodeInvalidDescriptor, "overflow policy",
			"unknown overflow policy %q (want %q or %q)", s, PolicyAbort, PolicyError)
	}
	return p, nil
}
