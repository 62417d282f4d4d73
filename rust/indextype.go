package rust

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"

	"github.com/broady/derivegen/diag"
	"github.com/broady/derivegen/idx"
)

// IndexTypeOptions controls the generated index module.
type IndexTypeOptions struct {
	// Policy selects what happens on counter overflow and on
	// out-of-range serialization. The zero value means idx.PolicyAbort.
	Policy idx.OverflowPolicy

	// IDVectorPath is the module providing Vector, ToUsize, Increment and
	// Zero (e.g. "crate::id_vector"). When empty those items are omitted.
	IDVectorPath string
}

// GenerateIndexType renders a submodule named ident defining an Id handle
// type and its Generator.
func GenerateIndexType(ident string, opts IndexTypeOptions) (string, error) {
	if !IsIdentifier(ident) || IsKeyword(ident) {
		return "", diag.WithHint(
			diag.Newf(diag.CodeMalformedInvocation, "index type", "%q is not an identifier", ident),
			"pass exactly one identifier, e.g. FunId")
	}
	policy := opts.Policy
	if policy == "" {
		policy = idx.PolicyAbort
	}
	if !policy.Valid() {
		return "", diag.Newf(diag.CodeInvalidDescriptor, ident, "unknown overflow policy %q", policy)
	}
	vectorPath := strings.TrimSuffix(opts.IDVectorPath, "::")
	if vectorPath != "" && !isModulePath(vectorPath) {
		return "", diag.Newf(diag.CodeInvalidDescriptor, ident, "invalid id vector path %q", opts.IDVectorPath)
	}

	data := struct {
		Name       string
		Checked    bool
		VectorPath string
	}{
		Name:       ident,
		Checked:    policy == idx.PolicyError,
		VectorPath: vectorPath,
	}
	var buf bytes.Buffer
	if err := indexTypeTemplate.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "render index type %s", ident)
	}
	return buf.String(), nil
}

// GenerateIndexTypeFromTokens renders an index module from the raw tokens
// of an invocation. The invocation must be exactly one identifier.
func GenerateIndexTypeFromTokens(invocation string, opts IndexTypeOptions) (string, error) {
	ident, err := ParseInvocation(invocation)
	if err != nil {
		return "", err
	}
	return GenerateIndexType(ident, opts)
}

func isModulePath(p string) bool {
	for _, seg := range strings.Split(p, "::") {
		if seg == "crate" || seg == "super" || seg == "self" {
			continue
		}
		if !IsIdentifier(seg) || IsKeyword(seg) {
			return false
		}
	}
	return true
}

var indexTypeTemplate = template.Must(template.New("index_type").Parse(`pub mod {{.Name}} {
    #[derive(std::fmt::Debug, std::clone::Clone, std::marker::Copy,
             std::hash::Hash, std::cmp::PartialEq, std::cmp::Eq,
             std::cmp::PartialOrd, std::cmp::Ord)]
    pub struct Id {
        index: usize,
    }

    #[derive(std::fmt::Debug, std::clone::Clone, std::marker::Copy)]
    pub struct Generator {
        counter: usize,
    }
{{- if .Checked}}

    /// Returned when an ordinal leaves its integer range.
    #[derive(std::fmt::Debug, std::clone::Clone, std::marker::Copy, std::cmp::PartialEq, std::cmp::Eq)]
    pub struct Overflow;

    impl std::fmt::Display for Overflow {
        fn fmt(&self, f: &mut std::fmt::Formatter<'_>) -> std::fmt::Result {
            f.write_str("{{.Name}}: index counter overflow")
        }
    }

    impl std::error::Error for Overflow {}
{{- end}}
{{- if .VectorPath}}

    pub type Vector<T> = {{.VectorPath}}::Vector<Id, T>;
{{- end}}

    impl Id {
        pub fn new(init: usize) -> Id {
            Id { index: init }
        }

        pub fn is_zero(&self) -> bool {
            self.index == 0
        }

        pub fn incr(&mut self) {
            self.index = self.index.checked_add(1).unwrap();
        }
{{- if .Checked}}

        pub fn try_incr(&mut self) -> std::result::Result<(), Overflow> {
            self.index = self.index.checked_add(1).ok_or(Overflow)?;
            Ok(())
        }
{{- end}}
    }

    pub static ZERO: Id = Id { index: 0 };
    pub static ONE: Id = Id { index: 1 };
{{- if .VectorPath}}

    impl {{.VectorPath}}::ToUsize for Id {
        fn to_usize(&self) -> usize {
            self.index
        }
    }

    impl {{.VectorPath}}::Increment for Id {
        fn incr(&mut self) {
            self.incr();
        }
    }

    impl {{.VectorPath}}::Zero for Id {
        fn zero() -> Self {
            Id::new(0)
        }
    }
{{- end}}

    impl std::fmt::Display for Id {
        fn fmt(&self, f: &mut std::fmt::Formatter<'_>) ->
          std::result::Result<(), std::fmt::Error> {
            f.write_str(self.index.to_string().as_str())
        }
    }

    impl serde::Serialize for Id {
        fn serialize<S>(&self, serializer: S) -> std::result::Result<S::Ok, S::Error>
        where
            S: serde::Serializer,
        {
{{- if .Checked}}
            match u32::try_from(self.index) {
                Ok(index) => serializer.serialize_u32(index),
                Err(_) => Err(<S::Error as serde::ser::Error>::custom(
                    "{{.Name}}: index does not fit in u32",
                )),
            }
{{- else}}
            assert!(self.index <= std::u32::MAX as usize);
            serializer.serialize_u32(self.index as u32)
{{- end}}
        }
    }

    impl Generator {
        pub fn new() -> Generator {
            Generator { counter: 0 }
        }

        pub fn fresh_id(&mut self) -> Id {
            let index = Id::new(self.counter);
            self.counter = self.counter.checked_add(1).unwrap();
            index
        }
{{- if .Checked}}

        pub fn try_fresh_id(&mut self) -> std::result::Result<Id, Overflow> {
            let index = Id::new(self.counter);
            self.counter = self.counter.checked_add(1).ok_or(Overflow)?;
            Ok(index)
        }
{{- end}}
    }
}`))
