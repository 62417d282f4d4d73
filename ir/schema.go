package ir

import "fmt"

// Schema is a complete set of generation requests.
type Schema struct {
	// Declarations are generated in order. Each declaration lists the
	// derive kinds requested for it.
	Declarations []Declaration

	// IndexTypes are raw index-type invocations, one module each.
	IndexTypes []IndexType
}

// Declaration pairs an ADT with the derivations requested for it.
type Declaration struct {
	Adt     *AdtDescriptor
	Derives []DeriveKind
}

// IndexType is one index-type invocation. Invocation is the raw token text
// between the macro delimiters, e.g. "FunId".
type IndexType struct {
	Invocation string
	Source     Source
}

// AddDeclaration appends a declaration to the schema.
func (s *Schema) AddDeclaration(adt *AdtDescriptor, derives ...DeriveKind) {
	s.Declarations = append(s.Declarations, Declaration{Adt: adt, Derives: derives})
}

// AddIndexType appends an index-type invocation to the schema.
func (s *Schema) AddIndexType(invocation string) {
	s.IndexTypes = append(s.IndexTypes, IndexType{Invocation: invocation})
}

// FindDeclaration looks up a declaration by ADT name. Returns nil if not
// found.
func (s *Schema) FindDeclaration(name string) *Declaration {
	for i := range s.Declarations {
		if d := &s.Declarations[i]; d.Adt != nil && d.Adt.Name == name {
			return d
		}
	}
	return nil
}

// Merge appends other's declarations and index types to s.
func (s *Schema) Merge(other *Schema) {
	s.Declarations = append(s.Declarations, other.Declarations...)
	s.IndexTypes = append(s.IndexTypes, other.IndexTypes...)
}

// Validate checks the schema for structural issues.
// Returns all validation errors found (not just the first).
func (s *Schema) Validate() []error {
	var errors []*ValidationError

	names := make(map[string]bool)
	for i, d := range s.Declarations {
		if d.Adt == nil {
			errors = append(errors, &ValidationError{
				Code:    "missing_adt",
				Message: fmt.Sprintf("declaration %d has no ADT", i),
			})
			continue
		}
		name := d.Adt.Name
		if name == "" {
			errors = append(errors, &ValidationError{
				Code:    "empty_name",
				Message: fmt.Sprintf("declaration %d has an empty name", i),
			})
		} else if names[name] {
			errors = append(errors, &ValidationError{
				Code:    "duplicate_declaration",
				Message: "duplicate declaration name: " + name,
			})
		}
		names[name] = true

		if len(d.Derives) == 0 {
			errors = append(errors, &ValidationError{
				Code:    "no_derives",
				Message: "declaration " + name + " requests no derivations",
			})
		}
		seen := make(map[DeriveKind]bool)
		for _, k := range d.Derives {
			if _, ok := deriveKindNames[k]; !ok {
				errors = append(errors, &ValidationError{
					Code:    "unknown_derive",
					Message: fmt.Sprintf("declaration %s requests unknown derive kind %d", name, int(k)),
				})
				continue
			}
			if seen[k] {
				errors = append(errors, &ValidationError{
					Code:    "duplicate_derive",
					Message: "declaration " + name + " requests " + k.String() + " twice",
				})
			}
			seen[k] = true
		}

		variants := make(map[string]bool)
		for _, v := range d.Adt.Variants {
			if v == nil || v.Name == "" {
				errors = append(errors, &ValidationError{
					Code:    "empty_name",
					Message: "declaration " + name + " has a variant with an empty name",
				})
				continue
			}
			if variants[v.Name] {
				errors = append(errors, &ValidationError{
					Code:    "duplicate_variant",
					Message: "duplicate variant " + name + "::" + v.Name,
				})
			}
			variants[v.Name] = true
			errors = append(errors, validateFields(name, v)...)
		}
	}

	invocations := make(map[string]bool)
	for _, it := range s.IndexTypes {
		if invocations[it.Invocation] {
			errors = append(errors, &ValidationError{
				Code:    "duplicate_index_type",
				Message: "duplicate index type invocation: " + it.Invocation,
			})
		}
		invocations[it.Invocation] = true
	}

	var result []error
	for _, e := range errors {
		result = append(result, e)
	}
	return result
}

// validateFields checks that a variant's fields agree with its style.
func validateFields(adt string, v *VariantDescriptor) []*ValidationError {
	var errors []*ValidationError
	where := adt + "::" + v.Name
	if v.Style == FieldsUnit && len(v.Fields) > 0 {
		errors = append(errors, &ValidationError{
			Code:    "unit_with_fields",
			Message: "unit variant " + where + " declares fields",
		})
	}
	for i, f := range v.Fields {
		if f == nil || f.Type == nil {
			errors = append(errors, &ValidationError{
				Code:    "missing_type",
				Message: fmt.Sprintf("field %d of %s has no type", i, where),
			})
			continue
		}
		if v.Style == FieldsNamed && f.Name == "" {
			errors = append(errors, &ValidationError{
				Code:    "unnamed_field",
				Message: fmt.Sprintf("field %d of struct-like variant %s has no name", i, where),
			})
		}
		if v.Style == FieldsPositional && f.Name != "" {
			errors = append(errors, &ValidationError{
				Code:    "named_positional_field",
				Message: fmt.Sprintf("positional field %d of %s is named %q", i, where, f.Name),
			})
		}
	}
	return errors
}

// ValidationError represents a schema validation error.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
