package rust

import (
	"strings"

	"github.com/broady/derivegen/diag"
	"github.com/broady/derivegen/ir"
)

// RenderParams renders a generic parameter list.
// With bounds, <'a, T : 'a, U : Clone>; without, <'a, T, U>.
// An empty list renders as "".
func RenderParams(params []ir.GenericParam, withBounds bool) (string, error) {
	if len(params) == 0 {
		return "", nil
	}
	parts := make([]string, len(params))
	for i, p := range params {
		s, err := renderParam(p, withBounds)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return "<" + strings.Join(parts, ", ") + ">", nil
}

func renderParam(param ir.GenericParam, withBounds bool) (string, error) {
	switch p := param.(type) {
	case *ir.TypeParam:
		if p == nil {
			break
		}
		if !withBounds || len(p.Bounds) == 0 {
			return p.Name, nil
		}
		bounds, err := RenderBounds(p.Bounds)
		if err != nil {
			return "", err
		}
		return p.Name + " : " + bounds, nil
	case *ir.LifetimeParam:
		if p == nil {
			break
		}
		name := renderLifetime(p.Name)
		if !withBounds || len(p.Bounds) == 0 {
			return name, nil
		}
		return name + " : " + renderLifetimes(p.Bounds), nil
	case *ir.ConstParam:
		if p == nil {
			break
		}
		return "", diag.Unsupported(diag.CodeUnsupportedGenericConstParam, p.Name, "Const",
			"const generic parameters are not supported")
	}
	return "", diag.New(diag.CodeInvalidDescriptor, "generic parameter", "missing generic parameter")
}

func renderLifetimes(names []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = renderLifetime(n)
	}
	return strings.Join(parts, " + ")
}

// RenderWhere renders a where clause as "\nwhere\n" followed by one
// indented, comma-terminated line per predicate. A nil or empty clause
// renders as "".
func RenderWhere(w *ir.WhereClause) (string, error) {
	if w == nil || len(w.Predicates) == 0 {
		return "", nil
	}
	var b strings.Builder
	b.WriteString("\nwhere\n")
	for _, pred := range w.Predicates {
		s, err := renderPredicate(pred)
		if err != nil {
			return "", err
		}
		b.WriteString("    ")
		b.WriteString(s)
		b.WriteString(",\n")
	}
	return b.String(), nil
}

func renderPredicate(pred ir.WherePredicate) (string, error) {
	switch p := pred.(type) {
	case *ir.TypePredicate:
		if p == nil {
			break
		}
		if len(p.Lifetimes) > 0 {
			return "", diag.Unsupported(diag.CodeUnimplementedForm, "where predicate", "HigherRanked",
				"higher-ranked lifetimes are not supported")
		}
		ty, err := RenderType(p.Bounded)
		if err != nil {
			return "", err
		}
		if len(p.Bounds) == 0 {
			return ty, nil
		}
		bounds, err := RenderBounds(p.Bounds)
		if err != nil {
			return "", err
		}
		return ty + " : " + bounds, nil
	case *ir.LifetimePredicate:
		if p == nil {
			break
		}
		return renderLifetime(p.Lifetime) + " : " + renderLifetimes(p.Bounds), nil
	case *ir.EqPredicate:
		if p == nil {
			break
		}
		lhs, err := RenderType(p.Lhs)
		if err != nil {
			return "", err
		}
		rhs, err := RenderType(p.Rhs)
		if err != nil {
			return "", err
		}
		return lhs + " = " + rhs, nil
	}
	return "", diag.New(diag.CodeInvalidDescriptor, "where predicate", "missing predicate")
}
