package rust

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/cockroachdb/errors"

	"github.com/broady/derivegen/diag"
	"github.com/broady/derivegen/ir"
)

// indent is the indentation of match arms inside a generated method.
const indent = "            "

// Derive renders the impl block for one derivation kind.
//
// Only enums are accepted. An enum without variants yields "" since an
// impl block with no methods (or a match with no arms) is not useful.
func Derive(adt *ir.AdtDescriptor, kind ir.DeriveKind) (string, error) {
	if adt == nil {
		return "", diag.New(diag.CodeInvalidDescriptor, kind.String(), "missing declaration")
	}
	if !adt.IsEnum() {
		return "", diag.WithHint(
			diag.Unsupported(diag.CodeWrongDeclarationKind, adt.Name, adt.Data.String(),
				kind.String()+" can only be derived for enums"),
			"remove the derivation or turn the declaration into an enum")
	}
	if len(adt.Variants) == 0 {
		return "", nil
	}

	h, err := newImplHeader(adt)
	if err != nil {
		return "", errors.Wrapf(err, "derive %s for %s", kind, adt.Name)
	}

	var body string
	switch kind {
	case ir.DeriveVariantName:
		body, err = variantNameBody(adt)
	case ir.DeriveVariantIndexArity:
		body, err = variantIndexArityBody(adt)
	case ir.DeriveEnumIsA:
		body, err = isABody(adt)
	case ir.DeriveEnumAsGetters:
		body, err = asGettersBody(adt)
	default:
		return "", diag.Newf(diag.CodeInvalidDescriptor, adt.Name, "unknown derive kind %d", int(kind))
	}
	if err != nil {
		return "", errors.Wrapf(err, "derive %s for %s", kind, adt.Name)
	}
	return h.wrap(body), nil
}

// DeriveAll renders the impl blocks for kinds in order, separated by a
// blank line. Kinds that produce no code are skipped.
func DeriveAll(adt *ir.AdtDescriptor, kinds []ir.DeriveKind) (string, error) {
	var blocks []string
	for _, k := range kinds {
		code, err := Derive(adt, k)
		if err != nil {
			return "", err
		}
		if code != "" {
			blocks = append(blocks, code)
		}
	}
	return strings.Join(blocks, "\n\n"), nil
}

// implHeader holds the rendered generics shared by every derivation.
type implHeader struct {
	name        string
	withBounds  string
	plainParams string
	where       string
}

func newImplHeader(adt *ir.AdtDescriptor) (implHeader, error) {
	withBounds, err := RenderParams(adt.Generics, true)
	if err != nil {
		return implHeader{}, err
	}
	plain, err := RenderParams(adt.Generics, false)
	if err != nil {
		return implHeader{}, err
	}
	where, err := RenderWhere(adt.Where)
	if err != nil {
		return implHeader{}, err
	}
	return implHeader{name: adt.Name, withBounds: withBounds, plainParams: plain, where: where}, nil
}

// wrap renders impl<generics> Name<params> where-clause { body }.
func (h implHeader) wrap(body string) string {
	return fmt.Sprintf("impl%s %s%s%s {\n%s\n}", h.withBounds, h.name, h.plainParams, h.where, body)
}

// method renders one method whose body is a match on self.
func method(name, ret string, arms []string) string {
	return fmt.Sprintf("    pub fn %s(&self) -> %s {\n        match self {\n%s\n        }\n    }",
		name, ret, strings.Join(arms, "\n"))
}

func variantNameBody(adt *ir.AdtDescriptor) (string, error) {
	patterns, err := BuildPatterns(adt.Name, adt.Variants, "")
	if err != nil {
		return "", err
	}
	arms := make([]string, len(patterns))
	for i, mp := range patterns {
		arms[i] = fmt.Sprintf("%s%s => { %q },", indent, mp.Head, mp.Variant)
	}
	return method("variant_name", "&'static str", arms), nil
}

func variantIndexArityBody(adt *ir.AdtDescriptor) (string, error) {
	patterns, err := BuildPatterns(adt.Name, adt.Variants, "")
	if err != nil {
		return "", err
	}
	arms := make([]string, len(patterns))
	for i, mp := range patterns {
		ordinal, err := safecast.Conv[uint32](i)
		if err != nil {
			return "", diag.Newf(diag.CodeCounterOverflow, adt.Name+"::"+mp.Variant,
				"variant ordinal %d does not fit in u32", i)
		}
		arms[i] = fmt.Sprintf("%s%s => { (%d, %d) },", indent, mp.Head, ordinal, mp.Arity)
	}
	return method("variant_index_arity", "(u32, usize)", arms), nil
}

func isABody(adt *ir.AdtDescriptor) (string, error) {
	patterns, err := BuildPatterns(adt.Name, adt.Variants, "")
	if err != nil {
		return "", err
	}
	names, err := methodNames(adt.Name, "is_", patterns)
	if err != nil {
		return "", err
	}
	several := len(patterns) > 1
	methods := make([]string, len(patterns))
	for i, mp := range patterns {
		arms := []string{indent + mp.Head + " => true,"}
		if several {
			arms = append(arms, indent+Wildcard+" => false,")
		}
		methods[i] = method(names[i], "bool", arms)
	}
	return strings.Join(methods, "\n\n"), nil
}

// asGettersBody renders one accessor per variant returning shared
// references to its fields. A single field is returned as &T rather than a
// one-element tuple; a unit variant returns ().
func asGettersBody(adt *ir.AdtDescriptor) (string, error) {
	patterns, err := BuildPatterns(adt.Name, adt.Variants, "x")
	if err != nil {
		return "", err
	}
	names, err := methodNames(adt.Name, "as_", patterns)
	if err != nil {
		return "", err
	}
	several := len(patterns) > 1
	methods := make([]string, len(patterns))
	for i, mp := range patterns {
		name := names[i]

		refs := make([]string, len(mp.FieldTypes))
		for j, ty := range mp.FieldTypes {
			refs[j] = "&" + ty
		}
		ret, value := "()", "()"
		switch len(refs) {
		case 0:
		case 1:
			ret, value = refs[0], mp.Bindings[0]
		default:
			ret = "(" + strings.Join(refs, ", ") + ")"
			value = "(" + strings.Join(mp.Bindings, ", ") + ")"
		}

		arms := []string{indent + mp.Head + " => " + value + ","}
		if several {
			arms = append(arms, fmt.Sprintf("%s%s => unreachable!(%s),", indent, Wildcard,
				strconv.Quote(wrongVariant(adt.Name, name))))
		}
		methods[i] = method(name, ret, arms)
	}
	return strings.Join(methods, "\n\n"), nil
}

// wrongVariant is the fault message of a getter called on another variant.
func wrongVariant(adtName, method string) string {
	e := &diag.Error{
		Code:      diag.CodeWrongVariantAccess,
		Construct: adtName + "::" + method,
		Message:   "Not the proper variant",
	}
	return e.Error()
}

// methodNames returns prefix + snake_case(variant) for each pattern. Two
// variants that mangle to the same name would define one method twice.
func methodNames(adtName, prefix string, patterns []MatchPattern) ([]string, error) {
	names := make([]string, len(patterns))
	owners := make(map[string]string, len(patterns))
	for i, mp := range patterns {
		name := prefix + snakeIdent(mp.Variant)
		if prev, ok := owners[name]; ok {
			return nil, diag.WithHint(
				diag.Newf(diag.CodeInvalidDescriptor, adtName+"::"+mp.Variant,
					"method %s is also generated for %s::%s", name, adtName, prev),
				"rename one of the variants")
		}
		owners[name] = mp.Variant
		names[i] = name
	}
	return names, nil
}
