package rust

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/derivegen/diag"
	"github.com/broady/derivegen/ir"
)

func TestDerive_WrongDeclarationKind(t *testing.T) {
	for _, data := range []ir.DataKind{ir.DataStruct, ir.DataUnion} {
		adt := &ir.AdtDescriptor{Name: "Point", Data: data}
		for _, kind := range ir.AllDeriveKinds {
			t.Run(data.String()+"/"+kind.String(), func(t *testing.T) {
				_, err := Derive(adt, kind)
				require.Error(t, err)
				assert.True(t, diag.Is(err, diag.CodeWrongDeclarationKind))
				assert.Contains(t, err.Error(), "Point")
				assert.Contains(t, diag.Hints(err), "enum")
			})
		}
	}
}

func TestDerive_NoVariants(t *testing.T) {
	adt := ir.Enum("Void", nil)
	for _, kind := range ir.AllDeriveKinds {
		got, err := Derive(adt, kind)
		require.NoError(t, err)
		assert.Empty(t, got, kind.String())
	}
}

func TestDerive_SingleVariantHasNoWildcard(t *testing.T) {
	adt := ir.Enum("Wrapper", nil, ir.TupleVariant("Inner", ir.Named("u32")))

	isA, err := Derive(adt, ir.DeriveEnumIsA)
	require.NoError(t, err)
	assert.Equal(t, "impl Wrapper {\n"+
		"    pub fn is_inner(&self) -> bool {\n"+
		"        match self {\n"+
		"            Wrapper::Inner(_) => true,\n"+
		"        }\n"+
		"    }\n"+
		"}", isA)

	as, err := Derive(adt, ir.DeriveEnumAsGetters)
	require.NoError(t, err)
	assert.Equal(t, "impl Wrapper {\n"+
		"    pub fn as_inner(&self) -> &u32 {\n"+
		"        match self {\n"+
		"            Wrapper::Inner(x0) => x0,\n"+
		"        }\n"+
		"    }\n"+
		"}", as)
}

func TestDerive_IndexArityIsPositional(t *testing.T) {
	var variants []*ir.VariantDescriptor
	for i := 0; i < 12; i++ {
		types := make([]ir.TypeExpr, i%4)
		for j := range types {
			types[j] = ir.Named("u8")
		}
		variants = append(variants, ir.TupleVariant(fmt.Sprintf("V%d", i), types...))
	}
	adt := ir.Enum("Big", nil, variants...)

	got, err := Derive(adt, ir.DeriveVariantIndexArity)
	require.NoError(t, err)
	for i, v := range variants {
		assert.Contains(t, got, fmt.Sprintf("Big::%s(", v.Name))
		assert.Contains(t, got, fmt.Sprintf("=> { (%d, %d) },", i, i%4))
	}
}

func TestDerive_Idempotent(t *testing.T) {
	for _, kind := range ir.AllDeriveKinds {
		a, err := Derive(exprDescriptor(), kind)
		require.NoError(t, err)
		b, err := Derive(exprDescriptor(), kind)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestDerive_ExclusivePredicates(t *testing.T) {
	got, err := Derive(listDescriptor(), ir.DeriveEnumIsA)
	require.NoError(t, err)

	// Every method matches exactly one variant and falls through to false.
	assert.Equal(t, 2, strings.Count(got, "=> true,"))
	assert.Equal(t, 2, strings.Count(got, "_ => false,"))
}

func TestDerive_PropagatesUnsupported(t *testing.T) {
	adt := listDescriptor()
	adt.Generics = append(adt.Generics, &ir.ConstParam{Name: "N", Type: ir.Named("usize")})
	_, err := Derive(adt, ir.DeriveVariantName)
	require.Error(t, err)
	assert.True(t, diag.Is(err, diag.CodeUnsupportedGenericConstParam))
	assert.Contains(t, err.Error(), "derive VariantName for List")

	adt = ir.Enum("Dyn", nil, ir.TupleVariant("Obj", ir.Unsupported(ir.KindTraitObject, "dyn Any")))
	_, err = Derive(adt, ir.DeriveEnumAsGetters)
	assert.True(t, diag.Is(err, diag.CodeUnsupportedTypeForm))
}

func TestDerive_NamedGetterSnakeCase(t *testing.T) {
	adt := ir.Enum("Literal", nil,
		ir.TupleVariant("I32", ir.Named("i32")),
		ir.StructVariant("ConstantValue", ir.Field("value", ir.Named("u64")), ir.Field("ty", ir.Named("Ty"))),
	)
	got, err := Derive(adt, ir.DeriveEnumAsGetters)
	require.NoError(t, err)
	assert.Contains(t, got, "pub fn as_i32(&self) -> &i32 {")
	assert.Contains(t, got, "pub fn as_constant_value(&self) -> (&u64, &Ty) {")
	assert.Contains(t, got, "Literal::ConstantValue{ value:x0, ty:x1 } => (x0, x1),")
	assert.Contains(t, got, `_ => unreachable!("wrong_variant_access: Literal::as_constant_value: Not the proper variant"),`)
}

func TestDerive_WrongVariantFault(t *testing.T) {
	got, err := Derive(listDescriptor(), ir.DeriveEnumAsGetters)
	if err != nil {
		t.Fatal(err)
	}
	for _, method := range []string{"as_nil", "as_cons"} {
		want := `unreachable!("` + string(diag.CodeWrongVariantAccess) + ": List::" + method + `: Not the proper variant")`
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %s:\n%s", want, got)
		}
	}
}

func TestDerive_RawVariantName(t *testing.T) {
	adt := ir.Enum("Token", nil, ir.UnitVariant("r#Type"), ir.UnitVariant("Ident"))
	got, err := Derive(adt, ir.DeriveEnumIsA)
	require.NoError(t, err)
	assert.Contains(t, got, "pub fn is_type(&self) -> bool {")
	assert.Contains(t, got, "Token::r#Type => true,")
}

func TestDerive_MethodNameCollision(t *testing.T) {
	ref := &ir.ReferenceType{Lifetime: "a", Mutable: true, Elem: ir.Named("T")}
	tests := []struct {
		name     string
		variants []*ir.VariantDescriptor
		method   string
	}{
		{
			name:     "underscore",
			variants: []*ir.VariantDescriptor{ir.StructVariant("FooBar", ir.Field("r", ref)), ir.TupleVariant("Foo_bar", ir.Tuple())},
			method:   "foo_bar",
		},
		{
			name:     "capital run",
			variants: []*ir.VariantDescriptor{ir.UnitVariant("FOO"), ir.UnitVariant("Foo")},
			method:   "foo",
		},
	}
	for _, tt := range tests {
		adt := ir.Enum("Expr", []ir.GenericParam{&ir.LifetimeParam{Name: "a"}, &ir.TypeParam{Name: "T"}}, tt.variants...)
		for _, kind := range []ir.DeriveKind{ir.DeriveEnumIsA, ir.DeriveEnumAsGetters} {
			t.Run(tt.name+"/"+kind.String(), func(t *testing.T) {
				got, err := Derive(adt, kind)
				if err == nil {
					t.Fatalf("Derive succeeded, want error; output:\n%s", got)
				}
				if !diag.Is(err, diag.CodeInvalidDescriptor) {
					t.Errorf("code = %q, want %q", diag.CodeOf(err), diag.CodeInvalidDescriptor)
				}
				if !strings.Contains(err.Error(), "_"+tt.method+" is also generated for Expr::") {
					t.Errorf("error %q does not name the clashing method", err)
				}
				if !strings.Contains(diag.Hints(err), "rename") {
					t.Errorf("hints = %q, want a rename hint", diag.Hints(err))
				}
			})
		}
	}

	// Names that only clash for other derivations are fine here.
	adt := ir.Enum("Expr", nil, ir.UnitVariant("FOO"), ir.UnitVariant("Foo"))
	if _, err := Derive(adt, ir.DeriveVariantName); err != nil {
		t.Errorf("variant_name: unexpected error: %v", err)
	}
}

func TestDeriveAll(t *testing.T) {
	got, err := DeriveAll(listDescriptor(), ir.AllDeriveKinds)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(got, "impl<T> List<T> {"))

	for _, kind := range ir.AllDeriveKinds {
		block, err := Derive(listDescriptor(), kind)
		require.NoError(t, err)
		assert.Contains(t, got, block)
	}

	empty, err := DeriveAll(ir.Enum("Void", nil), ir.AllDeriveKinds)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
