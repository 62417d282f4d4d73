package ir

// DeriveKind selects one of the method derivations.
type DeriveKind int

const (
	DeriveVariantName       DeriveKind = iota // variant_name(&self) -> &'static str
	DeriveVariantIndexArity                   // variant_index_arity(&self) -> (u32, usize)
	DeriveEnumIsA                             // is_<variant>(&self) -> bool
	DeriveEnumAsGetters                       // as_<variant>(&self) -> (&A, &B)
)

// AllDeriveKinds lists the derive kinds in emission order.
var AllDeriveKinds = []DeriveKind{
	DeriveVariantName,
	DeriveVariantIndexArity,
	DeriveEnumIsA,
	DeriveEnumAsGetters,
}

var deriveKindNames = map[DeriveKind]string{
	DeriveVariantName:       "VariantName",
	DeriveVariantIndexArity: "VariantIndexArity",
	DeriveEnumIsA:           "EnumIsA",
	DeriveEnumAsGetters:     "EnumAsGetters",
}

func (k DeriveKind) String() string {
	if s, ok := deriveKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// ParseDeriveKind returns the derive kind named s.
func ParseDeriveKind(s string) (DeriveKind, bool) {
	for k, name := range deriveKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}
