package rust

import "testing"

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ConstantValue", "constant_value"},
		{"I32", "i32"},
		{"U128", "u128"},
		{"VARIANT", "variant"},
		{"Cons", "cons"},
		{"Nil", "nil"},
		{"ArrayToSlice", "array_to_slice"},
		{"HTTPServer", "httpserver"},
		{"BinOpI32Add", "bin_op_i32_add"},
		{"already_snake", "already_snake"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ToSnakeCase(tt.in); got != tt.want {
			t.Errorf("ToSnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"FunId", true},
		{"_private", true},
		{"r#type", true},
		{"var2", true},
		{"2var", false},
		{"", false},
		{"r#", false},
		{"Fun-Id", false},
		{"a::b", false},
	}
	for _, tt := range tests {
		if got := IsIdentifier(tt.in); got != tt.want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsKeyword(t *testing.T) {
	for _, kw := range []string{"fn", "mod", "Self", "_", "yield"} {
		if !IsKeyword(kw) {
			t.Errorf("IsKeyword(%q) = false", kw)
		}
	}
	if IsKeyword("FunId") {
		t.Error("IsKeyword(FunId) = true")
	}
}
