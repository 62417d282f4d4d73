package derivegen

import (
	"runtime"

	"github.com/broady/derivegen/diag"
	"github.com/broady/derivegen/idx"
)

// DefaultHeader starts every generated file unless Config.Header is set.
const DefaultHeader = "// Code generated by derivegen. DO NOT EDIT."

// SingleFileName is the output file used in single-file mode.
const SingleFileName = "derive.rs"

// Config holds the configuration for a generation run. The toml tags are
// the keys of the project file (see LoadProject).
type Config struct {
	// Inputs are descriptor files (.json, .yaml, .yml, .msgpack, .mp),
	// loaded and merged in order.
	Inputs []string `toml:"inputs" validate:"dive,required"`

	// OutDir is the directory generated files are written to.
	// e.g. "./src/generated"
	OutDir string `toml:"out_dir"`

	// SingleFile emits every artifact into one derive.rs.
	// Default (false) writes one file per declaration and per index type.
	SingleFile bool `toml:"single_file"`

	// Header is the first line of every generated file.
	// Default: DefaultHeader
	Header string `toml:"header"`

	// OverflowPolicy selects the index-type overflow handling.
	// Supported values: "abort", "error". Default: "abort"
	OverflowPolicy string `toml:"overflow_policy" validate:"omitempty,oneof=abort error"`

	// IDVectorPath is the Rust module providing Vector, ToUsize, Increment
	// and Zero for index types, e.g. "crate::id_vector". Empty omits them.
	IDVectorPath string `toml:"id_vector_path"`

	// Jobs bounds how many artifacts are generated concurrently.
	// Default: GOMAXPROCS
	Jobs int `toml:"jobs" validate:"gte=0,lte=1024"`

	// Requires is a semver constraint the running tool version must
	// satisfy, e.g. ">= 0.3, < 1".
	Requires string `toml:"requires"`
}

var configValidator = diag.NewValidator("toml")

// applyConfigDefaults applies default values to Config.
func applyConfigDefaults(cfg *Config) *Config {
	// Make a copy to avoid mutating the input
	result := *cfg

	if result.Header == "" {
		result.Header = DefaultHeader
	}
	if result.OverflowPolicy == "" {
		result.OverflowPolicy = string(idx.PolicyAbort)
	}
	if result.Jobs == 0 {
		result.Jobs = runtime.GOMAXPROCS(0)
	}
	return &result
}

// Resolve applies defaults and validates the result.
func (c *Config) Resolve() (*Config, error) {
	result := applyConfigDefaults(c)
	if err := configValidator.Struct(result); err != nil {
		return nil, diag.FromValidation("config", err)
	}
	return result, nil
}
