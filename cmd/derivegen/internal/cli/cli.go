// Package cli holds the flags and helpers shared by derivegen subcommands.
package cli

import (
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/broady/derivegen"
)

// Globals are the flags accepted by every subcommand.
type Globals struct {
	Verbose   bool   `help:"Log debug output." short:"v"`
	LogJSON   bool   `help:"Log as JSON instead of console text." name:"log-json"`
	Project   string `help:"Path to derivegen.toml (default: search upwards from the working directory)." type:"path"`
	NoProject bool   `help:"Ignore derivegen.toml." name:"no-project"`

	// ToolVersion is the running tool version, set by main.
	ToolVersion string `kong:"-"`
}

// Logger builds the process logger. Logs go to stderr so generated code
// printed on stdout stays clean.
func (g *Globals) Logger() (*zap.Logger, error) {
	level := zap.InfoLevel
	if g.Verbose {
		level = zap.DebugLevel
	}
	var cfg zap.Config
	if g.LogJSON {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// GenFlags are the generation settings a command line can override.
type GenFlags struct {
	Inputs       []string `arg:"" optional:"" help:"Descriptor files (.json, .yaml, .yml, .msgpack, .mp)." type:"existingfile"`
	Out          string   `help:"Output directory." short:"o" type:"path"`
	SingleFile   bool     `help:"Write every artifact into one derive.rs." name:"single-file"`
	Header       string   `help:"First line of every generated file."`
	Policy       string   `help:"Index-type overflow policy (abort, error)."`
	IDVectorPath string   `help:"Rust module providing Vector and its traits, e.g. crate::id_vector." name:"id-vector-path"`
	Jobs         int      `help:"Artifacts rendered concurrently (default: GOMAXPROCS)." short:"j"`
}

// Config resolves the project file (unless disabled) and overlays the
// command-line flags on it. Flags win over file values.
func (g *Globals) Config(f GenFlags) (derivegen.Config, error) {
	var cfg derivegen.Config
	if !g.NoProject {
		path := g.Project
		if path == "" {
			wd, err := os.Getwd()
			if err != nil {
				return cfg, errors.Wrap(err, "get working directory")
			}
			found, err := derivegen.FindProject(wd)
			switch {
			case errors.Is(err, derivegen.ErrNoProject):
			case err != nil:
				return cfg, err
			default:
				path = found
			}
		}
		if path != "" {
			loaded, err := derivegen.LoadProject(path)
			if err != nil {
				return cfg, err
			}
			cfg = *loaded
		}
	}
	if err := derivegen.CheckRequires(cfg.Requires, g.ToolVersion); err != nil {
		return cfg, err
	}
	overlay(&cfg, f)
	return cfg, nil
}

func overlay(cfg *derivegen.Config, f GenFlags) {
	if len(f.Inputs) > 0 {
		cfg.Inputs = f.Inputs
	}
	if f.Out != "" {
		cfg.OutDir = f.Out
	}
	if f.SingleFile {
		cfg.SingleFile = true
	}
	if f.Header != "" {
		cfg.Header = f.Header
	}
	if f.Policy != "" {
		cfg.OverflowPolicy = f.Policy
	}
	if f.IDVectorPath != "" {
		cfg.IDVectorPath = f.IDVectorPath
	}
	if f.Jobs != 0 {
		cfg.Jobs = f.Jobs
	}
}
