// Package derivegen generates Rust method impls for enum declarations and
// typed index modules from descriptor files.
//
// A run loads descriptors, renders one artifact per declaration and per
// index-type invocation, and writes them to a sink:
//
//	res, err := derivegen.FromFiles("ast.yaml").
//	    OverflowPolicy(idx.PolicyError).
//	    ToDir(ctx, "./src/generated")
//
// Output is deterministic: artifacts are rendered concurrently but always
// assembled in declaration order.
package derivegen

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/broady/derivegen/diag"
	"github.com/broady/derivegen/idx"
	"github.com/broady/derivegen/ir"
	"github.com/broady/derivegen/loader"
	"github.com/broady/derivegen/rust"
	"github.com/broady/derivegen/sink"
)

// Generator provides a fluent API for a generation run.
// Create with FromSchema, FromFiles or FromConfig and configure with
// method chaining.
type Generator struct {
	schema *ir.Schema
	logger *zap.Logger
	cfg    Config
}

// FromSchema creates a Generator for an in-memory schema.
func FromSchema(s *ir.Schema) *Generator {
	return &Generator{schema: s}
}

// FromFiles creates a Generator that loads the given descriptor files.
func FromFiles(paths ...string) *Generator {
	return &Generator{cfg: Config{Inputs: paths}}
}

// FromConfig creates a Generator from a project configuration.
func FromConfig(cfg Config) *Generator {
	cfg.Inputs = append([]string(nil), cfg.Inputs...)
	return &Generator{cfg: cfg}
}

// WithLogger sets the logger. The default discards everything.
func (g *Generator) WithLogger(l *zap.Logger) *Generator {
	g.logger = l
	return g
}

// Jobs bounds the number of artifacts rendered concurrently.
func (g *Generator) Jobs(n int) *Generator {
	g.cfg.Jobs = n
	return g
}

// SingleFile emits every artifact into one derive.rs.
func (g *Generator) SingleFile() *Generator {
	g.cfg.SingleFile = true
	return g
}

// Header replaces the first line of every generated file.
func (g *Generator) Header(h string) *Generator {
	g.cfg.Header = h
	return g
}

// OverflowPolicy selects how index types handle overflow.
func (g *Generator) OverflowPolicy(p idx.OverflowPolicy) *Generator {
	g.cfg.OverflowPolicy = string(p)
	return g
}

// IDVectorPath sets the module index types take Vector and its traits from.
func (g *Generator) IDVectorPath(p string) *Generator {
	g.cfg.IDVectorPath = p
	return g
}

// Config returns the configuration as set so far, without defaults.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate renders every artifact in memory.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	cfg, err := g.cfg.Resolve()
	if err != nil {
		return nil, err
	}
	log := g.logger
	if log == nil {
		log = zap.NewNop()
	}

	schema, err := g.loadSchema()
	if err != nil {
		return nil, err
	}
	if errs := schema.Validate(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, diag.New(diag.CodeInvalidDescriptor, "schema", strings.Join(msgs, "; "))
	}

	policy, err := idx.ParseOverflowPolicy(cfg.OverflowPolicy)
	if err != nil {
		return nil, err
	}
	p := &pipeline{
		cfg:    cfg,
		log:    log,
		schema: schema,
		opts:   rust.IndexTypeOptions{Policy: policy, IDVectorPath: cfg.IDVectorPath},
	}
	return p.run(ctx)
}

// ToSink generates and writes every file to s.
func (g *Generator) ToSink(ctx context.Context, s sink.OutputSink) (*Result, error) {
	res, err := g.Generate(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range res.Files {
		if err := s.WriteFile(ctx, f.Path, f.Content); err != nil {
			return nil, errors.Wrapf(err, "write %s", f.Path)
		}
	}
	return res, nil
}

// ToDir generates files to the specified directory. An empty dir falls
// back to the configured OutDir.
func (g *Generator) ToDir(ctx context.Context, dir string) (*Result, error) {
	if dir == "" {
		dir = g.cfg.OutDir
	}
	if dir == "" {
		return nil, errors.New("output directory is required")
	}
	return g.ToSink(ctx, sink.NewFilesystemSink(dir))
}

// Check generates in memory and compares the result with dir. It returns
// the out-of-date files; an empty result means dir is current.
func (g *Generator) Check(ctx context.Context, dir string) ([]sink.Drift, error) {
	if dir == "" {
		dir = g.cfg.OutDir
	}
	if dir == "" {
		return nil, errors.New("output directory is required")
	}
	res, err := g.Generate(ctx)
	if err != nil {
		return nil, err
	}
	return sink.Compare(ctx, sink.NewFilesystemSink(dir), res.FileMap())
}

func (g *Generator) loadSchema() (*ir.Schema, error) {
	schema := &ir.Schema{}
	if g.schema != nil {
		schema.Merge(g.schema)
	}
	if len(g.cfg.Inputs) > 0 {
		loaded, err := loader.LoadFiles(g.cfg.Inputs...)
		if err != nil {
			return nil, err
		}
		schema.Merge(loaded)
	}
	if len(schema.Declarations) == 0 && len(schema.IndexTypes) == 0 {
		return nil, diag.WithHint(
			diag.New(diag.CodeInvalidDescriptor, "schema", "nothing to generate"),
			"pass descriptor files or list them under inputs in "+ProjectFileName)
	}
	return schema, nil
}
