package derivegen

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/broady/derivegen/diag"
	"github.com/broady/derivegen/idx"
	"github.com/broady/derivegen/ir"
	"github.com/broady/derivegen/rust"
)

// ArtifactKind distinguishes the two kinds of generated code.
type ArtifactKind int

const (
	ArtifactDerive ArtifactKind = iota
	ArtifactIndexType
)

func (k ArtifactKind) String() string {
	if k == ArtifactIndexType {
		return "index_type"
	}
	return "derive"
}

// Artifact is the generated code for one declaration or one index type.
type Artifact struct {
	// ID is the artifact's ordinal: declarations first, then index
	// types, each in schema order.
	ID   ArtifactID
	Kind ArtifactKind

	// Name is the declaration name or the index-type identifier.
	Name   string
	Source ir.Source

	// Path is the output file the artifact was placed in.
	Path string
	Code string
}

type artifactDomain struct{}

// ArtifactID is an ordinal handle into Result.Artifacts.
type ArtifactID = idx.ID[artifactDomain]

// OutputFile describes a generated file.
type OutputFile struct {
	// Path is the slash-separated path relative to the output directory.
	Path    string
	Content []byte
}

// Result is the outcome of a generation run.
type Result struct {
	Artifacts []Artifact
	Files     []OutputFile
}

// Artifact returns the artifact with the given ID.
func (r *Result) Artifact(id ArtifactID) (Artifact, bool) {
	if id.Index() >= uint64(len(r.Artifacts)) {
		return Artifact{}, false
	}
	return r.Artifacts[id.Index()], true
}

// FileMap returns the files keyed by path.
func (r *Result) FileMap() map[string][]byte {
	m := make(map[string][]byte, len(r.Files))
	for _, f := range r.Files {
		m[f.Path] = f.Content
	}
	return m
}

type pipeline struct {
	cfg    *Config
	log    *zap.Logger
	schema *ir.Schema
	opts   rust.IndexTypeOptions
}

type task struct {
	kind   ArtifactKind
	name   string
	source ir.Source
	render func() (string, error)
}

func (p *pipeline) tasks() []task {
	tasks := make([]task, 0, len(p.schema.Declarations)+len(p.schema.IndexTypes))
	for _, d := range p.schema.Declarations {
		tasks = append(tasks, task{
			kind:   ArtifactDerive,
			name:   d.Adt.Name,
			source: d.Adt.Source,
			render: func() (string, error) { return rust.DeriveAll(d.Adt, d.Derives) },
		})
	}
	for _, it := range p.schema.IndexTypes {
		// A malformed invocation leaves the name empty; render reports it.
		name, _ := rust.ParseInvocation(it.Invocation)
		tasks = append(tasks, task{
			kind:   ArtifactIndexType,
			name:   name,
			source: it.Source,
			render: func() (string, error) { return rust.GenerateIndexTypeFromTokens(it.Invocation, p.opts) },
		})
	}
	return tasks
}

// run renders every task with at most cfg.Jobs in flight. Each task
// writes only its own slot, so output order never depends on scheduling.
func (p *pipeline) run(ctx context.Context) (*Result, error) {
	tasks := p.tasks()
	codes := make([]string, len(tasks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Jobs)
	for i, t := range tasks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			code, err := t.render()
			if err != nil {
				return errors.Wrapf(err, "%s%s", t.kind, describe(t))
			}
			codes[i] = code
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var artifacts idx.Vector[artifactDomain, Artifact]
	for i, t := range tasks {
		id := artifacts.Push(Artifact{Kind: t.kind, Name: t.name, Source: t.source, Code: codes[i]})
		a, _ := artifacts.Get(id)
		a.ID = id
		artifacts.Set(id, a)
	}

	files, err := p.assemble(artifacts.Values())
	if err != nil {
		return nil, err
	}
	res := &Result{Artifacts: artifacts.Values(), Files: files}
	for _, a := range res.Artifacts {
		p.log.Debug("generated artifact",
			zap.Stringer("id", a.ID),
			zap.Stringer("kind", a.Kind),
			zap.String("name", a.Name),
			zap.String("path", a.Path),
			zap.Int("bytes", len(a.Code)))
	}
	p.log.Info("generation complete",
		zap.Int("declarations", len(p.schema.Declarations)),
		zap.Int("index_types", len(p.schema.IndexTypes)),
		zap.Int("files", len(res.Files)),
		zap.Int("jobs", p.cfg.Jobs))
	return res, nil
}

func describe(t task) string {
	switch {
	case t.name != "":
		return " " + t.name
	case !t.source.IsZero():
		return " at " + t.source.String()
	default:
		return ""
	}
}

// assemble lays artifacts out into files and records each artifact's path.
func (p *pipeline) assemble(artifacts []Artifact) ([]OutputFile, error) {
	if p.cfg.SingleFile {
		parts := make([]string, 0, len(artifacts))
		for i := range artifacts {
			artifacts[i].Path = SingleFileName
			parts = append(parts, artifacts[i].Code)
		}
		return []OutputFile{{Path: SingleFileName, Content: p.file(parts...)}}, nil
	}

	files := make([]OutputFile, 0, len(artifacts))
	owners := make(map[string]string, len(artifacts))
	for i := range artifacts {
		a := &artifacts[i]
		a.Path = rust.ToSnakeCase(strings.TrimPrefix(a.Name, "r#")) + ".rs"
		if prev, ok := owners[a.Path]; ok {
			return nil, diag.WithHint(
				diag.Newf(diag.CodeInvalidDescriptor, a.Name, "output file %s is also generated for %s", a.Path, prev),
				"rename one of them or use single-file output")
		}
		owners[a.Path] = a.Name
		files = append(files, OutputFile{Path: a.Path, Content: p.file(a.Code)})
	}
	return files, nil
}

func (p *pipeline) file(parts ...string) []byte {
	var b strings.Builder
	b.WriteString(p.cfg.Header)
	b.WriteString("\n")
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(strings.TrimSuffix(part, "\n"))
		b.WriteString("\n")
	}
	return []byte(b.String())
}
