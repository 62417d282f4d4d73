package indextype

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/broady/derivegen/cmd/derivegen/internal/cli"
	"github.com/broady/derivegen/idx"
	"github.com/broady/derivegen/rust"
	"github.com/broady/derivegen/sink"
)

type Cmd struct {
	Invocation   []string `arg:"" help:"Invocation tokens, normally a single identifier such as FunId."`
	Policy       string   `help:"Overflow policy (abort, error). Default: the project setting, then abort."`
	IDVectorPath string   `help:"Rust module providing Vector and its traits." name:"id-vector-path"`
	Out          string   `help:"Write to this file instead of stdout." short:"o" type:"path"`
}

func (c *Cmd) Run(g *cli.Globals) error {
	cfg, err := g.Config(cli.GenFlags{Policy: c.Policy, IDVectorPath: c.IDVectorPath})
	if err != nil {
		return err
	}
	policy, err := idx.ParseOverflowPolicy(cfg.OverflowPolicy)
	if err != nil {
		return err
	}
	code, err := rust.GenerateIndexTypeFromTokens(strings.Join(c.Invocation, " "), rust.IndexTypeOptions{
		Policy:       policy,
		IDVectorPath: cfg.IDVectorPath,
	})
	if err != nil {
		return err
	}
	if c.Out == "" {
		return write(os.Stdout, code)
	}
	if err := sink.NewFilesystemSink(filepath.Dir(c.Out)).WriteFile(context.Background(), filepath.Base(c.Out), []byte(code)); err != nil {
		return errors.Wrapf(err, "write %s", c.Out)
	}
	return nil
}

func write(w io.Writer, code string) error {
	_, err := io.WriteString(w, code)
	return err
}
