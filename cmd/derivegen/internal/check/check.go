package check

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"github.com/broady/derivegen"
	"github.com/broady/derivegen/cmd/derivegen/internal/cli"
	"github.com/broady/derivegen/sink"
)

// ErrOutOfDate is returned when generated files differ from the output
// directory.
var ErrOutOfDate = errors.New("generated files are out of date")

type Cmd struct {
	cli.GenFlags `embed:""`

	Quiet bool `help:"Only list out-of-date files, without diffs." short:"q"`
}

func (c *Cmd) Run(g *cli.Globals) error {
	cfg, err := g.Config(c.GenFlags)
	if err != nil {
		return err
	}
	log, err := g.Logger()
	if err != nil {
		return errors.Wrap(err, "build logger")
	}
	defer func() { _ = log.Sync() }()

	drifts, err := derivegen.FromConfig(cfg).WithLogger(log).Check(context.Background(), cfg.OutDir)
	if err != nil {
		return err
	}
	return report(os.Stdout, drifts, c.Quiet)
}

var (
	okColor      = color.New(color.FgGreen)
	missingColor = color.New(color.FgRed, color.Bold)
	staleColor   = color.New(color.FgYellow, color.Bold)
	addColor     = color.New(color.FgGreen)
	delColor     = color.New(color.FgRed)
	hunkColor    = color.New(color.FgCyan)
)

func report(w io.Writer, drifts []sink.Drift, quiet bool) error {
	if len(drifts) == 0 {
		okColor.Fprintln(w, "✓ generated files are up to date")
		return nil
	}
	for _, d := range drifts {
		switch d.Status {
		case sink.DriftMissing:
			missingColor.Fprintf(w, "✗ %s: missing\n", d.Path)
		default:
			staleColor.Fprintf(w, "✗ %s: stale\n", d.Path)
			if !quiet {
				printDiff(w, d.Diff)
			}
		}
	}
	return errors.WithHint(
		errors.Wrapf(ErrOutOfDate, "%d file(s)", len(drifts)),
		"run derivegen gen to regenerate")
}

func printDiff(w io.Writer, diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			hunkColor.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			addColor.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			delColor.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}
