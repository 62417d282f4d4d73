package gen

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/davecgh/go-spew/spew"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/broady/derivegen"
	"github.com/broady/derivegen/cmd/derivegen/internal/cli"
	"github.com/broady/derivegen/loader"
)

type Cmd struct {
	cli.GenFlags `embed:""`

	Watch bool `help:"Watch the descriptor files and regenerate on change." short:"w"`
	Dump  bool `help:"Print the loaded schema instead of generating."`
}

func (c *Cmd) Run(g *cli.Globals) error {
	cfg, err := g.Config(c.GenFlags)
	if err != nil {
		return err
	}
	if len(cfg.Inputs) == 0 {
		return errors.WithHint(errors.New("no descriptor files"),
			"pass files as arguments or list them under inputs in "+derivegen.ProjectFileName)
	}
	if c.Dump {
		return dump(os.Stdout, cfg.Inputs)
	}
	if cfg.OutDir == "" {
		return errors.WithHint(errors.New("no output directory"),
			"pass --out or set out_dir in "+derivegen.ProjectFileName)
	}

	log, err := g.Logger()
	if err != nil {
		return errors.Wrap(err, "build logger")
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gen := derivegen.FromConfig(cfg).WithLogger(log)
	if !c.Watch {
		return generate(ctx, gen, log)
	}
	if err := generate(ctx, gen, log); err != nil {
		// Keep watching; the next save may fix it.
		log.Error("generation failed", zap.Error(err))
	}
	return watch(ctx, cfg.Inputs, 200*time.Millisecond, log, func() {
		if err := generate(ctx, gen, log); err != nil {
			log.Error("generation failed", zap.Error(err))
		}
	})
}

func generate(ctx context.Context, gen *derivegen.Generator, log *zap.Logger) error {
	res, err := gen.ToDir(ctx, "")
	if err != nil {
		return err
	}
	for _, f := range res.Files {
		log.Info("wrote", zap.String("file", f.Path), zap.Int("bytes", len(f.Content)))
	}
	return nil
}

// dump prints the merged schema the inputs decode to.
func dump(w io.Writer, inputs []string) error {
	schema, err := loader.LoadFiles(inputs...)
	if err != nil {
		return err
	}
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
	cfg.Fdump(w, schema)
	return nil
}

// watch calls regen after the inputs settle following a change. Parent
// directories are watched because editors often replace files by rename.
func watch(ctx context.Context, inputs []string, debounce time.Duration, log *zap.Logger, regen func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer w.Close()

	tracked := make(map[string]bool, len(inputs))
	dirs := make(map[string]bool)
	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			return errors.Wrapf(err, "resolve %s", in)
		}
		tracked[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return errors.Wrapf(err, "watch %s", dir)
		}
	}
	log.Info("watching", zap.Strings("inputs", inputs))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !tracked[abs] {
				continue
			}
			log.Debug("input changed", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			regen()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		}
	}
}

// Help extends the generated usage text.
func (c *Cmd) Help() string {
	return fmt.Sprintf("Inputs and flags override %s, which is searched for upwards from the working directory.", derivegen.ProjectFileName)
}
