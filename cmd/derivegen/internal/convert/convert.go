package convert

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/broady/derivegen/loader"
	"github.com/broady/derivegen/sink"
)

type Cmd struct {
	Input  string `arg:"" help:"Descriptor file to read." type:"existingfile"`
	Output string `arg:"" help:"Descriptor file to write; the format follows its extension." type:"path"`
	Force  bool   `help:"Overwrite an existing output file." short:"f"`
}

func (c *Cmd) Run() error {
	inFormat, err := loader.FormatFromPath(c.Input)
	if err != nil {
		return err
	}
	outFormat, err := loader.FormatFromPath(c.Output)
	if err != nil {
		return err
	}

	in, err := os.Open(c.Input)
	if err != nil {
		return errors.Wrapf(err, "open %s", c.Input)
	}
	defer in.Close()
	f, err := loader.DecodeFile(in, inFormat)
	if err != nil {
		return errors.Wrapf(err, "decode %s", c.Input)
	}
	// Reject documents that would not load.
	if _, err := loader.ToSchema(f, c.Input); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := loader.EncodeFile(&buf, outFormat, f); err != nil {
		return errors.Wrapf(err, "encode %s", outFormat)
	}
	out := &sink.FilesystemSink{Root: filepath.Dir(c.Output), Overwrite: c.Force}
	return out.WriteFile(context.Background(), filepath.Base(c.Output), buf.Bytes())
}
