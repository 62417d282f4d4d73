package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/cockroachdb/errors"

	"github.com/broady/derivegen/cmd/derivegen/internal/check"
	"github.com/broady/derivegen/cmd/derivegen/internal/cli"
	"github.com/broady/derivegen/cmd/derivegen/internal/convert"
	"github.com/broady/derivegen/cmd/derivegen/internal/gen"
	"github.com/broady/derivegen/cmd/derivegen/internal/indextype"
	"github.com/broady/derivegen/cmd/derivegen/internal/serve"
)

type CLI struct {
	cli.Globals

	Version   VersionCmd    `cmd:"" help:"Print version information."`
	Gen       gen.Cmd       `cmd:"" help:"Generate Rust impls and index types from descriptor files."`
	Check     check.Cmd     `cmd:"" help:"Verify that generated files are up to date."`
	IndexType indextype.Cmd `cmd:"" name:"index-type" help:"Print the index module for one invocation."`
	Convert   convert.Cmd   `cmd:"" help:"Convert a descriptor file between JSON, YAML and msgpack."`
	Serve     serve.Cmd     `cmd:"" help:"Serve an HTTP preview of generated code."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run(g *cli.Globals) error {
	fmt.Println(g.ToolVersion)
	return nil
}

func main() {
	c := &CLI{}
	c.Globals.ToolVersion = Version()
	ctx := kong.Parse(c,
		kong.Name("derivegen"),
		kong.Description("Generate Rust enum helper methods and typed index modules."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&c.Globals)
	if err != nil {
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
	}
	ctx.FatalIfErrorf(err)
}
