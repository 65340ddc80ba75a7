package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/mehdismh/econia/cmd/docsite/commands"
	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("docsite"),
		kong.Description("Build a static documentation site from markdown sources."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	err := parser.Run(&commands.Global{Logger: cli.Logger(), Out: os.Stdout}, cli)
	derrors.NewCLIErrorAdapter(cli.Verbose, cli.Logger()).HandleError(err)
}
