package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/fluxpress/theme-classic/cmd/fluxpress/commands"
	"github.com/fluxpress/theme-classic/internal/foundation/errors"
	"github.com/fluxpress/theme-classic/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("fluxpress"),
		kong.Description("Static site generator for the FluxPress classic theme."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	err := parser.Run(&commands.Global{Out: os.Stdout}, cli)
	errors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
}
