package commands

import (
	"fmt"

	"github.com/fluxpress/theme-classic/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

func (i *InitCmd) Run(global *Global, root *CLI) error {
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(global.Out, "Wrote example configuration to %s\n", root.Config)
	return nil
}
