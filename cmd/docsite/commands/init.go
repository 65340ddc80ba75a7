package commands

import (
	"fmt"
	"path/filepath"

	"github.com/mehdismh/econia/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool   `help:"Overwrite existing files"`
	Dir   string `short:"d" help:"Directory for the starter site (defaults to the configuration file's directory)" type:"path"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	dir := i.Dir
	if dir == "" {
		dir = filepath.Dir(root.Config)
	}
	return RunInit(g, dir, i.Force)
}

// RunInit writes a starter site into dir and lists the files it created.
func RunInit(g *Global, dir string, force bool) error {
	w := out(g)
	fmt.Fprintf(w, "Initializing documentation site in %s\n", dir)
	written, err := config.Init(dir, force)
	for _, f := range written {
		fmt.Fprintf(w, "  wrote %s\n", f)
	}
	if err != nil {
		fmt.Fprintln(w, "Initialization failed")
		return err
	}
	if len(written) == 0 {
		fmt.Fprintln(w, "Nothing to do; use --force to overwrite existing files")
		return nil
	}
	fmt.Fprintln(w, "initialized successfully")
	return nil
}
