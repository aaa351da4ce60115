package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mandelsoft/fakir/pkg/fakir"
	"github.com/mandelsoft/fakir/pkg/render"
)

type Check struct {
	cmd *cobra.Command

	mainopts *Options
	file     string
}

func NewCheck(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check -f <schema>",
		Short: "compile a schema and show its columns",
	}
	TweakCommand(cmd)

	c := &Check{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	flags := cmd.Flags()
	flags.StringVarP(&c.file, "file", "f", "", "schema file")
	return cmd
}

func (c *Check) Run(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("no arguments expected")
	}
	m, err := compile(c.mainopts, c.file)
	if err != nil {
		return err
	}

	w, err := render.New("table", c.cmd.OutOrStdout(), []string{"column", "hidden", "dependencies", "expression"})
	if err != nil {
		return err
	}
	for _, name := range m.AllColumns() {
		n, _ := m.Node(name)
		hidden := ""
		if m.IsHidden(name) {
			hidden = "yes"
		}
		err = w.Write(fakir.Tuple{name, hidden, strings.Join(m.Dependencies(name), ","), n.String()})
		if err != nil {
			return err
		}
	}
	return w.Flush()
}
