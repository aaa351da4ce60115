package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mandelsoft/fakir/pkg/random"
	"github.com/mandelsoft/fakir/pkg/render"
	"github.com/mandelsoft/fakir/pkg/schema"
	"github.com/mandelsoft/fakir/pkg/utils"
)

type Generate struct {
	cmd *cobra.Command

	mainopts *Options
	file     string
	seed     int64
	rows     int
	format   string
	digest   bool
}

func NewGenerate(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate -f <schema> <options>",
		Short: "generate rows for a schema",
	}
	TweakCommand(cmd)

	c := &Generate{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	flags := cmd.Flags()
	flags.StringVarP(&c.file, "file", "f", "", "schema file")
	flags.Int64VarP(&c.seed, "seed", "s", 0, "random seed")
	flags.IntVarP(&c.rows, "rows", "n", 0, "number of rows")
	flags.StringVarP(&c.format, "output", "o", "", fmt.Sprintf("output format (%s)", strings.Join(render.Formats(), ", ")))
	flags.BoolVarP(&c.digest, "digest", "", false, "print the SHA-256 of all rows only")
	return cmd
}

// changed provides the flag value, if it has been set explicitly.
func changed[T any](c *cobra.Command, name string, v T) *T {
	if c.Flags().Changed(name) {
		return &v
	}
	return nil
}

func (c *Generate) Run(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("no arguments expected")
	}
	m, err := compile(c.mainopts, c.file)
	if err != nil {
		return err
	}
	cfg, err := GetConfig(c.mainopts.fs, c.mainopts.getenv)
	if err != nil {
		return err
	}

	seed := *utils.Optional(changed(c.cmd, "seed", c.seed), cfg.Seed, m.Seed(), utils.Pointer(int64(0)))
	rows := *utils.Optional(changed(c.cmd, "rows", c.rows), cfg.Rows, m.Rows(), utils.Pointer(10))
	format := *utils.Optional(changed(c.cmd, "output", c.format), cfg.Format, utils.Pointer("text"))
	if rows < 0 {
		return fmt.Errorf("row count %d must not be negative", rows)
	}

	log.Info("generating {{rows}} rows with seed {{seed}}", "rows", rows, "seed", seed)

	src := random.NewCounter(random.New(seed))
	columns := m.Columns()

	var w render.Writer
	records := []map[string]any{}
	if !c.digest {
		w, err = render.New(format, c.cmd.OutOrStdout(), columns)
		if err != nil {
			return err
		}
	}

	for i := 0; i < rows; i++ {
		src.Reset()
		row, err := m.Generate(src)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		log.Debug("row {{row}}: {{draws}} draws", "row", i+1, "draws", src.Draws())

		if c.digest {
			r, err := render.Record(columns, row)
			if err != nil {
				return err
			}
			records = append(records, r)
			continue
		}
		err = w.Write(row)
		if err != nil {
			return err
		}
	}

	if c.digest {
		h, err := utils.HashData(records)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.cmd.OutOrStdout(), "%s\n", h)
		return nil
	}
	return w.Flush()
}

func compile(opts *Options, file string) (*schema.Model, error) {
	if file == "" {
		return nil, fmt.Errorf("schema file required (option -f)")
	}
	s, err := schema.Load(opts.fs, file)
	if err != nil {
		return nil, err
	}
	m, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return m, nil
}
