package app

import (
	"os"

	"github.com/mandelsoft/logging"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/spf13/cobra"

	"github.com/mandelsoft/fakir/pkg/utils"
)

var REALM = logging.DefineRealm("fakir", "synthetic data generator")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)

type Options struct {
	level  string
	fs     vfs.FileSystem
	getenv func(string) string
}

func New(fss ...vfs.FileSystem) *cobra.Command {
	opts := &Options{
		level:  "warn",
		fs:     utils.OptionalDefaulted(vfs.FileSystem(osfs.OsFs), fss...),
		getenv: os.Getenv,
	}

	maincmd := &cobra.Command{
		Use:   "fakir <options> <cmd> <args>",
		Short: "generate correlated synthetic data",
		Long: `
This command generates rows of synthetic data described by a schema
file. Every column is an expression drawing random values, referring
to other columns shares their values within a row.
`,
		Run:              nil,
		TraverseChildren: true,
		SilenceUsage:     true,
		SilenceErrors:    true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.ConfigureLogging()
		},
	}

	flags := maincmd.PersistentFlags()
	flags.StringVarP(&opts.level, "log-level", "L", opts.level, "log level")

	maincmd.AddCommand(NewGenerate(opts))
	maincmd.AddCommand(NewCheck(opts))
	return maincmd
}

// ConfigureLogging sets the log level for all fakir realms.
func (o *Options) ConfigureLogging() error {
	l, err := logging.ParseLevel(o.level)
	if err != nil {
		return err
	}
	logging.DefaultContext().AddRule(logging.NewConditionRule(l, logging.NewRealmPrefix("fakir")))
	return nil
}

func TweakCommand(cmd *cobra.Command) {
	cmd.TraverseChildren = true
	cmd.SilenceUsage = true
	cmd.DisableFlagsInUseLine = true
}
