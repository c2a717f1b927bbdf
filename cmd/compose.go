package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/typecompose/pkg/action/compose"
	"github.com/cmmoran/typecompose/pkg/composer"
)

// composeFlags are shared by every command that composes inputs.
type composeFlags struct {
	inputs              []string
	excludeAccessLevels []string
}

type config struct {
	Composer composer.Options `mapstructure:"composer"`
}

func (f *composeFlags) register(c *cobra.Command) {
	pf := c.Flags()
	pf.StringSliceVarP(&f.inputs, "input", "i", []string{}, "declaration file(s) or directories to compose")
	pf.StringSliceVarP(&f.excludeAccessLevels, "exclude-access-levels", "A", []string{}, "skip declarations with these access levels, ex: private,fileprivate")
	pf.String("orphan-policy", string(composer.OrphanDrop), "what to do with extensions of unknown types (drop, stub)")
	pf.Bool("serial", false, "resolve references on a single goroutine")
	pf.Int("workers", 0, "number of concurrent reference resolvers (0 = number of CPUs)")
	pf.StringSlice("exclude-types", []string{}, "skip named types (local or global name)")
	_ = c.MarkFlagRequired("input")
}

// options merges config file values with the command's flags. Flags bind
// to the composer.* keys so they win over the config file when set.
func (f *composeFlags) options(c *cobra.Command) (*composer.Options, error) {
	pf := c.Flags()
	for key, flag := range map[string]string{
		"composer.orphan_policy": "orphan-policy",
		"composer.serial":        "serial",
		"composer.workers":       "workers",
		"composer.exclude_types": "exclude-types",
	} {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			return nil, errors.Wrapf(err, "bind %s", flag)
		}
	}

	cfg := config{Composer: *composer.NewOptions()}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	opts := &cfg.Composer
	if err := opts.Normalize(f.excludeAccessLevels...); err != nil {
		return nil, err
	}
	return opts, nil
}

func init() {
	rootCmd.AddCommand(NewComposeCommand())
}

func NewComposeCommand() *cobra.Command {
	var (
		flags   = &composeFlags{}
		outFile string
	)

	// composeCmd represents the typecompose compose command
	var composeCmd = &cobra.Command{
		Use:   "compose",
		Short: "compose declarations",
		Long:  "Compose declaration documents and write the resolved graph snapshot",
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := flags.options(c)
			if err != nil {
				return err
			}
			if outFile != "" && outFile != "-" {
				_, err = compose.Generate(opts, outFile, flags.inputs...)
				return err
			}
			types, err := compose.Run(opts, flags.inputs...)
			if err != nil {
				return err
			}
			data, err := types.Snapshot().YAML()
			if err != nil {
				return err
			}
			_, err = c.OutOrStdout().Write(data)
			return err
		},
	}
	flags.register(composeCmd)
	composeCmd.Flags().StringVarP(&outFile, "output-file", "o", "-", "file the graph snapshot is written to (- for stdout)")

	return composeCmd
}
