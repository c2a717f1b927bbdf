package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmmoran/typecompose/pkg/action/compose"
	"github.com/cmmoran/typecompose/pkg/index"
	"github.com/cmmoran/typecompose/pkg/model"
)

func init() {
	rootCmd.AddCommand(NewQueryCommand())
}

func NewQueryCommand() *cobra.Command {
	flags := &composeFlags{}

	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "query a composed graph",
		Long:  "Compose the inputs and list the global names of the types answering a query",
	}

	sub := func(use, short string, answer func(*index.Types, string) ([]*model.Type, error)) *cobra.Command {
		c := &cobra.Command{
			Use:   use + " NAME",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				opts, err := flags.options(c)
				if err != nil {
					return err
				}
				types, err := compose.Run(opts, flags.inputs...)
				if err != nil {
					return err
				}
				found, err := answer(types, args[0])
				if err != nil {
					return err
				}
				for _, t := range found {
					if _, err = fmt.Fprintln(c.OutOrStdout(), t.GlobalName()); err != nil {
						return err
					}
				}
				return nil
			},
		}
		flags.register(c)
		return c
	}

	queryCmd.AddCommand(
		sub("based", "types based on NAME, known or not", func(t *index.Types, name string) ([]*model.Type, error) {
			return t.Based(name), nil
		}),
		sub("inheriting", "types inheriting from the class NAME", (*index.Types).Inheriting),
		sub("implementing", "types implementing the protocol NAME", (*index.Types).Implementing),
		sub("collection", "types of a collection (classes, structs, enums, protocols, protocolCompositions, extensions, all)", (*index.Types).Collection),
	)

	return queryCmd
}
