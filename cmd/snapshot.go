package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmmoran/typecompose/pkg/action/snapshot"
)

func init() {
	rootCmd.AddCommand(NewSnapshotCommand())
}

func NewSnapshotCommand() *cobra.Command {
	var manifestPath string

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "manage versioned graph snapshots",
	}
	snapshotCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "snapshots/manifest.yaml", "path to the snapshot manifest")

	var (
		flags                 = &composeFlags{}
		snapshotName, version string
	)
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "compose the inputs and record a snapshot",
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := flags.options(c)
			if err != nil {
				return err
			}
			out, err := snapshot.Generate(opts, manifestPath, snapshotName, version, flags.inputs...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.OutOrStdout(), out)
			return err
		},
	}
	flags.register(generateCmd)
	generateCmd.Flags().StringVarP(&snapshotName, "name", "n", "graph", "snapshot name")
	generateCmd.Flags().StringVarP(&version, "version", "v", "", "snapshot semantic version")
	_ = generateCmd.MarkFlagRequired("version")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded snapshots",
		RunE: func(c *cobra.Command, args []string) error {
			m, err := snapshot.List(manifestPath)
			if err != nil {
				return err
			}
			for _, s := range m.Snapshots {
				marker := " "
				switch s.Version {
				case m.CurrentVersion:
					marker = "*"
				case m.PreviousVersion:
					marker = "-"
				}
				if _, err = fmt.Fprintf(c.OutOrStdout(), "%s %s %s %s\n", marker, s.Version, s.Name, s.File); err != nil {
					return err
				}
			}
			return nil
		},
	}

	diffCmd := &cobra.Command{
		Use:   "diff",
		Short: "diff the current snapshot against the previous one",
		RunE: func(c *cobra.Command, args []string) error {
			diff, err := snapshot.DiffCurrentWithPrevious(manifestPath)
			if err != nil {
				return err
			}
			if diff == "" {
				diff = "no changes\n"
			}
			_, err = fmt.Fprint(c.OutOrStdout(), diff)
			return err
		},
	}

	snapshotCmd.AddCommand(generateCmd, listCmd, diffCmd)
	return snapshotCmd
}
