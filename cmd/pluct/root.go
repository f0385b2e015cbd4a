package main

import (
	"github.com/spf13/cobra"

	"github.com/reoring/pluct/internal/logging"
)

func newRootCommand() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:          "pluct",
		Short:        "Fetch and inspect JSON Schema documents served over HTTP.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			l, err := logging.New(cmd.ErrOrStderr(), logLevel)
			if err != nil {
				return err
			}
			logging.SetGlobalLogger(l)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", `verbosity of logging ("trace", "debug", "info", "warn", "error")`)

	root.AddCommand(newGetCommand())
	return root
}
