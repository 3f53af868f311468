package main

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/gym-entry/internal/config"
)

// configLoader resolves configuration lazily so --help works without env.
type configLoader func() (*config.Config, error)

func newRootCmd(load configLoader) *cobra.Command {
	root := &cobra.Command{
		Use:           "gymctl",
		Short:         "Operate the gym entry service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newTokenCmd(load))
	root.AddCommand(newSessionCmd(load))
	root.AddCommand(newMigrateCmd(load))
	return root
}
