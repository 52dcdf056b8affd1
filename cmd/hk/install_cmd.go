package main

import (
	"github.com/spf13/cobra"
)

func newInstallCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install hk as the repo's pre-commit hook",
		Args:  cobra.NoArgs,
		Long: `Write a pre-commit script into the repository's hooks path that
invokes 'hk run' on every commit.

An existing pre-commit script not written by hk is left alone unless
--force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return installHook(cmd.Context(), force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite a foreign pre-commit script")

	return cmd
}

func newUninstallCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the pre-commit hook installed by hk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return uninstallHook(cmd.Context(), force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove even a foreign pre-commit script")

	return cmd
}
