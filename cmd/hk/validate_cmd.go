package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/hk/internal/config"
	"github.com/raphi011/hk/internal/git"
	"github.com/raphi011/hk/internal/output"
)

func newValidateConfigCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate-config",
		Short: "Check the pipeline file for errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path := configPath
			if path == "" {
				root, err := git.Root(ctx, workDir)
				if err != nil {
					return err
				}
				path = filepath.Join(root, config.DefaultPipelineFile)
			}

			pipeline, err := config.LoadPipeline(path)
			if err != nil {
				return err
			}

			output.FromContext(ctx).Printf("%s: OK (%d hooks)\n", path, len(pipeline.Hooks))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Pipeline file (default .hk.yaml at the repo root)")

	return cmd
}
