package cmd

import (
	"context"

	"github.com/spf13/cobra"

	fractulus "github.com/fractulus/fractulus/pkg"
)

const (
	prodFlag      = "prod"
	watchFlag     = "watch"
	sourceMapFlag = "source-map"
)

func buildOptions(cmd *cobra.Command) fractulus.BuildOptions {
	flags := cmd.Flags()
	var opts fractulus.BuildOptions
	opts.Prod, _ = flags.GetBool(prodFlag)
	opts.SourceMap, _ = flags.GetBool(sourceMapFlag)
	if flags.Lookup(watchFlag) != nil {
		opts.Watch, _ = flags.GetBool(watchFlag)
	}
	return opts
}

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Bundle the application and serve it with fractal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := buildOptions(cmd)
			return c.run(cmd, func(ctx context.Context, f *fractulus.Fractulus) error {
				return f.Serve(ctx, opts)
			})
		},
	}
	cmd.Flags().BoolP(prodFlag, "p", false, "create prod version")
	cmd.Flags().BoolP(watchFlag, "w", false, "watch for file changes")
	cmd.Flags().BoolP(sourceMapFlag, "s", false, "create source maps")
	return cmd
}

func newBuildCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Bundle the application and build the static fractal library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := buildOptions(cmd)
			return c.run(cmd, func(ctx context.Context, f *fractulus.Fractulus) error {
				return f.Build(ctx, opts)
			})
		},
	}
	cmd.Flags().BoolP(prodFlag, "p", false, "create prod version")
	cmd.Flags().BoolP(sourceMapFlag, "s", false, "create source maps")
	return cmd
}
