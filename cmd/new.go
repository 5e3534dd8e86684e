package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	fractulus "github.com/fractulus/fractulus/pkg"
)

const skipInstallFlag = "skip-install"

func newNewCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "new <appName>",
		Aliases: []string{"n"},
		Short:   "Create new fractal application",
		Long: `Create a new fractal application in a directory named after appName, inside
the current directory, then install its packages.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skip, _ := cmd.Flags().GetBool(skipInstallFlag)
			skip = skip || c.settings.SkipInstall
			name := strings.Join(args, " ")
			return c.run(cmd, func(ctx context.Context, f *fractulus.Fractulus) error {
				return f.NewApp(ctx, name, fractulus.NewAppOptions{SkipInstall: skip})
			})
		},
	}
	cmd.Flags().BoolP(skipInstallFlag, "s", false, "skip installing packages")
	return cmd
}
