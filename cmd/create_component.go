package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	fractulus "github.com/fractulus/fractulus/pkg"
)

const skipTestFlag = "skip-test"

func newCreateComponentCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "create-component <cName>",
		Aliases: []string{"cc"},
		Short:   "Create new fractal component",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skip, _ := cmd.Flags().GetBool(skipTestFlag)
			name := strings.Join(args, " ")
			return c.run(cmd, func(ctx context.Context, f *fractulus.Fractulus) error {
				return f.CreateComponent(ctx, name, fractulus.ComponentOptions{SkipTest: skip})
			})
		},
	}
	cmd.Flags().BoolP(skipTestFlag, "s", false, "skip creating the spec file")
	return cmd
}
