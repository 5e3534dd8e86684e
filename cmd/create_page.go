package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	fractulus "github.com/fractulus/fractulus/pkg"
)

func newCreatePageCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "create-page <pName>",
		Aliases: []string{"cp"},
		Short:   "Create new fractal page",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return c.run(cmd, func(ctx context.Context, f *fractulus.Fractulus) error {
				return f.CreatePage(ctx, name)
			})
		},
	}
}
