package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	fractulus "github.com/fractulus/fractulus/pkg"
)

const (
	configFlag       = "config"
	verboseFlag      = "verbose"
	noColorFlag      = "no-color"
	overrideFlag     = "override"
	defaultsFlag     = "defaults"
	renderPolicyFlag = "render-policy"
)

// cli holds what every command shares once flags are parsed.
type cli struct {
	log      fractulus.Logger
	settings *fractulus.Settings
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           fractulus.CLIName(),
		Short:         fractulus.Description(),
		Long:          fractulus.DisplayName() + ` scaffolds Handlebars/Fractal applications, components and pages,
and runs the project bundler to serve or build them.`,
		Version:       fractulus.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String(configFlag, "", "settings file (default "+fractulus.SettingsFile()+")")
	pf.Bool(verboseFlag, false, "show debug output")
	pf.Bool(noColorFlag, false, "disable colored output")
	pf.StringToStringP(overrideFlag, "o", map[string]string{}, "provide prompt answers as key-value pairs")
	pf.BoolP(defaultsFlag, "y", false, "do not prompt, use the default answers")
	pf.String(renderPolicyFlag, "", "what to do when a template fails to render: strict or best-effort")

	rootCmd.AddCommand(
		newNewCmd(c),
		newCreateComponentCmd(c),
		newCreatePageCmd(c),
		newServeCmd(c),
		newBuildCmd(c),
	)
	return rootCmd, c
}

func (c *cli) init(cmd *cobra.Command) error {
	flags := cmd.Flags()
	verbose, _ := flags.GetBool(verboseFlag)
	noColor, _ := flags.GetBool(noColorFlag)
	c.log = fractulus.NewLogger(fractulus.LogOptions{
		Out:     cmd.OutOrStdout(),
		Verbose: verbose,
		NoColor: noColor,
	})

	file, _ := flags.GetString(configFlag)
	settings, err := fractulus.LoadSettings(file)
	if err != nil {
		return err
	}
	c.settings = settings
	return nil
}

// newFractulus creates a Fractulus from the parsed flags and settings.
func (c *cli) newFractulus(cmd *cobra.Command) (*fractulus.Fractulus, error) {
	flags := cmd.Flags()
	overrides, err := flags.GetStringToString(overrideFlag)
	if err != nil {
		return nil, fractulus.UsageError("invalid --"+overrideFlag, err)
	}
	defaults, _ := flags.GetBool(defaultsFlag)
	policy, _ := flags.GetString(renderPolicyFlag)
	if policy == "" {
		policy = c.settings.RenderPolicy
	}

	return fractulus.New(cmd.Context(),
		fractulus.WithLogger(c.log),
		fractulus.WithOverrides(overrides),
		fractulus.WithInteractive(!defaults && isatty.IsTerminal(os.Stdin.Fd())),
		fractulus.WithStdio(os.Stdin, os.Stdout, os.Stderr),
		fractulus.WithRenderPolicy(policy),
		fractulus.WithTemplateSource(c.settings.TemplateSource),
		fractulus.WithPackageManager(c.settings.PackageManager),
		fractulus.WithNode(c.settings.Node),
		fractulus.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
	)
}

// run creates a Fractulus for cmd, calls fn and releases it again.
func (c *cli) run(cmd *cobra.Command, fn func(ctx context.Context, f *fractulus.Fractulus) error) error {
	f, err := c.newFractulus(cmd)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(cmd.Context(), f)
}

func (c *cli) logger(cmd *cobra.Command) fractulus.Logger {
	if c.log == nil {
		c.log = fractulus.NewLogger(fractulus.LogOptions{Out: cmd.ErrOrStderr()})
	}
	return c.log
}

// execute runs rootCmd and logs any error it returns.
func execute(ctx context.Context, rootCmd *cobra.Command, c *cli) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		log := c.logger(rootCmd)
		log.Errorf("%s", fractulus.ErrorMessage(err))
		if code := fractulus.ErrorCode(err); code != "" {
			log.Debugf("error code %s", code)
		}
	}
	return err
}

// Execute executes the root command. Interrupts cancel running subprocesses.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd, c := newRootCmd()
	return execute(ctx, rootCmd, c)
}
