package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/superpowers-pi/superpowers/pkg/bootstrap"
	"github.com/superpowers-pi/superpowers/pkg/hooks"
	"github.com/superpowers-pi/superpowers/pkg/logger"
	"github.com/superpowers-pi/superpowers/pkg/skills"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Host lifecycle hook integration",
}

var hookEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the lifecycle events handled by hook run",
	Run: func(_ *cobra.Command, _ []string) {
		for _, event := range hooks.SupportedHookTypes() {
			fmt.Println(event)
		}
	},
}

var hookRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Handle one lifecycle event read from stdin",
	Long: `Read a lifecycle event payload as JSON from stdin and write the messages to
inject into the session as JSON on stdout.

  {"event": "session_start", "session_id": "...", "cwd": "..."}

session_start injects the full bootstrap and session_before_compact the compact
one. Any other event, or any failure to load the configuration or build the
bootstrap, yields {} with exit status 0.`,
	// configuration errors are handled by runHook so the host always gets a result
	PersistentPreRun: func(_ *cobra.Command, _ []string) {},
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		if err := runHook(ctx, viper.GetViper(), os.Stdin, os.Stdout); err != nil {
			logger.G(ctx).WithError(err).Error("failed to write hook result")
		}
	},
}

// runHook resolves the configuration in v and answers the payload read from
// in. A configuration that cannot be loaded answers {}.
func runHook(ctx context.Context, v *viper.Viper, in io.Reader, out io.Writer) error {
	cfg, err := loadConfig(v)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("failed to load configuration, skipping injection")
		return hooks.WriteResult(out, hooks.Result{})
	}
	if err := setupLogging(cfg); err != nil {
		logger.G(ctx).WithError(err).Warn("ignoring invalid log settings")
	}

	ctx = logger.WithLogger(ctx, logger.G(ctx).WithField("cmd", "hook run"))
	handler := hooks.NewHandler(bootstrap.NewComposer(skills.NewLocator(cfg.Roots())))
	return handler.Run(ctx, in, out)
}

func init() {
	hookCmd.AddCommand(hookEventsCmd)
	hookCmd.AddCommand(hookRunCmd)
}
