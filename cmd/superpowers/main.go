package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/superpowers-pi/superpowers/pkg/config"
	"github.com/superpowers-pi/superpowers/pkg/logger"
)

type configKey struct{}

var logFile io.Closer

var rootCmd = &cobra.Command{
	Use:   "superpowers",
	Short: "Skill discovery and session bootstrap for the pi coding agent",
	Long: `superpowers locates SKILL.md documents across project, personal and bundled
skill libraries, renders them for the agent, and composes the bootstrap
instructions injected at session start and before context compaction.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		if err := setupLogging(cfg); err != nil {
			return err
		}

		ctx := logger.WithLogger(cmd.Context(), logger.G(cmd.Context()).WithField("cmd", cmd.Name()))
		cmd.SetContext(context.WithValue(ctx, configKey{}, cfg))

		logger.G(ctx).WithField("project_dir", cfg.ProjectDir).
			WithField("superpowers_dir", cfg.SuperpowersDir).
			Debug("configuration loaded")
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logFile != nil {
			_ = logFile.Close()
		}
	},
}

// loadConfig reads the config file, if any, and resolves the configuration in v
func loadConfig(v *viper.Viper) (config.Config, error) {
	if err := config.ReadConfigFile(v); err != nil {
		return config.Config{}, err
	}
	return config.Load(v)
}

// setupLogging applies the log settings of cfg to the global logger
func setupLogging(cfg config.Config) error {
	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		return errors.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}
	if cfg.LogFile != "" {
		var err error
		if logFile, err = logger.SetLogFile(cfg.LogFile); err != nil {
			return err
		}
	}
	return nil
}

// configFrom returns the configuration loaded by the root command
func configFrom(ctx context.Context) config.Config {
	if cfg, ok := ctx.Value(configKey{}).(config.Config); ok {
		return cfg
	}
	return config.Config{}
}

func init() {
	config.Setup(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.String("project-dir", "", "Project directory whose .pi/skills is searched first (default: current directory)")
	flags.String("config-dir", "", "pi agent configuration directory holding personal skills (default: ~/.pi/agent)")
	flags.String("superpowers-dir", "", "Superpowers checkout holding the bundled skills (default: the install directory)")
	flags.Int("max-depth", 0, "Maximum directory depth searched for skills")
	flags.String("log-level", "info", "Log level (panic, fatal, error, warn, info, debug, trace)")
	flags.String("log-format", "fmt", "Log format (fmt, json)")
	flags.String("log-file", "", "Write logs to this file, rotated by size, instead of stderr")
	flags.String("profile", "", "Named configuration profile to apply")

	bindFlags(viper.GetViper(), flags)

	rootCmd.AddCommand(useCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(bootstrapCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

// bindFlags binds each persistent flag to the viper key spelled with
// underscores, so --project-dir sets project_dir.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(flag *pflag.Flag) {
		_ = v.BindPFlag(strings.ReplaceAll(flag.Name, "-", "_"), flag)
	})
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
