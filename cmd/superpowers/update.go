package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/superpowers-pi/superpowers/pkg/presenter"
	"github.com/superpowers-pi/superpowers/pkg/update"
)

// UpdateConfig holds configuration for the update command
type UpdateConfig struct {
	Timeout time.Duration
	NoFetch bool
}

// NewUpdateConfig creates an UpdateConfig with default values
func NewUpdateConfig() *UpdateConfig {
	return &UpdateConfig{
		Timeout: update.DefaultTimeout,
	}
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check whether the superpowers checkout is behind its upstream",
	Long: `Fetch the upstream branch of the superpowers checkout and report whether new
commits are available. The check never fails: an unreachable remote, a
detached checkout or a missing repository all report "up to date".`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		cfg := configFrom(ctx)
		updateConfig := getUpdateConfigFromFlags(cmd)

		opts := []update.Option{update.WithTimeout(updateConfig.Timeout)}
		if updateConfig.NoFetch {
			opts = append(opts, update.WithoutFetch())
		}

		hasUpdates := update.NewChecker(opts...).HasUpdates(ctx, cfg.RepoDir())
		message := update.StatusMessage(hasUpdates, cfg.RepoDir())
		if hasUpdates {
			presenter.Warning(message)
		} else {
			presenter.Success(message)
		}
	},
}

func init() {
	defaults := NewUpdateConfig()
	updateCmd.Flags().Duration("timeout", defaults.Timeout, "Maximum time spent fetching the upstream branch")
	updateCmd.Flags().Bool("no-fetch", defaults.NoFetch, "Compare against the last fetched upstream state without contacting the remote")
}

func getUpdateConfigFromFlags(cmd *cobra.Command) *UpdateConfig {
	config := NewUpdateConfig()

	if timeout, err := cmd.Flags().GetDuration("timeout"); err == nil {
		config.Timeout = timeout
	}
	if noFetch, err := cmd.Flags().GetBool("no-fetch"); err == nil {
		config.NoFetch = noFetch
	}

	return config
}
