package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/superpowers-pi/superpowers/pkg/config"
	"github.com/superpowers-pi/superpowers/pkg/presenter"
	"github.com/superpowers-pi/superpowers/pkg/skills"
	"gopkg.in/yaml.v3"
)

// resolvedConfig is the document printed by config show
type resolvedConfig struct {
	ConfigFile string        `yaml:"config_file,omitempty"`
	Config     config.Config `yaml:",inline"`
	Roots      skills.Roots  `yaml:"roots"`
	RepoDir    string        `yaml:"repo_dir"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the resolved configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration and skill roots as YAML",
	Run: func(cmd *cobra.Command, _ []string) {
		out, err := renderConfig(configFrom(cmd.Context()), viper.ConfigFileUsed())
		if err != nil {
			presenter.Error(err, "Failed to render configuration")
			os.Exit(1)
		}
		fmt.Print(out)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func renderConfig(cfg config.Config, configFile string) (string, error) {
	data, err := yaml.Marshal(resolvedConfig{
		ConfigFile: configFile,
		Config:     cfg,
		Roots:      cfg.Roots(),
		RepoDir:    cfg.RepoDir(),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal configuration")
	}
	return string(data), nil
}
