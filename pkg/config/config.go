// Package config resolves the superpowers configuration once at startup.
// Values come from flags, SUPERPOWERS_* environment variables,
// PI_CONFIG_DIR and an optional config.yaml, with named profiles merged on
// top. The result is passed explicitly to everything that needs a path.
package config

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/superpowers-pi/superpowers/pkg/skills"
)

const (
	// EnvPrefix prefixes every environment variable read by viper
	EnvPrefix = "SUPERPOWERS"
	// ConfigDirEnv overrides the base pi agent configuration directory
	ConfigDirEnv = "PI_CONFIG_DIR"

	projectSkillsDir = ".pi/skills"
)

// Config holds the resolved settings
type Config struct {
	ProjectDir     string `mapstructure:"project_dir" yaml:"project_dir"`
	ConfigDir      string `mapstructure:"config_dir" yaml:"config_dir"`
	SuperpowersDir string `mapstructure:"superpowers_dir" yaml:"superpowers_dir"`
	MaxDepth       int    `mapstructure:"max_depth" yaml:"max_depth"`
	LogLevel       string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat      string `mapstructure:"log_format" yaml:"log_format"`
	LogFile        string `mapstructure:"log_file" yaml:"log_file,omitempty"`
	Profile        string `mapstructure:"profile" yaml:"profile,omitempty"`

	Profiles map[string]map[string]interface{} `mapstructure:"profiles" yaml:"-"`
}

// Setup registers defaults, environment bindings and config file locations on v
func Setup(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	_ = v.BindEnv("config_dir", EnvPrefix+"_CONFIG_DIR", ConfigDirEnv)

	v.SetDefault("max_depth", skills.DefaultMaxDepth)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "fmt")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		v.AddConfigPath(filepath.Join(dir, "superpowers"))
	}
	v.AddConfigPath("$HOME/.pi/agent/superpowers")
}

// ReadConfigFile loads the config file if one exists
func ReadConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(err, "failed to read config file")
	}
	return nil
}

// Load unmarshals v, applies the active profile and fills in defaults
func Load(v *viper.Viper) (Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return config, errors.Wrap(err, "failed to unmarshal configuration")
	}

	if config.Profile != "" && config.Profile != "default" {
		profile, exists := config.Profiles[config.Profile]
		if !exists {
			return config, errors.Errorf("profile '%s' not found", config.Profile)
		}
		if err := applyProfile(&config, profile); err != nil {
			return config, err
		}
	}

	if err := config.applyDefaults(); err != nil {
		return config, err
	}

	return config, nil
}

func applyProfile(config *Config, profile map[string]interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           config,
		WeaklyTypedInput: true,
		ZeroFields:       false,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create profile decoder")
	}

	if err := decoder.Decode(profile); err != nil {
		return errors.Wrap(err, "failed to apply profile configuration")
	}

	return nil
}

func (c *Config) applyDefaults() error {
	if c.ProjectDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return errors.Wrap(err, "failed to get current working directory")
		}
		c.ProjectDir = cwd
	}

	if c.ConfigDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		c.ConfigDir = filepath.Join(homeDir, ".pi", "agent")
	}

	if c.SuperpowersDir == "" {
		dir, err := installDir()
		if err != nil {
			return err
		}
		c.SuperpowersDir = dir
	}

	if c.MaxDepth <= 0 {
		c.MaxDepth = skills.DefaultMaxDepth
	}

	for _, dir := range []*string{&c.ProjectDir, &c.ConfigDir, &c.SuperpowersDir, &c.LogFile} {
		if *dir == "" {
			continue
		}
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve %s", *dir)
		}
		*dir = abs
	}

	return nil
}

// installDir is the checkout the binary was built into: <repo>/bin/superpowers
func installDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", errors.Wrap(err, "failed to determine executable path")
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(filepath.Dir(exe)), nil
}

// Roots returns the three skill roots derived from the configuration
func (c Config) Roots() skills.Roots {
	return skills.Roots{
		Project:     filepath.Join(c.ProjectDir, filepath.FromSlash(projectSkillsDir)),
		Personal:    filepath.Join(c.ConfigDir, "skills"),
		Superpowers: filepath.Join(c.SuperpowersDir, "skills"),
	}
}

// RepoDir is the superpowers checkout inspected by the update check
func (c Config) RepoDir() string {
	return c.SuperpowersDir
}
