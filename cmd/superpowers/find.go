package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/superpowers-pi/superpowers/pkg/presenter"
	"github.com/superpowers-pi/superpowers/pkg/skills"
	"gopkg.in/yaml.v3"
)

// FindConfig holds configuration for the find command
type FindConfig struct {
	Format string
	Match  string
}

// NewFindConfig creates a FindConfig with default values
func NewFindConfig() *FindConfig {
	return &FindConfig{
		Format: "text",
	}
}

// Validate checks the output format and the match pattern
func (c *FindConfig) Validate() error {
	switch c.Format {
	case "text", "json", "yaml":
	default:
		return errors.Errorf("invalid format %q, must be one of: text, json, yaml", c.Format)
	}
	if c.Match != "" && !doublestar.ValidatePattern(c.Match) {
		return errors.Errorf("invalid match pattern %q", c.Match)
	}
	return nil
}

var findCmd = &cobra.Command{
	Use:     "find",
	Aliases: []string{"list"},
	Short:   "List available skills",
	Long: `List every skill in the project, personal and superpowers libraries.

Entries are printed in priority order with the namespace that selects them,
e.g. "project:deploy", "my-skill" or "superpowers:brainstorming".`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		cfg := configFrom(ctx)
		findConfig := getFindConfigFromFlags(cmd)

		if err := findConfig.Validate(); err != nil {
			presenter.Error(err, "Invalid find options")
			os.Exit(1)
		}

		roots := cfg.Roots()
		listings := filterListings(skills.ScanRoots(ctx, roots, cfg.MaxDepth), findConfig.Match)

		out, err := renderListings(listings, roots, findConfig.Format)
		if err != nil {
			presenter.Error(err, "Failed to render skills")
			os.Exit(1)
		}
		fmt.Print(out)
	},
}

func init() {
	defaults := NewFindConfig()
	findCmd.Flags().StringP("format", "o", defaults.Format, "Output format (text, json, yaml)")
	findCmd.Flags().StringP("match", "m", defaults.Match, "Only list skills whose namespaced name matches this glob (e.g. 'superpowers:*debug*')")
}

func getFindConfigFromFlags(cmd *cobra.Command) *FindConfig {
	config := NewFindConfig()

	if format, err := cmd.Flags().GetString("format"); err == nil {
		config.Format = strings.ToLower(format)
	}
	if match, err := cmd.Flags().GetString("match"); err == nil {
		config.Match = match
	}

	return config
}

// filterListings keeps the listings whose qualified name matches pattern
func filterListings(listings []skills.Listing, pattern string) []skills.Listing {
	if pattern == "" {
		return listings
	}

	filtered := make([]skills.Listing, 0, len(listings))
	for _, l := range listings {
		if matched, _ := doublestar.Match(pattern, l.QualifiedName()); matched {
			filtered = append(filtered, l)
		}
	}
	return filtered
}

func renderListings(listings []skills.Listing, roots skills.Roots, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(listings, "", "  ")
		if err != nil {
			return "", errors.Wrap(err, "failed to marshal skills as JSON")
		}
		return string(data) + "\n", nil
	case "yaml":
		data, err := yaml.Marshal(listings)
		if err != nil {
			return "", errors.Wrap(err, "failed to marshal skills as YAML")
		}
		return string(data), nil
	default:
		if len(listings) == 0 {
			return skills.EmptyCatalogMessage(roots) + "\n", nil
		}
		return skills.FormatCatalog(listings), nil
	}
}
