package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/superpowers-pi/superpowers/pkg/presenter"
	"github.com/superpowers-pi/superpowers/pkg/skills"
)

var useCmd = &cobra.Command{
	Use:   "use <skill>",
	Short: "Print a skill with its header block replaced by a summary",
	Long: `Resolve a skill and print it the way the use_skill tool hands it to the agent.

Identifiers may be prefixed with "project:" or "superpowers:" to search a single
library. Unprefixed names are looked up in the project, personal and superpowers
libraries in that order.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := configFrom(cmd.Context())
		loader := skills.NewLoader(skills.NewLocator(cfg.Roots()))

		skill, err := loader.Load(args[0])
		if errors.Is(err, skills.ErrSkillNotFound) {
			fmt.Fprintln(os.Stderr, skills.NotFoundMessage(args[0]))
			os.Exit(1)
		}
		if err != nil {
			presenter.Error(err, "Failed to load skill")
			os.Exit(1)
		}

		fmt.Print(skill.Render())
	},
}
