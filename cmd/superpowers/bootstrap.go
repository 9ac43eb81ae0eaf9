package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/superpowers-pi/superpowers/pkg/bootstrap"
	"github.com/superpowers-pi/superpowers/pkg/presenter"
	"github.com/superpowers-pi/superpowers/pkg/skills"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Print the session bootstrap instructions",
	Long: `Print the instructions injected into a new session, built from the
using-superpowers skill. Use --compact for the shorter form injected before
context compaction.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg := configFrom(cmd.Context())
		compact, _ := cmd.Flags().GetBool("compact")

		composer := bootstrap.NewComposer(skills.NewLocator(cfg.Roots()))
		text, err := composer.Compose(compact)
		if err != nil {
			presenter.Error(err, "Failed to compose bootstrap")
			os.Exit(1)
		}
		if text == "" {
			presenter.Info(fmt.Sprintf("The %s skill is not installed, nothing to inject", bootstrap.OrientationSkill))
			return
		}

		fmt.Println(text)
	},
}

func init() {
	bootstrapCmd.Flags().Bool("compact", false, "Print the compact form used before context compaction")
}
