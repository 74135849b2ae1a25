package main

import (
	"github.com/spf13/cobra"

	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/tui"
)

// tuiCmd opens the interactive recommender
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive plot search in the terminal",
	Long: `Open a full-screen prompt. Type a plot description and press enter to
see the closest matches. Set LOG_FILE to keep logs while the UI runs.

Examples:
  plotmatch tui
  plotmatch tui --artifact ./data/movie_recommender.json.gz`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	eng, closer, err := openEngine(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer closer.Close()

	eng.Logger.WithFields(logFields(eng)).Info("Interactive session started")
	return tui.Run(eng)
}
