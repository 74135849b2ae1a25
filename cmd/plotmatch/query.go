package main

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/present"
)

var queryJSON bool

// queryCmd prints recommendations for a single description
var queryCmd = &cobra.Command{
	Use:   "query <description>",
	Short: "Print recommendations for one plot description",
	Long: `Rank the catalog against a plot description and print the top matches.

Examples:
  plotmatch query "a boy and his dog go looking for treasure"
  plotmatch query --json -k 3 "astronauts stranded in orbit"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print results as JSON")
}

func runQuery(cmd *cobra.Command, args []string) error {
	eng, closer, err := openEngine(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closer.Close()

	resp, err := eng.Recommend(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	blocks := present.Format(eng.Catalog(), resp.Matches())

	out := cmd.OutOrStdout()
	if queryJSON {
		data, err := json.MarshalIndent(blocks, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	return present.Render(out, blocks)
}
