package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// infoCmd summarizes the loaded model bundle
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show what the model bundle contains",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	eng, closer, err := openEngine(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer closer.Close()

	a := eng.Artifact
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Artifact:           %s\n", a.Source)
	fmt.Fprintf(out, "Movies:             %d\n", len(a.Catalog))
	fmt.Fprintf(out, "Vocabulary terms:   %d\n", a.Vectorizer.Dim())
	fmt.Fprintf(out, "Matrix non-zeros:   %d\n", len(a.Matrix.Data))
	fmt.Fprintf(out, "Similarity matrix:  %t\n", a.Similarity != nil)
	fmt.Fprintf(out, "Results per query:  %d\n", eng.TopK())
	return nil
}
