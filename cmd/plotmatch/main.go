// Package main implements the plotmatch CLI: interactive and one-shot movie
// recommendations from a plot description.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/config"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/engine"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/logging"
)

var (
	// configPath is an optional YAML file layered over the environment
	configPath string
	// artifactPath overrides ARTIFACT_PATH when set
	artifactPath string
	topK         int
	version      = "dev"
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "plotmatch",
	Short: "Recommend movies from a plot description",
	Long: `plotmatch matches a free-text plot description against a catalog of
movie summaries and lists the most similar titles.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "YAML config file")
	rootCmd.PersistentFlags().StringVar(&artifactPath, "artifact", "", "model bundle path or URL (overrides ARTIFACT_PATH)")
	rootCmd.PersistentFlags().IntVarP(&topK, "top", "k", 0, "number of recommendations (overrides RANKER_TOP_K)")
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(infoCmd)
}

// loadConfig resolves file, environment and flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, err
	}
	if artifactPath != "" {
		cfg.Artifact.Path = artifactPath
	}
	if topK > 0 {
		cfg.Ranker.TopK = topK
	}
	return cfg, cfg.Validate()
}

// openEngine loads the artifact once for the lifetime of the command.
// When quiet is set and no log file is configured, log output is dropped
// so it cannot corrupt the terminal UI.
func openEngine(ctx context.Context, quiet bool) (*engine.Engine, io.Closer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	entry, closer, err := logging.New(cfg.Log, "plotmatch")
	if err != nil {
		return nil, nil, err
	}
	if quiet && cfg.Log.File == "" {
		entry.Logger.SetOutput(io.Discard)
	}

	loadCtx, cancel := context.WithTimeout(ctx, cfg.Artifact.FetchTimeout)
	defer cancel()
	eng, err := engine.Open(loadCtx, cfg, entry.WithField("component", "engine"))
	if err != nil {
		entry.WithError(err).Error("Startup failed")
		closer.Close()
		return nil, nil, fmt.Errorf("cannot serve queries: %w", err)
	}
	return eng, closer, nil
}

func logFields(eng *engine.Engine) logrus.Fields {
	return logrus.Fields{
		"artifact": eng.Artifact.Source,
		"movies":   len(eng.Catalog()),
	}
}
