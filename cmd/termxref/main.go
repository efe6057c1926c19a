package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"termxref/internal/config"
	"termxref/internal/pipeline"
	"termxref/internal/umls"
)

var (
	rootCmd = &cobra.Command{
		Use:   "termxref",
		Short: "Multilingual medical-concept cross-reference builder",
	}
	configPath string
	outputDir  string
	pretty     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the pipeline configuration file")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "out", "o", "", "Output directory (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Human-readable log output")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(statsCmd)
}

func newLogger() zerolog.Logger {
	if pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	return cfg, nil
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the full reconciliation pipeline and write all outputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		runner := pipeline.New(cfg, logger)
		if err := runner.Run(context.Background()); err != nil {
			logger.Error().Err(err).Msg("pipeline failed")
			return err
		}

		logger.Info().Str("dir", cfg.Output.Dir).Msg("build complete")
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the terminology inputs (rows per vocabulary, language, term type)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		stats, err := umls.CollectStatistics(cfg.Inputs.MRConso, cfg.Inputs.MRSty)
		if err != nil {
			return err
		}

		fmt.Printf("Terminology rows: %d\n", stats.TotalRows)
		fmt.Printf("Type assignments: %d\n", stats.TotalAssignments)
		printCounts("Vocabularies", stats.Vocabularies)
		printCounts("Languages", stats.Languages)
		printCounts("Term types", stats.TermTypes)
		printCounts("Semantic types", stats.TUIs)
		return nil
	},
}

func printCounts(title string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("%s:\n", title)
	for _, k := range keys {
		fmt.Printf("  %-16s %d\n", k, counts[k])
	}
}
