package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kiranshivaraju/jobtracker/internal/ai"
	"github.com/kiranshivaraju/jobtracker/internal/analysis"
	"github.com/kiranshivaraju/jobtracker/internal/config"
)

var remote bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE... | -",
	Short: "Analyse job descriptions and print the result as JSON",
	Long: `Analyse one or more job descriptions read from files, or from stdin with "-".

By default only the local heuristic extractor runs. With --remote a single
description goes through the configured provider chain; several descriptions
are always analysed locally.

Examples:
  jobctl analyze posting.txt
  pbpaste | jobctl analyze -
  jobctl analyze --remote posting.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&remote, "remote", false, "use the configured AI providers for a single description")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	texts := make([]string, 0, len(args))
	for _, arg := range args {
		text, err := readInput(cmd.InOrStdin(), arg)
		if err != nil {
			return err
		}
		texts = append(texts, text)
	}

	orch, err := buildOrchestrator(cmd)
	if err != nil {
		return err
	}

	var out any
	if len(texts) == 1 {
		out = orch.Analyze(cmd.Context(), texts[0], !remote)
	} else {
		out = orch.AnalyzeBatch(cmd.Context(), texts)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// buildOrchestrator reads the same limits as the server so local results
// match /api/analyze for the same text.
func buildOrchestrator(cmd *cobra.Command) (*ai.Orchestrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if !remote {
		return ai.NewOrchestrator(nil, nil,
			analysis.NewExtractor(cfg.AI.SummaryMaxChars),
			ai.Settings{
				MaxInputChars:    cfg.AI.MaxInputChars,
				BatchConcurrency: cfg.AI.BatchConcurrency,
			},
			ai.WithLogger(slog.Default()),
		), nil
	}

	orch, err := ai.NewFromConfig(cmd.Context(), cfg.AI, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("create analysis chain: %w", err)
	}
	if !orch.HasRemote() {
		slog.Warn("no AI provider credentials configured; using local analysis")
	}
	return orch, nil
}

func readInput(stdin io.Reader, arg string) (string, error) {
	if arg == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", arg, err)
	}
	return string(b), nil
}
