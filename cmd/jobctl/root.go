package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "jobctl",
	Short: "Job application tracker toolkit",
	Long:  "jobctl analyses job descriptions and inspects the tracked job applications.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(setupLogger(cmd.ErrOrStderr(), debug))
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func setupLogger(w io.Writer, dbg bool) *slog.Logger {
	logLevel := slog.LevelWarn
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}
