// Package main implements the ankigen command, which turns a list of Chinese
// words into Anki flashcards by asking a language model for each card.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "ankigen",
		Short: "Generate Chinese Anki flashcards from a word list",
		Long: `Ankigen reads whitespace separated words from the input file, asks a
language model for one flashcard per word and appends the cards as a
semicolon delimited CSV file ready for Anki import. Every raw model response
is kept in a log next to the CSV.

Settings come from ./ankigen.yaml (or --config) and ANKIGEN_* environment
variables. The API key is read from OPENAI_API_KEY or GEMINI_API_KEY.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cmd.OutOrStdout(), configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (default ./ankigen.yaml if present)")

	return cmd
}
