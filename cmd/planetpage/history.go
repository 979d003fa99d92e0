package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/planetpage/internal/database"
	"github.com/nao1215/planetpage/internal/model"
	"github.com/nao1215/planetpage/internal/report"
)

// defaultHistoryLimit is the number of builds shown by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the recorded builds",
		Long: `History lists the builds recorded in the history database, newest first,
with their outcome, item count and destination.

Examples:
  # Last 20 builds
  planetpage history

  # Last 5 builds as JSON, for monitoring
  planetpage history --json -n 5

  # Markdown report with details
  planetpage history --markdown`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown (mutually exclusive with --json)")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit, "Number of builds to show (0 shows all)")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	builds, err := loadHistory(cmd, cfg.DBDir, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var w report.Writer
	switch {
	case jsonOut:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case markdownOut:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}

	if _, err := w.Write(builds); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// loadHistory reads the builds without creating the database.
// A missing database is an empty history.
func loadHistory(cmd *cobra.Command, dbDir string, limit int) ([]model.BuildRecord, error) {
	db, err := database.Open(dbDir, database.Options{})
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return db.ListBuilds(cmd.Context(), limit)
}
