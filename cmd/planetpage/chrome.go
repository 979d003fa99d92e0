package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/planetpage/internal/chrome"
	"github.com/nao1215/planetpage/internal/fetch"
)

// NewChromeCmd creates the chrome command.
func NewChromeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chrome",
		Short: "Print the stylesheets or the navigation header of the site",
		Long: `Chrome fetches the landing page (or chromeURL from the configuration),
removes the session-only elements and prints one part of the site chrome,
so that other pages of the site can include it.

Examples:
  # Stylesheet and <style> blocks of <head>
  planetpage chrome --stylesheets

  # Navigation header
  planetpage chrome --header`,
		Args: cobra.NoArgs,
		RunE: runChromeCmd,
	}

	cmd.Flags().Bool("stylesheets", false, "Print the stylesheet blocks of <head>")
	cmd.Flags().Bool("header", false, "Print the navigation header")
	cmd.MarkFlagsMutuallyExclusive("stylesheets", "header")
	cmd.MarkFlagsOneRequired("stylesheets", "header")

	return cmd
}

// runChromeCmd executes the chrome command.
func runChromeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := setupLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := fetch.NewFromConfig(cfg, logger)
	c, err := chrome.New(ctx, cfg.ChromeSource(), fetcher.Fetch, cfg.SessionSelectors,
		chrome.WithHeaderSelector(cfg.HeaderSelector),
		chrome.WithStylesheetSelector(cfg.StylesheetSelector),
	)
	if err != nil {
		return err
	}

	stylesheets, err := cmd.Flags().GetBool("stylesheets")
	if err != nil {
		return err
	}

	var block string
	if stylesheets {
		block, err = c.Stylesheets()
	} else {
		block, err = c.Header()
	}
	if err != nil {
		return err
	}

	if block == "" {
		logger.Warn("nothing matched in the site chrome", "url", cfg.ChromeSource())
		return nil
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), block)
	return err
}
