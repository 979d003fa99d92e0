package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/planetpage/internal/config"
	"github.com/nao1215/planetpage/internal/database"
	"github.com/nao1215/planetpage/internal/fetch"
	"github.com/nao1215/planetpage/internal/icon"
	pplog "github.com/nao1215/planetpage/internal/log"
	"github.com/nao1215/planetpage/internal/output"
	"github.com/nao1215/planetpage/internal/pipeline"
)

// errUsage is printed as-is when more than one output file is given.
var errUsage = errors.New("Usage: planetpage [output_file]") //nolint:staticcheck // printed verbatim to the user

// NewRootCmd creates the root command. Run without a subcommand it builds
// the page.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "planetpage [output_file]",
		Short: "Merge a planet RSS feed into the site landing page",
		Long: `planetpage fetches the planet RSS feed and the landing page of the site,
removes the session-only elements of the landing page, replaces its content
area with the rendered feed items and adds an RSS autodiscovery link.

The resulting HTML document is written to output_file, or to stdout when no
file is given.

Examples:
  # Print the page
  planetpage

  # Write the page where the web server expects it
  planetpage /srv/www/planet/index.html

  # Use another feed and a longer timeout
  planetpage --feed-url https://example.org/planet/rss.xml --timeout 2m planet.html`,
		Version:       getVersion(),
		Args:          usageArgs,
		RunE:          runRootCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "",
		"Configuration file path (default: .planetpage in current directory, XDG config dir or home)")
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.String("log-file", "", "Also write JSON logs to this file")
	flags.String("feed-url", config.DefaultFeedURL, "URL of the planet RSS feed")
	flags.String("landing-url", config.DefaultLandingURL, "URL of the landing page")
	flags.Duration("timeout", config.DefaultTimeout, "Timeout of each HTTP request (0 disables it)")
	flags.String("icon", "", "RSS icon image (default: bundled icon)")
	flags.Bool("no-history", false, "Do not record the build in the history database")

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())
	cmd.AddCommand(NewChromeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewServeCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// usageArgs accepts zero or one positional argument.
func usageArgs(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return errUsage
	}
	return nil
}

// runRootCmd builds the page.
func runRootCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.OutputPath = args[0]
	}

	logger, closeLog, err := setupLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runBuild(ctx, cfg, logger, cmd.OutOrStdout())
}

// buildConfig loads the configuration file and the environment, applies the
// flags that were set explicitly and validates the result.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}

	stringFlags := map[string]*string{
		"feed-url":    &cfg.FeedURL,
		"landing-url": &cfg.LandingURL,
		"icon":        &cfg.IconPath,
		"log-file":    &cfg.LogFile,
	}
	for name, dst := range stringFlags {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetString(name); err != nil {
			return nil, err
		}
	}

	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	if noHistory {
		cfg.History = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// setupLogger creates the application logger and makes it the default.
func setupLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, func() error, error) {
	logger, closeLog, err := pplog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogFile)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return logger, closeLog, nil
}

// loadIcon loads the configured icon and warns when it carries EXIF
// metadata, since the icon is published with the page.
func loadIcon(cfg *config.Config, logger *slog.Logger) (*icon.Icon, error) {
	ic, err := icon.Load(cfg.IconPath)
	if err != nil {
		return nil, err
	}

	tags, err := ic.MetadataTags()
	if err != nil {
		logger.Debug("failed to inspect icon metadata", "icon", ic.Source, "error", err)
	} else if len(tags) > 0 {
		logger.Warn("icon carries EXIF metadata that will be published", "icon", ic.Source, "tags", tags)
	}
	return ic, nil
}

// newPipeline assembles the build pipeline for cfg.
func newPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, error) {
	ic, err := loadIcon(cfg, logger)
	if err != nil {
		return nil, err
	}
	fetcher := fetch.NewFromConfig(cfg, logger)
	return pipeline.DefaultPipeline(cfg, fetcher, ic.DataURI(), pipeline.WithLogger(logger)), nil
}

// runBuild runs one build, writes the document and records it in the
// history. A history failure is logged and does not fail the build.
func runBuild(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	p, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}

	build := pipeline.NewBuild(cfg.FeedURL, cfg.LandingURL)
	buildErr := p.Execute(ctx, build)
	if buildErr == nil {
		if err := output.Write(cfg.OutputPath, stdout, build.HTML); err != nil {
			buildErr = err
			build.Error = err
		}
	}

	if cfg.History {
		// The build is recorded even when ctx was cancelled
		if err := recordBuild(context.WithoutCancel(ctx), cfg, build, logger); err != nil {
			logger.Warn("failed to record build history", "error", err)
		}
	}

	if buildErr != nil {
		return buildErr
	}

	logger.Info("page written",
		"destination", build.Record(cfg.OutputPath).Destination(),
		"items", len(build.Items),
		"bytes", len(build.HTML),
		"duration", build.Duration,
	)
	return nil
}

// recordBuild saves the fetched documents and the build summary.
func recordBuild(ctx context.Context, cfg *config.Config, build *pipeline.Build, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	for _, res := range build.Resources() {
		rec, err := db.SaveFetch(ctx, res)
		if err != nil {
			return err
		}
		if !rec.Changed() {
			logger.Debug("document unchanged since last fetch", "url", res.URL)
		}
	}

	return db.SaveBuild(ctx, build.Record(cfg.OutputPath))
}
