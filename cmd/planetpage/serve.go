package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/nao1215/planetpage/internal/config"
	"github.com/nao1215/planetpage/internal/pipeline"
)

// shutdownTimeout bounds the graceful shutdown of the preview server.
const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated page on a local HTTP server",
		Long: `Serve starts an HTTP server that builds the page on every request to /,
so changes to the feed, the landing page or the configuration can be checked
in a browser before publishing. Builds made by the server are not recorded
in the history.

Endpoints:
  GET /         the generated page (502 when the build fails)
  GET /healthz  liveness check

Examples:
  planetpage serve
  planetpage serve --addr :9000`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().String("addr", config.DefaultServeAddress, "Listen address")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		if cfg.ServeAddress, err = cmd.Flags().GetString("addr"); err != nil {
			return err
		}
	}

	logger, closeLog, err := setupLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := newPreviewEngine(cfg, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ServeAddress,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Serving the planet page on http://%s/\n", cfg.ServeAddress)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("preview server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop preview server: %w", err)
	}
	return nil
}

// newPreviewEngine builds the gin engine of the preview server.
func newPreviewEngine(cfg *config.Config, logger *slog.Logger) (*gin.Engine, error) {
	p, err := newPipeline(cfg, logger)
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(requestLogger(logger), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/", func(c *gin.Context) {
		build := pipeline.NewBuild(cfg.FeedURL, cfg.LandingURL)
		if err := p.Execute(c.Request.Context(), build); err != nil {
			c.String(http.StatusBadGateway, "planet build failed: %v", err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", build.HTML)
	})

	return r, nil
}

// requestLogger logs every request through slog.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		logger.Log(c.Request.Context(), level, "request served",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
