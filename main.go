package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Single-page portfolio website",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCmd(), newContentCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func newContentCmd() *cobra.Command {
	content := &cobra.Command{
		Use:   "content",
		Short: "Inspect portfolio content",
	}
	content.AddCommand(&cobra.Command{
		Use:   "validate [file]",
		Short: "Check a content file (the embedded one when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			c, err := loadContent(path)
			if err != nil {
				return err
			}
			p := c.Portfolio()
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d education entries, %d projects, %d skill categories\n",
				len(p.Education), len(p.Projects), len(p.Skills))
			return nil
		},
	})
	return content
}

func serve(ctx context.Context, cfg Config) error {
	gin.SetMode(cfg.GinMode)
	logger, err := newLogger(cfg.GinMode)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	content, err := loadContent(cfg.ContentPath)
	if err != nil {
		return err
	}
	store, err := openStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := newServer(cfg, content, store, logger)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", httpServer.Addr), zap.String("contact_mode", cfg.ContactMode))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		sweepVisitors(ctx, store, cfg.VisitorRetention, 24*time.Hour, logger)
		return nil
	})
	return g.Wait()
}

// sweepVisitors deletes visitor rows older than retention, once at start and
// then every interval until ctx is done.
func sweepVisitors(ctx context.Context, store *Store, retention, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		n, err := store.CleanupVisitors(ctx, time.Now().Add(-retention))
		switch {
		case err != nil && ctx.Err() == nil:
			logger.Warn("visitor cleanup failed", zap.Error(err))
		case n > 0:
			logger.Info("privacy cleanup", zap.Int64("removed", n))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
