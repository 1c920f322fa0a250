package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/mizunime/mizunime/internal/catalog"
	"github.com/mizunime/mizunime/internal/config"
	"github.com/mizunime/mizunime/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web frontend",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Web.Addr = addr
		}
		openBrowser, _ := cmd.Flags().GetBool("open")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var opts []catalog.Option
		var metrics *web.Metrics
		if cfg.Web.Metrics {
			metrics = web.NewMetrics()
			opts = append(opts, catalog.WithObserver(metrics.ObserveUpstream))
		}
		client := catalog.NewClient(cfg, logger, opts...)

		srv, err := web.NewServer(client, cfg, web.WithLogger(logger), web.WithMetrics(metrics))
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		watchLogLevel()

		ready := func(addr string) {
			fmt.Printf("mizunime listening on %s (%s)\n", addr, cfg.Web.PublicURL)
			if openBrowser {
				if err := browser.OpenURL(cfg.Web.PublicURL); err != nil {
					logger.Warn("failed to open browser", "url", cfg.Web.PublicURL, "error", err)
				}
			}
		}
		if err := srv.ListenAndServe(ctx, ready); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Info("web server stopped")
		return nil
	},
}

// watchLogLevel applies logging.level edits while the server runs. Other
// settings need a restart.
func watchLogLevel() {
	if vp == nil || vp.ConfigFileUsed() == "" {
		return
	}
	vp.OnConfigChange(func(e fsnotify.Event) {
		logger.Info("config file changed", "name", e.Name)
		if logLevel != "" || debugMode {
			return
		}
		next := vp.GetString("logging.level")
		level.Set(config.ParseLogLevel(next))
		logger.Info("log level updated", "level", next)
	})
	vp.WatchConfig()
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides web.addr)")
	serveCmd.Flags().BoolP("open", "o", false, "open the site in a browser once listening")
}
