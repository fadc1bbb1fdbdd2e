package main

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/portfolio/internal/admin"
	"github.com/vbonduro/portfolio/internal/site"
	"github.com/vbonduro/portfolio/internal/web"
	"github.com/vbonduro/portfolio/internal/web/templates"
)

var (
	listenAddr    string
	secureCookies bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the portfolio site and admin console",
	Long: `Serve the public portfolio page and the admin console.

Environment:
  LISTEN_ADDR   address to listen on (default :8080)
  API_BASE      REST API base URL (default http://127.0.0.1:8000/api)
  CONTENT_FILE  YAML site content; reloaded on change (default: embedded)
  RATE_LIMIT    requests per minute per client IP (default 500)
  SESSION_TTL   idle lifetime of an admin console session (default 12h)
  LOG_LEVEL, LOG_FORMAT, LOG_FILE`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (or set LISTEN_ADDR env)")
	serveCmd.Flags().BoolVar(&secureCookies, "secure-cookies", false, "Mark cookies Secure (serve behind HTTPS)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}

	content, err := site.NewContentSource(cfg.ContentFile, logger)
	if err != nil {
		logger.Error("failed to load site content", "error", err)
		return err
	}

	client := newClient()
	server := web.NewServer(
		site.NewLoader(client, content, logger),
		client,
		admin.NewSessions(client, cfg.SessionTTL),
		templates.FS,
		logger,
		web.Options{RateLimit: cfg.RateLimit, SecureCookies: secureCookies},
	)
	logger.Info("using api", "base", client.Base())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Without a watcher the site still serves the content loaded at startup.
		if err := content.Watch(ctx); err != nil {
			logger.Warn("site content hot reload disabled", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		err := server.ListenAndServe(ctx, cfg.ListenAddr)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	return nil
}
