package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vbonduro/portfolio/internal/apiclient"
	"github.com/vbonduro/portfolio/internal/config"
	"github.com/vbonduro/portfolio/internal/db"
	"github.com/vbonduro/portfolio/internal/logging"
	"github.com/vbonduro/portfolio/internal/store"
)

var (
	apiBase  string
	cfg      *config.Config
	logger   *slog.Logger
	closeLog func()
)

// rootCmd is the portfolio command
var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio site and admin console",
	Long: `portfolio serves a personal portfolio page backed by a REST API, with an
admin console for editing the profile, ventures and testimonials and reading
contact messages.

Configuration is read from the environment (and an optional .env file).
See 'portfolio serve --help' for the variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if apiBase != "" {
			cfg.APIBase = apiBase
		}

		var err error
		logger, closeLog, err = logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLog != nil {
			closeLog()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiBase, "api-base", "", "API base URL (or set API_BASE env)")

	tokenCmd.AddCommand(tokenSetCmd)
	tokenCmd.AddCommand(tokenShowCmd)
	tokenCmd.AddCommand(tokenClearCmd)
	tokenCmd.AddCommand(tokenListCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(messagesCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(cfg.APIBase)
}

// openCredentials opens the local credential database, creating its
// directory when needed. The returned func closes the database.
func openCredentials() (*store.CredentialStore, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return store.NewCredentialStore(database), func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}, nil
}

// storedToken returns the saved token for the configured API base.
func storedToken(ctx context.Context) (string, error) {
	creds, closeDB, err := openCredentials()
	if err != nil {
		return "", err
	}
	defer closeDB()
	return creds.Token(ctx, cfg.APIBase)
}
