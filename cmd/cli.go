package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	freighthttp "freight/internal/adapters/in/http"
	"freight/internal/adapters/out/postgres"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/authz"
	"freight/internal/pkg/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "freight",
	Short:         "Freight load dispatch service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the scheduled jobs",
	RunE:  serve,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  migrate,
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume queued load events into the load history",
	RunE:  runWorker,
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token for a tenant",
	RunE:  issueToken,
}

var (
	serveMigrate bool
	tokenTenant  string
	tokenRole    string
	tokenTTL     time.Duration
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml, json or toml)")

	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "migrate the schema before serving")

	tokenCmd.Flags().StringVar(&tokenTenant, "tenant", "", "tenant id (generated when empty)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", authz.RoleDispatcher, "viewer, dispatcher or admin")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (defaults to jwt.ttl)")

	rootCmd.AddCommand(serveCmd, migrateCmd, workerCmd, tokenCmd)
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// setup loads the configuration and installs the global logger.
func setup() (Config, *zap.Logger, error) {
	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		return Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logger.Init(cfg.Log.Mode, cfg.Log.Options), nil
}

func serve(*cobra.Command, []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	if cfg.JWT.Secret == "" {
		return errors.New("jwt.secret is required to serve the API")
	}

	root, err := NewCompositionRoot(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := root.Close(); closeErr != nil {
			log.Warn("composition root close", zap.Error(closeErr))
		}
	}()

	if serveMigrate {
		if err = postgres.Migrate(root.DB()); err != nil {
			return err
		}
	}

	e, err := root.Router()
	if err != nil {
		return err
	}
	manager := root.Jobs()
	if err = manager.StartAll(); err != nil {
		return err
	}
	defer manager.StopAll()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.Server.Addr()))
		serveErr <- e.Start(cfg.Server.Addr())
	}()

	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	log.Info("shutting down http server")
	return e.Shutdown(shutdownCtx)
}

func migrate(*cobra.Command, []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := postgres.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = postgres.Close(db) }()

	if err = postgres.Migrate(db); err != nil {
		return err
	}
	log.Info("schema migrated", zap.String("driver", cfg.Database.Driver))
	return nil
}

func runWorker(*cobra.Command, []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	root, err := NewCompositionRoot(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = root.Close() }()

	service, err := root.Worker()
	if err != nil {
		return err
	}
	return service.Run(ctx)
}

func issueToken(cmd *cobra.Command, _ []string) error {
	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.JWT.Secret == "" {
		return errors.New("jwt.secret is required to sign tokens")
	}

	tenantID := kernel.NewUUID()
	if tokenTenant != "" {
		if tenantID, err = kernel.UUIDFromString(tokenTenant); err != nil {
			return err
		}
	}
	ttl := tokenTTL
	if ttl <= 0 {
		ttl = cfg.JWT.TTL
	}

	token, err := freighthttp.IssueToken(cfg.JWT.Secret, tenantID, tokenRole, ttl, time.Now())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "tenant: %s\nrole:   %s\ntoken:  %s\n", tenantID, tokenRole, token)
	return err
}
