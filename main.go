package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"juicebox/internal/config"
	"juicebox/internal/database"
	"juicebox/internal/logging"
	"juicebox/pkg/rabbitmq"
)

var (
	// Global flags
	configFile string
	debugSQL   bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "juicebox",
	Short: "juicebox - posts, authors and tags over HTTP",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(viper.New(), configFile)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.LogLevel, cfg.IsProduction())
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the schema and start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		logger.Info("schema migrated")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo users, posts and tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		return seedDatabase(cmd.Context(), db, cfg, logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file (yaml, json or toml)")
	rootCmd.PersistentFlags().BoolVar(&debugSQL, "debug-sql", false, "log every SQL statement")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDatabase connects with the loaded configuration and applies migrations.
func openDatabase() (*gorm.DB, error) {
	db, err := database.Open(cfg.Database, debugSQL, logger)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return nil, err
	}
	return db, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer database.Close(db)

	// --- Initialize RabbitMQ Client ---
	// An empty URL runs the service without post events.
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer mqClient.Close()

		if err := mqClient.ConsumePostEvents(logPostEvent(logger)); err != nil {
			logger.Warn("failed to start post event consumer", zap.Error(err))
		}
	}

	app := newApp(cfg, db, mqClient, logger)

	// Graceful shutdown handling
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port))
		errCh <- app.Listen(cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Error("error during Fiber shutdown", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
	return nil
}

// logPostEvent is the consumer attached to the post events queue.
func logPostEvent(logger *zap.Logger) func(rabbitmq.PostEvent) error {
	return func(event rabbitmq.PostEvent) error {
		logger.Info("post event received",
			zap.String("type", event.Type),
			zap.Uint("post_id", event.PostID),
			zap.Uint("author_id", event.AuthorID),
			zap.Strings("tags", event.Tags),
		)
		return nil
	}
}
