package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/good-yellow-bee/collabhub/internal/api"
	"github.com/good-yellow-bee/collabhub/internal/api/health"
	"github.com/good-yellow-bee/collabhub/internal/logging"
	"github.com/good-yellow-bee/collabhub/internal/metrics"
	"github.com/good-yellow-bee/collabhub/internal/notifier"
	"github.com/good-yellow-bee/collabhub/internal/seed"
	"github.com/good-yellow-bee/collabhub/internal/shell"
	"github.com/good-yellow-bee/collabhub/internal/storage"
	"github.com/good-yellow-bee/collabhub/internal/store"
	"github.com/good-yellow-bee/collabhub/pkg/config"
)

var (
	configFile string
	httpAddr   string
	seedPath   string
	dbPath     string
	envFile    string
	verbose    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "collabhub-server",
	Short: "CollabHub Server - Team collaboration workspace API",
	Long: `CollabHub Server serves one shared collaboration workspace over an
HTTP JSON API: projects, the task board, files, the timeline, team chat,
notifications and the user profile.

The workspace starts from the built-in seed (or --seed) and lives in memory.
Pass --db to keep it in an SQLite snapshot across restarts.`,
	SilenceUsage: true,
	RunE:         runServer,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput {
			data, _ := json.MarshalIndent(config.GetBuildInfo(), "", "  ")
			fmt.Println(string(data))
			return
		}
		fmt.Println(config.VersionString("collabhub-server"))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (optional)")
	rootCmd.PersistentFlags().StringVarP(&httpAddr, "address", "a", "", "HTTP listen address (overrides config)")
	rootCmd.PersistentFlags().StringVar(&seedPath, "seed", "", "seed fixture YAML (default: built-in workspace)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite snapshot path (default: in-memory only)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded when present")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "print build info as JSON")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig layers the config file, the environment and the flags.
func resolveConfig(cmd *cobra.Command) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg *Config
	if configFile != "" {
		var err error
		cfg, err = LoadConfig(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = DefaultConfig()
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("address") {
		cfg.Server.HTTPAddress = httpAddr
	}
	if flags.Changed("seed") {
		cfg.Workspace.SeedPath = seedPath
	}
	if flags.Changed("db") {
		cfg.Storage.Path = dbPath
	}
	cfg.Verbose = verbose
	if cfg.Verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	if err := logging.Setup(cfg.Logging.Level, logging.Format(cfg.Logging.Format)); err != nil {
		return err
	}
	log := logging.Component("server")
	metrics.SetBuildInfo(config.Version, config.Commit, config.BuildTime)

	if cfg.Server.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:     cfg.Server.SentryDSN,
			Release: "collabhub-server@" + config.Version,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
		log.Info("sentry panic reporting enabled")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	initial, err := loadSeed(cfg.Workspace.SeedPath)
	if err != nil {
		return err
	}

	var db *storage.SQLiteStorage
	if cfg.Storage.Path != "" {
		db = storage.NewSQLiteStorage(cfg.Storage.Path)
		if err := db.Open(); err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		var restored bool
		initial, restored, err = restoreSeed(ctx, db, initial)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"path":     cfg.Storage.Path,
			"restored": restored,
		}).Info("snapshot storage ready")
	}

	st := store.New(initial)

	dispatcher, err := buildDispatcher(cfg.Notifications, st)
	if err != nil {
		return fmt.Errorf("configure notifications: %w", err)
	}
	defer dispatcher.Close()

	var opts []shell.Option
	var relay *notifier.Relay
	if names := dispatcher.Names(); len(names) > 0 {
		relay = notifier.NewRelay(dispatcher, cfg.Notifications.QueueSize)
		opts = append(opts, shell.WithRelay(relay))
		log.WithField("channels", names).Info("notification relay enabled")
	}

	sh := shell.New(st, cfg.Workspace.coordinatorConfig(), opts...)
	defer sh.Close()

	// The writer closes before the shell, flushing the last committed change.
	if db != nil {
		writer := storage.NewSnapshotWriter(st, db, &storage.SnapshotWriterConfig{
			FlushInterval: duration(cfg.Storage.FlushInterval),
		})
		defer func() {
			if err := writer.Close(); err != nil {
				log.WithError(err).Error("final snapshot failed")
			}
		}()
	}

	apiServer, err := api.New(&api.Config{
		Address:         cfg.Server.HTTPAddress,
		TLSEnabled:      cfg.Server.TLS.Enabled,
		TLSCertFile:     cfg.Server.TLS.CertFile,
		TLSKeyFile:      cfg.Server.TLS.KeyFile,
		RateLimitPerIP:  cfg.Server.RateLimitPerIP,
		RateLimitBurst:  cfg.Server.RateLimitBurst,
		MaxUploadBytes:  cfg.Server.MaxUploadBytes,
		ShutdownTimeout: duration(cfg.Server.ShutdownTimeout),
		Verbose:         cfg.Verbose,
	}, sh)
	if err != nil {
		return fmt.Errorf("create API server: %w", err)
	}
	if db != nil {
		apiServer.RegisterHealthChecker(health.NewSQLiteChecker(db.DB()))
	}

	if cfg.Workspace.Watch {
		watcher, err := seed.NewWatcher(cfg.Workspace.SeedPath, func(next store.Seed) {
			log.Info("seed file changed, resetting workspace")
			sh.Reset(next)
		})
		if err != nil {
			return fmt.Errorf("create seed watcher: %w", err)
		}
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("start seed watcher: %w", err)
		}
		defer watcher.Stop()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return apiServer.Run(gctx)
	})

	if cfg.Server.metricsEnabled() {
		metricsServer := metrics.NewServer(cfg.Server.MetricsAddress)
		g.Go(metricsServer.Start)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return metricsServer.Shutdown(shutdownCtx)
		})
	}

	if relay != nil {
		g.Go(func() error {
			return relay.Run(gctx)
		})
	}

	log.WithFields(logrus.Fields{
		"version": config.Version,
		"addr":    cfg.Server.HTTPAddress,
		"seed":    seedLabel(cfg.Workspace.SeedPath),
	}).Info("starting collabhub-server")

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func seedLabel(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}
