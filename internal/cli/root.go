package cli

import (
	"fmt"

	"github.com/lazypower/moodlog/internal/client"
	"github.com/lazypower/moodlog/internal/config"
	"github.com/lazypower/moodlog/internal/journal"
	"github.com/lazypower/moodlog/internal/logging"
	"github.com/lazypower/moodlog/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	configPath   string
	storeFile    string
	storeBackend string
	serverURL    string
	verbose      bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "moodlog",
	Short: "Daily mood journal",
	Long: `moodlog records one mood score (1-5) and a one-line journal per entry,
and shows the average mood over the last seven days.

Entries live in a plain CSV file (~/.moodlog/mood_data.csv by default).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			var err error
			if path, err = config.DefaultPath(); err != nil {
				return err
			}
		}

		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if storeFile != "" {
			cfg.Store.Path = storeFile
		}
		if storeBackend != "" {
			cfg.Store.Backend = storeBackend
		}

		logger, err = logging.New(cfg.Log.Format, verbose || cfg.Log.Debug)
		if err != nil {
			return err
		}
		// One-shot commands stay quiet unless something goes wrong.
		if cmd.Name() != "serve" && !verbose {
			logger = logger.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.moodlog/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&storeFile, "file", "f", "", "Journal file (default ~/.moodlog/mood_data.csv)")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "backend", "", "Store backend: csv or sqlite")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Talk to a running moodlog server instead of the file (add, log, week)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(tuiCmd)
}

// openStore opens the configured backend for CLI commands.
func openStore() (store.Store, error) {
	st, err := store.Open(store.Options{
		Backend: cfg.Store.Backend,
		Path:    cfg.Store.Path,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// remote returns a client when --server or MOODLOG_URL is set.
func remote() *client.Client {
	url := serverURL
	if url == "" {
		url = cfg.Client.ServerURL
	}
	if url == "" {
		return nil
	}
	return client.New(url)
}

// newJournal wraps st with the configured timezone and logger.
func newJournal(st store.Store) (*journal.Journal, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return journal.New(st, journal.WithLocation(loc), journal.WithLogger(logger)), nil
}
