// Package cli implements the bhaktivani command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bhaktivani/bhaktivani/internal/config"
	"github.com/bhaktivani/bhaktivani/internal/entrypoint"
)

// rootOptions carries the persistent flags shared by every subcommand.
type rootOptions struct {
	version  string
	dbPath   string
	backend  string
	boltPath string
	logLevel string

	cfg *config.Config
}

// NewRootCmd builds the command tree. Running the root command without a
// subcommand starts the HTTP server.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{version: version}

	rootCmd := &cobra.Command{
		Use:   "bhaktivani",
		Short: "Offline stotra library server",
		Long: `BhaktiVani serves a library of devotional stotras in Kannada, Telugu and
Sanskrit. Languages can be downloaded for offline reading; favorites and
reading progress are kept in the local cache.

Configuration is read from the environment (see PORT, DATABASE_PATH,
STORAGE_BACKEND, CATALOG_URL and friends). Flags override the environment.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: opts.load,
		RunE:              opts.runServe,
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf("bhaktivani %s\n", version))

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.dbPath, "db", "", "path to the SQLite database (overrides DATABASE_PATH)")
	flags.StringVar(&opts.backend, "storage", "", "content storage backend: sql, kv-sqlite, bolt or memory")
	flags.StringVar(&opts.boltPath, "bolt-path", "", "path to the bolt file when --storage=bolt")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newLanguagesCmd(opts),
		newDownloadCmd(opts),
		newClearCmd(opts),
		newRefreshCmd(opts),
		newStatsCmd(opts),
		newSearchCmd(opts),
		newSeedCmd(opts),
		newResetCmd(opts),
		newCatalogCmd(),
	)
	return rootCmd
}

// Execute runs the command line with the process arguments.
func Execute(version string) error {
	return NewRootCmd(version).Execute()
}

func (o *rootOptions) load(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.backend != "" {
		cfg.Storage.Backend = config.StorageBackend(o.backend)
	}
	if o.boltPath != "" {
		cfg.Storage.BoltPath = o.boltPath
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.SetupLogging(cfg.Log); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

// withApp opens storage for the duration of fn.
func (o *rootOptions) withApp(cmd *cobra.Command, fn func(ctx context.Context, app *entrypoint.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := entrypoint.NewApp(ctx, o.cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(ctx, app)
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE:  opts.runServe,
	}
}

func (o *rootOptions) runServe(cmd *cobra.Command, args []string) error {
	return entrypoint.Run(o.cfg, o.version)
}
