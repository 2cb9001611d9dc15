package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/msomdec/tunebox/internal/config"
	"github.com/msomdec/tunebox/internal/logging"
)

// NewRootCmd creates the root command. Running it without a subcommand
// starts the server.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "tunebox",
		Short: "JSON API for songs and playlists",
		Long: `tunebox serves a JSON API for registering users, managing a shared song
catalog and building per-user playlists.

Settings are read from the environment (and a .env file when present).
Flags override the environment.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("port", "", "HTTP listen port (env: PORT)")
	flags.String("db", "", "SQLite database path (env: DATABASE_PATH)")
	flags.String("log-level", "", "Log level: debug, info, warn, error (env: LOG_LEVEL)")
	_ = v.BindPFlag(config.KeyPort, flags.Lookup("port"))
	_ = v.BindPFlag(config.KeyDatabasePath, flags.Lookup("db"))
	_ = v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	rootCmd.AddCommand(newServeCmd(v))
	rootCmd.AddCommand(newMigrateCmd(v))

	return rootCmd
}

// Execute runs the root command until it finishes or the process receives
// SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// loadConfig reads settings and installs the global logger.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, cfg.IsDevelopment(), os.Stdout)
	log.Debug().Str("env", cfg.AppEnv).Msg("configuration loaded")
	return cfg, nil
}
