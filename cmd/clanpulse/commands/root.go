package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"clanpulse/internal/config"
	"clanpulse/internal/logging"
	"clanpulse/internal/mcp"
	"clanpulse/internal/snapshot"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose      bool
	snapshotFlag string
	cfg          *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "clanpulse",
	Short: "ClanPulse is a clan activity analytics MCP Server",
	Long: `An MCP Server that ranks clan members, scores engagement, flags purge candidates
and aggregates activity trends from an exported clan roster snapshot.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		if snapshotFlag != "" {
			cfg.SnapshotFile = snapshotFlag
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("ClanPulse starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store := snapshot.NewStore(cfg.DefaultPeriod)
		if err := store.Load(cfg.SnapshotPath()); err != nil {
			// The client can still point the server at a file with reload_snapshot.
			log.Warn().Err(err).Str("path", cfg.SnapshotPath()).Msg("Starting without a snapshot")
		}

		return mcp.NewServer(store, cfg).Serve(ctx)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&snapshotFlag, "snapshot", "s", "", "snapshot file (overrides SNAPSHOT_FILE)")
}
