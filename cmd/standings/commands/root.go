package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"standings/internal/components/telemetry"
	"standings/internal/fetcher"
	"standings/internal/standings"

	"github.com/spf13/cobra"
)

var (
	options    = standings.DefaultOptions()
	transport  fetcher.HttpOptions
	configPath string
	dumpDir    string
	shutdown   = func(context.Context) error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "standings",
	Short: "standings prints tournament standings for the world, districts and regions.",
	Long: `standings prints tournament standings for the world, districts and regions.

Scopes are selected with --global, --region and --district or with the
matching subcommands. Fetched pages are cached for a day.

Flag defaults can be set in the "defaults" object of a standings.json5 file
found in the working directory or any of its parents. STANDINGS_CACHE_DIR,
STANDINGS_BASE_URL, STANDINGS_CONCURRENCY, STANDINGS_REQUESTS_PER_SECOND,
STANDINGS_VERBOSE and STANDINGS_OTLP_TRACES_ENDPOINT override the file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		err = overlayEnv(&cfg)
		if err != nil {
			return err
		}
		err = applyDefaults(cmd, cfg.Defaults)
		if err != nil {
			return err
		}

		telemetry.InitSlog(options.Verbose)
		shutdown, err = telemetry.Setup(cmd.Context(), "standings", cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return execute(cmd)
	},
}

func init() {
	bindFlags(rootCmd, &options, &transport)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Read flag defaults from this file instead of searching for standings.json5.")
	rootCmd.PersistentFlags().StringVar(&dumpDir, "dump-dir", "", "Write every HTTP exchange to a file in this directory.")
}

func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if serr := shutdown(context.Background()); serr != nil {
		slog.Warn("failed to flush traces", "err", serr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
