package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/darakelian/osrsprice/internal/config"
	"github.com/darakelian/osrsprice/internal/engine"
	"github.com/darakelian/osrsprice/internal/engine/cache"
	"github.com/darakelian/osrsprice/internal/logging"
	"github.com/darakelian/osrsprice/internal/wiki"
	"github.com/darakelian/osrsprice/pkg/version"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger = zerolog.Nop() //nolint:gochecknoglobals // Required for zerolog context integration

// LookupParams holds the flags and argument of a price lookup.
// Exported for testing.
type LookupParams struct {
	Item            string
	ConfigPath      string
	CacheDir        string
	PriceTTLSecs    int64
	RefreshPrices   bool
	RefreshMappings bool
	Output          string
	Debug           bool
}

// NewRootCmd creates the root Cobra command for the osrsprice CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for testability.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	var params LookupParams

	cmd := &cobra.Command{
		Use:           "osrsprice [flags] <item>",
		Short:         "Look up current Grand Exchange prices",
		Long:          "osrsprice: report the latest high/low prices for every item whose name contains <item>",
		Version:       ver,
		Example:       rootCmdExample,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Item = args[0]
			return runLookup(cmd, params, lookupEnv)
		},
	}

	cmd.Flags().StringVarP(&params.CacheDir, "cache-dir", "c", "",
		"cache directory (default: user cache dir, overrides config file and env var)")
	cmd.Flags().Int64VarP(&params.PriceTTLSecs, "price-cache-ttl-secs", "t", cache.DefaultPriceTTLSeconds,
		"maximum age in seconds of cached prices before they are refetched")
	cmd.Flags().BoolVarP(&params.RefreshPrices, "refresh-prices", "p", false,
		"refetch prices even if the cache is fresh")
	cmd.Flags().BoolVarP(&params.RefreshMappings, "refresh-mappings", "m", false,
		"refetch item mappings even if cached")
	cmd.Flags().StringVarP(&params.Output, "output", "o", config.OutputTable,
		"output format: table or json")
	cmd.Flags().StringVar(&params.ConfigPath, "config", "",
		"config file (default: $OSRSPRICE_CONFIG or <user config dir>/osrsprice/config.yaml)")
	cmd.Flags().BoolVar(&params.Debug, "debug", false, "enable debug logging")

	return cmd
}

const rootCmdExample = `  # Prices for every item containing "twisted"
  osrsprice twisted

  # Always fetch fresh prices
  osrsprice --refresh-prices "zulrah's scales"

  # Keep cached prices for 10 minutes and print JSON
  osrsprice -t 600 -o json "dragon bones"

  # Use a project-local cache directory
  osrsprice --cache-dir ./cache "abyssal whip"`

// resolveConfig loads the configuration and applies explicitly set flags over it.
// Flags win over env vars, which win over the config file.
func resolveConfig(cmd *cobra.Command, params LookupParams, lookupEnv func(string) (string, bool)) (*config.Config, error) {
	cfg, err := config.Load(params.ConfigPath, lookupEnv)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("cache-dir") {
		cfg.Cache.Dir = params.CacheDir
	}
	if flags.Changed("price-cache-ttl-secs") {
		if params.PriceTTLSecs < 0 {
			return nil, fmt.Errorf("price-cache-ttl-secs must be >= 0, got %d", params.PriceTTLSecs)
		}
		cfg.Cache.PriceTTLSeconds = params.PriceTTLSecs
	}
	if flags.Changed("output") {
		cfg.Output.Format = params.Output
	}

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runLookup wires the cache, transport and engine together and prints the matches.
func runLookup(cmd *cobra.Command, params LookupParams, lookupEnv func(string) (string, bool)) error {
	cfg, err := resolveConfig(cmd, params, lookupEnv)
	if err != nil {
		return err
	}

	logResult := setupLogging(cmd, cfg, params.Debug)
	defer func() { _ = logResult.Close() }()
	ctx := cmd.Context()

	priceTTL, err := cfg.PriceTTL()
	if err != nil {
		return err
	}

	logger.Debug().Ctx(ctx).
		Str("item", params.Item).
		Str("cache_dir", cfg.Cache.Dir).
		Str("price_ttl", cache.NewTTLPolicy(priceTTL).String()).
		Bool("refresh_prices", params.RefreshPrices).
		Bool("refresh_mappings", params.RefreshMappings).
		Str("output", cfg.Output.Format).
		Msg("using config")

	store, err := cache.NewStore(cfg.Cache.Dir)
	if err != nil {
		return err
	}

	client, err := wiki.NewClient(version.UserAgent(),
		wiki.WithTimeout(cfg.API.Timeout),
		wiki.WithRetries(cfg.API.MaxRetries, wiki.DefaultRetryBackoff),
		wiki.WithLogger(logging.ComponentLogger(*logging.FromContext(ctx), "wiki")),
	)
	if err != nil {
		return err
	}

	loader, err := engine.NewLoader(store, client)
	if err != nil {
		return err
	}

	svc, err := engine.NewService(loader, engine.Endpoints{
		MappingURL: cfg.API.MappingURL,
		LatestURL:  cfg.API.LatestURL,
	}, priceTTL)
	if err != nil {
		return err
	}

	results, err := svc.Lookup(ctx, engine.LookupRequest{
		Query:           params.Item,
		RefreshMappings: params.RefreshMappings,
		RefreshPrices:   params.RefreshPrices,
	})
	if err != nil {
		return err
	}

	if len(results) == 0 && cfg.Output.Format == config.OutputTable {
		cmd.PrintErrf("No priced items match %q\n", params.Item)
		return nil
	}

	return renderResults(cmd.OutOrStdout(), results, cfg.Output.Format, newLocalePrinter(lookupEnv))
}
