package cli

import (
	"github.com/spf13/cobra"

	"github.com/darakelian/osrsprice/internal/config"
	"github.com/darakelian/osrsprice/internal/logging"
)

// setupLogging configures logging from the resolved config and the --debug flag,
// stores the logger and a fresh run id in the command context, and returns the
// result so the caller can close any log file.
func setupLogging(cmd *cobra.Command, cfg *config.Config, debug bool) *logging.LogPathResult {
	loggingCfg := cfg.Logging
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	runID := logging.GetOrGenerateRunID(ctx)
	ctx = logging.ContextWithRunID(ctx, runID)

	base := result.Logger.With().Str("run_id", runID).Logger()
	ctx = base.WithContext(ctx)
	logger = logging.ComponentLogger(base, "cli")
	cmd.SetContext(ctx)

	logger.Info().Str("command", cmd.Name()).Str("version", cmd.Version).Msg("command started")

	return &result
}
