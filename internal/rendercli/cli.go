package rendercli

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/passnet/pkg/logger"
)

// SetupLogging initializes the global logger on w, at debug level when
// verbose is set.
func SetupLogging(w io.Writer, verbose bool) error {
	if err := logger.InitWithWriter(w, logger.FormatText); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	level := "info"
	if verbose {
		level = "debug"
	}
	return logger.SetLevelString(level)
}

// ShowHelp prints usage information for the render tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`passnet-render
==============

Renders a UFA team's passing network to a standalone file.

Usage:
  passnet-render -team <teamID> [options]

Options:
  -url string
        Base URL of the UFA stats API (default "https://www.backend.ufastats.com")
  -team string
        Team id to render (required)
  -season int
        Season used for the team lookup (default 2025)
  -out string
        Output file (default: <team>_<season>.<format>)
  -format string
        html or json (default "html")
  -timeout duration
        Per-request timeout (default 10s)
  -concurrency int
        Parallel game fetches (default 8)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Interactive chart for the Carolina Flyers
  passnet-render -team flyers

  # Graph document for scripting
  passnet-render -team empire -format json -out empire.json
`)
}
