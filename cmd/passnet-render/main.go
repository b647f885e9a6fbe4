package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/passnet/internal/adapters/render"
	"github.com/okian/passnet/internal/adapters/ufa"
	"github.com/okian/passnet/internal/rendercli"
)

// Default configuration constants.
const (
	defaultSeason      = 2025
	defaultTimeout     = 10 * time.Second
	defaultConcurrency = 8
	defaultRunTimeout  = 5 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", ufa.DefaultBaseURL, "Base URL of the UFA stats API")
		teamID      = flag.String("team", "", "Team id to render")
		season      = flag.Int("season", defaultSeason, "Season used for the team lookup")
		outputFile  = flag.String("out", "", "Output file (default: <team>_<season>.<format>)")
		format      = flag.String("format", string(render.FormatHTML), "Output format: html or json")
		timeout     = flag.Duration("timeout", defaultTimeout, "Per-request timeout")
		concurrency = flag.Int("concurrency", defaultConcurrency, "Parallel game fetches")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		rendercli.ShowHelp()
		return
	}

	if err := rendercli.SetupLogging(os.Stderr, *verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	f, err := render.ParseFormat(*format)
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	res, err := rendercli.Run(ctx, &rendercli.Config{
		BaseURL:     *baseURL,
		TeamID:      *teamID,
		Season:      *season,
		OutputFile:  *outputFile,
		Format:      f,
		Timeout:     *timeout,
		Concurrency: *concurrency,
		Verbose:     *verbose,
	})
	if err != nil {
		_, _ = os.Stderr.WriteString("Render failed: " + err.Error() + "\n")
		if errors.Is(err, rendercli.ErrMissingTeam) {
			rendercli.ShowHelp()
		}
		cancel()
		os.Exit(1)
	}
	fmt.Printf("%s: %d players, %d connections, %d passes\n", res.File, res.Nodes, res.Edges, res.Passes)
}
