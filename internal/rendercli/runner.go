package rendercli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/passnet/internal/adapters/render"
	"github.com/okian/passnet/internal/adapters/ufa"
	service "github.com/okian/passnet/internal/app"
	"github.com/okian/passnet/internal/domain/passing"
	"github.com/okian/passnet/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0644
)

// ErrMissingTeam is returned when no team id was given.
var ErrMissingTeam = errors.New("team id is required")

// Run fetches the team's events, aggregates them and writes the rendered
// network to config.Output().
func Run(ctx context.Context, config *Config) (Result, error) {
	start := time.Now()
	if strings.TrimSpace(config.TeamID) == "" {
		return Result{}, ErrMissingTeam
	}
	log := logger.Get().Named("render")

	log.Info(ctx, "rendering passing network",
		logger.String("baseURL", config.BaseURL),
		logger.String("team", config.TeamID),
		logger.Int("season", config.Season),
		logger.String("format", string(config.Format)),
		logger.Duration("timeout", config.Timeout))

	client := ufa.NewClient(
		ufa.WithBaseURL(config.BaseURL),
		ufa.WithTimeout(config.Timeout),
		ufa.WithConcurrency(config.Concurrency),
		ufa.WithLogger(log),
	)
	svc := service.New(
		service.WithUpstream(client),
		service.WithAggregator(passing.NewAggregator(passing.WithLogger(log))),
		service.WithSeason(config.Season),
		service.WithLogger(log),
	)

	team, g, err := svc.TeamGraph(ctx, config.TeamID)
	if err != nil {
		return Result{}, fmt.Errorf("team graph failed: %w", err)
	}
	if g.Empty() {
		log.Warn(ctx, "no passes found; writing an empty network", logger.String("team", team.ID))
	}

	out := config.Output()
	if err := writeFile(out, config.Format, render.NewDocument(team, config.Season, g, time.Now())); err != nil {
		return Result{}, err
	}

	res := Result{
		File:     out,
		Nodes:    len(g.Nodes),
		Edges:    len(g.Edges),
		Passes:   g.Passes,
		Invalid:  g.Invalid,
		Duration: time.Since(start),
	}
	log.Info(ctx, "passing network written",
		logger.String("file", res.File),
		logger.Int("nodes", res.Nodes),
		logger.Int("edges", res.Edges),
		logger.Int("passes", res.Passes),
		logger.Int("invalid", res.Invalid),
		logger.Duration("duration", res.Duration))
	return res, nil
}

func writeFile(path string, format render.Format, doc render.Document) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()
	return render.Write(f, format, doc)
}
