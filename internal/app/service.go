// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/passnet/internal/adapters/repository"
	"github.com/okian/passnet/internal/adapters/ufa"
	"github.com/okian/passnet/internal/domain/model"
	"github.com/okian/passnet/internal/domain/passing"
	"github.com/okian/passnet/internal/domain/selection"
	"github.com/okian/passnet/pkg/logger"
	"github.com/okian/passnet/pkg/metrics"
)

// Upstream is the subset of the stats API the service needs.
type Upstream interface {
	Teams(ctx context.Context, season int) ([]model.Team, error)
	Team(ctx context.Context, season int, teamID string) (model.Team, error)
	TeamEvents(ctx context.Context, teamID string) ([]model.RawEvent, error)
}

// Service implements the API dependencies for the passing network viewer.
type Service struct {
	mu sync.RWMutex

	// Core components
	upstream   Upstream
	aggregator *passing.Aggregator
	sessions   repository.Store

	// Configuration
	season     int
	sessionTTL time.Duration

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithUpstream sets the stats API client.
func WithUpstream(u Upstream) Option {
	return func(s *Service) {
		if u != nil {
			s.upstream = u
		}
	}
}

// WithAggregator sets the graph aggregator.
func WithAggregator(a *passing.Aggregator) Option {
	return func(s *Service) {
		if a != nil {
			s.aggregator = a
		}
	}
}

// WithSeason sets the season used for team lookups.
func WithSeason(season int) Option {
	return func(s *Service) {
		if season > 0 {
			s.season = season
		}
	}
}

// WithSessionTTL sets how long idle sessions are kept.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithSessionStore replaces the in-memory session store created by Start.
func WithSessionStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.sessions = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		season:     2025,
		sessionTTL: 30 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.upstream == nil {
		s.upstream = ufa.NewClient()
	}
	if s.aggregator == nil {
		s.aggregator = passing.NewAggregator()
	}
	return s
}

// Start initializes the session store.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.sessions == nil {
		s.sessions = repository.NewMemoryStore(ctx, repository.WithTTL(s.sessionTTL))
	}

	s.started = true
	s.logger.Info(ctx, "passing network service started",
		logger.Int("season", s.season),
		logger.Duration("sessionTTL", s.sessionTTL),
	)
	return nil
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if closer, ok := s.sessions.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "passing network service stopped")
}

func (s *Service) store() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.sessions, nil
}

// Teams lists the season's teams sorted by city.
func (s *Service) Teams(ctx context.Context) ([]model.Team, error) {
	return s.upstream.Teams(ctx, s.season)
}

// TeamEvents returns the merged play-by-play of a team for tabular display.
func (s *Service) TeamEvents(ctx context.Context, teamID string) ([]model.RawEvent, error) {
	if _, err := s.upstream.Team(ctx, s.season, teamID); err != nil {
		return nil, err
	}
	return s.upstream.TeamEvents(ctx, teamID)
}

// CreateSession registers a new viewer.
func (s *Service) CreateSession(ctx context.Context) (string, error) {
	store, err := s.store()
	if err != nil {
		return "", err
	}
	sess, err := store.Create(ctx)
	if err != nil {
		return "", err
	}
	s.logger.Debug(ctx, "session created", logger.String("session", sess.ID))
	return sess.ID, nil
}

// SelectTeam fetches the team's games, rebuilds the session graph from
// scratch and resets it into the selection controller. When a newer
// selection starts before this one finishes, this result is dropped and
// ErrSuperseded is returned.
func (s *Service) SelectTeam(ctx context.Context, sessionID, teamID string) (GraphView, error) {
	store, err := s.store()
	if err != nil {
		return GraphView{}, err
	}
	sess, err := store.Get(ctx, sessionID)
	if err != nil {
		return GraphView{}, err
	}

	var gen uint64
	sess.With(func(st *repository.State) {
		st.Generation++
		gen = st.Generation
	})

	team, g, err := s.buildGraph(ctx, teamID)
	if err != nil {
		s.logger.Warn(ctx, "team selection failed",
			logger.String("session", sessionID),
			logger.String("team_id", teamID),
			logger.Error(err))
		return GraphView{}, err
	}
	stats := passing.Summarize(g)

	var view GraphView
	var stale bool
	sess.With(func(st *repository.State) {
		if st.Generation != gen {
			stale = true
			return
		}
		st.Team = team
		st.Graph = g
		st.Stats = stats
		st.Controller.Load(g)
		st.Loaded = true
		view = newGraphView(sessionID, st)
	})
	if stale {
		s.logger.Debug(ctx, "dropping superseded graph",
			logger.String("session", sessionID),
			logger.String("team_id", teamID))
		return GraphView{}, fmt.Errorf("%w: team %s", ErrSuperseded, teamID)
	}

	s.logger.Info(ctx, "passing network rebuilt",
		logger.String("session", sessionID),
		logger.String("team_id", teamID),
		logger.Int("nodes", len(g.Nodes)),
		logger.Int("edges", len(g.Edges)),
		logger.Int("invalid", g.Invalid))
	return view, nil
}

// TeamGraph fetches and aggregates a team's passing network without a session.
func (s *Service) TeamGraph(ctx context.Context, teamID string) (model.Team, passing.Graph, error) {
	return s.buildGraph(ctx, teamID)
}

func (s *Service) buildGraph(ctx context.Context, teamID string) (model.Team, passing.Graph, error) {
	team, err := s.upstream.Team(ctx, s.season, teamID)
	if err != nil {
		return model.Team{}, passing.Graph{}, err
	}
	raw, err := s.upstream.TeamEvents(ctx, teamID)
	if err != nil {
		return model.Team{}, passing.Graph{}, err
	}

	start := time.Now()
	g := s.aggregator.Aggregate(model.PassEvents(raw))
	ms := float64(time.Since(start).Microseconds()) / 1000

	metrics.RecordAggregation(ms, len(g.Nodes), len(g.Edges), g.Passes)
	for reason, n := range g.Skipped {
		metrics.RecordEventsSkipped(reason, n)
	}
	return team, g, nil
}

// Graph returns the session's current graph and highlight.
func (s *Service) Graph(ctx context.Context, sessionID string) (GraphView, error) {
	store, err := s.store()
	if err != nil {
		return GraphView{}, err
	}
	sess, err := store.Get(ctx, sessionID)
	if err != nil {
		return GraphView{}, err
	}
	var view GraphView
	sess.With(func(st *repository.State) {
		view = newGraphView(sessionID, st)
	})
	return view, nil
}

// Interact applies one pointer callback. Callbacks naming nodes that are not
// in the current graph are ignored and the unchanged highlight is returned.
func (s *Service) Interact(ctx context.Context, sessionID string, in selection.Interaction) (selection.Highlight, error) {
	store, err := s.store()
	if err != nil {
		return selection.Highlight{}, err
	}
	sess, err := store.Get(ctx, sessionID)
	if err != nil {
		return selection.Highlight{}, err
	}

	var h selection.Highlight
	var applyErr error
	sess.With(func(st *repository.State) {
		h, applyErr = st.Controller.Apply(in)
	})

	switch {
	case applyErr == nil:
		metrics.RecordInteraction(string(in.Kind), "applied")
		return h, nil
	case errors.Is(applyErr, selection.ErrInteractionOutOfRange):
		metrics.RecordInteraction(string(in.Kind), "out_of_range")
		s.logger.Debug(ctx, "ignoring stale interaction",
			logger.String("session", sessionID),
			logger.Error(applyErr))
		return h, nil
	default:
		metrics.RecordInteraction("unknown", "rejected")
		return h, applyErr
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":    s.started,
		"season":     s.season,
		"sessionTTL": s.sessionTTL.String(),
	}
	if s.started {
		stats["sessions"] = s.sessions.Count(context.Background())
	}
	if c, ok := s.upstream.(interface{ CachedResponses() int }); ok {
		stats["cachedResponses"] = c.CachedResponses()
	}
	return stats
}
