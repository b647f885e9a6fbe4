// Package ufa fetches teams, games and play-by-play events from the UFA
// stats API.
package ufa

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/okian/passnet/internal/domain/model"
	"github.com/okian/passnet/pkg/logger"
	"github.com/okian/passnet/pkg/metrics"
)

const (
	endpointTeams      = "teams"
	endpointGames      = "games"
	endpointGameEvents = "game_events"

	errorBodySnippet = 256
)

type teamsResponse struct {
	Data []model.Team `json:"data"`
}

type gamesResponse struct {
	Games []model.Game `json:"games"`
}

type gameEventsResponse struct {
	Data struct {
		HomeEvents []model.RawEvent `json:"homeEvents"`
		AwayEvents []model.RawEvent `json:"awayEvents"`
	} `json:"data"`
}

// Client talks to the stats API. It is safe for concurrent use.
type Client struct {
	baseURL     string
	http        *http.Client
	timeout     time.Duration
	cacheTTL    time.Duration
	teamsTTL    time.Duration
	concurrency int
	cache       *responseCache
	log         logger.Logger
}

// NewClient constructs a Client with defaults overridden by opts.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		http:        &http.Client{},
		timeout:     defaultTimeout,
		cacheTTL:    defaultCacheTTL,
		teamsTTL:    defaultTeamsTTL,
		concurrency: defaultConcurrency,
		cache:       newResponseCache(),
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Teams lists a season's teams sorted by city.
func (c *Client) Teams(ctx context.Context, season int) ([]model.Team, error) {
	var resp teamsResponse
	path := "/api/v1/teams?years=" + strconv.Itoa(season)
	if err := c.get(ctx, endpointTeams, path, c.teamsTTL, &resp); err != nil {
		return nil, err
	}
	teams := resp.Data
	slices.SortStableFunc(teams, func(a, b model.Team) int {
		return cmp.Compare(a.City, b.City)
	})
	return teams, nil
}

// Team looks up one team of the season by id.
func (c *Client) Team(ctx context.Context, season int, teamID string) (model.Team, error) {
	teams, err := c.Teams(ctx, season)
	if err != nil {
		return model.Team{}, err
	}
	for _, t := range teams {
		if t.ID == teamID {
			return t, nil
		}
	}
	return model.Team{}, fmt.Errorf("%w: %q in %d", ErrTeamNotFound, teamID, season)
}

// Games lists the current games of a team.
func (c *Client) Games(ctx context.Context, teamID string) ([]model.Game, error) {
	var resp gamesResponse
	path := "/web-v1/games?current&teamID=" + url.QueryEscape(teamID)
	if err := c.get(ctx, endpointGames, path, c.cacheTTL, &resp); err != nil {
		return nil, err
	}
	return resp.Games, nil
}

// GameEvents returns teamID's side of one game's play-by-play.
func (c *Client) GameEvents(ctx context.Context, game model.Game, teamID string) ([]model.RawEvent, error) {
	var resp gameEventsResponse
	path := "/api/v1/gameEvents?gameID=" + url.QueryEscape(game.ID)
	if err := c.get(ctx, endpointGameEvents, path, c.cacheTTL, &resp); err != nil {
		return nil, err
	}
	if game.IsHome(teamID) {
		return resp.Data.HomeEvents, nil
	}
	return resp.Data.AwayEvents, nil
}

// TeamEvents fetches every game of teamID concurrently and merges the
// events: games in list order, events in feed order. A game id listed twice
// is fetched once. Any failure cancels the rest and fails the whole call.
func (c *Client) TeamEvents(ctx context.Context, teamID string) ([]model.RawEvent, error) {
	games, err := c.Games(ctx, teamID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(games))
	unique := games[:0:0]
	for _, g := range games {
		if _, dup := seen[g.ID]; dup {
			continue
		}
		seen[g.ID] = struct{}{}
		unique = append(unique, g)
	}

	perGame := make([][]model.RawEvent, len(unique))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.concurrency)
	for i, g := range unique {
		eg.Go(func() error {
			evs, err := c.GameEvents(egCtx, g, teamID)
			if err != nil {
				return fmt.Errorf("game %s: %w", g.ID, err)
			}
			perGame[i] = evs
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, evs := range perGame {
		total += len(evs)
	}
	merged := make([]model.RawEvent, 0, total)
	for _, evs := range perGame {
		merged = append(merged, evs...)
	}
	c.log.Debug(ctx, "merged team events",
		logger.String("team_id", teamID),
		logger.Int("games", len(unique)),
		logger.Int("events", len(merged)))
	return merged, nil
}

// CachedResponses reports how many responses are held.
func (c *Client) CachedResponses() int {
	return c.cache.len()
}

func (c *Client) get(ctx context.Context, endpoint, path string, ttl time.Duration, out any) error {
	u := c.baseURL + path
	if body, ok := c.cache.get(u, ttl); ok {
		return decode(endpoint, body, out)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUpstream, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		metrics.RecordUpstreamRequest(endpoint, "error", latencyMs)
		return fmt.Errorf("%w: %s: %w", ErrUpstream, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	metrics.RecordUpstreamRequest(endpoint, strconv.Itoa(resp.StatusCode), latencyMs)
	if err != nil {
		return fmt.Errorf("%w: %s: read body: %w", ErrUpstream, endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := body
		if len(snippet) > errorBodySnippet {
			snippet = snippet[:errorBodySnippet]
		}
		c.log.Warn(ctx, "stats api returned non-2xx",
			logger.String("endpoint", endpoint),
			logger.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: %s: status %d: %s", ErrUpstream, endpoint, resp.StatusCode, snippet)
	}

	if err := decode(endpoint, body, out); err != nil {
		return err
	}
	if ttl > 0 {
		c.cache.put(u, body)
	}
	return nil
}

func decode(endpoint string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecode, endpoint, err)
	}
	return nil
}
