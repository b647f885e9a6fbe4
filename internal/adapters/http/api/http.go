// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	service "github.com/okian/passnet/internal/app"
	"github.com/okian/passnet/internal/domain/model"
	"github.com/okian/passnet/internal/domain/selection"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	TeamDependencies
	SessionDependencies
}

// GraphView mirrors the graph payload returned for a session.
type GraphView = service.GraphView

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	teamsHandler     *TeamsHandler
	sessionsHandler  *SessionsHandler
	socketHandler    *SocketHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		teamsHandler:     NewTeamsHandler(deps),
		sessionsHandler:  NewSessionsHandler(deps),
		socketHandler:    NewSocketHandler(deps),
		dashboardHandler: newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /api/teams", MetricsMiddleware(s.teamsHandler.HandleListTeams, "teams"))
	mux.HandleFunc("GET /api/teams/{teamID}/events", MetricsMiddleware(s.teamsHandler.HandleTeamEvents, "team_events"))

	mux.HandleFunc("POST /api/sessions", MetricsMiddleware(s.sessionsHandler.HandleCreate, "sessions"))
	mux.HandleFunc("PUT /api/sessions/{id}/team", MetricsMiddleware(s.sessionsHandler.HandleSelectTeam, "select_team"))
	mux.HandleFunc("GET /api/sessions/{id}/graph", MetricsMiddleware(s.sessionsHandler.HandleGraph, "graph"))
	mux.HandleFunc("POST /api/sessions/{id}/interactions", MetricsMiddleware(s.sessionsHandler.HandleInteraction, "interactions"))
	// the websocket handler hijacks the connection, so it stays outside the metrics wrapper
	mux.HandleFunc("GET /api/sessions/{id}/ws", s.socketHandler.HandleSocket)
}

type selectTeamRequest struct {
	TeamID string `json:"team_id"`
}

type sessionResponse struct {
	ID string `json:"id"`
}

// eventRow is one line of the tabular event view.
type eventRow struct {
	Index     int    `json:"index"`
	Type      int    `json:"type"`
	TypeName  string `json:"type_name"`
	Timestamp *int64 `json:"timestamp"`
	Thrower   string `json:"thrower,omitempty"`
	Receiver  string `json:"receiver,omitempty"`
}

func toEventRows(raw []model.RawEvent) []eventRow {
	rows := make([]eventRow, len(raw))
	for i, ev := range raw {
		rows[i] = eventRow{
			Index:     i,
			Type:      ev.Type,
			TypeName:  model.EventType(ev.Type).String(),
			Timestamp: ev.Timestamp,
			Thrower:   ev.Thrower,
			Receiver:  ev.Receiver,
		}
	}
	return rows
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err to its status and code.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func decodeInteraction(data []byte) (selection.Interaction, error) {
	var in selection.Interaction
	if err := json.Unmarshal(data, &in); err != nil {
		return in, err
	}
	return in, nil
}
