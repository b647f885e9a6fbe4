package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/passnet/internal/domain/model"
)

// TeamDependencies defines the interface for team lookups.
type TeamDependencies interface {
	Teams(ctx context.Context) ([]model.Team, error)
	TeamEvents(ctx context.Context, teamID string) ([]model.RawEvent, error)
}

// TeamsHandler handles team and tabular event requests.
type TeamsHandler struct {
	deps TeamDependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps TeamDependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

// HandleListTeams handles GET /api/teams requests.
func (h *TeamsHandler) HandleListTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_teams"
	teams, err := h.deps.Teams(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	if teams == nil {
		teams = []model.Team{}
	}
	writeJSON(w, http.StatusOK, teams)
}

// HandleTeamEvents handles GET /api/teams/{teamID}/events requests.
func (h *TeamsHandler) HandleTeamEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.team_events"
	teamID := strings.TrimSpace(r.PathValue("teamID"))
	if teamID == "" {
		writeFailure(w, NewKind(op, ErrBadRequest))
		return
	}
	raw, err := h.deps.TeamEvents(r.Context(), teamID)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, toEventRows(raw))
}
