package api

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/okian/passnet/internal/domain/selection"
)

// maxBodyBytes bounds request bodies; every payload here is tiny.
const maxBodyBytes = 1 << 16

// SessionDependencies defines the interface for viewer session operations.
type SessionDependencies interface {
	CreateSession(ctx context.Context) (string, error)
	SelectTeam(ctx context.Context, sessionID, teamID string) (GraphView, error)
	Graph(ctx context.Context, sessionID string) (GraphView, error)
	Interact(ctx context.Context, sessionID string, in selection.Interaction) (selection.Highlight, error)
}

// SessionsHandler handles session, graph and interaction requests.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandleCreate handles POST /api/sessions requests.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	id, err := h.deps.CreateSession(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{ID: id})
}

// HandleSelectTeam handles PUT /api/sessions/{id}/team requests.
func (h *SessionsHandler) HandleSelectTeam(w http.ResponseWriter, r *http.Request) {
	const op = "api.select_team"
	var req selectTeamRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	req.TeamID = strings.TrimSpace(req.TeamID)
	if req.TeamID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	view, err := h.deps.SelectTeam(r.Context(), r.PathValue("id"), req.TeamID)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleGraph handles GET /api/sessions/{id}/graph requests.
func (h *SessionsHandler) HandleGraph(w http.ResponseWriter, r *http.Request) {
	const op = "api.graph"
	view, err := h.deps.Graph(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleInteraction handles POST /api/sessions/{id}/interactions requests.
func (h *SessionsHandler) HandleInteraction(w http.ResponseWriter, r *http.Request) {
	const op = "api.interaction"
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	in, err := decodeInteraction(body)
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	hl, err := h.deps.Interact(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, hl)
}
