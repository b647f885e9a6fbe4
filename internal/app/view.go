package service

import (
	"github.com/okian/passnet/internal/adapters/repository"
	"github.com/okian/passnet/internal/domain/model"
	"github.com/okian/passnet/internal/domain/passing"
	"github.com/okian/passnet/internal/domain/selection"
)

// GraphView is a session's graph as served to the front end.
type GraphView struct {
	SessionID  string              `json:"session_id"`
	Team       *model.Team         `json:"team,omitempty"`
	Nodes      []passing.Node      `json:"nodes"`
	Edges      []passing.Edge      `json:"edges"`
	Stats      passing.Stats       `json:"stats"`
	Empty      bool                `json:"empty"`
	Invalid    int                 `json:"invalid"`
	Highlight  selection.Highlight `json:"highlight"`
	Generation uint64              `json:"generation"`
}

func newGraphView(sessionID string, st *repository.State) GraphView {
	v := GraphView{
		SessionID:  sessionID,
		Nodes:      st.Graph.Nodes,
		Edges:      st.Graph.Edges,
		Stats:      st.Stats,
		Empty:      st.Graph.Empty(),
		Invalid:    st.Graph.Invalid,
		Highlight:  st.Controller.Highlight(),
		Generation: st.Generation,
	}
	if st.Loaded {
		team := st.Team
		v.Team = &team
	}
	if v.Nodes == nil {
		v.Nodes = []passing.Node{}
	}
	if v.Edges == nil {
		v.Edges = []passing.Edge{}
	}
	if v.Stats.Centrality == nil {
		v.Stats.Centrality = []passing.PlayerRank{}
	}
	return v
}
