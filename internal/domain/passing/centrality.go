package passing

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
)

const (
	pageRankDamping   = 0.85
	pageRankTolerance = 1e-6
)

// PlayerRank is one player's PageRank score over the passing network.
// Edges carry their pass counts, so a player who receives many passes from
// well-ranked throwers scores higher than one who receives a few.
type PlayerRank struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Stats summarizes a graph for display.
type Stats struct {
	Nodes         int            `json:"nodes"`
	Edges         int            `json:"edges"`
	Passes        int            `json:"passes"`
	Invalid       int            `json:"invalid"`
	Skipped       map[string]int `json:"skipped,omitempty"`
	TopThrower    string         `json:"top_thrower,omitempty"`
	TopConnection string         `json:"top_connection,omitempty"`
	Centrality    []PlayerRank   `json:"centrality"`
}

// Centrality ranks players by weighted PageRank, highest first. Receivers
// that never threw are ranked too, labelled with their id. Ties break by id.
func Centrality(g Graph) []PlayerRank {
	if g.Empty() {
		// gonum's PageRank panics on an empty matrix.
		return []PlayerRank{}
	}

	dg := simple.NewWeightedDirectedGraph(0, 0)
	ids := make(map[string]int64, len(g.Nodes))
	ranks := make([]PlayerRank, 0, len(g.Nodes))
	add := func(id, label string) int64 {
		if n, ok := ids[id]; ok {
			return n
		}
		n := int64(len(ids))
		dg.AddNode(simple.Node(n))
		ids[id] = n
		ranks = append(ranks, PlayerRank{ID: id, Label: label})
		return n
	}
	for _, n := range g.Nodes {
		add(n.ID, n.Label)
	}
	for _, e := range g.Edges {
		from, to := add(e.Source, e.Source), add(e.Target, e.Target)
		if from == to {
			// simple graphs reject self loops
			continue
		}
		dg.SetWeightedEdge(dg.NewWeightedEdge(dg.Node(from), dg.Node(to), float64(e.Weight)))
	}

	scores := network.PageRank(dg, pageRankDamping, pageRankTolerance)
	for i := range ranks {
		ranks[i].Score = scores[ids[ranks[i].ID]]
	}
	slices.SortFunc(ranks, func(a, b PlayerRank) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return ranks
}

// Summarize computes display stats for g.
func Summarize(g Graph) Stats {
	s := Stats{
		Nodes:      len(g.Nodes),
		Edges:      len(g.Edges),
		Passes:     g.Passes,
		Invalid:    g.Invalid,
		Skipped:    g.Skipped,
		Centrality: Centrality(g),
	}

	best := 0
	for _, n := range g.Nodes {
		if n.Weight > best {
			best = n.Weight
			s.TopThrower = n.ID
		}
	}
	best = 0
	for _, e := range g.Edges {
		if e.Weight > best {
			best = e.Weight
			s.TopConnection = e.ID
		}
	}
	return s
}
