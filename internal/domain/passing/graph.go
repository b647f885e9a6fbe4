package passing

// Node is one player in the passing network.
type Node struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Weight int     `json:"weight"` // throws made
	Size   float64 `json:"size"`
}

// Edge is one directed thrower to receiver relationship.
type Edge struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight int     `json:"weight"` // passes along this exact pair
	Size   float64 `json:"size"`
}

// Graph is the output of one aggregation. Nodes and Edges are sorted by ID.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	// Passes counts events that contributed a weight.
	Passes int `json:"passes"`
	// Invalid counts events skipped with ErrInvalidEvent.
	Invalid int `json:"invalid"`
	// Skipped counts every non-contributing event by reason, invalid ones included.
	Skipped map[string]int `json:"skipped,omitempty"`
}

// EdgeID is the deterministic key of the ordered pair.
func EdgeID(thrower, receiver string) string {
	return thrower + "-" + receiver
}

// Empty reports the no-data state. It is not an error.
func (g Graph) Empty() bool {
	return len(g.Nodes) == 0
}

// NodeIndex returns a lookup from node id to position in Nodes.
func (g Graph) NodeIndex() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		idx[n.ID] = i
	}
	return idx
}
