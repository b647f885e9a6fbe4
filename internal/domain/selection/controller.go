package selection

import (
	"slices"

	"github.com/okian/passnet/internal/domain/passing"
)

type link struct {
	node string
	edge string
}

// Controller is the interaction state machine for one rendered graph.
// It is not safe for concurrent use; callers serialize callbacks.
type Controller struct {
	mode     Mode
	selected string
	hovered  string

	adjacent map[string][]link // both directions, one hop

	activeNodes []string
	activeEdges []string
}

// NewController returns an idle controller over g.
func NewController(g passing.Graph) *Controller {
	c := &Controller{}
	c.Load(g)
	return c
}

// Load swaps in a rebuilt graph. Selected or hovered ids that survive the
// rebuild are kept; the rest are dropped. Receivers that never threw light up
// as neighbours of their throwers but cannot be hovered or selected.
func (c *Controller) Load(g passing.Graph) {
	c.adjacent = make(map[string][]link, len(g.Nodes))
	for _, n := range g.Nodes {
		c.adjacent[n.ID] = nil
	}
	for _, e := range g.Edges {
		if _, ok := c.adjacent[e.Source]; !ok {
			continue
		}
		c.adjacent[e.Source] = append(c.adjacent[e.Source], link{node: e.Target, edge: e.ID})
		if _, ok := c.adjacent[e.Target]; ok && e.Target != e.Source {
			c.adjacent[e.Target] = append(c.adjacent[e.Target], link{node: e.Source, edge: e.ID})
		}
	}

	if !c.has(c.selected) {
		c.selected = ""
	}
	if !c.has(c.hovered) {
		c.hovered = ""
	}
	c.recompute()
}

// PointerEnter marks id as hovered. It reports false and changes nothing when
// id is not in the graph.
func (c *Controller) PointerEnter(id string) bool {
	if !c.has(id) {
		return false
	}
	c.hovered = id
	c.recompute()
	return true
}

// PointerLeave clears the hover if it is on id. Selection is never touched.
func (c *Controller) PointerLeave(id string) bool {
	if !c.has(id) {
		return false
	}
	if c.hovered == id {
		c.hovered = ""
		c.recompute()
	}
	return true
}

// Click toggles the selection of id.
func (c *Controller) Click(id string) bool {
	if !c.has(id) {
		return false
	}
	if c.selected == id {
		c.selected = ""
	} else {
		c.selected = id
		// a hover left over from another node does not outlive a new selection
		if c.hovered != id {
			c.hovered = ""
		}
	}
	c.recompute()
	return true
}

// ClickCanvas clears the selection. A current hover stays active.
func (c *Controller) ClickCanvas() {
	c.selected = ""
	c.recompute()
}

// Mode returns the current tagged state.
func (c *Controller) Mode() Mode { return c.mode }

// Selected returns the selected node id, if any.
func (c *Controller) Selected() (string, bool) { return c.selected, c.selected != "" }

// Hovered returns the hovered node id, if any.
func (c *Controller) Hovered() (string, bool) { return c.hovered, c.hovered != "" }

// Highlight returns a snapshot of the current state. The slices are copies.
func (c *Controller) Highlight() Highlight {
	return Highlight{
		Mode:     c.mode,
		Selected: c.selected,
		Hovered:  c.hovered,
		Nodes:    slices.Clone(c.activeNodes),
		Edges:    slices.Clone(c.activeEdges),
	}
}

func (c *Controller) has(id string) bool {
	if id == "" {
		return false
	}
	_, ok := c.adjacent[id]
	return ok
}

func (c *Controller) recompute() {
	var focus string
	switch {
	case c.selected != "":
		c.mode, focus = ModeSelected, c.selected
	case c.hovered != "":
		c.mode, focus = ModeHover, c.hovered
	default:
		c.mode = ModeIdle
	}

	c.activeNodes = []string{}
	c.activeEdges = []string{}
	if focus == "" {
		return
	}

	nodes := map[string]struct{}{focus: {}}
	edges := map[string]struct{}{}
	for _, l := range c.adjacent[focus] {
		nodes[l.node] = struct{}{}
		edges[l.edge] = struct{}{}
	}
	for id := range nodes {
		c.activeNodes = append(c.activeNodes, id)
	}
	for id := range edges {
		c.activeEdges = append(c.activeEdges, id)
	}
	slices.Sort(c.activeNodes)
	slices.Sort(c.activeEdges)
}
