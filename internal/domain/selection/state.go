// Package selection tracks hover and selection over a rendered passing
// network and derives which nodes and edges to highlight.
package selection

import (
	"fmt"
)

// Mode is the tagged interaction state. Selection outranks hover.
type Mode int

const (
	ModeIdle Mode = iota
	ModeHover
	ModeSelected
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeHover:
		return "hover"
	case ModeSelected:
		return "selected"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name written by MarshalText.
func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*m = ModeIdle
	case "hover":
		*m = ModeHover
	case "selected":
		*m = ModeSelected
	default:
		return fmt.Errorf("selection: unknown mode %q", text)
	}
	return nil
}

// Highlight is the snapshot handed to the renderer. Elements not listed are
// drawn dimmed while Mode is not idle.
type Highlight struct {
	Mode     Mode     `json:"mode"`
	Selected string   `json:"selected,omitempty"`
	Hovered  string   `json:"hovered,omitempty"`
	Nodes    []string `json:"active_nodes"`
	Edges    []string `json:"active_edges"`
}

// Focus returns the node the active set is computed from.
func (h Highlight) Focus() string {
	switch h.Mode {
	case ModeSelected:
		return h.Selected
	case ModeHover:
		return h.Hovered
	default:
		return ""
	}
}
