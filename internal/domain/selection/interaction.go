package selection

import (
	"fmt"
)

// Kind names a pointer callback from the renderer.
type Kind string

const (
	KindPointerEnter Kind = "pointer_enter"
	KindPointerLeave Kind = "pointer_leave"
	KindClick        Kind = "click"
	KindClickCanvas  Kind = "click_canvas"
)

// Interaction is one pointer callback as delivered over the wire.
type Interaction struct {
	Kind Kind   `json:"kind"`
	Node string `json:"node,omitempty"`
}

// Apply dispatches in to the matching transition and returns the resulting
// highlight. Out-of-range ids leave state unchanged and return an error
// wrapping ErrInteractionOutOfRange alongside the unchanged highlight.
func (c *Controller) Apply(in Interaction) (Highlight, error) {
	var ok bool
	switch in.Kind {
	case KindPointerEnter:
		ok = c.PointerEnter(in.Node)
	case KindPointerLeave:
		ok = c.PointerLeave(in.Node)
	case KindClick:
		ok = c.Click(in.Node)
	case KindClickCanvas:
		c.ClickCanvas()
		ok = true
	default:
		return c.Highlight(), fmt.Errorf("%w: %q", ErrUnknownInteraction, in.Kind)
	}
	if !ok {
		return c.Highlight(), fmt.Errorf("%w: %s %q", ErrInteractionOutOfRange, in.Kind, in.Node)
	}
	return c.Highlight(), nil
}
