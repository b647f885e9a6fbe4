package selection_test

import (
	"errors"
	"testing"

	"github.com/okian/passnet/internal/domain/passing"
	"github.com/okian/passnet/internal/domain/selection"
	"github.com/smartystreets/goconvey/convey"
)

// a -> b, b -> c, c -> a, a -> d, d -> a
func testGraph() passing.Graph {
	return passing.Graph{
		Nodes: []passing.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}},
		Edges: []passing.Edge{
			{ID: "a-b", Source: "a", Target: "b"},
			{ID: "a-d", Source: "a", Target: "d"},
			{ID: "b-c", Source: "b", Target: "c"},
			{ID: "c-a", Source: "c", Target: "a"},
			{ID: "d-a", Source: "d", Target: "a"},
		},
	}
}

func TestController(t *testing.T) {
	convey.Convey("Given a controller over a small network", t, func() {
		c := selection.NewController(testGraph())

		convey.Convey("Then it should start idle with nothing active", func() {
			h := c.Highlight()
			convey.So(h.Mode, convey.ShouldEqual, selection.ModeIdle)
			convey.So(h.Nodes, convey.ShouldBeEmpty)
			convey.So(h.Edges, convey.ShouldBeEmpty)
		})

		convey.Convey("When hovering a receiver", func() {
			convey.So(c.PointerEnter("b"), convey.ShouldBeTrue)
			h := c.Highlight()

			convey.Convey("Then its throwers and receivers should be active", func() {
				convey.So(h.Mode, convey.ShouldEqual, selection.ModeHover)
				convey.So(h.Hovered, convey.ShouldEqual, "b")
				convey.So(h.Nodes, convey.ShouldResemble, []string{"a", "b", "c"})
				convey.So(h.Edges, convey.ShouldResemble, []string{"a-b", "b-c"})
			})

			convey.Convey("And leaving it should clear the hover", func() {
				convey.So(c.PointerLeave("b"), convey.ShouldBeTrue)
				convey.So(c.Mode(), convey.ShouldEqual, selection.ModeIdle)
				convey.So(c.Highlight().Nodes, convey.ShouldBeEmpty)
			})

			convey.Convey("And leaving another node should change nothing", func() {
				convey.So(c.PointerLeave("c"), convey.ShouldBeTrue)
				convey.So(c.Highlight(), convey.ShouldResemble, h)
			})
		})

		convey.Convey("When clicking a node", func() {
			convey.So(c.Click("a"), convey.ShouldBeTrue)

			convey.Convey("Then selection should drive the active set", func() {
				h := c.Highlight()
				convey.So(h.Mode, convey.ShouldEqual, selection.ModeSelected)
				convey.So(h.Focus(), convey.ShouldEqual, "a")
				convey.So(h.Nodes, convey.ShouldResemble, []string{"a", "b", "c", "d"})
				convey.So(h.Edges, convey.ShouldResemble, []string{"a-b", "a-d", "c-a", "d-a"})
			})

			convey.Convey("And hovering elsewhere should not move the focus", func() {
				c.PointerEnter("c")
				h := c.Highlight()
				convey.So(h.Mode, convey.ShouldEqual, selection.ModeSelected)
				convey.So(h.Hovered, convey.ShouldEqual, "c")
				convey.So(h.Focus(), convey.ShouldEqual, "a")
			})

			convey.Convey("And pointer leave should never clear the selection", func() {
				c.PointerEnter("a")
				c.PointerLeave("a")
				sel, ok := c.Selected()
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(sel, convey.ShouldEqual, "a")
			})

			convey.Convey("And clicking it again should deselect", func() {
				c.Click("a")
				_, ok := c.Selected()
				convey.So(ok, convey.ShouldBeFalse)
				convey.So(c.Mode(), convey.ShouldEqual, selection.ModeIdle)
			})

			convey.Convey("And clicking the canvas should deselect", func() {
				c.ClickCanvas()
				_, ok := c.Selected()
				convey.So(ok, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When a hover is followed by selecting another node", func() {
			c.PointerEnter("c")
			c.Click("b")
			c.ClickCanvas()

			convey.Convey("Then the stale hover should not come back", func() {
				_, ok := c.Hovered()
				convey.So(ok, convey.ShouldBeFalse)
				convey.So(c.Mode(), convey.ShouldEqual, selection.ModeIdle)
			})
		})

		convey.Convey("When the canvas is clicked while hovering", func() {
			c.PointerEnter("d")
			c.Click("d")
			c.ClickCanvas()

			convey.Convey("Then the hover should become the focus", func() {
				h := c.Highlight()
				convey.So(h.Mode, convey.ShouldEqual, selection.ModeHover)
				convey.So(h.Nodes, convey.ShouldResemble, []string{"a", "d"})
			})
		})

		convey.Convey("When a callback names an unknown node", func() {
			c.Click("a")
			before := c.Highlight()

			convey.So(c.PointerEnter("zz"), convey.ShouldBeFalse)
			convey.So(c.PointerLeave("zz"), convey.ShouldBeFalse)
			convey.So(c.Click("zz"), convey.ShouldBeFalse)
			convey.So(c.Click(""), convey.ShouldBeFalse)

			convey.Convey("Then state should be unchanged", func() {
				convey.So(c.Highlight(), convey.ShouldResemble, before)
			})
		})

		convey.Convey("When the graph is rebuilt", func() {
			c.PointerEnter("c")
			c.Click("c")
			c.Load(passing.Graph{
				Nodes: []passing.Node{{ID: "c"}, {ID: "e"}},
				Edges: []passing.Edge{{ID: "c-e", Source: "c", Target: "e"}},
			})

			convey.Convey("Then surviving ids should keep their state", func() {
				h := c.Highlight()
				convey.So(h.Selected, convey.ShouldEqual, "c")
				convey.So(h.Nodes, convey.ShouldResemble, []string{"c", "e"})
				convey.So(h.Edges, convey.ShouldResemble, []string{"c-e"})
			})

			convey.Convey("Then ids that vanished should be dropped", func() {
				c.Load(passing.Graph{})
				convey.So(c.Mode(), convey.ShouldEqual, selection.ModeIdle)
				convey.So(c.Click("c"), convey.ShouldBeFalse)
			})
		})
	})
}

func TestControllerReceiverOnly(t *testing.T) {
	convey.Convey("Given a graph whose receivers never threw", t, func() {
		c := selection.NewController(passing.Graph{
			Nodes: []passing.Node{{ID: "a"}},
			Edges: []passing.Edge{
				{ID: "a-a", Source: "a", Target: "a"},
				{ID: "a-b", Source: "a", Target: "b"},
				{ID: "a-c", Source: "a", Target: "c"},
			},
		})

		convey.Convey("When selecting the thrower", func() {
			convey.So(c.Click("a"), convey.ShouldBeTrue)
			h := c.Highlight()

			convey.Convey("Then its receivers should light up with their edges", func() {
				convey.So(h.Nodes, convey.ShouldResemble, []string{"a", "b", "c"})
				convey.So(h.Edges, convey.ShouldResemble, []string{"a-a", "a-b", "a-c"})
			})
		})

		convey.Convey("When pointing at a receiver", func() {
			convey.Convey("Then it should not take the focus", func() {
				convey.So(c.PointerEnter("b"), convey.ShouldBeFalse)
				convey.So(c.Click("c"), convey.ShouldBeFalse)
				convey.So(c.Mode(), convey.ShouldEqual, selection.ModeIdle)
			})
		})
	})
}

func TestApply(t *testing.T) {
	convey.Convey("Given wire interactions", t, func() {
		c := selection.NewController(testGraph())

		convey.Convey("When dispatching known kinds", func() {
			h, err := c.Apply(selection.Interaction{Kind: selection.KindClick, Node: "b"})
			convey.So(err, convey.ShouldBeNil)
			convey.So(h.Selected, convey.ShouldEqual, "b")

			h, err = c.Apply(selection.Interaction{Kind: selection.KindClickCanvas})
			convey.So(err, convey.ShouldBeNil)
			convey.So(h.Mode, convey.ShouldEqual, selection.ModeIdle)
		})

		convey.Convey("When the node is stale", func() {
			_, err := c.Apply(selection.Interaction{Kind: selection.KindPointerEnter, Node: "gone"})
			convey.So(errors.Is(err, selection.ErrInteractionOutOfRange), convey.ShouldBeTrue)
		})

		convey.Convey("When the kind is unknown", func() {
			_, err := c.Apply(selection.Interaction{Kind: "double_click", Node: "a"})
			convey.So(errors.Is(err, selection.ErrUnknownInteraction), convey.ShouldBeTrue)
		})

		convey.Convey("When encoding the mode", func() {
			b, err := selection.ModeSelected.MarshalText()
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldEqual, "selected")

			var m selection.Mode
			convey.So(m.UnmarshalText([]byte("hover")), convey.ShouldBeNil)
			convey.So(m, convey.ShouldEqual, selection.ModeHover)
			convey.So(m.UnmarshalText([]byte("dragging")), convey.ShouldNotBeNil)
		})
	})
}
