package passing_test

import (
	"testing"

	"github.com/okian/passnet/internal/domain/model"
	"github.com/okian/passnet/internal/domain/passing"
	"github.com/smartystreets/goconvey/convey"
)

func TestCentrality(t *testing.T) {
	convey.Convey("Given a passing network", t, func() {
		agg := passing.NewAggregator()

		convey.Convey("When the graph is empty", func() {
			s := passing.Summarize(agg.Aggregate(nil))

			convey.Convey("Then stats should be zero without panicking", func() {
				convey.So(s.Nodes, convey.ShouldEqual, 0)
				convey.So(s.Centrality, convey.ShouldBeEmpty)
				convey.So(s.TopThrower, convey.ShouldEqual, "")
			})
		})

		convey.Convey("When everyone passes to a hub", func() {
			g := agg.Aggregate([]model.PassEvent{
				pass("a", "hub"), pass("b", "hub"), pass("c", "hub"),
				pass("hub", "a"), pass("a", "hub"), pass("a", "b"),
			})
			s := passing.Summarize(g)

			convey.Convey("Then the hub should rank first", func() {
				convey.So(len(s.Centrality), convey.ShouldEqual, 4)
				convey.So(s.Centrality[0].ID, convey.ShouldEqual, "hub")
				total := 0.0
				for _, r := range s.Centrality {
					total += r.Score
				}
				convey.So(total, convey.ShouldAlmostEqual, 1.0, 1e-3)
			})

			convey.Convey("Then the summary should name the busiest thrower and pair", func() {
				convey.So(s.TopThrower, convey.ShouldEqual, "a")
				convey.So(s.TopConnection, convey.ShouldEqual, "a-hub")
				convey.So(s.Nodes, convey.ShouldEqual, 4)
				convey.So(s.Edges, convey.ShouldEqual, 5)
				convey.So(s.Passes, convey.ShouldEqual, 6)
			})
		})

		convey.Convey("When one receiver gets far more passes than another", func() {
			events := []model.PassEvent{pass("A", "C"), pass("B", "A"), pass("C", "A")}
			for range 10 {
				events = append(events, pass("A", "B"))
			}
			ranks := passing.Centrality(agg.Aggregate(events))

			convey.Convey("Then pass counts should decide who ranks higher", func() {
				score := make(map[string]float64, len(ranks))
				for _, r := range ranks {
					score[r.ID] = r.Score
				}
				convey.So(score["B"], convey.ShouldBeGreaterThan, score["C"])
				convey.So(ranks[0].ID, convey.ShouldEqual, "A")
			})
		})

		convey.Convey("When a receiver never threw", func() {
			ranks := passing.Centrality(agg.Aggregate([]model.PassEvent{pass("A", "B"), pass("A", "B")}))

			convey.Convey("Then it should still be ranked", func() {
				convey.So(len(ranks), convey.ShouldEqual, 2)
				convey.So(ranks[0].ID, convey.ShouldEqual, "B")
				convey.So(ranks[0].Label, convey.ShouldEqual, "B")
				convey.So(ranks[0].Score, convey.ShouldBeGreaterThan, ranks[1].Score)
			})
		})
	})
}
