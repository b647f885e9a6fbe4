package render

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/okian/passnet/internal/domain/passing"
)

// minSymbolSize keeps rarely throwing players clickable.
const minSymbolSize = 6

// emptyMessage is shown in place of a graph with no nodes.
const emptyMessage = "No data loaded"

// HTML writes doc as a self-contained ECharts page.
func HTML(w io.Writer, doc Document) error {
	page := components.NewPage()
	page.PageTitle = doc.Title()
	page.AddCharts(graphChart(doc))
	return page.Render(w)
}

func graphChart(doc Document) *charts.Graph {
	subtitle := emptyMessage
	if !doc.Graph.Empty() {
		subtitle = fmt.Sprintf("%d players, %d connections, %d passes",
			doc.Stats.Nodes, doc.Stats.Edges, doc.Stats.Passes)
		if doc.Stats.TopThrower != "" {
			subtitle += ", top thrower " + doc.Stats.TopThrower
		}
	}

	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: doc.Title(),
			Height:    "95vh",
			Width:     "100vw",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    doc.Title(),
			Subtitle: subtitle,
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
	)
	graph.AddSeries(
		"passes",
		graphNodes(doc.Graph),
		graphLinks(doc.Graph),
		charts.WithGraphChartOpts(
			opts.GraphChart{
				Layout:         "force",
				Draggable:      opts.Bool(true),
				Roam:           opts.Bool(true),
				Force:          &opts.GraphForce{Repulsion: 400, EdgeLength: 120},
				EdgeSymbol:     []string{"none", "arrow"},
				EdgeSymbolSize: 8,
			},
		),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Color:    "black",
			Position: "top",
		}),
	)
	return graph
}

func graphNodes(g passing.Graph) []opts.GraphNode {
	nodes := make([]opts.GraphNode, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, opts.GraphNode{
			Name:       n.ID,
			Value:      float32(n.Weight),
			SymbolSize: symbolSize(n.Size),
		})
	}
	// receivers that never threw still need a point to land on
	seen := g.NodeIndex()
	for _, e := range g.Edges {
		if _, ok := seen[e.Target]; ok {
			continue
		}
		seen[e.Target] = len(nodes)
		nodes = append(nodes, opts.GraphNode{Name: e.Target, SymbolSize: minSymbolSize})
	}
	return nodes
}

func graphLinks(g passing.Graph) []opts.GraphLink {
	links := make([]opts.GraphLink, 0, len(g.Edges))
	for _, e := range g.Edges {
		links = append(links, opts.GraphLink{
			Source: e.Source,
			Target: e.Target,
			Value:  float32(e.Weight),
			LineStyle: &opts.LineStyle{
				Width:     float32(math.Max(e.Size, 1)),
				Curveness: 0.15,
			},
		})
	}
	return links
}

// symbolSize maps a normalized node size onto pixels.
func symbolSize(size float64) float64 {
	return math.Max(size*2, minSymbolSize)
}
