// ABOUTME: Graphviz rendering of the relationship network
// ABOUTME: Produces DOT source for exported network graphs and single intro paths
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/sherpa/models"
	"github.com/harperreed/sherpa/network"
)

const strongEdge = 7.0

type nodeStyle struct {
	shape cgraph.Shape
	fill  string
}

var groupStyles = map[string]nodeStyle{
	models.NodeSelf:            {shape: "doublecircle", fill: "gold"},
	models.NodeConnection:      {shape: "ellipse", fill: "lightgreen"},
	models.NodeExternalContact: {shape: "ellipse", fill: "lightgrey"},
}

// render creates a graph, lets build populate it and returns the DOT source.
func render(label string, build func(*cgraph.Graph) error) (string, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer func() { _ = gv.Close() }()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() { _ = graph.Close() }()

	graph.SetLabel(label)
	graph.SetRankDir(cgraph.LRRank)

	if err := build(graph); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.String(), nil
}

// GenerateNetworkGraph renders an exported network. Targets are boxes,
// edges with value of at least 7 are bold.
func GenerateNetworkGraph(vg network.VisualGraph) (string, error) {
	return render("Relationship Network", func(graph *cgraph.Graph) error {
		nodes := make(map[string]*cgraph.Node, len(vg.Nodes))
		for _, n := range vg.Nodes {
			node, err := graph.CreateNodeByName(n.ID)
			if err != nil {
				return fmt.Errorf("failed to create node %s: %w", n.ID, err)
			}
			style := groupStyles[n.Group]
			if style.shape == "" {
				style = groupStyles[models.NodeConnection]
			}
			if n.Size >= 25 && n.Group != models.NodeSelf {
				style = nodeStyle{shape: "box", fill: "lightcoral"}
			}
			node.SetLabel(fallbackLabel(n.Label, n.ID))
			node.SetShape(style.shape)
			node.SetStyle("filled")
			node.SetFillColor(style.fill)
			nodes[n.ID] = node
		}

		for _, e := range vg.Edges {
			from, ok1 := nodes[e.From]
			to, ok2 := nodes[e.To]
			if !ok1 || !ok2 {
				continue
			}
			edge, err := graph.CreateEdgeByName(fmt.Sprintf("%s-%s", e.From, e.To), from, to)
			if err != nil {
				return fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetLabel(fmt.Sprintf("%s (%.1f)", e.Label, e.Value))
			edge.SetDir("none")
			if e.Value >= strongEdge {
				edge.SetStyle("bold")
			}
		}
		return nil
	})
}

// GeneratePathGraph renders one introduction path as a chain from the
// owner to the target.
func GeneratePathGraph(path *models.PathResult) (string, error) {
	if path == nil || len(path.Path) == 0 {
		return "", fmt.Errorf("no path to render")
	}
	label := fmt.Sprintf("Path to %s (%d degree, %.0f%% confidence)", path.TargetName, path.Degree, path.Confidence*100)
	return render(label, func(graph *cgraph.Graph) error {
		var prev *cgraph.Node
		for i, hop := range path.Path {
			node, err := graph.CreateNodeByName(hop.NodeID)
			if err != nil {
				return fmt.Errorf("failed to create node %s: %w", hop.NodeID, err)
			}
			text := fallbackLabel(hop.Name, hop.NodeID)
			if hop.Company != "" {
				text += "\n" + hop.Company
			}
			node.SetLabel(text)
			node.SetStyle("filled")
			switch i {
			case 0:
				node.SetShape("doublecircle")
				node.SetFillColor("gold")
			case len(path.Path) - 1:
				node.SetShape("box")
				node.SetFillColor("lightcoral")
			default:
				node.SetFillColor("lightgreen")
			}

			if prev != nil {
				edge, err := graph.CreateEdgeByName(fmt.Sprintf("hop%d", i), prev, node)
				if err != nil {
					return fmt.Errorf("failed to create edge: %w", err)
				}
				edge.SetLabel(fmt.Sprintf("%s %.2f", hop.Kind, hop.Strength))
				if !hop.Verified {
					edge.SetStyle("dashed")
				}
			}
			prev = node
		}
		return nil
	})
}

func fallbackLabel(label, id string) string {
	if label == "" {
		return id
	}
	return label
}
