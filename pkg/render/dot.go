// Package render produces Graphviz previews of instance layouts. The real
// output of the pipeline is the translated solver model; these previews
// exist for quick visual inspection from the CLI.
package render

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/sidprasad/spytial-core-sub004/pkg/layout"
)

// Options configures preview rendering.
type Options struct {
	// Detailed includes the most specific type and attribute buckets in
	// node labels. When false, only the node label is shown.
	Detailed bool
}

// ToDOT converts an instance layout to Graphviz DOT format. Groups become
// clusters, nested by node-set containment; inferred edges are dashed and
// alignment edges dotted so their provenance stays visible in the preview.
// The resulting DOT string can be rendered with [RenderSVG].
func ToDOT(l *layout.InstanceLayout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph instance {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	forest := groupForest(l.Groups)
	home := nodeHomes(l)
	emitted := make(map[string]bool)
	for _, root := range forest[-1] {
		emitCluster(&buf, l, forest, root, home, emitted, opts, "  ")
	}
	for _, n := range l.Nodes {
		if !emitted[n.ID] {
			fmt.Fprintf(&buf, "  %s;\n", nodeStmt(n, opts))
		}
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		attrs := []string{fmt.Sprintf("label=%q", e.Label), fmt.Sprintf("color=%q", e.Color)}
		switch {
		case layout.IsInferredEdge(e.ID):
			attrs = append(attrs, "style=dashed")
		case layout.IsAlignmentEdge(e.ID):
			attrs = append(attrs, "style=dotted", "arrowhead=none")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source.ID, e.Target.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// groupForest computes the direct-containment forest over groups: child
// group sets are proper subsets of their parent's, attached to the smallest
// such parent. Roots are keyed under -1.
func groupForest(groups []layout.Group) map[int][]int {
	sets := make([]map[string]bool, len(groups))
	for i, g := range groups {
		sets[i] = make(map[string]bool, len(g.NodeIDs))
		for _, id := range g.NodeIDs {
			sets[i][id] = true
		}
	}
	subset := func(a, b int) bool {
		if len(sets[a]) >= len(sets[b]) {
			return false
		}
		for id := range sets[a] {
			if !sets[b][id] {
				return false
			}
		}
		return true
	}

	forest := make(map[int][]int)
	for i := range groups {
		parent := -1
		for j := range groups {
			if j == i || !subset(i, j) {
				continue
			}
			if parent < 0 || len(sets[j]) < len(sets[parent]) {
				parent = j
			}
		}
		forest[parent] = append(forest[parent], i)
	}
	return forest
}

// nodeHomes assigns each grouped node to its smallest containing group.
func nodeHomes(l *layout.InstanceLayout) map[string]int {
	home := make(map[string]int)
	for gi, g := range l.Groups {
		for _, id := range g.NodeIDs {
			if cur, ok := home[id]; !ok || len(g.NodeIDs) < len(l.Groups[cur].NodeIDs) {
				home[id] = gi
			}
		}
	}
	return home
}

func emitCluster(buf *bytes.Buffer, l *layout.InstanceLayout, forest map[int][]int, gi int, home map[string]int, emitted map[string]bool, opts Options, indent string) {
	g := l.Groups[gi]
	fmt.Fprintf(buf, "%ssubgraph \"cluster_%d\" {\n", indent, gi)
	if g.ShowLabel {
		fmt.Fprintf(buf, "%s  label=%q;\n", indent, g.Name)
	} else {
		fmt.Fprintf(buf, "%s  label=\"\";\n", indent)
	}
	fmt.Fprintf(buf, "%s  style=dashed;\n", indent)

	for _, child := range forest[gi] {
		emitCluster(buf, l, forest, child, home, emitted, opts, indent+"  ")
	}
	for _, n := range l.Nodes {
		if h, ok := home[n.ID]; ok && h == gi && !emitted[n.ID] {
			fmt.Fprintf(buf, "%s  %s;\n", indent, nodeStmt(n, opts))
			emitted[n.ID] = true
		}
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

func nodeStmt(n *layout.Node, opts Options) string {
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)),
		fmt.Sprintf("fillcolor=%q", n.Color),
	}
	return fmt.Sprintf("%q [%s]", n.ID, strings.Join(attrs, ", "))
}

func fmtLabel(n *layout.Node, detailed bool) string {
	label := n.Label
	if !n.ShowLabels {
		label = ""
	}
	if !detailed {
		return label
	}

	parts := []string{fmt.Sprintf("type: %s", n.MostSpecificType)}
	for _, k := range slices.Sorted(maps.Keys(n.Attributes)) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(n.Attributes[k], ", ")))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
