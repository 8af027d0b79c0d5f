package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/boxlayout/pkg/layout"
)

// ToDOT converts a layout tree to Graphviz DOT, one node per box and an
// edge from each container to its children. When l is non-nil, node labels
// carry the resolved size and position of each block.
func ToDOT(root layout.Root, l layout.Layout) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [%s];\n", root.ID, nodeAttrs(root.ID, root.Direction, true, l))
	var edges []string
	_ = root.Walk(func(parentID string, n layout.Node, _ int) error {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, nodeAttrs(n.ID, n.Direction, n.IsContainer(), l))
		edges = append(edges, fmt.Sprintf("  %q -> %q;\n", parentID, n.ID))
		return nil
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(id string, dir layout.Direction, container bool, l layout.Layout) string {
	lines := []string{id}
	if container && dir.Valid() {
		lines = append(lines, dir.String())
	}
	if b, ok := l[id]; ok {
		lines = append(lines,
			fmt.Sprintf("%s x %s", num(b.Width), num(b.Height)),
			fmt.Sprintf("@ %s, %s", num(b.Top), num(b.Left)))
	}
	attrs := []string{fmt.Sprintf("label=%q", strings.Join(lines, "\n"))}
	if container {
		attrs = append(attrs, "fillcolor=\"#dbe9f4\"")
	}
	return strings.Join(attrs, ", ")
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// RenderTreeSVG renders a DOT graph to SVG using Graphviz.
func RenderTreeSVG(ctx context.Context, dot string) ([]byte, error) {
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

// normalizeViewBox replaces Graphviz's point-based svg header with one
// sized in pixels from its viewBox.
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
	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
