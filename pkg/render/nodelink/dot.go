package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/zendapi/moxygen/pkg/doctree"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the kind and brief description to node labels.
	// When false, only the name is shown.
	Detailed bool

	// Members includes member entries. Without it only compounds are drawn.
	Members bool
}

// ToDOT converts a filtered view to Graphviz DOT. Each entry becomes a box
// with an edge from its parent. Groups are drawn with a dashed outline and
// the synthetic root as an ellipse.
func ToDOT(v *doctree.View, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	var edges []string
	for _, e := range doctree.Linearize(v, true) {
		if e.Kind().IsMember() && !opts.Members {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", e.ID(), strings.Join(fmtAttrs(e, opts.Detailed), ", "))
		if p := e.Parent(); p != nil {
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", p.ID(), e.ID()))
		}
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(e *doctree.Entry, detailed bool) string {
	if !detailed {
		return e.Name()
	}
	label := e.Name() + "\n" + e.Kind().String()
	if b := e.Payload().Brief; b != "" {
		label += "\n" + truncate(b, 40)
	}
	return label
}

func fmtAttrs(e *doctree.Entry, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(e, detailed))}
	switch {
	case e.Kind() == doctree.KindIndex:
		attrs = append(attrs, "shape=ellipse")
	case e.Kind().IsGroup():
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	case e.Kind().IsMember():
		attrs = append(attrs, "fontsize=11", "fillcolor=\"#f5f5f5\"")
	}
	return attrs
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}

// RenderSVG renders a DOT graph to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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

// normalizeViewBox drops the pt-based width and height graphviz emits so
// the SVG scales with its container.
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

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
