// Package nodelink draws the documentation hierarchy as a node-link diagram.
//
// Convert a filtered view to DOT, then render it to SVG:
//
//	dot := nodelink.ToDOT(view, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT source can also be written out and processed with external
// Graphviz tools. Rendering uses [github.com/goccy/go-graphviz], which runs
// Graphviz in-process.
package nodelink
