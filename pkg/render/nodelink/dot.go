// Package nodelink exports the connection graph as a Graphviz node-link
// diagram. Canvas positions are deliberately ignored: Graphviz lays the
// graph out on its own, which is the useful view for snapshots that carry no
// spatial placement yet.
package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/ideagraph/ideagraph/pkg/observability"
	"github.com/ideagraph/ideagraph/pkg/scene"
)

// Options configures node-link export.
type Options struct {
	// Labeled uses the node's display name from metadata instead of its ID.
	Labeled bool
}

// ToDOT converts the scene's connection graph to Graphviz DOT. Connection
// kinds become edge labels; nodes keep their insertion order so identical
// scenes produce identical output.
func ToDOT(scn *scene.Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph ideagraph {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for _, n := range scn.Nodes() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, fmtLabel(n, opts.Labeled))
	}

	buf.WriteString("\n")
	for _, c := range scn.Connections() {
		if c.Kind != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", c.From, c.To, c.Kind)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", c.From, c.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *scene.Node, labeled bool) string {
	if labeled {
		if name, ok := n.Meta["name"].(string); ok && name != "" {
			return name
		}
	}
	return n.ID
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	start := time.Now()
	out, err := renderSVG(dot)
	observability.Render().OnSink("dot", len(out), time.Since(start), err)
	return out, err
}

func renderSVG(dot string) ([]byte, error) {
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

// normalizeViewBox rewrites the Graphviz SVG header so the viewBox starts at
// the origin, which keeps downstream converters from clipping the output.
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
