package sink

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ideagraph/ideagraph/pkg/observability"
	"github.com/ideagraph/ideagraph/pkg/render"
)

// Default colors for the SVG sink. Chosen to match the canvas host's
// default theme.
const (
	defaultBackground = "#fafafa"
	nodeFill          = "#ffffff"
	nodeStroke        = "#444444"
	selectionStroke   = "#2f6fde"
	connectionStroke  = "#888888"
	rubberBandStroke  = "#2f6fde"
	areaFill          = "rgba(47,111,222,0.12)"
	minimapFill       = "rgba(255,255,255,0.85)"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	showLabels bool
}

// WithBackground sets the canvas background color (any SVG color string).
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithLabels draws node display names under each circle.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.showLabels = true } }

// RenderSVG serializes a frame to an SVG document.
func RenderSVG(f *render.Frame, opts ...SVGOption) []byte {
	start := time.Now()
	r := svgRenderer{background: defaultBackground}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		f.Size.X, f.Size.Y, f.Size.X, f.Size.Y)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)

	// Connections behind nodes, rubber band and overlays on top.
	for _, c := range f.Connections {
		fmt.Fprintf(&buf, `  <line id="conn-%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1.5"/>`+"\n",
			c.ID, c.From.X, c.From.Y, c.To.X, c.To.Y, connectionStroke)
	}

	for _, n := range f.Nodes {
		if n.Selected {
			fmt.Fprintf(&buf, `  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="3"/>`+"\n",
				n.Center.X, n.Center.Y, n.Radius+4, selectionStroke)
		}
		fmt.Fprintf(&buf, `  <circle id="node-%s" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
			n.ID, n.Center.X, n.Center.Y, n.Radius, nodeFill, nodeStroke)
		if r.showLabels && n.Label != "" {
			fmt.Fprintf(&buf, `  <text x="%.2f" y="%.2f" text-anchor="middle" font-size="12">%s</text>`+"\n",
				n.Center.X, n.Center.Y+n.Radius+14, escapeText(n.Label))
		}
	}

	if rb := f.RubberBand; rb != nil {
		fmt.Fprintf(&buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1.5" stroke-dasharray="5,3"/>`+"\n",
			rb.From.X, rb.From.Y, rb.To.X, rb.To.Y, rubberBandStroke)
	}

	if a := f.AreaRect; a != nil {
		fmt.Fprintf(&buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-dasharray="4,2"/>`+"\n",
			a.Min.X, a.Min.Y, a.Width(), a.Height(), areaFill, selectionStroke)
	}

	if m := f.Minimap; m != nil {
		fmt.Fprintf(&buf, `  <g transform="translate(%.2f,%.2f)">`+"\n", m.Origin.X, m.Origin.Y)
		fmt.Fprintf(&buf, `    <rect width="%.2f" height="%.2f" fill="%s" stroke="%s"/>`+"\n",
			m.Size.X, m.Size.Y, minimapFill, nodeStroke)
		for _, nr := range m.Nodes {
			fmt.Fprintf(&buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
				nr.Min.X, nr.Min.Y, nr.Width(), nr.Height(), nodeStroke)
		}
		v := m.Viewport
		fmt.Fprintf(&buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n",
			v.Min.X, v.Min.Y, v.Width(), v.Height(), selectionStroke)
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	out := buf.Bytes()
	observability.Render().OnSink("svg", len(out), time.Since(start), nil)
	return out
}

// escapeText replaces the XML-significant characters in a label.
func escapeText(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
