package render

import (
	"time"

	"github.com/ideagraph/ideagraph/pkg/camera"
	"github.com/ideagraph/ideagraph/pkg/engine/minimap"
	"github.com/ideagraph/ideagraph/pkg/geom"
	"github.com/ideagraph/ideagraph/pkg/observability"
	"github.com/ideagraph/ideagraph/pkg/scene"
)

// NodeShape is one node projected into screen space.
type NodeShape struct {
	ID       string
	Label    string // display name from metadata, empty if absent
	Center   geom.Vec
	Radius   float64 // screen pixels (world radius times zoom)
	Selected bool
}

// ConnectionShape is one connection projected into screen space. Endpoints
// are the node centers; sinks draw the curve and clip at node boundaries.
type ConnectionShape struct {
	ID   string
	Kind string
	From geom.Vec
	To   geom.Vec
}

// Line is a straight screen-space segment, used for the rubber band while a
// connection gesture is in progress.
type Line struct {
	From geom.Vec
	To   geom.Vec
}

// MinimapInset is the overview panel: its placement on screen plus node dots
// and the viewport rectangle in panel-local pixels.
type MinimapInset struct {
	Origin   geom.Vec // top-left corner on screen
	Size     geom.Vec
	Nodes    []geom.Rect
	Viewport geom.Rect
}

// Frame is the drawable display list for one canvas state. It is plain data:
// sinks turn it into SVG or PNG, hosts turn it into draw calls.
type Frame struct {
	Size        geom.Vec // canvas size in screen pixels
	Zoom        float64
	Nodes       []NodeShape
	Connections []ConnectionShape
	RubberBand  *Line
	AreaRect    *geom.Rect // screen-space area-select rectangle
	Minimap     *MinimapInset
}

// Primitives returns the number of drawable elements in the frame.
func (f *Frame) Primitives() int {
	n := len(f.Nodes) + len(f.Connections)
	if f.RubberBand != nil {
		n++
	}
	if f.AreaRect != nil {
		n++
	}
	if f.Minimap != nil {
		n += 1 + len(f.Minimap.Nodes)
	}
	return n
}

// Option configures frame production via [Build].
type Option func(*builder)

type builder struct {
	selected   map[string]bool
	rubberFrom string
	cursor     geom.Vec
	hasRubber  bool
	areaRect   *geom.Rect
	mini       *minimap.Map
	miniOrigin geom.Vec
}

// WithSelection marks the given node IDs as selected so sinks can draw
// their halos.
func WithSelection(ids []string) Option {
	return func(b *builder) {
		b.selected = make(map[string]bool, len(ids))
		for _, id := range ids {
			b.selected[id] = true
		}
	}
}

// WithRubberBand draws the in-progress connection line from the source
// node's center to the live cursor position (screen pixels).
func WithRubberBand(sourceID string, cursorScreen geom.Vec) Option {
	return func(b *builder) {
		b.rubberFrom = sourceID
		b.cursor = cursorScreen
		b.hasRubber = true
	}
}

// WithAreaRect draws the area-select rectangle. The rectangle is given in
// world coordinates and projected like everything else.
func WithAreaRect(world geom.Rect) Option {
	return func(b *builder) { b.areaRect = &world }
}

// WithMinimap includes the overview inset anchored at the given screen
// position.
func WithMinimap(m *minimap.Map, origin geom.Vec) Option {
	return func(b *builder) {
		b.mini = m
		b.miniOrigin = origin
	}
}

// Build produces the display list for the current scene and viewport. It is
// a pure function of its inputs: nothing in the scene, camera, or minimap is
// mutated, and calling it twice with the same state yields the same frame.
func Build(scn *scene.Scene, cam *camera.Camera, opts ...Option) *Frame {
	start := time.Now()
	var b builder
	for _, opt := range opts {
		opt(&b)
	}

	f := &Frame{Size: cam.Size(), Zoom: cam.Zoom()}

	for _, n := range scn.Nodes() {
		label, _ := n.Meta["name"].(string)
		f.Nodes = append(f.Nodes, NodeShape{
			ID:       n.ID,
			Label:    label,
			Center:   cam.WorldToScreen(n.Pos),
			Radius:   n.Radius * cam.Zoom(),
			Selected: b.selected[n.ID],
		})
	}

	for _, c := range scn.Connections() {
		from, to := scn.Node(c.From), scn.Node(c.To)
		if from == nil || to == nil {
			continue
		}
		f.Connections = append(f.Connections, ConnectionShape{
			ID:   c.ID,
			Kind: c.Kind,
			From: cam.WorldToScreen(from.Pos),
			To:   cam.WorldToScreen(to.Pos),
		})
	}

	if b.hasRubber {
		if src := scn.Node(b.rubberFrom); src != nil {
			f.RubberBand = &Line{From: cam.WorldToScreen(src.Pos), To: b.cursor}
		}
	}

	if b.areaRect != nil {
		r := geom.Rect{
			Min: cam.WorldToScreen(b.areaRect.Min),
			Max: cam.WorldToScreen(b.areaRect.Max),
		}
		f.AreaRect = &r
	}

	if b.mini != nil {
		inset := &MinimapInset{
			Origin:   b.miniOrigin,
			Size:     b.mini.Size(),
			Viewport: b.mini.ViewportRect(),
		}
		for _, n := range scn.Nodes() {
			inset.Nodes = append(inset.Nodes, b.mini.NodeRect(n))
		}
		f.Minimap = inset
	}

	observability.Render().OnFrame(f.Primitives(), time.Since(start))
	return f
}
