// Package minimap keeps a scaled overview of the canvas in sync with the
// live viewport. The minimap draws every node plus a rectangle marking the
// region the main canvas currently shows, and feeds pointer input on either
// back into the camera.
//
// All mappings are recomputed from the scene and camera on demand, so the
// overview can never go stale after nodes move or the viewport changes.
package minimap

import (
	"math"

	"github.com/ideagraph/ideagraph/pkg/camera"
	"github.com/ideagraph/ideagraph/pkg/geom"
	"github.com/ideagraph/ideagraph/pkg/scene"
)

// Defaults for a freshly constructed minimap.
const (
	DefaultSize   = 200.0 // square side length in pixels
	DefaultMargin = 8.0   // padding between content and the minimap edge
)

// Map projects the scene's content bounding box into a small pixel
// rectangle and answers both directions of the mapping. It does not own the
// camera or the scene; the interaction engine mutates those, the minimap
// only reads them (and pans the camera on minimap navigation).
type Map struct {
	scn    *scene.Scene
	cam    *camera.Camera
	size   geom.Vec
	margin float64
}

// New creates a minimap over the given scene and camera at DefaultSize.
func New(scn *scene.Scene, cam *camera.Camera) *Map {
	return &Map{
		scn:    scn,
		cam:    cam,
		size:   geom.Vec{X: DefaultSize, Y: DefaultSize},
		margin: DefaultMargin,
	}
}

// Size returns the minimap extent in pixels.
func (m *Map) Size() geom.Vec { return m.size }

// Resize changes the minimap extent. Degenerate sizes are raised to one
// pixel so the projection stays defined.
func (m *Map) Resize(size geom.Vec) {
	m.size = geom.Vec{X: math.Max(1, size.X), Y: math.Max(1, size.Y)}
}

// contentRect is the region the minimap depicts: the bounding box of all
// nodes, or the camera's visible rect when the scene is empty so the
// viewport rectangle still renders sensibly.
func (m *Map) contentRect() geom.Rect {
	r := m.scn.Bounds()
	if r.Empty() {
		return m.cam.VisibleWorldRect()
	}
	return r
}

// Scale returns world-units-to-minimap-pixels factor: the inner minimap
// size (after margin) divided by the longer side of the content bounding
// box. Uniform in both axes so shapes keep their aspect ratio.
func (m *Map) Scale() float64 {
	bb := m.contentRect()
	extent := math.Max(bb.Width(), bb.Height())
	if extent <= 0 {
		extent = 1
	}
	inner := math.Min(m.size.X, m.size.Y) - 2*m.margin
	if inner <= 0 {
		inner = 1
	}
	return inner / extent
}

// origin returns the minimap pixel where the content rect's top-left corner
// lands. The content is centered inside the minimap.
func (m *Map) origin() geom.Vec {
	bb := m.contentRect()
	s := m.Scale()
	used := geom.Vec{X: bb.Width() * s, Y: bb.Height() * s}
	return m.size.Sub(used).Scale(0.5)
}

// WorldToMap projects a world coordinate onto the minimap.
func (m *Map) WorldToMap(p geom.Vec) geom.Vec {
	return p.Sub(m.contentRect().Min).Scale(m.Scale()).Add(m.origin())
}

// MapToWorld is the inverse of WorldToMap.
func (m *Map) MapToWorld(p geom.Vec) geom.Vec {
	return p.Sub(m.origin()).Scale(1 / m.Scale()).Add(m.contentRect().Min)
}

// ViewportRect returns the main viewport's visible world region projected
// into minimap pixels. Recomputed from the camera every call.
func (m *Map) ViewportRect() geom.Rect {
	v := m.cam.VisibleWorldRect()
	return geom.Rect{Min: m.WorldToMap(v.Min), Max: m.WorldToMap(v.Max)}
}

// NodeRect returns a node's bounding circle box in minimap pixels, for
// rendering the overview dots.
func (m *Map) NodeRect(n *scene.Node) geom.Rect {
	b := n.Bounds()
	return geom.Rect{Min: m.WorldToMap(b.Min), Max: m.WorldToMap(b.Max)}
}

// Click centers the main viewport on the world point under the clicked
// minimap pixel, preserving the current zoom.
func (m *Map) Click(p geom.Vec) {
	m.cam.CenterOn(m.MapToWorld(p))
}

// DragViewport pans the main viewport by a minimap-pixel delta, i.e. the
// world moves by delta divided by the minimap scale. Used while the user
// drags the viewport rectangle.
func (m *Map) DragViewport(delta geom.Vec) {
	center := m.cam.VisibleWorldRect().Center().Add(delta.Scale(1 / m.Scale()))
	m.cam.CenterOn(center)
}

// Fit resets the main viewport to bound all content with a margin, the
// "fit to content" toolbar action. Empty scenes reset the camera.
func (m *Map) Fit() {
	m.cam.FitTo(m.scn.Bounds(), scene.DefaultNodeRadius)
}
