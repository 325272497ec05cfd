// Package camera implements the viewport transform between world coordinates
// (fixed content space) and screen coordinates (pixels inside the canvas).
//
// The mapping is screen = (world - pan) * zoom, with the canvas origin at
// screen (0,0). WorldToScreen and ScreenToWorld are exact inverses of each
// other; collision checks elsewhere depend on that round-trip fidelity, so
// no precision-losing shortcuts are taken.
//
// No method in this package returns an error. Out-of-range inputs are
// clamped or ignored rather than rejected: the camera must stay usable under
// continuous pointer input.
package camera

import (
	"math"

	"github.com/ideagraph/ideagraph/pkg/geom"
)

// Zoom limits applied by every zoom mutation.
const (
	ZoomMin = 0.1
	ZoomMax = 10.0
)

// Camera holds the mutable viewport state for one canvas instance: pan
// offset, zoom level, and the canvas size in pixels. The zero value is not
// usable; call New.
//
// Camera is not safe for concurrent use. The interaction engine owns it and
// mutates it only from the event-handling goroutine.
type Camera struct {
	pan  geom.Vec // world coordinate shown at screen (0,0)
	zoom float64
	size geom.Vec // canvas extent in screen pixels
}

// New creates a camera for a canvas of the given pixel size, at zoom 1 with
// the world origin in the top-left corner.
func New(size geom.Vec) *Camera {
	return &Camera{zoom: 1, size: size}
}

// Pan returns the world coordinate currently shown at screen (0,0).
func (c *Camera) Pan() geom.Vec { return c.pan }

// Zoom returns the current zoom level.
func (c *Camera) Zoom() float64 { return c.zoom }

// Size returns the canvas size in screen pixels.
func (c *Camera) Size() geom.Vec { return c.size }

// Resize updates the canvas pixel size. Pan and zoom are unchanged, so the
// world point in the top-left corner stays put.
func (c *Camera) Resize(size geom.Vec) {
	c.size = geom.Vec{X: math.Max(1, size.X), Y: math.Max(1, size.Y)}
}

// WorldToScreen maps a world coordinate to a screen pixel under the current
// viewport.
func (c *Camera) WorldToScreen(p geom.Vec) geom.Vec {
	return p.Sub(c.pan).Scale(c.zoom)
}

// ScreenToWorld maps a screen pixel to the world coordinate it shows.
// It is the exact inverse of WorldToScreen.
func (c *Camera) ScreenToWorld(s geom.Vec) geom.Vec {
	return s.Scale(1 / c.zoom).Add(c.pan)
}

// ZoomAt rescales the zoom level by factor, clamped to [ZoomMin, ZoomMax],
// and adjusts pan so the world point under the screen anchor stays under it
// after the rescale. This is the "zoom toward cursor" contract used by
// wheel zoom.
//
// Non-positive or non-finite factors are ignored.
func (c *Camera) ZoomAt(anchor geom.Vec, factor float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	world := c.ScreenToWorld(anchor)
	c.zoom = geom.Clamp(c.zoom*factor, ZoomMin, ZoomMax)
	c.pan = world.Sub(anchor.Scale(1 / c.zoom))
}

// SetZoom sets the zoom level directly, clamped to [ZoomMin, ZoomMax],
// keeping the screen center anchored. Used by toolbar zoom buttons.
func (c *Camera) SetZoom(zoom float64) {
	if zoom <= 0 || math.IsNaN(zoom) {
		return
	}
	c.ZoomAt(c.size.Scale(0.5), geom.Clamp(zoom, ZoomMin, ZoomMax)/c.zoom)
}

// PanBy shifts the viewport by a screen-space delta. A positive delta moves
// the content with the pointer, i.e. pan decreases by delta/zoom. Panning is
// unclamped: content may be moved arbitrarily far off screen.
func (c *Camera) PanBy(deltaScreen geom.Vec) {
	c.pan = c.pan.Sub(deltaScreen.Scale(1 / c.zoom))
}

// CenterOn pans so that the given world point sits in the middle of the
// canvas, preserving the current zoom.
func (c *Camera) CenterOn(world geom.Vec) {
	c.pan = world.Sub(c.size.Scale(0.5 / c.zoom))
}

// Reset restores zoom 1 with the world origin centered in the canvas.
// The operation is deterministic and idempotent.
func (c *Camera) Reset() {
	c.zoom = 1
	c.CenterOn(geom.Vec{})
}

// FitTo sets pan and zoom so that bounds (plus margin on every side, in
// world units) fills the canvas, centered. The resulting zoom is clamped to
// [ZoomMin, ZoomMax]. Empty bounds fall back to Reset.
func (c *Camera) FitTo(bounds geom.Rect, margin float64) {
	bounds = bounds.Expand(margin)
	if bounds.Empty() {
		c.Reset()
		return
	}
	c.zoom = geom.Clamp(
		math.Min(c.size.X/bounds.Width(), c.size.Y/bounds.Height()),
		ZoomMin, ZoomMax,
	)
	c.CenterOn(bounds.Center())
}

// VisibleWorldRect returns the world-space region currently shown by the
// canvas. The minimap renders this as the viewport rectangle.
func (c *Camera) VisibleWorldRect() geom.Rect {
	return geom.Rect{
		Min: c.ScreenToWorld(geom.Vec{}),
		Max: c.ScreenToWorld(c.size),
	}
}
