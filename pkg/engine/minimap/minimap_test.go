package minimap

import (
	"math"
	"testing"

	"github.com/ideagraph/ideagraph/pkg/camera"
	"github.com/ideagraph/ideagraph/pkg/geom"
	"github.com/ideagraph/ideagraph/pkg/scene"
)

func newTestMap(t *testing.T, nodes ...scene.Node) (*Map, *camera.Camera, *scene.Scene) {
	t.Helper()
	s := scene.New()
	for _, n := range nodes {
		if err := s.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	cam := camera.New(geom.Vec{X: 800, Y: 600})
	return New(s, cam), cam, s
}

func node(id string, x, y float64) scene.Node {
	return scene.Node{ID: id, Pos: geom.Vec{X: x, Y: y}, Radius: 20}
}

func TestScale(t *testing.T) {
	// Content bounding box spans x [80,520] (width 440) and y [80,220]
	// (height 140): scale = (200 - 2*8) / 440.
	m, _, _ := newTestMap(t, node("a", 100, 100), node("b", 500, 200))

	want := (DefaultSize - 2*DefaultMargin) / 440.0
	if got := m.Scale(); math.Abs(got-want) > 1e-9 {
		t.Errorf("Scale() = %v, want %v", got, want)
	}
}

func TestScaleTracksContentChanges(t *testing.T) {
	m, _, s := newTestMap(t, node("a", 100, 100), node("b", 500, 200))
	before := m.Scale()

	if err := s.AddNode(node("c", 1000, 100)); err != nil {
		t.Fatal(err)
	}
	if after := m.Scale(); after >= before {
		t.Errorf("scale %v did not shrink from %v after content grew", after, before)
	}

	s.RemoveNode("c")
	if got := m.Scale(); math.Abs(got-before) > 1e-9 {
		t.Errorf("scale = %v after removal, want %v restored", got, before)
	}
}

func TestWorldMapRoundTrip(t *testing.T) {
	m, _, _ := newTestMap(t, node("a", 100, 100), node("b", 500, 200))

	for _, p := range []geom.Vec{
		{X: 100, Y: 100},
		{X: 500, Y: 200},
		{X: 300, Y: 150},
		{X: -40, Y: 600},
	} {
		got := m.MapToWorld(m.WorldToMap(p))
		if got.Dist(p) > 1e-9 {
			t.Errorf("round trip of %v = %v", p, got)
		}
	}
}

func TestViewportRectFollowsCamera(t *testing.T) {
	m, cam, _ := newTestMap(t, node("a", 100, 100), node("b", 500, 200))

	before := m.ViewportRect()
	cam.PanBy(geom.Vec{X: -100, Y: 0}) // content left, viewport right in world
	after := m.ViewportRect()

	if after.Min.X <= before.Min.X {
		t.Errorf("viewport rect did not follow pan: %v -> %v", before, after)
	}
	if w, h := after.Width(), before.Width(); math.Abs(w-h) > 1e-9 {
		t.Errorf("viewport width changed under pure pan: %v -> %v", h, w)
	}

	cam.SetZoom(2)
	zoomed := m.ViewportRect()
	if zoomed.Width() >= after.Width() {
		t.Errorf("viewport rect did not shrink when zooming in: %v -> %v",
			after.Width(), zoomed.Width())
	}
}

func TestClickCentersViewport(t *testing.T) {
	m, cam, _ := newTestMap(t, node("a", 100, 100), node("b", 500, 200))
	cam.SetZoom(2)
	zoom := cam.Zoom()

	target := geom.Vec{X: 500, Y: 200}
	m.Click(m.WorldToMap(target))

	center := cam.ScreenToWorld(cam.Size().Scale(0.5))
	if center.Dist(target) > 1e-9 {
		t.Errorf("viewport center = %v, want %v", center, target)
	}
	if cam.Zoom() != zoom {
		t.Errorf("zoom = %v, want preserved %v", cam.Zoom(), zoom)
	}
}

func TestDragViewportPansProportionally(t *testing.T) {
	m, cam, _ := newTestMap(t, node("a", 100, 100), node("b", 500, 200))
	before := cam.VisibleWorldRect().Center()

	delta := geom.Vec{X: 10, Y: 5}
	m.DragViewport(delta)

	want := before.Add(delta.Scale(1 / m.Scale()))
	got := cam.VisibleWorldRect().Center()
	if got.Dist(want) > 1e-9 {
		t.Errorf("viewport center = %v, want %v", got, want)
	}
}

func TestEmptySceneFallsBackToVisibleRect(t *testing.T) {
	m, cam, _ := newTestMap(t)

	if s := m.Scale(); s <= 0 || math.IsInf(s, 0) || math.IsNaN(s) {
		t.Fatalf("Scale() = %v on empty scene", s)
	}
	// The viewport rectangle fills the content area when the viewport is all
	// there is to show.
	v := m.ViewportRect()
	if v.Empty() {
		t.Errorf("viewport rect %v is empty", v)
	}

	m.Fit()
	if cam.Zoom() != 1 {
		t.Errorf("Fit on empty scene: zoom = %v, want reset to 1", cam.Zoom())
	}
}

func TestFitBoundsAllNodes(t *testing.T) {
	m, cam, s := newTestMap(t, node("a", 100, 100), node("b", 2000, 1500))

	m.Fit()
	visible := cam.VisibleWorldRect()
	for _, n := range s.Nodes() {
		b := n.Bounds()
		if !visible.Contains(b.Min) || !visible.Contains(b.Max) {
			t.Errorf("node %s bounds %v not inside visible rect %v", n.ID, b, visible)
		}
	}
}

func TestResizeGuardsDegenerateSizes(t *testing.T) {
	m, _, _ := newTestMap(t, node("a", 100, 100), node("b", 500, 200))

	m.Resize(geom.Vec{X: 0, Y: -5})
	if s := m.Scale(); s <= 0 || math.IsNaN(s) {
		t.Errorf("Scale() = %v after degenerate resize", s)
	}
}
