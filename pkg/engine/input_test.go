package engine

import (
	"math"
	"testing"
	"time"

	"github.com/ideagraph/ideagraph/pkg/geom"
	"github.com/ideagraph/ideagraph/pkg/scene"
)

// drag performs a pointer down on from, a move to to, and a release there.
func drag(e *Engine, from, to geom.Vec) {
	e.PointerDown(from, Modifiers{})
	e.PointerMove(to, Modifiers{})
	e.PointerUp(to, Modifiers{})
}

// The drag threshold default is 5 screen px: travel at or below 5 is a
// click, travel beyond is a drag. Verified at the boundary and one pixel to
// each side.
func TestClickDragThresholdBoundary(t *testing.T) {
	tests := []struct {
		name     string
		travel   float64
		wantDrag bool
	}{
		{"NoMovement", 0, false},
		{"BelowThreshold", 4, false},
		{"ExactlyThreshold", 5, false},
		{"JustBeyondThreshold", 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, log, _ := newTestEngine(t, node("a", 100, 100))
			start := geom.Vec{X: 100, Y: 100}
			end := geom.Vec{X: 100 + tt.travel, Y: 100}

			drag(e, start, end)
			checkInvariants(t, e)

			_, moved := log.moved["a"]
			if moved != tt.wantDrag {
				t.Errorf("travel %v px: moved = %v, want %v", tt.travel, moved, tt.wantDrag)
			}
			if tt.wantDrag {
				if got := e.Scene().Node("a").Pos; got != end {
					t.Errorf("node position = %v, want %v", got, end)
				}
			} else if got := e.Scene().Node("a").Pos; got != start {
				t.Errorf("node position = %v, want unchanged %v", got, start)
			}
		})
	}
}

func TestSlowClickIsIgnored(t *testing.T) {
	e, log, clk := newTestEngine(t)

	e.PointerDown(geom.Vec{X: 400, Y: 300}, Modifiers{})
	clk.advance(DefaultClickTimeout + time.Millisecond)
	e.PointerUp(geom.Vec{X: 400, Y: 300}, Modifiers{})

	if len(log.created) != 0 {
		t.Errorf("create-entity intents = %v, want none for a slow press", log.created)
	}
}

// Two nodes at (100,100) and (140,100) with radius 20 and separation 10:
// dragging the first toward (135,100) must commit at a position at least 50
// world units from the second node's center.
func TestDragResolvesCollision(t *testing.T) {
	e, log, _ := newTestEngine(t, node("n1", 100, 100), node("n2", 140, 100))

	drag(e, geom.Vec{X: 100, Y: 100}, geom.Vec{X: 135, Y: 100})
	checkInvariants(t, e)

	committed, ok := log.moved["n1"]
	if !ok {
		t.Fatal("no move intent emitted")
	}
	if dist := committed.Dist(geom.Vec{X: 140, Y: 100}); dist < 50 {
		t.Errorf("committed position %v is %.3f from n2, want >= 50", committed, dist)
	}
	if got := e.Scene().Node("n1").Pos; got != committed {
		t.Errorf("scene position %v disagrees with intent %v", got, committed)
	}
	if err := e.Scene().Validate(); err != nil {
		t.Errorf("Validate after drag commit = %v", err)
	}
}

func TestDragSessionTracksCandidate(t *testing.T) {
	e, _, _ := newTestEngine(t, node("a", 100, 100), node("b", 400, 100))

	e.PointerDown(geom.Vec{X: 100, Y: 100}, Modifiers{})
	e.PointerMove(geom.Vec{X: 200, Y: 100}, Modifiers{})
	checkInvariants(t, e)

	d, ok := e.Drag()
	if !ok {
		t.Fatal("no drag session")
	}
	if d.NodeID != "a" || d.StartWorld != (geom.Vec{X: 100, Y: 100}) {
		t.Errorf("session = %+v", d)
	}
	if d.CandidatePos != (geom.Vec{X: 200, Y: 100}) {
		t.Errorf("candidate = %v, want free position returned unchanged", d.CandidatePos)
	}

	// The scene position is untouched until commit.
	if got := e.Scene().Node("a").Pos; got != (geom.Vec{X: 100, Y: 100}) {
		t.Errorf("node moved before commit: %v", got)
	}
}

func TestEscapeCancelsDrag(t *testing.T) {
	e, log, _ := newTestEngine(t, node("a", 100, 100))

	e.PointerDown(geom.Vec{X: 100, Y: 100}, Modifiers{})
	e.PointerMove(geom.Vec{X: 250, Y: 250}, Modifiers{})
	e.KeyDown(KeyEscape)
	checkInvariants(t, e)

	if e.Mode() != ModeSingleSelect {
		t.Errorf("mode = %v, want single-select after cancel", e.Mode())
	}
	if got := e.Scene().Node("a").Pos; got != (geom.Vec{X: 100, Y: 100}) {
		t.Errorf("node position = %v, want unchanged after cancel", got)
	}
	if len(log.moved) != 0 {
		t.Errorf("move intents = %v, want none after cancel", log.moved)
	}
}

func TestDragOfExternallyDeletedNodeIsDiscarded(t *testing.T) {
	e, log, _ := newTestEngine(t, node("a", 100, 100))

	e.PointerDown(geom.Vec{X: 100, Y: 100}, Modifiers{})
	e.PointerMove(geom.Vec{X: 200, Y: 200}, Modifiers{})
	e.Scene().RemoveNode("a")
	e.PointerMove(geom.Vec{X: 210, Y: 210}, Modifiers{})
	e.PointerUp(geom.Vec{X: 210, Y: 210}, Modifiers{})
	checkInvariants(t, e)

	if e.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle after stale drag", e.Mode())
	}
	if len(log.moved) != 0 {
		t.Errorf("move intents = %v, want none", log.moved)
	}
	if len(e.SelectedIDs()) != 0 {
		t.Errorf("selection = %v, want empty", e.SelectedIDs())
	}
}

func TestPanOnEmptyCanvas(t *testing.T) {
	e, log, _ := newTestEngine(t)

	e.PointerDown(geom.Vec{X: 400, Y: 300}, Modifiers{})
	e.PointerMove(geom.Vec{X: 430, Y: 320}, Modifiers{})
	e.PointerUp(geom.Vec{X: 430, Y: 320}, Modifiers{})
	checkInvariants(t, e)

	// Content follows the pointer: pan moved by -delta/zoom.
	if got := e.Camera().Pan(); got != (geom.Vec{X: -30, Y: -20}) {
		t.Errorf("pan = %v, want (-30,-20)", got)
	}
	if len(log.created) != 0 {
		t.Errorf("create-entity intents = %v, want none after a pan", log.created)
	}
}

func TestAreaSelect(t *testing.T) {
	e, log, _ := newTestEngine(t,
		node("a", 100, 100), node("b", 200, 150), node("c", 600, 500))
	shift := Modifiers{Shift: true}

	e.PointerDown(geom.Vec{X: 50, Y: 50}, shift)
	e.PointerMove(geom.Vec{X: 300, Y: 200}, shift)

	if r, ok := e.AreaSelection(); !ok {
		t.Fatal("no area selection in progress")
	} else if !r.Contains(geom.Vec{X: 100, Y: 100}) {
		t.Errorf("area rect %v should contain (100,100)", r)
	}

	e.PointerUp(geom.Vec{X: 300, Y: 200}, shift)
	checkInvariants(t, e)

	got := e.SelectedIDs()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("selection = %v, want [a b]", got)
	}
	if e.Mode() != ModeMultiSelect {
		t.Errorf("mode = %v, want multi-select", e.Mode())
	}
	// The shift press never pans.
	if e.Camera().Pan() != (geom.Vec{}) {
		t.Errorf("pan = %v, want unchanged", e.Camera().Pan())
	}
	if len(log.created) != 0 {
		t.Errorf("create-entity intents = %v, want none", log.created)
	}
}

func TestWheelZoomsAtCursor(t *testing.T) {
	e, _, _ := newTestEngine(t)
	anchor := geom.Vec{X: 200, Y: 150}
	before := e.Camera().ScreenToWorld(anchor)

	e.Wheel(anchor, -120) // one notch in
	if got := e.Camera().Zoom(); math.Abs(got-DefaultWheelZoomStep) > 1e-9 {
		t.Errorf("zoom = %v, want %v", got, DefaultWheelZoomStep)
	}
	if after := e.Camera().ScreenToWorld(anchor); after.Dist(before) > 1e-9 {
		t.Errorf("anchor world point moved: %v -> %v", before, after)
	}

	e.Wheel(anchor, 120) // one notch back out
	if got := e.Camera().Zoom(); math.Abs(got-1) > 1e-9 {
		t.Errorf("zoom = %v, want 1 after symmetric wheel", got)
	}

	e.Wheel(anchor, math.NaN()) // garbage deltas are ignored
	if got := e.Camera().Zoom(); math.Abs(got-1) > 1e-9 {
		t.Errorf("zoom = %v after NaN delta, want 1", got)
	}
}

func TestResyncDropsStaleState(t *testing.T) {
	e, _, _ := newTestEngine(t, node("a", 100, 100), node("b", 300, 100))

	click(e, geom.Vec{X: 100, Y: 100}, Modifiers{Ctrl: true})
	click(e, geom.Vec{X: 300, Y: 100}, Modifiers{Ctrl: true})

	e.Scene().RemoveNode("a")
	e.Resync()
	checkInvariants(t, e)

	got := e.SelectedIDs()
	if len(got) != 1 || got[0] != "b" {
		t.Errorf("selection = %v, want [b]", got)
	}
	if e.Mode() != ModeSingleSelect {
		t.Errorf("mode = %v, want single-select", e.Mode())
	}

	// A pending connection whose source vanished is cancelled.
	click(e, geom.Vec{X: 300, Y: 100}, Modifiers{Shift: true, Alt: true})
	e.Scene().RemoveNode("b")
	e.Resync()
	checkInvariants(t, e)
	if e.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle", e.Mode())
	}
}

func TestResyncRebuildsIndex(t *testing.T) {
	e, _, _ := newTestEngine(t, node("a", 100, 100))

	e.Scene().AddNode(node("b", 400, 300))
	e.Resync()

	if !e.Index().Overlaps(geom.Vec{X: 400, Y: 300}, 20, "other") {
		t.Error("index does not know the externally added node")
	}
}

func TestFrameRequestsAreCoalesced(t *testing.T) {
	frames := 0
	s := scene.New()
	s.AddNode(node("a", 100, 100))
	e := New(s, Config{
		CanvasSize:   geom.Vec{X: 800, Y: 600},
		RequestFrame: func() { frames++ },
	}, Intents{})

	e.PointerDown(geom.Vec{X: 100, Y: 100}, Modifiers{})
	e.PointerMove(geom.Vec{X: 120, Y: 100}, Modifiers{})
	e.PointerMove(geom.Vec{X: 140, Y: 100}, Modifiers{})

	if frames != 1 {
		t.Fatalf("frames requested = %d, want 1 while one is outstanding", frames)
	}

	e.FrameDone()
	e.PointerUp(geom.Vec{X: 140, Y: 100}, Modifiers{})

	if frames != 2 {
		t.Errorf("frames requested = %d, want 2 after FrameDone", frames)
	}
}

func TestPlaceNew(t *testing.T) {
	e, _, _ := newTestEngine(t)

	// Empty scene: the viewport center is free and returned unchanged.
	center := e.Camera().ScreenToWorld(geom.Vec{X: 400, Y: 300})
	if got := e.PlaceNew(20); got != center {
		t.Errorf("PlaceNew = %v, want viewport center %v", got, center)
	}

	// Occupied center: the placement moves out to a free position.
	e.Scene().AddNode(scene.Node{ID: "x", Pos: center, Radius: 20})
	e.Resync()
	got := e.PlaceNew(20)
	if dist := got.Dist(center); dist < 50 {
		t.Errorf("PlaceNew = %v, only %.3f from occupied center", got, dist)
	}

	// Invalid radius saturates to the default instead of failing.
	if got := e.PlaceNew(-1); got.Dist(center) < 50 {
		t.Errorf("PlaceNew with negative radius = %v, want displaced", got)
	}
}
