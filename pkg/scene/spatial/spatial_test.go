package spatial

import (
	"testing"

	"github.com/ideagraph/ideagraph/pkg/geom"
	"github.com/ideagraph/ideagraph/pkg/scene"
)

func TestOverlapsBoundary(t *testing.T) {
	ix := NewIndex()
	ix.Insert("a", geom.Vec{X: 0, Y: 0}, 20)

	// Required distance is 20 + 20 + 10 (separation) = 50.
	tests := []struct {
		name string
		pos  geom.Vec
		want bool
	}{
		{"WellClear", geom.Vec{X: 100, Y: 0}, false},
		{"ExactlyAtLimit", geom.Vec{X: 50, Y: 0}, false},
		{"JustInside", geom.Vec{X: 49.999, Y: 0}, true},
		{"Coincident", geom.Vec{X: 0, Y: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ix.Overlaps(tt.pos, 20, ""); got != tt.want {
				t.Errorf("Overlaps(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestOverlapsExcludesSelf(t *testing.T) {
	ix := NewIndex()
	ix.Insert("a", geom.Vec{X: 0, Y: 0}, 20)

	if ix.Overlaps(geom.Vec{X: 1, Y: 1}, 20, "a") {
		t.Error("node should not collide with its own indexed position")
	}
	if !ix.Overlaps(geom.Vec{X: 1, Y: 1}, 20, "other") {
		t.Error("exclusion leaked to a different ID")
	}
}

func TestNearestFreeReturnsFreePositionUnchanged(t *testing.T) {
	ix := NewIndex()
	ix.Insert("a", geom.Vec{X: 0, Y: 0}, 20)

	desired := geom.Vec{X: 200, Y: 200}
	if got := ix.NearestFree(desired, 20, ""); got != desired {
		t.Errorf("NearestFree = %v, want desired position unchanged", got)
	}
}

// Two nodes at (100,100) and (140,100) with radius 20: dragging the first
// toward (135,100) must resolve to a position at least 50 world units from
// the second node's center.
func TestNearestFreeResolvesDragCollision(t *testing.T) {
	ix := NewIndex()
	ix.Insert("n1", geom.Vec{X: 100, Y: 100}, 20)
	ix.Insert("n2", geom.Vec{X: 140, Y: 100}, 20)

	got := ix.NearestFree(geom.Vec{X: 135, Y: 100}, 20, "n1")

	if dist := got.Dist(geom.Vec{X: 140, Y: 100}); dist < 50 {
		t.Errorf("resolved position %v is %.3f from n2, want >= 50", got, dist)
	}
	if ix.Overlaps(got, 20, "n1") {
		t.Errorf("resolved position %v still overlaps", got)
	}
}

func TestNearestFreeIsDeterministic(t *testing.T) {
	build := func() *Index {
		ix := NewIndex()
		ix.Insert("a", geom.Vec{X: 0, Y: 0}, 20)
		ix.Insert("b", geom.Vec{X: 45, Y: 30}, 20)
		ix.Insert("c", geom.Vec{X: -40, Y: -10}, 15)
		return ix
	}

	first := build().NearestFree(geom.Vec{X: 10, Y: 5}, 20, "")
	for i := 0; i < 5; i++ {
		if got := build().NearestFree(geom.Vec{X: 10, Y: 5}, 20, ""); got != first {
			t.Fatalf("run %d returned %v, first run returned %v", i, got, first)
		}
	}
}

// With a neighbor too large to escape within the capped search radius, the
// search must terminate and return the least-overlapping candidate instead
// of looping or failing.
func TestNearestFreeBestEffortWhenExhausted(t *testing.T) {
	ix := NewIndex()
	ix.Insert("giant", geom.Vec{X: 0, Y: 0}, 1000)

	desired := geom.Vec{X: 0, Y: 0}
	got := ix.NearestFree(desired, 5, "")

	if !ix.Overlaps(got, 5, "") {
		t.Fatal("no free position should exist inside the giant node")
	}
	if got == desired {
		t.Error("best-effort candidate should improve on the desired position")
	}
	if got.Dist(geom.Vec{X: 0, Y: 0}) <= 0 {
		t.Errorf("best-effort candidate %v did not move outward", got)
	}
}

func TestMoveAndRemove(t *testing.T) {
	ix := NewIndex()
	ix.Insert("a", geom.Vec{X: 0, Y: 0}, 20)

	ix.Move("a", geom.Vec{X: 500, Y: 500})
	if ix.Overlaps(geom.Vec{X: 0, Y: 0}, 20, "") {
		t.Error("old position still occupied after Move")
	}
	if !ix.Overlaps(geom.Vec{X: 500, Y: 500}, 20, "") {
		t.Error("new position not occupied after Move")
	}

	ix.Remove("a")
	if ix.Len() != 0 {
		t.Errorf("Len = %d after Remove, want 0", ix.Len())
	}
	if ix.Overlaps(geom.Vec{X: 500, Y: 500}, 20, "") {
		t.Error("position still occupied after Remove")
	}

	// Unknown IDs are no-ops.
	ix.Remove("ghost")
	ix.Move("ghost", geom.Vec{})
}

func TestSyncRebuildsFromScene(t *testing.T) {
	s := scene.New()
	s.AddNode(scene.Node{ID: "a", Pos: geom.Vec{X: 0, Y: 0}, Radius: 20})
	s.AddNode(scene.Node{ID: "b", Pos: geom.Vec{X: 100, Y: 0}, Radius: 20})

	ix := NewIndex()
	ix.Insert("stale", geom.Vec{X: 50, Y: 50}, 20)
	ix.Sync(s)

	if ix.Len() != 2 {
		t.Fatalf("Len = %d after Sync, want 2", ix.Len())
	}
	if ix.Overlaps(geom.Vec{X: 50, Y: 50}, 1, "") {
		t.Error("stale entry survived Sync")
	}
	if !ix.Overlaps(geom.Vec{X: 100, Y: 0}, 20, "other") {
		t.Error("scene node missing after Sync")
	}
}
