// Package spatial maintains a uniform-grid index over node positions and
// answers the two placement queries the interaction engine needs: "would
// this position overlap anything" and "what is the nearest free position".
//
// The separation rule enforced is the scene invariant: for any two nodes,
// dist(a, b) >= a.radius + b.radius + separation. Queries inspect only the
// grid cells near the candidate, so live dragging stays O(nearby nodes)
// rather than O(n) over the whole scene.
//
// All queries are deterministic for identical inputs; callers and tests rely
// on exact outputs.
package spatial

import (
	"math"

	"github.com/ideagraph/ideagraph/pkg/geom"
	"github.com/ideagraph/ideagraph/pkg/scene"
)

// Search tuning. The ring search walks outward from the desired position in
// fixed radial steps, sampling candidates at a fixed arc spacing on each
// ring. maxRings caps the search so pathological dense packings terminate;
// on exhaustion the least-overlapping candidate seen is returned rather than
// failing (the caller decides whether to warn the user).
const (
	maxRings      = 64
	minArcSamples = 8
)

// defaultCellSize comfortably holds one default-sized node per cell.
const defaultCellSize = 4 * scene.DefaultNodeRadius

type cellKey struct{ x, y int }

type entry struct {
	pos    geom.Vec
	radius float64
}

// Index is a uniform grid over node circles. The zero value is not usable;
// use NewIndex. Index is not safe for concurrent use.
type Index struct {
	cellSize  float64
	sep       float64
	items     map[string]entry
	cells     map[cellKey][]string
	maxRadius float64 // largest radius ever inserted, bounds neighbor queries
}

// NewIndex creates an empty index enforcing scene.MinSeparation between node
// boundaries.
func NewIndex() *Index {
	return &Index{
		cellSize: defaultCellSize,
		sep:      scene.MinSeparation,
		items:    make(map[string]entry),
		cells:    make(map[cellKey][]string),
	}
}

// Sync rebuilds the index from the scene's current nodes. Called after the
// external collaborator replaces or mutates the node set ("data changed,
// please re-sync").
func (ix *Index) Sync(s *scene.Scene) {
	ix.items = make(map[string]entry, s.Len())
	ix.cells = make(map[cellKey][]string)
	ix.maxRadius = 0
	for _, n := range s.Nodes() {
		ix.Insert(n.ID, n.Pos, n.Radius)
	}
}

// Len returns the number of indexed nodes.
func (ix *Index) Len() int { return len(ix.items) }

// Insert adds or replaces a node circle.
func (ix *Index) Insert(id string, pos geom.Vec, radius float64) {
	if _, ok := ix.items[id]; ok {
		ix.Remove(id)
	}
	ix.items[id] = entry{pos: pos, radius: radius}
	key := ix.keyAt(pos)
	ix.cells[key] = append(ix.cells[key], id)
	if radius > ix.maxRadius {
		ix.maxRadius = radius
	}
}

// Remove deletes a node circle. Removing an unknown ID is a no-op.
func (ix *Index) Remove(id string) {
	e, ok := ix.items[id]
	if !ok {
		return
	}
	delete(ix.items, id)
	key := ix.keyAt(e.pos)
	ids := ix.cells[key]
	for i, other := range ids {
		if other == id {
			ix.cells[key] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ix.cells[key]) == 0 {
		delete(ix.cells, key)
	}
}

// Move updates a node's position, keeping its radius. Unknown IDs are
// ignored.
func (ix *Index) Move(id string, pos geom.Vec) {
	if e, ok := ix.items[id]; ok {
		ix.Remove(id)
		ix.Insert(id, pos, e.radius)
	}
}

func (ix *Index) keyAt(pos geom.Vec) cellKey {
	return cellKey{
		x: int(math.Floor(pos.X / ix.cellSize)),
		y: int(math.Floor(pos.Y / ix.cellSize)),
	}
}

// Overlaps reports whether a circle at pos with the given radius would
// violate the separation rule against any indexed node other than excludeID.
func (ix *Index) Overlaps(pos geom.Vec, radius float64, excludeID string) bool {
	return ix.worstPenetration(pos, radius, excludeID) > 0
}

// worstPenetration returns how far the candidate intrudes past the
// separation rule against its worst neighbor; <= 0 means the position is
// free.
func (ix *Index) worstPenetration(pos geom.Vec, radius float64, excludeID string) float64 {
	reach := radius + ix.maxRadius + ix.sep
	min := ix.keyAt(geom.Vec{X: pos.X - reach, Y: pos.Y - reach})
	max := ix.keyAt(geom.Vec{X: pos.X + reach, Y: pos.Y + reach})

	worst := math.Inf(-1)
	for cx := min.x; cx <= max.x; cx++ {
		for cy := min.y; cy <= max.y; cy++ {
			for _, id := range ix.cells[cellKey{cx, cy}] {
				if id == excludeID {
					continue
				}
				e := ix.items[id]
				required := radius + e.radius + ix.sep
				if pen := required - pos.Dist(e.pos); pen > worst {
					worst = pen
				}
			}
		}
	}
	return worst
}

// NearestFree returns desired unchanged when it is already free; otherwise
// it searches outward in expanding rings and returns the free candidate
// closest to desired by Euclidean distance. With the search exhausted (no
// free position within maxRings), the least-overlapping candidate found is
// returned as a best-effort answer.
//
// excludeID names the node being placed, so its current indexed position
// does not collide with itself during a drag.
func (ix *Index) NearestFree(desired geom.Vec, radius float64, excludeID string) geom.Vec {
	pen := ix.worstPenetration(desired, radius, excludeID)
	if pen <= 0 {
		return desired
	}

	step := radius / 2
	if step <= 0 {
		step = ix.sep
	}
	if step <= 0 {
		step = 1
	}

	best, bestPen := desired, pen
	for ring := 1; ring <= maxRings; ring++ {
		r := float64(ring) * step
		samples := int(math.Ceil(2 * math.Pi * r / step))
		if samples < minArcSamples {
			samples = minArcSamples
		}
		for i := 0; i < samples; i++ {
			angle := 2 * math.Pi * float64(i) / float64(samples)
			cand := geom.Vec{
				X: desired.X + r*math.Cos(angle),
				Y: desired.Y + r*math.Sin(angle),
			}
			p := ix.worstPenetration(cand, radius, excludeID)
			if p <= 0 {
				// All candidates on this ring are equidistant from
				// desired, so the first free one is the answer.
				return cand
			}
			if p < bestPen {
				best, bestPen = cand, p
			}
		}
	}
	return best
}
