// Package scene holds the canvas data model: nodes ("thinkers") positioned in
// world space and the directed, typed connections between them.
//
// A Scene is the in-memory view the interaction engine operates on. It is
// not a persistence layer: the external data service owns entity records and
// feeds the scene through snapshots (see pkg/view). Nodes carry world-space
// positions and radii; connections have no position of their own and live
// only while both endpoints are present.
package scene

import (
	"errors"
	"maps"
	"math"
	"slices"

	"github.com/ideagraph/ideagraph/pkg/geom"
)

var (
	// ErrInvalidNodeID is returned by [Scene.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Scene.AddNode] when a node with the
	// same ID already exists in the scene. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidRadius is returned by [Scene.AddNode] when the node radius is
	// zero, negative, or not finite. Radii are world units and must be > 0.
	ErrInvalidRadius = errors.New("node radius must be positive")

	// ErrUnknownNode is returned by [Scene.MoveNode] and [Scene.RemoveNode]
	// when the node does not exist.
	ErrUnknownNode = errors.New("unknown node")

	// ErrInvalidConnectionID is returned by [Scene.AddConnection] when the
	// connection ID is empty.
	ErrInvalidConnectionID = errors.New("connection ID must not be empty")

	// ErrDuplicateConnectionID is returned by [Scene.AddConnection] when a
	// connection with the same ID already exists.
	ErrDuplicateConnectionID = errors.New("duplicate connection ID")

	// ErrUnknownSourceNode is returned by [Scene.AddConnection] when the From
	// node does not exist in the scene.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Scene.AddConnection] when the To
	// node does not exist in the scene.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfConnection is returned by [Scene.AddConnection] when From and To
	// name the same node. A thinker cannot be connected to itself.
	ErrSelfConnection = errors.New("connection endpoints must differ")

	// ErrNodeOverlap is returned by [Scene.Validate] when two nodes sit
	// closer than the sum of their radii plus MinSeparation. This indicates
	// a placement that bypassed collision resolution.
	ErrNodeOverlap = errors.New("nodes overlap")
)

// Placement constants shared with the spatial index and the engine.
// Radii are world units, so the on-screen size of a node scales with zoom.
const (
	// DefaultNodeRadius is the radius assigned to nodes created without an
	// explicit size.
	DefaultNodeRadius = 20.0

	// MinSeparation is the extra gap enforced between node boundaries beyond
	// their radii: for any two nodes, dist >= rA + rB + MinSeparation.
	MinSeparation = 10.0
)

// Metadata stores arbitrary key-value pairs attached to nodes or
// connections, typically display data supplied by the external collaborator
// (name, era, portrait URL). Metadata maps are never nil after AddNode or
// AddConnection.
type Metadata map[string]any

// Node is one thinker rendered on the canvas.
//
// The zero value is not usable: ID and Radius must be set before adding to a
// Scene.
type Node struct {
	ID     string   // unique identifier, assigned by the data layer
	Pos    geom.Vec // center, world coordinates
	Radius float64  // world units, constant across zoom
	Meta   Metadata // display metadata (never nil after AddNode)
}

// Bounds returns the node's bounding rectangle in world space.
func (n *Node) Bounds() geom.Rect {
	return geom.CircleBounds(n.Pos, n.Radius)
}

// Connection is a directed, typed link between two nodes. It is rendered as
// a curve between the endpoint centers and has no position of its own.
type Connection struct {
	ID   string   // unique identifier
	From string   // source node ID
	To   string   // target node ID
	Kind string   // relation type ("influenced", "opposed", ...)
	Meta Metadata // never nil after AddConnection
}

// Scene is the set of nodes and connections in the current view plus lookup
// indexes over them. The zero value is not usable; use New.
//
// Scene is not safe for concurrent use. The interaction engine owns it;
// external collaborators communicate through snapshots and intents only.
type Scene struct {
	nodes map[string]*Node
	conns map[string]*Connection
	order []string            // node insertion order, for deterministic iteration
	byend map[string][]string // node ID -> IDs of connections touching it
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		nodes: make(map[string]*Node),
		conns: make(map[string]*Connection),
		byend: make(map[string][]string),
	}
}

// Len returns the number of nodes in the scene.
func (s *Scene) Len() int { return len(s.nodes) }

// Node returns the node with the given ID, or nil if it does not exist.
func (s *Scene) Node(id string) *Node { return s.nodes[id] }

// Nodes returns all nodes in insertion order. The slice is a copy; the
// pointed-to nodes are live.
func (s *Scene) Nodes() []*Node {
	out := make([]*Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id])
	}
	return out
}

// Connection returns the connection with the given ID, or nil.
func (s *Scene) Connection(id string) *Connection { return s.conns[id] }

// Connections returns all connections sorted by ID for deterministic output.
func (s *Scene) Connections() []*Connection {
	out := make([]*Connection, 0, len(s.conns))
	for _, id := range slices.Sorted(maps.Keys(s.conns)) {
		out = append(out, s.conns[id])
	}
	return out
}

// ConnectionsOf returns the connections that start or end at the given node,
// sorted by ID.
func (s *Scene) ConnectionsOf(nodeID string) []*Connection {
	ids := slices.Sorted(slices.Values(s.byend[nodeID]))
	out := make([]*Connection, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.conns[id])
	}
	return out
}

// AddNode adds a node to the scene. The node's Meta field is initialized to
// an empty map if nil. Returns ErrInvalidNodeID, ErrDuplicateNodeID, or
// ErrInvalidRadius on bad input.
func (s *Scene) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := s.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if !(n.Radius > 0) || math.IsInf(n.Radius, 1) { // also rejects NaN
		return ErrInvalidRadius
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	s.nodes[n.ID] = &n
	s.order = append(s.order, n.ID)
	return nil
}

// MoveNode sets the node's position. Returns ErrUnknownNode if the node does
// not exist. Callers are expected to resolve collisions first (the engine
// commits drags through the spatial index); Validate will flag overlaps.
func (s *Scene) MoveNode(id string, pos geom.Vec) error {
	n, ok := s.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	n.Pos = pos
	return nil
}

// RemoveNode removes a node and every connection touching it, mirroring the
// connection lifecycle rule that both endpoints must exist in the view.
func (s *Scene) RemoveNode(id string) error {
	if _, ok := s.nodes[id]; !ok {
		return ErrUnknownNode
	}
	for _, cid := range s.byend[id] {
		if c := s.conns[cid]; c != nil {
			s.detach(c)
		}
	}
	delete(s.byend, id)
	delete(s.nodes, id)
	s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == id })
	return nil
}

// AddConnection adds a directed connection between two existing nodes. The
// Meta field is initialized to an empty map if nil.
func (s *Scene) AddConnection(c Connection) error {
	if c.ID == "" {
		return ErrInvalidConnectionID
	}
	if _, exists := s.conns[c.ID]; exists {
		return ErrDuplicateConnectionID
	}
	if _, ok := s.nodes[c.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := s.nodes[c.To]; !ok {
		return ErrUnknownTargetNode
	}
	if c.From == c.To {
		return ErrSelfConnection
	}
	if c.Meta == nil {
		c.Meta = Metadata{}
	}
	s.conns[c.ID] = &c
	s.byend[c.From] = append(s.byend[c.From], c.ID)
	s.byend[c.To] = append(s.byend[c.To], c.ID)
	return nil
}

// RemoveConnection removes a connection by ID. Removing a connection that
// does not exist is a no-op.
func (s *Scene) RemoveConnection(id string) {
	if c, ok := s.conns[id]; ok {
		s.detach(c)
	}
}

func (s *Scene) detach(c *Connection) {
	delete(s.conns, c.ID)
	drop := func(nodeID string) {
		s.byend[nodeID] = slices.DeleteFunc(s.byend[nodeID], func(id string) bool {
			return id == c.ID
		})
	}
	drop(c.From)
	drop(c.To)
}

// Bounds returns the bounding rectangle of all node circles, or an empty
// rect for an empty scene. The minimap derives its scale factor from this.
func (s *Scene) Bounds() geom.Rect {
	var b geom.Rect
	for _, id := range s.order {
		b = b.Union(s.nodes[id].Bounds())
	}
	return b
}

// Validate checks scene consistency: every connection references existing,
// distinct endpoints, and no two nodes violate the separation rule
// dist >= rA + rB + MinSeparation. Returns the first violation found, with
// node pairs visited in insertion order for deterministic errors.
func (s *Scene) Validate() error {
	for _, c := range s.Connections() {
		if _, ok := s.nodes[c.From]; !ok {
			return ErrUnknownSourceNode
		}
		if _, ok := s.nodes[c.To]; !ok {
			return ErrUnknownTargetNode
		}
		if c.From == c.To {
			return ErrSelfConnection
		}
	}
	for i, a := range s.order {
		for _, b := range s.order[i+1:] {
			na, nb := s.nodes[a], s.nodes[b]
			if na.Pos.Dist(nb.Pos) < na.Radius+nb.Radius+MinSeparation {
				return ErrNodeOverlap
			}
		}
	}
	return nil
}
