// Package view exchanges entity snapshots between the external data service
// and the canvas scene.
//
// A snapshot is the JSON shape the data layer speaks: a list of thinkers and
// the connections between them. [ToScene] materializes a snapshot into a
// [scene.Scene] the engine can operate on, minting IDs for entries that have
// none; [FromScene] goes back the other way so edits can be handed off.
// Positions are optional on the way in — the caller places unpositioned
// thinkers through the engine's collision search.
package view

import (
	"github.com/google/uuid"

	"github.com/ideagraph/ideagraph/pkg/scene"
)

// Snapshot is the wire form of one canvas view.
type Snapshot struct {
	Thinkers    []Thinker `json:"thinkers"`
	Connections []Link    `json:"connections,omitempty"`
}

// Thinker is one entity record. X/Y/Radius are world units; a nil position
// means the entity has not been placed on the canvas yet.
type Thinker struct {
	ID     string         `json:"id,omitempty"`
	Name   string         `json:"name,omitempty"`
	X      *float64       `json:"x,omitempty"`
	Y      *float64       `json:"y,omitempty"`
	Radius float64        `json:"radius,omitempty"`
	Meta   scene.Metadata `json:"meta,omitempty"`
}

// Link is one connection record between two thinkers.
type Link struct {
	ID   string         `json:"id,omitempty"`
	From string         `json:"from"`
	To   string         `json:"to"`
	Kind string         `json:"kind,omitempty"`
	Meta scene.Metadata `json:"meta,omitempty"`
}

// Positioned reports whether the thinker carries an explicit canvas
// position.
func (t Thinker) Positioned() bool { return t.X != nil && t.Y != nil }

// MintID returns a fresh unique identifier for entities created on the
// canvas before the data layer has assigned one.
func MintID() string { return uuid.NewString() }
