package view

import (
	"encoding/json"
	"io"
	"os"

	"github.com/ideagraph/ideagraph/pkg/errors"
	"github.com/ideagraph/ideagraph/pkg/geom"
	"github.com/ideagraph/ideagraph/pkg/scene"
	"github.com/ideagraph/ideagraph/pkg/scene/spatial"
)

// ReadJSON decodes a snapshot from r and materializes it into a scene.
//
// The input must be a JSON object with a "thinkers" array and an optional
// "connections" array:
//
//	{
//	  "thinkers": [{"id": "kant", "name": "Kant", "x": 100, "y": 100}],
//	  "connections": [{"from": "hume", "to": "kant", "kind": "influenced"}]
//	}
//
// Thinkers or connections without an ID get a freshly minted one. Thinkers
// without a position are placed deterministically near the content center
// through the collision search, so the resulting scene always satisfies the
// separation rule. A zero radius defaults to [scene.DefaultNodeRadius].
//
// All failures carry [errors.ErrCodeInvalidSnapshot]; the message names the
// offending thinker or connection. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*scene.Scene, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "decode snapshot")
	}
	return ToScene(snap)
}

// ImportJSON reads a snapshot file at path and returns the materialized
// scene.
func ImportJSON(path string) (*scene.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ToScene materializes a snapshot into a scene. See [ReadJSON] for the
// minting, placement, and defaulting rules.
func ToScene(snap Snapshot) (*scene.Scene, error) {
	s := scene.New()
	idx := spatial.NewIndex()

	// Positioned thinkers first so auto-placement can avoid all of them.
	for _, t := range snap.Thinkers {
		if !t.Positioned() {
			continue
		}
		if err := addThinker(s, idx, t, geom.Vec{X: *t.X, Y: *t.Y}); err != nil {
			return nil, err
		}
	}

	anchor := s.Bounds().Center()
	for _, t := range snap.Thinkers {
		if t.Positioned() {
			continue
		}
		if err := addThinker(s, idx, t, anchor); err != nil {
			return nil, err
		}
	}

	for _, l := range snap.Connections {
		if l.ID == "" {
			l.ID = MintID()
		}
		c := scene.Connection{ID: l.ID, From: l.From, To: l.To, Kind: l.Kind, Meta: l.Meta}
		if err := s.AddConnection(c); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSnapshot, err,
				"connection %s->%s", l.From, l.To)
		}
	}

	return s, nil
}

func addThinker(s *scene.Scene, idx *spatial.Index, t Thinker, desired geom.Vec) error {
	if t.ID == "" {
		t.ID = MintID()
	}
	if t.Radius == 0 {
		t.Radius = scene.DefaultNodeRadius
	}
	if t.Radius < 0 {
		return errors.New(errors.ErrCodeInvalidSnapshot,
			"thinker %s: radius %v must be positive", t.ID, t.Radius)
	}
	meta := t.Meta
	if t.Name != "" {
		if meta == nil {
			meta = scene.Metadata{}
		}
		meta["name"] = t.Name
	}

	n := scene.Node{
		ID:     t.ID,
		Pos:    idx.NearestFree(desired, t.Radius, ""),
		Radius: t.Radius,
		Meta:   meta,
	}
	if err := s.AddNode(n); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "thinker %s", t.ID)
	}
	idx.Insert(n.ID, n.Pos, n.Radius)
	return nil
}
