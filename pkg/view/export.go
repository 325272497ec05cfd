package view

import (
	"encoding/json"
	"io"
	"os"

	"github.com/ideagraph/ideagraph/pkg/errors"
	"github.com/ideagraph/ideagraph/pkg/scene"
)

// FromScene converts a scene back into its snapshot form. Thinkers keep
// insertion order, connections are sorted by ID, and every entry carries an
// explicit position, so the round trip through [ToScene] is lossless.
func FromScene(s *scene.Scene) Snapshot {
	var snap Snapshot
	for _, n := range s.Nodes() {
		x, y := n.Pos.X, n.Pos.Y
		t := Thinker{
			ID:     n.ID,
			X:      &x,
			Y:      &y,
			Radius: n.Radius,
			Meta:   n.Meta,
		}
		if name, ok := n.Meta["name"].(string); ok {
			t.Name = name
		}
		snap.Thinkers = append(snap.Thinkers, t)
	}
	for _, c := range s.Connections() {
		snap.Connections = append(snap.Connections, Link{
			ID: c.ID, From: c.From, To: c.To, Kind: c.Kind, Meta: c.Meta,
		})
	}
	return snap
}

// WriteJSON encodes the scene's snapshot as indented JSON and writes it to
// w. The output can be re-imported with [ReadJSON] for round-trip editing.
func WriteJSON(s *scene.Scene, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromScene(s)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode snapshot")
	}
	return nil
}

// ExportJSON writes the scene's snapshot to a JSON file at path.
func ExportJSON(s *scene.Scene, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(s, f)
}
