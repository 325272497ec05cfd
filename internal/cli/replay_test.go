package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ideagraph/ideagraph/pkg/errors"
	"github.com/ideagraph/ideagraph/pkg/view"
)

const testSnapshot = `{
  "thinkers": [
    {"id": "kant", "name": "Kant", "x": 100, "y": 100},
    {"id": "hume", "name": "Hume", "x": 300, "y": 200}
  ]
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunReplayDrag(t *testing.T) {
	snap := writeTemp(t, "snap.json", testSnapshot)
	// Fit-to-content is not applied by replay: the camera starts at zoom 1
	// with the world origin top-left, so screen equals world coordinates.
	trace := writeTemp(t, "trace.json", `{
  "events": [
    {"kind": "down", "x": 100, "y": 100},
    {"kind": "move", "x": 150, "y": 120},
    {"kind": "up",   "x": 150, "y": 120}
  ]
}`)
	out := filepath.Join(t.TempDir(), "out.json")

	if err := runReplay(context.Background(), snap, trace, "", out); err != nil {
		t.Fatalf("runReplay: %v", err)
	}

	scn, err := view.ImportJSON(out)
	if err != nil {
		t.Fatalf("reading result: %v", err)
	}
	kant := scn.Node("kant")
	if kant == nil {
		t.Fatal("kant missing from result")
	}
	if kant.Pos.X != 150 || kant.Pos.Y != 120 {
		t.Errorf("kant at %v after drag, want (150,120)", kant.Pos)
	}
	if err := scn.Validate(); err != nil {
		t.Errorf("replayed scene invalid: %v", err)
	}
}

func TestRunReplayUnknownEvent(t *testing.T) {
	snap := writeTemp(t, "snap.json", testSnapshot)
	trace := writeTemp(t, "trace.json", `{"events": [{"kind": "hover"}]}`)

	err := runReplay(context.Background(), snap, trace, "", "")
	if !errors.Is(err, errors.ErrCodeInvalidTrace) {
		t.Errorf("err = %v, want INVALID_TRACE", err)
	}
}

func TestLoadTraceMalformed(t *testing.T) {
	trace := writeTemp(t, "trace.json", `{"events": [`)
	if _, err := loadTrace(trace); !errors.Is(err, errors.ErrCodeInvalidTrace) {
		t.Errorf("err = %v, want INVALID_TRACE", err)
	}
}

func TestLoadTraceMissing(t *testing.T) {
	_, err := loadTrace(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}
