package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ideagraph/ideagraph/pkg/errors"
)

func TestRunRenderSVG(t *testing.T) {
	snap := writeTemp(t, "snap.json", testSnapshot)
	out := filepath.Join(t.TempDir(), "out.svg")
	opts := renderOpts{
		output:   out,
		vizTypes: []string{typeCanvas},
		formats:  []string{formatSVG},
		labels:   true,
		mini:     true,
		scale:    2,
		noCache:  true,
	}

	if err := runRender(context.Background(), snap, &opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	svg := string(data)
	for _, want := range []string{"<svg", "node-kant", "node-hume", "Kant"} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestRunRenderNodelinkDOT(t *testing.T) {
	snap := writeTemp(t, "snap.json", `{
  "thinkers": [
    {"id": "a", "x": 0, "y": 0},
    {"id": "b", "x": 200, "y": 0}
  ],
  "connections": [{"id": "c1", "from": "a", "to": "b", "kind": "opposed"}]
}`)
	out := filepath.Join(t.TempDir(), "out.dot")
	opts := renderOpts{
		output:   out,
		vizTypes: []string{typeNodelink},
		formats:  []string{formatDOT},
		scale:    2,
		noCache:  true,
	}

	if err := runRender(context.Background(), snap, &opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.Contains(string(data), `"a" -> "b" [label="opposed"];`) {
		t.Errorf("DOT missing edge:\n%s", data)
	}
}

func TestValidateRenderOpts(t *testing.T) {
	bad := renderOpts{vizTypes: []string{"tower"}, formats: []string{formatSVG}}
	if err := validateRenderOpts(&bad); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("unknown type: err = %v", err)
	}

	bad = renderOpts{vizTypes: []string{typeCanvas}, formats: []string{"pdf"}}
	if err := validateRenderOpts(&bad); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format: err = %v", err)
	}

	ok := renderOpts{vizTypes: []string{typeCanvas, typeNodelink}, formats: []string{formatSVG, formatPNG, formatDOT}}
	if err := validateRenderOpts(&ok); err != nil {
		t.Errorf("valid opts rejected: %v", err)
	}
}

func TestOutPath(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		output string
		viz    string
		format string
		multi  bool
		want   string
	}{
		{"ExplicitSingle", "snap.json", "custom.svg", typeCanvas, formatSVG, false, "custom.svg"},
		{"DerivedSingle", "snap.json", "", typeCanvas, formatSVG, false, "snap.svg"},
		{"MultiFromInput", "snap.json", "", typeNodelink, formatDOT, true, "snap.nodelink.dot"},
		{"MultiFromBase", "snap.json", "out", typeCanvas, formatPNG, true, "out.canvas.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outPath(tt.input, tt.output, tt.viz, tt.format, tt.multi)
			if got != tt.want {
				t.Errorf("outPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	if got := splitList("", "svg"); len(got) != 1 || got[0] != "svg" {
		t.Errorf("default = %v", got)
	}
	if got := splitList("svg,png", "svg"); len(got) != 2 || got[1] != "png" {
		t.Errorf("split = %v", got)
	}
}
