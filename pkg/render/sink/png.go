package sink

import (
	"bytes"
	"image/color"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ideagraph/ideagraph/pkg/observability"
	"github.com/ideagraph/ideagraph/pkg/render"
)

// PNGOption configures PNG rasterization.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	showLabels bool
}

// WithPNGScale sets the raster scale factor (default 2.0 for high-DPI
// output).
func WithPNGScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithPNGLabels draws node display names under each circle.
func WithPNGLabels() PNGOption { return func(r *pngRenderer) { r.showLabels = true } }

// RenderPNG rasterizes a frame to a PNG image using the embedded Go
// font for labels. No external tools are required.
func RenderPNG(f *render.Frame, opts ...PNGOption) ([]byte, error) {
	start := time.Now()
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}

	w := int(f.Size.X * r.scale)
	h := int(f.Size.Y * r.scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dc := gg.NewContext(w, h)
	dc.Scale(r.scale, r.scale)
	dc.SetColor(color.White)
	dc.Clear()

	if r.showLabels {
		face, err := labelFace(12)
		if err != nil {
			observability.Render().OnSink("png", 0, time.Since(start), err)
			return nil, err
		}
		dc.SetFontFace(face)
	}

	// Connections first so nodes draw on top of their endpoints.
	dc.SetLineWidth(1.5)
	dc.SetRGB(0.53, 0.53, 0.53)
	for _, c := range f.Connections {
		dc.DrawLine(c.From.X, c.From.Y, c.To.X, c.To.Y)
		dc.Stroke()
	}

	for _, n := range f.Nodes {
		if n.Selected {
			dc.SetRGB(0.18, 0.44, 0.87)
			dc.SetLineWidth(3)
			dc.DrawCircle(n.Center.X, n.Center.Y, n.Radius+4)
			dc.Stroke()
		}
		dc.SetColor(color.White)
		dc.DrawCircle(n.Center.X, n.Center.Y, n.Radius)
		dc.Fill()
		dc.SetRGB(0.27, 0.27, 0.27)
		dc.SetLineWidth(2)
		dc.DrawCircle(n.Center.X, n.Center.Y, n.Radius)
		dc.Stroke()
		if r.showLabels && n.Label != "" {
			dc.DrawStringAnchored(n.Label, n.Center.X, n.Center.Y+n.Radius+10, 0.5, 0.5)
		}
	}

	if rb := f.RubberBand; rb != nil {
		dc.SetRGB(0.18, 0.44, 0.87)
		dc.SetLineWidth(1.5)
		dc.SetDash(5, 3)
		dc.DrawLine(rb.From.X, rb.From.Y, rb.To.X, rb.To.Y)
		dc.Stroke()
		dc.SetDash()
	}

	if a := f.AreaRect; a != nil {
		dc.SetRGBA(0.18, 0.44, 0.87, 0.12)
		dc.DrawRectangle(a.Min.X, a.Min.Y, a.Width(), a.Height())
		dc.Fill()
		dc.SetRGB(0.18, 0.44, 0.87)
		dc.SetLineWidth(1)
		dc.DrawRectangle(a.Min.X, a.Min.Y, a.Width(), a.Height())
		dc.Stroke()
	}

	if m := f.Minimap; m != nil {
		dc.Push()
		dc.Translate(m.Origin.X, m.Origin.Y)
		dc.SetRGBA(1, 1, 1, 0.85)
		dc.DrawRectangle(0, 0, m.Size.X, m.Size.Y)
		dc.Fill()
		dc.SetRGB(0.27, 0.27, 0.27)
		dc.SetLineWidth(1)
		dc.DrawRectangle(0, 0, m.Size.X, m.Size.Y)
		dc.Stroke()
		for _, nr := range m.Nodes {
			dc.DrawRectangle(nr.Min.X, nr.Min.Y, nr.Width(), nr.Height())
			dc.Fill()
		}
		v := m.Viewport
		dc.SetRGB(0.18, 0.44, 0.87)
		dc.SetLineWidth(1.5)
		dc.DrawRectangle(v.Min.X, v.Min.Y, v.Width(), v.Height())
		dc.Stroke()
		dc.Pop()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		observability.Render().OnSink("png", 0, time.Since(start), err)
		return nil, err
	}
	out := buf.Bytes()
	observability.Render().OnSink("png", len(out), time.Since(start), nil)
	return out, nil
}

func labelFace(size float64) (font.Face, error) {
	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
