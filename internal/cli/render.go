package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ideagraph/ideagraph/pkg/cache"
	"github.com/ideagraph/ideagraph/pkg/camera"
	"github.com/ideagraph/ideagraph/pkg/engine/minimap"
	"github.com/ideagraph/ideagraph/pkg/errors"
	"github.com/ideagraph/ideagraph/pkg/geom"
	"github.com/ideagraph/ideagraph/pkg/render"
	"github.com/ideagraph/ideagraph/pkg/render/nodelink"
	"github.com/ideagraph/ideagraph/pkg/render/sink"
	"github.com/ideagraph/ideagraph/pkg/scene"
	"github.com/ideagraph/ideagraph/pkg/view"
)

const (
	typeCanvas   = "canvas"   // positioned snapshot rendered through the camera
	typeNodelink = "nodelink" // connection graph auto-laid-out by Graphviz

	formatSVG = "svg"
	formatPNG = "png"
	formatDOT = "dot"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple outputs)
	vizTypes []string // visualization types: "canvas", "nodelink"
	formats  []string // output formats: "svg", "png", "dot"
	config   string   // TOML config path
	labels   bool     // draw node display names
	mini     bool     // include the minimap inset
	scale    float64  // PNG raster scale
	noCache  bool     // bypass the artifact cache
}

// newRenderCmd creates the render command for generating visualizations
// from a snapshot file.
//
// The canvas type projects the snapshot through a fit-to-content viewport
// exactly as the interactive canvas would draw it; the nodelink type ignores
// positions and lets Graphviz lay the connection graph out. Identical
// snapshots hit the artifact cache and skip the sink.
func newRenderCmd() *cobra.Command {
	var vizTypesStr, formatsStr string
	opts := renderOpts{scale: 2.0, labels: true, mini: true}

	cmd := &cobra.Command{
		Use:   "render [snapshot]",
		Short: "Render a snapshot to SVG, PNG, or DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.vizTypes = splitList(vizTypesStr, typeCanvas)
			opts.formats = splitList(formatsStr, formatSVG)
			if err := validateRenderOpts(&opts); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single type/format) or base path (multiple)")
	cmd.Flags().StringVarP(&vizTypesStr, "type", "t", "", "visualization type(s): canvas (default), nodelink (comma-separated)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.config, "config", "", "TOML configuration file")
	cmd.Flags().BoolVar(&opts.labels, "labels", opts.labels, "draw node display names")
	cmd.Flags().BoolVar(&opts.mini, "minimap", opts.mini, "include the minimap inset (canvas type)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG raster scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the rendered artifact cache")

	return cmd
}

// splitList parses a comma-separated flag value, defaulting when empty.
func splitList(s, def string) []string {
	if s == "" {
		return []string{def}
	}
	return strings.Split(s, ",")
}

func validateRenderOpts(opts *renderOpts) error {
	for _, t := range opts.vizTypes {
		if t != typeCanvas && t != typeNodelink {
			return errors.New(errors.ErrCodeUnsupported, "unknown type %q (canvas, nodelink)", t)
		}
	}
	for _, f := range opts.formats {
		switch f {
		case formatSVG, formatPNG, formatDOT:
		default:
			return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (svg, png, dot)", f)
		}
	}
	return nil
}

func runRender(ctx context.Context, path string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	scn, err := view.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	logger.Debug("loaded snapshot", "nodes", scn.Len(), "path", path)

	artifacts := newCache(opts.noCache)
	defer artifacts.Close()
	snapHash := cache.Hash(data)

	outputs := 0
	for _, viz := range opts.vizTypes {
		for _, format := range opts.formats {
			if viz == typeCanvas && format == formatDOT {
				printWarning("skipping canvas/dot: DOT output is a nodelink format")
				continue
			}
			out, cached, err := produce(ctx, artifacts, snapHash, scn, cfg, viz, format, opts)
			if err != nil {
				return err
			}

			dest := outPath(path, opts.output, viz, format, len(opts.vizTypes)*len(opts.formats) > 1)
			if err := os.WriteFile(dest, out, 0644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", dest)
			}
			printFile(dest, cached)
			outputs++
		}
	}

	prog.done("Rendered " + path)
	printSuccess("Wrote %d file(s)", outputs)
	return nil
}

// produce renders one type/format pair, consulting the artifact cache first.
func produce(ctx context.Context, artifacts cache.Cache, snapHash string, scn *scene.Scene, cfg Config, viz, format string, opts *renderOpts) ([]byte, bool, error) {
	key := cache.RenderKey(snapHash, cache.RenderKeyOpts{
		Format: viz + "/" + format,
		Width:  cfg.Canvas.Width,
		Height: cfg.Canvas.Height,
		Scale:  opts.scale,
		Labels: opts.labels,
	})
	if data, ok, err := artifacts.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}

	var (
		out []byte
		err error
	)
	switch viz {
	case typeNodelink:
		dot := nodelink.ToDOT(scn, nodelink.Options{Labeled: opts.labels})
		if format == formatDOT {
			out = []byte(dot)
		} else {
			out, err = renderNodelink(dot, format)
		}
	default:
		out, err = renderCanvas(scn, cfg, format, opts)
	}
	if err != nil {
		return nil, false, err
	}

	if err := artifacts.Set(ctx, key, out, 0); err != nil {
		loggerFromContext(ctx).Debug("cache write failed", "err", err)
	}
	return out, false, nil
}

// renderCanvas draws the positioned snapshot the way the interactive canvas
// would: fit-to-content viewport, optional minimap inset.
func renderCanvas(scn *scene.Scene, cfg Config, format string, opts *renderOpts) ([]byte, error) {
	cam := camera.New(geom.Vec{X: cfg.Canvas.Width, Y: cfg.Canvas.Height})
	cam.FitTo(scn.Bounds(), scene.DefaultNodeRadius)

	buildOpts := []render.Option{}
	if opts.mini {
		m := minimap.New(scn, cam)
		origin := geom.Vec{
			X: cfg.Canvas.Width - m.Size().X - 8,
			Y: cfg.Canvas.Height - m.Size().Y - 8,
		}
		buildOpts = append(buildOpts, render.WithMinimap(m, origin))
	}
	f := render.Build(scn, cam, buildOpts...)

	switch format {
	case formatPNG:
		var pngOpts []sink.PNGOption
		pngOpts = append(pngOpts, sink.WithPNGScale(opts.scale))
		if opts.labels {
			pngOpts = append(pngOpts, sink.WithPNGLabels())
		}
		out, err := sink.RenderPNG(f, pngOpts...)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "rasterize PNG")
		}
		return out, nil
	default:
		var svgOpts []sink.SVGOption
		if opts.labels {
			svgOpts = append(svgOpts, sink.WithLabels())
		}
		return sink.RenderSVG(f, svgOpts...), nil
	}
}

// renderNodelink renders the DOT graph through Graphviz. SVG is the only
// raster-ready nodelink format; DOT is handled by the caller.
func renderNodelink(dot, format string) ([]byte, error) {
	if format != formatSVG {
		return nil, errors.New(errors.ErrCodeUnsupported, "nodelink supports svg and dot output")
	}
	out, err := nodelink.RenderSVG(dot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "graphviz render")
	}
	return out, nil
}

// outPath derives the destination file name. A single output honors -o
// verbatim; multiple outputs treat -o (or the input name) as a base path and
// append type and format.
func outPath(input, output, viz, format string, multi bool) string {
	if output != "" && !multi {
		return output
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	if multi {
		return base + "." + viz + "." + format
	}
	return base + "." + format
}
