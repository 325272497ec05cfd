// Package render turns canvas state into drawable frames and image files.
//
// # Overview
//
// Frame production is a pure function: [Build] projects the scene through
// the camera into a display list of screen-space primitives (node circles,
// connection lines, the rubber band during a connection gesture, selection
// halos, the area-select rectangle, and the minimap inset). Hosts consume
// the [Frame] directly; file output goes through sinks.
//
//	f := render.Build(scn, cam,
//	    render.WithSelection(eng.SelectedIDs()),
//	    render.WithMinimap(mini, geom.Vec{X: 8, Y: 8}),
//	)
//	svg := sink.RenderSVG(f)
//	png, err := sink.RenderPNG(f)
//
// # Sinks
//
// The [sink] subpackage writes frames to files: SVG via a functional-options
// writer, PNG via rasterization with fogleman/gg and an embedded Go font.
//
// # Node-Link Export
//
// The [nodelink] subpackage exports the connection graph (ignoring canvas
// positions) as Graphviz DOT and renders it with goccy/go-graphviz. This is
// the overview view for snapshots where spatial placement is irrelevant.
//
// [sink]: github.com/ideagraph/ideagraph/pkg/render/sink
// [nodelink]: github.com/ideagraph/ideagraph/pkg/render/nodelink
package render
