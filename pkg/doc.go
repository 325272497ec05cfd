// Package pkg provides the core libraries for Ideagraph, an interaction
// engine for node-link diagram canvases.
//
// # Overview
//
// Ideagraph turns raw pointer and key events into diagram edits: nodes are
// dragged without ever overlapping, the viewport pans and zooms around the
// cursor, and every change surfaces as an intent the host application can
// persist. The pkg directory is organized into five main areas:
//
//  1. [engine] - Gesture state machine (drag, pan, area select, connect)
//  2. [scene] - Diagram model and spatial index
//  3. [camera] - World/screen viewport transform
//  4. [render] - Pure display-list builder plus SVG, PNG, and DOT sinks
//  5. [view] - JSON snapshot import/export
//
// # Architecture
//
// The typical event flow through Ideagraph:
//
//	Pointer/Key Event
//	         ↓
//	[engine] gesture resolution (spatial index keeps nodes apart)
//	         ↓
//	[scene] mutation + intent emission
//	         ↓
//	[render] display list → SVG / PNG / DOT
//
// Supporting packages: [cache] stores rendered artifacts keyed by snapshot
// hash, [geom] holds the shared vector math, [errors] defines structured
// error codes, and [observability] exposes render and sink hooks.
package pkg
