// Package engine implements the canvas interaction state machine: it turns
// raw pointer, wheel, and keyboard input into camera mutations, collision
// checked node placement, and semantic intents consumed by the surrounding
// application.
//
// The engine owns the Viewport/Selection/Spatial-Index triple exclusively.
// External collaborators never mutate engine state directly: they receive
// intents ("create node at world position P", "create connection A->B",
// "move node N to P") through callbacks, and notify the engine of external
// data changes by calling [Engine.Resync].
//
// Everything is synchronous and single-threaded: state transitions happen
// inside the input handlers on the caller's goroutine, and nothing blocks or
// suspends. Redraws are coalesced: the engine invokes the injected
// RequestFrame callback at most once per outstanding frame.
//
// Ambient platform state (canvas size, macOS-style modifier keys, the wall
// clock) is injected through [Config] at construction, so the engine is
// deterministic and testable without a display.
package engine

import (
	"time"

	"github.com/ideagraph/ideagraph/pkg/camera"
	"github.com/ideagraph/ideagraph/pkg/geom"
	"github.com/ideagraph/ideagraph/pkg/observability"
	"github.com/ideagraph/ideagraph/pkg/scene"
	"github.com/ideagraph/ideagraph/pkg/scene/spatial"
)

// =============================================================================
// Modes
// =============================================================================

// Mode is the discriminated interaction mode. Exactly one mode is active at
// any point in an event sequence; the pending connection source is set if
// and only if the mode is ModeConnecting.
type Mode int

const (
	ModeIdle Mode = iota
	ModeSingleSelect
	ModeMultiSelect
	ModeConnecting
	ModePlacingNote
	ModeDragging
)

// String returns the mode name used in logs and hooks.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeSingleSelect:
		return "single-select"
	case ModeMultiSelect:
		return "multi-select"
	case ModeConnecting:
		return "connecting"
	case ModePlacingNote:
		return "placing-note"
	case ModeDragging:
		return "dragging"
	}
	return "unknown"
}

// =============================================================================
// Configuration
// =============================================================================

// Interaction constants. The drag threshold and click timeout are the only
// timing-sensitive contracts in the engine: a pointer down/up pair whose
// total travel stays at or below DefaultDragThreshold and whose duration
// stays within DefaultClickTimeout is a click, anything beyond is a drag.
const (
	DefaultDragThreshold      = 5.0 // screen px
	DefaultClickTimeout       = 500 * time.Millisecond
	DefaultDoubleClickTimeout = 400 * time.Millisecond

	// DefaultWheelZoomStep is the zoom factor applied per wheel notch
	// (120 delta units).
	DefaultWheelZoomStep = 1.2

	// DefaultNoteKey toggles sticky-note placement mode.
	DefaultNoteKey = "n"
)

// Modifiers carries the keyboard modifier state attached to a pointer event.
type Modifiers struct {
	Shift bool
	Alt   bool
	Ctrl  bool
	Meta  bool // Cmd on macOS
}

// none reports whether no modifier is held.
func (m Modifiers) none() bool { return !m.Shift && !m.Alt && !m.Ctrl && !m.Meta }

// Config injects ambient platform state and tunables. The zero value is
// usable: every field falls back to a documented default.
type Config struct {
	// CanvasSize is the canvas extent in screen pixels.
	CanvasSize geom.Vec

	// DragThreshold is the screen-space travel (px) above which a pointer
	// sequence becomes a drag instead of a click.
	DragThreshold float64

	// ClickTimeout is the longest down-to-up duration still counted as a
	// click.
	ClickTimeout time.Duration

	// DoubleClickTimeout is the longest gap between two clicks on the same
	// node counted as a double-click.
	DoubleClickTimeout time.Duration

	// WheelZoomStep is the zoom factor per wheel notch (120 delta units).
	WheelZoomStep float64

	// NoteKey toggles sticky-note placement mode.
	NoteKey string

	// MacModifiers selects Cmd instead of Ctrl as the multi-select
	// modifier, matching platform conventions.
	MacModifiers bool

	// Now supplies the clock used for click classification. Defaults to
	// time.Now; tests inject a fake.
	Now func() time.Time

	// RequestFrame is invoked when the engine wants a redraw. At most one
	// request is outstanding at a time; the renderer calls
	// [Engine.FrameDone] after drawing to re-arm it. May be nil.
	RequestFrame func()
}

func (c Config) withDefaults() Config {
	if c.CanvasSize.X <= 0 || c.CanvasSize.Y <= 0 {
		c.CanvasSize = geom.Vec{X: 800, Y: 600}
	}
	if c.DragThreshold <= 0 {
		c.DragThreshold = DefaultDragThreshold
	}
	if c.ClickTimeout <= 0 {
		c.ClickTimeout = DefaultClickTimeout
	}
	if c.DoubleClickTimeout <= 0 {
		c.DoubleClickTimeout = DefaultDoubleClickTimeout
	}
	if c.WheelZoomStep <= 1 {
		c.WheelZoomStep = DefaultWheelZoomStep
	}
	if c.NoteKey == "" {
		c.NoteKey = DefaultNoteKey
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// =============================================================================
// Intents
// =============================================================================

// Intents is the outbound callback surface. Every field is optional; nil
// callbacks are skipped. Callbacks run synchronously inside the input
// handler that triggered them.
type Intents struct {
	// RequestCreateEntity asks the collaborator to open its entity creation
	// flow anchored at a world position (plain click on empty canvas).
	RequestCreateEntity func(worldPos geom.Vec)

	// RequestEditEntity asks the collaborator to open its edit flow for a
	// node (double-click).
	RequestEditEntity func(id string)

	// RequestCreateConnection asks the collaborator to create a directed
	// connection (quick-connect gesture completed).
	RequestCreateConnection func(fromID, toID string)

	// NodeMoved reports a committed drag with the collision-resolved
	// position. The collaborator persists it, or reverts the node on the
	// next re-sync if persistence fails.
	NodeMoved func(id string, worldPos geom.Vec)

	// RequestCreateNote asks the collaborator to create a sticky note at a
	// world position (click while in note placement mode).
	RequestCreateNote func(worldPos geom.Vec)

	// SelectionChanged reports the new selection in insertion order.
	SelectionChanged func(ids []string)
}

// =============================================================================
// Sessions
// =============================================================================

// DragSession is the ephemeral state of an in-progress node drag. It exists
// only between drag start and commit/cancel; the node's scene position is
// untouched until commit.
type DragSession struct {
	NodeID       string
	StartWorld   geom.Vec // node center when the drag started
	CurrentWorld geom.Vec // pointer position, world coordinates
	CandidatePos geom.Vec // nearest collision-free position to the pointer
}

// pointerState tracks one pointer press from down to up.
type pointerState struct {
	down       bool
	start      geom.Vec // screen position at pointer down
	last       geom.Vec
	downTime   time.Time
	moved      bool   // travel exceeded the drag threshold
	onNode     string // node hit at pointer down, if any
	panning    bool
	areaSelect bool
	mods       Modifiers
}

// =============================================================================
// Engine
// =============================================================================

// Engine is the canvas interaction engine. The zero value is not usable;
// call New. Engine is not safe for concurrent use: all methods must be
// called from the same goroutine.
type Engine struct {
	cfg     Config
	cam     *camera.Camera
	scn     *scene.Scene
	index   *spatial.Index
	intents Intents

	mode          Mode
	selected      []string // insertion order
	selectedSet   map[string]bool
	pendingSource string // set iff mode == ModeConnecting

	pointer   pointerState
	drag      *DragSession
	cursor    geom.Vec // latest pointer screen position (rubber band endpoint)
	lastClick struct {
		at   time.Time
		node string
	}

	framePending bool
}

// New creates an engine over the given scene. The scene is owned by the
// engine from here on; collaborators mutate it only between Resync calls.
func New(scn *scene.Scene, cfg Config, intents Intents) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:         cfg,
		cam:         camera.New(cfg.CanvasSize),
		scn:         scn,
		index:       spatial.NewIndex(),
		intents:     intents,
		selectedSet: make(map[string]bool),
	}
	e.index.Sync(scn)
	return e
}

// Camera returns the engine's viewport. Toolbar controls (zoom in/out,
// reset, fit to content) operate on it directly.
func (e *Engine) Camera() *camera.Camera { return e.cam }

// Scene returns the scene the engine operates on.
func (e *Engine) Scene() *scene.Scene { return e.scn }

// Index returns the spatial index, kept in sync with committed positions.
func (e *Engine) Index() *spatial.Index { return e.index }

// Mode returns the active interaction mode.
func (e *Engine) Mode() Mode { return e.mode }

// SelectedIDs returns the selected node IDs in click order. The slice is a
// copy.
func (e *Engine) SelectedIDs() []string {
	out := make([]string, len(e.selected))
	copy(out, e.selected)
	return out
}

// PendingConnectionSource returns the quick-connect source node and true
// while the engine is in ModeConnecting.
func (e *Engine) PendingConnectionSource() (string, bool) {
	return e.pendingSource, e.mode == ModeConnecting
}

// Drag returns a copy of the in-progress drag session and true while the
// engine is in ModeDragging.
func (e *Engine) Drag() (DragSession, bool) {
	if e.mode != ModeDragging || e.drag == nil {
		return DragSession{}, false
	}
	return *e.drag, true
}

// AreaSelection returns the in-progress area-select rectangle in world
// coordinates and true while one is being dragged out.
func (e *Engine) AreaSelection() (geom.Rect, bool) {
	if !e.pointer.down || !e.pointer.areaSelect || !e.pointer.moved {
		return geom.Rect{}, false
	}
	return worldRect(e.cam, e.pointer.start, e.pointer.last), true
}

// CursorScreen returns the latest pointer position in screen coordinates.
func (e *Engine) CursorScreen() geom.Vec { return e.cursor }

// Resync tells the engine that the external collaborator changed the node or
// connection set. The spatial index is rebuilt and any interaction state
// referring to removed nodes is discarded: stale selections shrink, a stale
// pending connection or drag session is dropped without emitting intents.
func (e *Engine) Resync() {
	e.index.Sync(e.scn)

	kept := e.selected[:0]
	for _, id := range e.selected {
		if e.scn.Node(id) != nil {
			kept = append(kept, id)
		} else {
			delete(e.selectedSet, id)
		}
	}
	if len(kept) != len(e.selected) {
		e.selected = kept
		e.emitSelectionChanged()
	}

	switch e.mode {
	case ModeConnecting:
		if e.scn.Node(e.pendingSource) == nil {
			e.setMode(ModeIdle)
		}
	case ModeDragging:
		if e.drag == nil || e.scn.Node(e.drag.NodeID) == nil {
			e.cancelDrag()
		}
	case ModeSingleSelect, ModeMultiSelect:
		e.setMode(e.selectionMode())
	}
	e.requestFrame()
}

// PlaceNew returns a collision-free world position for a node created
// without an explicit position, searching outward from the current viewport
// center. Non-positive radii fall back to scene.DefaultNodeRadius.
func (e *Engine) PlaceNew(radius float64) geom.Vec {
	if !(radius > 0) {
		radius = scene.DefaultNodeRadius
	}
	anchor := e.cam.ScreenToWorld(e.cam.Size().Scale(0.5))
	pos := e.index.NearestFree(anchor, radius, "")
	observability.Engine().OnCollisionSearch(pos == anchor, pos.Dist(anchor))
	return pos
}

// FrameDone re-arms redraw requests. The renderer calls it after drawing
// the frame it was asked for.
func (e *Engine) FrameDone() { e.framePending = false }

// =============================================================================
// Internals
// =============================================================================

func (e *Engine) now() time.Time { return e.cfg.Now() }

// requestFrame asks the host for a redraw, coalescing repeated requests
// until FrameDone.
func (e *Engine) requestFrame() {
	if e.framePending || e.cfg.RequestFrame == nil {
		return
	}
	e.framePending = true
	e.cfg.RequestFrame()
}

// setMode transitions the interaction mode, clearing the pending connection
// source whenever the engine leaves ModeConnecting.
func (e *Engine) setMode(m Mode) {
	if m == e.mode {
		return
	}
	observability.Engine().OnModeChange(e.mode.String(), m.String())
	e.mode = m
	if m != ModeConnecting {
		e.pendingSource = ""
	}
	if m != ModeDragging {
		e.drag = nil
	}
}

// selectionMode returns the mode implied by the current selection size.
func (e *Engine) selectionMode() Mode {
	switch len(e.selected) {
	case 0:
		return ModeIdle
	case 1:
		return ModeSingleSelect
	default:
		return ModeMultiSelect
	}
}

// primary reports whether the platform multi-select modifier is held.
func (e *Engine) primary(m Modifiers) bool {
	if e.cfg.MacModifiers {
		return m.Meta
	}
	return m.Ctrl
}

// quickConnect reports whether the quick-connect chord is held.
func (e *Engine) quickConnect(m Modifiers) bool { return m.Shift && m.Alt }

// nodeAt returns the topmost node containing the world point, or nil.
// Later insertions render on top, so the scan runs in reverse order.
func (e *Engine) nodeAt(world geom.Vec) *scene.Node {
	nodes := e.scn.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		if world.Dist(nodes[i].Pos) <= nodes[i].Radius {
			return nodes[i]
		}
	}
	return nil
}

func (e *Engine) isSelected(id string) bool { return e.selectedSet[id] }

// replaceSelection replaces the whole selection, emitting SelectionChanged
// if membership or order changed.
func (e *Engine) replaceSelection(ids []string) {
	same := len(ids) == len(e.selected)
	if same {
		for i := range ids {
			if ids[i] != e.selected[i] {
				same = false
				break
			}
		}
	}
	if same {
		return
	}
	e.selected = append(e.selected[:0:0], ids...)
	e.selectedSet = make(map[string]bool, len(ids))
	for _, id := range ids {
		e.selectedSet[id] = true
	}
	e.emitSelectionChanged()
}

// toggleSelect flips a node's selection membership, preserving click order
// for the remaining members.
func (e *Engine) toggleSelect(id string) {
	if e.selectedSet[id] {
		delete(e.selectedSet, id)
		for i, s := range e.selected {
			if s == id {
				e.selected = append(e.selected[:i], e.selected[i+1:]...)
				break
			}
		}
	} else {
		e.selectedSet[id] = true
		e.selected = append(e.selected, id)
	}
	e.emitSelectionChanged()
}

func (e *Engine) startDrag(nodeID string) {
	n := e.scn.Node(nodeID)
	if n == nil {
		return
	}
	e.setMode(ModeDragging)
	e.drag = &DragSession{
		NodeID:       nodeID,
		StartWorld:   n.Pos,
		CurrentWorld: n.Pos,
		CandidatePos: n.Pos,
	}
}

// commitDrag moves the node to the collision-resolved candidate position and
// emits NodeMoved. A drag whose node was deleted externally mid-session is
// discarded without touching scene state.
func (e *Engine) commitDrag() {
	d := e.drag
	e.drag = nil
	if d == nil {
		e.setMode(e.selectionMode())
		return
	}
	n := e.scn.Node(d.NodeID)
	if n == nil {
		// Stale session: the node was deleted externally mid-drag. Discard
		// without mutating scene state or emitting an intent.
		e.discardStale(d.NodeID)
		return
	}
	e.scn.MoveNode(d.NodeID, d.CandidatePos)
	e.index.Move(d.NodeID, d.CandidatePos)
	e.setMode(e.selectionMode())
	e.emitNodeMoved(d.NodeID, d.CandidatePos)
}

// cancelDrag discards the session; the node keeps its pre-drag position
// since positions only change at commit.
func (e *Engine) cancelDrag() {
	e.drag = nil
	e.setMode(e.selectionMode())
}

// discardStale drops a node that disappeared externally from the selection
// and ends whatever session referenced it.
func (e *Engine) discardStale(id string) {
	e.drag = nil
	if e.selectedSet[id] {
		kept := make([]string, 0, len(e.selected))
		for _, s := range e.selected {
			if s != id {
				kept = append(kept, s)
			}
		}
		e.replaceSelection(kept)
	}
	e.setMode(e.selectionMode())
}

// =============================================================================
// Intent emission
// =============================================================================

func (e *Engine) emitSelectionChanged() {
	observability.Engine().OnIntent("selection_changed", "")
	if e.intents.SelectionChanged != nil {
		e.intents.SelectionChanged(e.SelectedIDs())
	}
}

func (e *Engine) emitCreateEntity(world geom.Vec) {
	observability.Engine().OnIntent("request_create_entity", "")
	if e.intents.RequestCreateEntity != nil {
		e.intents.RequestCreateEntity(world)
	}
}

func (e *Engine) emitEditEntity(id string) {
	observability.Engine().OnIntent("request_edit_entity", id)
	if e.intents.RequestEditEntity != nil {
		e.intents.RequestEditEntity(id)
	}
}

func (e *Engine) emitCreateConnection(fromID, toID string) {
	observability.Engine().OnIntent("request_create_connection", fromID+"->"+toID)
	if e.intents.RequestCreateConnection != nil {
		e.intents.RequestCreateConnection(fromID, toID)
	}
}

func (e *Engine) emitNodeMoved(id string, world geom.Vec) {
	observability.Engine().OnIntent("node_moved", id)
	if e.intents.NodeMoved != nil {
		e.intents.NodeMoved(id, world)
	}
}

func (e *Engine) emitCreateNote(world geom.Vec) {
	observability.Engine().OnIntent("request_create_note", "")
	if e.intents.RequestCreateNote != nil {
		e.intents.RequestCreateNote(world)
	}
}

// worldRect maps a screen-space corner pair to a normalized world rect.
func worldRect(cam *camera.Camera, a, b geom.Vec) geom.Rect {
	wa, wb := cam.ScreenToWorld(a), cam.ScreenToWorld(b)
	return geom.Rect{
		Min: geom.Vec{X: min(wa.X, wb.X), Y: min(wa.Y, wb.Y)},
		Max: geom.Vec{X: max(wa.X, wb.X), Y: max(wa.Y, wb.Y)},
	}
}
