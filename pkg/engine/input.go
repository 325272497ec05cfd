package engine

import (
	"math"
	"time"

	"github.com/ideagraph/ideagraph/pkg/geom"
	"github.com/ideagraph/ideagraph/pkg/observability"
)

// Key names understood by KeyDown. Hosts translate their platform key events
// to these before forwarding.
const (
	KeyEscape = "escape"
)

// wheelNotch is the delta of one conventional wheel detent.
const wheelNotch = 120.0

// PointerDown feeds a pointer press at a screen position with the modifier
// state at press time. It resolves the press against the scene (node hit or
// empty canvas) and the current mode, and arms click/drag tracking for the
// matching PointerUp.
func (e *Engine) PointerDown(screen geom.Vec, mods Modifiers) {
	e.cursor = screen
	world := e.cam.ScreenToWorld(screen)
	hit := e.nodeAt(world)

	switch e.mode {
	case ModeConnecting:
		// Second half of the quick-connect gesture: a press on another
		// node completes it, anything else cancels without an intent.
		from := e.pendingSource
		e.setMode(ModeIdle)
		if hit != nil && hit.ID != from {
			e.emitCreateConnection(from, hit.ID)
		}
		e.requestFrame()
		return

	case ModeDragging:
		// A second press mid-drag means input got out of sync (e.g. the
		// host missed a pointer up); discard the session.
		e.cancelDrag()
	}

	e.pointer = pointerState{
		down:     true,
		start:    screen,
		last:     screen,
		downTime: e.now(),
		mods:     mods,
	}

	if hit == nil {
		// Empty canvas: Shift drags out an area selection, a plain press
		// starts a pan. Click classification happens at pointer up.
		if mods.Shift {
			e.pointer.areaSelect = true
		} else {
			e.pointer.panning = true
		}
		e.requestFrame()
		return
	}

	e.pointer.onNode = hit.ID
	switch {
	case e.quickConnect(mods):
		e.setMode(ModeConnecting)
		e.pendingSource = hit.ID

	case e.primary(mods):
		// Ctrl/Cmd toggles membership. Any non-empty toggled selection is
		// multi-select, even with a single member, so follow-up toggles
		// keep accumulating.
		e.toggleSelect(hit.ID)
		if len(e.selected) == 0 {
			e.setMode(ModeIdle)
		} else {
			e.setMode(ModeMultiSelect)
		}

	default:
		// Plain press: an unselected node replaces the selection; a press
		// on an already-selected node keeps the selection so the whole
		// gesture can turn into a drag.
		if !e.isSelected(hit.ID) {
			e.replaceSelection([]string{hit.ID})
		}
		if e.mode != ModeMultiSelect {
			e.setMode(ModeSingleSelect)
		}
	}
	e.requestFrame()
}

// PointerMove feeds pointer motion. While a press is active it drives
// panning, area selection, or the drag session; otherwise it only moves the
// rubber-band endpoint in ModeConnecting.
func (e *Engine) PointerMove(screen geom.Vec, mods Modifiers) {
	e.cursor = screen
	if !e.pointer.down {
		if e.mode == ModeConnecting {
			e.requestFrame()
		}
		return
	}

	delta := screen.Sub(e.pointer.last)
	e.pointer.last = screen

	if !e.pointer.moved && screen.Sub(e.pointer.start).Len() > e.cfg.DragThreshold {
		e.pointer.moved = true
		// Travel crossed the threshold on a selected node: the gesture is
		// a drag, not a click.
		if (e.mode == ModeSingleSelect || e.mode == ModeMultiSelect) &&
			e.pointer.onNode != "" && e.isSelected(e.pointer.onNode) {
			e.startDrag(e.pointer.onNode)
		}
	}

	switch {
	case e.mode == ModeDragging && e.drag != nil:
		n := e.scn.Node(e.drag.NodeID)
		if n == nil {
			// Node deleted externally mid-drag: stale session, discard.
			e.discardStale(e.drag.NodeID)
			break
		}
		world := e.cam.ScreenToWorld(screen)
		e.drag.CurrentWorld = world
		cand := e.index.NearestFree(world, n.Radius, n.ID)
		observability.Engine().OnCollisionSearch(cand == world, cand.Dist(world))
		e.drag.CandidatePos = cand

	case e.pointer.panning:
		e.cam.PanBy(delta)
	}
	e.requestFrame()
}

// PointerUp feeds a pointer release and classifies the whole press/release
// pair: a drag commits or an area selection applies when travel exceeded the
// threshold, otherwise the pair is a click and dispatches on what was hit at
// press time.
func (e *Engine) PointerUp(screen geom.Vec, mods Modifiers) {
	if !e.pointer.down {
		return
	}
	p := e.pointer
	e.pointer = pointerState{}
	e.cursor = screen

	travel := screen.Sub(p.start).Len()
	elapsed := e.now().Sub(p.downTime)

	if e.mode == ModeDragging {
		observability.Engine().OnGesture("drag", travel)
		e.commitDrag()
		e.requestFrame()
		return
	}

	if p.areaSelect && p.moved {
		observability.Engine().OnGesture("area_select", travel)
		e.applyAreaSelection(worldRect(e.cam, p.start, screen))
		e.requestFrame()
		return
	}

	if p.panning && p.moved {
		observability.Engine().OnGesture("pan", travel)
		e.requestFrame()
		return
	}

	// Below the drag threshold and inside the click window: a click.
	if p.moved || elapsed > e.cfg.ClickTimeout {
		e.requestFrame()
		return
	}
	observability.Engine().OnGesture("click", travel)

	if p.onNode != "" {
		e.clickOnNode(p.onNode)
	} else {
		e.clickOnEmptyCanvas(e.cam.ScreenToWorld(screen), p.mods)
	}
	e.requestFrame()
}

// Wheel feeds a wheel event at a screen position. Positive deltas zoom out,
// negative deltas zoom in, anchored at the pointer so the world point under
// the cursor stays put.
func (e *Engine) Wheel(screen geom.Vec, delta float64) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return
	}
	e.cam.ZoomAt(screen, math.Pow(e.cfg.WheelZoomStep, -delta/wheelNotch))
	observability.Engine().OnGesture("wheel_zoom", delta)
	e.requestFrame()
}

// KeyDown feeds a key press. Escape cancels the ephemeral session of the
// current mode (pending connection, drag, note placement); the note key
// toggles sticky-note placement.
func (e *Engine) KeyDown(key string) {
	switch key {
	case KeyEscape:
		switch e.mode {
		case ModeConnecting, ModePlacingNote:
			e.setMode(e.selectionMode())
		case ModeDragging:
			e.cancelDrag()
		}
		e.requestFrame()

	case e.cfg.NoteKey:
		switch e.mode {
		case ModePlacingNote:
			e.setMode(e.selectionMode())
		case ModeIdle, ModeSingleSelect, ModeMultiSelect:
			e.setMode(ModePlacingNote)
		}
		e.requestFrame()
	}
}

// KeyUp feeds a key release. Modifier state rides on pointer events, so
// nothing reacts to releases today; the method exists for host symmetry.
func (e *Engine) KeyUp(key string) {}

// clickOnNode handles a classified click on a node: a second click within
// the double-click window opens the edit flow, a first click records itself
// for that window. Selection was already updated at pointer down.
func (e *Engine) clickOnNode(id string) {
	now := e.now()
	if e.lastClick.node == id && now.Sub(e.lastClick.at) <= e.cfg.DoubleClickTimeout {
		e.lastClick.at, e.lastClick.node = time.Time{}, ""
		e.replaceSelection(nil)
		e.setMode(ModeIdle)
		e.emitEditEntity(id)
		return
	}
	e.lastClick.at, e.lastClick.node = now, id
}

// clickOnEmptyCanvas handles a classified click that hit no node. In note
// placement mode it places the note; otherwise it clears the selection and,
// for an unmodified click, asks the collaborator to create an entity there.
func (e *Engine) clickOnEmptyCanvas(world geom.Vec, mods Modifiers) {
	e.lastClick.at, e.lastClick.node = time.Time{}, ""

	if e.mode == ModePlacingNote {
		e.setMode(ModeIdle)
		e.emitCreateNote(world)
		return
	}

	e.replaceSelection(nil)
	e.setMode(ModeIdle)
	if mods.none() {
		e.emitCreateEntity(world)
	}
}

// applyAreaSelection selects every node whose center lies inside the world
// rectangle, in scene insertion order.
func (e *Engine) applyAreaSelection(r geom.Rect) {
	var ids []string
	for _, n := range e.scn.Nodes() {
		if r.Contains(n.Pos) {
			ids = append(ids, n.ID)
		}
	}
	e.replaceSelection(ids)
	e.setMode(e.selectionMode())
}
