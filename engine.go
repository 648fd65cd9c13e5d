package dnd

import "fmt"

// --- Configuration ---

// Default thresholds and speeds, in pixels. Scroll speed is per processed
// move frame.
const (
	DefaultDragThreshold   = 10.0
	DefaultClickThreshold  = 10.0
	DefaultScrollThreshold = 100.0
	DefaultScrollSpeed     = 10.0
)

// Config configures an Engine. All numeric fields default when zero.
// The two cancellation toggles default to enabled; use Bool(false) to
// disable one (absence never means "disabled").
type Config struct {
	// DragThreshold is the movement distance in pixels at or above which an
	// armed session is promoted to dragging.
	DragThreshold float64
	// ClickThreshold is the distance strictly below which a press-release
	// that never started dragging resolves as a click.
	ClickThreshold float64
	// ScrollThreshold is the distance from a viewport edge within which
	// auto-scroll engages during a drag.
	ScrollThreshold float64
	// ScrollSpeed is the auto-scroll distance per processed move frame.
	ScrollSpeed float64
	// CancelOnEscape cancels an active drag on an Escape key press.
	CancelOnEscape *bool
	// CancelOnLeave cancels an active drag when the pointer leaves the window.
	CancelOnLeave *bool
	// DraggableKinds lists the kind attribute values that qualify an element
	// for pick-up. Required, one or more non-empty strings.
	DraggableKinds []string
	// DroppableKinds lists the kind attribute values that qualify an element
	// as a drop target. Required, one or more non-empty strings.
	DroppableKinds []string
}

// Callbacks is the engine's entire outward surface. Position and item types
// are host-defined; the engine never inspects them, it only threads them from
// the resolvers to the lifecycle callbacks. All callbacks but ResolvePosition
// are optional.
type Callbacks[P, I any] struct {
	// ResolvePosition maps an element and its matched kind to a host
	// position. Returning false aborts the operation silently. Required.
	ResolvePosition func(el *Element, kind string) (P, bool)
	// ResolveItem maps an element and its resolved position to the item
	// being dragged. Returning false aborts pick-up silently.
	ResolveItem func(el *Element, pos P) (I, bool)
	// CanDrag vetoes pick-up for an otherwise qualifying element.
	CanDrag func(el *Element, pos P) bool
	// DragStart fires once per session, when movement reaches DragThreshold.
	DragStart func(el *Element, pos P, item I)
	// DragMove fires once per processed move frame with the latest pointer
	// position and the currently hovered droppable (or nil).
	DragMove func(pointer Vec2, over *Element)
	// Drop fires on release over a droppable whose position resolves,
	// immediately before DragEnd.
	Drop func(source, target P, item I)
	// DragEnd fires on every exit path of a session that reached dragging.
	DragEnd func()
	// Click fires when a press-release never reached dragging and stayed
	// strictly below ClickThreshold.
	Click func(el *Element, pos P)
}

// ElementRef is a ref-like container wrapper: a mutable cell a host fills in
// once its container element exists.
type ElementRef struct {
	Current *Element
}

// --- Session ---

// Phase is the drag session state tag.
type Phase uint8

const (
	PhaseIdle     Phase = iota // no interaction in progress
	PhaseArmed                 // pointer down on a draggable, below threshold
	PhaseDragging              // threshold crossed, drag active
)

// Session is the per-interaction state. Exactly one exists per engine; every
// field is reset to its zero value on drop, cancel, and destroy.
type Session[P, I any] struct {
	Phase     Phase
	PointerID int
	Start     Vec2
	Source    *Element
	SourcePos P
	Item      I
	Over      *Element
}

// --- Engine ---

// Engine is the pointer-interaction state machine. It detects draggable
// elements through the kind marker attribute, gates drag start behind a
// movement threshold, tracks the hovered droppable, drives edge auto-scroll,
// resolves drops, and handles cancellation. It owns no host data: state is
// read through the resolver callbacks and results flow back through the
// lifecycle callbacks and marker attributes.
//
// P and I are the host-defined position and item types.
type Engine[P, I any] struct {
	doc       *Document
	container *Element
	cfg       Config
	escape    bool
	leave     bool
	draggable kindSet
	droppable kindSet
	cb        Callbacks[P, I]

	session Session[P, I]
	latest  Vec2
	pending FrameHandle

	handles   []Handle
	destroyed bool
}

// NewEngine creates an engine bound to a container and attaches its
// listeners. The container may be given as an *Element, a selector string,
// or an *ElementRef. An unresolvable selector or an empty ref is a fatal
// construction error: every later operation would silently no-op against a
// missing container.
//
// Missing required configuration (kinds, ResolvePosition) panics: unlike a
// not-yet-rendered container, it is a programmer error no retry can fix.
func NewEngine[P, I any](doc *Document, container any, cfg Config, cb Callbacks[P, I]) (*Engine[P, I], error) {
	if doc == nil {
		panic("dnd: nil document")
	}
	if cb.ResolvePosition == nil {
		panic("dnd: Callbacks.ResolvePosition is required")
	}

	el, err := resolveContainer(doc, container)
	if err != nil {
		return nil, err
	}

	draggable, ok := newKindSet(cfg.DraggableKinds)
	if !ok {
		panic("dnd: Config.DraggableKinds requires one or more non-empty kinds")
	}
	droppable, ok := newKindSet(cfg.DroppableKinds)
	if !ok {
		panic("dnd: Config.DroppableKinds requires one or more non-empty kinds")
	}

	if cfg.DragThreshold == 0 {
		cfg.DragThreshold = DefaultDragThreshold
	}
	if cfg.ClickThreshold == 0 {
		cfg.ClickThreshold = DefaultClickThreshold
	}
	if cfg.ScrollThreshold == 0 {
		cfg.ScrollThreshold = DefaultScrollThreshold
	}
	if cfg.ScrollSpeed == 0 {
		cfg.ScrollSpeed = DefaultScrollSpeed
	}

	e := &Engine[P, I]{
		doc:       doc,
		container: el,
		cfg:       cfg,
		escape:    cfg.CancelOnEscape == nil || *cfg.CancelOnEscape,
		leave:     cfg.CancelOnLeave == nil || *cfg.CancelOnLeave,
		draggable: draggable,
		droppable: droppable,
		cb:        cb,
	}
	e.attach()
	return e, nil
}

// resolveContainer accepts the three supported container forms.
func resolveContainer(doc *Document, container any) (*Element, error) {
	switch c := container.(type) {
	case *Element:
		if c == nil {
			return nil, fmt.Errorf("dnd: container element is nil")
		}
		return c, nil
	case string:
		el := doc.Query(c)
		if el == nil {
			return nil, fmt.Errorf("dnd: container selector %q matched no element", c)
		}
		return el, nil
	case *ElementRef:
		if c == nil || c.Current == nil {
			return nil, fmt.Errorf("dnd: container ref holds no element")
		}
		return c.Current, nil
	default:
		return nil, fmt.Errorf("dnd: unsupported container type %T", container)
	}
}

// attach registers the engine's listeners: pointer down/move/up/cancel on the
// container, up/cancel/leave at window level (so drops are captured outside
// the container), and Escape. Handles are kept for exact-match removal in
// Destroy, so multiple engines on one document never detach each other.
func (e *Engine[P, I]) attach() {
	e.handles = []Handle{
		e.doc.On(EventPointerDown, e.container, e.onPointerDown),
		e.doc.On(EventPointerMove, e.container, e.onPointerMove),
		e.doc.On(EventPointerUp, e.container, e.onPointerUp),
		e.doc.On(EventPointerCancel, e.container, e.onPointerCancel),
		e.doc.On(EventPointerUp, nil, e.onPointerUp),
		e.doc.On(EventPointerCancel, nil, e.onPointerCancel),
		e.doc.On(EventPointerLeave, nil, e.onPointerLeave),
		e.doc.OnKey(e.onKeyDown),
	}
}

// --- Kind matching ---

// closestKind walks up from el (inclusive) to the engine's container
// (inclusive), returning the nearest element whose kind marker value is in
// set, with the matched kind. Returns nil when el is outside the container
// subtree or nothing matches.
func (e *Engine[P, I]) closestKind(el *Element, set kindSet) (*Element, string) {
	if el == nil || !e.container.Contains(el) {
		return nil, ""
	}
	for cur := el; cur != nil; cur = cur.Parent {
		if kind, ok := cur.Attr(AttrKind); ok && set.contains(kind) {
			return cur, kind
		}
		if cur == e.container {
			break
		}
	}
	return nil, ""
}

// --- Pick-up ---

func (e *Engine[P, I]) onPointerDown(ev *PointerEvent) {
	// One live session per engine; presses from other pointers are ignored.
	if e.session.Phase != PhaseIdle {
		return
	}

	src, kind := e.closestKind(ev.Target, e.draggable)
	if src == nil {
		return
	}
	pos, ok := e.cb.ResolvePosition(src, kind)
	if !ok {
		return
	}
	// Hosts mark individual slots inert (empty cells) without removing the
	// kind marker.
	if src.HasAttr(AttrDisabled) {
		return
	}
	if e.cb.CanDrag != nil && !e.cb.CanDrag(src, pos) {
		return
	}
	var item I
	if e.cb.ResolveItem != nil {
		item, ok = e.cb.ResolveItem(src, pos)
		if !ok {
			return
		}
	}

	ev.PreventDefault()
	// Capture keeps move events flowing to the container listener when the
	// pointer leaves the source's bounds. Best effort: a rejected capture
	// degrades tracking, it does not break the session.
	_ = e.doc.SetPointerCapture(ev.PointerID, src)

	e.session = Session[P, I]{
		Phase:     PhaseArmed,
		PointerID: ev.PointerID,
		Start:     Vec2{X: ev.X, Y: ev.Y},
		Source:    src,
		SourcePos: pos,
		Item:      item,
	}
	e.latest = e.session.Start
	// No callback fires here: armed is not dragging.
}

// --- Move ---

func (e *Engine[P, I]) onPointerMove(ev *PointerEvent) {
	if e.session.Phase == PhaseIdle || ev.PointerID != e.session.PointerID {
		return
	}

	if e.session.Phase == PhaseArmed {
		if dist(e.session.Start.X, e.session.Start.Y, ev.X, ev.Y) < e.cfg.DragThreshold {
			return
		}
		// Threshold crossed: promote. This transition happens at most once
		// per session.
		e.session.Phase = PhaseDragging
		e.session.Source.SetAttr(AttrDragging, "true")
		if e.cb.DragStart != nil {
			e.cb.DragStart(e.session.Source, e.session.SourcePos, e.session.Item)
		}
	}

	// Coalesce: only the latest position survives until the next frame; at
	// most one frame callback is ever pending.
	e.latest = Vec2{X: ev.X, Y: ev.Y}
	if e.pending == 0 {
		e.pending = e.doc.RequestFrame(e.processMoveFrame)
	}
}

// processMoveFrame does the per-frame hover, auto-scroll, and move-callback
// work for the latest coalesced pointer position.
func (e *Engine[P, I]) processMoveFrame() {
	e.pending = 0
	// The session may have ended between scheduling and the frame firing.
	if e.session.Phase != PhaseDragging {
		return
	}

	hit := e.doc.ElementFromPoint(e.latest.X, e.latest.Y)
	over, _ := e.closestKind(hit, e.droppable)
	// Hovering the source element itself is valid and deliberately not
	// suppressed; same-element drop handling is the host's concern.
	if over != e.session.Over {
		if e.session.Over != nil {
			e.session.Over.RemoveAttr(AttrOver)
		}
		if over != nil {
			over.SetAttr(AttrOver, "true")
		}
		e.session.Over = over
	}

	e.autoScroll()

	if e.cb.DragMove != nil {
		e.cb.DragMove(e.latest, e.session.Over)
	}
}

// autoScroll scrolls the document when the pointer sits within
// ScrollThreshold of a viewport edge. Axes trigger independently, so a
// corner position scrolls diagonally.
func (e *Engine[P, I]) autoScroll() {
	vp := e.doc.Viewport()
	var dx, dy float64
	if e.latest.X < vp.X+e.cfg.ScrollThreshold {
		dx = -e.cfg.ScrollSpeed
	} else if e.latest.X > vp.X+vp.Width-e.cfg.ScrollThreshold {
		dx = e.cfg.ScrollSpeed
	}
	if e.latest.Y < vp.Y+e.cfg.ScrollThreshold {
		dy = -e.cfg.ScrollSpeed
	} else if e.latest.Y > vp.Y+vp.Height-e.cfg.ScrollThreshold {
		dy = e.cfg.ScrollSpeed
	}
	if dx != 0 || dy != 0 {
		e.doc.ScrollBy(dx, dy)
	}
}

// --- Release ---

func (e *Engine[P, I]) onPointerUp(ev *PointerEvent) {
	// The up event reaches the engine twice (container and window listener);
	// the first call clears the session, the second finds it idle.
	if e.session.Phase == PhaseIdle || ev.PointerID != e.session.PointerID {
		return
	}

	if e.session.Phase == PhaseDragging {
		// Drop resolution: hit-test at release coordinates; the target's
		// kind may differ from the source's.
		hit := e.doc.ElementFromPoint(ev.X, ev.Y)
		if target, kind := e.closestKind(hit, e.droppable); target != nil {
			if targetPos, ok := e.cb.ResolvePosition(target, kind); ok && e.cb.Drop != nil {
				e.cb.Drop(e.session.SourcePos, targetPos, e.session.Item)
			}
		}
		e.cleanup()
		return
	}

	// Armed but never promoted: click or nothing.
	if dist(e.session.Start.X, e.session.Start.Y, ev.X, ev.Y) < e.cfg.ClickThreshold {
		if e.cb.Click != nil {
			e.cb.Click(e.session.Source, e.session.SourcePos)
		}
	}
	e.cleanup()
}

// --- Cancellation ---

func (e *Engine[P, I]) onPointerCancel(ev *PointerEvent) {
	if e.session.Phase == PhaseIdle || ev.PointerID != e.session.PointerID {
		return
	}
	e.cleanup()
}

func (e *Engine[P, I]) onKeyDown(ev KeyEvent) {
	if !e.escape || ev.Key != KeyEscape || e.session.Phase != PhaseDragging {
		return
	}
	e.cleanup()
}

func (e *Engine[P, I]) onPointerLeave(ev *PointerEvent) {
	if !e.leave || e.session.Phase != PhaseDragging || ev.PointerID != e.session.PointerID {
		return
	}
	e.cleanup()
}

// --- Cleanup ---

// cleanup is the single exit path for every session: drop, click, cancel,
// escape, pointer-leave, and destroy all end here. Idempotent: with no
// active session it is a no-op.
func (e *Engine[P, I]) cleanup() {
	if e.session.Phase == PhaseIdle {
		return
	}

	if e.doc.Captured(e.session.PointerID) != nil {
		_ = e.doc.ReleasePointerCapture(e.session.PointerID)
	}
	if e.session.Source != nil {
		e.session.Source.RemoveAttr(AttrDragging)
	}
	if e.session.Over != nil {
		e.session.Over.RemoveAttr(AttrOver)
	}
	if e.pending != 0 {
		e.doc.CancelFrame(e.pending)
		e.pending = 0
	}

	wasDragging := e.session.Phase == PhaseDragging
	if wasDragging && e.cb.DragEnd != nil {
		e.cb.DragEnd()
	}

	var zero Session[P, I]
	e.session = zero
	e.latest = Vec2{}
}

// --- Public read operations ---

// Snapshot returns a copy of the current session state for inspection.
// Copying prevents external mutation of the live session.
func (e *Engine[P, I]) Snapshot() Session[P, I] {
	return e.session
}

// Dragging reports whether a drag is active (armed-below-threshold is not
// dragging).
func (e *Engine[P, I]) Dragging() bool {
	return e.session.Phase == PhaseDragging
}

// --- Teardown ---

// Destroy detaches every listener and cleans up any live session. The engine
// must not be reused afterward. Idempotent.
func (e *Engine[P, I]) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	for _, h := range e.handles {
		h.Remove()
	}
	e.handles = nil
	e.cleanup()
}
