package dnd

import "fmt"

// overlayZIndex keeps the overlay layer painting above any body content.
const overlayZIndex = 1 << 20

// Document owns the element tree, viewport, scroll state, listener registry,
// pointer-capture table, and frame scheduler. It is the stand-in for the host
// environment's window: drivers feed it low-level input through the
// PointerDown/PointerMove/PointerUp/PointerCancel/PointerLeave/KeyDown entry
// points, and it dispatches typed events to registered listeners.
//
// A Document is single-threaded by contract: all entry points and Step must
// be called from the same goroutine.
type Document struct {
	root    *Element
	body    *Element
	overlay *Element

	viewport Rect
	scroll   Vec2
	content  Vec2

	pointerHandlers []pointerHandler
	keyHandlers     []keyHandler
	nextHandlerID   uint64
	dispatchBuf     []pointerHandler

	captured map[int]*Element
	active   map[int]bool

	frames      []frameRequest
	nextFrameID FrameHandle
	frameBuf    []frameRequest

	hitBuf []*Element

	injectQueue []syntheticEvent
}

// NewDocument creates a document with an empty body, a fixed overlay layer
// painting above it, and the given viewport size. Content size defaults to
// the viewport (nothing to scroll).
func NewDocument(width, height float64) *Document {
	root := NewElement("document")
	body := NewElement("body")
	overlay := NewElement("overlay")
	overlay.ZIndex = overlayZIndex
	root.AddChild(body)
	root.AddChild(overlay)
	return &Document{
		root:     root,
		body:     body,
		overlay:  overlay,
		viewport: Rect{Width: width, Height: height},
		content:  Vec2{X: width, Y: height},
		captured: make(map[int]*Element),
		active:   make(map[int]bool),
	}
}

// Root returns the document's root element.
func (d *Document) Root() *Element {
	return d.root
}

// Body returns the scrollable content layer. Host elements belong here.
func (d *Document) Body() *Element {
	return d.body
}

// Overlay returns the fixed layer painting above the body. It ignores
// document scroll, so content placed here escapes any scrolled ancestor —
// the preview helper inserts clones here by default.
func (d *Document) Overlay() *Element {
	return d.overlay
}

// Viewport returns the visible window rectangle.
func (d *Document) Viewport() Rect {
	return d.viewport
}

// SetViewport resizes the visible window rectangle and re-clamps scroll.
func (d *Document) SetViewport(r Rect) {
	d.viewport = r
	d.ScrollBy(0, 0)
}

// SetContentSize sets the total scrollable content extent and re-clamps scroll.
func (d *Document) SetContentSize(width, height float64) {
	d.content = Vec2{X: width, Y: height}
	d.ScrollBy(0, 0)
}

// Scroll returns the current scroll offset.
func (d *Document) Scroll() Vec2 {
	return d.scroll
}

// ScrollBy scrolls the body content by (dx, dy), clamped so the viewport
// never leaves the content bounds.
func (d *Document) ScrollBy(dx, dy float64) {
	d.scroll.X = clamp(d.scroll.X+dx, 0, max0(d.content.X-d.viewport.Width))
	d.scroll.Y = clamp(d.scroll.Y+dy, 0, max0(d.content.Y-d.viewport.Height))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// --- Geometry ---

// ScreenRect resolves the element's on-screen rectangle: ancestor offsets
// plus transform translation, shifted by document scroll unless the element
// lives in the overlay layer (which is fixed).
func (d *Document) ScreenRect(el *Element) Rect {
	var x, y float64
	scrolled := false
	for cur := el; cur != nil; cur = cur.Parent {
		x += cur.X + cur.TranslateX
		y += cur.Y + cur.TranslateY
		if cur == d.body {
			scrolled = true
		}
	}
	if scrolled {
		x -= d.scroll.X
		y -= d.scroll.Y
	}
	return Rect{X: x, Y: y, Width: el.Width, Height: el.Height}
}

// collectHitTestable walks the tree in paint order (DFS, ZIndex-sorted),
// appending hit-testable elements to buf. Invisible or non-interactive
// subtrees are skipped entirely.
func (d *Document) collectHitTestable(el *Element, buf []*Element) []*Element {
	if !el.Visible || !el.Interactive {
		return buf
	}
	if el.Width > 0 || el.Height > 0 {
		buf = append(buf, el)
	}
	for _, child := range el.sorted() {
		buf = d.collectHitTestable(child, buf)
	}
	return buf
}

// ElementFromPoint returns the topmost hit-testable element at the screen
// point (x, y), or nil if nothing is hit. Zero-size elements (containers)
// are never hit.
func (d *Document) ElementFromPoint(x, y float64) *Element {
	d.hitBuf = d.collectHitTestable(d.root, d.hitBuf[:0])

	// Iterate backward (reverse paint order): topmost element first.
	for i := len(d.hitBuf) - 1; i >= 0; i-- {
		el := d.hitBuf[i]
		if d.ScreenRect(el).Contains(x, y) {
			return el
		}
	}
	return nil
}

// --- Selector queries ---

// Query returns the first element (depth-first) matching a simple selector:
// "#id", ".class", "[attr]", "[attr=value]", or a bare tag name.
// Returns nil when nothing matches.
func (d *Document) Query(sel string) *Element {
	return query(d.root, sel)
}

func query(el *Element, sel string) *Element {
	if el.matchesSelector(sel) {
		return el
	}
	for _, child := range el.children {
		if found := query(child, sel); found != nil {
			return found
		}
	}
	return nil
}

// --- Listener registry ---

type pointerHandler struct {
	id    uint64
	event EventType
	scope *Element // nil = window-level: receives every event of the type
	fn    func(*PointerEvent)
}

type keyHandler struct {
	id uint64
	fn func(KeyEvent)
}

// Handle allows removing a registered listener. Handles are per-listener, so
// multiple engines on one document detach only their own listeners.
type Handle struct {
	id  uint64
	doc *Document
}

// Remove unregisters the listener so it no longer fires. Idempotent.
func (h Handle) Remove() {
	if h.doc == nil {
		return
	}
	for i := range h.doc.pointerHandlers {
		if h.doc.pointerHandlers[i].id == h.id {
			s := h.doc.pointerHandlers
			copy(s[i:], s[i+1:])
			s[len(s)-1] = pointerHandler{}
			h.doc.pointerHandlers = s[:len(s)-1]
			return
		}
	}
	for i := range h.doc.keyHandlers {
		if h.doc.keyHandlers[i].id == h.id {
			s := h.doc.keyHandlers
			copy(s[i:], s[i+1:])
			s[len(s)-1] = keyHandler{}
			h.doc.keyHandlers = s[:len(s)-1]
			return
		}
	}
}

// On registers a pointer event listener. With a nil scope the listener is
// window-level and receives every event of the type; with a non-nil scope it
// fires only when the event target lies within that element's subtree.
// Panics if event is EventKeyDown (use OnKey).
func (d *Document) On(event EventType, scope *Element, fn func(*PointerEvent)) Handle {
	if event == EventKeyDown {
		panic("dnd: use OnKey for keyboard listeners")
	}
	d.nextHandlerID++
	d.pointerHandlers = append(d.pointerHandlers, pointerHandler{
		id: d.nextHandlerID, event: event, scope: scope, fn: fn,
	})
	return Handle{id: d.nextHandlerID, doc: d}
}

// OnKey registers a window-level keyboard listener.
func (d *Document) OnKey(fn func(KeyEvent)) Handle {
	d.nextHandlerID++
	d.keyHandlers = append(d.keyHandlers, keyHandler{id: d.nextHandlerID, fn: fn})
	return Handle{id: d.nextHandlerID, doc: d}
}

// --- Pointer capture ---

// SetPointerCapture routes subsequent events for pointerID to el regardless
// of hit testing, until released or the pointer ends. Returns an error when
// the pointer is not currently active; callers treating capture as an
// optimization should swallow it.
func (d *Document) SetPointerCapture(pointerID int, el *Element) error {
	if el == nil {
		return fmt.Errorf("dnd: cannot capture pointer %d to nil element", pointerID)
	}
	if !d.active[pointerID] {
		return fmt.Errorf("dnd: pointer %d is not active", pointerID)
	}
	d.captured[pointerID] = el
	return nil
}

// ReleasePointerCapture stops routing events for pointerID to a captured
// element. Returns an error when no capture is held for the pointer.
func (d *Document) ReleasePointerCapture(pointerID int) error {
	if d.captured[pointerID] == nil {
		return fmt.Errorf("dnd: pointer %d holds no capture", pointerID)
	}
	delete(d.captured, pointerID)
	return nil
}

// Captured returns the element currently holding pointerID's capture, or nil.
func (d *Document) Captured(pointerID int) *Element {
	return d.captured[pointerID]
}

// --- Event entry points ---

// PointerDown feeds a pointer press at screen coordinates. Returns true if a
// listener called PreventDefault on the event.
func (d *Document) PointerDown(pointerID int, x, y float64) bool {
	d.active[pointerID] = true
	return d.dispatchPointer(EventPointerDown, pointerID, x, y)
}

// PointerMove feeds a pointer move at screen coordinates.
func (d *Document) PointerMove(pointerID int, x, y float64) {
	d.dispatchPointer(EventPointerMove, pointerID, x, y)
}

// PointerUp feeds a pointer release. Any capture held by the pointer is
// auto-released afterward.
func (d *Document) PointerUp(pointerID int, x, y float64) {
	d.dispatchPointer(EventPointerUp, pointerID, x, y)
	delete(d.captured, pointerID)
	delete(d.active, pointerID)
}

// PointerCancel feeds a platform-initiated pointer abort. Any capture held
// by the pointer is auto-released afterward.
func (d *Document) PointerCancel(pointerID int, x, y float64) {
	d.dispatchPointer(EventPointerCancel, pointerID, x, y)
	delete(d.captured, pointerID)
	delete(d.active, pointerID)
}

// PointerLeave feeds a "pointer left the window" signal. The event has no
// target, so only window-level listeners receive it.
func (d *Document) PointerLeave(pointerID int, x, y float64) {
	ev := PointerEvent{Type: EventPointerLeave, PointerID: pointerID, X: x, Y: y}
	d.dispatchBuf = append(d.dispatchBuf[:0], d.pointerHandlers...)
	for _, h := range d.dispatchBuf {
		if h.event == EventPointerLeave && h.scope == nil {
			h.fn(&ev)
		}
	}
}

// KeyDown feeds a key press to all keyboard listeners.
func (d *Document) KeyDown(key Key) {
	ev := KeyEvent{Key: key}
	// Snapshot: a listener may remove handlers mid-dispatch.
	handlers := append([]keyHandler(nil), d.keyHandlers...)
	for _, h := range handlers {
		h.fn(ev)
	}
}

// dispatchPointer resolves the event target (captured element, or hit test)
// and fires matching listeners: window-level ones always, scoped ones when
// the target lies within their scope.
func (d *Document) dispatchPointer(event EventType, pointerID int, x, y float64) bool {
	target := d.captured[pointerID]
	if target == nil {
		target = d.ElementFromPoint(x, y)
	}
	ev := PointerEvent{Type: event, PointerID: pointerID, X: x, Y: y, Target: target}

	// Dispatch over a snapshot: a listener may remove handlers mid-dispatch.
	d.dispatchBuf = append(d.dispatchBuf[:0], d.pointerHandlers...)
	for _, h := range d.dispatchBuf {
		if h.event != event {
			continue
		}
		if h.scope != nil && (target == nil || !h.scope.Contains(target)) {
			continue
		}
		h.fn(&ev)
	}
	return ev.defaultPrevented
}

// --- Frame scheduler ---

// FrameHandle identifies a pending frame callback. Zero is never a valid handle.
type FrameHandle uint64

type frameRequest struct {
	id FrameHandle
	fn func()
}

// RequestFrame queues fn to run on the next Step call and returns a handle
// for cancellation. The document places no bound on pending callbacks;
// callers wanting coalescing keep at most one handle outstanding.
func (d *Document) RequestFrame(fn func()) FrameHandle {
	d.nextFrameID++
	d.frames = append(d.frames, frameRequest{id: d.nextFrameID, fn: fn})
	return d.nextFrameID
}

// CancelFrame removes a pending frame callback. No-op if the handle already
// fired or was cancelled.
func (d *Document) CancelFrame(h FrameHandle) {
	for i := range d.frames {
		if d.frames[i].id == h {
			copy(d.frames[i:], d.frames[i+1:])
			d.frames[len(d.frames)-1] = frameRequest{}
			d.frames = d.frames[:len(d.frames)-1]
			return
		}
	}
}

// Step runs all frame callbacks queued before this call. Callbacks queued
// during Step run on the next Step. Drivers call this once per tick.
func (d *Document) Step() {
	if len(d.frames) == 0 {
		return
	}
	d.frameBuf = append(d.frameBuf[:0], d.frames...)
	d.frames = d.frames[:0]
	for _, req := range d.frameBuf {
		req.fn()
	}
}
