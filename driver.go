package dnd

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Pointer slots: pointer 0 = mouse, 1-9 = touch.
const maxPointers = 10

// Driver feeds Ebitengine input into a Document: mouse as pointer 0, touches
// as pointers 1-9, Escape presses, and a window-leave signal when the cursor
// exits the viewport during an interaction. Call Update once per game tick;
// it also pumps the document's injected events and frame scheduler.
//
// The driver is optional — the Document's entry points accept events from
// any source — but it is the batteries-included wiring for ebiten hosts.
type Driver struct {
	doc *Document

	mouseDown   bool
	mouseInside bool
	mouseX      float64
	mouseY      float64

	escDown bool

	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	touchX       [maxPointers]float64
	touchY       [maxPointers]float64
	prevTouchIDs []ebiten.TouchID

	runner *Runner
}

// NewDriver creates a driver bound to a document. Panics on a nil document.
func NewDriver(doc *Document) *Driver {
	if doc == nil {
		panic("dnd: nil document")
	}
	return &Driver{doc: doc, mouseInside: true}
}

// SetRunner attaches an interaction script runner. The runner is stepped
// once per Update, feeding its steps through the inject queue.
func (d *Driver) SetRunner(r *Runner) {
	d.runner = r
}

// Update reads input for one tick, dispatches events into the document, and
// runs the frame scheduler. Call from the host's per-tick update.
func (d *Driver) Update() {
	if d.runner != nil {
		d.runner.step(d.doc)
	}

	// Injected input replaces real mouse input for this tick.
	if !d.doc.processInjected() {
		d.processMouse()
	}
	d.processTouches()
	d.processKeys()

	d.doc.Step()
}

// processMouse handles mouse input (pointer 0) with edge detection against
// the previous tick's state.
func (d *Driver) processMouse() {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	inside := d.doc.Viewport().Contains(x, y)
	if d.mouseInside && !inside {
		// Cursor left the window: the engine's leave-cancel path.
		d.doc.PointerLeave(0, x, y)
	}
	d.mouseInside = inside

	switch {
	case pressed && !d.mouseDown:
		d.doc.PointerDown(0, x, y)
	case !pressed && d.mouseDown:
		d.doc.PointerUp(0, x, y)
	case pressed || x != d.mouseX || y != d.mouseY:
		d.doc.PointerMove(0, x, y)
	}

	d.mouseDown = pressed
	d.mouseX, d.mouseY = x, y
}

// processTouches maps active touches to pointer slots 1-9 and synthesizes
// down/move/up events from slot transitions.
func (d *Driver) processTouches() {
	touchIDs := ebiten.AppendTouchIDs(d.prevTouchIDs[:0])
	d.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := d.touchSlot(tid)
		if slot < 0 {
			continue
		}
		tx, ty := ebiten.TouchPosition(tid)
		x, y := float64(tx), float64(ty)

		if activeSlots[slot] {
			continue
		}
		if !d.touchUsed[slot] {
			d.touchUsed[slot] = true
			d.doc.PointerDown(slot, x, y)
		} else if x != d.touchX[slot] || y != d.touchY[slot] {
			d.doc.PointerMove(slot, x, y)
		}
		activeSlots[slot] = true
		d.touchX[slot], d.touchY[slot] = x, y
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < maxPointers; i++ {
		if d.touchUsed[i] && !activeSlots[i] {
			d.doc.PointerUp(i, d.touchX[i], d.touchY[i])
			d.touchUsed[i] = false
			d.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (d *Driver) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if d.touchUsed[i] && d.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !d.touchUsed[i] {
			d.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processKeys edge-detects the Escape key.
func (d *Driver) processKeys() {
	esc := ebiten.IsKeyPressed(ebiten.KeyEscape)
	if esc && !d.escDown {
		d.doc.KeyDown(KeyEscape)
	}
	d.escDown = esc
}
