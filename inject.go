package dnd

// syntheticEvent represents a single injected input event. Pointer events
// use pointer 0 (the mouse slot), matching what a script or test "sees".
type syntheticEvent struct {
	event EventType
	x, y  float64
	key   Key
	isKey bool
}

// InjectPress queues a pointer press at the given screen coordinates.
// The event is consumed on the next Pump call.
func (d *Document) InjectPress(x, y float64) {
	d.injectQueue = append(d.injectQueue, syntheticEvent{event: EventPointerDown, x: x, y: y})
}

// InjectMove queues a pointer move. Use between InjectPress and
// InjectRelease to simulate a drag.
func (d *Document) InjectMove(x, y float64) {
	d.injectQueue = append(d.injectQueue, syntheticEvent{event: EventPointerMove, x: x, y: y})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (d *Document) InjectRelease(x, y float64) {
	d.injectQueue = append(d.injectQueue, syntheticEvent{event: EventPointerUp, x: x, y: y})
}

// InjectCancel queues a platform-style pointer abort.
func (d *Document) InjectCancel(x, y float64) {
	d.injectQueue = append(d.injectQueue, syntheticEvent{event: EventPointerCancel, x: x, y: y})
}

// InjectLeave queues a "pointer left the window" signal.
func (d *Document) InjectLeave(x, y float64) {
	d.injectQueue = append(d.injectQueue, syntheticEvent{event: EventPointerLeave, x: x, y: y})
}

// InjectKey queues a key press.
func (d *Document) InjectKey(key Key) {
	d.injectQueue = append(d.injectQueue, syntheticEvent{event: EventKeyDown, key: key, isKey: true})
}

// InjectClick is a convenience that queues a press followed by a release at
// the same coordinates. Consumes two Pump calls.
func (d *Document) InjectClick(x, y float64) {
	d.InjectPress(x, y)
	d.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY), linearly
// interpolated moves over frames-2 intermediate frames, and release at
// (toX, toY). The total sequence consumes `frames` Pump calls. Minimum
// frames is 2 (press + release).
func (d *Document) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	d.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		d.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	d.InjectRelease(toX, toY)
}

// InjectPending returns the number of queued synthetic events.
func (d *Document) InjectPending() int {
	return len(d.injectQueue)
}

// Pump consumes one injected event, dispatches it, and runs the frame
// scheduler — one simulated tick. Reports whether an event was consumed
// (drivers skip real mouse input for that tick).
func (d *Document) Pump() bool {
	consumed := d.processInjected()
	d.Step()
	return consumed
}

// processInjected pops one event from the inject queue and feeds it through
// the matching entry point. Returns true if an event was consumed.
func (d *Document) processInjected() bool {
	if len(d.injectQueue) == 0 {
		return false
	}
	evt := d.injectQueue[0]
	copy(d.injectQueue, d.injectQueue[1:])
	d.injectQueue = d.injectQueue[:len(d.injectQueue)-1]

	if evt.isKey {
		d.KeyDown(evt.key)
		return true
	}
	switch evt.event {
	case EventPointerDown:
		d.PointerDown(0, evt.x, evt.y)
	case EventPointerMove:
		d.PointerMove(0, evt.x, evt.y)
	case EventPointerUp:
		d.PointerUp(0, evt.x, evt.y)
	case EventPointerCancel:
		d.PointerCancel(0, evt.x, evt.y)
	case EventPointerLeave:
		d.PointerLeave(0, evt.x, evt.y)
	}
	return true
}
