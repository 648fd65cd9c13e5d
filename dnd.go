package dnd

import "math"

// Marker attributes form the contract between a host application and the
// engine. Hosts set the kind and disabled markers when building their element
// tree; the engine and preview helper own the rest and always clear them on
// every exit path.
const (
	AttrKind     = "data-dnd-kind"     // set by host: draggable/droppable candidate kind
	AttrDisabled = "data-dnd-disabled" // set by host: presence blocks pick-up regardless of kind
	AttrDragging = "data-dnd-dragging" // set by engine: present on the source element while dragging
	AttrOver     = "data-dnd-over"     // set by engine: present on the currently hovered droppable
	AttrHidden   = "aria-hidden"       // set by preview helper: present on the cloned overlay
)

// Vec2 is a 2D vector used for pointer positions, offsets, and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// EventType identifies a kind of document event.
type EventType uint8

const (
	EventPointerDown   EventType = iota // fires when a pointer is pressed
	EventPointerMove                    // fires when a pointer moves
	EventPointerUp                      // fires when a pointer is released
	EventPointerCancel                  // fires when the platform aborts a pointer interaction
	EventPointerLeave                   // fires when a pointer leaves the window entirely
	EventKeyDown                        // fires when a key is pressed
)

// Key identifies a keyboard key by name.
type Key string

// KeyEscape is the only key the engine reacts to (drag cancellation).
const KeyEscape Key = "Escape"

// PointerEvent carries pointer event data dispatched by a Document.
// Target is the topmost element under the pointer (or the captured element
// while a pointer capture is held); nil when nothing is hit or for
// EventPointerLeave.
type PointerEvent struct {
	Type      EventType
	PointerID int
	X, Y      float64
	Target    *Element

	defaultPrevented bool
}

// PreventDefault marks the event so the host can suppress its own default
// behavior for it (the text-selection / native-drag analog). The document
// itself attaches no behavior to the flag.
func (e *PointerEvent) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called on this event.
func (e *PointerEvent) DefaultPrevented() bool {
	return e.defaultPrevented
}

// KeyEvent carries keyboard event data dispatched by a Document.
type KeyEvent struct {
	Key Key
}

// Bool returns a pointer to v. Convenience for the optional boolean toggles
// in Config, whose absence means "enabled", not "false".
func Bool(v bool) *bool {
	return &v
}

// kindSet is a deduplicated, order-irrelevant set of non-empty kind strings.
type kindSet map[string]struct{}

// newKindSet builds a kind set from one or more kind identifiers.
// Empty strings are rejected: a kind that can never match an attribute value
// is a configuration mistake, not a valid member.
func newKindSet(kinds []string) (kindSet, bool) {
	if len(kinds) == 0 {
		return nil, false
	}
	set := make(kindSet, len(kinds))
	for _, k := range kinds {
		if k == "" {
			return nil, false
		}
		set[k] = struct{}{}
	}
	return set, true
}

func (s kindSet) contains(kind string) bool {
	_, ok := s[kind]
	return ok
}

// dist returns the Euclidean distance between two points.
func dist(ax, ay, bx, by float64) float64 {
	return math.Hypot(bx-ax, by-ay)
}
