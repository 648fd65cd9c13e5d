// Package dnd is a data-driven drag-and-drop interaction engine.
//
// The engine turns raw pointer events into a drag lifecycle — pick-up,
// threshold-gated drag start, frame-coalesced moves with hover detection and
// edge auto-scroll, drop resolution, cancellation — without ever owning
// application data. Hosts describe their UI as an element tree with marker
// attributes, supply accessor callbacks, and receive results through
// lifecycle callbacks and attribute mutations.
//
// # Quick start
//
// Build a [Document], add elements carrying the kind marker, and create an
// [Engine] over them:
//
//	doc := dnd.NewDocument(640, 480)
//	cell := dnd.NewElement("div")
//	cell.SetAttr(dnd.AttrKind, "cell")
//	cell.Width, cell.Height = 64, 64
//	doc.Body().AddChild(cell)
//
//	engine, err := dnd.NewEngine(doc, doc.Body(), dnd.Config{
//		DraggableKinds: []string{"cell"},
//		DroppableKinds: []string{"cell"},
//	}, dnd.Callbacks[int, string]{
//		ResolvePosition: func(el *dnd.Element, kind string) (int, bool) { ... },
//		Drop: func(from, to int, item string) { ... },
//	})
//
// Feed input through the [Document] entry points (PointerDown, PointerMove,
// PointerUp, ...) from any source. For Ebitengine hosts, [Driver] does the
// wiring: mouse, touch, Escape, and window-leave, one Update per tick.
//
// # Lifecycle
//
// Within one session, callbacks fire strictly as
// DragStart → DragMove* → (Drop, DragEnd) | DragEnd | Click, where Click is
// exclusive with the rest: it fires only when the movement threshold was
// never crossed. Move processing is coalesced to one update per frame
// ([Document.Step] tick), bounding callback and attribute-mutation frequency
// at display rate regardless of input event frequency.
//
// # Preview
//
// [Preview] clones a dragged element into the document's fixed overlay and
// follows the pointer; wire it to the engine's DragStart/DragMove/DragEnd
// callbacks, or feed it positions from anywhere else. An optional snap-back
// animation (via [gween]) eases the clone home when a drag ends.
//
// # Testing and automation
//
// Synthetic input (InjectPress, InjectDrag, ...) and JSON interaction
// scripts ([LoadScript], [Runner]) replay full drag gestures tick by tick
// through [Document.Pump] — no real input device required.
//
// [gween]: https://github.com/tanema/gween
package dnd
