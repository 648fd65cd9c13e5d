package dnd

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Preview defaults.
const (
	DefaultPreviewZIndex  = 9999
	DefaultPreviewOpacity = 0.95

	// offscreen keeps a fresh clone out of view until the first Move.
	offscreen = -1 << 14
)

// PreviewOptions configures a Preview. All fields are optional.
type PreviewOptions struct {
	// ZIndex is the clone's stacking order. Defaults to DefaultPreviewZIndex.
	ZIndex int
	// Opacity is the clone's alpha. Defaults to DefaultPreviewOpacity.
	Opacity float64
	// CenterOnCursor centers the clone on the pointer (default). Use
	// Bool(false) to anchor the clone's top-left corner at the pointer.
	CenterOnCursor *bool
	// Classes are appended to the clone's class list.
	Classes []string
	// CopyStyles lists computed style properties to copy from the source
	// onto the clone — for values not captured by cloning, such as
	// inherited text color.
	CopyStyles []string
	// Host receives the clone. Defaults to the document overlay layer, so
	// the clone escapes any scrolled or clipped ancestor.
	Host *Element
	// SnapBackDuration, when positive, animates the clone back over the
	// source's rectangle on Stop before removing it. Advance the animation
	// with Update. Zero removes the clone immediately.
	SnapBackDuration float32
}

// Preview is the cursor-following drag preview helper: it clones a source
// element into a fixed overlay and repositions the clone per reported
// pointer position. It is typically wired to an Engine's DragMove callback
// but has no coupling to the engine — anything that feeds it positions works.
//
// At most one clone is active at a time; starting a new preview discards the
// previous one.
type Preview struct {
	doc    *Document
	opts   PreviewOptions
	center bool

	clone *Element
	rect  Rect // source screen rect captured at Start

	snapX    *gween.Tween
	snapY    *gween.Tween
	snapping bool
}

// NewPreview creates a preview helper for the document. Panics on a nil
// document.
func NewPreview(doc *Document, opts PreviewOptions) *Preview {
	if doc == nil {
		panic("dnd: nil document")
	}
	if opts.ZIndex == 0 {
		opts.ZIndex = DefaultPreviewZIndex
	}
	if opts.Opacity == 0 {
		opts.Opacity = DefaultPreviewOpacity
	}
	return &Preview{
		doc:    doc,
		opts:   opts,
		center: opts.CenterOnCursor == nil || *opts.CenterOnCursor,
	}
}

// Start clones src into the host layer and prepares it to follow the
// pointer. Any existing clone is discarded first. The clone is marked hidden
// from assistive technology, made non-interactive so it never swallows hit
// tests, sized and positioned to the source's current on-screen rectangle,
// and parked off-screen until the first Move arrives.
func (p *Preview) Start(src *Element) {
	if src == nil {
		return
	}
	p.discard()

	p.rect = p.doc.ScreenRect(src)

	clone := src.Clone()
	clone.SetAttr(AttrHidden, "true")
	clone.Interactive = false
	clone.X = p.rect.X
	clone.Y = p.rect.Y
	clone.Width = p.rect.Width
	clone.Height = p.rect.Height
	clone.ZIndex = p.opts.ZIndex
	clone.Alpha = p.opts.Opacity
	clone.TranslateX = offscreen
	clone.TranslateY = offscreen

	for _, name := range p.opts.CopyStyles {
		if v, ok := src.ComputedStyle(name); ok {
			clone.SetStyle(name, v)
		}
	}
	for _, class := range p.opts.Classes {
		clone.AddClass(class)
	}
	clone.SetStyle("opacity", fmt.Sprintf("%g", p.opts.Opacity))

	host := p.opts.Host
	if host == nil {
		host = p.doc.Overlay()
	}
	host.AddChild(clone)
	p.clone = clone
}

// Move repositions the clone for a pointer position, centered on the cursor
// or anchored at its top-left per configuration. No-op without an active
// clone. Interrupts a snap-back in flight.
func (p *Preview) Move(x, y float64) {
	if p.clone == nil {
		return
	}
	p.snapX, p.snapY, p.snapping = nil, nil, false
	if p.center {
		p.clone.TranslateX = x - p.rect.Width/2 - p.rect.X
		p.clone.TranslateY = y - p.rect.Height/2 - p.rect.Y
	} else {
		p.clone.TranslateX = x - p.rect.X
		p.clone.TranslateY = y - p.rect.Y
	}
}

// Stop removes the clone. With SnapBackDuration set and at least one Move
// received, the clone first animates back over the source rectangle and is
// removed when Update finishes the animation. Idempotent.
func (p *Preview) Stop() {
	if p.clone == nil {
		return
	}
	if p.opts.SnapBackDuration > 0 && p.clone.TranslateX != offscreen {
		p.snapX = gween.New(float32(p.clone.TranslateX), 0, p.opts.SnapBackDuration, ease.OutQuad)
		p.snapY = gween.New(float32(p.clone.TranslateY), 0, p.opts.SnapBackDuration, ease.OutQuad)
		p.snapping = true
		return
	}
	p.discard()
}

// Destroy removes the clone immediately, skipping any snap-back. Idempotent.
// Alias of an unanimated Stop, provided for symmetric disposal semantics.
func (p *Preview) Destroy() {
	p.discard()
}

// Update advances the snap-back animation by dt seconds and removes the
// clone once it completes. No-op unless a snap-back is in flight.
func (p *Preview) Update(dt float32) {
	if !p.snapping || p.clone == nil {
		return
	}
	x, doneX := p.snapX.Update(dt)
	y, doneY := p.snapY.Update(dt)
	p.clone.TranslateX = float64(x)
	p.clone.TranslateY = float64(y)
	if doneX && doneY {
		p.discard()
	}
}

// Active reports whether a clone is currently in the document (including one
// animating back).
func (p *Preview) Active() bool {
	return p.clone != nil
}

// Clone returns the live clone element, or nil. Exposed for hosts that
// render the overlay themselves.
func (p *Preview) Clone() *Element {
	return p.clone
}

// discard removes the clone from the tree and clears all animation state.
func (p *Preview) discard() {
	if p.clone != nil {
		p.clone.RemoveFromParent()
		p.clone = nil
	}
	p.snapX, p.snapY, p.snapping = nil, nil, false
}
