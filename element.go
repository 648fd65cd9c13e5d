package dnd

import "sort"

// Element is the fundamental tree node of a Document. A single flat struct is
// used for every element to avoid interface dispatch on the hot path; hosts
// attach meaning through the Tag, ID, classes, and attributes.
//
// X and Y are local offsets relative to the parent. An element's on-screen
// rectangle is resolved by Document.ScreenRect, which accounts for ancestor
// offsets, the transform translation, and document scroll.
type Element struct {
	// Identity
	Tag string
	ID  string

	// Hierarchy
	Parent   *Element
	children []*Element

	// Layout (local)
	X, Y          float64
	Width, Height float64

	// Transform translation, applied on top of the layout position.
	// The preview helper repositions clones through these.
	TranslateX, TranslateY float64

	// Visibility & interaction. An invisible or non-interactive element is
	// skipped by hit testing together with its whole subtree.
	Visible     bool
	Interactive bool
	Alpha       float64

	// Ordering among siblings. Higher ZIndex paints later, so hit testing
	// (reverse paint order) prefers it.
	ZIndex int

	attrs   map[string]string
	styles  map[string]string
	classes []string

	childrenSorted bool
	sortedChildren []*Element // reused buffer for ZIndex-sorted traversal order
}

// NewElement creates a visible, interactive element with the given tag.
func NewElement(tag string) *Element {
	return &Element{
		Tag:         tag,
		Visible:     true,
		Interactive: true,
		Alpha:       1,
	}
}

// --- Attributes ---

// Attr returns the attribute value and whether the attribute is present.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// HasAttr reports whether the attribute is present, regardless of value.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.attrs[name]
	return ok
}

// SetAttr sets an attribute. An empty value is a valid, present attribute.
func (e *Element) SetAttr(name, value string) {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
}

// RemoveAttr removes an attribute. No-op if absent.
func (e *Element) RemoveAttr(name string) {
	delete(e.attrs, name)
}

// --- Styles ---

// Style returns the element's own style value for the property.
func (e *Element) Style(name string) (string, bool) {
	v, ok := e.styles[name]
	return v, ok
}

// SetStyle sets a style property on the element.
func (e *Element) SetStyle(name, value string) {
	if e.styles == nil {
		e.styles = make(map[string]string)
	}
	e.styles[name] = value
}

// ComputedStyle resolves a style property the way rendering would see it:
// the element's own value, or the nearest ancestor's (inheritance).
func (e *Element) ComputedStyle(name string) (string, bool) {
	for cur := e; cur != nil; cur = cur.Parent {
		if v, ok := cur.styles[name]; ok {
			return v, true
		}
	}
	return "", false
}

// --- Classes ---

// AddClass appends a class name if not already present.
func (e *Element) AddClass(name string) {
	if e.HasClass(name) {
		return
	}
	e.classes = append(e.classes, name)
}

// RemoveClass removes a class name. No-op if absent.
func (e *Element) RemoveClass(name string) {
	for i, c := range e.classes {
		if c == name {
			e.classes = append(e.classes[:i], e.classes[i+1:]...)
			return
		}
	}
}

// HasClass reports whether the element carries the class name.
func (e *Element) HasClass(name string) bool {
	for _, c := range e.classes {
		if c == name {
			return true
		}
	}
	return false
}

// Classes returns the class list. The returned slice MUST NOT be mutated.
func (e *Element) Classes() []string {
	return e.classes
}

// --- Tree manipulation ---

// AddChild appends child to this element's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this element (cycle).
func (e *Element) AddChild(child *Element) {
	if child == nil {
		panic("dnd: cannot add nil child")
	}
	if isAncestor(child, e) {
		panic("dnd: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = e
	e.children = append(e.children, child)
	e.childrenSorted = false
}

// RemoveChild detaches child from this element.
// Panics if child.Parent != e.
func (e *Element) RemoveChild(child *Element) {
	if child.Parent != e {
		panic("dnd: child's parent is not this element")
	}
	e.removeChildByPtr(child)
	child.Parent = nil
	e.childrenSorted = false
}

// RemoveFromParent detaches this element from its parent.
// No-op if this element has no parent.
func (e *Element) RemoveFromParent() {
	if e.Parent == nil {
		return
	}
	e.Parent.RemoveChild(e)
}

// Children returns the child list. The returned slice MUST NOT be mutated.
func (e *Element) Children() []*Element {
	return e.children
}

// NumChildren returns the number of children.
func (e *Element) NumChildren() int {
	return len(e.children)
}

// SetZIndex sets the element's ZIndex and marks the parent's children as unsorted.
func (e *Element) SetZIndex(z int) {
	if e.ZIndex == z {
		return
	}
	e.ZIndex = z
	if e.Parent != nil {
		e.Parent.childrenSorted = false
	}
}

// Contains reports whether other is e or a descendant of e.
func (e *Element) Contains(other *Element) bool {
	for cur := other; cur != nil; cur = cur.Parent {
		if cur == e {
			return true
		}
	}
	return false
}

// --- Cloning ---

// Clone returns a deep copy of the element and its subtree: tag, id, layout,
// attributes, styles, and classes are copied; the clone has no parent.
// Transform translation is not carried over.
func (e *Element) Clone() *Element {
	c := &Element{
		Tag:         e.Tag,
		ID:          e.ID,
		X:           e.X,
		Y:           e.Y,
		Width:       e.Width,
		Height:      e.Height,
		Visible:     e.Visible,
		Interactive: e.Interactive,
		Alpha:       e.Alpha,
		ZIndex:      e.ZIndex,
	}
	if len(e.attrs) > 0 {
		c.attrs = make(map[string]string, len(e.attrs))
		for k, v := range e.attrs {
			c.attrs[k] = v
		}
	}
	if len(e.styles) > 0 {
		c.styles = make(map[string]string, len(e.styles))
		for k, v := range e.styles {
			c.styles[k] = v
		}
	}
	if len(e.classes) > 0 {
		c.classes = append([]string(nil), e.classes...)
	}
	for _, child := range e.children {
		c.AddChild(child.Clone())
	}
	return c
}

// --- Selector matching ---

// matchesSelector reports whether the element matches a simple selector:
// "#id", ".class", "[attr]", "[attr=value]", or a bare tag name.
func (e *Element) matchesSelector(sel string) bool {
	if sel == "" {
		return false
	}
	switch sel[0] {
	case '#':
		return e.ID == sel[1:]
	case '.':
		return e.HasClass(sel[1:])
	case '[':
		if len(sel) < 3 || sel[len(sel)-1] != ']' {
			return false
		}
		body := sel[1 : len(sel)-1]
		for i := 0; i < len(body); i++ {
			if body[i] == '=' {
				v, ok := e.Attr(body[:i])
				return ok && v == body[i+1:]
			}
		}
		return e.HasAttr(body)
	default:
		return e.Tag == sel
	}
}

// --- Traversal helpers ---

// sorted returns the children in paint order (stable ZIndex ascending),
// rebuilding the cached order when needed.
func (e *Element) sorted() []*Element {
	if len(e.children) == 0 {
		return nil
	}
	if !e.childrenSorted {
		e.sortedChildren = append(e.sortedChildren[:0], e.children...)
		sort.SliceStable(e.sortedChildren, func(i, j int) bool {
			return e.sortedChildren[i].ZIndex < e.sortedChildren[j].ZIndex
		})
		e.childrenSorted = true
	}
	return e.sortedChildren
}

// isAncestor reports whether candidate is an ancestor of el (or el itself).
func isAncestor(candidate, el *Element) bool {
	for p := el; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from e.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (e *Element) removeChildByPtr(child *Element) {
	for i, c := range e.children {
		if c == child {
			copy(e.children[i:], e.children[i+1:])
			e.children[len(e.children)-1] = nil
			e.children = e.children[:len(e.children)-1]
			return
		}
	}
}
