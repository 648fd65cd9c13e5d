package dnd

import "testing"

// addRect places a hit-testable element with the given geometry in parent.
func addRect(parent *Element, id string, x, y, w, h float64) *Element {
	e := NewElement("div")
	e.ID = id
	e.X, e.Y, e.Width, e.Height = x, y, w, h
	parent.AddChild(e)
	return e
}

// --- Hit testing ---

func TestElementFromPoint_Topmost(t *testing.T) {
	doc := NewDocument(400, 300)
	addRect(doc.Body(), "under", 0, 0, 100, 100)
	over := addRect(doc.Body(), "over", 50, 50, 100, 100)

	tests := []struct {
		name string
		x, y float64
		want *Element
	}{
		{"overlap favors later sibling", 75, 75, over},
		{"only the later sibling", 125, 125, over},
		{"outside everything", 300, 300, nil},
		{"edge is inside", 150, 75, over},
		{"past the edge", 151, 75, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doc.ElementFromPoint(tt.x, tt.y); got != tt.want {
				t.Errorf("ElementFromPoint(%g,%g) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestElementFromPoint_ZIndex(t *testing.T) {
	doc := NewDocument(400, 300)
	low := addRect(doc.Body(), "low", 0, 0, 100, 100)
	high := addRect(doc.Body(), "high", 0, 0, 100, 100)
	low.SetZIndex(10) // earlier sibling, higher z: paints later

	if got := doc.ElementFromPoint(50, 50); got != low {
		t.Errorf("higher ZIndex should win the hit, got %v", got)
	}
	_ = high
}

func TestElementFromPoint_SkipsSubtrees(t *testing.T) {
	doc := NewDocument(400, 300)

	hidden := addRect(doc.Body(), "hidden", 0, 0, 100, 100)
	hidden.Visible = false
	hiddenChild := addRect(hidden, "hidden-child", 10, 10, 50, 50)

	inert := addRect(doc.Body(), "inert", 200, 0, 100, 100)
	inert.Interactive = false
	inertChild := addRect(inert, "inert-child", 10, 10, 50, 50)

	if got := doc.ElementFromPoint(30, 30); got != nil {
		t.Errorf("invisible subtree should be unhittable, got %v", got)
	}
	if got := doc.ElementFromPoint(230, 30); got != nil {
		t.Errorf("non-interactive subtree should be unhittable, got %v", got)
	}
	_, _ = hiddenChild, inertChild
}

func TestElementFromPoint_ZeroSizeContainersPassThrough(t *testing.T) {
	doc := NewDocument(400, 300)
	group := NewElement("div") // zero-size wrapper, offsets its children
	group.X, group.Y = 100, 100
	doc.Body().AddChild(group)
	inner := addRect(group, "inner", 0, 0, 50, 50)

	if got := doc.ElementFromPoint(120, 120); got != inner {
		t.Errorf("hit should land on the sized child, got %v", got)
	}
	if got := doc.ElementFromPoint(101, 99); got != nil {
		t.Errorf("the wrapper itself should never be hit, got %v", got)
	}
}

func TestElementFromPoint_ScrollShiftsBody(t *testing.T) {
	doc := NewDocument(400, 300)
	doc.SetContentSize(1000, 1000)
	el := addRect(doc.Body(), "el", 500, 0, 80, 80)

	if got := doc.ElementFromPoint(540, 40); got != nil {
		t.Fatalf("element should be off-screen before scrolling, got %v", got)
	}
	doc.ScrollBy(500, 0)
	if got := doc.ElementFromPoint(40, 40); got != el {
		t.Errorf("scrolled element should be hittable at its shifted position, got %v", got)
	}
}

func TestElementFromPoint_OverlayIsFixed(t *testing.T) {
	doc := NewDocument(400, 300)
	doc.SetContentSize(1000, 1000)
	pinned := addRect(doc.Overlay(), "pinned", 10, 10, 50, 50)

	doc.ScrollBy(300, 300)
	if got := doc.ElementFromPoint(30, 30); got != pinned {
		t.Errorf("overlay content should ignore scroll, got %v", got)
	}

	r := doc.ScreenRect(pinned)
	if r.X != 10 || r.Y != 10 {
		t.Errorf("overlay ScreenRect should be scroll-independent, got %+v", r)
	}
}

func TestElementFromPoint_OverlayPaintsAboveBody(t *testing.T) {
	doc := NewDocument(400, 300)
	addRect(doc.Body(), "body-el", 0, 0, 100, 100)
	top := addRect(doc.Overlay(), "overlay-el", 0, 0, 100, 100)

	if got := doc.ElementFromPoint(50, 50); got != top {
		t.Errorf("overlay should win hits over body content, got %v", got)
	}
}

func TestScreenRect_AccumulatesOffsetsAndTranslation(t *testing.T) {
	doc := NewDocument(400, 300)
	outer := addRect(doc.Body(), "outer", 100, 50, 200, 200)
	inner := addRect(outer, "inner", 10, 20, 30, 40)
	inner.TranslateX, inner.TranslateY = 5, 5

	r := doc.ScreenRect(inner)
	want := Rect{X: 115, Y: 75, Width: 30, Height: 40}
	if r != want {
		t.Errorf("ScreenRect = %+v, want %+v", r, want)
	}

	doc.SetContentSize(1000, 1000)
	doc.ScrollBy(50, 0)
	if r := doc.ScreenRect(inner); r.X != 65 {
		t.Errorf("body content should shift with scroll, X = %g", r.X)
	}
}

// --- Scrolling ---

func TestScrollBy_Clamped(t *testing.T) {
	doc := NewDocument(400, 300)
	doc.SetContentSize(1000, 800)

	doc.ScrollBy(-50, -50)
	if got := doc.Scroll(); got.X != 0 || got.Y != 0 {
		t.Errorf("scroll should clamp at origin, got %+v", got)
	}
	doc.ScrollBy(5000, 5000)
	if got := doc.Scroll(); got.X != 600 || got.Y != 500 {
		t.Errorf("scroll should clamp at content end, got %+v", got)
	}

	// Content no larger than the viewport never scrolls.
	doc.SetContentSize(400, 300)
	if got := doc.Scroll(); got.X != 0 || got.Y != 0 {
		t.Errorf("shrinking content should re-clamp, got %+v", got)
	}
	doc.ScrollBy(10, 10)
	if got := doc.Scroll(); got.X != 0 || got.Y != 0 {
		t.Errorf("viewport-sized content must not scroll, got %+v", got)
	}
}

// --- Selector queries ---

func TestQuery(t *testing.T) {
	doc := NewDocument(400, 300)
	a := addRect(doc.Body(), "a", 0, 0, 10, 10)
	a.AddClass("card")
	a.SetAttr("data-kind", "cell")
	b := addRect(doc.Body(), "b", 0, 0, 10, 10)
	b.AddClass("card")

	if got := doc.Query("#b"); got != b {
		t.Errorf("Query(#b) = %v", got)
	}
	if got := doc.Query(".card"); got != a {
		t.Errorf("Query(.card) should return the first match in tree order, got %v", got)
	}
	if got := doc.Query("[data-kind=cell]"); got != a {
		t.Errorf("Query([data-kind=cell]) = %v", got)
	}
	if got := doc.Query("#missing"); got != nil {
		t.Errorf("Query(#missing) = %v, want nil", got)
	}
}

// --- Listener registry ---

func TestOn_ScopedVsWindow(t *testing.T) {
	doc := NewDocument(400, 300)
	left := addRect(doc.Body(), "left", 0, 0, 100, 100)
	addRect(doc.Body(), "right", 200, 0, 100, 100)

	var scoped, window int
	doc.On(EventPointerDown, left, func(*PointerEvent) { scoped++ })
	doc.On(EventPointerDown, nil, func(*PointerEvent) { window++ })

	doc.PointerDown(0, 50, 50) // inside left
	doc.PointerUp(0, 50, 50)
	doc.PointerDown(0, 250, 50) // inside right
	doc.PointerUp(0, 250, 50)
	doc.PointerDown(0, 350, 250) // nothing
	doc.PointerUp(0, 350, 250)

	if scoped != 1 {
		t.Errorf("scoped listener fired %d times, want 1", scoped)
	}
	if window != 3 {
		t.Errorf("window listener fired %d times, want 3", window)
	}
}

func TestOn_EventTypeFiltered(t *testing.T) {
	doc := NewDocument(400, 300)
	var downs, moves int
	doc.On(EventPointerDown, nil, func(*PointerEvent) { downs++ })
	doc.On(EventPointerMove, nil, func(*PointerEvent) { moves++ })

	doc.PointerDown(0, 10, 10)
	doc.PointerMove(0, 20, 20)
	doc.PointerMove(0, 30, 30)
	doc.PointerUp(0, 30, 30)

	if downs != 1 || moves != 2 {
		t.Errorf("downs=%d moves=%d, want 1/2", downs, moves)
	}
}

func TestOn_KeyEventPanics(t *testing.T) {
	doc := NewDocument(400, 300)
	defer func() {
		if recover() == nil {
			t.Error("expected panic registering a key event through On")
		}
	}()
	doc.On(EventKeyDown, nil, func(*PointerEvent) {})
}

func TestHandle_Remove(t *testing.T) {
	doc := NewDocument(400, 300)
	var a, b, keys int
	ha := doc.On(EventPointerDown, nil, func(*PointerEvent) { a++ })
	doc.On(EventPointerDown, nil, func(*PointerEvent) { b++ })
	hk := doc.OnKey(func(KeyEvent) { keys++ })

	ha.Remove()
	ha.Remove() // idempotent
	doc.PointerDown(0, 10, 10)
	if a != 0 || b != 1 {
		t.Errorf("a=%d b=%d, want 0/1", a, b)
	}

	hk.Remove()
	doc.KeyDown(KeyEscape)
	if keys != 0 {
		t.Errorf("removed key listener fired %d times", keys)
	}
}

func TestDispatch_RemoveDuringDispatch(t *testing.T) {
	doc := NewDocument(400, 300)
	var h2 Handle
	var first, second int
	doc.On(EventPointerDown, nil, func(*PointerEvent) {
		first++
		h2.Remove() // removing a later listener mid-dispatch
	})
	h2 = doc.On(EventPointerDown, nil, func(*PointerEvent) { second++ })

	// The in-flight dispatch runs over a snapshot; removal applies afterward.
	doc.PointerDown(0, 10, 10)
	doc.PointerUp(0, 10, 10)
	doc.PointerDown(0, 10, 10)

	if first != 2 || second != 1 {
		t.Errorf("first=%d second=%d, want 2/1", first, second)
	}
}

func TestPointerLeave_WindowOnly(t *testing.T) {
	doc := NewDocument(400, 300)
	el := addRect(doc.Body(), "el", 0, 0, 100, 100)

	var scoped, window int
	doc.On(EventPointerLeave, el, func(*PointerEvent) { scoped++ })
	doc.On(EventPointerLeave, nil, func(ev *PointerEvent) {
		window++
		if ev.Target != nil {
			t.Error("leave events carry no target")
		}
	})

	doc.PointerLeave(0, -10, 50)
	if scoped != 0 || window != 1 {
		t.Errorf("scoped=%d window=%d, want 0/1", scoped, window)
	}
}

func TestPreventDefault_Reported(t *testing.T) {
	doc := NewDocument(400, 300)
	addRect(doc.Body(), "el", 0, 0, 100, 100)

	if doc.PointerDown(0, 50, 50) {
		t.Error("no listener prevented default")
	}
	doc.PointerUp(0, 50, 50)

	doc.On(EventPointerDown, nil, func(ev *PointerEvent) { ev.PreventDefault() })
	if !doc.PointerDown(0, 50, 50) {
		t.Error("PreventDefault should surface through the entry point")
	}
}

// --- Pointer capture ---

func TestPointerCapture_Routing(t *testing.T) {
	doc := NewDocument(400, 300)
	el := addRect(doc.Body(), "el", 0, 0, 100, 100)

	var targets []*Element
	doc.On(EventPointerMove, el, func(ev *PointerEvent) { targets = append(targets, ev.Target) })

	doc.PointerDown(0, 50, 50)
	if err := doc.SetPointerCapture(0, el); err != nil {
		t.Fatalf("SetPointerCapture: %v", err)
	}
	if doc.Captured(0) != el {
		t.Fatal("capture not recorded")
	}

	// Far outside el's bounds: capture still routes the event to it.
	doc.PointerMove(0, 390, 290)
	if len(targets) != 1 || targets[0] != el {
		t.Fatalf("captured move should target el, got %v", targets)
	}

	// Release ends capture automatically.
	doc.PointerUp(0, 390, 290)
	if doc.Captured(0) != nil {
		t.Error("capture should be auto-released on up")
	}
	doc.PointerMove(0, 390, 290)
	if len(targets) != 1 {
		t.Error("uncaptured move outside bounds should not reach the scoped listener")
	}
}

func TestPointerCapture_Errors(t *testing.T) {
	doc := NewDocument(400, 300)
	el := addRect(doc.Body(), "el", 0, 0, 100, 100)

	if err := doc.SetPointerCapture(7, el); err == nil {
		t.Error("capturing an inactive pointer should fail")
	}
	if err := doc.SetPointerCapture(0, nil); err == nil {
		t.Error("capturing to a nil element should fail")
	}
	if err := doc.ReleasePointerCapture(7); err == nil {
		t.Error("releasing a capture never taken should fail")
	}

	doc.PointerDown(0, 50, 50)
	if err := doc.SetPointerCapture(0, el); err != nil {
		t.Fatalf("SetPointerCapture: %v", err)
	}
	if err := doc.ReleasePointerCapture(0); err != nil {
		t.Errorf("ReleasePointerCapture: %v", err)
	}
	if doc.Captured(0) != nil {
		t.Error("capture should be gone after release")
	}
}

func TestPointerCapture_ClearedOnCancel(t *testing.T) {
	doc := NewDocument(400, 300)
	el := addRect(doc.Body(), "el", 0, 0, 100, 100)

	doc.PointerDown(0, 50, 50)
	doc.SetPointerCapture(0, el)
	doc.PointerCancel(0, 50, 50)
	if doc.Captured(0) != nil {
		t.Error("capture should be auto-released on cancel")
	}
}

// --- Frame scheduler ---

func TestFrames_RunOnceInOrder(t *testing.T) {
	doc := NewDocument(400, 300)
	var order []int
	doc.RequestFrame(func() { order = append(order, 1) })
	doc.RequestFrame(func() { order = append(order, 2) })

	doc.Step()
	doc.Step() // second step runs nothing

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("order = %v, want [1 2]", order)
	}
}

func TestFrames_Cancel(t *testing.T) {
	doc := NewDocument(400, 300)
	var ran bool
	h := doc.RequestFrame(func() { ran = true })
	doc.CancelFrame(h)
	doc.CancelFrame(h) // no-op on a dead handle
	doc.Step()

	if ran {
		t.Error("cancelled frame must not run")
	}
}

func TestFrames_RequestDuringStepDefers(t *testing.T) {
	doc := NewDocument(400, 300)
	var runs int
	doc.RequestFrame(func() {
		runs++
		doc.RequestFrame(func() { runs++ })
	})

	doc.Step()
	if runs != 1 {
		t.Fatalf("nested request must not run in the same step, runs=%d", runs)
	}
	doc.Step()
	if runs != 2 {
		t.Errorf("nested request should run on the next step, runs=%d", runs)
	}
}

// --- Benchmarks ---

func BenchmarkElementFromPoint(b *testing.B) {
	doc := NewDocument(1920, 1080)
	for row := 0; row < 10; row++ {
		for col := 0; col < 10; col++ {
			addRect(doc.Body(), "", float64(col*100), float64(row*100), 90, 90)
		}
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		doc.ElementFromPoint(float64(i%1000), 500)
	}
}
