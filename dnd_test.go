package dnd

import "testing"

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"left of rect", 9, 40, false},
		{"right of rect", 111, 40, false},
		{"above rect", 50, 19, false},
		{"below rect", 50, 71, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%g, %g) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRect_Intersects(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 100}

	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlapping", Rect{X: 50, Y: 50, Width: 100, Height: 100}, true},
		{"contained", Rect{X: 25, Y: 25, Width: 50, Height: 50}, true},
		{"sharing an edge", Rect{X: 100, Y: 0, Width: 50, Height: 100}, true},
		{"disjoint", Rect{X: 200, Y: 200, Width: 10, Height: 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.other, got, tt.want)
			}
			// Intersection is symmetric.
			if got := tt.other.Intersects(r); got != tt.want {
				t.Errorf("Intersects is not symmetric for %+v", tt.other)
			}
		})
	}
}

func TestKindSet(t *testing.T) {
	tests := []struct {
		name  string
		kinds []string
		ok    bool
	}{
		{"single kind", []string{"cell"}, true},
		{"multiple kinds", []string{"cell", "row", "cell"}, true},
		{"empty list", nil, false},
		{"empty kind", []string{"cell", ""}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, ok := newKindSet(tt.kinds)
			if ok != tt.ok {
				t.Fatalf("newKindSet(%v) ok = %v, want %v", tt.kinds, ok, tt.ok)
			}
			if !ok {
				return
			}
			for _, k := range tt.kinds {
				if !set.contains(k) {
					t.Errorf("set should contain %q", k)
				}
			}
			if set.contains("other") {
				t.Error("set should not contain an unlisted kind")
			}
		})
	}
}

func TestBool(t *testing.T) {
	if v := Bool(true); v == nil || !*v {
		t.Error("Bool(true) should point at true")
	}
	if v := Bool(false); v == nil || *v {
		t.Error("Bool(false) should point at false")
	}
	// Distinct pointers per call.
	a, b := Bool(true), Bool(true)
	if a == b {
		t.Error("Bool must return a fresh pointer")
	}
}

func TestDist(t *testing.T) {
	tests := []struct {
		name           string
		ax, ay, bx, by float64
		want           float64
	}{
		{"zero", 5, 5, 5, 5, 0},
		{"horizontal", 0, 0, 10, 0, 10},
		{"vertical", 0, 0, 0, -10, 10},
		{"diagonal 3-4-5", 1, 1, 4, 5, 5},
	}
	for _, tt := range tests {
		if got := dist(tt.ax, tt.ay, tt.bx, tt.by); got != tt.want {
			t.Errorf("%s: dist = %g, want %g", tt.name, got, tt.want)
		}
	}
}

func TestPointerEvent_PreventDefault(t *testing.T) {
	ev := PointerEvent{Type: EventPointerDown}
	if ev.DefaultPrevented() {
		t.Error("fresh event should not be prevented")
	}
	ev.PreventDefault()
	if !ev.DefaultPrevented() {
		t.Error("PreventDefault should stick")
	}
}
