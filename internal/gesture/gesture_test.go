package gesture

import "testing"

var narrowTouch = Environment{Touch: true, ViewportWidth: 375}

func TestNavigator_LeftSwipeShowsResults(t *testing.T) {
	n := NewNavigator(narrowTouch)

	n.TouchStart(Point{X: 200, Y: 300})
	if dir := n.TouchEnd(Point{X: 140, Y: 305}); dir != Left {
		t.Fatalf("direction = %q, want left", dir)
	}

	want := Layout{InputVisible: false, ResultsVisible: true}
	if got := n.Layout(); got != want {
		t.Fatalf("layout = %+v, want %+v", got, want)
	}
}

func TestNavigator_RightSwipeShowsInput(t *testing.T) {
	n := NewNavigator(narrowTouch)

	n.TouchStart(Point{X: 100, Y: 100})
	n.TouchEnd(Point{X: 20, Y: 100})
	n.TouchStart(Point{X: 20, Y: 100})
	if dir := n.TouchEnd(Point{X: 120, Y: 90}); dir != Right {
		t.Fatalf("direction = %q, want right", dir)
	}

	want := Layout{InputVisible: true, ResultsVisible: false}
	if got := n.Layout(); got != want {
		t.Fatalf("layout = %+v, want %+v", got, want)
	}
}

func TestNavigator_ShortSwipeIgnored(t *testing.T) {
	n := NewNavigator(narrowTouch)

	n.TouchStart(Point{X: 200, Y: 300})
	if dir := n.TouchEnd(Point{X: 170, Y: 300}); dir != None {
		t.Fatalf("direction = %q, want none", dir)
	}
	if got := n.Layout(); got != Stacked() {
		t.Fatalf("layout changed: %+v", got)
	}
}

func TestNavigator_VerticalScrollIgnored(t *testing.T) {
	n := NewNavigator(narrowTouch)

	n.TouchStart(Point{X: 200, Y: 400})
	if dir := n.TouchEnd(Point{X: 120, Y: 100}); dir != None {
		t.Fatalf("direction = %q, want none", dir)
	}
}

func TestNavigator_StartIsResetAfterEachGesture(t *testing.T) {
	n := NewNavigator(narrowTouch)

	n.TouchStart(Point{X: 300, Y: 10})
	n.TouchEnd(Point{X: 290, Y: 10})

	if dir := n.TouchEnd(Point{X: 0, Y: 10}); dir != None {
		t.Fatalf("touch end without start must be ignored, got %q", dir)
	}
}

func TestNavigator_ZeroCoordinatesAreValidStarts(t *testing.T) {
	n := NewNavigator(narrowTouch)

	n.TouchStart(Point{X: 0, Y: 0})
	if dir := n.TouchEnd(Point{X: 80, Y: 0}); dir != Right {
		t.Fatalf("direction = %q, want right", dir)
	}
}

func TestNavigator_DisabledEnvironments(t *testing.T) {
	cases := map[string]Environment{
		"desktop":      {Touch: false, ViewportWidth: 375},
		"wide tablet":  {Touch: true, ViewportWidth: 1024},
		"just too big": {Touch: true, ViewportWidth: 769},
	}

	for name, env := range cases {
		n := NewNavigator(env)
		if n.Enabled() {
			t.Fatalf("%s: navigator must be disabled", name)
		}
		n.TouchStart(Point{X: 300, Y: 0})
		if dir := n.TouchEnd(Point{X: 0, Y: 0}); dir != None {
			t.Fatalf("%s: direction = %q, want none", name, dir)
		}
		if n.Layout() != Stacked() {
			t.Fatalf("%s: layout changed", name)
		}
	}
}

func TestEnvironment_BoundaryWidthEnabled(t *testing.T) {
	if !(Environment{Touch: true, ViewportWidth: 768}).SupportsSwipe() {
		t.Fatalf("768 wide touch viewport must support swipe")
	}
}

func TestClassify_ThresholdIsExclusive(t *testing.T) {
	if dir := Classify(Point{X: 50}, Point{X: 0}, SwipeThreshold); dir != None {
		t.Fatalf("exactly threshold must not count, got %q", dir)
	}
	if dir := Classify(Point{X: 51}, Point{X: 0}, SwipeThreshold); dir != Left {
		t.Fatalf("direction = %q, want left", dir)
	}
}
