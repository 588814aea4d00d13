// Package gesture switches between the input and results sections with
// horizontal swipes on narrow touch screens.
package gesture

import "math"

const (
	// MaxViewportWidth is the widest viewport on which swiping is enabled.
	MaxViewportWidth = 768
	// SwipeThreshold is the minimum horizontal travel of a swipe.
	SwipeThreshold = 50
)

// Direction is the classification of a finished touch.
type Direction string

const (
	None  Direction = "none"
	Left  Direction = "left"
	Right Direction = "right"
)

// Point is a touch coordinate in CSS pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Environment describes the client as reported by the browser.
type Environment struct {
	Touch         bool    `json:"touch"`
	ViewportWidth float64 `json:"viewport_width"`
}

// SupportsSwipe reports whether swipe navigation applies to env.
func (env Environment) SupportsSwipe() bool {
	return env.Touch && env.ViewportWidth <= MaxViewportWidth
}

// Layout tells which sections are visible.
type Layout struct {
	InputVisible   bool `json:"input_visible"`
	ResultsVisible bool `json:"results_visible"`
}

// Stacked is the small-screen layout before any swipe: both sections shown.
func Stacked() Layout {
	return Layout{InputVisible: true, ResultsVisible: true}
}

// Classify returns the swipe direction between start and end. Movements that
// are mostly vertical, or shorter than threshold, are scrolling.
func Classify(start, end Point, threshold float64) Direction {
	dx := start.X - end.X
	dy := start.Y - end.Y

	if math.Abs(dx) <= math.Abs(dy) || math.Abs(dx) <= threshold {
		return None
	}
	if dx > 0 {
		return Left
	}
	return Right
}

// Navigator tracks one touch at a time. It is not safe for concurrent use.
type Navigator struct {
	enabled   bool
	threshold float64

	start    Point
	tracking bool
	layout   Layout
}

// NewNavigator returns a navigator for env. On wide or non-touch clients it
// ignores every touch.
func NewNavigator(env Environment) *Navigator {
	return &Navigator{
		enabled:   env.SupportsSwipe(),
		threshold: SwipeThreshold,
		layout:    Stacked(),
	}
}

// Enabled reports whether touches are tracked.
func (n *Navigator) Enabled() bool { return n.enabled }

// Layout returns the current section visibility.
func (n *Navigator) Layout() Layout { return n.layout }

// TouchStart remembers where the finger went down.
func (n *Navigator) TouchStart(p Point) {
	if !n.enabled {
		return
	}
	n.start = p
	n.tracking = true
}

// TouchEnd classifies the gesture and updates the layout. The start point is
// forgotten whatever the outcome.
func (n *Navigator) TouchEnd(p Point) Direction {
	if !n.enabled || !n.tracking {
		return None
	}
	start := n.start
	n.start = Point{}
	n.tracking = false

	dir := Classify(start, p, n.threshold)
	switch dir {
	case Left:
		n.layout = Layout{InputVisible: false, ResultsVisible: true}
	case Right:
		n.layout = Layout{InputVisible: true, ResultsVisible: false}
	}
	return dir
}
