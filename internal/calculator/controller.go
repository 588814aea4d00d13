// Package calculator holds the event-driven controller behind the scrap value form.
package calculator

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Simplici0/scrapvalue/internal/display"
	"github.com/Simplici0/scrapvalue/internal/pricing"
)

// Field names an input control that can receive focus.
type Field string

const (
	FieldWeight Field = "weight"
	FieldMetal  Field = "metal-type"
)

// Trigger identifies the UI event that caused a recalculation.
type Trigger string

const (
	TriggerCalculate Trigger = "click"
	TriggerWeight    Trigger = "input"
	TriggerMetal     Trigger = "change"
)

const (
	// DefaultHighlight is how long the result card stays highlighted.
	DefaultHighlight = 1000 * time.Millisecond

	invalidWeightMessage = "Please enter a valid weight greater than zero."
	unknownMetalMessage  = "Please select a valid metal type."
)

// View is a snapshot of everything the page shows.
type View struct {
	Metal       pricing.Metal
	WeightInput string
	Fields      display.Fields
	Highlighted bool
	Focus       Field
	// Alert is set only on the snapshot returned by the event that raised it.
	Alert string
}

// Timer is the part of *time.Timer the controller uses.
type Timer interface {
	Stop() bool
}

// ScheduleFunc runs f once after d.
type ScheduleFunc func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Controller.
type Option func(*Controller)

// WithHighlight sets the highlight duration.
func WithHighlight(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.highlight = d
		}
	}
}

// WithScheduler replaces time.AfterFunc, mostly for tests.
func WithScheduler(s ScheduleFunc) Option {
	return func(c *Controller) {
		if s != nil {
			c.schedule = s
		}
	}
}

// WithLogger attaches a logger for debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// Controller validates input, computes the scrap value and keeps the
// rendered view for a single visitor. It is safe for concurrent use.
type Controller struct {
	table     *pricing.Table
	highlight time.Duration
	schedule  ScheduleFunc
	log       zerolog.Logger

	mu         sync.Mutex
	view       View
	timer      Timer
	generation uint64
}

// New returns a controller in its initial state.
func New(table *pricing.Table, opts ...Option) *Controller {
	c := &Controller{
		table:     table,
		highlight: DefaultHighlight,
		schedule:  afterFunc,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.view = c.initialView()
	return c
}

func (c *Controller) initialView() View {
	return View{
		Metal:  c.table.Default(),
		Fields: display.Empty(),
		Focus:  FieldWeight,
	}
}

// Reset restores the initial state: default metal, empty weight, cleared
// results and focus on the weight field.
func (c *Controller) Reset() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopHighlightLocked()
	c.view = c.initialView()
	return c.view
}

// Highlight returns how long a fresh result stays highlighted.
func (c *Controller) Highlight() time.Duration {
	return c.highlight
}

// View returns the current view without triggering anything.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Handle dispatches a UI event. The metal and weight come from the form as
// they were when the event fired.
func (c *Controller) Handle(trigger Trigger, metal pricing.Metal, rawWeight string) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch trigger {
	case TriggerWeight:
		c.view.Metal = metal
		return c.inputWeightLocked(rawWeight)
	case TriggerMetal:
		c.view.WeightInput = rawWeight
		return c.selectMetalLocked(metal)
	default:
		return c.calculateLocked(metal, rawWeight)
	}
}

// Calculate is the explicit calculate action; it always recomputes.
func (c *Controller) Calculate(metal pricing.Metal, rawWeight string) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calculateLocked(metal, rawWeight)
}

// InputWeight records a weight edit and recomputes only when the new value
// is a number greater than zero. Anything else is treated as typing in
// progress and leaves the results alone.
func (c *Controller) InputWeight(rawWeight string) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inputWeightLocked(rawWeight)
}

// SelectMetal records a new selection and recomputes with the current weight.
func (c *Controller) SelectMetal(metal pricing.Metal) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectMetalLocked(metal)
}

func (c *Controller) calculateLocked(metal pricing.Metal, rawWeight string) View {
	c.view.Metal = metal
	c.view.WeightInput = rawWeight
	return c.computeLocked()
}

func (c *Controller) inputWeightLocked(rawWeight string) View {
	c.view.WeightInput = rawWeight
	if _, err := pricing.ParseWeight(rawWeight); err != nil {
		return c.view
	}
	return c.computeLocked()
}

func (c *Controller) selectMetalLocked(metal pricing.Metal) View {
	c.view.Metal = metal
	return c.computeLocked()
}

func (c *Controller) computeLocked() View {
	result, err := c.table.Compute(c.view.Metal, c.view.WeightInput)
	if err != nil {
		return c.failLocked(err)
	}
	c.renderLocked(result)
	return c.view
}

// failLocked clears the result card and returns a snapshot carrying the alert.
func (c *Controller) failLocked(err error) View {
	c.stopHighlightLocked()
	c.view.Fields = display.Empty()

	out := c.view
	switch {
	case errors.Is(err, pricing.ErrUnknownMetal):
		out.Alert = unknownMetalMessage
		out.Focus = FieldMetal
	default:
		out.Alert = invalidWeightMessage
		out.Focus = FieldWeight
	}
	c.view.Focus = out.Focus

	c.log.Debug().
		Err(err).
		Str("metal", string(c.view.Metal)).
		Str("weight", c.view.WeightInput).
		Msg("calculation rejected")
	return out
}

func (c *Controller) renderLocked(result pricing.Result) {
	c.view.Fields = display.FromResult(result)
	c.startHighlightLocked()
}

func (c *Controller) startHighlightLocked() {
	c.stopHighlightLocked()
	c.view.Highlighted = true

	gen := c.generation
	c.timer = c.schedule(c.highlight, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		// A newer cue owns the state.
		if c.generation != gen {
			return
		}
		c.view.Highlighted = false
		c.timer = nil
	})
}

func (c *Controller) stopHighlightLocked() {
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.view.Highlighted = false
}

// Close stops a pending highlight timer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopHighlightLocked()
}
