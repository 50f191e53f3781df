package scroll

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ciciliostudio/hub/internal/logging"
)

const (
	// DefaultEase is the interpolation factor applied each frame.
	// Smaller values give more lag behind the real offset.
	DefaultEase = 0.08

	frameInterval = time.Second / 60
)

// State holds the virtual scroll position. Current is the authoritative
// offset recorded from input events; Last and Rounded are the interpolated
// value redrawn every frame. Rounded converges toward Current geometrically
// and never overshoots for Ease in (0, 1).
type State struct {
	Current float64
	Last    float64
	Rounded float64
	Ease    float64
}

// Step advances the interpolation by one frame. It is a pure function so
// the convergence behavior can be tested without a running frame loop.
func Step(s State) State {
	s.Last += (s.Current - s.Last) * s.Ease
	s.Rounded = math.Round(s.Last*100) / 100
	return s
}

// FrameMsg is emitted once per animation frame while the controller is
// active. Gen ties a frame to the loop generation that scheduled it so
// frames from a torn-down loop are discarded.
type FrameMsg struct {
	At  time.Time
	Gen int
}

// Controller owns the eased scroll position for one content region and
// derives the secondary effects (header visibility, background zoom) from
// the interpolated value. The frame loop free-runs while active; the work
// per frame is O(1), so there is no demand-driven stopping condition.
type Controller struct {
	state State

	contentHeight int
	viewHeight    int
	limit         float64

	// native is the degraded mode used when there is no content to pin:
	// offsets apply immediately with no interpolation.
	native bool
	active bool
	gen    int

	headerHidden bool
	zoom         float64
}

// New creates a controller with the given ease factor. Values outside
// (0, 1) fall back to DefaultEase.
func New(ease float64) *Controller {
	if ease <= 0 || ease >= 1 {
		ease = DefaultEase
	}
	return &Controller{state: State{Ease: ease}}
}

// SetEase replaces the interpolation factor without disturbing the
// current position. Values outside (0, 1) fall back to DefaultEase.
func (c *Controller) SetEase(ease float64) {
	if ease <= 0 || ease >= 1 {
		ease = DefaultEase
	}
	c.state.Ease = ease
}

// Attach measures the content region and enables the virtual scroll mode.
// A missing or empty content region (zero height) degrades to native
// scrolling instead of failing: offsets then apply without easing.
func (c *Controller) Attach(contentHeight, viewHeight int) {
	if contentHeight <= 0 {
		logging.Warn("scroll: no content to attach, falling back to native scrolling")
		c.native = true
		c.active = true
		return
	}
	c.native = false
	c.contentHeight = contentHeight
	c.viewHeight = viewHeight
	c.limit = maxScroll(contentHeight, viewHeight)
	c.active = true
}

// Start schedules the first frame. The loop reschedules itself from
// Update until Teardown.
func (c *Controller) Start() tea.Cmd {
	if !c.active || c.native {
		return nil
	}
	return c.frame()
}

func (c *Controller) frame() tea.Cmd {
	gen := c.gen
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return FrameMsg{At: t, Gen: gen}
	})
}

// SetTarget records the real scroll offset. No smoothing happens here;
// the per-frame step does all the work.
func (c *Controller) SetTarget(offset float64) {
	if offset < 0 {
		offset = 0
	}
	if !c.native && offset > c.limit {
		offset = c.limit
	}
	c.state.Current = offset
	if c.native {
		// Degraded mode tracks the offset directly.
		c.state.Last = offset
		c.state.Rounded = offset
		c.deriveEffects()
	}
}

// ScrollBy adjusts the target offset by a delta, clamped to the content.
func (c *Controller) ScrollBy(delta float64) {
	c.SetTarget(c.state.Current + delta)
}

// Update advances the interpolation for one frame and reschedules the
// loop. Frames from an older generation are dropped.
func (c *Controller) Update(msg FrameMsg) tea.Cmd {
	if !c.active || c.native || msg.Gen != c.gen {
		return nil
	}
	c.state = Step(c.state)
	c.deriveEffects()
	return c.frame()
}

// Resize re-measures the content (after layout changes) and re-applies
// the current offset immediately, without waiting for the easing to catch
// up. Used after page transitions to avoid a visible scroll jump.
func (c *Controller) Resize(contentHeight, viewHeight int) {
	if contentHeight <= 0 {
		c.native = true
		c.state = State{Ease: c.state.Ease}
		c.deriveEffects()
		return
	}
	c.native = false
	c.contentHeight = contentHeight
	c.viewHeight = viewHeight
	c.limit = maxScroll(contentHeight, viewHeight)
	if c.state.Current > c.limit {
		c.state.Current = c.limit
	}
	c.snap()
}

// ResetTop zeroes the scroll position and snaps the interpolation to it.
func (c *Controller) ResetTop() {
	c.state.Current = 0
	c.snap()
}

// Refresh re-applies the last known measurements, snapping the eased
// value to the real offset.
func (c *Controller) Refresh() {
	if c.native {
		return
	}
	c.Resize(c.contentHeight, c.viewHeight)
}

// Teardown cancels the frame loop and restores native behavior.
func (c *Controller) Teardown() {
	c.active = false
	c.gen++
	c.state.Current = 0
	c.snap()
}

func (c *Controller) snap() {
	c.state.Last = c.state.Current
	c.state.Rounded = math.Round(c.state.Last*100) / 100
	c.deriveEffects()
}

func (c *Controller) deriveEffects() {
	threshold := float64(c.viewHeight) / 2
	if threshold <= 0 {
		threshold = 120
	}
	c.headerHidden = c.state.Rounded > threshold

	if c.limit > 0 {
		c.zoom = c.state.Rounded / c.limit
		if c.zoom > 1 {
			c.zoom = 1
		}
	} else {
		c.zoom = 0
	}
}

// Offset returns the interpolated offset as whole rows for rendering.
func (c *Controller) Offset() int {
	return int(math.Round(c.state.Rounded))
}

// Target returns the authoritative offset.
func (c *Controller) Target() float64 { return c.state.Current }

// State returns a copy of the interpolation state.
func (c *Controller) State() State { return c.state }

// HeaderHidden reports whether the header should be hidden at the current
// interpolated position.
func (c *Controller) HeaderHidden() bool { return c.headerHidden }

// Zoom returns the background zoom fraction in [0, 1] derived from the
// interpolated position.
func (c *Controller) Zoom() float64 { return c.zoom }

// Native reports whether the controller degraded to native scrolling.
func (c *Controller) Native() bool { return c.native }

// Active reports whether the frame loop is running.
func (c *Controller) Active() bool { return c.active }

// Settled reports whether the interpolation has converged to the target
// within display precision.
func (c *Controller) Settled() bool {
	return math.Abs(c.state.Current-c.state.Rounded) < 0.01
}

func maxScroll(contentHeight, viewHeight int) float64 {
	limit := contentHeight - viewHeight
	if limit < 0 {
		limit = 0
	}
	return float64(limit)
}
