package nav

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ciciliostudio/hub/internal/logging"
)

// Phase is the current stage of a page transition. Exactly one page is
// current at rest; during a transition the outgoing and incoming pages
// coexist briefly, bounded by the configured fade duration.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFadeOut
	PhaseSwap
	PhaseFadeIn
)

// frameInterval defers the reveal by one frame after the swap so the
// hidden-to-visible change lands before the fade-in is applied.
const frameInterval = time.Second / 60

// Scroll is the part of the scroll controller the navigator is allowed to
// touch. The navigator requests a reset and re-measure after each swap;
// it never mutates scroll state directly.
type Scroll interface {
	ResetTop()
	Refresh()
}

// SwapMsg fires when the fade-out completes and the page swap may happen.
type SwapMsg struct {
	Target string
}

// RevealMsg fires one frame after the swap to raise the incoming page.
type RevealMsg struct {
	Target string
}

// SettledMsg fires when the fade-in completes and the transition is over.
type SettledMsg struct {
	Target string
}

// Navigator tracks the registered pages, the current page, and the
// back-navigation history, and choreographs fade transitions between
// pages. It has no terminal state: it is always showing exactly one
// current page between transitions.
type Navigator struct {
	pages map[string]struct{}
	order []string

	history     []string
	current     string
	defaultPage string

	phase    Phase
	outgoing string
	incoming string

	// duration is the single fade constant shared by the phase scheduler
	// and the view styling, so the two can never drift apart.
	duration time.Duration

	scroll Scroll
}

// New creates a navigator showing the default page. The default page is
// registered and seeds the history.
func New(defaultPage string, duration time.Duration, scroll Scroll) *Navigator {
	if duration <= 0 {
		duration = 300 * time.Millisecond
	}
	n := &Navigator{
		pages:       map[string]struct{}{defaultPage: {}},
		order:       []string{defaultPage},
		history:     []string{defaultPage},
		current:     defaultPage,
		defaultPage: defaultPage,
		duration:    duration,
		scroll:      scroll,
	}
	return n
}

// Register adds page ids to the registry. Registering an id twice is a
// no-op.
func (n *Navigator) Register(ids ...string) {
	for _, id := range ids {
		if _, ok := n.pages[id]; ok {
			continue
		}
		n.pages[id] = struct{}{}
		n.order = append(n.order, id)
	}
}

// Navigate begins a fade transition to the target page and returns the
// command scheduling the swap. Navigating to the current page is a no-op.
// An unregistered target or a call arriving mid-transition is logged and
// ignored rather than crashing on a bad link.
func (n *Navigator) Navigate(target string) tea.Cmd {
	if target == n.current && n.phase == PhaseIdle {
		return nil
	}
	if _, ok := n.pages[target]; !ok {
		logging.Warn("nav: no page registered for %q, ignoring", target)
		return nil
	}
	if n.phase != PhaseIdle {
		logging.Warn("nav: navigation to %q arrived mid-transition, ignoring", target)
		return nil
	}

	// Revisiting a page already in history truncates the stack back to
	// it, so ping-ponging between two pages cannot grow the stack.
	if idx := indexOf(n.history, target); idx >= 0 {
		n.history = n.history[:idx+1]
	} else {
		n.history = append(n.history, target)
	}

	n.phase = PhaseFadeOut
	n.outgoing = n.current
	n.incoming = target

	return tea.Tick(n.duration, func(time.Time) tea.Msg {
		return SwapMsg{Target: target}
	})
}

// Update advances the transition state machine. Messages belonging to an
// abandoned transition are dropped.
func (n *Navigator) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case SwapMsg:
		if n.phase != PhaseFadeOut || msg.Target != n.incoming {
			return nil
		}
		n.phase = PhaseSwap
		n.current = msg.Target
		if n.scroll != nil {
			n.scroll.ResetTop()
			n.scroll.Refresh()
		}
		target := msg.Target
		return tea.Tick(frameInterval, func(time.Time) tea.Msg {
			return RevealMsg{Target: target}
		})

	case RevealMsg:
		if n.phase != PhaseSwap || msg.Target != n.current {
			return nil
		}
		n.phase = PhaseFadeIn
		target := msg.Target
		return tea.Tick(n.duration, func(time.Time) tea.Msg {
			return SettledMsg{Target: target}
		})

	case SettledMsg:
		if n.phase != PhaseFadeIn || msg.Target != n.current {
			return nil
		}
		n.phase = PhaseIdle
		n.outgoing = ""
		n.incoming = ""
	}
	return nil
}

// GoBack pops the current page and re-navigates to the previous one. The
// target is popped as well because Navigate pushes it back; counting it
// twice would corrupt the stack. An exhausted history falls back to the
// default page instead of doing nothing.
func (n *Navigator) GoBack() tea.Cmd {
	if n.phase != PhaseIdle {
		logging.Warn("nav: back requested mid-transition, ignoring")
		return nil
	}
	if len(n.history) <= 1 {
		if n.current != n.defaultPage {
			return n.Navigate(n.defaultPage)
		}
		return nil
	}

	n.history = n.history[:len(n.history)-1]
	target := n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]
	return n.Navigate(target)
}

// Current returns the id of the page considered current. During the
// fade-out the outgoing page is still current; it flips at the swap.
func (n *Navigator) Current() string { return n.current }

// Visible returns the page that should be drawn right now.
func (n *Navigator) Visible() string {
	if n.phase == PhaseFadeOut {
		return n.outgoing
	}
	return n.current
}

// Phase returns the transition phase.
func (n *Navigator) Phase() Phase { return n.phase }

// Transitioning reports whether a transition is in flight.
func (n *Navigator) Transitioning() bool { return n.phase != PhaseIdle }

// Dimmed reports whether the visible page should render in its faded
// state (fading out, or not yet revealed after the swap).
func (n *Navigator) Dimmed() bool {
	return n.phase == PhaseFadeOut || n.phase == PhaseSwap
}

// Duration returns the fade constant shared with the view styling.
func (n *Navigator) Duration() time.Duration { return n.duration }

// History returns a copy of the back stack. The last element is always
// the current page.
func (n *Navigator) History() []string {
	out := make([]string, len(n.history))
	copy(out, n.history)
	return out
}

// Depth returns the history depth.
func (n *Navigator) Depth() int { return len(n.history) }

// AtRoot reports whether back navigation would leave the app where it is.
func (n *Navigator) AtRoot() bool { return len(n.history) <= 1 }

// BackVisible reports whether a back control should be shown.
func (n *Navigator) BackVisible() bool { return !n.AtRoot() }

// Pages returns the registered page ids in registration order, for nav
// link rendering.
func (n *Navigator) Pages() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
