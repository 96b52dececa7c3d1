package chart

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// TransitionDuration is how long an update takes to settle.
	TransitionDuration = 400 * time.Millisecond
	frameInterval      = 40 * time.Millisecond
)

// FrameMsg advances a running transition.
type FrameMsg struct {
	Kind Kind
	Gen  int
	At   time.Time
}

// easeInOutQuart maps linear progress t in [0,1] onto the eased curve.
func easeInOutQuart(t float64) float64 {
	if t < 0.5 {
		return 8 * t * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 4)/2
}

func (c *Controller) frameCmd() tea.Cmd {
	kind, gen := c.opts.Kind, c.frameGen
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return FrameMsg{Kind: kind, Gen: gen, At: t}
	})
}

// displayedByKey snapshots the values currently on screen.
func (c *Controller) displayedByKey() map[string][]float64 {
	out := make(map[string][]float64, len(c.datasets))
	for _, ds := range c.datasets {
		out[ds.Key] = c.displayed(ds)
	}
	return out
}

// startTransition animates every dataset from the given on-screen values
// to its current Points.
func (c *Controller) startTransition(from map[string][]float64) tea.Cmd {
	for _, ds := range c.datasets {
		ds.from = fit(from[ds.Key], len(ds.Points))
	}
	c.animStart = c.opts.Now()
	c.animating = true
	c.frameGen++
	return c.frameCmd()
}

// progress returns eased transition progress in [0,1].
func (c *Controller) progress(now time.Time) float64 {
	if !c.animating {
		return 1
	}
	t := float64(now.Sub(c.animStart)) / float64(TransitionDuration)
	if t >= 1 {
		return 1
	}
	if t < 0 {
		t = 0
	}
	return easeInOutQuart(t)
}

// displayed returns the interpolated values of ds for the current frame.
func (c *Controller) displayed(ds *Dataset) []float64 {
	p := c.progress(c.opts.Now())
	if p >= 1 || ds.from == nil {
		return ds.Points
	}
	out := make([]float64, len(ds.Points))
	for i, to := range ds.Points {
		from := 0.0
		if i < len(ds.from) {
			from = ds.from[i]
		}
		out[i] = from + (to-from)*p
	}
	return out
}

// Animating reports whether a transition is in progress.
func (c *Controller) Animating() bool { return c.animating }

// Update handles chart-owned messages: transition frames and preview
// expiry. Messages for other kinds or stale generations are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case FrameMsg:
		if msg.Kind != c.opts.Kind || msg.Gen != c.frameGen || !c.animating {
			return nil
		}
		if c.opts.Now().Sub(c.animStart) >= TransitionDuration {
			c.animating = false
			for _, ds := range c.datasets {
				ds.from = nil
			}
			return nil
		}
		return c.frameCmd()

	case PreviewClearMsg:
		if msg.Kind != c.opts.Kind || msg.Gen != c.previewGen {
			return nil
		}
		if c.drag.Preview {
			c.drag = DragZoomState{}
		}
		return nil
	}
	return nil
}
