package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// TargetKind says what activating a hotspot does.
type TargetKind int

const (
	// TargetLink navigates inside the app.
	TargetLink TargetKind = iota
	// TargetExternal points outside the app.
	TargetExternal
	// TargetPill toggles a gateway filter pill.
	TargetPill
	// TargetAction runs a page-specific action such as cycling a selector.
	TargetAction
)

// Target is what a clickable region refers to.
type Target struct {
	Kind  TargetKind
	Value string
}

// LinkTarget returns an in-app navigation target.
func LinkTarget(href string) Target { return Target{Kind: TargetLink, Value: href} }

// ExternalTarget returns a target the app does not navigate to itself.
func ExternalTarget(href string) Target { return Target{Kind: TargetExternal, Value: href} }

// PillTarget returns a filter pill target.
func PillTarget(id string) Target { return Target{Kind: TargetPill, Value: id} }

// ActionTarget returns a named page action target.
func ActionTarget(name string) Target { return Target{Kind: TargetAction, Value: name} }

// Hotspot is a one-line clickable region in view coordinates.
type Hotspot struct {
	X, Y, Width int
	Target      Target
}

// Hotspots records clickable regions of the last render.
type Hotspots struct {
	spots []Hotspot
}

// Add records a region.
func (h *Hotspots) Add(x, y, width int, t Target) {
	if width <= 0 {
		return
	}
	h.spots = append(h.spots, Hotspot{X: x, Y: y, Width: width, Target: t})
}

// At returns the target under (x, y).
func (h *Hotspots) At(x, y int) (Target, bool) {
	for _, s := range h.spots {
		if y == s.Y && x >= s.X && x < s.X+s.Width {
			return s.Target, true
		}
	}
	return Target{}, false
}

// Find returns the first region with target t.
func (h *Hotspots) Find(t Target) (Hotspot, bool) {
	for _, s := range h.spots {
		if s.Target == t {
			return s, true
		}
	}
	return Hotspot{}, false
}

// Len returns the number of regions.
func (h *Hotspots) Len() int { return len(h.spots) }

// Segment is a piece of a layout row, optionally clickable.
type Segment struct {
	Text   string
	target Target
	hit    bool
}

// Text returns a plain segment.
func Text(s string) Segment { return Segment{Text: s} }

// Clickable returns a segment that records a hotspot for t.
func Clickable(s string, t Target) Segment { return Segment{Text: s, target: t, hit: true} }

// Layout stacks view lines top to bottom while tracking where clickable
// segments end up.
type Layout struct {
	indent int
	lines  []string
	spots  Hotspots
}

// NewLayout returns a layout whose lines are shifted right by indent cells.
func NewLayout(indent int) *Layout {
	return &Layout{indent: indent}
}

// Height returns the number of lines so far.
func (l *Layout) Height() int { return len(l.lines) }

// Block appends a possibly multi-line block and returns its first line.
func (l *Layout) Block(s string) int {
	y := len(l.lines)
	pad := strings.Repeat(" ", l.indent)
	for _, line := range strings.Split(s, "\n") {
		l.lines = append(l.lines, pad+line)
	}
	return y
}

// Blank appends an empty line.
func (l *Layout) Blank() { l.lines = append(l.lines, "") }

// Row appends one line built from segments and records their hotspots.
func (l *Layout) Row(segs ...Segment) int {
	y := len(l.lines)
	x := l.indent
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", l.indent))
	for _, s := range segs {
		w := ansi.StringWidth(s.Text)
		if s.hit {
			l.spots.Add(x, y, w, s.target)
		}
		b.WriteString(s.Text)
		x += w
	}
	l.lines = append(l.lines, b.String())
	return y
}

// Spots returns the recorded hotspots.
func (l *Layout) Spots() Hotspots { return l.spots }

// String joins the lines.
func (l *Layout) String() string { return strings.Join(l.lines, "\n") }
