package chart

import (
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/geostar-dashboard/internal/models"
)

const (
	// WheelThrottle is the minimum spacing between accepted wheel steps.
	WheelThrottle = 50 * time.Millisecond
	// PreviewDuration is how long a scroll-zoom preview stays on screen.
	PreviewDuration = 600 * time.Millisecond
	// DoubleClickWindow is the maximum gap between two presses of a double click.
	DoubleClickWindow = 400 * time.Millisecond
)

// WheelDirection is the scroll direction of a wheel step.
type WheelDirection int

const (
	// WheelUp zooms in.
	WheelUp WheelDirection = iota
	// WheelDown zooms out.
	WheelDown
)

// DragZoomState describes the selection overlay. Positions are plot columns
// in chart-local cells.
type DragZoomState struct {
	Active     bool
	Preview    bool
	StartX     int
	EndX       int
	ClampLeft  bool
	ClampRight bool
}

// PreviewClearMsg expires a scroll-zoom preview.
type PreviewClearMsg struct {
	Kind Kind
	Gen  int
}

// Geometry is the plot area inside the rendered chart, in chart-local cells.
// Left and Right are the first and last data columns.
type Geometry struct {
	Left, Right int
	Top, Bottom int
}

func defaultGeometry(width, height int) Geometry {
	return Geometry{Left: 0, Right: max(width-1, 1), Top: 0, Bottom: max(height-1, 0)}
}

// Geometry returns the plot area of the last render.
func (c *Controller) Geometry() Geometry { return c.geom }

// Drag returns the current overlay state.
func (c *Controller) Drag() DragZoomState { return c.drag }

// SetOrigin records where the chart's top-left cell sits in page coordinates.
func (c *Controller) SetOrigin(x, y int) {
	c.originX, c.originY = x, y
}

// Contains reports whether page coordinates fall inside the chart block.
func (c *Controller) Contains(x, y int) bool {
	lx, ly := x-c.originX, y-c.originY
	return ly >= c.geom.Top && ly <= c.geom.Bottom+1 && lx >= 0 && lx <= c.geom.Right+1
}

// PixelFor returns the plot column of bucket index i.
func (c *Controller) PixelFor(i int) int {
	n := len(c.labels)
	if n <= 1 {
		return c.geom.Left
	}
	span := float64(c.geom.Right - c.geom.Left)
	return c.geom.Left + int(math.Round(float64(i)*span/float64(n-1)))
}

// ValueFor returns the fractional bucket index under plot column x.
func (c *Controller) ValueFor(x int) float64 {
	n := len(c.labels)
	span := c.geom.Right - c.geom.Left
	if n <= 1 || span <= 0 {
		return 0
	}
	return float64(x-c.geom.Left) * float64(n-1) / float64(span)
}

// IndexAt returns the nearest bucket index to plot column x, clamped.
func (c *Controller) IndexAt(x int) int {
	idx := int(math.Round(c.ValueFor(x)))
	return max(0, min(idx, len(c.labels)-1))
}

func (c *Controller) insidePlot(x int) bool {
	return x >= c.geom.Left && x <= c.geom.Right
}

// MouseDown arms a drag when x lies inside the plot columns. A second press
// on the same bucket within DoubleClickWindow opens that day.
func (c *Controller) MouseDown(x int, now time.Time) tea.Cmd {
	if c.state == Absent || len(c.labels) == 0 || !c.insidePlot(x) {
		return nil
	}
	if c.opts.OnZoom == nil && c.opts.OnOpen == nil {
		return nil
	}

	var cmd tea.Cmd
	idx := c.IndexAt(x)
	if idx == c.pressIndex && now.Sub(c.lastPress) <= DoubleClickWindow {
		cmd = c.open(idx)
		c.pressIndex = -1
	} else {
		c.pressIndex = idx
		c.lastPress = now
	}

	c.previewGen++
	c.drag = DragZoomState{Active: true, StartX: x, EndX: x}
	return cmd
}

// MouseMove follows the pointer. During a drag it only moves the overlay;
// otherwise it drives hover highlighting.
func (c *Controller) MouseMove(x int) tea.Cmd {
	if c.state == Absent {
		return nil
	}
	if c.drag.Active && !c.drag.Preview {
		c.drag.EndX = x
		return nil
	}
	if !c.insidePlot(x) || len(c.labels) == 0 {
		return c.endHover()
	}
	idx := c.IndexAt(x)
	if idx == c.hover {
		return nil
	}
	c.hover = idx
	if c.opts.OnHover == nil {
		return nil
	}
	return c.opts.OnHover(c.opts.HoverKey(c.labels[idx]))
}

// MouseUp finishes a drag. The endpoints snap to the nearest buckets and
// OnZoom fires only when they differ.
func (c *Controller) MouseUp() tea.Cmd {
	if c.state == Absent || !c.drag.Active || c.drag.Preview {
		return nil
	}
	lo, hi := min(c.drag.StartX, c.drag.EndX), max(c.drag.StartX, c.drag.EndX)
	c.drag = DragZoomState{}

	start := max(0, int(math.Round(c.ValueFor(lo))))
	end := min(len(c.labels)-1, int(math.Round(c.ValueFor(hi))))
	if start >= end || c.opts.OnZoom == nil {
		return nil
	}
	return c.opts.OnZoom(datePart(c.labels[start]), datePart(c.labels[end]))
}

// Leave aborts any drag and clears hover highlighting.
func (c *Controller) Leave() tea.Cmd {
	if c.state == Absent {
		return nil
	}
	if c.drag.Active && !c.drag.Preview {
		c.drag = DragZoomState{}
	}
	return c.endHover()
}

// CancelDrag aborts an in-progress drag without firing.
func (c *Controller) CancelDrag() {
	if c.drag.Active && !c.drag.Preview {
		c.drag = DragZoomState{}
	}
}

func (c *Controller) endHover() tea.Cmd {
	if c.hover < 0 {
		return nil
	}
	c.hover = -1
	if c.opts.OnHoverEnd == nil {
		return nil
	}
	return c.opts.OnHoverEnd()
}

// HoverIndex returns the hovered bucket, or -1.
func (c *Controller) HoverIndex() int { return c.hover }

// Wheel applies one scroll-zoom step. Scrolling down widens the range by a
// day on each side, except that the end never moves past today. Scrolling
// up narrows it by a day on each side unless that would empty the range.
func (c *Controller) Wheel(dir WheelDirection, now time.Time) tea.Cmd {
	if c.state == Absent || len(c.labels) == 0 || c.opts.OnZoom == nil {
		return nil
	}
	if !c.lastWheel.IsZero() && now.Sub(c.lastWheel) < WheelThrottle {
		return nil
	}
	c.lastWheel = now

	from, to := c.currentRange()
	if from == "" || to == "" {
		return nil
	}

	var newFrom, newTo string
	if dir == WheelDown {
		newFrom = models.AddDays(from, -1)
		newTo = to
		if to < models.Today(now, c.opts.Location) {
			newTo = models.AddDays(to, 1)
		}
	} else {
		newFrom = models.AddDays(from, 1)
		newTo = models.AddDays(to, -1)
		if newFrom >= newTo {
			return nil
		}
	}

	c.showPreview(newFrom, newTo)

	return tea.Batch(c.previewClearCmd(), c.opts.OnZoom(newFrom, newTo))
}

func (c *Controller) currentRange() (string, string) {
	var from, to string
	if c.opts.RangeSource != nil {
		from, to = c.opts.RangeSource()
	}
	if from == "" {
		from = datePart(c.labels[0])
	}
	if to == "" {
		to = datePart(c.labels[len(c.labels)-1])
	}
	return from, to
}

// showPreview draws the overlay for a proposed range, pinning edges that
// fall outside the loaded labels to the plot edges.
func (c *Controller) showPreview(from, to string) {
	fromIdx, toIdx := -1, -1
	for i, l := range c.labels {
		if strings.HasPrefix(l, from) && fromIdx < 0 {
			fromIdx = i
		}
		if strings.HasPrefix(l, to) {
			toIdx = i
		}
	}

	d := DragZoomState{Active: true, Preview: true, StartX: c.geom.Left, EndX: c.geom.Right}
	if fromIdx >= 0 {
		d.StartX = c.PixelFor(fromIdx)
	} else {
		d.ClampLeft = true
	}
	if toIdx >= 0 {
		d.EndX = c.PixelFor(toIdx)
	} else {
		d.ClampRight = true
	}
	c.drag = d
}

func (c *Controller) previewClearCmd() tea.Cmd {
	c.previewGen++
	kind, gen := c.opts.Kind, c.previewGen
	return tea.Tick(PreviewDuration, func(time.Time) tea.Msg {
		return PreviewClearMsg{Kind: kind, Gen: gen}
	})
}

// PreviewGeneration returns the id of the newest preview timer.
func (c *Controller) PreviewGeneration() int { return c.previewGen }

func (c *Controller) open(idx int) tea.Cmd {
	if c.opts.OnOpen == nil || idx < 0 || idx >= len(c.labels) {
		return nil
	}
	return c.opts.OnOpen(datePart(c.labels[idx]))
}

// HandleMouse routes a page-coordinate mouse event to the gesture methods.
func (c *Controller) HandleMouse(msg tea.MouseMsg) tea.Cmd {
	if c.state == Absent {
		return nil
	}
	x := msg.X - c.originX
	inside := c.Contains(msg.X, msg.Y)

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp:
		if inside {
			return c.Wheel(WheelUp, c.opts.Now())
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelDown:
		if inside {
			return c.Wheel(WheelDown, c.opts.Now())
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if inside {
			return c.MouseDown(x, c.opts.Now())
		}
	case msg.Action == tea.MouseActionRelease:
		return c.MouseUp()
	case msg.Action == tea.MouseActionMotion:
		if !inside {
			return c.Leave()
		}
		return c.MouseMove(x)
	}
	return nil
}

// datePart trims a bucket label to its YYYY-MM-DD prefix.
func datePart(label string) string {
	if len(label) > 10 {
		return label[:10]
	}
	return label
}
