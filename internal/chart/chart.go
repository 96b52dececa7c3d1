// Package chart keeps one live line chart per page kind and turns mouse
// gestures on it into date-range navigation.
//
// A Controller is either absent or live. CreateOrUpdate builds it the first
// time and reconciles datasets in place afterwards, so an open chart is
// never torn down and rebuilt on refresh. Destroy is the only way back to
// absent.
package chart

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/geostar-dashboard/internal/models"
)

// Kind identifies which page a chart belongs to.
type Kind int

const (
	// KindOverview is the multi-day energy chart.
	KindOverview Kind = iota
	// KindDaily is the 24-hour breakdown chart.
	KindDaily
)

// String returns the kind name.
func (k Kind) String() string {
	if k == KindDaily {
		return "daily"
	}
	return "overview"
}

// TotalKey is the series key of the derived sum-of-visible-gateways series.
const TotalKey = "__total"

// Palette assigns gateway series colors in order; the total uses TotalColor.
var Palette = []Color{
	{Hex: "#3b82f6", Term: asciigraph.Blue},
	{Hex: "#f59e0b", Term: asciigraph.Orange},
	{Hex: "#10b981", Term: asciigraph.Green},
	{Hex: "#ef4444", Term: asciigraph.Red},
}

// TotalColor is the color of the total series.
var TotalColor = Color{Hex: "#e5e7eb", Term: asciigraph.White}

// Color pairs a legend color with the plot color asciigraph draws with.
type Color struct {
	Hex  string
	Term asciigraph.AnsiColor
}

// Lip returns the color for lipgloss styles.
func (c Color) Lip() lipgloss.Color { return lipgloss.Color(c.Hex) }

// PaletteColor returns the i-th gateway color, cycling.
func PaletteColor(i int) Color {
	return Palette[i%len(Palette)]
}

// Dataset is one plotted series.
type Dataset struct {
	Key    string
	Label  string
	Color  Color
	Points []float64
	Hidden bool

	// from holds the displayed values when the running transition started.
	from []float64
}

// IsTotal reports whether this is the derived total series.
func (d *Dataset) IsTotal() bool { return d.Key == TotalKey }

// Data is the input to CreateOrUpdate.
type Data struct {
	Labels     []string
	Datasets   []Dataset
	Resolution models.Resolution
}

// Visibility is the part of the gateway filter charts need.
type Visibility interface {
	IsVisible(id string) bool
	Len() int
}

// State is the controller lifecycle state.
type State int

const (
	// Absent means no chart exists.
	Absent State = iota
	// Live means the chart exists and accepts updates and gestures.
	Live
)

// Options wires page behavior into a controller. Gesture handlers read the
// controller's current labels and callbacks at the time of the event.
type Options struct {
	Kind Kind
	Now  func() time.Time
	// Location decides what "today" is for scroll zoom.
	Location *time.Location

	// OnZoom receives an inclusive YYYY-MM-DD range from drag or scroll zoom.
	OnZoom func(from, to string) tea.Cmd
	// OnOpen receives the date of a double-clicked bucket.
	OnOpen func(date string) tea.Cmd
	// OnHover receives the row key of the hovered bucket.
	OnHover func(key string) tea.Cmd
	// OnHoverEnd runs when the pointer leaves the plot.
	OnHoverEnd func() tea.Cmd
	// HoverKey maps a bucket label to the table row key. Defaults to the label.
	HoverKey func(label string) string
	// RangeSource returns the current date range inputs; empty values fall
	// back to the first and last label.
	RangeSource func() (from, to string)
}

// Lifecycle counts how often a controller was built and torn down.
type Lifecycle struct {
	Created   int
	Destroyed int
}

// Controller is a single chart instance slot.
type Controller struct {
	opts Options

	state      State
	labels     []string
	datasets   []*Dataset
	resolution models.Resolution

	geom  Geometry
	drag  DragZoomState
	hover int

	lastWheel  time.Time
	lastPress  time.Time
	pressIndex int
	previewGen int

	animStart time.Time
	animating bool
	frameGen  int

	originX, originY int

	life Lifecycle
}

// New returns an absent controller.
func New(opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.HoverKey == nil {
		opts.HoverKey = func(label string) string { return label }
	}
	return &Controller{
		opts:       opts,
		hover:      -1,
		pressIndex: -1,
		geom:       defaultGeometry(80, 12),
	}
}

// Kind returns the page kind this controller serves.
func (c *Controller) Kind() Kind { return c.opts.Kind }

// State returns the lifecycle state.
func (c *Controller) State() State { return c.state }

// Live reports whether the chart exists.
func (c *Controller) Live() bool { return c.state == Live }

// Lifecycle returns creation and destruction counts.
func (c *Controller) Lifecycle() Lifecycle { return c.life }

// Labels returns the current x-axis labels.
func (c *Controller) Labels() []string { return c.labels }

// Resolution returns the resolution of the current data.
func (c *Controller) Resolution() models.Resolution { return c.resolution }

// Dataset returns the series with key, or nil.
func (c *Controller) Dataset(key string) *Dataset {
	for _, d := range c.datasets {
		if d.Key == key {
			return d
		}
	}
	return nil
}

// Datasets returns the series in draw order.
func (c *Controller) Datasets() []*Dataset { return c.datasets }

// CreateOrUpdate builds the chart on first use and reconciles datasets by
// key afterwards: existing series are updated in place, missing ones are
// dropped and new ones appended. The returned command drives the update
// transition.
func (c *Controller) CreateOrUpdate(data Data) tea.Cmd {
	labels := append([]string(nil), data.Labels...)

	if c.state == Absent {
		c.state = Live
		c.life.Created++
		c.labels = labels
		c.resolution = data.Resolution
		c.datasets = make([]*Dataset, 0, len(data.Datasets))
		for _, d := range data.Datasets {
			ds := d
			ds.Points = fit(d.Points, len(labels))
			ds.from = nil
			c.datasets = append(c.datasets, &ds)
		}
		return nil
	}

	displayed := c.displayedByKey()
	c.labels = labels
	c.resolution = data.Resolution

	incoming := make(map[string]Dataset, len(data.Datasets))
	for _, d := range data.Datasets {
		incoming[d.Key] = d
	}

	kept := c.datasets[:0]
	for _, ds := range c.datasets {
		next, ok := incoming[ds.Key]
		if !ok {
			continue
		}
		ds.Label = next.Label
		ds.Color = next.Color
		ds.Points = fit(next.Points, len(labels))
		kept = append(kept, ds)
		delete(incoming, ds.Key)
	}
	c.datasets = kept
	for _, d := range data.Datasets {
		if _, isNew := incoming[d.Key]; !isNew {
			continue
		}
		ds := d
		ds.Points = fit(d.Points, len(labels))
		c.datasets = append(c.datasets, &ds)
	}

	return c.startTransition(displayed)
}

// Destroy tears the chart down. It reports whether a live chart existed.
func (c *Controller) Destroy() bool {
	if c.state == Absent {
		return false
	}
	c.state = Absent
	c.life.Destroyed++
	c.labels = nil
	c.datasets = nil
	c.drag = DragZoomState{}
	c.hover = -1
	c.pressIndex = -1
	c.animating = false
	c.frameGen++
	c.previewGen++
	return true
}

// UpdateVisibility hides gateway series the filter excludes. The total is
// hidden when exactly one gateway is selected and otherwise recomputed as
// the sum of the visible gateway series.
func (c *Controller) UpdateVisibility(v Visibility) tea.Cmd {
	if c.state == Absent {
		return nil
	}
	displayed := c.displayedByKey()

	var total *Dataset
	for _, ds := range c.datasets {
		if ds.IsTotal() {
			total = ds
			continue
		}
		ds.Hidden = v.Len() > 0 && !v.IsVisible(ds.Key)
	}
	if total == nil {
		return nil
	}

	if v.Len() == 1 {
		total.Hidden = true
		return nil
	}
	total.Hidden = false
	sum := make([]float64, len(c.labels))
	for _, ds := range c.datasets {
		if ds.IsTotal() || ds.Hidden {
			continue
		}
		for i := range sum {
			sum[i] += ds.Points[i]
		}
	}
	total.Points = sum

	return c.startTransition(displayed)
}

// SumSeries returns the element-wise sum of series, sized to n.
func SumSeries(n int, series ...[]float64) []float64 {
	out := make([]float64, n)
	for _, s := range series {
		for i := 0; i < n && i < len(s); i++ {
			out[i] += s[i]
		}
	}
	return out
}

// fit copies points into a slice of exactly n values, padding with zeros.
func fit(points []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, points)
	return out
}
