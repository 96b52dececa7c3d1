package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/geostar-dashboard/internal/format"
	"github.com/j-veylop/geostar-dashboard/internal/ui/components"
	"github.com/j-veylop/geostar-dashboard/internal/ui/styles"
)

const subDailyTickLimit = 24

var (
	overlayStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1e3a8a")).
			Foreground(lipgloss.Color("#bfdbfe"))
	clampStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f59e0b"))
	axisStyle = lipgloss.NewStyle().Foreground(styles.TextMuted)
)

// View renders the chart into a width x height block and records the plot
// geometry used for hit testing.
func (c *Controller) View(width, height int) string {
	width = max(width, 24)
	height = max(height, 7)

	if c.state == Absent || len(c.labels) == 0 {
		c.geom = defaultGeometry(width, height)
		return placeholder(width, height, "No data")
	}

	var series [][]float64
	var colors []asciigraph.AnsiColor
	var legend []components.LegendItem
	peak := 0.0
	for _, ds := range c.datasets {
		if ds.Hidden {
			continue
		}
		vals := c.displayed(ds)
		if len(vals) == 1 {
			vals = []float64{vals[0], vals[0]}
		}
		for _, v := range vals {
			peak = math.Max(peak, v)
		}
		series = append(series, vals)
		colors = append(colors, ds.Color.Term)
		legend = append(legend, components.LegendItem{Label: ds.Label, Color: ds.Color.Lip()})
	}
	if len(series) == 0 {
		c.geom = defaultGeometry(width, height)
		return placeholder(width, height, "All series hidden")
	}

	labelWidth := len(fmt.Sprintf("%.2f", peak)) + 2
	plotWidth := max(width-labelWidth-2, 10)
	plotHeight := max(height-4, 2)

	opts := []asciigraph.Option{
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.LowerBound(0),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(colors...),
	}
	if peak == 0 {
		opts = append(opts, asciigraph.UpperBound(1))
	}

	lines := strings.Split(asciigraph.PlotMany(series, opts...), "\n")
	axis := axisColumn(lines)
	c.geom = Geometry{
		Left:   axis + 1,
		Right:  axis + plotWidth,
		Top:    0,
		Bottom: len(lines) - 1,
	}

	if c.drag.Active {
		lines = c.paintOverlay(lines)
	}

	out := append(lines, c.markerRow(), c.tickRow(),
		axisStyle.Render("kWh  ")+components.RenderLegend(legend))
	return strings.Join(out, "\n")
}

// axisColumn finds the cell column of the y-axis rune.
func axisColumn(lines []string) int {
	for _, line := range lines {
		plain := ansi.Strip(line)
		for _, r := range []string{"┤", "┼"} {
			if i := strings.Index(plain, r); i >= 0 {
				return ansi.StringWidth(plain[:i])
			}
		}
	}
	return 0
}

func (c *Controller) paintOverlay(lines []string) []string {
	lo := max(min(c.drag.StartX, c.drag.EndX), c.geom.Left)
	hi := min(max(c.drag.StartX, c.drag.EndX), c.geom.Right)
	if hi < lo {
		return lines
	}
	out := make([]string, len(lines))
	mid := (c.geom.Top + c.geom.Bottom) / 2
	for i, line := range lines {
		if i < c.geom.Top || i > c.geom.Bottom {
			out[i] = line
			continue
		}
		line = paintRange(line, lo, hi, overlayStyle)
		if i == mid && c.drag.ClampLeft {
			line = replaceCell(line, c.geom.Left, clampStyle.Render("◀"))
		}
		if i == mid && c.drag.ClampRight {
			line = replaceCell(line, c.geom.Right, clampStyle.Render("▶"))
		}
		out[i] = line
	}
	return out
}

// paintRange restyles cells x0..x1 (inclusive) of an ANSI line.
func paintRange(line string, x0, x1 int, style lipgloss.Style) string {
	left := padTo(ansi.Truncate(line, x0, ""), x0)
	mid := padTo(ansi.Strip(ansi.TruncateLeft(ansi.Truncate(line, x1+1, ""), x0, "")), x1-x0+1)
	right := ansi.TruncateLeft(line, x1+1, "")
	return left + style.Render(mid) + right
}

func replaceCell(line string, x int, cell string) string {
	left := padTo(ansi.Truncate(line, x, ""), x)
	right := ansi.TruncateLeft(line, x+1, "")
	return left + cell + right
}

func padTo(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// markerRow marks bucket positions under the plot. Daily buckets get a
// tick, hourly buckets a dot and quarter-hour buckets none.
func (c *Controller) markerRow() string {
	row := []rune(strings.Repeat(" ", c.geom.Left) + strings.Repeat("─", c.geom.Right-c.geom.Left+1))
	var mark rune
	switch c.resolution.PointRadius() {
	case 2:
		mark = '┬'
	case 1:
		mark = '·'
	default:
		return axisStyle.Render(string(row))
	}
	if len(c.labels) <= c.geom.Right-c.geom.Left+1 {
		for i := range c.labels {
			if p := c.PixelFor(i); p < len(row) {
				row[p] = mark
			}
		}
	}
	return axisStyle.Render(string(row))
}

// TickLabel is the x-axis text for a bucket label. Sub-daily labels drop
// the year.
func (c *Controller) TickLabel(label string) string {
	label = format.Escape(label)
	if c.resolution.SubDaily() && len(label) > 10 {
		return label[5:]
	}
	return label
}

// tickRow places as many non-overlapping labels as fit, capped at 24 for
// sub-daily data.
func (c *Controller) tickRow() string {
	n := len(c.labels)
	if n == 0 {
		return ""
	}
	textWidth := 0
	for _, l := range c.labels {
		textWidth = max(textWidth, len(c.TickLabel(l)))
	}
	plotWidth := c.geom.Right - c.geom.Left + 1
	limit := max(plotWidth/(textWidth+1), 1)
	if c.resolution.SubDaily() {
		limit = min(limit, subDailyTickLimit)
	}
	step := int(math.Ceil(float64(n) / float64(limit)))

	row := []rune(strings.Repeat(" ", c.geom.Right+textWidth+1))
	next := 0
	for i := 0; i < n; i += step {
		text := []rune(c.TickLabel(c.labels[i]))
		pos := c.PixelFor(i)
		if i == n-1 || i+step >= n {
			pos = max(min(pos, c.geom.Right+1-len(text)), 0)
		}
		if pos < next {
			continue
		}
		copy(row[pos:], text)
		next = pos + len(text) + 1
	}
	return axisStyle.Render(strings.TrimRight(string(row), " "))
}

func placeholder(width, height int, text string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		styles.HelpStyle.Render(text))
}
