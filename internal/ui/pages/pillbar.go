package pages

import (
	"github.com/j-veylop/geostar-dashboard/internal/chart"
	"github.com/j-veylop/geostar-dashboard/internal/filter"
	"github.com/j-veylop/geostar-dashboard/internal/format"
	"github.com/j-veylop/geostar-dashboard/internal/ui/components"
	"github.com/j-veylop/geostar-dashboard/internal/ui/styles"
)

// ActionClearFilter is the hotspot action of the pill bar's clear link.
const ActionClearFilter = "clear-filter"

// PillBar is the keyboard state of a row of gateway pills.
type PillBar struct {
	Gateways []string
	Cursor   int
	Focused  bool
}

// SetGateways replaces the pill set and keeps the cursor in range.
func (b *PillBar) SetGateways(gateways []string) {
	b.Gateways = append([]string(nil), gateways...)
	if b.Cursor >= len(b.Gateways) {
		b.Cursor = max(len(b.Gateways)-1, 0)
	}
}

// Move shifts the cursor by delta, wrapping around.
func (b *PillBar) Move(delta int) {
	n := len(b.Gateways)
	if n == 0 {
		return
	}
	b.Cursor = ((b.Cursor+delta)%n + n) % n
}

// Current returns the gateway under the cursor.
func (b *PillBar) Current() (string, bool) {
	if b.Cursor < 0 || b.Cursor >= len(b.Gateways) {
		return "", false
	}
	return b.Gateways[b.Cursor], true
}

// Segments renders the pills in palette order, followed by a clear link
// while a gateway is selected.
func (b *PillBar) Segments(f *filter.Store) []components.Segment {
	pills := make([]components.Pill, len(b.Gateways))
	for i, gw := range b.Gateways {
		pills[i] = components.Pill{
			ID:     gw,
			Label:  format.GatewayName(gw),
			Color:  chart.PaletteColor(i).Lip(),
			Active: f.Has(gw),
		}
	}
	segs := components.PillSegments(pills, b.Cursor, b.Focused)
	if f.Len() > 0 {
		segs = append(segs, components.Clickable(styles.LinkStyle.Render("Clear"), components.ActionTarget(ActionClearFilter)))
	}
	return segs
}
