// Package format renders energy values, timestamps and gateway names for display.
package format

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

// Power formats a kWh value with two decimals, "-" when absent.
func Power(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

// Energy formats a non-nullable kWh value.
func Energy(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Runtime formats a runtime total with one decimal.
func Runtime(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// Timestamp formats unix milliseconds in loc, e.g. "Mar 15, 2024, 09:15 AM".
func Timestamp(ms int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc).Format("Jan 2, 2006, 03:04 PM")
}

// Count formats an integer with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// Escape removes terminal escape sequences and control characters so
// untrusted text cannot move the cursor or recolor the screen.
func Escape(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

var (
	namesMu sync.RWMutex
	names   = DefaultGatewayNames()
)

// DefaultGatewayNames returns the built-in unit names.
func DefaultGatewayNames() map[string]string {
	return map[string]string{
		"8813BF342F64": "3-Ton",
		"8813BF34217C": "4-Ton",
	}
}

// GatewayName returns the friendly unit name for a gateway id, or the id
// itself. Either way the result is safe to print.
func GatewayName(id string) string {
	namesMu.RLock()
	name, ok := names[id]
	namesMu.RUnlock()
	if !ok {
		name = id
	}
	return Escape(name)
}

// SetGatewayNames replaces the friendly-name mapping. A nil map restores
// the built-in defaults.
func SetGatewayNames(m map[string]string) {
	next := DefaultGatewayNames()
	if m != nil {
		next = make(map[string]string, len(m))
		for k, v := range m {
			next[k] = v
		}
	}
	namesMu.Lock()
	names = next
	namesMu.Unlock()
}
