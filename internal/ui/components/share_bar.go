package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/geostar-dashboard/internal/logger"
	"github.com/j-veylop/geostar-dashboard/internal/ui/styles"
)

// Share returns part as a percentage of whole, or 0 when whole is not
// positive.
func Share(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return max(0, min(part/whole*100, 100))
}

// RenderGradientBar renders a percent-filled bar whose filled cells fade
// from fromHex to toHex.
func RenderGradientBar(percent float64, width int, fromHex, toHex string) string {
	if width < 1 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	filled = max(0, min(filled, width))

	var b strings.Builder
	for i := range width {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor(fromHex, toHex, t)
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("█"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Subtle).Render("░"))
		}
	}
	return b.String()
}

// RenderShareBar renders "label [bar] NN%" showing part's share of whole.
func RenderShareBar(label string, part, whole float64, width int, fromHex, toHex string) string {
	const percentWidth = 5
	barWidth := max(width-lipgloss.Width(label)-percentWidth-4, 5)
	percent := Share(part, whole)

	percentStr := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", percent))

	return fmt.Sprintf("%s [%s] %s",
		lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(label),
		RenderGradientBar(percent, barWidth, fromHex, toHex),
		percentStr)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
