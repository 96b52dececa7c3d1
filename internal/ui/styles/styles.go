// Package styles defines the visual styling for the application.
package styles

import "github.com/charmbracelet/lipgloss"

// Color definitions for the GeoStar theme.
var (
	// Primary colors
	Primary   = lipgloss.Color("36") // Teal
	Secondary = lipgloss.Color("67") // Steel blue
	Subtle    = lipgloss.Color("240")

	// Domain colors
	Heating = lipgloss.Color("208") // Orange
	Cooling = lipgloss.Color("39")  // Blue
	Energy  = lipgloss.Color("220") // Yellow

	// Gradient ends for share bars
	HeatingHex = "#ff8700"
	CoolingHex = "#00afff"

	// Status colors
	Success = lipgloss.Color("42")  // Green
	Error   = lipgloss.Color("196") // Red
	Warning = lipgloss.Color("220") // Yellow
	Info    = lipgloss.Color("39")  // Blue

	// Background colors
	BgDark   = lipgloss.Color("235")
	BgLight  = lipgloss.Color("237")
	BgAccent = lipgloss.Color("236")

	// Text colors
	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")

	// ToastStyle for floating notifications.
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// TitleStyle is used for main headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary)

// SubTitleStyle is used for section headings.
var SubTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary)

// CardStyle creates a bordered card container.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(0, 1)

// CardTitleStyle styles card headers.
var CardTitleStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// CardValueStyle styles the figure inside a stat card.
var CardValueStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(TextPrimary)

// FocusedStyle is used for focused input elements.
var FocusedStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// BlurredStyle is used for unfocused input elements.
var BlurredStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// LinkStyle renders clickable text.
var LinkStyle = lipgloss.NewStyle().
	Foreground(Info).
	Underline(true)

// DisabledLinkStyle renders a link that currently goes nowhere.
var DisabledLinkStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// PillStyle is the base style of a gateway filter pill.
var PillStyle = lipgloss.NewStyle().
	Padding(0, 1).
	MarginRight(1).
	Foreground(TextSecondary).
	Background(BgLight)

// PillActiveStyle marks a selected pill.
var PillActiveStyle = PillStyle.
	Bold(true).
	Foreground(lipgloss.Color("16")).
	Background(Primary)

// PillCursorStyle marks the pill under the keyboard cursor.
var PillCursorStyle = lipgloss.NewStyle().
	Underline(true)

// HelpStyle is the base style for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// HelpKeyStyle styles keyboard shortcut keys.
var HelpKeyStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// HelpDescStyle styles help descriptions.
var HelpDescStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// HelpPanelStyle creates the help overlay panel.
var HelpPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(Primary).
	Padding(1, 3).
	Background(BgDark)

// TableHeaderStyle styles table headers.
var TableHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary)

// TableCellStyle styles table cells.
var TableCellStyle = lipgloss.NewStyle().
	Foreground(TextPrimary)

// TableHighlightStyle marks rows matching the hovered chart bucket.
var TableHighlightStyle = lipgloss.NewStyle().
	Background(BgAccent).
	Foreground(Energy).
	Bold(true)

// TableEmptyStyle renders the placeholder row of an empty table.
var TableEmptyStyle = lipgloss.NewStyle().
	Foreground(TextMuted).
	Italic(true)

// ErrorTextStyle for error messages.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(Error)

// SuccessTextStyle for success messages.
var SuccessTextStyle = lipgloss.NewStyle().
	Foreground(Success)

// WarningTextStyle for warning messages.
var WarningTextStyle = lipgloss.NewStyle().
	Foreground(Warning)

// InfoTextStyle for info messages.
var InfoTextStyle = lipgloss.NewStyle().
	Foreground(Info)

// BusyStyle renders the loading indicator next to page titles.
var BusyStyle = lipgloss.NewStyle().
	Foreground(Secondary).
	Italic(true)
