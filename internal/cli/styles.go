// Package cli renders terminal output for the spice commands.
package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/the-spice-must-learn/internal/model"
)

// Palette.
var (
	PrimaryColor = lipgloss.Color("#FF6B6B")
	SuccessColor = lipgloss.Color("#4ECDC4")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF4757")
	InfoColor    = lipgloss.Color("#95E1D3")
	SubtleColor  = lipgloss.Color("#6C6C6C")
	BorderColor  = lipgloss.Color("#3A3A3A")
)

func foreground(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// Text styles shared by all commands.
var (
	TitleStyle   = foreground(PrimaryColor).Bold(true).MarginBottom(1)
	SuccessStyle = foreground(SuccessColor)
	WarningStyle = foreground(WarningColor)
	ErrorStyle   = foreground(ErrorColor).Bold(true)
	InfoStyle    = foreground(InfoColor)
	SubtleStyle  = foreground(SubtleColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)

	TableHeaderStyle = foreground(PrimaryColor).Bold(true)
	// TableCellStyle pads every cell but the last; see RenderTable.
	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	SpiceIcon   = "🌶️"
	RobotIcon   = "🤖"
	ChartIcon   = "📊"
	BrainIcon   = "🧠"
	RuleIcon    = "📏"
)

func withIcon(style lipgloss.Style, icon, message string) string {
	return style.Render(icon + " " + message)
}

// FormatSuccess prefixes message with a check mark.
func FormatSuccess(message string) string { return withIcon(SuccessStyle, SuccessIcon, message) }

// FormatError prefixes message with a cross.
func FormatError(message string) string { return withIcon(ErrorStyle, ErrorIcon, message) }

// FormatWarning prefixes message with a warning sign.
func FormatWarning(message string) string { return withIcon(WarningStyle, WarningIcon, message) }

// FormatInfo prefixes message with an info sign.
func FormatInfo(message string) string { return withIcon(InfoStyle, InfoIcon, message) }

// FormatTitle renders a section title.
func FormatTitle(title string) string { return withIcon(TitleStyle, SpiceIcon, title) }

// FormatCategorization describes where a category came from, e.g.
// "🧠 Coffee (learned, 83% confidence)".
func FormatCategorization(c model.Categorization) string {
	switch c.Source {
	case model.SourceLearned:
		return withIcon(SuccessStyle, BrainIcon, fmt.Sprintf("%s (learned, %.0f%% confidence)", c.Category, c.Confidence*100))
	case model.SourceRule:
		return withIcon(InfoStyle, RuleIcon, c.Category+" (rule)")
	default:
		return withIcon(WarningStyle, RobotIcon, fmt.Sprintf("%s (%s)", c.Category, c.Source))
	}
}

// RenderBox draws a rounded box with a title line above content.
func RenderBox(title, content string) string {
	heading := TitleStyle.UnsetMargins().Render(title)
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, heading, content))
}
