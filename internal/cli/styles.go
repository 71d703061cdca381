// Package cli provides styled terminal output and the interactive review
// session using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette. Muted Dracula-ish colors that stay readable over long review
// sessions.
var (
	// PrimaryColor is the main theme color (lavender).
	PrimaryColor = lipgloss.Color("#BD93F9")
	// SuccessColor marks accepted and completed work.
	SuccessColor = lipgloss.Color("#50FA7B") // Green
	// WarningColor marks flags and caution messages.
	WarningColor = lipgloss.Color("#F1FA8C") // Yellow
	// ErrorColor marks failures.
	ErrorColor = lipgloss.Color("#FF5555") // Red
	// InfoColor marks neutral informational output.
	InfoColor = lipgloss.Color("#8BE9FD") // Cyan
	// SubtleColor de-emphasizes secondary detail.
	SubtleColor = lipgloss.Color("#6272A4") // Muted blue
)

// Text styles.
var (
	// TitleStyle renders section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SubtitleStyle renders secondary headings.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			MarginBottom(1)

	// SuccessStyle colors success text.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle colors warning text.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle colors error text.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle colors informational text.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle dims secondary detail.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle emphasizes values inside plain text.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	// PromptStyle renders user prompts.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// Layout styles.
var (
	// BoxStyle draws bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	// TableHeaderStyle underlines table header rows.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("#333"))

	// TableCellStyle pads table cells.
	TableCellStyle = lipgloss.NewStyle().
			PaddingRight(2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	LotionIcon  = "🧴"
	RobotIcon   = "🤖"
	ChartIcon   = "📊"
	CheckIcon   = "✅"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the product icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(LotionIcon + " " + title)
}

// FormatPrompt formats a prompt message.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// RenderBox renders content in a box with a title line.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.
		UnsetMargins().
		Render(title)

	return BoxStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		boxTitle,
		content,
	))
}
