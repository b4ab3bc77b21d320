package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. These are the single source of truth; never use inline
// lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: projects, versions, tags.
	ColorCyan = lipgloss.Color("14")

	// colorGreen is used for the "done" step status.
	colorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "undone" step status.
	ColorYellow = lipgloss.Color("220")

	// colorRed is used for the "undo failed" step status.
	colorRed = lipgloss.Color("196")

	// colorBoldRed is used for the "failed" step status (matches ERROR level).
	colorBoldRed = lipgloss.Color("204")

	// colorGreenCheck is used for the completion checkmark.
	colorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (projects, versions, tags).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles step names and action verbs.
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome (scope prefixes, separators).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Step status constants.
const (
	StatusDone       = "done"
	StatusSkipped    = "skipped"
	StatusUndone     = "undone"
	StatusUndoFailed = "undo failed"
	StatusFailed     = "failed"
	StatusValid      = "valid"
)

// statusStyle returns the style for a step status. Unknown statuses are
// unstyled.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case StatusDone, StatusValid:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case StatusUndone:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusSkipped:
		return lipgloss.NewStyle().Faint(true)
	case StatusUndoFailed:
		return lipgloss.NewStyle().Foreground(colorRed)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(colorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minStepColumnWidth keeps status words aligned.
const minStepColumnWidth = 24

// FormatStepLine renders a step name with a right-aligned, color-coded
// status suffix.
//
// Format: s:<step>  <status>
func FormatStepLine(step, status string) string {
	padding := max(minStepColumnWidth-len(step), 2)

	prefix := StyleDim.Render("s:")
	styledStep := StyleNoun.Render(step)
	styledStatus := statusStyle(status).Render(status)

	return prefix + styledStep + strings.Repeat(" ", padding) + styledStatus
}

// FormatTransition renders a version change such as "1.0.0-SNAPSHOT-4 → 1.0.0".
func FormatTransition(from, to fmt.Stringer) string {
	return StyleNoun.Render(from.String()) + StyleDim.Render(" → ") + StyleNoun.Render(to.String())
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(colorGreenCheck).Render("✔")
	return check + " " + msg
}

// vetLabelWidth aligns the detail column of vet check lines.
const vetLabelWidth = 28

// FormatVetCheck renders a passed check line with an optional dim detail
// aligned to a fixed column.
func FormatVetCheck(label, detail string) string {
	line := FormatCheckmark(label)
	if detail == "" {
		return line
	}
	padding := max(vetLabelWidth-len(label), 2)
	return line + strings.Repeat(" ", padding) + StyleDim.Render(detail)
}
