// ABOUTME: Shared lipgloss styles for consistent terminal output
// ABOUTME: Defines the palette, text styles and pass/fail badges

package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - Core palette
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light
	Accent    = lipgloss.Color("#8B5CF6") // Lighter purple for highlights

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted)

	// Status indicators
	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusCritical = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true))

// Check and Cross mark passed and failed lines
const (
	Check = "✓"
	Cross = "✗"
)

// Mark returns a colored check or cross
func Mark(passed bool) string {
	if passed {
		return StatusOK.Render(Check)
	}
	return StatusCritical.Render(Cross)
}

// Badge renders text on a colored background
func Badge(text string, bg lipgloss.Color) string {
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(Text).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// PassFail renders a PASS or FAIL badge
func PassFail(passed bool) string {
	if passed {
		return Badge("PASS", Secondary)
	}
	return Badge("FAIL", Danger)
}

// RateStyle colors a pass-rate percentage: green from 80, amber from 50
func RateStyle(rate float64) lipgloss.Style {
	switch {
	case rate >= 80:
		return StatusOK
	case rate >= 50:
		return StatusWarning
	default:
		return StatusCritical
	}
}
