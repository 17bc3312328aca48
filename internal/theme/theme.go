package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/zenith/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorIndigo = lipgloss.AdaptiveColor{Dark: "#818CF8", Light: "#4F46E5"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for section headers.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorIndigo).
	Padding(0, 1)

// PanelStyle wraps multi-line output such as AI replies.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// HelpStyle is used for secondary text: ids, timestamps, hints.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// SuccessStyle confirms a completed change.
var SuccessStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorGreen)

// WarningStyle flags blocked work and overload.
var WarningStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// StatusStyle returns a color-coded style for a board column.
func StatusStyle(status model.TaskStatus) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch status {
	case model.StatusTodo:
		return base.Foreground(ColorIndigo)
	case model.StatusInProgress:
		return base.Foreground(ColorYellow)
	case model.StatusDone:
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}

// PriorityStyle returns a color-coded style for a task priority.
func PriorityStyle(priority model.Priority) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch priority {
	case model.PriorityHigh:
		return base.Foreground(ColorRed)
	case model.PriorityMedium:
		return base.Foreground(ColorOrange)
	case model.PriorityLow:
		return base.Foreground(ColorIndigo)
	default:
		return base.Foreground(ColorGray)
	}
}

// RiskStyle returns a color-coded style for a project risk level.
func RiskStyle(risk model.RiskLevel) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch risk {
	case model.RiskCritical:
		return base.Foreground(ColorRed)
	case model.RiskElevated:
		return base.Foreground(ColorOrange)
	case model.RiskStable:
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}

// SaturationStyle highlights members above 80% saturation.
func SaturationStyle(saturation float64) lipgloss.Style {
	if saturation > 80 {
		return WarningStyle
	}
	return lipgloss.NewStyle().Foreground(ColorIndigo)
}
