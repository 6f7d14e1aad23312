package insights

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/eakarsu/parapilot/internal/cli"
)

// Styles contains all styling definitions for overview and snapshot output.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	Subtle   lipgloss.Style
	Normal   lipgloss.Style

	Box      lipgloss.Style
	Score    lipgloss.Style
	High     lipgloss.Style
	Medium   lipgloss.Style
	Low      lipgloss.Style
	Done     lipgloss.Style
	Pending  lipgloss.Style
	Category lipgloss.Style
}

// NewStyles creates a new Styles instance with default styling.
func NewStyles() *Styles {
	s := &Styles{
		Title:    cli.TitleStyle,
		Subtitle: cli.SubtitleStyle,
		Success:  cli.SuccessStyle,
		Warning:  cli.WarningStyle,
		Error:    cli.ErrorStyle,
		Info:     cli.InfoStyle,
		Subtle:   cli.SubtleStyle,
		Normal:   lipgloss.NewStyle(),
	}

	s.Box = cli.BoxStyle

	s.Score = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.PrimaryColor)

	s.High = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.ErrorColor)

	s.Medium = lipgloss.NewStyle().
		Foreground(cli.WarningColor)

	s.Low = lipgloss.NewStyle().
		Foreground(cli.SubtleColor)

	s.Done = lipgloss.NewStyle().
		Foreground(cli.SuccessColor).
		Strikethrough(true)

	s.Pending = lipgloss.NewStyle().
		Foreground(cli.InfoColor)

	s.Category = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.InfoColor).
		Padding(0, 1)

	return s
}

// priorityStyle maps a priority to its display style.
func (s *Styles) priorityStyle(order int) lipgloss.Style {
	switch order {
	case 0:
		return s.High
	case 1:
		return s.Medium
	default:
		return s.Low
	}
}
