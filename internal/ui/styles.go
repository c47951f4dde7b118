package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/plextty/plextty/internal/cli"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.PlexGold)

	trackTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.PlexCream)

	trackMetaStyle = lipgloss.NewStyle().
			Foreground(cli.MutedGray)

	statusStyle = lipgloss.NewStyle().
			Foreground(cli.PlexAmber).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(cli.MutedGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(cli.ErrorRed)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cli.PlexDark).
			Padding(0, 1)

	lyricCurrentStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(cli.PlexGold)

	lyricStyle = lipgloss.NewStyle().
			Foreground(cli.MutedGray)

	// Amber gradient for level bars, cold to hot.
	barColors = []lipgloss.Color{
		lipgloss.Color("#5C4803"),
		lipgloss.Color("#8A6D04"),
		lipgloss.Color("#B88F07"),
		lipgloss.Color("#E5A00D"),
		lipgloss.Color("#F2B63A"),
		lipgloss.Color("#FFCC66"),
	}
)
