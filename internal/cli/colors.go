package cli

import "github.com/charmbracelet/lipgloss"

// Plex-inspired amber palette, shared between the CLI output and the TUI
// so both surfaces read as one program.
var (
	PlexGold  = lipgloss.Color("#E5A00D")
	PlexAmber = lipgloss.Color("#CC7B19")
	PlexDark  = lipgloss.Color("#282A2D")
	PlexCream = lipgloss.Color("#EEEEEE")
	MutedGray = lipgloss.Color("#888888")
	ErrorRed  = lipgloss.Color("#D32F2F")
	OKGreen   = lipgloss.Color("#00AA00")
)
