package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PlexGold).
			MarginBottom(1)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(PlexAmber).
			Italic(true).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(PlexAmber).
				MarginTop(1)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(PlexGold).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(MutedGray).
				Italic(true)
)

// StyledHelpPrinter renders --help with the shared palette instead of
// kong's plain formatter.
func StyledHelpPrinter(options kong.HelpOptions) kong.HelpPrinter {
	return kong.HelpPrinter(func(options kong.HelpOptions, ctx *kong.Context) error {
		var sb strings.Builder

		sb.WriteString(helpTitleStyle.Render("plextty"))
		sb.WriteString("\n")
		sb.WriteString(helpDescStyle.Render("Play music from your Plex server in the terminal, waveform and lyrics included."))
		sb.WriteString("\n")

		sb.WriteString(helpSectionStyle.Render("Usage:"))
		sb.WriteString("\n  ")
		sb.WriteString(fmt.Sprintf("%s [flags]", ctx.Model.Name))
		sb.WriteString("\n")

		flags := collectFlags(ctx)
		if len(flags) > 0 {
			sb.WriteString("\n")
			sb.WriteString(helpSectionStyle.Render("Flags:"))
			sb.WriteString("\n")
			for _, f := range flags {
				sb.WriteString("  ")
				sb.WriteString(helpFlagStyle.Render(f.flags))
				if f.help != "" {
					sb.WriteString("  ")
					sb.WriteString(f.help)
				}
				if f.defaultVal != "" {
					sb.WriteString(" ")
					sb.WriteString(helpDefaultStyle.Render("(default: " + f.defaultVal + ")"))
				}
				sb.WriteString("\n")
			}
		}

		sb.WriteString("\n")
		fmt.Fprint(ctx.Stdout, sb.String())
		return nil
	})
}

type flagEntry struct {
	flags      string
	help       string
	defaultVal string
}

func collectFlags(ctx *kong.Context) []flagEntry {
	flags := []flagEntry{{
		flags: "-h, --help",
		help:  "Show context-sensitive help.",
	}}

	for _, f := range ctx.Model.Node.Flags {
		if f.Name == "help" {
			continue
		}

		var flagStr string
		if f.Short != 0 {
			flagStr = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
		} else {
			flagStr = fmt.Sprintf("--%s", f.Name)
		}
		if !f.IsBool() && f.PlaceHolder != "" {
			flagStr += "=" + strings.ToUpper(f.PlaceHolder)
		}

		defaultVal := ""
		if f.HasDefault && !f.IsBool() {
			if val := f.Default; val != "" && val != "STRING" && val != "BOOL" {
				defaultVal = val
			}
		}

		flags = append(flags, flagEntry{
			flags:      flagStr,
			help:       f.Help,
			defaultVal: defaultVal,
		})
	}
	return flags
}
