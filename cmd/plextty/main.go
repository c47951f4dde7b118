package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/plextty/plextty/internal/audio"
	"github.com/plextty/plextty/internal/cli"
	"github.com/plextty/plextty/internal/config"
	"github.com/plextty/plextty/internal/logging"
	"github.com/plextty/plextty/internal/lyrics"
	"github.com/plextty/plextty/internal/plex"
	"github.com/plextty/plextty/internal/ui"
)

// version is set via ldflags at build time
var version = "dev"

var CLI struct {
	Server     string `short:"s" help:"Plex server URL, e.g. http://plex.local:32400" placeholder:"url"`
	Token      string `short:"t" help:"Plex authentication token" placeholder:"token"`
	Config     string `short:"c" help:"Config file path" placeholder:"path"`
	CapturePCM string `help:"Tee analyzed PCM to a WAV file" placeholder:"path"`
	Debug      bool   `help:"Verbose logging"`
	Version    bool   `help:"Show version information"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("plextty"),
		kong.Description("Play music from your Plex server in the terminal."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if CLI.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	configPath := CLI.Config
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, loaded, err := config.Load(configPath)
	if err != nil {
		cli.PrintError(fmt.Sprintf("loading config: %v", err))
		os.Exit(1)
	}

	// Command-line flags win over the config file.
	if CLI.Server != "" {
		cfg.ServerURL = CLI.Server
	}
	if CLI.Token != "" {
		cfg.Token = CLI.Token
	}
	if CLI.CapturePCM != "" {
		cfg.CapturePath = CLI.CapturePCM
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if cfg.ServerURL == "" || cfg.Token == "" {
		cli.PrintError("a Plex server URL and token are required")
		cli.PrintInfo("Hint", fmt.Sprintf("set them in %s or pass --server and --token", configPath))
		os.Exit(1)
	}

	// First run with credentials on the command line: seed the config
	// file so the next launch needs no flags.
	if !loaded && CLI.Server != "" && CLI.Token != "" {
		if err := cfg.Save(configPath); err != nil {
			cli.PrintError(fmt.Sprintf("saving config: %v", err))
		} else {
			cli.PrintSuccess(fmt.Sprintf("wrote %s", configPath))
		}
	}

	logPath := cfg.LogPath
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}
	log, closeLog := logging.Setup(logPath, cfg.Debug)
	defer closeLog()
	log.Info().Str("version", version).Msg("starting")

	client := plex.NewClient(cfg.ServerURL, cfg.Token, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Connect(ctx); err != nil {
		cli.PrintError(fmt.Sprintf("cannot reach Plex server: %v", err))
		os.Exit(1)
	}
	sectionID, err := client.MusicSectionID(ctx)
	if err != nil {
		cli.PrintError(fmt.Sprintf("finding music library: %v", err))
		os.Exit(1)
	}
	log.Info().Int("section", sectionID).Msg("connected")

	dec := audio.New(audio.Options{
		CapturePath: cfg.CapturePath,
		Logger:      log,
	})
	defer dec.Stop()

	var fetcher *lyrics.Fetcher
	if cfg.EnableLyrics {
		fetcher = lyrics.NewFetcher(log)
		defer fetcher.Close()
	}

	model := ui.NewModel(cfg, client, dec, fetcher, sectionID, log)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		dec.Stop()
		cli.PrintError(fmt.Sprintf("running UI: %v", err))
		os.Exit(1)
	}
}
