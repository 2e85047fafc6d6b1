package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Yuma-123/cyber-calendar/internal/calendar"
	"github.com/Yuma-123/cyber-calendar/internal/puzzle"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	seed := flag.Uint64("seed", 0, "seed the piece generator (0 picks a random seed)")
	dataDir := flag.String("data", "", "directory holding events.json")
	flag.Parse()

	EnableDebugLogging(*debug)
	defer closeDebugLog()
	loadEmbeddedEnv()
	DebugLogf("cyber-calendar start debug=%v seed=%d", *debug, *seed)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "cyber-calendar needs an interactive terminal")
		os.Exit(1)
	}

	if err := run(*seed, *dataDir); err != nil {
		logger.WithError(err).Error("exit")
		fmt.Fprintln(os.Stderr, err)
		closeDebugLog()
		os.Exit(1)
	}
}

func run(seed uint64, dataDir string) error {
	config, err := loadConfig()
	if err != nil {
		logger.WithError(err).Warn("config fallback to defaults")
	}
	if config.MusicPath == "" {
		config.MusicPath = envOr("CYBERCAL_MUSIC", "")
	}

	if dataDir == "" {
		if dataDir, err = defaultDataDir(); err != nil {
			return fmt.Errorf("data dir: %w", err)
		}
	}
	store, err := calendar.Open(dataDir)
	if err != nil {
		return err
	}
	logger.WithField("path", store.Path()).Debug("event store open")

	engine := puzzle.New(nil)
	if seed != 0 {
		engine = puzzle.NewSeeded(seed)
	}

	volume := volumeFromPercent(config.Volume)
	ctx, sampleRate, err := initAudioContext(config.MusicPath)
	if err != nil {
		logger.WithError(err).Warn("audio unavailable")
	}
	sound := NewSoundEngine(ctx, sampleRate, config.Sound)
	sound.SetVolume(volume)
	music := NewMusicPlayer(ctx, config.MusicPath, volume)

	sync := NewEventSyncFromEnv(config.Sync, config.DeviceID)
	if err := saveConfig(config); err != nil {
		logger.WithError(err).Warn("save config")
	}

	model := NewModel(Options{
		Engine: engine,
		Store:  store,
		Config: config,
		Sound:  sound,
		Music:  music,
		Sync:   sync,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	if music != nil {
		music.Stop()
	}
	if err != nil {
		return fmt.Errorf("program: %w", err)
	}
	return nil
}
