package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/podwheel/podwheel/internal/cache"
	"github.com/podwheel/podwheel/internal/config"
	"github.com/podwheel/podwheel/internal/library"
	"github.com/podwheel/podwheel/internal/playback"
	"github.com/podwheel/podwheel/internal/player"
	"github.com/podwheel/podwheel/internal/store"
	"github.com/podwheel/podwheel/internal/ui"
	"github.com/podwheel/podwheel/internal/youtube"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	debugFlag   = flag.Bool("debug", false, "Enable debug logging")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s v%s - %s\n\n", config.AppName, config.AppVersion, config.AppDescription)
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()

		configPath, err := config.GetConfigPath()
		if err == nil {
			if _, statErr := os.Stat(configPath); statErr == nil {
				fmt.Fprintf(os.Stderr, "\nConfig file: %s\n", configPath)
			} else {
				fmt.Fprintf(os.Stderr, "\nConfig file will be created on first use.\n")
			}
		}
	}
}

func setupLogging() {
	if *debugFlag {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)

		cacheDir, err := cache.GetCacheDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not get cache dir: %v\n", err)
			cacheDir = os.TempDir()
		}
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create log dir: %v\n", err)
		}
		logPath := filepath.Join(cacheDir, "debug.log")
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create log file: %v\n", err)
			logFile = os.Stderr
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: logFile, TimeFormat: "15:04:05"})
		fmt.Printf("Debug log: %s\n", logPath)
		log.Info().Msgf("Starting %s v%s (debug mode)", config.AppName, config.AppVersion)
		return
	}

	// Avoid TUI corruption by only logging errors to /dev/null
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	logFile, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0644)
	if err == nil {
		log.Logger = log.Output(logFile)
	}
}

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Printf("%s v%s\n", config.AppName, config.AppVersion)
		fmt.Println(config.AppDescription)
		os.Exit(0)
	}

	setupLogging()

	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load config, using defaults")
		cfg = config.DefaultConfig()
	}

	playlistStore, err := store.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not locate playlist store: %v\n", err)
		os.Exit(1)
	}
	lib := library.New(playlistStore.Load())

	if *debugFlag {
		if configPath, err := config.GetConfigPath(); err == nil {
			log.Debug().Msgf("Config: %s", configPath)
		}
		log.Debug().Msgf("Playlists: %d loaded", lib.Count())
	}

	resolver := youtube.NewClient()
	audio := player.New(cfg.StreamGateway)
	coord := playback.New(lib, audio)

	wheelUI := ui.New(lib, coord, resolver, audio, cfg)
	wheelUI.Engine().SetOnChange(func() {
		if err := playlistStore.Save(lib.All()); err != nil {
			log.Error().Err(err).Msg("Failed to save playlists")
		}
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	uiDone := make(chan error, 1)

	go func() {
		<-sigChan
		if *debugFlag {
			log.Info().Msg("Received shutdown signal, cleaning up...")
		}
		wheelUI.Shutdown()
	}()

	if *debugFlag {
		log.Info().Msg("Starting UI...")
	}

	// Run UI in a goroutine so we can handle signals properly
	go func() {
		uiDone <- wheelUI.Run()
	}()

	if err := <-uiDone; err != nil {
		if *debugFlag {
			log.Error().Err(err).Msg("Error running UI")
		}
		audio.Stop()
		os.Exit(1)
	}

	audio.Stop()
	if *debugFlag {
		log.Info().Msg("PodWheel stopped")
	}
}
