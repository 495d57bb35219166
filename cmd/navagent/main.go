package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/pkg/profile"

	"github.com/lixenwraith/navagent/audio"
	"github.com/lixenwraith/navagent/config"
	"github.com/lixenwraith/navagent/input"
	"github.com/lixenwraith/navagent/logging"
	"github.com/lixenwraith/navagent/render"
	"github.com/lixenwraith/navagent/status"
	"github.com/lixenwraith/navagent/stream"
	"github.com/lixenwraith/navagent/system"
)

var (
	configFlag  = flag.String("config", "", "TOML config file (built-in sample scene when empty)")
	debugFlag   = flag.Bool("debug", false, "Write debug log under the configured log dir")
	profileFlag = flag.String("profile", "", "Profile mode: cpu, mem")
	streamFlag  = flag.String("stream", "", "Serve websocket state stream on addr")
	muteFlag    = flag.Bool("mute", false, "Disable audio cues")
	metricsFlag = flag.Bool("metrics", false, "Attach metrics to streamed state")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "navagent: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *debugFlag {
		cfg.Log.Debug = true
	}
	if *streamFlag != "" {
		cfg.Stream.Enabled = true
		cfg.Stream.Addr = *streamFlag
	}
	if *muteFlag {
		cfg.Audio.Enabled = false
	}

	logger, logFile, err := logging.Setup(cfg.Log.Debug, cfg.Log.Dir, cfg.Log.ParsedLevel(), cfg.Log.Format)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	switch *profileFlag {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "":
	default:
		return errors.Errorf("unknown profile mode %q", *profileFlag)
	}

	registry, err := cfg.Scene.BuildRegistry()
	if err != nil {
		return errors.Wrap(err, "build scene meshes")
	}
	query, mode := cfg.Navigation.Precision()
	roster, err := cfg.Scene.BuildRoster(registry, query, mode)
	if err != nil {
		return errors.Wrap(err, "build scene agents")
	}

	viewport := input.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height}
	stats := status.NewRegistry()

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "init screen")
	}
	// Panic recovery: restore the terminal before reporting
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mNAVAGENT CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	cols, rows := screen.Size()
	mouse := input.NewMouseTracker(viewport, cols, render.PlayRows(rows))
	presenter := render.NewPresenter(screen, viewport, stats)

	audioCfg := audio.DefaultConfig()
	audioCfg.Enabled = cfg.Audio.Enabled
	audioCfg.MasterVolume = cfg.Audio.MasterVolume
	audioCfg.SampleRate = cfg.Audio.SampleRate
	for name, vol := range cfg.Audio.Volumes {
		if !audioCfg.SetVolume(name, vol) {
			logger.Warn("unknown audio cue", "cue", name)
		}
	}
	player := audio.NewCuePlayer(audioCfg, stats, logger)
	if err := player.Start(); err != nil {
		logger.Warn("audio start failed, continuing without audio", "error", err)
		audioCfg.Enabled = false
	}
	defer player.Stop()

	opts := []system.Option{
		system.WithStats(stats),
		system.WithLogger(logger),
		system.WithSink(system.NewLogSink(logger)),
		system.WithSink(player),
		system.WithPresenter(presenter),
	}

	if cfg.Stream.Enabled {
		hub, err := stream.NewHub(stream.HubConfig{
			Scene:   stream.NewSceneMessage(viewport, registry),
			Buffer:  cfg.Stream.Buffer,
			Stats:   stats,
			Logger:  logger,
			Metrics: *metricsFlag,
		})
		if err != nil {
			return err
		}
		defer hub.Close()

		mux := http.NewServeMux()
		mux.HandleFunc(cfg.Stream.Path, hub.Handle)
		srv := &http.Server{Addr: cfg.Stream.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("stream server failed", "addr", cfg.Stream.Addr, "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
		logger.Info("stream serving", "addr", cfg.Stream.Addr, "path", cfg.Stream.Path)

		opts = append(opts, system.WithPresenter(hub))
	}

	sim, err := system.New(viewport, registry, roster, opts...)
	if err != nil {
		return err
	}
	sim.Commander().Query = query
	sim.Commander().Mode = mode
	sim.Maintainer().DirtyDistance = cfg.Navigation.DirtyDistance
	sim.Maintainer().MinTicksBetweenCompute = uint64(cfg.Navigation.MinTicksBetweenCompute)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	h := &host{sim: sim, audio: player, view: presenter, quit: cancel}
	go pollEvents(screen, mouse, h)

	err = sim.Run(ctx, cfg.Loop.Interval(), mouse)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// pollEvents feeds terminal input until quit or screen shutdown
func pollEvents(screen tcell.Screen, mouse *input.MouseTracker, h *host) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
			cols, rows := screen.Size()
			mouse.Resize(cols, render.PlayRows(rows))
		case *tcell.EventMouse:
			mouse.HandleEvent(ev)
		case *tcell.EventKey:
			if !h.apply(input.KeyIntent(ev)) {
				return
			}
		}
	}
}
