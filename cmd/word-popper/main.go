package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-chi/chi/v5"

	"github.com/lixenwraith/word-popper/audio"
	"github.com/lixenwraith/word-popper/config"
	"github.com/lixenwraith/word-popper/constants"
	"github.com/lixenwraith/word-popper/core"
	"github.com/lixenwraith/word-popper/debugapi"
	"github.com/lixenwraith/word-popper/engine"
	"github.com/lixenwraith/word-popper/game"
	"github.com/lixenwraith/word-popper/input"
	"github.com/lixenwraith/word-popper/recognition"
	"github.com/lixenwraith/word-popper/render"
	"github.com/lixenwraith/word-popper/status"
)

// Speech page endpoint when the browser recognizer runs without the debug server
const defaultSpeechAddr = "127.0.0.1:8089"

var (
	configFlag     = flag.String("config", "", "TOML config file")
	envFlag        = flag.String("env", ".env", "dotenv file, ignored if missing")
	debugFlag      = flag.Bool("debug", false, "Enable debug keys, panel and file logging")
	recognizerFlag = flag.String("recognizer", "", "Recognizer: typed, bridge, mqtt, browser")
	addrFlag       = flag.String("addr", "", "Debug HTTP listen address")
	muteFlag       = flag.Bool("mute", false, "Start with sound disabled")
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	if logFile := setupLogging(cfg.Debug.Enabled); logFile != nil {
		defer logFile.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	core.SetCrashTerminal(screen)
	defer func() {
		core.SetCrashTerminal(nil)
		screen.Fini()
	}()

	if err := run(cfg, screen); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "word-popper: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers command-line flags over the loaded configuration
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(*configFlag, *envFlag)
	if err != nil {
		return config.Config{}, err
	}
	if *debugFlag {
		cfg.Debug.Enabled = true
	}
	if *recognizerFlag != "" {
		cfg.Recognition.Mode = *recognizerFlag
	}
	if *addrFlag != "" {
		cfg.Debug.APIAddr = *addrFlag
	}
	return cfg, cfg.Validate()
}

func run(cfg config.Config, screen tcell.Screen) error {
	loop := engine.NewLoop(constants.LoopInboxSize)
	loop.Start()
	defer loop.Stop()

	sched := engine.NewLoopScheduler(loop)
	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	world := engine.NewWorld(sched, cfg.Game.InitialLives, rand.New(rand.NewSource(seed)))

	sessionID := world.Status.Strings.Get(status.SessionID).Load
	source, speech := buildSource(cfg, sessionID)
	if source != nil {
		defer source.Close()
	}

	ctrl, err := game.NewController(world, cfg, source, loop)
	if err != nil {
		return err
	}

	renderer := render.NewTerminalRenderer(screen, cfg, world.Status)
	sound := audio.NewSoundManager()
	if !*muteFlag {
		_ = sound.Initialize()
	}
	defer sound.Cleanup()

	// Handlers register before the loop delivers any event
	if !loop.Call(func() {
		world.Events.Register(renderer)
		world.Events.Register(sound)
		world.Events.Register(game.NewLogHandler(world))
	}) {
		return errors.New("game loop stopped before start")
	}

	frame := sched.Every(cfg.Game.FrameInterval(), frameTick(loop, world.Status, renderer.Draw))
	defer frame.Stop()

	shutdown, err := startHTTP(cfg, loop, ctrl, world.Status, speech)
	if err != nil {
		return err
	}
	defer shutdown()

	log.Printf("[main] recognizer=%s seed=%d", cfg.Recognition.Mode, seed)

	actions := newGameActions(loop, ctrl, renderer, sound, screen)
	input.NewHandler(actions, cfg.Debug.Enabled).Run(screen)

	loop.Call(func() {
		if ctrl.State() == game.StateRunning || ctrl.State() == game.StatePaused {
			_ = ctrl.End()
		}
	})
	return nil
}

// frameTick publishes loop throughput for the debug panel, then draws
func frameTick(loop *engine.Loop, reg *status.Registry, draw func()) func() {
	processed := reg.Ints.Get(status.LoopProcessed)
	return func() {
		processed.Store(int64(loop.Processed()))
		draw()
	}
}

// buildSource selects the recognition source; typed mode has none
func buildSource(cfg config.Config, sessionID func() string) (recognition.Source, http.Handler) {
	r := cfg.Recognition
	switch r.Mode {
	case config.RecognizerBridge:
		return recognition.NewBridgeSource(recognition.BridgeConfig{
			URL:             r.BridgeURL,
			Lang:            r.Lang,
			MaxAlternatives: r.MaxAlternatives,
			SessionID:       sessionID,
		}), nil
	case config.RecognizerMQTT:
		return recognition.NewMQTTSource(recognition.MQTTConfig{
			BrokerURL: r.MQTTBroker,
			ClientID:  r.MQTTClientID,
			Username:  r.MQTTUsername,
			Password:  r.MQTTPassword,
			Topic:     r.MQTTTopic,
			Lang:      r.Lang,
			SessionID: sessionID,
		}), nil
	case config.RecognizerBrowser:
		feed := recognition.NewFeedSource("browser")
		return feed, recognition.NewWebSocketHandler(feed, r.Lang)
	default:
		return nil, nil
	}
}

// startHTTP serves the debug API, or only the speech socket when the browser
// recognizer runs without debug mode
func startHTTP(cfg config.Config, loop *engine.Loop, ctrl *game.Controller, reg *status.Registry, speech http.Handler) (func(), error) {
	if cfg.Debug.Enabled && cfg.Debug.APIAddr != "" {
		srv := debugapi.NewServer(loop, ctrl, reg, speech)
		if _, err := srv.Start(cfg.Debug.APIAddr); err != nil {
			return nil, fmt.Errorf("debug server: %w", err)
		}
		return func() { shutdownServer(srv.Shutdown) }, nil
	}

	if speech == nil {
		return func() {}, nil
	}

	addr := cfg.Debug.APIAddr
	if addr == "" {
		addr = defaultSpeechAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("speech socket: %w", err)
	}
	router := chi.NewRouter()
	router.Handle("/ws/speech", speech)
	srv := &http.Server{Handler: router, ReadHeaderTimeout: 5 * time.Second}
	core.Go(func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[main] speech socket: %v", err)
		}
	})
	log.Printf("[main] speech socket on %s", ln.Addr())
	return func() { shutdownServer(srv.Shutdown) }, nil
}

func shutdownServer(fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Printf("[main] http shutdown: %v", err)
	}
}
