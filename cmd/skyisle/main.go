package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gekko3d/skyisle"
	"github.com/gekko3d/skyisle/audio"
	"github.com/gekko3d/skyisle/minimap"
	"github.com/gekko3d/skyisle/platform"
	glrender "github.com/gekko3d/skyisle/render/opengl"
	wgpurender "github.com/gekko3d/skyisle/render/wgpu"
	"github.com/gekko3d/skyisle/script"
	"github.com/gekko3d/skyisle/term"
)

func init() {
	// glfw and OpenGL calls must stay on the main thread
	runtime.LockOSThread()
}

const usage = `usage:
  skyisle run [-config path] [-mode window|term|headless] [-renderer wgpu|opengl]
              [-script autopilot|path] [-frames n] [-log-level level] [-log-file path] [-hot-reload]
  skyisle map [-config path] [-out island.png] [-scale px] [-labels]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = runCommand(os.Args[2:])
	case "map":
		err = mapCommand(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "skyisle: %v\n", err)
		os.Exit(1)
	}
}

type runOptions struct {
	configPath string
	mode       string
	renderer   string
	script     string
	frames     int
	logLevel   string
	logFile    string
	hotReload  bool
}

func runCommand(args []string) error {
	var opts runOptions
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "config file overriding the embedded defaults")
	fs.StringVar(&opts.mode, "mode", "window", "window, term or headless")
	fs.StringVar(&opts.renderer, "renderer", string(skyisle.RendererWGPU), "window renderer: wgpu or opengl")
	fs.StringVar(&opts.script, "script", "", "drive the player with a tengo script; \"autopilot\" is the built-in one")
	fs.IntVar(&opts.frames, "frames", 0, "stop after n frames (0 runs until quit)")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&opts.logFile, "log-file", "", "log file (term mode defaults to skyisle.log)")
	fs.BoolVar(&opts.hotReload, "hot-reload", false, "reload config, level and script files on change")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := skyisle.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.hotReload {
		cfg.HotReload.Enabled = true
	}

	app, cleanup, err := buildApp(cfg, opts)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = app.Run(ctx)
	if player, ok := skyisle.Resource[skyisle.Player](app); ok {
		p := player.Position
		app.Logger().Infof("stopped after %d frames, player at (%.2f, %.2f, %.2f)", app.Frames(), p.X(), p.Y(), p.Z())
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func buildApp(cfg *skyisle.Config, opts runOptions) (*skyisle.App, func(), error) {
	cleanup := func() {}

	logging := cfg.LoggingModule()
	logFile := opts.logFile
	if logFile == "" && opts.mode == "term" {
		logFile = "skyisle.log"
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, cleanup, fmt.Errorf("open log file: %w", err)
		}
		logging.Output = f
		cleanup = func() { f.Close() }
	}

	timeModule := cfg.TimeModule()
	if opts.mode == "headless" {
		timeModule.Clock = skyisle.NewStepClock(time.Duration(float64(time.Second) / cfg.Time.FixedHz))
	}

	spec, err := skyisle.LoadLevel(cfg.Level.Path)
	if err != nil {
		return nil, cleanup, err
	}
	tuning := cfg.PlayerTuning()
	orbit := cfg.InitialOrbit()
	limits := cfg.OrbitLimits()
	cameraTuning := cfg.CameraTuning()

	app := skyisle.NewAppBuilder().
		UseStates(skyisle.StatePlaying, skyisle.StateQuit).
		MaxFrames(opts.frames).
		UseModule(
			logging,
			timeModule,
			skyisle.InputModule{},
			skyisle.GameStateModule{},
			skyisle.AssetServerModule{},
			skyisle.LevelModule{Spec: spec},
			skyisle.CameraModule{Orbit: &orbit, Limits: &limits, Tuning: &cameraTuning},
			skyisle.PlayerModule{Tuning: &tuning},
			skyisle.PhysicsModule{World: cfg.PhysicsWorld()},
			cfg.DebugModule(),
		).
		Build()

	if cfg.HotReload.Enabled {
		app.UseModules(skyisle.HotReloadModule{Config: cfg})
	}

	switch opts.mode {
	case "window":
		name, err := skyisle.ParseRendererName(opts.renderer)
		if err != nil {
			return nil, cleanup, err
		}
		window := platform.WindowModule{
			Width:  cfg.Window.Width,
			Height: cfg.Window.Height,
			Title:  cfg.Window.Title,
			VSync:  cfg.Window.VSync,
		}
		switch name {
		case skyisle.RendererWGPU:
			window.API = platform.NoAPI
			app.UseModules(window)
			app.UseRenderer(name, wgpurender.Module{})
		case skyisle.RendererOpenGL:
			window.API = platform.OpenGL
			app.UseModules(window)
			app.UseRenderer(name, glrender.Module{})
		default:
			return nil, cleanup, fmt.Errorf("renderer %s cannot open a window", name)
		}
	case "term":
		app.UseRenderer(skyisle.RendererTerminal, term.Module{})
	case "headless":
		app.UseRenderer(skyisle.RendererNone, nil)
		if opts.script == "" && opts.frames == 0 {
			app.Logger().Warnf("headless without a script or frame limit runs until interrupted")
		}
	default:
		return nil, cleanup, fmt.Errorf("unknown mode %q", opts.mode)
	}

	if opts.script != "" {
		path := opts.script
		if path == script.DefaultScript {
			path = ""
		}
		app.UseModules(script.Module{Path: path})
	}
	if cfg.Audio.Enabled && opts.mode != "headless" {
		app.UseModules(audio.Module{Volume: cfg.Audio.Volume})
	}
	return app, cleanup, nil
}

func mapCommand(args []string) error {
	opts := minimap.DefaultOptions()
	fs := flag.NewFlagSet("map", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file overriding the embedded defaults")
	out := fs.String("out", "island.png", "output PNG")
	scale := fs.Float64("scale", float64(opts.Scale), "pixels per world unit")
	fs.BoolVar(&opts.Labels, "labels", opts.Labels, "label the floating platforms")
	if err := fs.Parse(args); err != nil {
		return err
	}
	opts.Scale = float32(*scale)

	cfg, err := skyisle.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	spec, err := skyisle.LoadLevel(cfg.Level.Path)
	if err != nil {
		return err
	}
	level, err := skyisle.BuildLevel(spec, skyisle.NewAssetServer())
	if err != nil {
		return err
	}
	if err := minimap.Export(*out, level, cfg.PlayerTuning().Spawn, opts); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d props)\n", *out, len(level.Props))
	return nil
}
