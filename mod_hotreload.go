package skyisle

import (
	"log/slog"
	"path/filepath"
)

// HotReload dispatches file changes to handlers registered per path.
// Handler errors are logged and the previous state is kept.
type HotReload struct {
	watcher  *Watcher
	handlers map[string][]func(path string) error
	dirs     map[string]bool
}

func NewHotReload() (*HotReload, error) {
	w, err := NewWatcher()
	if err != nil {
		return nil, err
	}
	return &HotReload{
		watcher:  w,
		handlers: make(map[string][]func(string) error),
		dirs:     make(map[string]bool),
	}, nil
}

func watchKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Watch calls fn whenever path changes on disk.
func (h *HotReload) Watch(path string, fn func(path string) error) error {
	key := watchKey(path)
	dir := filepath.Dir(key)
	if !h.dirs[dir] {
		if err := h.watcher.watcher.Add(dir); err != nil {
			return err
		}
		h.dirs[dir] = true
	}
	h.handlers[key] = append(h.handlers[key], fn)
	return nil
}

func (h *HotReload) Close() error {
	return h.watcher.Close()
}

// Drain handles every pending change without blocking.
func (h *HotReload) Drain(log Logger) {
	for {
		select {
		case path, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			for _, fn := range h.handlers[watchKey(path)] {
				if err := fn(path); err != nil {
					log.Warnf("reload %s failed, keeping previous: %v", path, err)
					continue
				}
				log.Infof("reloaded %s", path)
			}
		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			log.Warnf("file watcher: %v", err)
		default:
			return
		}
	}
}

// HotReloadModule watches the config and level files the app was started with.
// Install it after the modules whose resources it updates.
type HotReloadModule struct {
	Config *Config
}

func (m HotReloadModule) Install(app *App, cmd *Commands) {
	log := app.Logger()
	hr, err := NewHotReload()
	if err != nil {
		log.Warnf("hot reload disabled: %v", err)
		return
	}
	cmd.AddResources(hr)

	if cfg := m.Config; cfg != nil && cfg.Path != "" {
		if err := hr.Watch(cfg.Path, func(path string) error {
			next, err := LoadConfig(path)
			if err != nil {
				return err
			}
			applyConfig(app, next)
			return nil
		}); err != nil {
			log.Warnf("cannot watch %s: %v", cfg.Path, err)
		}
	}
	if m.Config != nil && m.Config.Level.Path != "" {
		if err := hr.Watch(m.Config.Level.Path, func(path string) error {
			return reloadLevel(app, path)
		}); err != nil {
			log.Warnf("cannot watch %s: %v", m.Config.Level.Path, err)
		}
	}

	app.UseSystem(
		System(hotReloadSystem).
			InStage(PostUpdate).
			RunAlways(),
	)
}

func hotReloadSystem(hr *HotReload, cmd *Commands) {
	hr.Drain(cmd.Logger())
}

// applyConfig pushes tuning values into the live resources. Window, time step
// and level path changes need a restart.
func applyConfig(app *App, cfg *Config) {
	if tuning, ok := Resource[PlayerTuning](app); ok {
		*tuning = cfg.PlayerTuning()
	}
	if camera, ok := Resource[CameraRig](app); ok {
		camera.Tuning = cfg.CameraTuning()
		camera.Limits = cfg.OrbitLimits()
		camera.Orbit.Clamp(camera.Limits)
	}
	if world, ok := Resource[PhysicsWorld](app); ok {
		world.Gravity = cfg.Physics.Gravity
		world.GroundProbe = cfg.Physics.GroundProbe
		world.KillY = cfg.Physics.KillY
		world.MaxFallSpeed = cfg.Physics.MaxFallSpeed
	}
	if state, ok := Resource[debugState](app); ok {
		d := cfg.DebugModule()
		state.playerInterval, state.cameraInterval = d.PlayerInterval, d.CameraInterval
	}
	app.Logger().SetDebug(parseLevel(cfg.Logging.Level) <= slog.LevelDebug)
}

func reloadLevel(app *App, path string) error {
	spec, err := LoadLevel(path)
	if err != nil {
		return err
	}
	server, ok := Resource[AssetServer](app)
	if !ok {
		server = NewAssetServer()
	}
	next, err := BuildLevel(spec, server)
	if err != nil {
		return err
	}
	if level, ok := Resource[Level](app); ok {
		*level = *next
	}
	if world, ok := Resource[PhysicsWorld](app); ok {
		world.SetColliders(next.Colliders())
	}
	return nil
}
