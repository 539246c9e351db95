package skyisle

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gekko3d/skyisle/assets"
	"github.com/gekko3d/skyisle/rig"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Time      TimeConfig      `yaml:"time"`
	Player    PlayerConfig    `yaml:"player"`
	Camera    CameraConfig    `yaml:"camera"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Level     LevelConfig     `yaml:"level"`
	Logging   LoggingConfig   `yaml:"logging"`
	Debug     DebugConfig     `yaml:"debug"`
	Audio     AudioConfig     `yaml:"audio"`
	HotReload HotReloadConfig `yaml:"hot_reload"`

	// Path is the file the config was read from, empty for the embedded default.
	Path string `yaml:"-"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

type TimeConfig struct {
	FixedHz          float64 `yaml:"fixed_hz"`
	MaxFrameMs       int     `yaml:"max_frame_ms"`
	MaxStepsPerFrame int     `yaml:"max_steps_per_frame"`
}

type PlayerConfig struct {
	Speed            float32    `yaml:"speed"`
	SprintMultiplier float32    `yaml:"sprint_multiplier"`
	JumpForce        float32    `yaml:"jump_force"`
	RotationSpeed    float32    `yaml:"rotation_speed"`
	IdleDamping      float32    `yaml:"idle_damping"`
	Spawn            [3]float32 `yaml:"spawn"`
	Radius           float32    `yaml:"radius"`
	HalfHeight       float32    `yaml:"half_height"`
}

// CameraConfig angles are in degrees.
type CameraConfig struct {
	Distance          float32 `yaml:"distance"`
	MinDistance       float32 `yaml:"min_distance"`
	MaxDistance       float32 `yaml:"max_distance"`
	Height            float32 `yaml:"height"`
	Smoothing         float32 `yaml:"smoothing"`
	Pitch             float32 `yaml:"pitch"`
	MinPitch          float32 `yaml:"min_pitch"`
	MaxPitch          float32 `yaml:"max_pitch"`
	RotateSensitivity float32 `yaml:"rotate_sensitivity"`
	ZoomSensitivity   float32 `yaml:"zoom_sensitivity"`
	InvertY           bool    `yaml:"invert_y"`
	Fov               float32 `yaml:"fov"`
}

type PhysicsConfig struct {
	Gravity      float32 `yaml:"gravity"`
	GroundProbe  float32 `yaml:"ground_probe"`
	KillY        float32 `yaml:"kill_y"`
	// MaxFallSpeed caps downward speed; zero leaves falls uncapped.
	MaxFallSpeed float32 `yaml:"max_fall_speed"`
	CellSize     float32 `yaml:"cell_size"`
}

type LevelConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Prefix string `yaml:"prefix"`
}

type DebugConfig struct {
	PlayerIntervalS float64 `yaml:"player_interval_s"`
	CameraIntervalS float64 `yaml:"camera_interval_s"`
}

type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
}

type HotReloadConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig parses the embedded config.
func DefaultConfig() (*Config, error) {
	data, err := assets.LoadEmbedded(assets.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("read embedded config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse embedded config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads the embedded defaults and overlays path when it is not empty.
// Fields missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.Path = path
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	p, cam := c.Player, c.Camera

	if p.Speed <= 0 {
		errs = append(errs, fmt.Errorf("player.speed must be positive, got %v", p.Speed))
	}
	if p.SprintMultiplier < 1 {
		errs = append(errs, fmt.Errorf("player.sprint_multiplier must be >= 1, got %v", p.SprintMultiplier))
	}
	if p.JumpForce < 0 {
		errs = append(errs, fmt.Errorf("player.jump_force must not be negative, got %v", p.JumpForce))
	}
	if p.IdleDamping < 0 || p.IdleDamping > 1 {
		errs = append(errs, fmt.Errorf("player.idle_damping must be in [0,1], got %v", p.IdleDamping))
	}
	if p.Radius <= 0 || p.HalfHeight <= 0 {
		errs = append(errs, errors.New("player.radius and player.half_height must be positive"))
	}
	if cam.MinDistance <= 0 || cam.MinDistance > cam.MaxDistance {
		errs = append(errs, fmt.Errorf("camera distance range [%v, %v] is invalid", cam.MinDistance, cam.MaxDistance))
	} else if cam.Distance < cam.MinDistance || cam.Distance > cam.MaxDistance {
		errs = append(errs, fmt.Errorf("camera.distance %v is outside [%v, %v]", cam.Distance, cam.MinDistance, cam.MaxDistance))
	}
	if cam.MinPitch <= -90 || cam.MaxPitch >= 90 || cam.MinPitch >= cam.MaxPitch {
		errs = append(errs, fmt.Errorf("camera pitch range [%v, %v] must lie strictly inside (-90, 90)", cam.MinPitch, cam.MaxPitch))
	}
	if cam.Smoothing <= 0 {
		errs = append(errs, fmt.Errorf("camera.smoothing must be positive, got %v", cam.Smoothing))
	}
	if cam.Fov <= 0 || cam.Fov >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov must be in (0, 180), got %v", cam.Fov))
	}
	if c.Time.FixedHz <= 0 {
		errs = append(errs, fmt.Errorf("time.fixed_hz must be positive, got %v", c.Time.FixedHz))
	}
	if c.Physics.MaxFallSpeed < 0 {
		errs = append(errs, fmt.Errorf("physics.max_fall_speed must not be negative, got %v", c.Physics.MaxFallSpeed))
	}
	if c.Physics.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("physics.cell_size must be positive, got %v", c.Physics.CellSize))
	}

	return errors.Join(errs...)
}

func (c *Config) PlayerTuning() PlayerTuning {
	p := c.Player
	return PlayerTuning{
		Speed:            p.Speed,
		SprintMultiplier: p.SprintMultiplier,
		JumpForce:        p.JumpForce,
		RotationSpeed:    p.RotationSpeed,
		IdleDamping:      p.IdleDamping,
		Spawn:            mgl32.Vec3(p.Spawn),
		HalfExtents:      mgl32.Vec3{p.Radius, p.HalfHeight, p.Radius},
	}
}

func (c *Config) CameraTuning() CameraTuning {
	cam := c.Camera
	return CameraTuning{
		Height:            cam.Height,
		Smoothing:         cam.Smoothing,
		RotateSensitivity: cam.RotateSensitivity,
		ZoomSensitivity:   cam.ZoomSensitivity,
		InvertY:           cam.InvertY,
		Fov:               cam.Fov,
		Near:              0.1,
		Far:               500,
	}
}

func (c *Config) OrbitLimits() rig.OrbitLimits {
	cam := c.Camera
	return rig.OrbitLimits{
		MinPitch:    mgl32.DegToRad(cam.MinPitch),
		MaxPitch:    mgl32.DegToRad(cam.MaxPitch),
		MinDistance: cam.MinDistance,
		MaxDistance: cam.MaxDistance,
	}
}

func (c *Config) InitialOrbit() rig.Orbit {
	o := rig.Orbit{Pitch: mgl32.DegToRad(c.Camera.Pitch), Distance: c.Camera.Distance}
	o.Clamp(c.OrbitLimits())
	return o
}

func (c *Config) TimeModule() TimeModule {
	return TimeModule{
		FixedHz:          c.Time.FixedHz,
		MaxFrame:         time.Duration(c.Time.MaxFrameMs) * time.Millisecond,
		MaxStepsPerFrame: c.Time.MaxStepsPerFrame,
	}
}

func (c *Config) PhysicsWorld() *PhysicsWorld {
	w := NewPhysicsWorld(c.Physics.CellSize)
	w.Gravity = c.Physics.Gravity
	w.GroundProbe = c.Physics.GroundProbe
	w.KillY = c.Physics.KillY
	w.MaxFallSpeed = c.Physics.MaxFallSpeed
	return w
}

func (c *Config) DebugModule() DebugModule {
	return DebugModule{
		PlayerInterval: time.Duration(c.Debug.PlayerIntervalS * float64(time.Second)),
		CameraInterval: time.Duration(c.Debug.CameraIntervalS * float64(time.Second)),
	}
}

func (c *Config) LoggingModule() LoggingModule {
	return LoggingModule{Prefix: c.Logging.Prefix, Level: c.Logging.Level, Format: c.Logging.Format}
}
