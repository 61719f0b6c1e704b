package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/molleindustria/localplay/internal/body"
	"github.com/molleindustria/localplay/internal/camera"
	"github.com/molleindustria/localplay/internal/physics"
	"github.com/molleindustria/localplay/internal/session"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Movement  MovementConfig  `yaml:"movement"`
	Animation AnimationConfig `yaml:"animation"`
	Camera    CameraConfig    `yaml:"camera"`
	Session   SessionConfig   `yaml:"session"`
	Arena     ArenaConfig     `yaml:"arena"`
	Sim       SimConfig       `yaml:"sim"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type MovementConfig struct {
	Scheme        physics.Scheme `yaml:"scheme"`
	Speed         float64        `yaml:"speed"`
	SprintSpeed   float64        `yaml:"sprint_speed"`
	Gravity       float64        `yaml:"gravity"`
	JumpHeight    float64        `yaml:"jump_height"`
	RotationSpeed float64        `yaml:"rotation_speed"`
	LookRange     float64        `yaml:"look_range"`
	LookSmoothing float64        `yaml:"look_smoothing"`
	DeadZone      float64        `yaml:"dead_zone"`
}

type AnimationConfig struct {
	Speed         float64 `yaml:"speed"`
	SprintSpeed   float64 `yaml:"sprint_speed"`
	MoveThreshold float64 `yaml:"move_threshold"`
}

type CameraConfig struct {
	SmoothTime         float64    `yaml:"smooth_time"`
	AnticipateDistance float64    `yaml:"anticipate_distance"`
	LookAtTarget       bool       `yaml:"look_at_target"`
	SmoothRotation     bool       `yaml:"smooth_rotation"`
	RotationSmoothTime float64    `yaml:"rotation_smooth_time"`
	Offset             mgl64.Vec3 `yaml:"offset"`
}

type TeamConfig struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

type SessionConfig struct {
	MaxPlayers   int          `yaml:"max_players"`
	SplitScreen  bool         `yaml:"split_screen"`
	SharedCamera mgl64.Vec3   `yaml:"shared_camera"`
	Spawns       []mgl64.Vec3 `yaml:"spawns"`
	SpawnSpacing float64      `yaml:"spawn_spacing"`
	TeamSize     int          `yaml:"team_size"`
	TeamA        TeamConfig   `yaml:"team_a"`
	TeamB        TeamConfig   `yaml:"team_b"`
}

// ArenaConfig picks the collision primitive: "plane" is an endless floor,
// "voxel" a walled block arena.
type ArenaConfig struct {
	Mover    string `yaml:"mover"`
	FloorY   int    `yaml:"floor_y"`
	HalfSize int    `yaml:"half_size"`
	Walls    bool   `yaml:"walls"`
}

type SimConfig struct {
	TickRate int  `yaml:"tick_rate"`
	Frames   int  `yaml:"frames"`
	Players  int  `yaml:"players"`
	Parallel bool `yaml:"parallel"`
}

func Default() *Config {
	c := physics.DefaultConstants()
	anim := body.DefaultAnimationConfig()
	cam := camera.DefaultConfig()
	sess := session.DefaultConfig()
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Movement: MovementConfig{
			Scheme:        sess.Scheme,
			Speed:         c.Speed,
			SprintSpeed:   c.SprintSpeed,
			Gravity:       c.Gravity,
			JumpHeight:    c.JumpHeight,
			RotationSpeed: c.RotationSpeed,
			LookRange:     c.LookRange,
			LookSmoothing: c.LookSmoothing,
			DeadZone:      c.DeadZone,
		},
		Animation: AnimationConfig{
			Speed:         anim.Speed,
			SprintSpeed:   anim.SprintSpeed,
			MoveThreshold: anim.MoveThreshold,
		},
		Camera: CameraConfig{
			SmoothTime:         cam.SmoothTime,
			AnticipateDistance: cam.AnticipateDistance,
			LookAtTarget:       cam.LookAtTarget,
			SmoothRotation:     cam.SmoothRotation,
			RotationSmoothTime: cam.RotationSmoothTime,
			Offset:             sess.CameraOffset,
		},
		Session: SessionConfig{
			MaxPlayers:   sess.MaxPlayers,
			SplitScreen:  sess.SplitScreen,
			SharedCamera: sess.SharedCamera,
			SpawnSpacing: sess.SpawnSpacing,
			TeamSize:     sess.TeamSize,
			TeamA:        TeamConfig{Name: sess.TeamA.Name, Color: sess.TeamA.Color.Hex()},
			TeamB:        TeamConfig{Name: sess.TeamB.Name, Color: sess.TeamB.Color.Hex()},
		},
		Arena: ArenaConfig{Mover: "voxel", FloorY: -1, HalfSize: 16, Walls: true},
		Sim:   SimConfig{TickRate: 60, Frames: 600, Players: 2},
	}
}

// Load reads path over the defaults, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "text", "json":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalid, c.Logging.Format)
	}

	m := c.Movement
	if m.Speed < 0 || m.SprintSpeed < 0 {
		return fmt.Errorf("%w: movement speeds must not be negative", ErrInvalid)
	}
	if m.Gravity >= 0 {
		return fmt.Errorf("%w: movement.gravity must be negative, got %g", ErrInvalid, m.Gravity)
	}
	if m.JumpHeight < 0 {
		return fmt.Errorf("%w: movement.jump_height must not be negative", ErrInvalid)
	}
	if m.LookRange < 0 || m.LookRange > 90 {
		return fmt.Errorf("%w: movement.look_range must be within [0, 90], got %g", ErrInvalid, m.LookRange)
	}
	if m.DeadZone < 0 || m.DeadZone >= 1 {
		return fmt.Errorf("%w: movement.dead_zone must be within [0, 1), got %g", ErrInvalid, m.DeadZone)
	}
	if m.LookSmoothing < 0 || c.Camera.SmoothTime < 0 || c.Camera.RotationSmoothTime < 0 {
		return fmt.Errorf("%w: smoothing times must not be negative", ErrInvalid)
	}

	s := c.Session
	if s.MaxPlayers <= 0 {
		return fmt.Errorf("%w: session.max_players must be positive", ErrInvalid)
	}
	if s.TeamSize < 0 {
		return fmt.Errorf("%w: session.team_size must not be negative", ErrInvalid)
	}
	for _, team := range []TeamConfig{s.TeamA, s.TeamB} {
		if _, err := colorful.Hex(team.Color); err != nil {
			return fmt.Errorf("%w: team %s color %q: %v", ErrInvalid, team.Name, team.Color, err)
		}
	}

	switch c.Arena.Mover {
	case "plane":
	case "voxel":
		if c.Arena.HalfSize <= 0 {
			return fmt.Errorf("%w: arena.half_size must be positive", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: arena.mover %q", ErrInvalid, c.Arena.Mover)
	}

	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("%w: sim.tick_rate must be positive", ErrInvalid)
	}
	if c.Sim.Players < 0 || c.Sim.Players > s.MaxPlayers {
		return fmt.Errorf("%w: sim.players must be within [0, %d]", ErrInvalid, s.MaxPlayers)
	}
	return nil
}

func (m MovementConfig) Constants() physics.Constants {
	return physics.Constants{
		Speed:         m.Speed,
		SprintSpeed:   m.SprintSpeed,
		Gravity:       m.Gravity,
		JumpHeight:    m.JumpHeight,
		RotationSpeed: m.RotationSpeed,
		LookRange:     m.LookRange,
		LookSmoothing: m.LookSmoothing,
		DeadZone:      m.DeadZone,
	}
}

func (c CameraConfig) Follow() camera.Config {
	cfg := camera.DefaultConfig()
	cfg.SmoothTime = c.SmoothTime
	cfg.AnticipateDistance = c.AnticipateDistance
	cfg.LookAtTarget = c.LookAtTarget
	cfg.SmoothRotation = c.SmoothRotation
	cfg.RotationSmoothTime = c.RotationSmoothTime
	return cfg
}

func (t TeamConfig) Team() (session.Team, error) {
	color, err := colorful.Hex(t.Color)
	if err != nil {
		return session.Team{}, fmt.Errorf("team %s: %w", t.Name, err)
	}
	return session.Team{Name: t.Name, Color: color}, nil
}

// SessionConfig assembles the session composition from every section.
func (c *Config) SessionConfig() (session.Config, error) {
	teamA, err := c.Session.TeamA.Team()
	if err != nil {
		return session.Config{}, err
	}
	teamB, err := c.Session.TeamB.Team()
	if err != nil {
		return session.Config{}, err
	}
	return session.Config{
		MaxPlayers: c.Session.MaxPlayers,
		Scheme:     c.Movement.Scheme,
		Constants:  c.Movement.Constants(),
		Animation: body.AnimationConfig{
			Speed:         c.Animation.Speed,
			SprintSpeed:   c.Animation.SprintSpeed,
			MoveThreshold: c.Animation.MoveThreshold,
		},
		Camera:       c.Camera.Follow(),
		SplitScreen:  c.Session.SplitScreen,
		CameraOffset: c.Camera.Offset,
		SharedCamera: c.Session.SharedCamera,
		Spawns:       c.Session.Spawns,
		SpawnSpacing: c.Session.SpawnSpacing,
		TeamSize:     c.Session.TeamSize,
		TeamA:        teamA,
		TeamB:        teamB,
	}, nil
}

// TickInterval is the fixed frame time in seconds.
func (s SimConfig) TickInterval() float64 {
	return 1 / float64(s.TickRate)
}
